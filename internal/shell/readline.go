package shell

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/chzyer/readline"
	"golang.org/x/sync/errgroup"

	"cmdconsole/internal/catalog"
	"cmdconsole/pkg/trie"
)

// completer adapts the engine to readline's tab completion.
type completer struct{ c *Console }

// Do returns the candidate suffixes for the fragment before pos and the
// fragment's length in runes.
func (a completer) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	comp := a.c.Complete(string(line), len(head))
	if comp.Err != nil || comp.Match == trie.MatchNone {
		return nil, 0
	}
	offset := utf8.RuneCountInString(comp.Prefix)
	if comp.Match == trie.MatchUnique {
		return [][]rune{[]rune(comp.Append)}, offset
	}
	out := make([][]rune, 0, len(comp.Suggestions))
	for _, s := range comp.Suggestions {
		// Bool values match case-insensitively, so "T" may suggest "true".
		if len(s) >= len(comp.Prefix) && strings.EqualFold(s[:len(comp.Prefix)], comp.Prefix) {
			s = s[len(comp.Prefix):]
		}
		out = append(out, []rune(s))
	}
	return out, offset
}

// historyKeys replaces the line with history entries on up and down.
type historyKeys struct{ c *Console }

// OnChange implements readline.Listener.
func (h historyKeys) OnChange(line []rune, pos int, key rune) ([]rune, int, bool) {
	var (
		entry string
		ok    bool
	)
	switch key {
	case readline.CharPrev:
		entry, ok = h.c.history.Prev()
	case readline.CharNext:
		entry, ok = h.c.history.Next()
	default:
		return line, pos, false
	}
	if !ok {
		return line, pos, false
	}
	r := []rune(entry)
	return r, len(r), true
}

func (c *Console) readlineConfig() *readline.Config {
	return &readline.Config{
		Prompt:       c.prompt(),
		AutoComplete: completer{c},
		Listener:     historyKeys{c},
		// Navigation goes through Console.history.
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		Stdout:                 c.out,
		Stderr:                 c.errOut,
	}
}

func (c *Console) prompt() string {
	return c.renderer.Prompt(c.engine.WorkingDirectory(), c.cfg.Prompt)
}

// Run reads and executes lines until exit, end of input or ctx is done.
// With catalog watching on, catalog changes are picked up between lines.
func (c *Console) Run(ctx context.Context) error {
	rl, err := readline.NewEx(c.readlineConfig())
	if err != nil {
		return err
	}
	defer rl.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if w := c.watcher(); w != nil {
		g.Go(func() error { return w.Run(gctx, c.onCatalog) })
	}
	g.Go(func() error {
		defer cancel()
		return c.loop(gctx, rl)
	})
	return g.Wait()
}

func (c *Console) loop(ctx context.Context, rl *readline.Instance) error {
	for !c.exit {
		if ctx.Err() != nil {
			return nil
		}
		c.applyPending()
		rl.SetPrompt(c.prompt())

		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			c.history.Reset()
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
		_ = c.ExecuteLine(ctx, line)
	}
	return nil
}

func (c *Console) watcher() *catalog.Watcher {
	if !c.cfg.WatchCatalog || c.catalog == nil || c.catalog.Source == "" {
		return nil
	}
	w, err := catalog.NewWatcher(c.catalog.Source, 0)
	if err != nil {
		c.log.Warn("Catalog watching disabled", "path", c.catalog.Source, "error", err)
		return nil
	}
	return w
}

func (c *Console) onCatalog(cat *catalog.Catalog) {
	if err := c.Reload(cat); err != nil {
		c.log.Warn("Catalog rejected", "path", cat.Source, "error", err)
	}
}
