// Package shell runs the console: the interactive readline loop and batch
// execution, both driving the same assist engine.
package shell

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"cmdconsole/internal/builtin"
	"cmdconsole/internal/catalog"
	"cmdconsole/internal/config"
	"cmdconsole/internal/logger"
	"cmdconsole/internal/render"
	"cmdconsole/pkg/assist"
	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/history"
	"cmdconsole/pkg/namespace"
)

// CommentPrefix starts a line that is ignored.
const CommentPrefix = "#"

// Console owns the engine, history and output of one session.
type Console struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	// builtins holds the builtin commands, reachable from every directory.
	builtins *namespace.Directory
	engine   *assist.Engine
	history  *history.History
	renderer *render.Renderer
	out      io.Writer
	errOut   io.Writer
	log      *log.Logger

	// pending holds a rebuilt namespace waiting to replace the current one
	// before the next line is read.
	pending atomic.Pointer[namespace.Directory]
	exit    bool
}

// New builds a console from cfg and an optional catalog. Output of commands
// goes to out; rendered errors go to errOut.
func New(cfg *config.Config, cat *catalog.Catalog, out, errOut io.Writer) (*Console, error) {
	color := cfg.Color
	if cfg.TestMode {
		color = config.ColorNever
	}
	c := &Console{
		cfg:     cfg,
		catalog: cat,
		history: history.New(cfg.HistoryCapacity),
		renderer: render.New(out, render.Options{
			Color:          color,
			MaxSuggestions: cfg.MaxSuggestions,
		}),
		out:    out,
		errOut: errOut,
		log:    logger.NewStyledLogger("shell"),
	}
	scope := namespace.NewRoot()
	if err := builtin.Register(scope, c); err != nil {
		return nil, err
	}
	builtins, err := scope.Build()
	if err != nil {
		return nil, err
	}
	c.builtins = builtins
	root, err := c.buildRoot(cat)
	if err != nil {
		return nil, err
	}
	c.engine = assist.New(root)
	c.engine.SetGlobals(c.builtins)
	return c, nil
}

// buildRoot assembles the builtins and the catalog into a fresh namespace.
func (c *Console) buildRoot(cat *catalog.Catalog) (*namespace.Directory, error) {
	root := namespace.NewRoot()
	if err := root.AddCommands(c.builtins.Commands().Values()...); err != nil {
		return nil, fmt.Errorf("builtin: %w", err)
	}
	if cat != nil {
		if err := cat.Register(root, c.cfg.LookupEnv); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", cat.Source, err)
		}
	}
	dir, err := root.Build()
	if err != nil {
		return nil, err
	}
	if err := assist.CheckGlobals(dir, c.builtins); err != nil {
		if cat != nil {
			return nil, fmt.Errorf("catalog %s: %w", cat.Source, err)
		}
		return nil, err
	}
	n := 0
	dir.Walk(func(cmdtypes.Path, *namespace.Command) bool {
		n++
		return true
	})
	c.log.Debug("Namespace built", "commands", n)
	return dir, nil
}

// Engine returns the assist engine.
func (c *Console) Engine() *assist.Engine { return c.engine }

// History returns the line history.
func (c *Console) History() *history.History { return c.history }

// Renderer returns the output renderer.
func (c *Console) Renderer() *render.Renderer { return c.renderer }

// Exit stops the console after the current line.
func (c *Console) Exit() { c.exit = true }

// Exited reports whether exit was requested.
func (c *Console) Exited() bool { return c.exit }

// Reload rebuilds the namespace from cat. The swap happens before the next
// line is read; Reload may be called from any goroutine.
func (c *Console) Reload(cat *catalog.Catalog) error {
	root, err := c.buildRoot(cat)
	if err != nil {
		return err
	}
	c.pending.Store(root)
	return nil
}

// applyPending installs a namespace stored by Reload.
func (c *Console) applyPending() {
	root := c.pending.Swap(nil)
	if root == nil {
		return
	}
	before := c.engine.WorkingDirectory()
	if !c.engine.SetRoot(root) {
		c.log.Warn("Working directory no longer exists", "path", before.String())
	}
	c.log.Info("Namespace reloaded")
}

// ExecuteLine parses and runs one line. Blank lines and comments are
// ignored. Failures are rendered to the error stream and returned.
func (c *Console) ExecuteLine(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, CommentPrefix) {
		return nil
	}
	c.history.Push(line)

	inv, err := c.engine.Parse(line)
	if err != nil {
		c.log.Debug("Parse failed", "input", line, "error", err)
		fmt.Fprintln(c.errOut, c.renderer.Error(err))
		return err
	}
	logger.CommandExecution(inv.ID, inv.Path().String(), inv.Args.Map())
	if err := inv.Run(ctx, cmdtypes.NewWriterOutput(c.out)); err != nil {
		if namespace.IsUnhandled(err) {
			c.log.Error("Command crashed", "id", inv.ID, "command", inv.Path().String(), "error", err)
		}
		fmt.Fprintln(c.errOut, c.renderer.Error(err))
		return err
	}
	return nil
}

// Complete completes line at a byte cursor.
func (c *Console) Complete(line string, cursor int) assist.Completion {
	comp := c.engine.Complete(line, cursor)
	logger.CompletionRequest(line, cursor, comp.Match.String())
	return comp
}
