package assist

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/namespace"
	"cmdconsole/pkg/params"
	"cmdconsole/pkg/trie"
)

// Decorations appended after a uniquely completed word.
const (
	DirectorySuffix = cmdtypes.Delimiter
	CommandSuffix   = " "
)

// Completion is the outcome of completing a line at a cursor.
type Completion struct {
	// Line is the line with the completion applied.
	Line string
	// Cursor is the byte offset of the cursor in Line.
	Cursor int
	// Append is the text inserted at the cursor.
	Append string
	// Prefix is the fragment before the cursor that was completed: the last
	// path segment, or the value part of a name=value token.
	Prefix string
	Match  trie.Match
	// Suggestions are the candidates for the token under the cursor.
	Suggestions []string
	// Err is set when the text before the token under the cursor does not
	// resolve; Line and Cursor are then unchanged.
	Err error
}

// Complete completes the token ending at cursor, a byte offset into line.
// Text after the cursor is preserved. Complete never mutates the engine.
func (e *Engine) Complete(line string, cursor int) Completion {
	cursor = clampCursor(line, cursor)
	head := line[:cursor]

	toks := tokenize(head)
	partial := ""
	if n := len(toks); n > 0 && !endsWithSpace(head) {
		partial = toks[n-1].text
		toks = toks[:n-1]
	}

	c, prefix, err := e.completeToken(toks, partial)
	if err != nil {
		return Completion{Line: line, Cursor: cursor, Err: err}
	}
	return Completion{
		Line:        head + c.Append + line[cursor:],
		Cursor:      cursor + len(c.Append),
		Append:      c.Append,
		Prefix:      prefix,
		Match:       c.Match,
		Suggestions: c.Suggestions,
	}
}

// completeToken resolves the complete tokens before the cursor and asks the
// relevant index for completions of partial. It also returns the fragment of
// partial the completion extends.
func (e *Engine) completeToken(prior []token, partial string) (trie.Completion, string, error) {
	if len(prior) == 0 {
		return e.completePath(partial)
	}

	tgt, err := e.resolveTarget(prior[0].text)
	if err != nil {
		return trie.Completion{}, "", err
	}
	rest := prior[1:]
	cmd := tgt.cmd
	if cmd == nil {
		if len(rest) == 0 {
			c, err := completeIn(tgt.frames, partial, tgt.dir().Entries().Filter(isCommand))
			return c, partial, err
		}
		if cmd, err = commandIn(tgt.frames, rest[0].text); err != nil {
			return trie.Completion{}, "", err
		}
		rest = rest[1:]
	}

	b := newBinding(cmd)
	for _, tok := range rest {
		if err := b.accept(tok.text); err != nil {
			return trie.Completion{}, "", err
		}
	}
	return b.complete(partial)
}

// completePath completes the leading token against directory entries.
func (e *Engine) completePath(partial string) (trie.Completion, string, error) {
	dirPart, leaf := "", partial
	if i := strings.LastIndex(partial, cmdtypes.Delimiter); i >= 0 {
		dirPart, leaf = partial[:i+1], partial[i+1:]
	}

	frames := e.start(false)
	if dirPart != "" {
		tgt, err := e.resolveTarget(dirPart)
		if err != nil {
			return trie.Completion{}, "", err
		}
		frames = tgt.frames
	}
	if leaf == cmdtypes.SelfSegment || leaf == cmdtypes.ParentSegment {
		return trie.Completion{Match: trie.MatchUnique, Append: DirectorySuffix, Suggestions: []string{leaf}}, leaf, nil
	}
	entries := top(frames).Entries()
	if dirPart == "" {
		entries = entries.Union(e.globalEntries())
	}
	c, err := completeIn(frames, leaf, entries)
	return c, leaf, err
}

func completeIn(frames []frame, leaf string, entries trie.Trie[namespace.Entry]) (trie.Completion, error) {
	if top(frames).IsEmpty() && entries.IsEmpty() {
		return trie.Completion{}, &cmdtypes.AssistError{
			Kind:    cmdtypes.ErrorKindEmptyDirectory,
			Message: "directory " + framesPath(frames).String() + " is empty",
		}
	}
	c := trie.Complete(leaf, entries, decorateEntry)
	if !c.Found() {
		c.Suggestions = suggest(leaf, entries.Words())
	}
	return c, nil
}

// complete offers values for the argument token being typed.
func (b *binding) complete(partial string) (trie.Completion, string, error) {
	if name, value, ok := assignment(partial); ok {
		def, found := b.cmd.Param(name)
		if !found {
			return trie.Completion{}, "", &cmdtypes.AssistError{
				Kind:        cmdtypes.ErrorKindUnknownParamName,
				Message:     b.cmd.Name() + " has no parameter \"" + name + "\"",
				Token:       name,
				Suggestions: suggest(name, b.names()),
			}
		}
		return params.Complete(def, value), value, nil
	}

	terminate := func(string, struct{}) string { return params.ValueTerminator }
	flags := trie.Complete(partial, b.unboundFlags(), terminate)
	def, ok := b.nextPositional()
	if !ok {
		return flags, partial, nil
	}
	value := partial
	if def.Kind() == params.KindBool {
		value = strings.ToLower(partial)
	}
	values := trie.Complete(value, params.Candidates(def), terminate)
	return mergeCompletions(flags, values, partial, value), partial, nil
}

// mergeCompletions combines the completions of the same token against flag
// names and positional values. The value side may have matched a case-folded
// copy of the token, so each side's extension is measured against its own
// prefix.
func mergeCompletions(flags, values trie.Completion, flagPrefix, valuePrefix string) trie.Completion {
	switch {
	case !values.Found():
		return flags
	case !flags.Found():
		return values
	}
	words := append(slices.Clone(flags.Suggestions), values.Suggestions...)
	slices.Sort(words)
	words = slices.Compact(words)
	if len(words) == 1 {
		return flags
	}
	ext := trie.FromWords([]string{extension(flags, flagPrefix), extension(values, valuePrefix)})
	return trie.Completion{Match: trie.MatchAmbiguous, Append: ext.LongestCommonPrefix(), Suggestions: words}
}

func extension(c trie.Completion, prefix string) string {
	return strings.TrimPrefix(trie.FromWords(c.Suggestions).LongestCommonPrefix(), prefix)
}

func isCommand(_ string, e namespace.Entry) bool { return !e.IsDirectory() }

func decorateEntry(_ string, e namespace.Entry) string {
	if e.IsDirectory() {
		return DirectorySuffix
	}
	return CommandSuffix
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return s != "" && unicode.IsSpace(r)
}

// clampCursor keeps cursor inside line and on a rune boundary.
func clampCursor(line string, cursor int) int {
	if cursor < 0 {
		return 0
	}
	if cursor >= len(line) {
		return len(line)
	}
	for cursor > 0 && !utf8.RuneStart(line[cursor]) {
		cursor--
	}
	return cursor
}
