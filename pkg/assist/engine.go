// Package assist resolves raw console lines against a command namespace. The
// same walk drives both execution (Parse) and autocompletion (Complete).
//
// An Engine keeps a working directory and is meant to be driven by a single
// caller; the namespace it reads is immutable and may be shared.
package assist

import (
	"fmt"
	"strings"
	"unicode"

	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/namespace"
	"cmdconsole/pkg/trie"
)

// frame is one step of a resolved directory path.
type frame struct {
	name string
	dir  *namespace.Directory
}

// Engine parses and completes lines against a namespace.
type Engine struct {
	root    *namespace.Directory
	globals *namespace.Directory
	cwd     []frame
}

// New returns an engine rooted at root with the root as working directory.
func New(root *namespace.Directory) *Engine {
	return &Engine{root: root, cwd: []frame{{dir: root}}}
}

// SetGlobals makes the commands of dir reachable by bare name from every
// working directory. Entries of the working directory take precedence; see
// CheckGlobals for rejecting trees that would shadow a global. A nil dir
// clears the scope.
func (e *Engine) SetGlobals(dir *namespace.Directory) { e.globals = dir }

func (e *Engine) global(name string) (*namespace.Command, bool) {
	if e.globals == nil {
		return nil, false
	}
	return e.globals.Command(name)
}

// globalEntries returns the global commands as directory entries.
func (e *Engine) globalEntries() trie.Trie[namespace.Entry] {
	if e.globals == nil {
		return trie.Trie[namespace.Entry]{}
	}
	return e.globals.Entries().Filter(isCommand)
}

// Root returns the namespace root.
func (e *Engine) Root() *namespace.Directory { return e.root }

// WorkingDirectory returns the path of the current working directory.
func (e *Engine) WorkingDirectory() cmdtypes.Path {
	return framesPath(e.cwd)
}

// Directory returns the current working directory.
func (e *Engine) Directory() *namespace.Directory {
	return top(e.cwd)
}

// ChangeDirectory moves the working directory. raw is resolved like the path
// part of a line: absolute when it starts with the delimiter, relative to the
// working directory otherwise. An empty raw moves to the root.
func (e *Engine) ChangeDirectory(raw string) error {
	frames, err := e.resolveDirectory(raw)
	if err != nil {
		return err
	}
	e.cwd = frames
	return nil
}

// Resolve returns the directory raw refers to without changing the working
// directory.
func (e *Engine) Resolve(raw string) (*namespace.Directory, cmdtypes.Path, error) {
	frames, err := e.resolveDirectory(raw)
	if err != nil {
		return nil, cmdtypes.Path{}, err
	}
	return top(frames), framesPath(frames), nil
}

// SetRoot swaps the namespace, keeping the working directory when it still
// resolves in the new tree and falling back to the root otherwise. It reports
// whether the working directory was kept.
func (e *Engine) SetRoot(root *namespace.Directory) bool {
	old := e.WorkingDirectory()
	e.root = root
	e.cwd = []frame{{dir: root}}
	if old.IsRoot() {
		return true
	}
	frames, err := e.walk(e.cwd, old.Segments())
	if err != nil {
		return false
	}
	e.cwd = frames
	return true
}

func (e *Engine) resolveDirectory(raw string) ([]frame, error) {
	if raw == "" {
		return []frame{{dir: e.root}}, nil
	}
	segs, absolute, err := splitPath(raw)
	if err != nil {
		return nil, err
	}
	frames, err := e.walk(e.start(absolute), segs)
	if err != nil {
		return nil, err
	}
	return frames, nil
}

// start returns a private copy of the frames a walk begins from.
func (e *Engine) start(absolute bool) []frame {
	if absolute {
		return []frame{{dir: e.root}}
	}
	return append([]frame(nil), e.cwd...)
}

// walk follows directory segments from the given frames. "." stays in place
// and ".." ascends; ascending past the root is a no-op.
func (e *Engine) walk(frames []frame, segs []string) ([]frame, error) {
	for _, seg := range segs {
		switch seg {
		case cmdtypes.SelfSegment:
			continue
		case cmdtypes.ParentSegment:
			if len(frames) > 1 {
				frames = frames[:len(frames)-1]
			}
			continue
		}
		cur := top(frames)
		child, ok := cur.Child(seg)
		if !ok {
			msg := fmt.Sprintf("unknown directory %q in %s", seg, framesPath(frames))
			if _, isCmd := cur.Command(seg); isCmd {
				msg = fmt.Sprintf("%q in %s is a command, not a directory", seg, framesPath(frames))
			}
			return nil, &cmdtypes.AssistError{
				Kind:        cmdtypes.ErrorKindUnknownDirectory,
				Message:     msg,
				Token:       seg,
				Suggestions: suggest(seg, cur.Directories().Words()),
			}
		}
		frames = append(frames, frame{name: seg, dir: child})
	}
	return frames, nil
}

// splitPath splits a raw path into segments. A leading delimiter marks an
// absolute path and a single trailing delimiter is ignored. Any other empty
// segment is invalid, except that the bare delimiter denotes the root.
func splitPath(raw string) (segs []string, absolute bool, err error) {
	if raw == cmdtypes.Delimiter {
		return nil, true, nil
	}
	body := raw
	absolute = strings.HasPrefix(body, cmdtypes.Delimiter)
	body = strings.TrimPrefix(body, cmdtypes.Delimiter)
	body = strings.TrimSuffix(body, cmdtypes.Delimiter)
	if body == "" {
		return nil, false, invalidPath(raw)
	}
	segs = strings.Split(body, cmdtypes.Delimiter)
	for _, s := range segs {
		if s == "" {
			return nil, false, invalidPath(raw)
		}
	}
	return segs, absolute, nil
}

func invalidPath(raw string) error {
	return &cmdtypes.AssistError{
		Kind:    cmdtypes.ErrorKindInvalidPath,
		Message: fmt.Sprintf("invalid path %q", raw),
		Token:   raw,
	}
}

func top(frames []frame) *namespace.Directory {
	return frames[len(frames)-1].dir
}

func framesPath(frames []frame) cmdtypes.Path {
	names := make([]string, 0, len(frames)-1)
	for _, f := range frames[1:] {
		names = append(names, f.name)
	}
	p, _ := cmdtypes.NewPath(names...)
	return p
}

// token is a whitespace separated word of a line with its byte offsets.
type token struct {
	text       string
	start, end int
}

func tokenize(line string) []token {
	var toks []token
	start := -1
	for i, r := range line {
		if unicode.IsSpace(r) {
			if start >= 0 {
				toks = append(toks, token{text: line[start:i], start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, token{text: line[start:], start: start, end: len(line)})
	}
	return toks
}
