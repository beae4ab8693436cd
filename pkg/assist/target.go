package assist

import (
	"errors"
	"fmt"
	"strings"

	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/namespace"
)

// ErrShadowsGlobal reports a namespace entry named like a global command.
var ErrShadowsGlobal = errors.New("entry shadows a global command")

// target is the result of resolving the leading token of a line.
type target struct {
	frames []frame
	// cmd is nil when the token names a directory; the command then comes
	// from the next token.
	cmd *namespace.Command
}

func (t target) dir() *namespace.Directory { return top(t.frames) }

// resolveTarget resolves the first token of a line. Every segment but the last
// must name a directory. The last segment names either a command or a
// directory; a trailing delimiter, ".", ".." and the bare delimiter always
// name directories.
func (e *Engine) resolveTarget(tok string) (target, error) {
	segs, absolute, err := splitPath(tok)
	if err != nil {
		return target{}, err
	}
	frames := e.start(absolute)
	if len(segs) == 0 {
		return target{frames: frames}, nil
	}

	dirSegs, last := segs, ""
	if !strings.HasSuffix(tok, cmdtypes.Delimiter) {
		dirSegs, last = segs[:len(segs)-1], segs[len(segs)-1]
	}
	frames, err = e.walk(frames, dirSegs)
	if err != nil {
		return target{}, err
	}
	if last == "" {
		return target{frames: frames}, nil
	}
	if last == cmdtypes.SelfSegment || last == cmdtypes.ParentSegment {
		frames, err = e.walk(frames, []string{last})
		return target{frames: frames}, err
	}

	dir := top(frames)
	if child, ok := dir.Child(last); ok {
		return target{frames: append(frames, frame{name: last, dir: child})}, nil
	}
	if cmd, ok := dir.Command(last); ok {
		return target{frames: frames, cmd: cmd}, nil
	}
	known := dir.Entries()
	if !absolute && len(segs) == 1 {
		if cmd, ok := e.global(last); ok {
			return target{frames: e.start(true), cmd: cmd}, nil
		}
		known = known.Union(e.globalEntries())
	}
	return target{}, &cmdtypes.AssistError{
		Kind:        cmdtypes.ErrorKindUnknownCommand,
		Message:     fmt.Sprintf("unknown command %q in %s", last, framesPath(frames)),
		Token:       last,
		Suggestions: suggest(last, known.Words()),
	}
}

// CheckGlobals reports every entry below root that shares a name with a
// command of globals and would therefore hide it. Entries directly in root
// are not checked: the root is where globals are expected to live.
func CheckGlobals(root, globals *namespace.Directory) error {
	var errs []error
	var visit func(at cmdtypes.Path, d *namespace.Directory)
	visit = func(at cmdtypes.Path, d *namespace.Directory) {
		for name, child := range d.Directories().All() {
			p := at.Child(name)
			for word := range child.Entries().All() {
				if _, ok := globals.Command(word); ok {
					errs = append(errs, fmt.Errorf("%s: %w: %q is a global command", p.Child(word), ErrShadowsGlobal, word))
				}
			}
			visit(p, child)
		}
	}
	visit(cmdtypes.Root(), root)
	return errors.Join(errs...)
}

// commandIn looks up the command named by a token following a directory.
func commandIn(frames []frame, name string) (*namespace.Command, error) {
	dir := top(frames)
	if cmd, ok := dir.Command(name); ok {
		return cmd, nil
	}
	msg := fmt.Sprintf("unknown command %q in %s", name, framesPath(frames))
	if _, ok := dir.Child(name); ok {
		msg = fmt.Sprintf("%q in %s is a directory, not a command", name, framesPath(frames))
	}
	return nil, &cmdtypes.AssistError{
		Kind:        cmdtypes.ErrorKindUnknownCommand,
		Message:     msg,
		Token:       name,
		Suggestions: suggest(name, dir.Commands().Words()),
	}
}

// missingCommand reports a line that names a directory and nothing else.
func missingCommand(frames []frame) error {
	dir := top(frames)
	if dir.IsEmpty() {
		return &cmdtypes.AssistError{
			Kind:    cmdtypes.ErrorKindEmptyDirectory,
			Message: fmt.Sprintf("directory %s is empty", framesPath(frames)),
		}
	}
	return &cmdtypes.AssistError{
		Kind:        cmdtypes.ErrorKindUnknownCommand,
		Message:     fmt.Sprintf("%s is a directory; name a command", framesPath(frames)),
		Suggestions: dir.Commands().Words(),
	}
}

// Lookup resolves raw to the entry it names, a command or a directory, and
// returns the entry's absolute path. An empty raw names the working
// directory.
func (e *Engine) Lookup(raw string) (namespace.Entry, cmdtypes.Path, error) {
	if raw == "" {
		return namespace.Entry{Dir: top(e.cwd)}, framesPath(e.cwd), nil
	}
	tgt, err := e.resolveTarget(raw)
	if err != nil {
		return namespace.Entry{}, cmdtypes.Path{}, err
	}
	if tgt.cmd != nil {
		return namespace.Entry{Cmd: tgt.cmd}, framesPath(tgt.frames).Child(tgt.cmd.Name()), nil
	}
	return namespace.Entry{Dir: tgt.dir()}, framesPath(tgt.frames), nil
}
