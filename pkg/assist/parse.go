package assist

import (
	"context"

	"github.com/google/uuid"

	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/namespace"
	"cmdconsole/pkg/params"
)

// Invocation is a fully parsed line, ready to run.
type Invocation struct {
	// ID correlates log records of one invocation.
	ID string
	// Directory is the absolute path of the directory holding Command.
	Directory cmdtypes.Path
	Command   *namespace.Command
	Args      params.Args
	Line      string
}

// Run executes the invocation.
func (inv *Invocation) Run(ctx context.Context, out cmdtypes.Output) error {
	return inv.Command.Execute(ctx, inv.Args, out)
}

// Path returns the absolute path of the command.
func (inv *Invocation) Path() cmdtypes.Path {
	return inv.Directory.Child(inv.Command.Name())
}

// Parse resolves line into an invocation. Failures are *cmdtypes.AssistError
// values; Parse never panics on user input.
func (e *Engine) Parse(line string) (*Invocation, error) {
	toks := tokenize(line)
	if len(toks) == 0 {
		return nil, &cmdtypes.AssistError{Kind: cmdtypes.ErrorKindUnknownCommand, Message: "no command given"}
	}

	tgt, err := e.resolveTarget(toks[0].text)
	if err != nil {
		return nil, err
	}
	rest := toks[1:]
	cmd := tgt.cmd
	if cmd == nil {
		if len(rest) == 0 {
			return nil, missingCommand(tgt.frames)
		}
		if cmd, err = commandIn(tgt.frames, rest[0].text); err != nil {
			return nil, err
		}
		rest = rest[1:]
	}

	b := newBinding(cmd)
	for _, tok := range rest {
		if err := b.accept(tok.text); err != nil {
			return nil, err
		}
	}
	args, err := b.finish()
	if err != nil {
		return nil, err
	}
	return &Invocation{
		ID:        uuid.NewString(),
		Directory: framesPath(tgt.frames),
		Command:   cmd,
		Args:      args,
		Line:      line,
	}, nil
}
