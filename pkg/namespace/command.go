package namespace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/params"
)

// Executor runs a command with its bound arguments. Messages for the user go
// to out.
type Executor func(ctx context.Context, args params.Args, out cmdtypes.Output) error

// Command is an immutable command definition. Create one with NewCommand.
type Command struct {
	id       cmdtypes.Identifier
	params   []params.Def
	index    map[string]int
	executor Executor
}

// Identifier returns the command identifier.
func (c *Command) Identifier() cmdtypes.Identifier { return c.id }

// Name returns the command name.
func (c *Command) Name() string { return c.id.Name }

// Description returns the command description.
func (c *Command) Description() string { return c.id.Description }

// Params returns the parameter definitions in declaration order.
func (c *Command) Params() []params.Def {
	return append([]params.Def(nil), c.params...)
}

// Param looks up a parameter by name.
func (c *Command) Param(name string) (params.Def, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.params[i], true
}

// Usage renders a one-line synopsis such as "add <a:int> [b:int] [verbose]".
func (c *Command) Usage() string {
	parts := make([]string, 0, len(c.params)+1)
	parts = append(parts, c.id.Name)
	for _, p := range c.params {
		parts = append(parts, params.Usage(p))
	}
	return strings.Join(parts, " ")
}

// Execute runs the executor. A returned error is reported as
// ErrorKindExecutionFailed and a panic as ErrorKindUnhandled, both wrapped in
// an *ExecutionError so they are never confused with parse errors.
func (c *Command) Execute(ctx context.Context, args params.Args, out cmdtypes.Output) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExecutionError{
				Kind:    cmdtypes.ErrorKindUnhandled,
				Command: c.id.Name,
				Err:     fmt.Errorf("panic: %v", r),
			}
		}
	}()
	if runErr := c.executor(ctx, args, out); runErr != nil {
		return &ExecutionError{Kind: cmdtypes.ErrorKindExecutionFailed, Command: c.id.Name, Err: runErr}
	}
	return nil
}

// ExecutionError reports the failure of an executor.
type ExecutionError struct {
	// Kind is ErrorKindExecutionFailed or ErrorKindUnhandled.
	Kind    cmdtypes.ErrorKind
	Command string
	Err     error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Kind == cmdtypes.ErrorKindUnhandled {
		return fmt.Sprintf("%s crashed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecutionError) Unwrap() error { return e.Err }

// ErrorKind returns e.Kind.
func (e *ExecutionError) ErrorKind() cmdtypes.ErrorKind { return e.Kind }

// IsUnhandled reports whether err is an executor crash.
func IsUnhandled(err error) bool {
	var ee *ExecutionError
	return errors.As(err, &ee) && ee.Kind == cmdtypes.ErrorKindUnhandled
}

// CommandBuilder assembles a Command. Errors are collected and reported by
// Build.
type CommandBuilder struct {
	name     string
	desc     string
	params   []params.Def
	executor Executor
	errs     []error
}

// NewCommand starts a command definition.
func NewCommand(name, description string) *CommandBuilder {
	return &CommandBuilder{name: name, desc: description}
}

// Param adds a parameter definition.
func (b *CommandBuilder) Param(def params.Def) *CommandBuilder {
	b.params = append(b.params, def)
	return b
}

// Bool adds a mandatory Bool.
func (b *CommandBuilder) Bool(name, desc string) *CommandBuilder {
	if id, ok := b.ident(name, desc); ok {
		b.Param(params.NewBool(id))
	}
	return b
}

// OptionalBool adds an optional Bool.
func (b *CommandBuilder) OptionalBool(name, desc string, def params.Default[bool]) *CommandBuilder {
	if id, ok := b.ident(name, desc); ok {
		b.Param(params.NewOptionalBool(id, def))
	}
	return b
}

// Int adds a mandatory Int.
func (b *CommandBuilder) Int(name, desc string) *CommandBuilder {
	if id, ok := b.ident(name, desc); ok {
		b.Param(params.NewInt(id))
	}
	return b
}

// OptionalInt adds an optional Int.
func (b *CommandBuilder) OptionalInt(name, desc string, def params.Default[int64]) *CommandBuilder {
	if id, ok := b.ident(name, desc); ok {
		b.Param(params.NewOptionalInt(id, def))
	}
	return b
}

// Double adds a mandatory Double.
func (b *CommandBuilder) Double(name, desc string) *CommandBuilder {
	if id, ok := b.ident(name, desc); ok {
		b.Param(params.NewDouble(id))
	}
	return b
}

// OptionalDouble adds an optional Double.
func (b *CommandBuilder) OptionalDouble(name, desc string, def params.Default[float64]) *CommandBuilder {
	if id, ok := b.ident(name, desc); ok {
		b.Param(params.NewOptionalDouble(id, def))
	}
	return b
}

// String adds a mandatory unconstrained String.
func (b *CommandBuilder) String(name, desc string) *CommandBuilder {
	if id, ok := b.ident(name, desc); ok {
		b.Param(params.NewString(id))
	}
	return b
}

// OptionalString adds an optional unconstrained String.
func (b *CommandBuilder) OptionalString(name, desc string, def params.Default[string]) *CommandBuilder {
	if id, ok := b.ident(name, desc); ok {
		b.Param(params.NewOptionalString(id, def))
	}
	return b
}

// Choice adds a mandatory String constrained to the values src supplies.
func (b *CommandBuilder) Choice(name, desc string, src params.ValueSource) *CommandBuilder {
	if id, ok := b.ident(name, desc); ok {
		b.Param(params.NewString(id).WithValues(src))
	}
	return b
}

// OptionalChoice adds an optional constrained String.
func (b *CommandBuilder) OptionalChoice(name, desc string, src params.ValueSource, def params.Default[string]) *CommandBuilder {
	if id, ok := b.ident(name, desc); ok {
		b.Param(params.NewOptionalString(id, def).WithValues(src))
	}
	return b
}

// Flag adds a Flag.
func (b *CommandBuilder) Flag(name, desc string) *CommandBuilder {
	if id, ok := b.ident(name, desc); ok {
		b.Param(params.NewFlag(id))
	}
	return b
}

// Executor sets the function run by the command.
func (b *CommandBuilder) Executor(fn Executor) *CommandBuilder {
	b.executor = fn
	return b
}

// Build validates the definition and returns the immutable Command.
func (b *CommandBuilder) Build() (*Command, error) {
	id, err := cmdtypes.NewIdentifier(b.name, b.desc)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", b.name, err)
	}
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("command %q: %w", b.name, errors.Join(b.errs...))
	}
	if b.executor == nil {
		return nil, fmt.Errorf("command %q: no executor", b.name)
	}
	cmd := &Command{
		id:       id,
		params:   append([]params.Def(nil), b.params...),
		index:    make(map[string]int, len(b.params)),
		executor: b.executor,
	}
	for i, p := range cmd.params {
		if _, dup := cmd.index[p.Name()]; dup {
			return nil, fmt.Errorf("command %q: parameter %q: %w", b.name, p.Name(), cmdtypes.ErrDuplicateName)
		}
		cmd.index[p.Name()] = i
	}
	return cmd, nil
}

// MustBuild is like Build but panics on error.
func (b *CommandBuilder) MustBuild() *Command {
	cmd, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cmd
}

func (b *CommandBuilder) ident(name, desc string) (cmdtypes.Identifier, bool) {
	id, err := cmdtypes.NewIdentifier(name, desc)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("parameter: %w", err))
		return cmdtypes.Identifier{}, false
	}
	return id, true
}
