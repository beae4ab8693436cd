package assist

import (
	"fmt"
	"strings"

	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/namespace"
	"cmdconsole/pkg/params"
	"cmdconsole/pkg/trie"
)

// AssignmentSeparator splits a name=value token.
const AssignmentSeparator = "="

// binding accumulates the values bound to a command's parameters while the
// argument tokens are consumed left to right.
type binding struct {
	cmd   *namespace.Command
	defs  []params.Def
	bound map[string]any
}

func newBinding(cmd *namespace.Command) *binding {
	return &binding{cmd: cmd, defs: cmd.Params(), bound: make(map[string]any)}
}

// assignment splits tok into name and value when it has the name=value form
// with a well-formed name.
func assignment(tok string) (name, value string, ok bool) {
	name, value, ok = strings.Cut(tok, AssignmentSeparator)
	if !ok || !cmdtypes.ValidName(name) {
		return "", "", false
	}
	return name, value, true
}

// accept binds one argument token.
func (b *binding) accept(tok string) error {
	if name, value, ok := assignment(tok); ok {
		def, found := b.cmd.Param(name)
		if !found {
			return &cmdtypes.AssistError{
				Kind:        cmdtypes.ErrorKindUnknownParamName,
				Message:     fmt.Sprintf("%s has no parameter %q", b.cmd.Name(), name),
				Token:       name,
				Suggestions: suggest(name, b.names()),
			}
		}
		if err := b.checkUnbound(def); err != nil {
			return err
		}
		v, err := params.Parse(def, value)
		if err != nil {
			return err
		}
		b.bound[name] = v
		return nil
	}

	if def, found := b.cmd.Param(tok); found && def.Kind() == params.KindFlag {
		if err := b.checkUnbound(def); err != nil {
			return err
		}
		b.bound[tok] = true
		return nil
	}

	def, ok := b.nextPositional()
	if !ok {
		return &cmdtypes.AssistError{
			Kind:    cmdtypes.ErrorKindTooManyArguments,
			Message: fmt.Sprintf("unexpected argument %q: %s", tok, b.cmd.Usage()),
			Token:   tok,
		}
	}
	v, err := params.Parse(def, tok)
	if err != nil {
		return err
	}
	b.bound[def.Name()] = v
	return nil
}

func (b *binding) checkUnbound(def params.Def) error {
	if _, dup := b.bound[def.Name()]; dup {
		return &cmdtypes.AssistError{
			Kind:    cmdtypes.ErrorKindDuplicateParamBinding,
			Message: fmt.Sprintf("parameter %q bound more than once", def.Name()),
			Token:   def.Name(),
		}
	}
	return nil
}

// nextPositional returns the first unbound non-flag parameter.
func (b *binding) nextPositional() (params.Def, bool) {
	for _, def := range b.defs {
		if def.Kind() == params.KindFlag {
			continue
		}
		if _, done := b.bound[def.Name()]; !done {
			return def, true
		}
	}
	return nil, false
}

// unboundFlags returns the names of flags not yet present on the line.
func (b *binding) unboundFlags() trie.Trie[struct{}] {
	var names trie.Trie[struct{}]
	for _, def := range b.defs {
		if def.Kind() != params.KindFlag {
			continue
		}
		if _, done := b.bound[def.Name()]; !done {
			names = names.Insert(def.Name(), struct{}{})
		}
	}
	return names
}

func (b *binding) names() []string {
	names := make([]string, len(b.defs))
	for i, def := range b.defs {
		names[i] = def.Name()
	}
	return names
}

// finish resolves every unbound parameter. Mandatory parameters left unbound
// are reported together in one error.
func (b *binding) finish() (params.Args, error) {
	values := make([]params.Value, 0, len(b.defs))
	var missing []string
	for _, def := range b.defs {
		if v, ok := b.bound[def.Name()]; ok {
			values = append(values, params.Value{Def: def, Value: v, Explicit: true})
			continue
		}
		v, err := params.Unbound(def)
		if err != nil {
			if cmdtypes.IsKind(err, cmdtypes.ErrorKindMissingMandatoryParam) {
				missing = append(missing, def.Name())
				continue
			}
			return params.Args{}, err
		}
		values = append(values, params.Value{Def: def, Value: v})
	}
	if len(missing) > 0 {
		return params.Args{}, &cmdtypes.AssistError{
			Kind:    cmdtypes.ErrorKindMissingMandatoryParam,
			Message: fmt.Sprintf("missing mandatory parameter %s: %s", strings.Join(quoteAll(missing), ", "), b.cmd.Usage()),
			Token:   missing[0],
		}
	}
	return params.NewArgs(values), nil
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%q", n)
	}
	return out
}
