package params

import (
	"fmt"
	"strconv"
	"strings"

	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/trie"
)

// ValueTerminator is appended to a uniquely completed value.
const ValueTerminator = " "

var boolWords = trie.FromWords([]string{"false", "true"})

// Parse converts raw into the typed value for def. The result is a bool,
// int64, float64 or string depending on the variant.
func Parse(def Def, raw string) (any, error) {
	switch d := def.(type) {
	case Bool:
		switch {
		case strings.EqualFold(raw, "true"):
			return true, nil
		case strings.EqualFold(raw, "false"):
			return false, nil
		}
		return nil, invalidValue(d, raw, "expected true or false", nil)
	case Int:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, invalidValue(d, raw, "expected an integer", nil)
		}
		return v, nil
	case Double:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, invalidValue(d, raw, "expected a number", nil)
		}
		return v, nil
	case String:
		set := d.valueSet()
		if set.IsEmpty() || set.Contains(raw) {
			return raw, nil
		}
		suggestions := set.SubTrie(raw).Words()
		if len(suggestions) == 0 {
			suggestions = set.Words()
		}
		return nil, invalidValue(d, raw, "not an accepted value", suggestions)
	case Flag:
		return nil, &cmdtypes.AssistError{
			Kind:    cmdtypes.ErrorKindInvalidParamValue,
			Message: fmt.Sprintf("flag %q takes no value", d.Name()),
			Token:   raw,
		}
	default:
		return nil, fmt.Errorf("unsupported parameter type %T", def)
	}
}

// Unbound returns the value def takes when it is absent from the line.
// Defaults are evaluated now, not when the parameter was defined.
func Unbound(def Def) (any, error) {
	switch d := def.(type) {
	case Flag:
		return false, nil
	case Bool:
		if d.optional {
			return d.def.Resolve(), nil
		}
	case Int:
		if d.optional {
			return d.def.Resolve(), nil
		}
	case Double:
		if d.optional {
			return d.def.Resolve(), nil
		}
	case String:
		if d.optional {
			return d.def.Resolve(), nil
		}
	default:
		return nil, fmt.Errorf("unsupported parameter type %T", def)
	}
	return nil, &cmdtypes.AssistError{
		Kind:    cmdtypes.ErrorKindMissingMandatoryParam,
		Message: fmt.Sprintf("missing mandatory parameter %q", def.Name()),
		Token:   def.Name(),
	}
}

// Candidates returns the finite set of values def accepts, or an empty trie
// when the set is unbounded.
func Candidates(def Def) trie.Trie[struct{}] {
	switch d := def.(type) {
	case Bool:
		return boolWords
	case String:
		return d.valueSet()
	default:
		return trie.Trie[struct{}]{}
	}
}

// Complete offers completions of a partially typed value.
func Complete(def Def, partial string) trie.Completion {
	if _, ok := def.(Bool); ok {
		partial = strings.ToLower(partial)
	}
	return trie.Complete(partial, Candidates(def), terminate)
}

// Usage renders def for a usage line: <name:type> when mandatory and
// [name:type] when optional. Flags render as [name].
func Usage(def Def) string {
	if def.Kind() == KindFlag {
		return "[" + def.Name() + "]"
	}
	s := def.Name() + ":" + def.Kind().String()
	if def.Optional() {
		return "[" + s + "]"
	}
	return "<" + s + ">"
}

func terminate(string, struct{}) string { return ValueTerminator }

func (s String) valueSet() trie.Trie[struct{}] {
	if s.values == nil {
		return trie.Trie[struct{}]{}
	}
	return trie.FromWords(s.values())
}

func invalidValue(def Def, raw, reason string, suggestions []string) error {
	return &cmdtypes.AssistError{
		Kind:        cmdtypes.ErrorKindInvalidParamValue,
		Message:     fmt.Sprintf("invalid value %q for parameter %q: %s", raw, def.Name(), reason),
		Token:       raw,
		Suggestions: suggestions,
	}
}
