// Package params defines the typed parameters a command accepts and binds raw
// argument tokens to them.
//
// A parameter definition is one of a closed set of variants: Bool, Int,
// Double, String and Flag. Code that needs per-kind behavior switches on the
// concrete type; the Def interface cannot be implemented outside this package.
package params

import (
	"sync"

	"cmdconsole/pkg/cmdtypes"
)

// Kind names a parameter variant.
type Kind int

const (
	KindBool Kind = iota + 1
	KindInt
	KindDouble
	KindString
	KindFlag
)

// String returns the type name shown in usage lines.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindFlag:
		return "flag"
	default:
		return "unknown"
	}
}

// Def is a parameter definition.
type Def interface {
	Identifier() cmdtypes.Identifier
	Name() string
	Optional() bool
	Kind() Kind
	isDef()
}

type base struct {
	id       cmdtypes.Identifier
	optional bool
}

func (b base) Identifier() cmdtypes.Identifier { return b.id }
func (b base) Name() string                    { return b.id.Name }
func (b base) Optional() bool                  { return b.optional }
func (base) isDef()                            {}

// Default is the source of an optional parameter's value when it is not given
// on the line. The zero value yields the zero value of T.
type Default[T any] struct {
	value T
	fn    func() T
}

// Const returns a default that always yields v.
func Const[T any](v T) Default[T] {
	return Default[T]{value: v}
}

// Supplied returns a default evaluated each time a binding happens, so it
// always reflects the state fn observes at that moment.
func Supplied[T any](fn func() T) Default[T] {
	return Default[T]{fn: fn}
}

// Lazy returns a default evaluated on first demand and cached. fn runs at most
// once even when several goroutines bind concurrently.
func Lazy[T any](fn func() T) Default[T] {
	return Default[T]{fn: sync.OnceValue(fn)}
}

// Resolve produces the default value.
func (d Default[T]) Resolve() T {
	if d.fn != nil {
		return d.fn()
	}
	return d.value
}

// Bool accepts the tokens true and false.
type Bool struct {
	base
	def Default[bool]
}

// Kind returns KindBool.
func (Bool) Kind() Kind { return KindBool }

// Int accepts base 10 integers.
type Int struct {
	base
	def Default[int64]
}

// Kind returns KindInt.
func (Int) Kind() Kind { return KindInt }

// Double accepts floating point numbers.
type Double struct {
	base
	def Default[float64]
}

// Kind returns KindDouble.
func (Double) Kind() Kind { return KindDouble }

// ValueSource supplies the acceptable values of a constrained String. It is
// called again on every bind and completion so late-bound sets are honored.
type ValueSource func() []string

// StaticValues returns a ValueSource over a fixed list.
func StaticValues(values ...string) ValueSource {
	fixed := append([]string(nil), values...)
	return func() []string { return fixed }
}

// String accepts any token, or only the tokens of its value set when
// constrained. An empty value set accepts everything.
type String struct {
	base
	def    Default[string]
	values ValueSource
}

// Kind returns KindString.
func (String) Kind() Kind { return KindString }

// Constrained reports whether the parameter has a value set.
func (s String) Constrained() bool { return s.values != nil }

// WithValues returns a copy of s constrained to the values src supplies.
func (s String) WithValues(src ValueSource) String {
	s.values = src
	return s
}

// Flag is a boolean carried by the presence of its name on the line. It is
// always optional and never takes a value.
type Flag struct {
	base
}

// Kind returns KindFlag.
func (Flag) Kind() Kind { return KindFlag }

// NewBool returns a mandatory Bool.
func NewBool(id cmdtypes.Identifier) Bool {
	return Bool{base: base{id: id}}
}

// NewOptionalBool returns an optional Bool.
func NewOptionalBool(id cmdtypes.Identifier, def Default[bool]) Bool {
	return Bool{base: base{id: id, optional: true}, def: def}
}

// NewInt returns a mandatory Int.
func NewInt(id cmdtypes.Identifier) Int {
	return Int{base: base{id: id}}
}

// NewOptionalInt returns an optional Int.
func NewOptionalInt(id cmdtypes.Identifier, def Default[int64]) Int {
	return Int{base: base{id: id, optional: true}, def: def}
}

// NewDouble returns a mandatory Double.
func NewDouble(id cmdtypes.Identifier) Double {
	return Double{base: base{id: id}}
}

// NewOptionalDouble returns an optional Double.
func NewOptionalDouble(id cmdtypes.Identifier, def Default[float64]) Double {
	return Double{base: base{id: id, optional: true}, def: def}
}

// NewString returns a mandatory, unconstrained String.
func NewString(id cmdtypes.Identifier) String {
	return String{base: base{id: id}}
}

// NewOptionalString returns an optional, unconstrained String.
func NewOptionalString(id cmdtypes.Identifier, def Default[string]) String {
	return String{base: base{id: id, optional: true}, def: def}
}

// NewFlag returns a Flag.
func NewFlag(id cmdtypes.Identifier) Flag {
	return Flag{base: base{id: id, optional: true}}
}
