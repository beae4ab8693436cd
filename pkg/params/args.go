package params

// Value is one bound parameter.
type Value struct {
	Def   Def
	Value any
	// Explicit is true when the value came from the line rather than from
	// the parameter's default.
	Explicit bool
}

// Args holds the bound values of an invocation in declaration order.
type Args struct {
	values []Value
	index  map[string]int
}

// NewArgs builds Args from values in declaration order.
func NewArgs(values []Value) Args {
	a := Args{values: append([]Value(nil), values...), index: make(map[string]int, len(values))}
	for i, v := range a.values {
		a.index[v.Def.Name()] = i
	}
	return a
}

// Len returns the number of bound parameters.
func (a Args) Len() int { return len(a.values) }

// Values returns the bound values in declaration order.
func (a Args) Values() []Value { return append([]Value(nil), a.values...) }

// Names returns the parameter names in declaration order.
func (a Args) Names() []string {
	names := make([]string, len(a.values))
	for i, v := range a.values {
		names[i] = v.Def.Name()
	}
	return names
}

// Get returns the raw value bound to name.
func (a Args) Get(name string) (any, bool) {
	i, ok := a.index[name]
	if !ok {
		return nil, false
	}
	return a.values[i].Value, true
}

// Explicit reports whether name was given on the line.
func (a Args) Explicit(name string) bool {
	i, ok := a.index[name]
	return ok && a.values[i].Explicit
}

// Bool returns the value of a Bool or Flag parameter.
func (a Args) Bool(name string) bool {
	v, _ := a.Get(name)
	b, _ := v.(bool)
	return b
}

// Flag is an alias of Bool for flag parameters.
func (a Args) Flag(name string) bool { return a.Bool(name) }

// Int returns the value of an Int parameter.
func (a Args) Int(name string) int64 {
	v, _ := a.Get(name)
	i, _ := v.(int64)
	return i
}

// Double returns the value of a Double parameter.
func (a Args) Double(name string) float64 {
	v, _ := a.Get(name)
	f, _ := v.(float64)
	return f
}

// String returns the value of a String parameter.
func (a Args) String(name string) string {
	v, _ := a.Get(name)
	s, _ := v.(string)
	return s
}

// Map returns the bound values keyed by parameter name.
func (a Args) Map() map[string]any {
	m := make(map[string]any, len(a.values))
	for _, v := range a.values {
		m[v.Def.Name()] = v.Value
	}
	return m
}
