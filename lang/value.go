package lang

import (
	"math"
	"strconv"
	"strings"
)

// Value is a runtime value. The set of implementations is closed: [Null],
// [Number], [Boolean], [String], [*Array], [*Map], [*Function], [*Builtin],
// [*Class], and [*Instance].
type Value interface {
	// Kind returns the name reported by the "type" builtin.
	Kind() string
	// String returns the text written by "print".
	String() string
}

// Member is implemented by values that expose named members through the
// "." operator.
type Member interface {
	Value
	Member(name string) (Value, error)
}

// Kind names.
const (
	KindNull     = "null"
	KindNumber   = "number"
	KindBoolean  = "boolean"
	KindString   = "string"
	KindArray    = "array"
	KindMap      = "map"
	KindFunction = "function"
	KindClass    = "class"
	KindInstance = "instance"
)

type (
	// Null is the absent value.
	Null struct{}

	// Number is the only numeric type.
	Number float64

	// Boolean is true or false.
	Boolean bool

	// String is immutable text.
	String string

	// Array is a mutable ordered sequence shared by reference.
	Array struct {
		Elements []Value
	}

	// Map is a mutable association shared by reference. String keys are
	// stored as their raw text; iteration follows insertion order.
	Map struct {
		order   []Value
		entries map[any]Value
	}

	// Function is a user-defined function or lambda. Name is empty for a
	// lambda.
	Function struct {
		Name    string
		Params  []Token
		Body    []Stmt
		Closure *Environment
	}

	// Builtin is a function implemented in Go. Arity is checked before Fn
	// is called.
	Builtin struct {
		Name  string
		Arity int
		Fn    func(args []Value) (Value, error)
	}

	// Class is a user-defined class. It is immutable after declaration.
	Class struct {
		Name    string
		Fields  []string
		Methods map[string]*Function
	}

	// Instance is an object created by calling a [Class].
	Instance struct {
		Class  *Class
		Fields map[string]Value
	}
)

func (Null) Kind() string      { return KindNull }
func (Number) Kind() string    { return KindNumber }
func (Boolean) Kind() string   { return KindBoolean }
func (String) Kind() string    { return KindString }
func (*Array) Kind() string    { return KindArray }
func (*Map) Kind() string      { return KindMap }
func (*Function) Kind() string { return KindFunction }
func (*Builtin) Kind() string  { return KindFunction }
func (*Class) Kind() string    { return KindClass }
func (*Instance) Kind() string { return KindInstance }

func (Null) String() string        { return "null" }
func (n Number) String() string    { return formatNumber(float64(n)) }
func (b Boolean) String() string   { return strconv.FormatBool(bool(b)) }
func (s String) String() string    { return string(s) }
func (a *Array) String() string    { return format(a) }
func (m *Map) String() string      { return format(m) }
func (*Function) String() string   { return "<function>" }
func (b *Builtin) String() string  { return "<builtin function " + b.Name + ">" }
func (c *Class) String() string    { return "<class " + c.Name + ">" }
func (i *Instance) String() string { return "<instance of " + i.Class.Name + ">" }

// NewArray returns an array holding elems.
func NewArray(elems ...Value) *Array {
	return &Array{Elements: elems}
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{entries: make(map[any]Value)}
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.order) }

// Get returns the value stored under key.
func (m *Map) Get(key Value) (Value, bool) {
	v, ok := m.entries[mapKey(key)]

	return v, ok
}

// Set stores value under key, replacing any existing entry.
func (m *Map) Set(key, value Value) {
	if m.entries == nil {
		m.entries = make(map[any]Value)
	}

	k := mapKey(key)
	if _, ok := m.entries[k]; !ok {
		m.order = append(m.order, key)
	}

	m.entries[k] = value
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Value { return m.order }

// nanKey stands in for every NaN map key, which would otherwise never
// compare equal to itself.
type nanKey struct{}

// mapKey returns the Go map key for a language value. Strings are keyed by
// their raw text; reference values by identity. All NaN keys share one entry.
func mapKey(v Value) any {
	switch v := v.(type) {
	case nil:
		return Null{}
	case String:
		return string(v)
	case Number:
		if math.IsNaN(float64(v)) {
			return nanKey{}
		}

		return v
	default:
		return v
	}
}

// Bind returns a copy of f whose closure is a new child environment that
// binds "this" to inst.
func (f *Function) Bind(inst *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", inst)

	return &Function{Name: f.Name, Params: f.Params, Body: f.Body, Closure: env}
}

// displayName is used in diagnostics.
func (f *Function) displayName() string {
	if f.Name == "" {
		return "<lambda>"
	}

	return f.Name
}

// FindMethod returns the method declared with name, or nil.
func (c *Class) FindMethod(name string) *Function {
	return c.Methods[name]
}

// Instantiate returns a new instance with every declared field set to
// [Null].
func (c *Class) Instantiate() *Instance {
	inst := &Instance{Class: c, Fields: make(map[string]Value, len(c.Fields))}

	for _, f := range c.Fields {
		inst.Fields[f] = Null{}
	}

	return inst
}

// Member returns the field called name or, failing that, the method called
// name bound to i. Function values read from fields are bound as well.
func (i *Instance) Member(name string) (Value, error) {
	if v, ok := i.Fields[name]; ok {
		if fn, ok := v.(*Function); ok {
			return fn.Bind(i), nil
		}

		return v, nil
	}

	if m := i.Class.FindMethod(name); m != nil {
		return m.Bind(i), nil
	}

	return nil, newRuntimeError(ErrUndefinedProperty, 0,
		"Undefined property '"+name+"'.")
}

// Set stores value in the field called name, creating it if needed.
func (i *Instance) Set(name string, value Value) {
	i.Fields[name] = value
}

// Truthy reports whether v counts as true in a condition. Null is false,
// a Boolean is itself, a Number is false only when zero, and everything else
// is true.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil, Null:
		return false
	case Boolean:
		return bool(v)
	case Number:
		return v != 0
	default:
		return true
	}
}

// Equal reports whether a and b are equal. Strings compare by content,
// arrays element-wise, and maps entry-wise; other reference values compare
// by identity. Values of different kinds are never equal. A pair of
// containers met again while comparing them is taken as equal, so cyclic
// values terminate.
func Equal(a, b Value) bool {
	return equal(a, b, nil)
}

func equal(a, b Value, visiting map[[2]any]bool) bool {
	if a == nil {
		a = Null{}
	}

	if b == nil {
		b = Null{}
	}

	switch a := a.(type) {
	case *Array:
		b, ok := b.(*Array)
		if !ok || len(a.Elements) != len(b.Elements) {
			return false
		}

		pair := [2]any{a, b}
		if a == b || visiting[pair] {
			return true
		}

		if visiting == nil {
			visiting = map[[2]any]bool{}
		}

		visiting[pair] = true
		defer delete(visiting, pair)

		for i := range a.Elements {
			if !equal(a.Elements[i], b.Elements[i], visiting) {
				return false
			}
		}

		return true

	case *Map:
		b, ok := b.(*Map)
		if !ok || a.Len() != b.Len() {
			return false
		}

		pair := [2]any{a, b}
		if a == b || visiting[pair] {
			return true
		}

		if visiting == nil {
			visiting = map[[2]any]bool{}
		}

		visiting[pair] = true
		defer delete(visiting, pair)

		for k, v := range a.entries {
			w, ok := b.entries[k]
			if !ok || !equal(v, w, visiting) {
				return false
			}
		}

		return true
	}

	return a == b
}

// Stringify returns the text "print" writes for v.
func Stringify(v Value) string {
	if v == nil {
		return "null"
	}

	return v.String()
}

// ToNative converts v to plain Go values suitable for encoding: nil,
// float64, bool, string, []any, and map[string]any. Functions and classes
// become their printed form; instances become a map of their fields.
// Cyclic references are replaced by their printed form.
func ToNative(v Value) any {
	return toNative(v, map[any]bool{})
}

func toNative(v Value, seen map[any]bool) any {
	switch v := v.(type) {
	case nil, Null:
		return nil
	case Number:
		return float64(v)
	case Boolean:
		return bool(v)
	case String:
		return string(v)

	case *Array:
		if seen[v] {
			return "[...]"
		}

		seen[v] = true
		defer delete(seen, v)

		out := make([]any, len(v.Elements))
		for i, e := range v.Elements {
			out[i] = toNative(e, seen)
		}

		return out

	case *Map:
		if seen[v] {
			return "{...}"
		}

		seen[v] = true
		defer delete(seen, v)

		out := make(map[string]any, v.Len())
		for _, k := range v.order {
			out[Stringify(k)] = toNative(v.entries[mapKey(k)], seen)
		}

		return out

	case *Instance:
		if seen[v] {
			return v.String()
		}

		seen[v] = true
		defer delete(seen, v)

		out := make(map[string]any, len(v.Fields))
		for k, f := range v.Fields {
			out[k] = toNative(f, seen)
		}

		return out
	}

	return v.String()
}

// format renders a container. Nested strings are quoted and cycles are
// elided.
func format(v Value) string {
	var sb strings.Builder

	writeValue(&sb, v, false, map[any]bool{})

	return sb.String()
}

func writeValue(sb *strings.Builder, v Value, quote bool, seen map[any]bool) {
	switch v := v.(type) {
	case String:
		if quote {
			sb.WriteByte('"')
			sb.WriteString(string(v))
			sb.WriteByte('"')
		} else {
			sb.WriteString(string(v))
		}

	case *Array:
		if seen[v] {
			sb.WriteString("[...]")

			return
		}

		seen[v] = true
		defer delete(seen, v)

		sb.WriteByte('[')

		for i, e := range v.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeValue(sb, e, true, seen)
		}

		sb.WriteByte(']')

	case *Map:
		if seen[v] {
			sb.WriteString("{...}")

			return
		}

		seen[v] = true
		defer delete(seen, v)

		sb.WriteByte('{')

		for i, k := range v.order {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeValue(sb, k, true, seen)
			sb.WriteString(": ")
			writeValue(sb, v.entries[mapKey(k)], true, seen)
		}

		sb.WriteByte('}')

	default:
		sb.WriteString(Stringify(v))
	}
}

// formatNumber renders integral values without a fractional part.
func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}
