package lang

// This file defines the free functions bound in every interpreter's global
// environment. The table is built once per process and shared; builtins
// hold no state.

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"
)

//nolint:gochecknoglobals
var builtinTable = sync.OnceValue(func() map[string]*Builtin {
	table := map[string]*Builtin{}

	for _, b := range []*Builtin{
		{Name: "len", Arity: 1, Fn: builtinLen},
		{Name: "type", Arity: 1, Fn: builtinType},
		{Name: "range", Arity: 2, Fn: builtinRange},
		{Name: "floor", Arity: 1, Fn: unary("floor", math.Floor)},
		{Name: "ceil", Arity: 1, Fn: unary("ceil", math.Ceil)},
		{Name: "round", Arity: 1, Fn: unary("round", roundHalfUp)},
		{Name: "sqrt", Arity: 1, Fn: unary("sqrt", math.Sqrt)},
		{Name: "abs", Arity: 1, Fn: unary("abs", math.Abs)},
		{Name: "min", Arity: 2, Fn: binary("min", math.Min)},
		{Name: "max", Arity: 2, Fn: binary("max", math.Max)},
		{Name: "toNumber", Arity: 1, Fn: builtinToNumber},
		{Name: "toString", Arity: 1, Fn: builtinToString},
	} {
		table[b.Name] = b
	}

	return table
})

// BuiltinNames returns the names of the free builtin functions, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinTable()))
	for name := range builtinTable() {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// IsBuiltin reports whether v is one of the free builtin functions.
func IsBuiltin(v Value) bool {
	b, ok := v.(*Builtin)

	return ok && builtinTable()[b.Name] == b
}

func builtinLen(args []Value) (Value, error) {
	switch v := args[0].(type) {
	case *Array:
		return Number(len(v.Elements)), nil
	case String:
		return Number(utf8.RuneCountInString(string(v))), nil
	case *Map:
		return Number(v.Len()), nil
	}

	return nil, newRuntimeError(ErrOperand, 0,
		"len() expects an array, a string or a map.")
}

func builtinType(args []Value) (Value, error) {
	return String(args[0].Kind()), nil
}

// maxRangeLen bounds the array range builds.
const maxRangeLen = 1 << 24

// maxExactInt is the largest magnitude below which every integer is
// representable as a Number.
const maxExactInt = 1 << 53

func builtinRange(args []Value) (Value, error) {
	start, err := numberArg("range", args[0])
	if err != nil {
		return nil, err
	}

	end, err := numberArg("range", args[1])
	if err != nil {
		return nil, err
	}

	lo, hi := math.Trunc(start), math.Trunc(end)

	for _, bound := range []float64{lo, hi} {
		if math.IsNaN(bound) || math.Abs(bound) > maxExactInt {
			return nil, newRuntimeError(ErrOperand, 0,
				"range() bounds must be finite integers within ±2^53.")
		}
	}

	if hi-lo > maxRangeLen {
		return nil, newRuntimeError(ErrOperand, 0,
			"range() is limited to "+strconv.Itoa(maxRangeLen)+" elements.")
	}

	arr := &Array{}
	for i := int64(lo); i < int64(hi); i++ {
		arr.Elements = append(arr.Elements, Number(i))
	}

	return arr, nil
}

func builtinToNumber(args []Value) (Value, error) {
	switch v := args[0].(type) {
	case Number:
		return v, nil

	case Boolean:
		if v {
			return Number(1), nil
		}

		return Number(0), nil

	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil, newRuntimeError(ErrNotConvertible, 0,
				"Cannot convert string to number.")
		}

		return Number(f), nil
	}

	return nil, newRuntimeError(ErrNotConvertible, 0,
		"Cannot convert value to number.")
}

func builtinToString(args []Value) (Value, error) {
	if s, ok := args[0].(String); ok {
		return s, nil
	}

	return String(Stringify(args[0])), nil
}

func unary(name string, fn func(float64) float64) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		x, err := numberArg(name, args[0])
		if err != nil {
			return nil, err
		}

		return Number(fn(x)), nil
	}
}

func binary(
	name string,
	fn func(float64, float64) float64,
) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		x, err := numberArg(name, args[0])
		if err != nil {
			return nil, err
		}

		y, err := numberArg(name, args[1])
		if err != nil {
			return nil, err
		}

		return Number(fn(x, y)), nil
	}
}

// roundHalfUp rounds half-way cases toward positive infinity.
func roundHalfUp(x float64) float64 { return math.Floor(x + 0.5) }

func numberArg(name string, v Value) (float64, error) {
	if n, ok := v.(Number); ok {
		return float64(n), nil
	}

	return 0, newRuntimeError(ErrOperand, 0, name+"() expects a number.")
}

func stringArg(name string, v Value) (string, error) {
	if s, ok := v.(String); ok {
		return string(s), nil
	}

	return "", newRuntimeError(ErrOperand, 0, name+"() expects a string.")
}
