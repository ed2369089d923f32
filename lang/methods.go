package lang

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

// StringMethods and ArrayMethods list the member names of strings and
// arrays, sorted.
//
//nolint:gochecknoglobals
var (
	StringMethods = []string{
		"endsWith", "len", "lower", "split", "startsWith", "substring",
		"trim", "upper",
	}
	ArrayMethods = []string{
		"contains", "indexOf", "len", "pop", "push", "reverse", "shift",
		"sort", "unshift",
	}
)

// Member returns the method called name bound to s.
func (s String) Member(name string) (Value, error) {
	text := string(s)

	method := func(arity int, fn func(args []Value) (Value, error)) (Value, error) {
		return &Builtin{Name: name, Arity: arity, Fn: fn}, nil
	}

	switch name {
	case "len":
		return method(0, func([]Value) (Value, error) {
			return Number(utf8.RuneCountInString(text)), nil
		})

	case "substring":
		return method(2, func(args []Value) (Value, error) {
			start, err := numberArg(name, args[0])
			if err != nil {
				return nil, err
			}

			end, err := numberArg(name, args[1])
			if err != nil {
				return nil, err
			}

			runes := []rune(text)
			i, j := int(start), int(end)

			if i < 0 || j > len(runes) || i > j {
				return nil, newRuntimeError(ErrIndexOutOfBounds, 0,
					"Substring range out of bounds.")
			}

			return String(runes[i:j]), nil
		})

	case "upper":
		return method(0, func([]Value) (Value, error) {
			return String(strings.ToUpper(text)), nil
		})

	case "lower":
		return method(0, func([]Value) (Value, error) {
			return String(strings.ToLower(text)), nil
		})

	case "split":
		return method(1, func(args []Value) (Value, error) {
			delim, err := stringArg(name, args[0])
			if err != nil {
				return nil, err
			}

			return splitString(text, delim), nil
		})

	case "trim":
		return method(0, func([]Value) (Value, error) {
			return String(strings.TrimSpace(text)), nil
		})

	case "startsWith":
		return method(1, func(args []Value) (Value, error) {
			prefix, err := stringArg(name, args[0])
			if err != nil {
				return nil, err
			}

			return Boolean(strings.HasPrefix(text, prefix)), nil
		})

	case "endsWith":
		return method(1, func(args []Value) (Value, error) {
			suffix, err := stringArg(name, args[0])
			if err != nil {
				return nil, err
			}

			return Boolean(strings.HasSuffix(text, suffix)), nil
		})
	}

	return nil, newRuntimeError(ErrUndefinedMethod, 0,
		"Undefined method '"+name+"' on string.")
}

// splitString splits s around delim. Trailing empty fields are dropped, but
// an empty s yields a single empty field.
func splitString(s, delim string) *Array {
	if s == "" {
		return NewArray(String(""))
	}

	parts := strings.Split(s, delim)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	arr := &Array{Elements: make([]Value, len(parts))}
	for i, p := range parts {
		arr.Elements[i] = String(p)
	}

	return arr
}

// Member returns the method called name bound to a. Mutating methods
// modify a in place.
func (a *Array) Member(name string) (Value, error) {
	method := func(arity int, fn func(args []Value) (Value, error)) (Value, error) {
		return &Builtin{Name: name, Arity: arity, Fn: fn}, nil
	}

	switch name {
	case "len":
		return method(0, func([]Value) (Value, error) {
			return Number(len(a.Elements)), nil
		})

	case "push":
		return method(1, func(args []Value) (Value, error) {
			a.Elements = append(a.Elements, args[0])

			return Number(len(a.Elements)), nil
		})

	case "pop":
		return method(0, func([]Value) (Value, error) {
			if len(a.Elements) == 0 {
				return nil, newRuntimeError(ErrEmptyArray, 0,
					"Cannot pop from empty array.")
			}

			last := a.Elements[len(a.Elements)-1]
			a.Elements = a.Elements[:len(a.Elements)-1]

			return last, nil
		})

	case "shift":
		return method(0, func([]Value) (Value, error) {
			if len(a.Elements) == 0 {
				return nil, newRuntimeError(ErrEmptyArray, 0,
					"Cannot shift from empty array.")
			}

			first := a.Elements[0]
			a.Elements = slices.Delete(a.Elements, 0, 1)

			return first, nil
		})

	case "unshift":
		return method(1, func(args []Value) (Value, error) {
			a.Elements = slices.Insert(a.Elements, 0, args[0])

			return Number(len(a.Elements)), nil
		})

	case "contains":
		return method(1, func(args []Value) (Value, error) {
			return Boolean(a.indexOf(args[0]) >= 0), nil
		})

	case "indexOf":
		return method(1, func(args []Value) (Value, error) {
			return Number(a.indexOf(args[0])), nil
		})

	case "reverse":
		return method(0, func([]Value) (Value, error) {
			slices.Reverse(a.Elements)

			return a, nil
		})

	case "sort":
		return method(0, func([]Value) (Value, error) {
			// Only pairs of numbers are ordered; other elements keep their
			// relative positions.
			slices.SortStableFunc(a.Elements, func(x, y Value) int {
				nx, okx := x.(Number)
				ny, oky := y.(Number)

				if !okx || !oky {
					return 0
				}

				return cmp.Compare(nx, ny)
			})

			return a, nil
		})
	}

	return nil, newRuntimeError(ErrUndefinedMethod, 0,
		"Undefined method '"+name+"' on array.")
}

func (a *Array) indexOf(v Value) int {
	return slices.IndexFunc(a.Elements, func(e Value) bool { return Equal(e, v) })
}
