// Package value defines the in-memory representation shared by the ZON
// encoder and decoder: a tagged variant over the JSON value domain.
package value

import "fmt"

// Kind identifies which branch of a Value is populated.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	List
	Map
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case List:
		return "list"
	case Map:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a tagged union over null, bool, int64, float64, string,
// list<Value> and map<string, Value>. Zero value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
}

// NewNull returns the null value.
func NewNull() Value { return Value{kind: Null} }

// NewBool wraps a boolean.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewInt wraps a 64-bit integer.
func NewInt(i int64) Value { return Value{kind: Int, i: i} }

// NewFloat wraps a 64-bit float. NaN and ±Inf are normalised to Null,
// matching the codec's canonicalisation rule.
func NewFloat(f float64) Value {
	if isNonFinite(f) {
		return Value{kind: Null}
	}
	return Value{kind: Float, f: f}
}

// NewString wraps a UTF-8 string.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewList wraps a list of values. The slice is not copied.
func NewList(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: List, list: items}
}

// NewMap wraps a map of values. The map is not copied.
func NewMap(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: Map, m: m}
}

func isNonFinite(f float64) bool {
	return f != f || f > 1.7976931348623157e+308 || f < -1.7976931348623157e+308
}

// Kind reports which branch is populated.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean payload; ok is false if v is not a Bool.
func (v Value) Bool() (b bool, ok bool) {
	return v.b, v.kind == Bool
}

// Int returns the int64 payload; ok is false if v is not an Int.
func (v Value) Int() (i int64, ok bool) {
	return v.i, v.kind == Int
}

// Float returns the float64 payload; ok is false if v is not a Float.
func (v Value) Float() (f float64, ok bool) {
	return v.f, v.kind == Float
}

// Number reports whether v is Int or Float and its value widened to float64.
func (v Value) Number() (f float64, ok bool) {
	switch v.kind {
	case Int:
		return float64(v.i), true
	case Float:
		return v.f, true
	default:
		return 0, false
	}
}

// String returns the string payload; ok is false if v is not a String.
func (v Value) String() (s string, ok bool) {
	return v.s, v.kind == String
}

// List returns the list payload; ok is false if v is not a List.
func (v Value) List() (items []Value, ok bool) {
	return v.list, v.kind == List
}

// Map returns the map payload; ok is false if v is not a Map.
func (v Value) Map() (m map[string]Value, ok bool) {
	return v.m, v.kind == Map
}

// Equal reports deep, order-sensitive-for-lists / order-insensitive-for-maps
// structural equality. Two Null values compare equal to each other
// regardless of how they originated (explicit null, or NaN/Inf normalised).
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Int:
		return a.i == b.i
	case Float:
		return a.f == b.f
	case String:
		return a.s == b.s
	case List:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case Map:
		if len(a.m) != len(b.m) {
			return false
		}
		for k, av := range a.m {
			bv, ok := b.m[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// GoString renders a debug form, mainly for test failure output.
func (v Value) GoString() string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		return fmt.Sprintf("%v", v.b)
	case Int:
		return fmt.Sprintf("%d", v.i)
	case Float:
		return fmt.Sprintf("%g", v.f)
	case String:
		return fmt.Sprintf("%q", v.s)
	case List:
		return fmt.Sprintf("%v", v.list)
	case Map:
		return fmt.Sprintf("%v", v.m)
	default:
		return "<invalid>"
	}
}
