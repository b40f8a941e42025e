// Copyright (c) 2025 Neomantra Corp

package wpilog

import "fmt"

// ValueKind tags the active member of a Value. The zero value is ValueNull.
type ValueKind uint8

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueInt64
	ValueFloat64
	ValueString
	ValueArray
)

// Value is the column-level sum type described in the data model: null,
// bool, i64, f64, string, or a homogeneous array of scalars. Arrays are
// never nested; struct and msgpack members are flattened into dotted
// column names by the caller instead of nesting Values.
type Value struct {
	Kind ValueKind
	B    bool
	I    int64
	F    float64
	S    string
	A    []Value // elements share a single ValueKind among ValueBool/Int64/Float64/String
}

func NullValue() Value            { return Value{Kind: ValueNull} }
func BoolValue(b bool) Value       { return Value{Kind: ValueBool, B: b} }
func Int64Value(i int64) Value    { return Value{Kind: ValueInt64, I: i} }
func Float64Value(f float64) Value { return Value{Kind: ValueFloat64, F: f} }
func StringValue(s string) Value  { return Value{Kind: ValueString, S: s} }

// ArrayValue wraps elems, which must all share the same ValueKind (or be
// empty).
func ArrayValue(elems []Value) Value {
	return Value{Kind: ValueArray, A: elems}
}

func (v Value) String() string {
	switch v.Kind {
	case ValueNull:
		return "null"
	case ValueBool:
		return fmt.Sprintf("%v", v.B)
	case ValueInt64:
		return fmt.Sprintf("%d", v.I)
	case ValueFloat64:
		return fmt.Sprintf("%g", v.F)
	case ValueString:
		return v.S
	case ValueArray:
		return fmt.Sprintf("%v", v.A)
	default:
		return "<invalid>"
	}
}

// lattice returns this value's position in the null <= bool <= i64 <= f64
// promotion order, or -1 for String and Array, which are incomparable
// "top" kinds handled separately by the caller.
func (k ValueKind) lattice() int {
	switch k {
	case ValueNull:
		return 0
	case ValueBool:
		return 1
	case ValueInt64:
		return 2
	case ValueFloat64:
		return 3
	default:
		return -1
	}
}

// promoteKind returns the join of a and b in the null/bool/i64/f64 lattice
// and true, or (0, false) if either side is string/array (incomparable;
// caller must handle).
func promoteKind(a, b ValueKind) (ValueKind, bool) {
	la, lb := a.lattice(), b.lattice()
	if la < 0 || lb < 0 {
		return 0, false
	}
	if la > lb {
		return a, true
	}
	return b, true
}
