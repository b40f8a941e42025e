// Copyright (c) 2025 Neomantra Corp

package parquetio

import "github.com/frc-utils/wpilog-go"

// ColumnKind is the inferred Arrow/Parquet representation chosen for one
// wide-row column, per the type-union rules of spec.md §4.8 (the
// null <= bool <= i64 <= f64 promotion lattice, with string and array
// kinds handled as special cases).
type ColumnKind int

const (
	ColBool ColumnKind = iota
	ColInt64
	ColFloat64
	ColString
	ColBoolArray
	ColInt64Array
	ColFloat64Array
	ColStringArray
)

// inferColumns scans rows and derives one ColumnKind per column name in
// names, implementing spec.md §4.8's promotion rules:
//   - all non-null values share a primitive kind -> that kind
//   - mixed numeric (bool/i64/f64) -> promote to the lattice join (f64 if
//     any f64 is present, else i64 if any i64, else bool)
//   - any string value mixed with numeric -> string, numeric values
//     coerced to their canonical decimal text at write time
//   - arrays: list-of-element-kind only if every non-null value for the
//     column is an array of the same element kind; otherwise the column
//     is dropped to a stringified representation
func inferColumns(rows []wpilog.WideRow, names []string) map[string]ColumnKind {
	kinds := make(map[string]ColumnKind, len(names))
	for _, name := range names {
		switch name {
		case timestampColumn:
			kinds[name] = ColFloat64
		case entryTypeColumn:
			kinds[name] = ColString
		default:
			kinds[name] = inferOneColumn(rows, name)
		}
	}
	return kinds
}

func inferOneColumn(rows []wpilog.WideRow, name string) ColumnKind {
	sawString := false
	sawArray := false
	arrayHomogeneous := true
	var arrayElemKind wpilog.ValueKind
	arrayElemKindSet := false
	lattice := wpilog.ValueNull

	for _, row := range rows {
		v, ok := row.Data[name]
		if !ok || v.Kind == wpilog.ValueNull {
			continue
		}
		switch v.Kind {
		case wpilog.ValueString:
			sawString = true
		case wpilog.ValueArray:
			sawArray = true
			ek := arrayElementKind(v)
			if !arrayElemKindSet {
				arrayElemKind = ek
				arrayElemKindSet = true
			} else if ek != arrayElemKind {
				arrayHomogeneous = false
			}
		default:
			if joined, ok := joinLattice(lattice, v.Kind); ok {
				lattice = joined
			} else {
				sawString = true
			}
		}
	}

	if sawArray {
		if !arrayHomogeneous || sawString {
			return ColStringArray // stringified fallback column, still array-shaped in output
		}
		switch arrayElemKind {
		case wpilog.ValueBool:
			return ColBoolArray
		case wpilog.ValueInt64:
			return ColInt64Array
		case wpilog.ValueFloat64:
			return ColFloat64Array
		default:
			return ColStringArray
		}
	}
	if sawString {
		return ColString
	}
	switch lattice {
	case wpilog.ValueBool:
		return ColBool
	case wpilog.ValueInt64:
		return ColInt64
	case wpilog.ValueFloat64:
		return ColFloat64
	default:
		return ColString // column never populated; default to string, written all-null
	}
}

func arrayElementKind(v wpilog.Value) wpilog.ValueKind {
	if len(v.A) == 0 {
		return wpilog.ValueNull
	}
	return v.A[0].Kind
}

func joinLattice(a, b wpilog.ValueKind) (wpilog.ValueKind, bool) {
	rank := func(k wpilog.ValueKind) int {
		switch k {
		case wpilog.ValueNull:
			return 0
		case wpilog.ValueBool:
			return 1
		case wpilog.ValueInt64:
			return 2
		case wpilog.ValueFloat64:
			return 3
		default:
			return -1
		}
	}
	ra, rb := rank(a), rank(b)
	if ra < 0 || rb < 0 {
		return 0, false
	}
	if ra >= rb {
		return a, true
	}
	return b, true
}
