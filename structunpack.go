// Copyright (c) 2025 Neomantra Corp

package wpilog

import (
	"bytes"
	"math"
)

// fieldSize returns the byte width of one field (its primitive width, or
// the resolved size of a referenced struct), times its array length when
// present.
func fieldSize(f StructField, reg *SchemaRegistry) (int, error) {
	base, err := baseTypeSize(f.TypeName, reg)
	if err != nil {
		return 0, err
	}
	if f.IsArray {
		return base * f.ArrayLen, nil
	}
	return base, nil
}

func baseTypeSize(typeName string, reg *SchemaRegistry) (int, error) {
	if sz, ok := primitiveSizes[typeName]; ok {
		return sz, nil
	}
	nested, err := reg.Resolve(typeName)
	if err != nil {
		return 0, err
	}
	return structSize(nested, reg)
}

func structSize(s *StructSchema, reg *SchemaRegistry) (int, error) {
	total := 0
	for _, f := range s.Fields {
		sz, err := fieldSize(f, reg)
		if err != nil {
			return 0, err
		}
		total += sz
	}
	return total, nil
}

// unpackStruct unpacks payload according to schema, producing a flat map
// from dotted column path (rooted at columnPrefix) to Value. Total schema
// size must equal len(payload) exactly; under- and over-size both return a
// ParseError, which the projector counts as a skipped record.
func unpackStruct(columnPrefix string, schema *StructSchema, payload []byte, reg *SchemaRegistry, entryID uint32, entryName string) (map[string]Value, error) {
	want, err := structSize(schema, reg)
	if err != nil {
		return nil, err
	}
	if want != len(payload) {
		return nil, newParseError(entryID, entryName, want, len(payload), "struct %q size mismatch", schema.Name)
	}
	out := make(map[string]Value)
	if _, err := unpackStructInto(columnPrefix, schema, payload, reg, out, entryID, entryName); err != nil {
		return nil, err
	}
	return out, nil
}

func unpackStructInto(prefix string, schema *StructSchema, data []byte, reg *SchemaRegistry, out map[string]Value, entryID uint32, entryName string) (int, error) {
	offset := 0
	for _, f := range schema.Fields {
		path := prefix + "." + f.Name
		n, err := unpackFieldInto(path, f, data[offset:], reg, out, entryID, entryName)
		if err != nil {
			return 0, err
		}
		offset += n
	}
	return offset, nil
}

func unpackFieldInto(path string, f StructField, data []byte, reg *SchemaRegistry, out map[string]Value, entryID uint32, entryName string) (int, error) {
	if isPrimitiveType(f.TypeName) {
		return unpackPrimitiveField(path, f, data, out, entryID, entryName)
	}

	nested, err := reg.Resolve(f.TypeName)
	if err != nil {
		return 0, err
	}
	if f.IsArray {
		// array-of-struct: per spec.md §4.6/§9, treat as an error unless
		// independently referenced — never encoded by any known source.
		return 0, newParseError(entryID, entryName, -1, -1, "array of struct %q not supported for field %q", f.TypeName, f.Name)
	}
	return unpackStructInto(path, nested, data, reg, out, entryID, entryName)
}

func unpackPrimitiveField(path string, f StructField, data []byte, out map[string]Value, entryID uint32, entryName string) (int, error) {
	base := primitiveSizes[f.TypeName]

	if f.TypeName == "char" && f.IsArray {
		n := base * f.ArrayLen
		raw := data[:n]
		if idx := bytes.IndexByte(raw, 0); idx >= 0 {
			raw = raw[:idx]
		}
		out[path] = StringValue(string(raw))
		return n, nil
	}
	if f.TypeName == "char" {
		out[path] = StringValue(string(data[:1]))
		return 1, nil
	}

	if !f.IsArray {
		v, err := decodePrimitiveScalar(f.TypeName, data[:base], entryID, entryName)
		if err != nil {
			return 0, err
		}
		out[path] = v
		return base, nil
	}

	elems := make([]Value, f.ArrayLen)
	for i := 0; i < f.ArrayLen; i++ {
		v, err := decodePrimitiveScalar(f.TypeName, data[i*base:(i+1)*base], entryID, entryName)
		if err != nil {
			return 0, err
		}
		elems[i] = v
	}
	out[path] = ArrayValue(elems)
	return base * f.ArrayLen, nil
}

func decodePrimitiveScalar(typeName string, b []byte, entryID uint32, entryName string) (Value, error) {
	switch typeName {
	case "bool":
		return BoolValue(b[0] != 0), nil
	case "int8":
		return Int64Value(int64(int8(b[0]))), nil
	case "uint8":
		return Int64Value(int64(b[0])), nil
	case "int16":
		return Int64Value(int64(int16(readUintLE(b)))), nil
	case "uint16":
		return Int64Value(int64(uint16(readUintLE(b)))), nil
	case "int32":
		return Int64Value(int64(int32(readUintLE(b)))), nil
	case "uint32":
		return Int64Value(int64(uint32(readUintLE(b)))), nil
	case "int64":
		return Int64Value(int64(readUintLE(b))), nil
	case "uint64":
		// widened to f64 on output is only specified for the top-level
		// "float" type; uint64 here keeps the closest-fitting i64 slot.
		return Int64Value(int64(readUintLE(b))), nil
	case "float", "float32":
		return Float64Value(float64(math.Float32frombits(uint32(readUintLE(b))))), nil
	case "double", "float64":
		return Float64Value(math.Float64frombits(readUintLE(b))), nil
	default:
		return Value{}, newSchemaError("unknown primitive type %q", typeName)
	}
}
