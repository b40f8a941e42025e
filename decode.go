// Copyright (c) 2025 Neomantra Corp

package wpilog

import (
	"encoding/hex"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/vmihailenco/msgpack/v5"
)

// decodePayload dispatches on typeName (the entry's type string) and
// returns the decoded Value plus, for struct/msgpack payloads, a flat set
// of dotted sub-columns the projector should emit instead of (or in
// addition to) the scalar value. A nil subColumns return means "scalar
// value only".
func decodePayload(typeName string, payload []byte, entryID uint32, entryName string) (Value, map[string]Value, error) {
	switch {
	case typeName == TypeBoolean:
		v, err := decodeBoolean(payload, entryID, entryName)
		return v, nil, err
	case typeName == TypeInt64:
		v, err := decodeInt64(payload, entryID, entryName)
		return v, nil, err
	case typeName == TypeFloat:
		v, err := decodeFloat32(payload, entryID, entryName)
		return v, nil, err
	case typeName == TypeDouble:
		v, err := decodeFloat64(payload, entryID, entryName)
		return v, nil, err
	case typeName == TypeString || typeName == TypeJSON:
		v, err := decodeString(payload, entryID, entryName)
		return v, nil, err
	case typeName == TypeBooleanArray:
		v, err := decodeBooleanArray(payload)
		return v, nil, err
	case typeName == TypeInt64Array:
		v, err := decodeInt64Array(payload, entryID, entryName)
		return v, nil, err
	case typeName == TypeFloatArray:
		v, err := decodeFloat32Array(payload, entryID, entryName)
		return v, nil, err
	case typeName == TypeDoubleArray:
		v, err := decodeFloat64Array(payload, entryID, entryName)
		return v, nil, err
	case typeName == TypeStringArray:
		v, err := decodeStringArray(payload, entryID, entryName)
		return v, nil, err
	case typeName == TypeMsgPack:
		return decodeMsgPack(payload, entryID, entryName)
	case typeName == TypeRaw:
		return decodeRaw(payload), nil, nil
	case strings.HasPrefix(typeName, StructPrefix):
		// handled by structunpack.go via the schema registry; decode.go
		// only recognizes the type string here.
		return NullValue(), nil, nil
	default:
		// unrecognized type string: preserve as raw bytes per spec.md §3.
		return decodeRaw(payload), nil, nil
	}
}

func decodeBoolean(p []byte, id uint32, name string) (Value, error) {
	if len(p) != 1 {
		return Value{}, newParseError(id, name, 1, len(p), "boolean payload: %s", unexpectedBytesError(len(p), 1))
	}
	return BoolValue(p[0] != 0), nil
}

func decodeInt64(p []byte, id uint32, name string) (Value, error) {
	if len(p) != 8 {
		return Value{}, newParseError(id, name, 8, len(p), "int64 payload: %s", unexpectedBytesError(len(p), 8))
	}
	return Int64Value(int64(readUintLE(p))), nil
}

func decodeFloat32(p []byte, id uint32, name string) (Value, error) {
	if len(p) != 4 {
		return Value{}, newParseError(id, name, 4, len(p), "float payload: %s", unexpectedBytesError(len(p), 4))
	}
	return Float64Value(float64(math.Float32frombits(uint32(readUintLE(p))))), nil
}

func decodeFloat64(p []byte, id uint32, name string) (Value, error) {
	if len(p) != 8 {
		return Value{}, newParseError(id, name, 8, len(p), "double payload: %s", unexpectedBytesError(len(p), 8))
	}
	return Float64Value(math.Float64frombits(readUintLE(p))), nil
}

func decodeString(p []byte, id uint32, name string) (Value, error) {
	if !utf8.Valid(p) {
		return Value{}, newUtf8Error(id, name, nil)
	}
	return StringValue(string(p)), nil
}

func decodeBooleanArray(p []byte) (Value, error) {
	elems := make([]Value, len(p))
	for i, b := range p {
		elems[i] = BoolValue(b != 0)
	}
	return ArrayValue(elems), nil
}

func decodeInt64Array(p []byte, id uint32, name string) (Value, error) {
	if len(p)%8 != 0 {
		return Value{}, newParseError(id, name, 0, len(p)%8, "int64[] payload not a multiple of 8 bytes")
	}
	n := len(p) / 8
	elems := make([]Value, n)
	for i := 0; i < n; i++ {
		elems[i] = Int64Value(int64(readUintLE(p[i*8 : i*8+8])))
	}
	return ArrayValue(elems), nil
}

func decodeFloat32Array(p []byte, id uint32, name string) (Value, error) {
	if len(p)%4 != 0 {
		return Value{}, newParseError(id, name, 0, len(p)%4, "float[] payload not a multiple of 4 bytes")
	}
	n := len(p) / 4
	elems := make([]Value, n)
	for i := 0; i < n; i++ {
		elems[i] = Float64Value(float64(math.Float32frombits(uint32(readUintLE(p[i*4 : i*4+4])))))
	}
	return ArrayValue(elems), nil
}

func decodeFloat64Array(p []byte, id uint32, name string) (Value, error) {
	if len(p)%8 != 0 {
		return Value{}, newParseError(id, name, 0, len(p)%8, "double[] payload not a multiple of 8 bytes")
	}
	n := len(p) / 8
	elems := make([]Value, n)
	for i := 0; i < n; i++ {
		elems[i] = Float64Value(math.Float64frombits(readUintLE(p[i*8 : i*8+8])))
	}
	return ArrayValue(elems), nil
}

func decodeStringArray(p []byte, id uint32, name string) (Value, error) {
	if len(p) < 4 {
		return Value{}, newParseError(id, name, 4, len(p), "string[] missing count prefix")
	}
	count := int(readUintLE(p[:4]))
	p = p[4:]
	elems := make([]Value, 0, count)
	for i := 0; i < count; i++ {
		if len(p) < 4 {
			return Value{}, newParseError(id, name, 4, len(p), "string[] element %d missing length", i)
		}
		n := int(readUintLE(p[:4]))
		p = p[4:]
		if len(p) < n {
			return Value{}, newParseError(id, name, n, len(p), "string[] element %d truncated", i)
		}
		if !utf8.Valid(p[:n]) {
			return Value{}, newUtf8Error(id, name, nil)
		}
		elems = append(elems, StringValue(string(p[:n])))
		p = p[n:]
	}
	if len(p) != 0 {
		return Value{}, newParseError(id, name, 0, len(p), "string[] trailing bytes")
	}
	return ArrayValue(elems), nil
}

func decodeRaw(p []byte) Value {
	return StringValue(hex.EncodeToString(p))
}

// decodeMsgPack unpacks a MessagePack payload into the column value sum
// type. Top-level maps become dotted sub-columns rooted at entryName;
// nested arrays flatten only if every element is a homogeneous scalar,
// otherwise the sub-column is conservatively stringified (spec.md §9:
// "heterogeneous nested arrays... conservatively stringified").
func decodeMsgPack(p []byte, id uint32, entryName string) (Value, map[string]Value, error) {
	var decoded any
	if err := msgpack.Unmarshal(p, &decoded); err != nil {
		return Value{}, nil, newParseError(id, entryName, -1, -1, "msgpack decode failed: %v", err)
	}
	cols := make(map[string]Value)
	flattenMsgPack(entryName, decoded, cols)
	if v, ok := cols[entryName]; ok && len(cols) == 1 {
		return v, nil, nil
	}
	return NullValue(), cols, nil
}

func flattenMsgPack(path string, v any, out map[string]Value) {
	switch t := v.(type) {
	case nil:
		out[path] = NullValue()
	case bool:
		out[path] = BoolValue(t)
	case string:
		out[path] = StringValue(t)
	case int64:
		out[path] = Int64Value(t)
	case int8:
		out[path] = Int64Value(int64(t))
	case int16:
		out[path] = Int64Value(int64(t))
	case int32:
		out[path] = Int64Value(int64(t))
	case int:
		out[path] = Int64Value(int64(t))
	case uint8:
		out[path] = Int64Value(int64(t))
	case uint16:
		out[path] = Int64Value(int64(t))
	case uint32:
		out[path] = Int64Value(int64(t))
	case uint64:
		out[path] = Int64Value(int64(t))
	case uint:
		out[path] = Int64Value(int64(t))
	case float32:
		out[path] = Float64Value(float64(t))
	case float64:
		out[path] = Float64Value(t)
	case []byte:
		out[path] = StringValue(hex.EncodeToString(t))
	case map[string]any:
		for k, sub := range t {
			flattenMsgPack(path+"."+k, sub, out)
		}
	case []any:
		out[path] = flattenMsgPackArray(t)
	default:
		out[path] = NullValue()
	}
}

func flattenMsgPackArray(items []any) Value {
	elems := make([]Value, 0, len(items))
	scratch := make(map[string]Value, 1)
	var kind ValueKind
	homogeneous := true
	for i, item := range items {
		scratch["x"] = Value{}
		flattenMsgPack("x", item, scratch)
		ev := scratch["x"]
		if ev.Kind == ValueArray || ev.Kind == ValueNull {
			homogeneous = false
			break
		}
		if i == 0 {
			kind = ev.Kind
		} else if ev.Kind != kind {
			homogeneous = false
			break
		}
		elems = append(elems, ev)
	}
	if !homogeneous {
		return StringValue(stringifyAny(items))
	}
	return ArrayValue(elems)
}

func stringifyAny(v any) string {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}
