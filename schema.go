// Copyright (c) 2025 Neomantra Corp

package wpilog

import (
	"reflect"
	"strconv"
	"strings"
)

// StructField is one declared field of a struct schema: a primitive type
// or a reference to a previously (or later) declared struct, with an
// optional fixed-length array suffix.
type StructField struct {
	TypeName string
	Name     string
	IsArray  bool
	ArrayLen int
}

// StructSchema is the parsed field tree for one `structschema:TypeName`
// declaration.
type StructSchema struct {
	Name   string
	Fields []StructField
}

var primitiveSizes = map[string]int{
	"bool": 1, "char": 1, "int8": 1, "uint8": 1,
	"int16": 2, "uint16": 2,
	"int32": 4, "uint32": 4, "float": 4, "float32": 4,
	"int64": 8, "uint64": 8, "double": 8, "float64": 8,
}

func isPrimitiveType(t string) bool {
	_, ok := primitiveSizes[t]
	return ok
}

// parseStructSchema parses the textual mini-language from spec.md §3:
// semicolon-separated `type IDENT('['INT']')?` declarations. References to
// undeclared struct names are accepted at parse time (spec.md §4.5: they
// are only validated at unpack time against the registry).
func parseStructSchema(name, text string) (*StructSchema, error) {
	schema := &StructSchema{Name: name}
	seen := make(map[string]bool)

	for _, raw := range strings.Split(text, ";") {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		fields := strings.Fields(tok)
		if len(fields) != 2 {
			return nil, newSchemaError("malformed field declaration %q in struct %q", tok, name)
		}
		typeName := fields[0]
		ident := fields[1]

		arrayLen := 0
		isArray := false
		if idx := strings.IndexByte(ident, '['); idx >= 0 {
			if !strings.HasSuffix(ident, "]") {
				return nil, newSchemaError("malformed array suffix in field %q of struct %q", ident, name)
			}
			n, err := strconv.Atoi(ident[idx+1 : len(ident)-1])
			if err != nil || n < 1 {
				return nil, newSchemaError("array length must be >= 1 in field %q of struct %q", ident, name)
			}
			arrayLen = n
			isArray = true
			ident = ident[:idx]
		}
		if !isValidIdent(ident) {
			return nil, newSchemaError("invalid field name %q in struct %q", ident, name)
		}
		if seen[ident] {
			return nil, newSchemaError("duplicate field name %q in struct %q", ident, name)
		}
		seen[ident] = true

		schema.Fields = append(schema.Fields, StructField{
			TypeName: typeName,
			Name:     ident,
			IsArray:  isArray,
			ArrayLen: arrayLen,
		})
	}
	return schema, nil
}

func isValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if i > 0 && !isAlpha && !isDigit {
			return false
		}
	}
	return true
}

// SchemaRegistry accumulates struct schemas as the data records of
// `structschema:` entries are observed in file order. Later redeclarations of the same
// name must parse to an identical tree or the file is malformed.
type SchemaRegistry struct {
	schemas map[string]*StructSchema
}

// NewSchemaRegistry returns an empty registry.
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{schemas: make(map[string]*StructSchema)}
}

// Register parses text and binds it to name. A second registration of the
// same name must be structurally equal to the first, else SchemaError.
func (r *SchemaRegistry) Register(name, text string) error {
	parsed, err := parseStructSchema(name, text)
	if err != nil {
		return err
	}
	if existing, ok := r.schemas[name]; ok {
		if !reflect.DeepEqual(existing, parsed) {
			return newSchemaError("conflicting redefinition of struct schema %q", name)
		}
		return nil
	}
	r.schemas[name] = parsed
	return nil
}

// Resolve returns the named schema, or ErrUnresolvedSchema if it has not
// (yet) been registered.
func (r *SchemaRegistry) Resolve(name string) (*StructSchema, error) {
	s, ok := r.schemas[name]
	if !ok {
		return nil, ErrUnresolvedSchema
	}
	return s, nil
}

// All returns every registered schema, in no particular order.
func (r *SchemaRegistry) All() []*StructSchema {
	out := make([]*StructSchema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	return out
}
