// Copyright (c) 2025 Neomantra Corp

package wpilog

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// WideRow is one fold step of the projector: a timestamped, wide-format
// row whose data maps dotted column names to Values.
type WideRow struct {
	Timestamp float64
	Entry     uint32
	TypeName  string
	LoopCount uint64
	Data      map[string]Value
}

// Formatter carries the projector's cross-row bookkeeping: the union of
// every column name ever populated, the struct schemas discovered along
// the way, and a count of records skipped for recoverable reasons (unknown
// entry, unresolved schema, payload shape mismatch).
type Formatter struct {
	MetricsNames   map[string]struct{}
	StructSchemas  []*StructSchema
	SkippedRecords int
}

func newFormatter() *Formatter {
	return &Formatter{MetricsNames: make(map[string]struct{})}
}

func (f *Formatter) addMetric(name string) {
	f.MetricsNames[name] = struct{}{}
}

// SortedMetricNames returns MetricsNames as a lexically sorted slice.
func (f *Formatter) SortedMetricNames() []string {
	names := make([]string, 0, len(f.MetricsNames))
	for n := range f.MetricsNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// projectRecords folds the raw record stream from rr into wide rows,
// following the fold algorithm of spec.md §4.7: control records maintain
// the entry directory and schema registry; data records are decoded and
// emitted as one WideRow each, in file order, with a strictly increasing
// loop_count.
func projectRecords(rr *RecordReader) ([]WideRow, *Formatter, error) {
	dir := NewDirectory()
	reg := NewSchemaRegistry()
	formatter := newFormatter()

	var rows []WideRow
	var loopCount uint64

	for rr.Next() {
		rec := rr.Record()

		if rec.IsControl() {
			if err := applyControl(dir, reg, rec); err != nil {
				return nil, nil, err
			}
			continue
		}

		entry, ok := dir.Lookup(rec.EntryID)
		if !ok {
			formatter.SkippedRecords++
			continue
		}

		if strings.HasPrefix(entry.Type, StructSchemaPrefix) {
			if err := registerSchemaRecord(reg, entry, rec); err != nil {
				return nil, nil, err
			}
			continue
		}

		row, skip, err := projectDataRecord(entry, rec, reg, formatter)
		if err != nil {
			return nil, nil, err
		}
		if skip {
			formatter.SkippedRecords++
			continue
		}
		row.LoopCount = loopCount
		rows = append(rows, row)
		loopCount++
	}
	if err := rr.Err(); err != nil {
		return nil, nil, err
	}

	formatter.StructSchemas = reg.All()
	return rows, formatter, nil
}

func applyControl(dir *Directory, reg *SchemaRegistry, rec Record) error {
	cr, err := parseControlRecord(rec.Payload)
	if err != nil {
		return err
	}
	switch cr.Tag {
	case TagStart:
		return dir.ApplyStart(cr.EntryID, cr.Name, cr.Type, cr.Metadata, rec.TimestampUs)
	case TagFinish:
		dir.ApplyFinish(cr.EntryID)
		return nil
	case TagSetMetadata:
		return dir.ApplyMetadata(cr.EntryID, cr.Metadata)
	default:
		return newParseError(ControlEntryID, "", -1, -1, "unhandled control tag %v", cr.Tag)
	}
}

// registerSchemaRecord treats a data record for a `structschema:` entry as
// the schema's UTF-8 text body, per spec.md §4.5: "populated by the
// structschema:TypeName entries observed during record iteration."
func registerSchemaRecord(reg *SchemaRegistry, entry EntryInfo, rec Record) error {
	if !utf8.Valid(rec.Payload) {
		return newUtf8Error(rec.EntryID, entry.Name, nil)
	}
	schemaName := strings.TrimPrefix(entry.Type, StructSchemaPrefix)
	return reg.Register(schemaName, string(rec.Payload))
}

// projectDataRecord decodes one non-control, non-schema data record into
// a WideRow. The bool return reports a recoverable skip (unresolved
// schema or payload shape mismatch), distinct from the fatal error return
// (schema conflicts, directory-state errors surfaced by the caller).
func projectDataRecord(entry EntryInfo, rec Record, reg *SchemaRegistry, formatter *Formatter) (WideRow, bool, error) {
	row := WideRow{
		Timestamp: float64(rec.TimestampUs) / 1_000_000.0,
		Entry:     rec.EntryID,
		TypeName:  entry.Type,
		Data:      make(map[string]Value),
	}

	if strings.HasPrefix(entry.Type, StructPrefix) {
		structName := strings.TrimPrefix(entry.Type, StructPrefix)
		schema, err := reg.Resolve(structName)
		if err != nil {
			return WideRow{}, true, nil
		}
		cols, err := unpackStruct(entry.Name, schema, rec.Payload, reg, rec.EntryID, entry.Name)
		if err != nil {
			// payload-shape errors against a known schema are recoverable
			// per spec.md §7; only framing/schema-registry errors are fatal.
			return WideRow{}, true, nil
		}
		for k, v := range cols {
			row.Data[k] = v
			formatter.addMetric(k)
		}
		return row, false, nil
	}

	v, subCols, err := decodePayload(entry.Type, rec.Payload, rec.EntryID, entry.Name)
	if err != nil {
		return WideRow{}, true, nil
	}
	if subCols != nil {
		for k, sv := range subCols {
			row.Data[k] = sv
			formatter.addMetric(k)
		}
	} else {
		row.Data[entry.Name] = v
		formatter.addMetric(entry.Name)
	}
	return row, false, nil
}
