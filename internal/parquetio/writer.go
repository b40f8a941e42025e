// Copyright (c) 2025 Neomantra Corp

package parquetio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	pqfile "github.com/apache/arrow-go/v18/parquet/file"
	pqschema "github.com/apache/arrow-go/v18/parquet/schema"

	"github.com/frc-utils/wpilog-go"
)

const (
	// DefaultChunkSize matches spec.md §4.8's default row-group size.
	DefaultChunkSize = 50_000
	MinChunkSize     = 1
	MaxChunkSize     = 10_000_000

	timestampColumn = "timestamp"
	entryTypeColumn = "entry_type"
)

// WriteStats reports the outcome of a write, per spec.md §4.8.
type WriteStats struct {
	NumRecords int
	NumChunks  int
	ChunkSize  int
}

// ParquetWriter is the core's C8 component: it infers an Arrow/Parquet
// schema from a set of wide rows, partitions them into fixed-size
// chunks, and emits one `file_part{NNN}.parquet` per chunk. Grounded on
// the teacher's internal/file/parquet_writer.go, generalized from a
// handful of fixed DBN message schemas to a dynamically inferred wide
// schema.
type ParquetWriter struct {
	outputDir string
	chunkSize int
}

// NewParquetWriter returns a writer targeting outputDir, with the default
// chunk size.
func NewParquetWriter(outputDir string) *ParquetWriter {
	return &ParquetWriter{outputDir: outputDir, chunkSize: DefaultChunkSize}
}

// ChunkSize sets the writer's row-group size, clamped to
// [MinChunkSize, MaxChunkSize].
func (w *ParquetWriter) ChunkSize(n int) *ParquetWriter {
	if n < MinChunkSize {
		n = MinChunkSize
	}
	if n > MaxChunkSize {
		n = MaxChunkSize
	}
	w.chunkSize = n
	return w
}

// Write projects rows into output_dir/file_part{NNN}.parquet files and
// discards the stats.
func (w *ParquetWriter) Write(rows []wpilog.WideRow) error {
	_, err := w.WriteWithStats(rows)
	return err
}

// WriteWithStats is Write, additionally returning WriteStats. Any I/O
// failure aborts with OutputError; partial files are left on disk, per
// spec.md §4.8's failure policy.
func (w *ParquetWriter) WriteWithStats(rows []wpilog.WideRow) (WriteStats, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return WriteStats{}, wpilog.NewOutputError(fmt.Errorf("creating output dir: %w", err))
	}

	names := collectColumnNames(rows)
	kinds := inferColumns(rows, names)
	groupNode := buildGroupNode(names, kinds)

	props := parquet.NewWriterProperties(
		parquet.WithVersion(parquet.V2_LATEST),
		parquet.WithCompression(compress.Codecs.Snappy),
	)

	numChunks := 0
	for offset := 0; offset < len(rows) || (offset == 0 && len(rows) == 0); offset += w.chunkSize {
		end := offset + w.chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[offset:end]

		path := filepath.Join(w.outputDir, fmt.Sprintf("file_part%03d.parquet", numChunks))
		if err := writeChunk(path, groupNode, props, chunk, names, kinds); err != nil {
			return WriteStats{}, err
		}
		numChunks++
		if len(rows) == 0 {
			break
		}
	}

	return WriteStats{NumRecords: len(rows), NumChunks: numChunks, ChunkSize: w.chunkSize}, nil
}

func collectColumnNames(rows []wpilog.WideRow) []string {
	set := map[string]struct{}{timestampColumn: {}, entryTypeColumn: {}}
	for _, r := range rows {
		for k := range r.Data {
			set[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for k := range set {
		if k == timestampColumn || k == entryTypeColumn {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)
	return append([]string{timestampColumn, entryTypeColumn}, names...)
}

func buildGroupNode(names []string, kinds map[string]ColumnKind) *pqschema.GroupNode {
	fields := make(pqschema.FieldList, 0, len(names))
	for _, name := range names {
		fields = append(fields, buildFieldNode(name, kinds[name]))
	}
	return pqschema.MustGroup(pqschema.NewGroupNode("schema", parquet.Repetitions.Required, fields, -1))
}

func buildFieldNode(name string, kind ColumnKind) pqschema.Node {
	switch kind {
	case ColBool:
		return pqschema.NewBooleanNode(name, parquet.Repetitions.Optional, -1)
	case ColInt64:
		return pqschema.NewInt64Node(name, parquet.Repetitions.Optional, -1)
	case ColFloat64:
		return pqschema.NewFloat64Node(name, parquet.Repetitions.Optional, -1)
	case ColString:
		return pqschema.MustPrimitive(pqschema.NewPrimitiveNodeConverted(name, parquet.Repetitions.Optional, parquet.Types.ByteArray, pqschema.ConvertedTypes.UTF8, 0, 0, 0, -1))
	case ColBoolArray:
		return pqschema.MustPrimitive(pqschema.NewPrimitiveNode(name, parquet.Repetitions.Repeated, parquet.Types.Boolean, -1, -1))
	case ColInt64Array:
		return pqschema.MustPrimitive(pqschema.NewPrimitiveNode(name, parquet.Repetitions.Repeated, parquet.Types.Int64, -1, -1))
	case ColFloat64Array:
		return pqschema.MustPrimitive(pqschema.NewPrimitiveNode(name, parquet.Repetitions.Repeated, parquet.Types.Double, -1, -1))
	case ColStringArray:
		return pqschema.MustPrimitive(pqschema.NewPrimitiveNodeConverted(name, parquet.Repetitions.Repeated, parquet.Types.ByteArray, pqschema.ConvertedTypes.UTF8, 0, 0, 0, -1))
	default:
		return pqschema.MustPrimitive(pqschema.NewPrimitiveNodeConverted(name, parquet.Repetitions.Optional, parquet.Types.ByteArray, pqschema.ConvertedTypes.UTF8, 0, 0, 0, -1))
	}
}

func writeChunk(path string, groupNode *pqschema.GroupNode, props *parquet.WriterProperties, rows []wpilog.WideRow, names []string, kinds map[string]ColumnKind) error {
	out, err := os.Create(path)
	if err != nil {
		return wpilog.NewOutputError(err)
	}
	defer out.Close()

	pw := pqfile.NewParquetWriter(out, groupNode, pqfile.WithWriterProps(props))
	defer pw.Close()

	rgw := pw.AppendBufferedRowGroup()
	for col, name := range names {
		if err := writeColumn(rgw, col, name, kinds[name], rows); err != nil {
			return wpilog.NewOutputError(fmt.Errorf("writing column %q: %w", name, err))
		}
	}
	if err := rgw.Close(); err != nil {
		return wpilog.NewOutputError(err)
	}
	if err := pw.FlushWithFooter(); err != nil {
		return wpilog.NewOutputError(fmt.Errorf("flushing %s: %w", path, err))
	}
	return nil
}

func writeColumn(rgw pqfile.BufferedRowGroupWriter, col int, name string, kind ColumnKind, rows []wpilog.WideRow) error {
	cw, err := rgw.Column(col)
	if err != nil {
		return err
	}

	// WriteBatch's own error return is ignored here, matching the
	// teacher's ParquetWriteRow_* helpers; a malformed column surfaces
	// at FlushWithFooter time instead.
	switch kind {
	case ColBool:
		vals, defs := boolValues(name, rows)
		cw.(*pqfile.BooleanColumnChunkWriter).WriteBatch(vals, defs, nil)
	case ColInt64:
		vals, defs := int64Values(name, rows, kind)
		cw.(*pqfile.Int64ColumnChunkWriter).WriteBatch(vals, defs, nil)
	case ColFloat64:
		vals, defs := float64Values(name, rows, kind)
		cw.(*pqfile.Float64ColumnChunkWriter).WriteBatch(vals, defs, nil)
	case ColString:
		vals, defs := stringValues(name, rows, kind)
		cw.(*pqfile.ByteArrayColumnChunkWriter).WriteBatch(vals, defs, nil)
	case ColBoolArray, ColInt64Array, ColFloat64Array, ColStringArray:
		return writeArrayColumn(cw, name, kind, rows)
	default:
		return fmt.Errorf("unhandled column kind %d", kind)
	}
	return nil
}

func boolValues(name string, rows []wpilog.WideRow) ([]bool, []int16) {
	vals := make([]bool, 0, len(rows))
	defs := make([]int16, len(rows))
	for i, r := range rows {
		v, ok := r.Data[name]
		if !ok || v.Kind == wpilog.ValueNull {
			defs[i] = 0
			continue
		}
		defs[i] = 1
		vals = append(vals, v.B)
	}
	return vals, defs
}

// int64Values coerces bool columns promoted to int64 (true->1, false->0).
func int64Values(name string, rows []wpilog.WideRow, kind ColumnKind) ([]int64, []int16) {
	vals := make([]int64, 0, len(rows))
	defs := make([]int16, len(rows))
	for i, r := range rows {
		v, ok := r.Data[name]
		if !ok || v.Kind == wpilog.ValueNull {
			defs[i] = 0
			continue
		}
		defs[i] = 1
		switch v.Kind {
		case wpilog.ValueBool:
			if v.B {
				vals = append(vals, 1)
			} else {
				vals = append(vals, 0)
			}
		default:
			vals = append(vals, v.I)
		}
	}
	return vals, defs
}

// float64Values coerces bool/int64 columns promoted to f64 per spec.md
// §4.8's "mixed numeric+bool -> f64 with bool coerced to 0.0/1.0". The
// mandatory timestamp column is always present, pulled from
// WideRow.Timestamp rather than Data per spec.md §6/§8.2.
func float64Values(name string, rows []wpilog.WideRow, kind ColumnKind) ([]float64, []int16) {
	vals := make([]float64, 0, len(rows))
	defs := make([]int16, len(rows))
	if name == timestampColumn {
		for i, r := range rows {
			defs[i] = 1
			vals = append(vals, r.Timestamp)
		}
		return vals, defs
	}
	for i, r := range rows {
		v, ok := r.Data[name]
		if !ok || v.Kind == wpilog.ValueNull {
			defs[i] = 0
			continue
		}
		defs[i] = 1
		switch v.Kind {
		case wpilog.ValueBool:
			if v.B {
				vals = append(vals, 1.0)
			} else {
				vals = append(vals, 0.0)
			}
		case wpilog.ValueInt64:
			vals = append(vals, float64(v.I))
		default:
			vals = append(vals, v.F)
		}
	}
	return vals, defs
}

// stringValues coerces numeric values to their canonical decimal text per
// spec.md §4.8's string/numeric mixed-column rule. The mandatory
// entry_type column is always present, pulled from WideRow.TypeName
// rather than Data per spec.md §6/§8.2.
func stringValues(name string, rows []wpilog.WideRow, kind ColumnKind) ([]parquet.ByteArray, []int16) {
	vals := make([]parquet.ByteArray, 0, len(rows))
	defs := make([]int16, len(rows))
	if name == entryTypeColumn {
		for i, r := range rows {
			defs[i] = 1
			vals = append(vals, parquet.ByteArray(r.TypeName))
		}
		return vals, defs
	}
	for i, r := range rows {
		v, ok := r.Data[name]
		if !ok || v.Kind == wpilog.ValueNull {
			defs[i] = 0
			continue
		}
		defs[i] = 1
		vals = append(vals, parquet.ByteArray(valueToCanonicalString(v)))
	}
	return vals, defs
}

func valueToCanonicalString(v wpilog.Value) string {
	switch v.Kind {
	case wpilog.ValueBool:
		return strconv.FormatBool(v.B)
	case wpilog.ValueInt64:
		return strconv.FormatInt(v.I, 10)
	case wpilog.ValueFloat64:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	default:
		return v.S
	}
}

// writeArrayColumn writes a repeated-primitive (2-level) column: each row
// contributes one def/rep-level entry per array element (replevel 0 for
// the first element, 1 thereafter), or a single defLevel-0 entry for a
// row where the column is absent or the array is empty — collapsing
// "column absent" and "present but empty" into one representation, a
// deliberate simplification recorded in DESIGN.md.
func writeArrayColumn(cw pqfile.ColumnChunkWriter, name string, kind ColumnKind, rows []wpilog.WideRow) error {
	switch kind {
	case ColBoolArray:
		var vals []bool
		var defs, reps []int16
		for _, r := range rows {
			v, ok := r.Data[name]
			if !ok || v.Kind != wpilog.ValueArray || len(v.A) == 0 {
				defs = append(defs, 0)
				reps = append(reps, 0)
				continue
			}
			for i, e := range v.A {
				vals = append(vals, e.B)
				defs = append(defs, 1)
				if i == 0 {
					reps = append(reps, 0)
				} else {
					reps = append(reps, 1)
				}
			}
		}
		cw.(*pqfile.BooleanColumnChunkWriter).WriteBatch(vals, defs, reps)
		return nil
	case ColInt64Array:
		var vals []int64
		var defs, reps []int16
		for _, r := range rows {
			v, ok := r.Data[name]
			if !ok || v.Kind != wpilog.ValueArray || len(v.A) == 0 {
				defs = append(defs, 0)
				reps = append(reps, 0)
				continue
			}
			for i, e := range v.A {
				vals = append(vals, e.I)
				defs = append(defs, 1)
				if i == 0 {
					reps = append(reps, 0)
				} else {
					reps = append(reps, 1)
				}
			}
		}
		cw.(*pqfile.Int64ColumnChunkWriter).WriteBatch(vals, defs, reps)
		return nil
	case ColFloat64Array:
		var vals []float64
		var defs, reps []int16
		for _, r := range rows {
			v, ok := r.Data[name]
			if !ok || v.Kind != wpilog.ValueArray || len(v.A) == 0 {
				defs = append(defs, 0)
				reps = append(reps, 0)
				continue
			}
			for i, e := range v.A {
				vals = append(vals, e.F)
				defs = append(defs, 1)
				if i == 0 {
					reps = append(reps, 0)
				} else {
					reps = append(reps, 1)
				}
			}
		}
		cw.(*pqfile.Float64ColumnChunkWriter).WriteBatch(vals, defs, reps)
		return nil
	case ColStringArray:
		var vals []parquet.ByteArray
		var defs, reps []int16
		for _, r := range rows {
			v, ok := r.Data[name]
			if !ok || v.Kind != wpilog.ValueArray || len(v.A) == 0 {
				if ok && v.Kind == wpilog.ValueString {
					// heterogeneous-array fallback column: the scalar
					// stringified representation occupies a single slot.
					vals = append(vals, parquet.ByteArray(v.S))
					defs = append(defs, 1)
					reps = append(reps, 0)
					continue
				}
				defs = append(defs, 0)
				reps = append(reps, 0)
				continue
			}
			for i, e := range v.A {
				vals = append(vals, parquet.ByteArray(valueToCanonicalString(e)))
				defs = append(defs, 1)
				if i == 0 {
					reps = append(reps, 0)
				} else {
					reps = append(reps, 1)
				}
			}
		}
		cw.(*pqfile.ByteArrayColumnChunkWriter).WriteBatch(vals, defs, reps)
		return nil
	default:
		return fmt.Errorf("unhandled array column kind %d", kind)
	}
}
