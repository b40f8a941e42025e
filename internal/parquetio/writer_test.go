// Copyright (c) 2025 Neomantra Corp

package parquetio_test

import (
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/parquet"
	pqfile "github.com/apache/arrow-go/v18/parquet/file"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frc-utils/wpilog-go"
	"github.com/frc-utils/wpilog-go/internal/parquetio"
)

func makeRows(n int) []wpilog.WideRow {
	rows := make([]wpilog.WideRow, n)
	for i := range rows {
		rows[i] = wpilog.WideRow{
			Timestamp: float64(i),
			Entry:     1,
			TypeName:  "double",
			LoopCount: uint64(i),
			Data:      map[string]wpilog.Value{"/x": wpilog.Float64Value(float64(i))},
		}
	}
	return rows
}

var _ = Describe("ParquetWriter", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "parquetio-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	Context("S6 — chunking", func() {
		It("splits 7 rows into 3/3/1 across three files", func() {
			w := parquetio.NewParquetWriter(dir).ChunkSize(3)
			stats, err := w.WriteWithStats(makeRows(7))
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.NumRecords).To(Equal(7))
			Expect(stats.NumChunks).To(Equal(3))
			Expect(stats.ChunkSize).To(Equal(3))

			for _, name := range []string{"file_part000.parquet", "file_part001.parquet", "file_part002.parquet"} {
				_, err := os.Stat(filepath.Join(dir, name))
				Expect(err).NotTo(HaveOccurred())
			}

			assertRowCount(filepath.Join(dir, "file_part000.parquet"), 3)
			assertRowCount(filepath.Join(dir, "file_part001.parquet"), 3)
			assertRowCount(filepath.Join(dir, "file_part002.parquet"), 1)
		})
	})

	Context("column set", func() {
		It("always includes timestamp and entry_type, typed and populated", func() {
			w := parquetio.NewParquetWriter(dir)
			_, err := w.WriteWithStats([]wpilog.WideRow{{
				Timestamp: 1.0,
				Entry:     1,
				TypeName:  "double",
				Data:      map[string]wpilog.Value{"/x": wpilog.Float64Value(3.14)},
			}})
			Expect(err).NotTo(HaveOccurred())

			path := filepath.Join(dir, "file_part000.parquet")
			names := schemaColumnNames(path)
			Expect(names).To(ContainElements("timestamp", "entry_type", "/x"))

			Expect(columnPhysicalType(path, "timestamp")).To(Equal(parquet.Types.Double))
			Expect(readFloat64Column(path, "timestamp", 1)).To(Equal([]float64{1.0}))
			Expect(readStringColumn(path, "entry_type", 1)).To(Equal([]string{"double"}))
		})
	})

	Context("type promotion", func() {
		It("promotes a mixed int64/double column to double", func() {
			rows := []wpilog.WideRow{
				{Timestamp: 0, Data: map[string]wpilog.Value{"/v": wpilog.Int64Value(1)}},
				{Timestamp: 1, Data: map[string]wpilog.Value{"/v": wpilog.Float64Value(2.5)}},
			}
			w := parquetio.NewParquetWriter(dir)
			_, err := w.WriteWithStats(rows)
			Expect(err).NotTo(HaveOccurred())
			path := filepath.Join(dir, "file_part000.parquet")
			names := schemaColumnNames(path)
			Expect(names).To(ContainElement("/v"))
			Expect(columnPhysicalType(path, "/v")).To(Equal(parquet.Types.Double))
		})
	})
})

func assertRowCount(path string, want int) {
	r, err := pqfile.OpenParquetFile(path, false)
	Expect(err).NotTo(HaveOccurred())
	defer r.Close()
	Expect(int(r.NumRows())).To(Equal(want))
}

func schemaColumnNames(path string) []string {
	r, err := pqfile.OpenParquetFile(path, false)
	Expect(err).NotTo(HaveOccurred())
	defer r.Close()

	schema := r.MetaData().Schema
	names := make([]string, 0, schema.NumColumns())
	for i := 0; i < schema.NumColumns(); i++ {
		names = append(names, schema.Column(i).Name())
	}
	return names
}

func columnIndex(r *pqfile.Reader, name string) int {
	schema := r.MetaData().Schema
	for i := 0; i < schema.NumColumns(); i++ {
		if schema.Column(i).Name() == name {
			return i
		}
	}
	Fail("column " + name + " not found")
	return -1
}

func columnPhysicalType(path, name string) parquet.Type {
	r, err := pqfile.OpenParquetFile(path, false)
	Expect(err).NotTo(HaveOccurred())
	defer r.Close()
	return r.MetaData().Schema.Column(columnIndex(r, name)).PhysicalType()
}

func readFloat64Column(path, name string, n int) []float64 {
	r, err := pqfile.OpenParquetFile(path, false)
	Expect(err).NotTo(HaveOccurred())
	defer r.Close()

	rgr := r.RowGroup(0)
	idx := columnIndex(r, name)
	cr, err := rgr.Column(idx)
	Expect(err).NotTo(HaveOccurred())

	values := make([]float64, n)
	_, _, err = cr.(*pqfile.Float64ColumnChunkReader).ReadBatch(int64(n), values, nil, nil)
	Expect(err).NotTo(HaveOccurred())
	return values
}

func readStringColumn(path, name string, n int) []string {
	r, err := pqfile.OpenParquetFile(path, false)
	Expect(err).NotTo(HaveOccurred())
	defer r.Close()

	rgr := r.RowGroup(0)
	idx := columnIndex(r, name)
	cr, err := rgr.Column(idx)
	Expect(err).NotTo(HaveOccurred())

	values := make([]parquet.ByteArray, n)
	_, _, err = cr.(*pqfile.ByteArrayColumnChunkReader).ReadBatch(int64(n), values, nil, nil)
	Expect(err).NotTo(HaveOccurred())

	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
