// Copyright (c) 2025 Neomantra Corp

package convert_test

import (
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/parquet"
	pqfile "github.com/apache/arrow-go/v18/parquet/file"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frc-utils/wpilog-go/internal/convert"
)

var _ = Describe("File", func() {
	var dir, inputPath, outputDir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "convert-test-*")
		Expect(err).NotTo(HaveOccurred())

		buf := buildFile(
			buildRecord(0, 0, controlStartPayload(1, "/x", "double", "")),
			buildRecord(1, 1_000_000, float64Bytes(3.14)),
		)
		inputPath = filepath.Join(dir, "input.wpilog")
		Expect(os.WriteFile(inputPath, buf, 0o644)).To(Succeed())
		outputDir = filepath.Join(dir, "out")
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	It("projects and writes a single-entry file end to end", func() {
		result, err := convert.File(convert.Options{InputPath: inputPath, OutputDir: outputDir})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.NumRecords).To(Equal(1))
		Expect(result.NumChunks).To(Equal(1))
		Expect(result.SkippedRecords).To(Equal(0))
		Expect(result.ColumnNames).To(ContainElement("/x"))

		path := filepath.Join(outputDir, "file_part000.parquet")
		r, err := pqfile.OpenParquetFile(path, false)
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()
		Expect(int(r.NumRows())).To(Equal(1))

		// S1's expected output: a 1_000_000us timestamp projects to 1.0s,
		// always present as a double column regardless of the data columns.
		schema := r.MetaData().Schema
		tsIdx := -1
		for i := 0; i < schema.NumColumns(); i++ {
			if schema.Column(i).Name() == "timestamp" {
				tsIdx = i
			}
		}
		Expect(tsIdx).To(BeNumerically(">=", 0))
		Expect(schema.Column(tsIdx).PhysicalType()).To(Equal(parquet.Types.Double))

		cr, err := r.RowGroup(0).Column(tsIdx)
		Expect(err).NotTo(HaveOccurred())
		values := make([]float64, 1)
		_, _, err = cr.(*pqfile.Float64ColumnChunkReader).ReadBatch(1, values, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(values[0]).To(Equal(1.0))
	})

	It("fails on a nonexistent input file", func() {
		_, err := convert.File(convert.Options{InputPath: filepath.Join(dir, "missing.wpilog"), OutputDir: outputDir})
		Expect(err).To(HaveOccurred())
	})
})
