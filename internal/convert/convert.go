// Copyright (c) 2025 Neomantra Corp

// Package convert drives a single wpilog file through the full
// read-project-write pipeline: C1-C7 via wpilog.Reader, then C8 via
// internal/parquetio.
package convert

import (
	"fmt"
	"strings"

	"github.com/frc-utils/wpilog-go"
	"github.com/frc-utils/wpilog-go/internal/parquetio"
)

// Options configures a single-file conversion.
type Options struct {
	InputPath string
	OutputDir string
	ChunkSize int // 0 means parquetio.DefaultChunkSize
	UseZstd   bool
}

// Result reports the outcome of a single-file conversion.
type Result struct {
	InputPath      string
	OutputDir      string
	NumRecords     int
	NumChunks      int
	SkippedRecords int
	ColumnNames    []string
	StructSchemas  []string
}

// File reads opts.InputPath, projects it to wide rows, and writes the
// result as chunked Parquet files under opts.OutputDir.
func File(opts Options) (Result, error) {
	reader, err := openReader(opts)
	if err != nil {
		return Result{}, err
	}

	rows, formatter, err := reader.ReadAllWithMetadata()
	if err != nil {
		return Result{}, fmt.Errorf("convert: projecting %s: %w", opts.InputPath, err)
	}

	writer := parquetio.NewParquetWriter(opts.OutputDir)
	if opts.ChunkSize > 0 {
		writer.ChunkSize(opts.ChunkSize)
	}

	stats, err := writer.WriteWithStats(rows)
	if err != nil {
		return Result{}, fmt.Errorf("convert: writing %s: %w", opts.OutputDir, err)
	}

	schemaNames := make([]string, 0, len(formatter.StructSchemas))
	for _, s := range formatter.StructSchemas {
		schemaNames = append(schemaNames, s.Name)
	}

	return Result{
		InputPath:      opts.InputPath,
		OutputDir:      opts.OutputDir,
		NumRecords:     stats.NumRecords,
		NumChunks:      stats.NumChunks,
		SkippedRecords: formatter.SkippedRecords,
		ColumnNames:    formatter.SortedMetricNames(),
		StructSchemas:  schemaNames,
	}, nil
}

func openReader(opts Options) (*wpilog.Reader, error) {
	if opts.UseZstd || strings.HasSuffix(opts.InputPath, ".zst") || strings.HasSuffix(opts.InputPath, ".zstd") {
		return wpilog.FromCompressedFile(opts.InputPath, true)
	}
	return wpilog.FromFile(opts.InputPath)
}
