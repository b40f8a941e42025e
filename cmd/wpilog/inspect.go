// Copyright (c) 2025 Neomantra Corp

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frc-utils/wpilog-go"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [wpilog file]",
	Short: "Print a wpilog file's header, columns, and struct schemas",
	Args:  cobra.ExactArgs(1),
	Run:   runInspect,
}

func runInspect(cmd *cobra.Command, args []string) {
	path := args[0]

	reader, err := openInspectReader(path)
	requireNoError(err)

	_, formatter, err := reader.ReadAllWithMetadata()
	requireNoError(err)

	schemaNames := make([]string, 0, len(formatter.StructSchemas))
	for _, s := range formatter.StructSchemas {
		schemaNames = append(schemaNames, s.Name)
	}

	if inspectJSON {
		jbytes, err := json.MarshalIndent(map[string]any{
			"path":            path,
			"version":         reader.Version(),
			"extra_header":    reader.ExtraHeader(),
			"columns":         formatter.SortedMetricNames(),
			"struct_schemas":  schemaNames,
			"skipped_records": formatter.SkippedRecords,
		}, "", "  ")
		requireNoError(err)
		fmt.Println(string(jbytes))
		return
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  version:        %d\n", reader.Version())
	fmt.Printf("  extra header:   %s\n", reader.ExtraHeader())
	fmt.Printf("  skipped:        %d\n", formatter.SkippedRecords)
	fmt.Printf("  columns (%d):\n", len(formatter.SortedMetricNames()))
	for _, name := range formatter.SortedMetricNames() {
		fmt.Printf("    %s\n", name)
	}
	if len(schemaNames) > 0 {
		fmt.Printf("  struct schemas: %s\n", strings.Join(schemaNames, ", "))
	}
}

func openInspectReader(path string) (*wpilog.Reader, error) {
	if convertZstd || strings.HasSuffix(path, ".zst") || strings.HasSuffix(path, ".zstd") {
		return wpilog.FromCompressedFile(path, true)
	}
	return wpilog.FromFile(path)
}
