// Copyright (c) 2025 Neomantra Corp

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frc-utils/wpilog-go/internal/convert"
	"github.com/frc-utils/wpilog-go/internal/mcpserver"
)

var (
	querySQL    string
	queryOutDir string
)

var queryCmd = &cobra.Command{
	Use:   "query [wpilog file]",
	Short: "Convert a wpilog file and run a DuckDB SQL query against its Parquet output",
	Args:  cobra.ExactArgs(1),
	Run:   runQuery,
}

func runQuery(cmd *cobra.Command, args []string) {
	path := args[0]

	outDir := queryOutDir
	if outDir == "" {
		var err error
		outDir, err = os.MkdirTemp("", "wpilog-query-*")
		requireNoError(err)
		defer os.RemoveAll(outDir)
	}

	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	convDir := filepath.Join(outDir, base)

	_, err := convert.File(convert.Options{InputPath: path, OutputDir: convDir, UseZstd: convertZstd})
	requireNoError(err)

	srv, err := mcpserver.NewServer(outDir, nil)
	requireNoError(err)
	defer srv.Close()

	err = srv.InitQueryEngine()
	requireNoError(err)

	result, err := srv.Query(path, convDir, querySQL)
	requireNoError(err)

	fmt.Print(result)
}
