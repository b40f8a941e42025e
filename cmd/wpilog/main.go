// Copyright (c) 2025 Neomantra Corp

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

///////////////////////////////////////////////////////////////////////////////

var verbose bool

func requireNoError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

///////////////////////////////////////////////////////////////////////////////

func main() {
	cobra.OnInitialize()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertOutDir, "out", "o", "", "Output directory for Parquet files")
	convertCmd.MarkFlagRequired("out")
	convertCmd.Flags().IntVarP(&convertChunkSize, "chunk-size", "c", 0, "Row-group size (default 50000)")
	convertCmd.Flags().IntVarP(&convertMaxActive, "max-active", "j", 4, "Maximum concurrent file conversions")
	convertCmd.Flags().BoolVarP(&convertZstd, "zstd", "z", false, "Force input as zstd-compressed, irrespective of filename suffix")
	convertCmd.Flags().BoolVar(&convertUseTUI, "tui", false, "Show a live progress TUI while converting")
	convertCmd.Flags().BoolVarP(&convertYes, "yes", "y", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVarP(&inspectJSON, "json", "j", false, "Emit JSON instead of a plain-text listing")
	inspectCmd.Flags().BoolVarP(&convertZstd, "zstd", "z", false, "Force input as zstd-compressed, irrespective of filename suffix")

	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&querySQL, "sql", "s", "", "SQL to run against the file's converted Parquet output")
	queryCmd.MarkFlagRequired("sql")
	queryCmd.Flags().StringVarP(&queryOutDir, "out", "o", "", "Directory to write the conversion into (defaults to a temp dir)")

	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVarP(&mcpOutDir, "out", "o", "", "Directory conversions performed via MCP tools are written to")
	mcpCmd.MarkFlagRequired("out")
	mcpCmd.Flags().BoolVar(&mcpUseSSE, "sse", false, "Serve over SSE instead of stdio")
	mcpCmd.Flags().StringVar(&mcpSSEHostPort, "sse-host-port", "localhost:8991", "Host:port for the SSE server")

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

///////////////////////////////////////////////////////////////////////////////

var rootCmd = &cobra.Command{
	Use:   "wpilog",
	Short: "wpilog decodes WPILib wpilog files and projects them to Parquet",
	Long:  "wpilog decodes WPILib wpilog files and projects them to Parquet",
}
