// Copyright (c) 2025 Neomantra Corp

package main

import (
	"fmt"
	"log/slog"
	"os"

	mcp_server "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/frc-utils/wpilog-go/internal/mcpserver"
)

var (
	mcpOutDir      string
	mcpUseSSE      bool
	mcpSSEHostPort string
	mcpLogFile     string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve wpilog inspection and conversion tools over MCP",
	Run:   runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpLogFile, "log-file", "", "Log file (defaults to stderr, or MCP_LOG_FILE envvar)")
}

func runMCP(cmd *cobra.Command, args []string) {
	logWriter := os.Stderr
	if mcpLogFile == "" {
		mcpLogFile = os.Getenv("MCP_LOG_FILE")
	}
	if mcpLogFile != "" {
		logFile, err := os.OpenFile(mcpLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		requireNoError(err)
		logWriter = logFile
		defer logFile.Close()
	}

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: logLevel}))

	srv, err := mcpserver.NewServer(mcpOutDir, logger)
	requireNoError(err)
	defer srv.Close()
	requireNoError(srv.InitQueryEngine())

	mcpServer := mcp_server.NewMCPServer("wpilog-mcp", wpilogVersion)
	srv.RegisterTools(mcpServer)

	if mcpUseSSE {
		sseServer := mcp_server.NewSSEServer(mcpServer)
		logger.Info("MCP SSE server started", "hostPort", mcpSSEHostPort)
		if err := sseServer.Start(mcpSSEHostPort); err != nil {
			logger.Error("MCP SSE server error", "error", err.Error())
			os.Exit(1)
		}
		return
	}

	logger.Info("MCP stdio server started")
	if err := mcp_server.ServeStdio(mcpServer); err != nil {
		fmt.Fprintf(os.Stderr, "MCP stdio server error: %s\n", err.Error())
		os.Exit(1)
	}
}

const wpilogVersion = "0.1.0"
