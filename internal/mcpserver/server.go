// Copyright (c) 2025 Neomantra Corp

// Package mcpserver exposes wpilog inspection and conversion as MCP
// tools, adapted from the teacher's internal/mcp_meta and internal/mcp_data
// servers (metadata lookups + a DuckDB-backed Parquet cache) down to the
// tool set this format supports: no remote API, no billing, a local
// directory of converted Parquet output in place of a download cache.
package mcpserver

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Server holds shared state for the wpilog MCP tool handlers.
type Server struct {
	OutputDir string // directory conversions are written under
	Logger    *slog.Logger

	mu sync.Mutex
	db *sql.DB
}

// NewServer returns a Server rooted at outputDir, creating it if absent.
func NewServer(outputDir string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("mcpserver: creating output dir: %w", err)
	}
	return &Server{OutputDir: outputDir, Logger: logger}, nil
}

// InitQueryEngine opens an in-memory DuckDB connection for query_parquet,
// hardened the same way the teacher's mcp_data.InitCache locks down
// extension loading and remote filesystem access.
func (s *Server) InitQueryEngine() error {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("mcpserver: opening DuckDB: %w", err)
	}
	for _, stmt := range []string{
		"SET autoinstall_known_extensions = false",
		"SET autoload_known_extensions = false",
		"SET allow_community_extensions = false",
		"SET disabled_filesystems = 'HTTPFileSystem'",
		"SET lock_configuration = true",
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("mcpserver: configuring DuckDB (%s): %w", stmt, err)
		}
	}
	s.db = db
	return nil
}

// Close releases the DuckDB connection, if one was opened.
func (s *Server) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// conversionDir returns the output subdirectory a conversion of
// inputPath is written to: OutputDir/<basename-without-ext>.
func (s *Server) conversionDir(inputPath string) string {
	base := filepath.Base(inputPath)
	base = base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(s.OutputDir, base)
}
