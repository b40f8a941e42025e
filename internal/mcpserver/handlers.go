// Copyright (c) 2025 Neomantra Corp

package mcpserver

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/frc-utils/wpilog-go"
	"github.com/frc-utils/wpilog-go/internal/convert"
)

// viewName matches the safe subset of a conversion's view identifier,
// the same allow-list shape as the teacher's safeName in mcp_data/cache.go.
var viewName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

func (s *Server) readMetadataHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path must be set"), nil
	}

	reader, err := openWpilog(path)
	if err != nil {
		return mcp.NewToolResultErrorf("failed to open %s: %s", path, err), nil
	}

	jbytes, err := json.Marshal(map[string]any{
		"path":         path,
		"version":      reader.Version(),
		"extra_header": reader.ExtraHeader(),
	})
	if err != nil {
		return mcp.NewToolResultErrorf("failed to marshal result: %s", err), nil
	}

	s.Logger.Info("read_metadata", "path", path, "version", reader.Version())
	return mcp.NewToolResultText(string(jbytes)), nil
}

func (s *Server) listEntriesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path must be set"), nil
	}

	reader, err := openWpilog(path)
	if err != nil {
		return mcp.NewToolResultErrorf("failed to open %s: %s", path, err), nil
	}

	_, formatter, err := reader.ReadAllWithMetadata()
	if err != nil {
		return mcp.NewToolResultErrorf("failed to decode %s: %s", path, err), nil
	}

	schemaNames := make([]string, 0, len(formatter.StructSchemas))
	for _, sch := range formatter.StructSchemas {
		schemaNames = append(schemaNames, sch.Name)
	}

	jbytes, err := json.Marshal(map[string]any{
		"path":            path,
		"columns":         formatter.SortedMetricNames(),
		"struct_schemas":  schemaNames,
		"skipped_records": formatter.SkippedRecords,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("failed to marshal result: %s", err), nil
	}

	s.Logger.Info("list_entries", "path", path, "columns", len(formatter.SortedMetricNames()))
	return mcp.NewToolResultText(string(jbytes)), nil
}

func (s *Server) convertToParquetHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path must be set"), nil
	}
	chunkSize := 0
	if chunkSizeStr, err := request.RequireString("chunk_size"); err == nil && chunkSizeStr != "" {
		if n, err := strconv.Atoi(chunkSizeStr); err == nil && n > 0 {
			chunkSize = n
		}
	}

	outDir := s.conversionDir(path)
	result, err := convert.File(convert.Options{InputPath: path, OutputDir: outDir, ChunkSize: chunkSize})
	if err != nil {
		return mcp.NewToolResultErrorf("conversion failed: %s", err), nil
	}

	s.mu.Lock()
	if s.db != nil {
		s.refreshViewForPath(path, outDir)
	}
	s.mu.Unlock()

	jbytes, err := json.Marshal(map[string]any{
		"path":            path,
		"output_dir":      outDir,
		"num_records":     result.NumRecords,
		"num_chunks":      result.NumChunks,
		"skipped_records": result.SkippedRecords,
		"columns":         result.ColumnNames,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("failed to marshal result: %s", err), nil
	}

	s.Logger.Info("convert_to_parquet", "path", path, "output_dir", outDir, "records", result.NumRecords)
	return mcp.NewToolResultText(string(jbytes)), nil
}

func (s *Server) queryParquetHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path must be set"), nil
	}
	sqlStr, err := request.RequireString("sql")
	if err != nil {
		return mcp.NewToolResultError("sql must be set"), nil
	}

	if s.db == nil {
		return mcp.NewToolResultError("query engine not initialized"), nil
	}

	outDir := s.conversionDir(path)
	s.mu.Lock()
	if err := s.refreshViewForPath(path, outDir); err != nil {
		s.mu.Unlock()
		return mcp.NewToolResultErrorf("no converted Parquet output for %s: %s", path, err), nil
	}
	s.mu.Unlock()

	result, err := s.queryDuckDB(sqlStr)
	if err != nil {
		return mcp.NewToolResultErrorf("query failed: %s", err), nil
	}

	s.Logger.Info("query_parquet", "path", path, "sql", sqlStr)
	return mcp.NewToolResultText(result), nil
}

// Query refreshes the DuckDB view for path over convDir's already-converted
// Parquet output and runs userSQL, returning CSV. It does not convert
// anything itself. It is the direct (non-MCP) entry point cmd/wpilog's
// query subcommand uses.
func (s *Server) Query(path, convDir, userSQL string) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("mcpserver: query engine not initialized")
	}
	s.mu.Lock()
	err := s.refreshViewForPath(path, convDir)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	return s.queryDuckDB(userSQL)
}

func openWpilog(path string) (*wpilog.Reader, error) {
	if strings.HasSuffix(path, ".zst") || strings.HasSuffix(path, ".zstd") {
		return wpilog.FromCompressedFile(path, true)
	}
	return wpilog.FromFile(path)
}

// refreshViewForPath (re)creates the DuckDB view named viewNameFor(path)
// over outDir's converted Parquet chunks. Caller must hold s.mu.
func (s *Server) refreshViewForPath(path, outDir string) error {
	name := viewNameFor(path)
	glob := filepath.Join(outDir, "*.parquet")
	stmt := fmt.Sprintf(`CREATE OR REPLACE VIEW %q AS SELECT * FROM read_parquet(%s)`, name, sqlLiteral(glob))
	_, err := s.db.Exec(stmt)
	return err
}

func viewNameFor(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if !viewName.MatchString(base) {
		base = "rows"
	}
	return base
}

func sqlLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// queryDuckDB executes a read-only SQL query against the current view set
// and returns CSV, bounded at 10,000 rows. Grounded directly on the
// teacher's mcp_data.queryDuckDB.
func (s *Server) queryDuckDB(userSQL string) (string, error) {
	wrapped := fmt.Sprintf("SELECT * FROM (%s) LIMIT 10000", userSQL)

	rows, err := s.db.Query(wrapped)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	w.Write(columns)

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return "", err
		}
		record := make([]string, len(columns))
		for i, val := range values {
			switch v := val.(type) {
			case nil:
				record[i] = ""
			case []byte:
				record[i] = string(v)
			default:
				record[i] = fmt.Sprintf("%v", v)
			}
		}
		w.Write(record)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
