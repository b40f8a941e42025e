// Copyright (c) 2025 Neomantra Corp

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcp_server "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers the wpilog tool set on mcpServer, mirroring the
// teacher's RegisterMetaTools/RegisterDataTools split collapsed into one
// registration function since this domain has no API-key-gated billing
// surface to separate out.
func (s *Server) RegisterTools(mcpServer *mcp_server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("read_metadata",
			mcp.WithDescription("Reads a wpilog file's header: wire-format version and extra-header text. Does not decode any records."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Path to a .wpilog (optionally .wpilog.zst) file"),
			),
		),
		s.readMetadataHandler,
	)

	mcpServer.AddTool(
		mcp.NewTool("list_entries",
			mcp.WithDescription("Decodes a wpilog file and lists the union of wide-row column names and any struct schemas discovered, along with a count of records skipped as unrecoverable."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Path to a .wpilog (optionally .wpilog.zst) file"),
			),
		),
		s.listEntriesHandler,
	)

	mcpServer.AddTool(
		mcp.NewTool("convert_to_parquet",
			mcp.WithDescription("Converts a wpilog file to chunked Parquet files under the server's output directory. Returns the output directory, record/chunk counts, and skipped-record count. Use query_parquet to query the result."),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Path to a .wpilog (optionally .wpilog.zst) file"),
			),
			mcp.WithString("chunk_size",
				mcp.Description("Row-group size in [1, 10000000] as a decimal string; defaults to 50000 if omitted"),
			),
		),
		s.convertToParquetHandler,
	)

	mcpServer.AddTool(
		mcp.NewTool("query_parquet",
			mcp.WithDescription("Runs a read-only DuckDB SQL query over a previously converted wpilog's Parquet output. Returns results as CSV. Call convert_to_parquet first."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithIdempotentHintAnnotation(true),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Path to the original wpilog file, used to locate its converted Parquet output"),
			),
			mcp.WithString("sql",
				mcp.Required(),
				mcp.Description("SQL query to execute against the converted Parquet files. The view is named after the input file's base name without its extension (\"rows\" if that name has other characters than letters, digits, '.', '_' or '-'), e.g. 'SELECT * FROM \"run1\" LIMIT 10' for run1.wpilog"),
			),
		),
		s.queryParquetHandler,
	)
}
