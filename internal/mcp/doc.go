// Package mcp implements the Model Context Protocol (MCP) server for disasexpl.
//
// The server exposes three tools:
//   - parse_listing: Parse a listing and return the cleaned text and labels
//   - source_map: Map source lines to the listing lines they produced
//   - resolve_path: Expand a path template, or locate the listing of a source file
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server is started with:
//
//	disasexpl mcp
//
// # Tool: parse_listing
//
//	Request:
//	{
//	  "path": "build/main.S",
//	  "binary": false,
//	  "labels": true
//	}
//
//	Response:
//	{
//	  "path": "/work/build/main.S",
//	  "line_count": 42,
//	  "text": "main:\n  pushq %rbp\n...",
//	  "labels": [{"name": "main", "line": 1, "local": false, "refs": 0}]
//	}
//
// Relative paths are resolved against the workspace. Filter options default
// to the loaded configuration.
//
// # Tool: source_map
//
// Line numbers in the response are 1-based on both sides:
//
//	{"path": "...", "mapping": {"3": [2, 4]}}
//
// # Tool: resolve_path
//
// With a template, the template's ${variables} are expanded for the given
// file. Without one, the configured associations pick the listing path.
//
// # Error Handling
//
// Errors are returned as MCPError values with JSON-RPC codes:
//
//	-32602  invalid parameters
//	-32603  internal error
//	-32001  listing could not be loaded
package mcp
