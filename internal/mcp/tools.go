package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"disasexpl/internal/analysis"
	"disasexpl/internal/asm"
	"disasexpl/internal/document"
	"disasexpl/internal/pathvars"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeLoadFailed    = -32001 // Listing could not be read
)

// handleParseListing handles the parse_listing tool invocation
func (s *Server) handleParseListing(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	doc, err := s.loadDocument(args)
	if err != nil {
		return nil, err
	}

	response := map[string]interface{}{
		"path":       doc.Path,
		"line_count": len(doc.Lines()),
		"text":       doc.Value(),
		"labels":     analysis.Labels(doc.Result),
	}
	if len(doc.Kinds) > 0 {
		kinds := make(map[string]int, len(doc.Kinds))
		for k, n := range doc.Kinds {
			kinds[k.String()] = n
		}
		response["input_kinds"] = kinds
	}
	if getBoolDefault(args, "include_lines", false) {
		response["lines"] = doc.Lines()
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSourceMap handles the source_map tool invocation
func (s *Server) handleSourceMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	only := getIntDefault(args, "source_line", 0)
	if only < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "source_line must be positive", map[string]interface{}{
			"param": "source_line",
			"value": only,
		})
	}

	doc, err := s.loadDocument(args)
	if err != nil {
		return nil, err
	}

	mapping := make(map[string][]int)
	for src, idx := range doc.SourceMap() {
		if only > 0 && src != only-1 {
			continue
		}
		lines := make([]int, len(idx))
		for i, n := range idx {
			lines[i] = n + 1
		}
		sort.Ints(lines)
		mapping[strconv.Itoa(src+1)] = lines
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"path":    doc.Path,
		"mapping": mapping,
	})), nil
}

// handleResolvePath handles the resolve_path tool invocation
func (s *Server) handleResolvePath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	file := getStringDefault(args, "file", "")
	if file == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "file parameter is required", map[string]interface{}{
			"param":  "file",
			"reason": "missing or empty",
		})
	}
	workspace := getStringDefault(args, "workspace", s.cfg.Workspace)
	if !filepath.IsAbs(file) {
		file = filepath.Join(workspace, file)
	}

	template := getStringDefault(args, "template", "")
	var resolved string
	if template == "" {
		resolved = document.Locate(file, workspace, s.cfg.Associations)
	} else {
		resolved = pathvars.New(workspace, file).Resolve(template)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"file":     file,
		"resolved": resolved,
	})), nil
}

// loadDocument resolves the path argument and loads the listing with the
// requested filter.
func (s *Server) loadDocument(args map[string]interface{}) (*document.Document, error) {
	path := getStringDefault(args, "path", "")
	if path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.cfg.Workspace, path)
	}

	f, err := s.filter(args)
	if err != nil {
		return nil, err
	}

	doc := s.cache.Load(path, f)
	if doc.Err != nil {
		return nil, newMCPError(ErrorCodeLoadFailed, "failed to load listing", map[string]interface{}{
			"path":  path,
			"error": doc.Err.Error(),
		})
	}
	return doc, nil
}

// filter applies the request's overrides to the configured filter.
func (s *Server) filter(args map[string]interface{}) (asm.Filter, error) {
	f, err := s.cfg.Filter()
	if err != nil {
		return asm.Filter{}, newMCPError(ErrorCodeInternalError, "invalid configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}
	f.Binary = getBoolDefault(args, "binary", f.Binary)
	f.Trim = getBoolDefault(args, "trim", f.Trim)
	f.StripCommentOnly = getBoolDefault(args, "comment_only", f.StripCommentOnly)
	f.StripDirectives = getBoolDefault(args, "directives", f.StripDirectives)
	f.StripDeadLabels = getBoolDefault(args, "labels", f.StripDeadLabels)
	if indent := getStringDefault(args, "indent", ""); indent != "" {
		if err := f.Indent.UnmarshalText([]byte(indent)); err != nil {
			return asm.Filter{}, newMCPError(ErrorCodeInvalidParams, "invalid indent", map[string]interface{}{
				"param": "indent",
				"value": indent,
			})
		}
	}
	return f, nil
}

// newMCPError creates an MCP error with code and data
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// ErrorCode returns the JSON-RPC code of err, or 0 if err is not an MCPError.
func ErrorCode(err error) int {
	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr.Code
	}
	return 0
}

// formatJSON formats data as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
