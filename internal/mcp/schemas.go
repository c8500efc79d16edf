package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// filterProperties are the optional filter overrides shared by the listing
// tools.
func filterProperties() map[string]interface{} {
	return map[string]interface{}{
		"binary": map[string]interface{}{
			"type":        "boolean",
			"description": "Parse an objdump listing (or disassemble an ELF binary) instead of assembler source",
		},
		"trim": map[string]interface{}{
			"type":        "boolean",
			"description": "Collapse whitespace and indentation",
		},
		"comment_only": map[string]interface{}{
			"type":        "boolean",
			"description": "Drop lines that only hold a comment",
		},
		"directives": map[string]interface{}{
			"type":        "boolean",
			"description": "Drop assembler directives",
		},
		"labels": map[string]interface{}{
			"type":        "boolean",
			"description": "Drop labels nothing refers to",
		},
		"indent": map[string]interface{}{
			"type":        "string",
			"description": "What trimming does with leading whitespace: marker keeps two spaces, strip deletes it",
			"enum":        []string{"marker", "strip"},
		},
	}
}

// parseListingTool returns the tool definition for parse_listing
func parseListingTool() mcp.Tool {
	props := filterProperties()
	props["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Listing to parse, absolute or relative to the workspace",
	}
	props["include_lines"] = map[string]interface{}{
		"type":        "boolean",
		"description": "If true, include every parsed line with its source position and label references",
		"default":     false,
	}
	return mcp.Tool{
		Name:        "parse_listing",
		Description: "Parse compiler or objdump output into a cleaned listing with its live labels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"path"},
		},
	}
}

// sourceMapTool returns the tool definition for source_map
func sourceMapTool() mcp.Tool {
	props := filterProperties()
	props["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Listing to map, absolute or relative to the workspace",
	}
	props["source_line"] = map[string]interface{}{
		"type":        "integer",
		"description": "Only return the listing lines of this 1-based source line",
		"minimum":     1,
	}
	return mcp.Tool{
		Name:        "source_map",
		Description: "Map 1-based source lines to the 1-based listing lines generated from them",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"path"},
		},
	}
}

// resolvePathTool returns the tool definition for resolve_path
func resolvePathTool() mcp.Tool {
	return mcp.Tool{
		Name:        "resolve_path",
		Description: "Expand ${variable} placeholders in a path template, or locate the listing of a source file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"template": map[string]interface{}{
					"type":        "string",
					"description": "Path template such as ${workspaceFolder}/build/${fileBasenameNoExtension}.s; if omitted the configured associations are used",
				},
				"file": map[string]interface{}{
					"type":        "string",
					"description": "Source file the template is resolved for",
				},
				"workspace": map[string]interface{}{
					"type":        "string",
					"description": "Workspace folder (default: the server's workspace)",
				},
			},
			Required: []string{"file"},
		},
	}
}
