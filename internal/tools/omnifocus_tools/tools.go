package omnifocus_tools

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"omnibridge/internal/server"
	"omnibridge/internal/tools/common"
)

// RegisterOmniFocusTools registers all OmniFocus bridge tools with the MCP
// server. When readOnly is true, mutating tools (create, edit, remove,
// complete, batch) are not registered at all; read-only clients cannot
// even see them.
func RegisterOmniFocusTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerQueryTools(s, sc); err != nil {
		return fmt.Errorf("failed to register query tools: %w", err)
	}

	if err := registerPerspectiveTools(s, sc); err != nil {
		return fmt.Errorf("failed to register perspective tools: %w", err)
	}

	if !readOnly {
		if err := registerTaskTools(s, sc); err != nil {
			return fmt.Errorf("failed to register task tools: %w", err)
		}
		if err := registerProjectTools(s, sc); err != nil {
			return fmt.Errorf("failed to register project tools: %w", err)
		}
		if err := registerBatchTools(s, sc); err != nil {
			return fmt.Errorf("failed to register batch tools: %w", err)
		}
	}

	return nil
}

// jsonResult renders v as an indented JSON tool result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return common.ToolError(err)
	}
	return mcp.NewToolResultText(string(body)), nil
}

// argString returns the string argument for key, or "" when absent.
func argString(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// argBool returns the boolean argument for key and whether it was present.
func argBool(args map[string]interface{}, key string) (bool, bool) {
	v, ok := args[key].(bool)
	return v, ok
}

// argInt returns the numeric argument for key and whether it was present.
// JSON numbers arrive as float64.
func argInt(args map[string]interface{}, key string) (int, bool) {
	if v, ok := args[key].(float64); ok {
		return int(v), true
	}
	return 0, false
}

// argStringPtr returns a pointer to the string argument when the key is
// present, nil otherwise. Presence and emptiness are distinct: an empty
// string clears a field, an absent key leaves it untouched.
func argStringPtr(args map[string]interface{}, key string) *string {
	if raw, present := args[key]; present {
		if v, ok := raw.(string); ok {
			return &v
		}
	}
	return nil
}

// argBoolPtr returns a pointer to the boolean argument when present.
func argBoolPtr(args map[string]interface{}, key string) *bool {
	if raw, present := args[key]; present {
		if v, ok := raw.(bool); ok {
			return &v
		}
	}
	return nil
}

// argTime parses an RFC3339 or YYYY-MM-DD date argument. Absent or empty
// values yield nil without error.
func argTime(args map[string]interface{}, key string) (*time.Time, error) {
	s := argString(args, key)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("%s must be an RFC3339 timestamp or YYYY-MM-DD date, got %q", key, s)
}
