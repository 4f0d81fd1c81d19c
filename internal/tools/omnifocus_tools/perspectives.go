package omnifocus_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"omnibridge/internal/server"
	"omnibridge/internal/tools/common"
)

// registerPerspectiveTools registers perspective listing and evaluation.
// Perspective names are resolved against the live list on every call;
// nothing is cached across invocations.
func registerPerspectiveTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// List perspectives tool
	listTool := mcp.NewTool("omnifocus_list_perspectives",
		mcp.WithDescription("List all built-in and custom perspectives"),
	)

	s.AddTool(listTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_list_perspectives", Operation: "list_perspectives"}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			perspectives, err := sc.Client().Perspectives(ctx)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(perspectives)
		}))

	// Get perspective tasks tool
	getTool := mcp.NewTool("omnifocus_get_perspective_tasks",
		mcp.WithDescription("Evaluate a perspective by name and return its tasks. Built-in perspectives apply their rules; custom rule sets fall back to the full task tree with rules_applied=false."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The perspective name, matched case-sensitively"),
		),
	)

	s.AddTool(getTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_get_perspective_tasks", Operation: "get_perspective_tasks"}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			name := argString(args, "name")
			if name == "" {
				return mcp.NewToolResultError("name is required"), nil
			}

			result, err := sc.Client().PerspectiveTasks(ctx, name)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(result)
		}))

	return nil
}
