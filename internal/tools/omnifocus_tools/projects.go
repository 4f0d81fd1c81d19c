package omnifocus_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"omnibridge/internal/omnifocus"
	"omnibridge/internal/server"
	"omnibridge/internal/tools/common"
)

// registerProjectTools registers the project mutation tools.
func registerProjectTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Add project tool
	addProjectTool := mcp.NewTool("omnifocus_add_project",
		mcp.WithDescription("Create a project, optionally inside a folder"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The project name"),
		),
		mcp.WithString("folder",
			mcp.Description("Name of the folder to file the project under"),
		),
		mcp.WithBoolean("sequential",
			mcp.Description("Make the project sequential (tasks become available one at a time)"),
		),
		mcp.WithString("review_interval",
			mcp.Description("Review interval, e.g. '1 week', '2 days', '1 month'"),
		),
		mcp.WithString("completion_rule",
			mcp.Description("'last-action' completes the project with its last task; 'all-actions' requires an explicit completion"),
		),
	)

	s.AddTool(addProjectTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_add_project", Operation: "add_project", Mutating: true}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			name := argString(args, "name")
			if name == "" {
				return mcp.NewToolResultError("name is required"), nil
			}

			sequential, _ := argBool(args, "sequential")
			input := omnifocus.ProjectInput{
				Name:           name,
				Folder:         argString(args, "folder"),
				Sequential:     sequential,
				ReviewInterval: argString(args, "review_interval"),
				CompletionRule: argString(args, "completion_rule"),
			}

			status, err := sc.Client().AddProject(ctx, input)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(status)
		}))

	// Edit project tool
	editProjectTool := mcp.NewTool("omnifocus_edit_project",
		mcp.WithDescription("Apply a partial update to a project. Absent fields are left untouched."),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("The OmniFocus project identifier"),
		),
		mcp.WithString("name",
			mcp.Description("New project name"),
		),
		mcp.WithString("status",
			mcp.Description("New status: 'active', 'on-hold', 'done' or 'dropped'"),
		),
		mcp.WithString("review_interval",
			mcp.Description("New review interval, e.g. '1 week'"),
		),
		mcp.WithBoolean("sequential",
			mcp.Description("Switch between sequential and parallel"),
		),
		mcp.WithString("completion_rule",
			mcp.Description("'last-action' or 'all-actions'"),
		),
	)

	s.AddTool(editProjectTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_edit_project", Operation: "edit_project", Mutating: true}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			projectID := argString(args, "project_id")
			if projectID == "" {
				return mcp.NewToolResultError("project_id is required"), nil
			}

			edit := omnifocus.ProjectEdit{
				Name:           argStringPtr(args, "name"),
				Status:         argStringPtr(args, "status"),
				ReviewInterval: argStringPtr(args, "review_interval"),
				Sequential:     argBoolPtr(args, "sequential"),
				CompletionRule: argStringPtr(args, "completion_rule"),
			}

			if edit.Empty() {
				return mcp.NewToolResultError("no fields to edit"), nil
			}

			status, err := sc.Client().EditProject(ctx, projectID, edit)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(status)
		}))

	// Remove project tool
	removeProjectTool := mcp.NewTool("omnifocus_remove_project",
		mcp.WithDescription("Delete a project and all of its tasks. Deletion is irreversible."),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("The OmniFocus project identifier"),
		),
	)

	s.AddTool(removeProjectTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_remove_project", Operation: "remove_project", Mutating: true}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			projectID := argString(args, "project_id")
			if projectID == "" {
				return mcp.NewToolResultError("project_id is required"), nil
			}

			status, err := sc.Client().RemoveProject(ctx, projectID)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(status)
		}))

	return nil
}
