package omnifocus_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"omnibridge/internal/omnifocus"
	"omnibridge/internal/server"
	"omnibridge/internal/tools/batch"
	"omnibridge/internal/tools/common"
)

// registerTaskTools registers the task mutation tools.
func registerTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Add task tool
	addTaskTool := mcp.NewTool("omnifocus_add_task",
		mcp.WithDescription("Create a task. Without a project it lands in the inbox."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The task name"),
		),
		mcp.WithString("note",
			mcp.Description("A note attached to the task"),
		),
		mcp.WithString("project",
			mcp.Description("Name of the project to file the task under"),
		),
		mcp.WithString("tags",
			mcp.Description("Tag name (string) or array of tag names"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date; accepts flexible forms like 'tomorrow', '2d' or '2024-12-31'"),
		),
		mcp.WithString("defer_date",
			mcp.Description("Defer date; same forms as due_date"),
		),
		mcp.WithBoolean("flagged",
			mcp.Description("Flag the task"),
		),
		mcp.WithString("context",
			mcp.Description("Legacy context name, converted to a tag"),
		),
	)

	s.AddTool(addTaskTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_add_task", Operation: "add_task", Mutating: true}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			input, err := taskInputFromArgs(args)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			status, err := sc.Client().AddTask(ctx, input)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(status)
		}))

	// Edit task tool
	editTaskTool := mcp.NewTool("omnifocus_edit_task",
		mcp.WithDescription("Apply a partial update to a task. Absent fields are left untouched; empty date strings clear the date."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The OmniFocus task identifier"),
		),
		mcp.WithString("name",
			mcp.Description("New task name"),
		),
		mcp.WithString("note",
			mcp.Description("New note text"),
		),
		mcp.WithString("due_date",
			mcp.Description("New due date (RFC3339 or YYYY-MM-DD); empty string clears it"),
		),
		mcp.WithString("defer_date",
			mcp.Description("New defer date (RFC3339 or YYYY-MM-DD); empty string clears it"),
		),
		mcp.WithBoolean("flagged",
			mcp.Description("Set or clear the flag"),
		),
		mcp.WithBoolean("completed",
			mcp.Description("Mark the task complete or incomplete"),
		),
		mcp.WithString("project",
			mcp.Description("Move the task to this project; empty string moves it to the inbox"),
		),
		mcp.WithString("tags",
			mcp.Description("Replace the task's tags with this tag name (string) or array of tag names; an empty array clears all tags"),
		),
	)

	s.AddTool(editTaskTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_edit_task", Operation: "edit_task", Mutating: true}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			taskID := argString(args, "task_id")
			if taskID == "" {
				return mcp.NewToolResultError("task_id is required"), nil
			}

			edit := omnifocus.TaskEdit{
				Name:      argStringPtr(args, "name"),
				Note:      argStringPtr(args, "note"),
				DueDate:   argStringPtr(args, "due_date"),
				DeferDate: argStringPtr(args, "defer_date"),
				Flagged:   argBoolPtr(args, "flagged"),
				Completed: argBoolPtr(args, "completed"),
				Project:   argStringPtr(args, "project"),
			}

			if raw, present := args["tags"]; present {
				edit.ReplaceTags = true
				if !isEmptyList(raw) {
					tags, err := batch.ParseStringOrArray(raw, "tags")
					if err != nil {
						return mcp.NewToolResultError(err.Error()), nil
					}
					edit.Tags = tags
				}
			}

			if edit.Empty() {
				return mcp.NewToolResultError("no fields to edit"), nil
			}

			status, err := sc.Client().EditTask(ctx, taskID, edit)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(status)
		}))

	// Remove task tool
	removeTaskTool := mcp.NewTool("omnifocus_remove_task",
		mcp.WithDescription("Delete a task. Deletion is irreversible."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The OmniFocus task identifier"),
		),
	)

	s.AddTool(removeTaskTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_remove_task", Operation: "remove_task", Mutating: true}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			taskID := argString(args, "task_id")
			if taskID == "" {
				return mcp.NewToolResultError("task_id is required"), nil
			}

			status, err := sc.Client().RemoveTask(ctx, taskID)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(status)
		}))

	return nil
}

// taskInputFromArgs builds a creation input from tool arguments.
func taskInputFromArgs(args map[string]interface{}) (omnifocus.TaskInput, error) {
	name := argString(args, "name")
	if name == "" {
		return omnifocus.TaskInput{}, fmt.Errorf("name is required")
	}

	flagged, _ := argBool(args, "flagged")
	input := omnifocus.TaskInput{
		Name:      name,
		Note:      argString(args, "note"),
		Project:   argString(args, "project"),
		DueDate:   argString(args, "due_date"),
		DeferDate: argString(args, "defer_date"),
		Flagged:   flagged,
		Context:   argString(args, "context"),
	}

	if raw, present := args["tags"]; present && !isEmptyList(raw) {
		tags, err := batch.ParseStringOrArray(raw, "tags")
		if err != nil {
			return omnifocus.TaskInput{}, err
		}
		input.Tags = tags
	}

	return input, nil
}

// isEmptyList reports whether raw is an empty array argument. An empty
// tag list is meaningful for edits (clear all tags), so it must not be
// rejected by the list parser.
func isEmptyList(raw interface{}) bool {
	if arr, ok := raw.([]interface{}); ok {
		return len(arr) == 0
	}
	if s, ok := raw.(string); ok {
		return s == "[]"
	}
	return false
}
