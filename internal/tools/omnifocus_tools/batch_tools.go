package omnifocus_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"omnibridge/internal/server"
	"omnibridge/internal/tools/batch"
	"omnibridge/internal/tools/common"
)

// registerBatchTools registers the batch mutation tools. Items are
// processed independently in input order; per-item results report which
// items failed and whether resubmitting them may help.
func registerBatchTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Batch add tasks tool
	batchAddTool := mcp.NewTool("omnifocus_batch_add_tasks",
		mcp.WithDescription("Create several tasks in one call. Each task is created independently; one failure never aborts the rest."),
		mcp.WithString("tasks",
			mcp.Required(),
			mcp.Description(`Array of task objects, each with "name" (required) and optional "note", "project", "tags", "due_date", "defer_date", "flagged", "context"`),
		),
	)

	s.AddTool(batchAddTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_batch_add_tasks", Operation: "batch_add_tasks", Mutating: true}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return batchAddTasks(ctx, sc, request.GetArguments()["tasks"])
		}))

	// Batch complete tasks tool
	batchCompleteTool := mcp.NewTool("omnifocus_batch_complete_tasks",
		mcp.WithDescription("Mark several tasks complete in one call. Each task is completed independently; one failure never aborts the rest."),
		mcp.WithString("task_ids",
			mcp.Required(),
			mcp.Description("Task identifier (string) or array of task identifiers"),
		),
	)

	s.AddTool(batchCompleteTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_batch_complete_tasks", Operation: "batch_complete_tasks", Mutating: true}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			taskIDs, err := batch.ParseStringOrArray(args["task_ids"], "task_ids")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatch(ctx, taskIDs, func(taskID string) (string, error) {
				status, err := sc.Client().CompleteTask(ctx, taskID)
				if err != nil {
					return "", err
				}
				if status.Name != "" {
					return fmt.Sprintf("task %s (%s) completed", taskID, status.Name), nil
				}
				return fmt.Sprintf("task %s completed", taskID), nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))

	return nil
}

// batchAddTasks creates every parseable item, one host call per item in
// input order. An item that fails schema validation or creation gets an
// error result in its slot; its siblings are still attempted. Only a
// malformed request as a whole (not an array, empty) produces a tool
// error instead of per-item results.
func batchAddTasks(ctx context.Context, sc *server.ServerContext, rawTasks interface{}) (*mcp.CallToolResult, error) {
	parsed, err := parseBatchTaskInputs(rawTasks)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := make([]batch.Result, 0, len(parsed))
	for i, item := range parsed {
		if err := ctx.Err(); err != nil {
			for _, rest := range parsed[i:] {
				results = append(results, batch.NewErrorResult(rest.Label,
					fmt.Errorf("batch canceled: %w", err)))
			}
			break
		}

		if item.Err != nil {
			results = append(results, batch.NewErrorResult(item.Label, item.Err))
			continue
		}

		status, err := sc.Client().AddTask(ctx, item.Input)
		message := ""
		if err == nil {
			message = creationMessage(status.ID, item.Input.Name)
		}
		results = append(results, batch.ResultFor(item.Label, message, err))
	}

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

// creationMessage formats the per-item success message of a batch create.
func creationMessage(id, name string) string {
	if id != "" {
		return fmt.Sprintf("task %q created with id %s", name, id)
	}
	return fmt.Sprintf("task %q created", name)
}
