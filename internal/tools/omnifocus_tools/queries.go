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

// registerQueryTools registers the read-only query tools. These are always
// available, even in read-only mode.
func registerQueryTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	registerTaskListQuery(s, sc, "omnifocus_get_inbox_tasks", "get_inbox_tasks",
		"List tasks in the OmniFocus inbox",
		func(ctx context.Context) ([]omnifocus.Task, error) {
			return sc.Client().InboxTasks(ctx)
		})

	registerTaskListQuery(s, sc, "omnifocus_get_flagged_tasks", "get_flagged_tasks",
		"List all incomplete flagged tasks",
		func(ctx context.Context) ([]omnifocus.Task, error) {
			return sc.Client().FlaggedTasks(ctx)
		})

	registerTaskListQuery(s, sc, "omnifocus_get_forecast_tasks", "get_forecast_tasks",
		"List incomplete tasks that are flagged or due within the next week. Each task carries a 'type' of 'flagged' or 'due'.",
		func(ctx context.Context) ([]omnifocus.Task, error) {
			return sc.Client().ForecastTasks(ctx)
		})

	registerTaskListQuery(s, sc, "omnifocus_get_completed_today", "get_completed_today",
		"List tasks completed since local midnight",
		func(ctx context.Context) ([]omnifocus.Task, error) {
			return sc.Client().CompletedToday(ctx)
		})

	// Get task by ID tool
	getTaskTool := mcp.NewTool("omnifocus_get_task_by_id",
		mcp.WithDescription("Get the full record of a single task by its identifier"),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The OmniFocus task identifier"),
		),
	)

	s.AddTool(getTaskTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_get_task_by_id", Operation: "get_task_by_id"}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			taskID := argString(args, "task_id")
			if taskID == "" {
				return mcp.NewToolResultError("task_id is required"), nil
			}

			task, err := sc.Client().TaskByID(ctx, taskID)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(task)
		}))

	// Get tasks by tag tool
	getByTagTool := mcp.NewTool("omnifocus_get_tasks_by_tag",
		mcp.WithDescription("List incomplete tasks carrying the named tag. An unknown tag yields an empty list."),
		mcp.WithString("tag",
			mcp.Required(),
			mcp.Description("The tag name to match"),
		),
	)

	s.AddTool(getByTagTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_get_tasks_by_tag", Operation: "get_tasks_by_tag"}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			tag := argString(args, "tag")
			if tag == "" {
				return mcp.NewToolResultError("tag is required"), nil
			}

			tasks, err := sc.Client().TasksByTag(ctx, tag)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(tasks)
		}))

	// Filter tasks tool
	filterTool := mcp.NewTool("omnifocus_filter_tasks",
		mcp.WithDescription("Filter all tasks by a conjunction of criteria. Absent criteria impose no constraint."),
		mcp.WithBoolean("completed",
			mcp.Description("Match only completed (true) or incomplete (false) tasks"),
		),
		mcp.WithString("project",
			mcp.Description("Exact name of the containing project"),
		),
		mcp.WithBoolean("flagged",
			mcp.Description("Match only flagged (true) or unflagged (false) tasks"),
		),
		mcp.WithBoolean("has_due_date",
			mcp.Description("Match only tasks with (true) or without (false) a due date"),
		),
		mcp.WithString("tags",
			mcp.Description("Tag name (string) or array of tag names; tasks must carry every listed tag"),
		),
		mcp.WithString("search",
			mcp.Description("Case-insensitive substring match over task name and note"),
		),
		mcp.WithString("due_after",
			mcp.Description("Inclusive lower bound on the due date (RFC3339 or YYYY-MM-DD)"),
		),
		mcp.WithString("due_before",
			mcp.Description("Inclusive upper bound on the due date (RFC3339 or YYYY-MM-DD)"),
		),
		mcp.WithString("defer_after",
			mcp.Description("Inclusive lower bound on the defer date (RFC3339 or YYYY-MM-DD)"),
		),
		mcp.WithString("defer_before",
			mcp.Description("Inclusive upper bound on the defer date (RFC3339 or YYYY-MM-DD)"),
		),
		mcp.WithString("sort_by",
			mcp.Description("Sort key: 'name', 'due' or 'defer'. Unset preserves database order."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tasks to return (0 = all)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of tasks to skip after filtering and sorting"),
		),
	)

	s.AddTool(filterTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_filter_tasks", Operation: "filter_tasks"}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			criteria, err := criteriaFromArgs(request.GetArguments())
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			tasks, err := sc.Client().FilterTasks(ctx, criteria)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(tasks)
		}))

	// List projects tool
	listProjectsTool := mcp.NewTool("omnifocus_list_projects",
		mcp.WithDescription("List all projects with status, folder and task counts"),
	)

	s.AddTool(listProjectsTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_list_projects", Operation: "list_projects"}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			projects, err := sc.Client().ListProjects(ctx)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(projects)
		}))

	// List tags tool
	listTagsTool := mcp.NewTool("omnifocus_list_tags",
		mcp.WithDescription("List all tags with task counts"),
	)

	s.AddTool(listTagsTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_list_tags", Operation: "list_tags"}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			tags, err := sc.Client().ListTags(ctx)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(tags)
		}))

	// Dump database tool
	dumpTool := mcp.NewTool("omnifocus_dump_database",
		mcp.WithDescription("Export the full database structure: projects with task trees, tags, inbox and statistics. Slow on large databases."),
		mcp.WithBoolean("include_completed",
			mcp.Description("Include completed tasks in the dump (default: false)"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Maximum task tree depth to traverse (default: 10, minimum: 1)"),
		),
	)

	s.AddTool(dumpTool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: "omnifocus_dump_database", Operation: "dump_database"}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			includeCompleted, _ := argBool(args, "include_completed")
			maxDepth, ok := argInt(args, "max_depth")
			if !ok {
				maxDepth = 10
			}

			dump, err := sc.Client().DumpDatabase(ctx, includeCompleted, maxDepth)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(dump)
		}))

	return nil
}

// registerTaskListQuery registers a parameterless tool returning a task list.
func registerTaskListQuery(
	s *mcpserver.MCPServer,
	sc *server.ServerContext,
	name, operation, description string,
	query func(ctx context.Context) ([]omnifocus.Task, error),
) {
	tool := mcp.NewTool(name, mcp.WithDescription(description))

	s.AddTool(tool, common.InstrumentedToolHandler(
		common.ToolInfo{Name: name, Operation: operation}, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			tasks, err := query(ctx)
			if err != nil {
				return common.ToolError(err)
			}
			return jsonResult(tasks)
		}))
}

// criteriaFromArgs builds filter criteria from tool arguments.
func criteriaFromArgs(args map[string]interface{}) (omnifocus.FilterCriteria, error) {
	criteria := omnifocus.FilterCriteria{
		Completed:   argBoolPtr(args, "completed"),
		ProjectName: argString(args, "project"),
		IsFlagged:   argBoolPtr(args, "flagged"),
		HasDueDate:  argBoolPtr(args, "has_due_date"),
		SearchText:  argString(args, "search"),
		SortBy:      omnifocus.SortKey(argString(args, "sort_by")),
	}

	if raw, present := args["tags"]; present {
		tags, err := batch.ParseStringOrArray(raw, "tags")
		if err != nil {
			return omnifocus.FilterCriteria{}, err
		}
		criteria.TagNames = tags
	}

	var err error
	if criteria.DueAfter, err = argTime(args, "due_after"); err != nil {
		return omnifocus.FilterCriteria{}, err
	}
	if criteria.DueBefore, err = argTime(args, "due_before"); err != nil {
		return omnifocus.FilterCriteria{}, err
	}
	if criteria.DeferAfter, err = argTime(args, "defer_after"); err != nil {
		return omnifocus.FilterCriteria{}, err
	}
	if criteria.DeferBefore, err = argTime(args, "defer_before"); err != nil {
		return omnifocus.FilterCriteria{}, err
	}

	if limit, ok := argInt(args, "limit"); ok {
		if limit < 0 {
			return omnifocus.FilterCriteria{}, fmt.Errorf("limit must not be negative")
		}
		criteria.Limit = limit
	}
	if offset, ok := argInt(args, "offset"); ok {
		if offset < 0 {
			return omnifocus.FilterCriteria{}, fmt.Errorf("offset must not be negative")
		}
		criteria.Offset = offset
	}

	return criteria, nil
}
