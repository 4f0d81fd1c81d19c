package omnifocus

import (
	"context"
	"log/slog"
	"time"
)

// Client is the high-level OmniFocus automation bridge. Each method
// renders a script, runs it through the executor and decodes the host's
// output into typed results. Methods are safe for concurrent use; the
// executor serializes the actual host calls.
type Client struct {
	exec   *Executor
	logger *slog.Logger

	// now is swapped in tests to pin date-relative evaluation.
	now func() time.Time
}

// NewClient creates a bridge client around exec.
func NewClient(exec *Executor, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		exec:   exec,
		logger: logger,
		now:    time.Now,
	}
}

// runScript wraps an OmniJS script for the JXA shim and executes it.
func (c *Client) runScript(ctx context.Context, op, omnijs string) (string, error) {
	return c.exec.Run(ctx, op, WrapJXA(omnijs))
}

// AddTask creates a task from in and returns the host's creation record.
func (c *Client) AddTask(ctx context.Context, in TaskInput) (StatusResult, error) {
	const op = "add_task"
	script, err := BuildAddTask(in)
	if err != nil {
		return StatusResult{}, err
	}
	raw, err := c.runScript(ctx, op, script)
	if err != nil {
		return StatusResult{}, err
	}
	return DecodeStatus(op, raw)
}

// AddProject creates a project from in.
func (c *Client) AddProject(ctx context.Context, in ProjectInput) (StatusResult, error) {
	const op = "add_project"
	script, err := BuildAddProject(in)
	if err != nil {
		return StatusResult{}, err
	}
	raw, err := c.runScript(ctx, op, script)
	if err != nil {
		return StatusResult{}, err
	}
	return DecodeStatus(op, raw)
}

// InboxTasks returns the tasks in the inbox.
func (c *Client) InboxTasks(ctx context.Context) ([]Task, error) {
	const op = "get_inbox_tasks"
	raw, err := c.runScript(ctx, op, BuildInboxTasks())
	if err != nil {
		return nil, err
	}
	return DecodeTasks(op, raw)
}

// FlaggedTasks returns all incomplete flagged tasks.
func (c *Client) FlaggedTasks(ctx context.Context) ([]Task, error) {
	const op = "get_flagged_tasks"
	raw, err := c.runScript(ctx, op, BuildFlaggedTasks())
	if err != nil {
		return nil, err
	}
	return DecodeTasks(op, raw)
}

// ForecastTasks returns incomplete tasks that are flagged or due within
// the next week, tagged with their forecast kind.
func (c *Client) ForecastTasks(ctx context.Context) ([]Task, error) {
	const op = "get_forecast_tasks"
	raw, err := c.runScript(ctx, op, BuildForecastTasks())
	if err != nil {
		return nil, err
	}
	return DecodeTasks(op, raw)
}

// CompletedToday returns tasks completed since local midnight.
func (c *Client) CompletedToday(ctx context.Context) ([]Task, error) {
	const op = "get_completed_today"
	raw, err := c.runScript(ctx, op, BuildCompletedToday())
	if err != nil {
		return nil, err
	}
	return DecodeTasks(op, raw)
}

// TaskByID returns the full record of a single task. Unknown identifiers
// yield a not-found error.
func (c *Client) TaskByID(ctx context.Context, taskID string) (Task, error) {
	const op = "get_task_by_id"
	script, err := BuildTaskByID(taskID)
	if err != nil {
		return Task{}, err
	}
	raw, err := c.runScript(ctx, op, script)
	if err != nil {
		return Task{}, err
	}
	return DecodeTask(op, raw)
}

// TasksByTag returns the incomplete tasks carrying the named tag. An
// unknown tag yields an empty list.
func (c *Client) TasksByTag(ctx context.Context, tagName string) ([]Task, error) {
	const op = "get_tasks_by_tag"
	script, err := BuildTasksByTag(tagName)
	if err != nil {
		return nil, err
	}
	raw, err := c.runScript(ctx, op, script)
	if err != nil {
		return nil, err
	}
	return DecodeTasks(op, raw)
}

// FilterTasks fetches the flat task list once and evaluates criteria over
// it in memory.
func (c *Client) FilterTasks(ctx context.Context, criteria FilterCriteria) ([]Task, error) {
	const op = "filter_tasks"
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	raw, err := c.runScript(ctx, op, BuildAllTasks())
	if err != nil {
		return nil, err
	}
	tasks, err := DecodeTasks(op, raw)
	if err != nil {
		return nil, err
	}
	return Filter(tasks, criteria)
}

// EditTask applies a partial update to a task.
func (c *Client) EditTask(ctx context.Context, taskID string, edit TaskEdit) (StatusResult, error) {
	const op = "edit_task"
	script, err := BuildEditTask(taskID, edit)
	if err != nil {
		return StatusResult{}, err
	}
	raw, err := c.runScript(ctx, op, script)
	if err != nil {
		return StatusResult{}, err
	}
	return DecodeStatus(op, raw)
}

// EditProject applies a partial update to a project.
func (c *Client) EditProject(ctx context.Context, projectID string, edit ProjectEdit) (StatusResult, error) {
	const op = "edit_project"
	script, err := BuildEditProject(projectID, edit)
	if err != nil {
		return StatusResult{}, err
	}
	raw, err := c.runScript(ctx, op, script)
	if err != nil {
		return StatusResult{}, err
	}
	return DecodeStatus(op, raw)
}

// RemoveTask deletes a task. Deletion is irreversible.
func (c *Client) RemoveTask(ctx context.Context, taskID string) (StatusResult, error) {
	const op = "remove_task"
	script, err := BuildRemoveTask(taskID)
	if err != nil {
		return StatusResult{}, err
	}
	raw, err := c.runScript(ctx, op, script)
	if err != nil {
		return StatusResult{}, err
	}
	return DecodeStatus(op, raw)
}

// RemoveProject deletes a project and its tasks.
func (c *Client) RemoveProject(ctx context.Context, projectID string) (StatusResult, error) {
	const op = "remove_project"
	script, err := BuildRemoveProject(projectID)
	if err != nil {
		return StatusResult{}, err
	}
	raw, err := c.runScript(ctx, op, script)
	if err != nil {
		return StatusResult{}, err
	}
	return DecodeStatus(op, raw)
}

// CompleteTask marks a task complete by identifier.
func (c *Client) CompleteTask(ctx context.Context, taskID string) (StatusResult, error) {
	const op = "complete_task"
	script, err := BuildCompleteTask(taskID)
	if err != nil {
		return StatusResult{}, err
	}
	raw, err := c.runScript(ctx, op, script)
	if err != nil {
		return StatusResult{}, err
	}
	return DecodeStatus(op, raw)
}

// Perspectives returns the host's built-in and custom perspectives. The
// list is never cached; renames and deletions show up on the next call.
func (c *Client) Perspectives(ctx context.Context) ([]Perspective, error) {
	const op = "list_perspectives"
	raw, err := c.runScript(ctx, op, BuildListPerspectives())
	if err != nil {
		return nil, err
	}
	return DecodePerspectives(op, raw)
}

// PerspectiveTasks resolves a perspective by name and evaluates its rules
// over a fresh database dump.
func (c *Client) PerspectiveTasks(ctx context.Context, name string) (PerspectiveResult, error) {
	const op = "get_perspective_tasks"
	if name == "" {
		return PerspectiveResult{}, newError(KindValidation, op, "perspective name must not be empty")
	}
	perspectives, err := c.Perspectives(ctx)
	if err != nil {
		return PerspectiveResult{}, err
	}
	p, err := ResolvePerspective(op, name, perspectives)
	if err != nil {
		return PerspectiveResult{}, err
	}
	dump, err := c.DumpDatabase(ctx, true, 10)
	if err != nil {
		return PerspectiveResult{}, err
	}
	return EvaluatePerspective(p, dump, c.now()), nil
}

// ListProjects returns all projects.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	const op = "list_projects"
	raw, err := c.runScript(ctx, op, BuildListProjects())
	if err != nil {
		return nil, err
	}
	return DecodeProjects(op, raw)
}

// ListTags returns all tags.
func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	const op = "list_tags"
	raw, err := c.runScript(ctx, op, BuildListTags())
	if err != nil {
		return nil, err
	}
	return DecodeTags(op, raw)
}

// DumpDatabase exports the full document structure. Dumps of large
// databases can be slow; the call uses double the default deadline.
func (c *Client) DumpDatabase(ctx context.Context, includeCompleted bool, maxDepth int) (*DatabaseDump, error) {
	const op = "dump_database"
	script, err := BuildDumpDatabase(includeCompleted, maxDepth)
	if err != nil {
		return nil, err
	}
	raw, err := c.exec.RunWithTimeout(ctx, op, WrapJXA(script), 2*c.exec.Timeout())
	if err != nil {
		return nil, err
	}
	return DecodeDump(op, raw)
}
