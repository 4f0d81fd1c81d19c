package omnifocus

import "time"

// Task represents an OmniFocus task as returned by the host. The host
// owns the record; this is a transient, request-scoped copy decoded from
// script output. Identifiers are opaque, host-assigned and immutable.
type Task struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Note             string     `json:"note,omitempty"`
	Completed        bool       `json:"completed"`
	Flagged          bool       `json:"flagged"`
	Project          string     `json:"project,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	Due              *time.Time `json:"due,omitempty"`
	Defer            *time.Time `json:"defer,omitempty"`
	EstimatedMinutes int        `json:"estimated_minutes,omitempty"`
	CompletionDate   *time.Time `json:"completion_date,omitempty"`
	// Kind is set for forecast queries: "flagged" or "due".
	Kind string `json:"type,omitempty"`
	// Children is populated by tree-shaped queries (database dump).
	Children []Task `json:"children,omitempty"`
}

// Project represents an OmniFocus project.
type Project struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Status             string  `json:"status"` // active, on-hold, done, dropped
	Folder             string  `json:"folder,omitempty"`
	Sequential         bool    `json:"sequential"`
	TaskCount          int     `json:"task_count"`
	RemainingCount     int     `json:"remaining_count"`
	ReviewIntervalDays float64 `json:"review_interval_days,omitempty"`
	// Tasks is populated by the database dump (the project's task tree).
	Tasks []Task `json:"tasks,omitempty"`
}

// Project status values as reported by the host.
const (
	ProjectStatusActive  = "active"
	ProjectStatusOnHold  = "on-hold"
	ProjectStatusDone    = "done"
	ProjectStatusDropped = "dropped"
)

// Tag represents an OmniFocus tag. Tags are many-to-many with tasks.
type Tag struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Parent         string `json:"parent,omitempty"`
	TaskCount      int    `json:"task_count"`
	RemainingCount int    `json:"remaining_count"`
}

// Perspective represents a named OmniFocus perspective. Its rule set is
// opaque on the host side; see EvaluatePerspective.
type Perspective struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	BuiltIn bool   `json:"built_in"`
}

// DatabaseStats summarizes the database dump.
type DatabaseStats struct {
	TotalProjects  int `json:"total_projects"`
	ActiveProjects int `json:"active_projects"`
	TotalTasks     int `json:"total_tasks"`
	RemainingTasks int `json:"remaining_tasks"`
	FlaggedTasks   int `json:"flagged_tasks"`
}

// DatabaseDump is a structured export of the host document: all projects
// with their task trees, all tags, and the inbox.
type DatabaseDump struct {
	Projects []Project     `json:"projects"`
	Tags     []Tag         `json:"tags"`
	Inbox    []Task        `json:"inbox"`
	Stats    DatabaseStats `json:"stats"`
}

// TaskInput describes a task to create. Dates are passed as the host's
// flexible date strings ("tomorrow", "2d", "2024-12-31") and parsed by the
// host's transport-text parser.
type TaskInput struct {
	Name      string   `json:"name"`
	Note      string   `json:"note,omitempty"`
	Project   string   `json:"project,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	DueDate   string   `json:"due_date,omitempty"`
	DeferDate string   `json:"defer_date,omitempty"`
	Flagged   bool     `json:"flagged,omitempty"`
	// Context is a legacy OmniFocus 2 context name, converted to a tag.
	Context string `json:"context,omitempty"`
}

// Validate checks the input before any script generation.
func (in TaskInput) Validate() error {
	if in.Name == "" {
		return newError(KindValidation, "add_task", "task name must not be empty")
	}
	return nil
}

// ProjectInput describes a project to create.
type ProjectInput struct {
	Name           string `json:"name"`
	Folder         string `json:"folder,omitempty"`
	Sequential     bool   `json:"sequential,omitempty"`
	ReviewInterval string `json:"review_interval,omitempty"` // e.g. "1 week", "2 days"
	CompletionRule string `json:"completion_rule,omitempty"` // "last-action" or "all-actions"
}

// Validate checks the input before any script generation.
func (in ProjectInput) Validate() error {
	if in.Name == "" {
		return newError(KindValidation, "add_project", "project name must not be empty")
	}
	if in.CompletionRule != "" && in.CompletionRule != "last-action" && in.CompletionRule != "all-actions" {
		return newError(KindValidation, "add_project",
			"completion rule must be %q or %q, got %q", "last-action", "all-actions", in.CompletionRule)
	}
	return nil
}

// TaskEdit describes a partial update of an existing task. Nil fields are
// left untouched; a non-nil pointer to the zero value clears the field.
type TaskEdit struct {
	Name      *string
	Note      *string
	DueDate   *string // absolute date (RFC3339 or YYYY-MM-DD), empty clears
	DeferDate *string
	Flagged   *bool
	Completed *bool
	Project   *string // empty moves the task to the inbox
	Tags      []string
	// ReplaceTags distinguishes "replace with empty set" from "no change".
	ReplaceTags bool
}

// Empty reports whether the edit contains no changes.
func (e TaskEdit) Empty() bool {
	return e.Name == nil && e.Note == nil && e.DueDate == nil && e.DeferDate == nil &&
		e.Flagged == nil && e.Completed == nil && e.Project == nil && !e.ReplaceTags
}

// ProjectEdit describes a partial update of an existing project.
type ProjectEdit struct {
	Name           *string
	Status         *string // active, on-hold, done, dropped
	ReviewInterval *string
	Sequential     *bool
	CompletionRule *string
}

// Empty reports whether the edit contains no changes.
func (e ProjectEdit) Empty() bool {
	return e.Name == nil && e.Status == nil && e.ReviewInterval == nil &&
		e.Sequential == nil && e.CompletionRule == nil
}

// StatusResult is the decoded outcome of a mutating operation.
type StatusResult struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	// Text carries the trimmed raw output when the host returned a plain
	// status string instead of JSON.
	Text string `json:"text,omitempty"`
}

// SortKey selects the ordering of filtered results.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByDue   SortKey = "due"
	SortByDefer SortKey = "defer"
)

// FilterCriteria is a conjunction of optional predicates over a batch of
// tasks. Nil or zero-valued fields impose no constraint; all present
// predicates are ANDed. The zero value matches every task.
type FilterCriteria struct {
	// Completed filters on the completed flag when non-nil.
	Completed *bool
	// ProjectName matches the containing project name exactly.
	ProjectName string
	// HasDueDate filters on due-date presence when non-nil.
	HasDueDate *bool
	// IsFlagged filters on the flagged flag when non-nil.
	IsFlagged *bool
	// TagNames requires the task to carry every listed tag.
	TagNames []string
	// SearchText is a case-insensitive substring match over name and note.
	SearchText string
	// Due date range, inclusive bounds. Tasks without a due date never match.
	DueAfter  *time.Time
	DueBefore *time.Time
	// Defer date range, inclusive bounds.
	DeferAfter  *time.Time
	DeferBefore *time.Time
	// SortBy orders the filtered result; unset preserves insertion order.
	SortBy SortKey
	// Pagination, applied after filtering and sorting. Limit 0 means all.
	Limit  int
	Offset int
}

// Validate rejects criteria the engine cannot evaluate.
func (c FilterCriteria) Validate() error {
	switch c.SortBy {
	case "", SortByName, SortByDue, SortByDefer:
	default:
		return newError(KindValidation, "filter_tasks", "unknown sort key %q", c.SortBy)
	}
	if c.Limit < 0 {
		return newError(KindValidation, "filter_tasks", "limit must not be negative")
	}
	if c.Offset < 0 {
		return newError(KindValidation, "filter_tasks", "offset must not be negative")
	}
	return nil
}
