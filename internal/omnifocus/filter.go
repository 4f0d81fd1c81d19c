package omnifocus

import (
	"sort"
	"strings"
	"time"
)

// Filter evaluates criteria over a batch of decoded tasks and returns the
// matching tasks, sorted and paginated. Predicates are checked cheapest
// first (flag and date-presence tests before substring search), but AND is
// commutative: evaluation order never changes the result. The sort is
// stable, so an unset sort key preserves the order the host returned the
// tasks in.
func Filter(tasks []Task, c FilterCriteria) ([]Task, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	matched := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, c) {
			matched = append(matched, t)
		}
	}

	sortTasks(matched, c.SortBy)

	return paginate(matched, c.Offset, c.Limit), nil
}

func matches(t Task, c FilterCriteria) bool {
	if c.Completed != nil && t.Completed != *c.Completed {
		return false
	}
	if c.IsFlagged != nil && t.Flagged != *c.IsFlagged {
		return false
	}
	if c.HasDueDate != nil && (t.Due != nil) != *c.HasDueDate {
		return false
	}
	if c.DueAfter != nil && (t.Due == nil || t.Due.Before(*c.DueAfter)) {
		return false
	}
	if c.DueBefore != nil && (t.Due == nil || t.Due.After(*c.DueBefore)) {
		return false
	}
	if c.DeferAfter != nil && (t.Defer == nil || t.Defer.Before(*c.DeferAfter)) {
		return false
	}
	if c.DeferBefore != nil && (t.Defer == nil || t.Defer.After(*c.DeferBefore)) {
		return false
	}
	if c.ProjectName != "" && t.Project != c.ProjectName {
		return false
	}
	for _, want := range c.TagNames {
		if !hasTag(t, want) {
			return false
		}
	}
	if c.SearchText != "" {
		needle := strings.ToLower(c.SearchText)
		haystack := strings.ToLower(t.Name + "\n" + t.Note)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func hasTag(t Task, name string) bool {
	for _, tag := range t.Tags {
		if tag == name {
			return true
		}
	}
	return false
}

func sortTasks(tasks []Task, key SortKey) {
	switch key {
	case SortByName:
		sort.SliceStable(tasks, func(i, j int) bool {
			return strings.ToLower(tasks[i].Name) < strings.ToLower(tasks[j].Name)
		})
	case SortByDue:
		sort.SliceStable(tasks, func(i, j int) bool {
			return timeLess(tasks[i].Due, tasks[j].Due)
		})
	case SortByDefer:
		sort.SliceStable(tasks, func(i, j int) bool {
			return timeLess(tasks[i].Defer, tasks[j].Defer)
		})
	}
}

// timeLess orders timestamps ascending with absent dates last.
func timeLess(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

// paginate applies offset and limit to the final ordered sequence. An
// offset beyond the result length yields an empty slice, never an error.
func paginate(tasks []Task, offset, limit int) []Task {
	if offset >= len(tasks) {
		return []Task{}
	}
	tasks = tasks[offset:]
	if limit > 0 && limit < len(tasks) {
		tasks = tasks[:limit]
	}
	return tasks
}
