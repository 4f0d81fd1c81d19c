package omnifocus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func sampleTasks() []Task {
	return []Task{
		{ID: "1", Name: "Buy milk", Project: "Home", Tags: []string{"errand"}, Due: ts("2025-03-10")},
		{ID: "2", Name: "Write report", Project: "Work", Tags: []string{"deep-work"}, Due: ts("2025-03-05"), Flagged: true},
		{ID: "3", Name: "Call dentist", Project: "Home", Tags: []string{"errand", "phone"}},
		{ID: "4", Name: "Archive old files", Project: "Work", Completed: true},
		{ID: "5", Name: "Plan vacation", Note: "check flight prices", Defer: ts("2025-04-01")},
	}
}

// The zero-value criteria must match every task unchanged.
func TestFilterIdentity(t *testing.T) {
	tasks := sampleTasks()
	got, err := Filter(tasks, FilterCriteria{})
	require.NoError(t, err)
	assert.Equal(t, tasks, got)
}

func TestFilterPredicates(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name     string
		criteria FilterCriteria
		wantIDs  []string
	}{
		{
			name:     "incomplete only",
			criteria: FilterCriteria{Completed: &no},
			wantIDs:  []string{"1", "2", "3", "5"},
		},
		{
			name:     "completed only",
			criteria: FilterCriteria{Completed: &yes},
			wantIDs:  []string{"4"},
		},
		{
			name:     "flagged",
			criteria: FilterCriteria{IsFlagged: &yes},
			wantIDs:  []string{"2"},
		},
		{
			name:     "has due date",
			criteria: FilterCriteria{HasDueDate: &yes},
			wantIDs:  []string{"1", "2"},
		},
		{
			name:     "no due date",
			criteria: FilterCriteria{HasDueDate: &no},
			wantIDs:  []string{"3", "4", "5"},
		},
		{
			name:     "project name exact",
			criteria: FilterCriteria{ProjectName: "Home"},
			wantIDs:  []string{"1", "3"},
		},
		{
			name:     "single tag",
			criteria: FilterCriteria{TagNames: []string{"errand"}},
			wantIDs:  []string{"1", "3"},
		},
		{
			name:     "all tags required",
			criteria: FilterCriteria{TagNames: []string{"errand", "phone"}},
			wantIDs:  []string{"3"},
		},
		{
			name:     "search matches name case-insensitively",
			criteria: FilterCriteria{SearchText: "REPORT"},
			wantIDs:  []string{"2"},
		},
		{
			name:     "search matches note",
			criteria: FilterCriteria{SearchText: "flight"},
			wantIDs:  []string{"5"},
		},
		{
			name:     "due range",
			criteria: FilterCriteria{DueAfter: ts("2025-03-06"), DueBefore: ts("2025-03-31")},
			wantIDs:  []string{"1"},
		},
		{
			name:     "defer range",
			criteria: FilterCriteria{DeferAfter: ts("2025-03-01")},
			wantIDs:  []string{"5"},
		},
		{
			name:     "no match",
			criteria: FilterCriteria{SearchText: "nonexistent"},
			wantIDs:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(sampleTasks(), tt.criteria)
			require.NoError(t, err)
			gotIDs := make([]string, 0, len(got))
			for _, task := range got {
				gotIDs = append(gotIDs, task.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

// Conjunction order never changes the result.
func TestFilterConjunctionCommutes(t *testing.T) {
	yes := true
	no := false
	a := FilterCriteria{Completed: &no, ProjectName: "Home", TagNames: []string{"errand"}}
	b := FilterCriteria{TagNames: []string{"errand"}, ProjectName: "Home", Completed: &no}
	c := FilterCriteria{IsFlagged: &yes, SearchText: "report", HasDueDate: &yes}
	d := FilterCriteria{HasDueDate: &yes, IsFlagged: &yes, SearchText: "report"}

	tasks := sampleTasks()
	got1, err := Filter(tasks, a)
	require.NoError(t, err)
	got2, err := Filter(tasks, b)
	require.NoError(t, err)
	assert.Equal(t, got1, got2)

	got3, err := Filter(tasks, c)
	require.NoError(t, err)
	got4, err := Filter(tasks, d)
	require.NoError(t, err)
	assert.Equal(t, got3, got4)
}

func TestFilterSorting(t *testing.T) {
	t.Run("by name", func(t *testing.T) {
		got, err := Filter(sampleTasks(), FilterCriteria{SortBy: SortByName})
		require.NoError(t, err)
		assert.Equal(t, "Archive old files", got[0].Name)
		assert.Equal(t, "Write report", got[len(got)-1].Name)
	})

	t.Run("by due puts undated last", func(t *testing.T) {
		got, err := Filter(sampleTasks(), FilterCriteria{SortBy: SortByDue})
		require.NoError(t, err)
		assert.Equal(t, "2", got[0].ID)
		assert.Equal(t, "1", got[1].ID)
		for _, task := range got[2:] {
			assert.Nil(t, task.Due)
		}
	})

	t.Run("stable for equal keys", func(t *testing.T) {
		// Tasks 3, 4, 5 share a nil due date; their relative order must
		// survive the sort.
		got, err := Filter(sampleTasks(), FilterCriteria{SortBy: SortByDue})
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "4", "5"}, []string{got[2].ID, got[3].ID, got[4].ID})
	})
}

func TestFilterPagination(t *testing.T) {
	tests := []struct {
		name    string
		offset  int
		limit   int
		wantIDs []string
	}{
		{name: "limit truncates", limit: 2, wantIDs: []string{"1", "2"}},
		{name: "offset skips", offset: 3, wantIDs: []string{"4", "5"}},
		{name: "offset and limit", offset: 1, limit: 2, wantIDs: []string{"2", "3"}},
		{name: "offset at end", offset: 5, wantIDs: []string{}},
		{name: "offset past end", offset: 100, wantIDs: []string{}},
		{name: "zero limit means all", limit: 0, wantIDs: []string{"1", "2", "3", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(sampleTasks(), FilterCriteria{Offset: tt.offset, Limit: tt.limit})
			require.NoError(t, err)
			gotIDs := make([]string, 0, len(got))
			for _, task := range got {
				gotIDs = append(gotIDs, task.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestFilterValidation(t *testing.T) {
	tests := []struct {
		name     string
		criteria FilterCriteria
	}{
		{name: "unknown sort key", criteria: FilterCriteria{SortBy: "priority"}},
		{name: "negative limit", criteria: FilterCriteria{Limit: -1}},
		{name: "negative offset", criteria: FilterCriteria{Offset: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Filter(sampleTasks(), tt.criteria)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindValidation))
		})
	}
}
