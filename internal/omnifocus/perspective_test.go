package omnifocus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDump() *DatabaseDump {
	return &DatabaseDump{
		Inbox: []Task{
			{ID: "i1", Name: "Inbox item"},
			{ID: "i2", Name: "Flagged inbox item", Flagged: true},
		},
		Projects: []Project{
			{
				ID: "p1", Name: "Home",
				Tasks: []Task{
					{ID: "t1", Name: "Parent task", Tags: []string{"errand"}, Children: []Task{
						{ID: "t2", Name: "Child task", Due: ts("2025-03-05")},
					}},
					{ID: "t3", Name: "Done task", Completed: true, CompletionDate: ts("2025-03-01")},
				},
			},
			{
				ID: "p2", Name: "Work",
				Tasks: []Task{
					{ID: "t4", Name: "Report", Flagged: true, Due: ts("2025-03-20")},
					{ID: "t5", Name: "Old done", Completed: true, CompletionDate: ts("2025-02-01")},
				},
			},
		},
	}
}

func TestFlattenTree(t *testing.T) {
	got := FlattenTree(sampleDump())

	ids := make([]string, len(got))
	for i, task := range got {
		ids[i] = task.ID
	}
	// Inbox first, then projects in order, children after their parent.
	assert.Equal(t, []string{"i1", "i2", "t1", "t2", "t3", "t4", "t5"}, ids)

	for _, task := range got {
		assert.Nil(t, task.Children, "flattened tasks carry no subtrees")
	}
	assert.Equal(t, "Home", got[3].Project, "children inherit the project name")
	assert.Equal(t, "", got[0].Project, "inbox tasks have no project")
}

func TestEvaluatePerspectiveBuiltIns(t *testing.T) {
	now := *ts("2025-03-03")
	dump := sampleDump()

	tests := []struct {
		perspective string
		wantIDs     []string
	}{
		{perspective: "Inbox", wantIDs: []string{"i1", "i2"}},
		{perspective: "Flagged", wantIDs: []string{"i2", "t4"}},
		// Forecast at 2025-03-03: t2 due 03-05 is inside the week,
		// t4 is flagged (due 03-20 is outside), i2 is flagged.
		// Sorted by due date, undated flagged tasks last.
		{perspective: "Forecast", wantIDs: []string{"t2", "t4", "i2"}},
		{perspective: "Projects", wantIDs: []string{"t1", "t2", "t4"}},
		{perspective: "Tags", wantIDs: []string{"t1"}},
		// Completed, most recent first.
		{perspective: "Completed", wantIDs: []string{"t3", "t5"}},
	}

	for _, tt := range tests {
		t.Run(tt.perspective, func(t *testing.T) {
			res := EvaluatePerspective(Perspective{Name: tt.perspective, BuiltIn: true}, dump, now)
			require.True(t, res.RulesApplied)

			ids := make([]string, len(res.Tasks))
			for i, task := range res.Tasks {
				ids[i] = task.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestEvaluatePerspectiveFallback(t *testing.T) {
	dump := sampleDump()
	all := FlattenTree(dump)

	t.Run("custom perspective", func(t *testing.T) {
		res := EvaluatePerspective(Perspective{ID: "x1", Name: "Errands"}, dump, time.Now())
		assert.False(t, res.RulesApplied)
		assert.Equal(t, all, res.Tasks)
	})

	t.Run("built-in without a rule strategy", func(t *testing.T) {
		res := EvaluatePerspective(Perspective{Name: "Review", BuiltIn: true}, dump, time.Now())
		assert.False(t, res.RulesApplied)
		assert.Equal(t, all, res.Tasks)
	})

	t.Run("custom perspective shadowing a built-in name", func(t *testing.T) {
		// Rule strategies only apply to real built-ins.
		res := EvaluatePerspective(Perspective{Name: "Flagged", BuiltIn: false}, dump, time.Now())
		assert.False(t, res.RulesApplied)
	})
}

func TestResolvePerspective(t *testing.T) {
	perspectives := []Perspective{
		{ID: "Inbox", Name: "Inbox", BuiltIn: true},
		{ID: "c1", Name: "Errands"},
	}

	t.Run("found", func(t *testing.T) {
		p, err := ResolvePerspective("get_perspective_tasks", "Errands", perspectives)
		require.NoError(t, err)
		assert.Equal(t, "c1", p.ID)
	})

	t.Run("case sensitive", func(t *testing.T) {
		_, err := ResolvePerspective("get_perspective_tasks", "errands", perspectives)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindNotFound))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := ResolvePerspective("get_perspective_tasks", "Someday", perspectives)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindNotFound))
	})
}
