package omnifocus_tools

import (
	"context"
	"testing"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnibridge/internal/omnifocus"
	"omnibridge/internal/server"
)

func testServerContext(t *testing.T, readOnly bool) *server.ServerContext {
	t.Helper()
	exec := omnifocus.NewExecutor(omnifocus.ExecutorConfig{
		Bin:     "/nonexistent/osascript",
		Timeout: time.Second,
	})
	client := omnifocus.NewClient(exec, nil)
	return server.NewServerContext(context.Background(), client, readOnly)
}

func TestRegisterOmniFocusTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.1")
	sc := testServerContext(t, false)

	require.NoError(t, RegisterOmniFocusTools(s, sc, false))
}

func TestRegisterOmniFocusTools_ReadOnly(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.1")
	sc := testServerContext(t, true)

	require.NoError(t, RegisterOmniFocusTools(s, sc, true))
}

func TestArgStringPtr(t *testing.T) {
	args := map[string]interface{}{
		"present": "value",
		"empty":   "",
	}

	require.NotNil(t, argStringPtr(args, "present"))
	assert.Equal(t, "value", *argStringPtr(args, "present"))

	require.NotNil(t, argStringPtr(args, "empty"), "empty string is present, it clears the field")
	assert.Equal(t, "", *argStringPtr(args, "empty"))

	assert.Nil(t, argStringPtr(args, "absent"))
}

func TestArgTime(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantNil bool
		wantErr bool
	}{
		{name: "absent", wantNil: true},
		{name: "rfc3339", value: "2025-03-15T10:00:00Z", want: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)},
		{name: "date only", value: "2025-03-15", want: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{name: "fuzzy date rejected", value: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]interface{}{}
			if tt.value != "" {
				args["when"] = tt.value
			}

			got, err := argTime(args, "when")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestCriteriaFromArgs(t *testing.T) {
	t.Run("empty args yield zero criteria", func(t *testing.T) {
		criteria, err := criteriaFromArgs(map[string]interface{}{})
		require.NoError(t, err)
		assert.Equal(t, omnifocus.FilterCriteria{}, criteria)
	})

	t.Run("full criteria", func(t *testing.T) {
		criteria, err := criteriaFromArgs(map[string]interface{}{
			"completed":    false,
			"project":      "Home",
			"flagged":      true,
			"has_due_date": true,
			"tags":         []interface{}{"errand", "urgent"},
			"search":       "milk",
			"due_after":    "2025-03-01",
			"due_before":   "2025-03-31",
			"sort_by":      "due",
			"limit":        float64(10),
			"offset":       float64(5),
		})
		require.NoError(t, err)

		require.NotNil(t, criteria.Completed)
		assert.False(t, *criteria.Completed)
		assert.Equal(t, "Home", criteria.ProjectName)
		require.NotNil(t, criteria.IsFlagged)
		assert.True(t, *criteria.IsFlagged)
		require.NotNil(t, criteria.HasDueDate)
		assert.True(t, *criteria.HasDueDate)
		assert.Equal(t, []string{"errand", "urgent"}, criteria.TagNames)
		assert.Equal(t, "milk", criteria.SearchText)
		require.NotNil(t, criteria.DueAfter)
		require.NotNil(t, criteria.DueBefore)
		assert.Equal(t, omnifocus.SortByDue, criteria.SortBy)
		assert.Equal(t, 10, criteria.Limit)
		assert.Equal(t, 5, criteria.Offset)
	})

	t.Run("bad date rejected", func(t *testing.T) {
		_, err := criteriaFromArgs(map[string]interface{}{"due_after": "next week"})
		require.Error(t, err)
	})

	t.Run("negative limit rejected", func(t *testing.T) {
		_, err := criteriaFromArgs(map[string]interface{}{"limit": float64(-1)})
		require.Error(t, err)
	})
}

func TestTaskInputFromArgs(t *testing.T) {
	t.Run("name required", func(t *testing.T) {
		_, err := taskInputFromArgs(map[string]interface{}{})
		require.Error(t, err)
	})

	t.Run("full input", func(t *testing.T) {
		input, err := taskInputFromArgs(map[string]interface{}{
			"name":       "Buy milk",
			"note":       "2 liters",
			"project":    "Home",
			"tags":       []interface{}{"errand"},
			"due_date":   "tomorrow",
			"defer_date": "today",
			"flagged":    true,
			"context":    "Errands",
		})
		require.NoError(t, err)

		assert.Equal(t, "Buy milk", input.Name)
		assert.Equal(t, "2 liters", input.Note)
		assert.Equal(t, "Home", input.Project)
		assert.Equal(t, []string{"errand"}, input.Tags)
		assert.Equal(t, "tomorrow", input.DueDate)
		assert.Equal(t, "today", input.DeferDate)
		assert.True(t, input.Flagged)
		assert.Equal(t, "Errands", input.Context)
	})
}

func TestIsEmptyList(t *testing.T) {
	assert.True(t, isEmptyList([]interface{}{}))
	assert.True(t, isEmptyList("[]"))
	assert.False(t, isEmptyList([]interface{}{"a"}))
	assert.False(t, isEmptyList("[\"a\"]"))
	assert.False(t, isEmptyList(nil))
}
