package omnifocus_tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBatchTaskInputs(t *testing.T) {
	t.Run("array of objects", func(t *testing.T) {
		parsed, err := parseBatchTaskInputs([]interface{}{
			map[string]interface{}{"name": "Buy milk", "flagged": true},
			map[string]interface{}{"name": "Call plumber", "tags": []interface{}{"home"}, "due_date": "tomorrow"},
		})
		require.NoError(t, err)
		require.Len(t, parsed, 2)

		require.NoError(t, parsed[0].Err)
		assert.Equal(t, "Buy milk", parsed[0].Input.Name)
		assert.Equal(t, "Buy milk", parsed[0].Label)
		assert.True(t, parsed[0].Input.Flagged)

		require.NoError(t, parsed[1].Err)
		assert.Equal(t, "Call plumber", parsed[1].Input.Name)
		assert.Equal(t, []string{"home"}, parsed[1].Input.Tags)
		assert.Equal(t, "tomorrow", parsed[1].Input.DueDate)
	})

	t.Run("JSON string form", func(t *testing.T) {
		parsed, err := parseBatchTaskInputs(`[{"name": "Buy milk"}, {"name": "Walk dog", "project": "Home"}]`)
		require.NoError(t, err)
		require.Len(t, parsed, 2)
		require.NoError(t, parsed[1].Err)
		assert.Equal(t, "Home", parsed[1].Input.Project)
	})

	t.Run("missing name recorded on the item", func(t *testing.T) {
		parsed, err := parseBatchTaskInputs([]interface{}{
			map[string]interface{}{"note": "no name here"},
		})
		require.NoError(t, err)
		require.Len(t, parsed, 1)
		require.Error(t, parsed[0].Err)
		assert.Contains(t, parsed[0].Err.Error(), "tasks[0]")
		assert.Equal(t, "tasks[0]", parsed[0].Label)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		parsed, err := parseBatchTaskInputs([]interface{}{
			map[string]interface{}{"name": ""},
		})
		require.NoError(t, err)
		require.Len(t, parsed, 1)
		require.Error(t, parsed[0].Err)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		parsed, err := parseBatchTaskInputs([]interface{}{
			map[string]interface{}{"name": "Buy milk", "priority": 3},
		})
		require.NoError(t, err)
		require.Len(t, parsed, 1)
		require.Error(t, parsed[0].Err)
		assert.Equal(t, "Buy milk", parsed[0].Label)
	})

	t.Run("wrong type rejected", func(t *testing.T) {
		parsed, err := parseBatchTaskInputs([]interface{}{
			map[string]interface{}{"name": "Buy milk", "flagged": "yes"},
		})
		require.NoError(t, err)
		require.Len(t, parsed, 1)
		require.Error(t, parsed[0].Err)
	})

	t.Run("invalid item leaves siblings intact", func(t *testing.T) {
		parsed, err := parseBatchTaskInputs([]interface{}{
			map[string]interface{}{"name": "ok"},
			map[string]interface{}{"name": 42},
			map[string]interface{}{"name": "also ok"},
		})
		require.NoError(t, err)
		require.Len(t, parsed, 3)

		require.NoError(t, parsed[0].Err)
		require.Error(t, parsed[1].Err)
		assert.Contains(t, parsed[1].Err.Error(), "tasks[1]")
		assert.Equal(t, "tasks[1]", parsed[1].Label)
		require.NoError(t, parsed[2].Err)
		assert.Equal(t, "also ok", parsed[2].Input.Name)
	})

	t.Run("nil rejected", func(t *testing.T) {
		_, err := parseBatchTaskInputs(nil)
		require.Error(t, err)
	})

	t.Run("empty array rejected", func(t *testing.T) {
		_, err := parseBatchTaskInputs([]interface{}{})
		require.Error(t, err)
	})

	t.Run("malformed JSON string rejected", func(t *testing.T) {
		_, err := parseBatchTaskInputs(`[{"name": "Buy milk"`)
		require.Error(t, err)
	})
}
