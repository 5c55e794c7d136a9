package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportStore(t *testing.T) {
	tempDir := "./test_reports"
	defer os.RemoveAll(tempDir)

	store := NewReportStore(tempDir)

	t.Run("SaveReport creates directory and file", func(t *testing.T) {
		report := map[string]interface{}{
			"run_id":   "run-1",
			"imported": 4,
			"errors":   []string{"cat.jpg: upload failed"},
		}

		filename, err := store.SaveReport(report)
		require.NoError(t, err)
		assert.NotEmpty(t, filename)
		assert.Contains(t, filename, ".json")

		_, err = os.Stat(tempDir)
		assert.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(tempDir, filename))
		require.NoError(t, err)

		var saved map[string]interface{}
		err = json.Unmarshal(content, &saved)
		require.NoError(t, err)

		assert.Equal(t, "run-1", saved["run_id"])
		assert.Equal(t, float64(4), saved["imported"]) // JSON numbers decode as float64
		assert.Equal(t, []interface{}{"cat.jpg: upload failed"}, saved["errors"])
	})

	t.Run("SaveReport generates unique filenames", func(t *testing.T) {
		report := map[string]string{"run_id": "run-2"}

		filename1, err := store.SaveReport(report)
		require.NoError(t, err)

		filename2, err := store.SaveReport(report)
		require.NoError(t, err)

		assert.NotEqual(t, filename1, filename2)
	})
}
