package registry

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"childcare-assistant/internal/common/config"
	apperrors "childcare-assistant/internal/common/errors"
)

func loadShipped(t *testing.T) *ActivityRegistry {
	t.Helper()
	reg, err := LoadRegistry(filepath.Join("..", "..", DefaultPath))
	require.NoError(t, err)
	return reg
}

func TestShippedRegistry_CoversEveryWorker(t *testing.T) {
	reg := loadShipped(t)

	assert.Empty(t, reg.Validate())

	want := append([]string(nil), config.WorkerNames...)
	sort.Strings(want)
	assert.Equal(t, want, reg.TaskTypes())
	assert.Empty(t, reg.Missing(config.WorkerNames))
	assert.Equal(t, []string{"unknown-task"}, reg.Missing([]string{"fetch-data", "unknown-task"}))
}

func TestActivity_ValidateInput(t *testing.T) {
	reg := loadShipped(t)

	tests := []struct {
		name      string
		taskType  string
		variables map[string]interface{}
		valid     bool
	}{
		{
			name:      "question present",
			taskType:  "interpret-query",
			variables: map[string]interface{}{"question": "How many children?", "userId": "u1"},
			valid:     true,
		},
		{
			name:      "empty question",
			taskType:  "interpret-query",
			variables: map[string]interface{}{"question": ""},
		},
		{
			name:     "intent without type",
			taskType: "fetch-data",
			variables: map[string]interface{}{
				"intent": map[string]interface{}{"entity": "children"},
			},
		},
		{
			name:      "translate with single text",
			taskType:  "translate-text",
			variables: map[string]interface{}{"text": "hello", "targetLang": "es"},
			valid:     true,
		},
		{
			name:      "report without body",
			taskType:  "deliver-report",
			variables: map[string]interface{}{"email": []string{"a@b.co"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity, ok := reg.Find(tt.taskType)
			require.True(t, ok)

			result, err := activity.ValidateInput(tt.variables)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid, result.GetErrorMessages())
		})
	}
}

func TestActivity_ValidateOutput(t *testing.T) {
	reg := loadShipped(t)
	activity, ok := reg.Find("deliver-report")
	require.True(t, ok)

	result, err := activity.ValidateOutput(map[string]interface{}{
		"deliveryId": "d1", "status": "queued", "sentAt": "2026-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidate_ReportsBrokenEntries(t *testing.T) {
	reg := &ActivityRegistry{Activities: []Activity{
		{TaskType: "a", Timeout: "ten seconds"},
		{TaskType: "a"},
		{Name: "nameless"},
		{TaskType: "c", Input: map[string]interface{}{"type": 12}},
		{TaskType: "d", ErrorCodes: []apperrors.ErrorCode{apperrors.ErrCodeNetwork, "TEAPOT"}},
	}}

	errs := reg.Validate()
	assert.Len(t, errs, 5)
}

func TestActivity_TimeoutDuration(t *testing.T) {
	reg := loadShipped(t)
	for _, a := range reg.Activities {
		d, err := a.TimeoutDuration()
		require.NoError(t, err, a.TaskType)
		assert.Positive(t, d, a.TaskType)
	}

	empty := Activity{}
	d, err := empty.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadRegistry(path)
	assert.Error(t, err)
}
