// pkg/registry/schema.go
package registry

import (
	"time"

	apperrors "childcare-assistant/internal/common/errors"
)

// ActivityRegistry describes every job type the worker manager serves.
type ActivityRegistry struct {
	Version    string     `json:"version"`
	Activities []Activity `json:"activities"`
}

// Activity is one Zeebe task type. Input and Output are JSON schemas of
// the job variables it reads and writes.
type Activity struct {
	TaskType    string                 `json:"taskType"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Process     string                 `json:"process"` // BPMN process id
	Timeout     string                 `json:"timeout"`
	ErrorCodes  []apperrors.ErrorCode  `json:"errorCodes"`
	Input       map[string]interface{} `json:"input"`
	Output      map[string]interface{} `json:"output"`
}

// TimeoutDuration parses Timeout; an empty timeout is zero.
func (a *Activity) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(a.Timeout)
}

// bpmnErrorCodes are the codes a worker may throw.
var bpmnErrorCodes = map[apperrors.ErrorCode]bool{
	apperrors.ErrCodeNetwork:           true,
	apperrors.ErrCodeParse:             true,
	apperrors.ErrCodeUnsupportedEntity: true,
	apperrors.ErrCodeInvalidInput:      true,
	apperrors.ErrCodeDeliveryFailed:    true,
	apperrors.ErrCodeInternal:          true,
}
