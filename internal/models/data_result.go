// internal/models/data_result.go
package models

import "time"

// DataResult is what the aggregation layer hands to the composer.
type DataResult struct {
	Data     interface{}    `json:"data"`
	Count    *int           `json:"count,omitempty"`
	Metadata ResultMetadata `json:"metadata"`
}

type ResultMetadata struct {
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// NewDataResult stamps the metadata with the completion time.
func NewDataResult(source string, data interface{}, count *int, completedAt time.Time) DataResult {
	return DataResult{
		Data:  data,
		Count: count,
		Metadata: ResultMetadata{
			Source:    source,
			Timestamp: completedAt.UTC().Format(time.RFC3339),
		},
	}
}

// IsEmpty reports whether the result carries no usable data.
func (r DataResult) IsEmpty() bool {
	switch v := r.Data.(type) {
	case nil:
		return true
	case []interface{}:
		return len(v) == 0
	case []map[string]interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	case string:
		return v == ""
	}
	return false
}

// IntPtr is a small helper for optional counts.
func IntPtr(v int) *int {
	return &v
}
