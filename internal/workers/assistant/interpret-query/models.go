// internal/workers/assistant/interpret-query/models.go
package interpretquery

import "childcare-assistant/internal/models"

type Input struct {
	Question string `json:"question"`
	UserID   string `json:"userId,omitempty"`
}

type Output struct {
	Intent   models.QueryIntent `json:"intent"`
	Fallback bool               `json:"intentFallback"`
}
