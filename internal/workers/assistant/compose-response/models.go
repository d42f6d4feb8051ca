// internal/workers/assistant/compose-response/models.go
package composeresponse

import "childcare-assistant/internal/models"

type Input struct {
	Question string             `json:"question"`
	Intent   models.QueryIntent `json:"intent"`
	Result   *models.DataResult `json:"result"`
}

type Output struct {
	Response string `json:"response"`
}
