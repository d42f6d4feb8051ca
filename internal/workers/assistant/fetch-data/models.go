// internal/workers/assistant/fetch-data/models.go
package fetchdata

import "childcare-assistant/internal/models"

type Input struct {
	Intent models.QueryIntent `json:"intent"`
}

type Output struct {
	Result models.DataResult `json:"result"`
}
