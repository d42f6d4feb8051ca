package intent

import (
	"fmt"
	"strings"

	"childcare-assistant/internal/models"
)

var systemPrompt = buildSystemPrompt()

func buildSystemPrompt() string {
	return fmt.Sprintf(`You classify questions asked in a childcare centre management dashboard.

Return ONLY a JSON object with this shape and no other text:
{"entity": "...", "type": "...", "filters": {...}, "timeframe": "...", "aggregation": "..."}

- entity (required): one of %s
- type (required): one of %s
- timeframe (optional): one of %s
- aggregation (optional): one of %s
- filters (optional): flat object of field to value, for example {"status": "unpaid"} or {"onDuty": true}

Omit optional fields that the question does not mention.`,
		join(models.Entities), join(models.QueryTypes), join(models.Timeframes), join(models.Aggregations))
}

func join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
