package validation

import "childcare-assistant/internal/models"

// IntentSchema accepts a normalized models.QueryIntent.
var IntentSchema = MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []string{"entity", "type"},
	"properties": map[string]interface{}{
		"entity":      map[string]interface{}{"type": "string", "enum": enumOf(models.Entities)},
		"type":        map[string]interface{}{"type": "string", "enum": enumOf(models.QueryTypes)},
		"filters":     map[string]interface{}{"type": []string{"object", "null"}},
		"timeframe":   map[string]interface{}{"type": "string", "enum": append(enumOf(models.Timeframes), "")},
		"aggregation": map[string]interface{}{"type": "string", "enum": append(enumOf(models.Aggregations), "")},
	},
})

// ValidateIntent validates a normalized intent.
func ValidateIntent(intent models.QueryIntent) *ValidationResult {
	return IntentSchema.Validate(intent)
}

func enumOf[T ~string](values []T) []interface{} {
	out := make([]interface{}, 0, len(values)+1)
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}
