// Package intent turns free-text questions into a models.QueryIntent.
package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"childcare-assistant/internal/ai"
	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/common/metrics"
	"childcare-assistant/internal/common/validation"
	"childcare-assistant/internal/models"
)

// Fallback reasons, used as the metric label.
const (
	ReasonDisabled      = "disabled"
	ReasonProviderError = "provider_error"
	ReasonNoJSON        = "no_json"
	ReasonInvalidJSON   = "invalid_json"
	ReasonSchema        = "schema"
)

var errNoJSON = errors.New("no JSON object in model reply")

// Interpreter asks the language model first and falls back to Classify.
type Interpreter struct {
	provider ai.Provider
	logger   logger.Logger
}

func NewInterpreter(provider ai.Provider, log logger.Logger) *Interpreter {
	if provider == nil {
		provider = ai.Disabled{}
	}
	return &Interpreter{
		provider: provider,
		logger:   log.With(map[string]interface{}{"component": "interpreter"}),
	}
}

// Result carries the intent and whether the rule-based path produced it.
type Result struct {
	Intent   models.QueryIntent
	Fallback bool
	Reason   string
}

// Interpret never fails: any problem with the remote path yields Classify(text).
func (i *Interpreter) Interpret(ctx context.Context, text string) models.QueryIntent {
	return i.InterpretDetailed(ctx, text).Intent
}

func (i *Interpreter) InterpretDetailed(ctx context.Context, text string) Result {
	reply, err := i.provider.Complete(ctx, systemPrompt, text)
	if err != nil {
		reason := ReasonProviderError
		if errors.Is(err, ai.ErrDisabled) {
			reason = ReasonDisabled
		}
		return i.fallback(text, reason, err)
	}

	intent, err := ParseIntent(reply)
	if err != nil {
		reason := ReasonInvalidJSON
		switch {
		case errors.Is(err, errNoJSON):
			reason = ReasonNoJSON
		case errors.Is(err, apperrors.ErrInvalidInput):
			reason = ReasonSchema
		}
		return i.fallback(text, reason, err)
	}

	i.logger.Debug("intent interpreted by model", map[string]interface{}{
		"entity": intent.Entity,
		"type":   intent.Type,
	})
	return Result{Intent: intent}
}

func (i *Interpreter) fallback(text, reason string, cause error) Result {
	metrics.InterpreterFallbacks.WithLabelValues(reason).Inc()

	intent := Classify(text)
	fields := map[string]interface{}{
		"reason": reason,
		"entity": intent.Entity,
		"type":   intent.Type,
	}
	if reason != ReasonDisabled {
		fields["error"] = cause
	}
	i.logger.Info("using rule-based interpreter", fields)

	return Result{Intent: intent, Fallback: true, Reason: reason}
}

// ParseIntent extracts the first balanced JSON object from a model reply and
// validates it as a QueryIntent.
func ParseIntent(reply string) (models.QueryIntent, error) {
	raw := ExtractJSONObject(reply)
	if raw == "" {
		return models.QueryIntent{}, errNoJSON
	}

	var intent models.QueryIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return models.QueryIntent{}, apperrors.NewParseError("model", err)
	}

	intent = intent.Normalize()
	if res := validation.ValidateIntent(intent); !res.Valid {
		return models.QueryIntent{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, strings.Join(res.GetErrorMessages(), "; "))
	}
	return intent, nil
}

// ExtractJSONObject returns the first brace-delimited object in content,
// skipping braces inside string literals. It returns "" when none is closed.
func ExtractJSONObject(content string) string {
	first := -1
	depth := 0
	inString := false
	escapeNext := false

	for i, ch := range content {
		if escapeNext {
			escapeNext = false
			continue
		}
		if ch == '\\' && inString {
			escapeNext = true
			continue
		}
		if ch == '"' && first != -1 {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch ch {
		case '{':
			if first == -1 {
				first = i
			}
			depth++
		case '}':
			if first == -1 {
				continue
			}
			depth--
			if depth == 0 {
				return content[first : i+1]
			}
		}
	}
	return ""
}
