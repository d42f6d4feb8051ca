// internal/workers/assistant/translate-text/models.go
package translatetext

type Input struct {
	Texts      []string `json:"texts"`
	Text       string   `json:"text,omitempty"`
	TargetLang string   `json:"targetLang"`
	SourceLang string   `json:"sourceLang,omitempty"`
}

type Output struct {
	Translations []string `json:"translations"`
	TargetLang   string   `json:"targetLang"`
}
