package translatetext

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/translation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) TranslateBatch(ctx context.Context, texts []string, target, source string) ([]string, error) {
	args := m.Called(ctx, texts, target, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newHandler(t *testing.T, tr Translator) *Handler {
	return NewHandler(&Config{Enabled: true, Timeout: time.Second}, tr, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tr := &MockTranslator{}
	tr.On("TranslateBatch", mock.Anything, []string{"Hello", "Goodbye"}, "es", "").
		Return([]string{"Hola", "Adiós"}, nil)

	out, err := newHandler(t, tr).Execute(context.Background(), &Input{Texts: []string{"Hello", "Goodbye"}, TargetLang: "es"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hola", "Adiós"}, out.Translations)
	tr.AssertExpectations(t)
}

func TestHandler_ExecuteSingleText(t *testing.T) {
	tr := &MockTranslator{}
	tr.On("TranslateBatch", mock.Anything, []string{"Hello"}, "fr", "en").Return([]string{"Bonjour"}, nil)

	out, err := newHandler(t, tr).Execute(context.Background(), &Input{Text: "Hello", TargetLang: "fr", SourceLang: "en"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bonjour"}, out.Translations)
}

func TestHandler_ExecuteValidation(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{name: "no texts", input: Input{TargetLang: "fr"}},
		{name: "no target", input: Input{Texts: []string{"hi"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newHandler(t, &MockTranslator{}).Execute(context.Background(), &tt.input)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.ToStandardError(err).Code)
		})
	}
}

func TestHandler_ExecuteWithService(t *testing.T) {
	log := logger.NewTestLogger(t)
	svc := translation.NewService(translation.StaticProvider{}, translation.NewCache(time.Hour, nil, log), log)

	_, err := newHandler(t, svc).Execute(context.Background(), &Input{Texts: []string{"hi"}, TargetLang: "not a language"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	out, err := newHandler(t, svc).Execute(context.Background(), &Input{Texts: []string{"hi"}, TargetLang: "de"})
	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, out.Translations)
}

func TestHandler_ExecuteProviderError(t *testing.T) {
	tr := &MockTranslator{}
	tr.On("TranslateBatch", mock.Anything, mock.Anything, "de", "").Return(nil, errors.New("quota exceeded"))

	_, err := newHandler(t, tr).Execute(context.Background(), &Input{Texts: []string{"hi"}, TargetLang: "de"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.ToStandardError(err).Code)
}
