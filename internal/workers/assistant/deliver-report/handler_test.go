package deliverreport

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appaws "childcare-assistant/internal/common/aws"
	"childcare-assistant/internal/common/config"
	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to []string, subject, text, html string) (string, error) {
	args := m.Called(ctx, to, subject, text, html)
	return args.String(0), args.Error(1)
}

type MockTexter struct {
	mock.Mock
}

func (m *MockTexter) Send(ctx context.Context, phone, message string) (string, error) {
	args := m.Called(ctx, phone, message)
	return args.String(0), args.Error(1)
}

func createTestConfig() *Config {
	return &Config{Enabled: true, Timeout: time.Second, EmailEnabled: true, SMSEnabled: true, SMSMaxLength: 20}
}

func TestNewConfig(t *testing.T) {
	appCfg := &config.Config{Workers: map[string]config.WorkerConfig{
		config.WorkerDeliverReport: {Enabled: true, MaxJobsActive: 2, Timeout: 10000},
	}}
	appCfg.Notifications.Email.Enabled = true

	cfg := NewConfig(appCfg)
	assert.True(t, cfg.EmailEnabled)
	assert.False(t, cfg.SMSEnabled)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestHandler_ExecuteBothChannels(t *testing.T) {
	mailer := &MockMailer{}
	mailer.On("Send", mock.Anything, []string{"director@example.com"}, "Weekly report", "All good.", "").Return("ses-1", nil)
	texter := &MockTexter{}
	texter.On("Send", mock.Anything, "+14155550100", "All good.").Return("sns-1", nil)

	h := NewHandler(createTestConfig(), mailer, texter, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{
		Subject: "Weekly report",
		Body:    "All good.",
		Email:   []string{"director@example.com"},
		Phone:   "+14155550100",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSent, out.Status)
	assert.Equal(t, "ses-1", out.EmailMessageID)
	assert.Equal(t, "sns-1", out.SMSMessageID)
	_, err = uuid.Parse(out.DeliveryID)
	assert.NoError(t, err)
	mailer.AssertExpectations(t)
	texter.AssertExpectations(t)
}

func TestHandler_ExecutePartial(t *testing.T) {
	mailer := &MockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("throttled"))
	texter := &MockTexter{}
	texter.On("Send", mock.Anything, "+14155550100", mock.Anything).Return("sns-2", nil)

	h := NewHandler(createTestConfig(), mailer, texter, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{Body: "report", Email: []string{"a@example.com"}, Phone: "+14155550100"})

	require.NoError(t, err)
	assert.Equal(t, StatusPartial, out.Status)
	assert.Empty(t, out.EmailMessageID)
}

func TestHandler_ExecuteAllChannelsFail(t *testing.T) {
	texter := &MockTexter{}
	texter.On("Send", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("opted out"))

	h := NewHandler(createTestConfig(), nil, texter, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &Input{Body: "report", Phone: "+14155550100"})

	require.Error(t, err)
	std := apperrors.ToStandardError(err)
	assert.Equal(t, apperrors.ErrCodeDeliveryFailed, std.Code)
	assert.Contains(t, std.Details, "opted out")
}

func TestHandler_ExecuteDisabledChannel(t *testing.T) {
	cfg := createTestConfig()
	cfg.EmailEnabled = false

	h := NewHandler(cfg, &MockMailer{}, nil, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &Input{Body: "report", Email: []string{"a@example.com"}})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDeliveryFailed, apperrors.ToStandardError(err).Code)
}

func TestHandler_ExecuteValidation(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{name: "empty body", input: Input{Email: []string{"a@example.com"}}},
		{name: "no recipient", input: Input{Body: "report"}},
		{name: "bad email", input: Input{Body: "report", Email: []string{"not-an-email"}}},
		{name: "bad phone", input: Input{Body: "report", Phone: "555-0100"}},
	}
	h := NewHandler(createTestConfig(), &MockMailer{}, &MockTexter{}, logger.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(context.Background(), &tt.input)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.ToStandardError(err).Code)
		})
	}
}

func TestHandler_SMSTruncation(t *testing.T) {
	texter := &MockTexter{}
	texter.On("Send", mock.Anything, "+14155550100", mock.MatchedBy(func(msg string) bool {
		return len([]rune(msg)) == 20 && strings.HasSuffix(msg, "…")
	})).Return("sns-3", nil)

	h := NewHandler(createTestConfig(), nil, texter, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &Input{Body: strings.Repeat("a", 50), Phone: "+14155550100"})
	require.NoError(t, err)
	texter.AssertExpectations(t)
}

type fakeSES struct {
	input *ses.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	return &ses.SendEmailOutput{MessageId: aws.String("ses-real")}, nil
}

func TestHandler_ExecuteWithSESMailer(t *testing.T) {
	client := &fakeSES{}
	mailer := appaws.NewMailerWithClient(client, "reports@example.com")

	h := NewHandler(createTestConfig(), mailer, nil, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{Body: "report", Email: []string{"a@example.com"}})

	require.NoError(t, err)
	assert.Equal(t, "ses-real", out.EmailMessageID)
	assert.Equal(t, "Childcare report", aws.ToString(client.input.Message.Subject.Data))
	assert.Equal(t, "reports@example.com", aws.ToString(client.input.Source))
}
