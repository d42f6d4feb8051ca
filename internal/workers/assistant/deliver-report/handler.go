// internal/workers/assistant/deliver-report/handler.go
package deliverreport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/common/metrics"
	"childcare-assistant/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "deliver-report"

// Mailer is satisfied by *aws.Mailer.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, text, html string) (string, error)
}

// Texter is satisfied by *aws.Texter.
type Texter interface {
	Send(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config       *Config
	mailer       Mailer
	texter       Texter
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler accepts nil channels; a disabled or missing channel fails
// the job only when the input asks for it.
func NewHandler(config *Config, mailer Mailer, texter Texter, log logger.Logger) *Handler {
	log = log.With(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		mailer:       mailer,
		texter:       texter,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := parseInput(job)
	if err == nil {
		var output *Output
		output, err = h.Execute(ctx, input)
		if err == nil {
			h.completeJob(ctx, client, job, output)
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
			return
		}
	}

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.ToStandardError(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

// Execute sends the report on every requested channel. One failed channel
// yields status "partial"; the job fails only when nothing was delivered.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := h.validate(input); err != nil {
		return nil, err
	}

	out := &Output{DeliveryID: uuid.New().String()}
	var failures []error
	attempted := 0

	if len(input.Email) > 0 {
		attempted++
		id, err := h.sendEmail(ctx, input)
		if err != nil {
			failures = append(failures, err)
		}
		out.EmailMessageID = id
	}

	if input.Phone != "" {
		attempted++
		id, err := h.sendSMS(ctx, input)
		if err != nil {
			failures = append(failures, err)
		}
		out.SMSMessageID = id
	}

	if len(failures) == attempted {
		return nil, failures[0]
	}

	out.Status = StatusSent
	if len(failures) > 0 {
		out.Status = StatusPartial
		for _, err := range failures {
			h.logger.Warn("report channel failed", map[string]interface{}{"error": err.Error()})
		}
	}
	out.SentAt = time.Now().UTC().Format(time.RFC3339)

	h.logger.Info("report delivered", map[string]interface{}{
		"deliveryId": out.DeliveryID,
		"status":     out.Status,
	})
	return out, nil
}

func (h *Handler) validate(input *Input) error {
	if strings.TrimSpace(input.Body) == "" {
		return apperrors.NewInvalidInputError("body is required")
	}
	if len(input.Email) == 0 && input.Phone == "" {
		return apperrors.NewInvalidInputError("at least one of email or phone is required")
	}
	for _, addr := range input.Email {
		if !validation.ValidateEmail(addr) {
			return apperrors.NewInvalidInputError(fmt.Sprintf("invalid email address: %s", addr))
		}
	}
	if input.Phone != "" && !validation.ValidatePhone(input.Phone) {
		return apperrors.NewInvalidInputError(fmt.Sprintf("invalid phone number: %s", input.Phone))
	}
	return nil
}

func (h *Handler) sendEmail(ctx context.Context, input *Input) (string, error) {
	if !h.config.EmailEnabled || h.mailer == nil {
		return "", apperrors.NewDeliveryFailedError("email", fmt.Errorf("email delivery is disabled"))
	}
	subject := input.Subject
	if subject == "" {
		subject = "Childcare report"
	}
	id, err := h.mailer.Send(ctx, input.Email, subject, input.Body, input.HTML)
	if err != nil {
		return "", apperrors.NewDeliveryFailedError("email", err)
	}
	return id, nil
}

func (h *Handler) sendSMS(ctx context.Context, input *Input) (string, error) {
	if !h.config.SMSEnabled || h.texter == nil {
		return "", apperrors.NewDeliveryFailedError("sms", fmt.Errorf("sms delivery is disabled"))
	}
	msg := input.Body
	if h.config.SMSMaxLength > 0 {
		if r := []rune(msg); len(r) > h.config.SMSMaxLength {
			msg = string(r[:h.config.SMSMaxLength-1]) + "…"
		}
	}
	id, err := h.texter.Send(ctx, input.Phone, msg)
	if err != nil {
		return "", apperrors.NewDeliveryFailedError("sms", err)
	}
	return id, nil
}

func parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("parse variables: %v", err))
	}
	return &input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	h.logger.Info("job completed", map[string]interface{}{"jobKey": job.Key})
}
