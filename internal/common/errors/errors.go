// Package errors provides the assistant's error taxonomy and its mapping to BPMN errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Error Taxonomy
// ==========================

// Sentinel errors. Match with errors.Is.
var (
	ErrNetwork           = stderrors.New("NETWORK_ERROR")
	ErrParse             = stderrors.New("PARSE_ERROR")
	ErrUnsupportedEntity = stderrors.New("UNSUPPORTED_ENTITY")
	ErrInvalidInput      = stderrors.New("INVALID_INPUT")
	ErrDeliveryFailed    = stderrors.New("DELIVERY_FAILED")
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeNetwork           ErrorCode = "NETWORK_ERROR"
	ErrCodeParse             ErrorCode = "PARSE_ERROR"
	ErrCodeUnsupportedEntity ErrorCode = "UNSUPPORTED_ENTITY"
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrCodeDeliveryFailed    ErrorCode = "DELIVERY_FAILED"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// FetchError is returned when a gateway call fails. Cause is one of
// ErrNetwork or ErrParse.
type FetchError struct {
	Resource   string
	StatusCode int
	Cause      error
	Err        error
}

func (e *FetchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fetch %s: %s", e.Resource, e.Cause)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Cause}
	}
	return []error{e.Cause, e.Err}
}

// NewNetworkError reports a non-2xx status (statusCode > 0) or a
// connectivity failure (err != nil).
func NewNetworkError(resource string, statusCode int, err error) *FetchError {
	return &FetchError{Resource: resource, StatusCode: statusCode, Cause: ErrNetwork, Err: err}
}

func NewParseError(resource string, err error) *FetchError {
	return &FetchError{Resource: resource, Cause: ErrParse, Err: err}
}

// UnsupportedEntityError is returned for entities outside the dispatch table.
type UnsupportedEntityError struct {
	Entity string
}

func (e *UnsupportedEntityError) Error() string {
	return fmt.Sprintf("unsupported entity %q", e.Entity)
}

func (e *UnsupportedEntityError) Unwrap() error { return ErrUnsupportedEntity }

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Job variables could not be decoded",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewDeliveryFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeliveryFailed,
		Message:   "Report delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ToStandardError classifies any error into a StandardError.
func ToStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	out := &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}

	switch {
	case stderrors.Is(err, ErrNetwork):
		out.Code = ErrCodeNetwork
		out.Message = "Gateway request failed"
	case stderrors.Is(err, ErrParse):
		out.Code = ErrCodeParse
		out.Message = "Gateway response could not be parsed"
	case stderrors.Is(err, ErrUnsupportedEntity):
		out.Code = ErrCodeUnsupportedEntity
		out.Message = "Entity is not supported"
	case stderrors.Is(err, ErrInvalidInput):
		out.Code = ErrCodeInvalidInput
		out.Message = "Invalid job input"
	case stderrors.Is(err, ErrDeliveryFailed):
		out.Code = ErrCodeDeliveryFailed
		out.Message = "Report delivery failed"
	}

	var fetchErr *FetchError
	if stderrors.As(err, &fetchErr) {
		out.Metadata = map[string]interface{}{
			"resource":   fetchErr.Resource,
			"statusCode": fetchErr.StatusCode,
		}
	}

	return out
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the engine retry budget for a code. The assistant
// pipeline never retries on its own, so every code maps to zero.
func GetRetryCount(code ErrorCode) int {
	return 0
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeNetwork, ErrCodeParse:
		return "GATEWAY"
	case ErrCodeUnsupportedEntity, ErrCodeInvalidInput:
		return "VALIDATION"
	case ErrCodeDeliveryFailed:
		return "NOTIFICATION"
	default:
		return "INTERNAL"
	}
}
