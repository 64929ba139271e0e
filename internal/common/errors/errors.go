package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeConflict   ErrorCode = "CONFLICT"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"

	// Giveaway lifecycle
	ErrCodeGiveawayNotFound ErrorCode = "GIVEAWAY_NOT_FOUND"
	ErrCodeChannelBusy      ErrorCode = "CHANNEL_BUSY"
	ErrCodeChatJoinFailed   ErrorCode = "CHAT_JOIN_FAILED"

	// Orchestrator
	ErrCodeBroadcasterNotFound ErrorCode = "BROADCASTER_NOT_FOUND"
	ErrCodeInvalidSignature    ErrorCode = "INVALID_SIGNATURE"
	ErrCodeStorage             ErrorCode = "STORAGE_ERROR"

	// External calls
	ErrCodeExternalAPI        ErrorCode = "EXTERNAL_API_ERROR"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// AppError is a typed application error carried up to the HTTP edge.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Context   map[string]string      `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsInternal reports whether the error originates in this process or its dependencies.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeStorage ||
		e.Code == ErrCodeExternalAPI ||
		e.Code == ErrCodeServiceUnavailable ||
		e.Code == ErrCodeChatJoinFailed
}

// WithContext adds request context to the error.
func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithDetail adds a detail field to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRequestID stamps the request id.
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// New creates an application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func NewNotFoundError(resource, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// NewGiveawayNotFoundError keeps the message at "not found": the Orchestrator
// and dashboards match on it.
func NewGiveawayNotFoundError(giveawayID string) *AppError {
	return New(ErrCodeGiveawayNotFound, "not found").
		WithDetail("giveaway_id", giveawayID)
}

func NewChannelBusyError(channel string) *AppError {
	return New(ErrCodeChannelBusy, fmt.Sprintf("a giveaway is already open in %s", channel)).
		WithDetail("channel", channel)
}

func NewChatJoinError(channel string, err error) *AppError {
	return Wrap(err, ErrCodeChatJoinFailed, fmt.Sprintf("Failed to join channel: %s", channel)).
		WithDetail("channel", channel)
}

func NewBroadcasterNotFoundError(broadcasterID string) *AppError {
	return New(ErrCodeBroadcasterNotFound, fmt.Sprintf("Broadcaster not registered: %s", broadcasterID)).
		WithDetail("broadcaster_id", broadcasterID)
}

func NewInvalidSignatureError() *AppError {
	return New(ErrCodeInvalidSignature, "Invalid Signature")
}

func NewStorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorage, fmt.Sprintf("Storage operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewExternalAPIError(service string, err error) *AppError {
	return Wrap(err, ErrCodeExternalAPI, fmt.Sprintf("%s request failed", service)).
		WithDetail("service", service)
}

func NewServiceUnavailableError(service string, err error) *AppError {
	return Wrap(err, ErrCodeServiceUnavailable, fmt.Sprintf("%s is offline", service)).
		WithDetail("service", service)
}

// AsAppError unwraps err into an *AppError when one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
