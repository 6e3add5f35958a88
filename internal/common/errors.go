package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Analysis error taxonomy. EngineUnavailable is non-fatal (one OCR backend
// missing, logged and excluded from scoring); everything else aborts the call.
var (
	ErrEngineUnavailable = errors.New("ocr engine unavailable")
	ErrNoTextExtracted   = errors.New("no engine produced usable text")
	ErrAmountNotFound    = errors.New("no amount pattern matched")
	ErrMalformedReply    = errors.New("model reply is not a JSON object")
	ErrSchemaViolation   = errors.New("model reply violates the field schema")
	ErrInvalidAmount     = errors.New("model reply amount out of range")
	ErrTransport         = errors.New("model transport error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
