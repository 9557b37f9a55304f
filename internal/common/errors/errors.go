// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeParseError   ErrorCode = "PARSE_ERROR"

	ErrCodeSurveyExtractionFailed ErrorCode = "SURVEY_EXTRACTION_FAILED"

	ErrCodeNoDestination         ErrorCode = "NO_DESTINATION"
	ErrCodeAllDestinationsFailed ErrorCode = "ALL_DESTINATIONS_FAILED"
	ErrCodeStorageInsertFailed   ErrorCode = "STORAGE_INSERT_FAILED"

	ErrCodeAutoSaveEnqueueFailed ErrorCode = "AUTOSAVE_ENQUEUE_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeTimeout                  ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal                 ErrorCode = "INTERNAL_ERROR"
)

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

// WithMetadata attaches a key to the error's metadata and returns e.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
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

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Job variables failed validation", details, false)
}

// NewParseError creates a non-retryable error for undecodable job variables.
func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Failed to parse job variables", err.Error(), false)
}

// NewSurveyExtractionFailedError is raised when no question could be recovered.
func NewSurveyExtractionFailedError(details string) *StandardError {
	return newError(ErrCodeSurveyExtractionFailed, "Could not parse survey questions", details, false)
}

// NewNoDestinationError is raised when no destination schema accepts a record.
func NewNoDestinationError(err error) *StandardError {
	return newError(ErrCodeNoDestination, "No destination matches the record", err.Error(), false)
}

// NewAllDestinationsFailedError is retryable: storage may recover.
func NewAllDestinationsFailedError(err error, destinations []string) *StandardError {
	e := newError(ErrCodeAllDestinationsFailed, "Record could not be stored in any destination", err.Error(), true)
	return e.WithMetadata("destinations", destinations)
}

// NewStorageInsertFailedError creates a retryable storage error.
func NewStorageInsertFailedError(err error) *StandardError {
	return newError(ErrCodeStorageInsertFailed, "Storage insert failed", err.Error(), true)
}

// NewAutoSaveEnqueueFailedError creates a retryable queue error.
func NewAutoSaveEnqueueFailedError(err error) *StandardError {
	return newError(ErrCodeAutoSaveEnqueueFailed, "Failed to enqueue auto-save job", err.Error(), true)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:             "INVALID_INPUT",
	ErrCodeParseError:               "PARSE_ERROR",
	ErrCodeSurveyExtractionFailed:   "SURVEY_EXTRACTION_FAILED",
	ErrCodeNoDestination:            "NO_DESTINATION",
	ErrCodeAllDestinationsFailed:    "ALL_DESTINATIONS_FAILED",
	ErrCodeStorageInsertFailed:      "STORAGE_INSERT_FAILED",
	ErrCodeAutoSaveEnqueueFailed:    "AUTOSAVE_ENQUEUE_FAILED",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeTimeout:                  "TIMEOUT_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStorageInsertFailed,
		ErrCodeAutoSaveEnqueueFailed,
		ErrCodeDatabaseConnectionFailed:
		return 3

	case ErrCodeAllDestinationsFailed,
		ErrCodeTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

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
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DESTINATION") || strings.Contains(codeStr, "STORAGE"):
		return "ROUTING"
	case strings.Contains(codeStr, "AUTOSAVE"):
		return "QUEUE"
	case strings.Contains(codeStr, "EXTRACTION") || strings.Contains(codeStr, "PARSE"):
		return "EXTRACTION"
	case strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	default:
		return "OTHER"
	}
}
