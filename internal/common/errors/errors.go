// Package errors provides standardized error handling for the chat core.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Recovery pipeline. Both degrade inside the pipeline and are logged,
	// never surfaced; there is no constructor for them.
	ErrCodeExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	ErrCodeParseFailed      ErrorCode = "PARSE_FAILED"

	// Agent invocation. The only codes a caller can observe, and even those
	// only as user notices inside a valid structured answer.
	ErrCodeAgentInvocationFailed ErrorCode = "AGENT_INVOCATION_FAILED"
	ErrCodeAgentTimeout          ErrorCode = "AGENT_TIMEOUT"
	ErrCodeAgentUnavailable      ErrorCode = "AGENT_UNAVAILABLE"

	// Guardrail interception.
	ErrCodeGuardrailBlocked ErrorCode = "GUARDRAIL_BLOCKED"

	// Session storage.
	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"
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

// AsStandard extracts a *StandardError from err, wrapping unknown errors as
// a non-retryable INTERNAL_ERROR so callers always get a coded error.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewAgentInvocationFailedError creates a retryable invocation error. Retry
// ownership sits with the invocation client, never with the orchestrator.
func NewAgentInvocationFailedError(agent string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentInvocationFailed,
		Message:   "Agent invocation failed",
		Details:   fmt.Sprintf("agent: %s, error: %s", agent, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"agent": agent},
		Timestamp: time.Now().UTC(),
	}
}

// NewAgentTimeoutError creates an invocation timeout error. Treated exactly
// like an invocation failure by the orchestrator.
func NewAgentTimeoutError(agent string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentTimeout,
		Message:   "Agent invocation timed out",
		Details:   fmt.Sprintf("agent: %s", agent),
		Retryable: true,
		Metadata:  map[string]interface{}{"agent": agent},
		Timestamp: time.Now().UTC(),
	}
}

// NewAgentUnavailableError creates a non-retryable error for agents missing
// from the registry.
func NewAgentUnavailableError(agent string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAgentUnavailable,
		Message:   "No invocation target registered for agent",
		Details:   fmt.Sprintf("agent: %s", agent),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable lookup error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreFailedError creates a retryable storage error.
func NewSessionStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session storage operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsInvocationError reports whether err is one of the codes the orchestrator
// must surface as a user-facing notice.
func IsInvocationError(err error) bool {
	stdErr := AsStandard(err)
	switch stdErr.Code {
	case ErrCodeAgentInvocationFailed, ErrCodeAgentTimeout, ErrCodeAgentUnavailable:
		return true
	}
	return false
}

// NoticeTag returns the machine-readable tag placed in a structured answer's
// user notices when an error is surfaced.
func NoticeTag(err error) string {
	return "error:" + string(AsStandard(err).Code)
}
