// Package errors provides the error types used across lakedeploy.
// Every failure surfaced to a caller is a *DeployError carrying a stable
// code, a user-facing message, and the wrapped cause.
package errors

import (
	"errors"
	"fmt"
)

// DeployError represents a deployment-related error with a stable code.
type DeployError struct {
	// Code is an error code string for programmatic handling
	Code string
	// Message is a user-friendly error message
	Message string
	// Cause is the underlying error (for error wrapping)
	Cause error
}

// Error implements the error interface.
func (e *DeployError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *DeployError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is to match two DeployErrors by code.
func (e *DeployError) Is(target error) bool {
	if t, ok := target.(*DeployError); ok {
		return e.Code != "" && e.Code == t.Code
	}
	return false
}

// Predefined error codes.
const (
	ErrCodeConfig     = "CONFIG_ERROR"
	ErrCodeDeployment = "DEPLOYMENT_FAILED"
	ErrCodeNotFound   = "RESOURCE_NOT_FOUND"
	ErrCodeState      = "STATE_ERROR"
)

// ErrConfig creates a configuration error. Configuration errors are raised
// before any remote call and are always fatal to the run.
func ErrConfig(message string, cause error) *DeployError {
	return &DeployError{Code: ErrCodeConfig, Message: message, Cause: cause}
}

// ErrDeployment creates a generic deployment failure wrapping a remote error.
func ErrDeployment(message string, cause error) *DeployError {
	return &DeployError{Code: ErrCodeDeployment, Message: message, Cause: cause}
}

// ErrResourceNotFound creates a not-found error for a required AWS resource.
func ErrResourceNotFound(message string, cause error) *DeployError {
	return &DeployError{Code: ErrCodeNotFound, Message: message, Cause: cause}
}

// ErrState creates a state persistence error.
func ErrState(message string, cause error) *DeployError {
	return &DeployError{Code: ErrCodeState, Message: message, Cause: cause}
}

// GetCode extracts the error code from an error.
// Returns empty string if the error is not a DeployError.
func GetCode(err error) string {
	var derr *DeployError
	if errors.As(err, &derr) {
		return derr.Code
	}
	return ""
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	return GetCode(err) == ErrCodeConfig
}
