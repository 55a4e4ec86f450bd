package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// StorageFailure indicates the underlying store rejected an operation
	StorageFailure ErrorCode = "STORAGE_FAILURE"
	// MigrationFailed indicates the schema could not be brought up to date
	MigrationFailed ErrorCode = "MIGRATION_FAILED"
	// InvalidProgramLinks indicates a weapon upsert referenced an unknown program
	InvalidProgramLinks ErrorCode = "INVALID_PROGRAM_LINKS"
	// BackupSourceMissing indicates the live database file does not exist
	BackupSourceMissing ErrorCode = "BACKUP_SOURCE_MISSING"
	// NoBackupsFound indicates the backup directory holds no artifacts
	NoBackupsFound ErrorCode = "NO_BACKUPS_FOUND"
	// BackupNotFound indicates the selected backup artifact does not exist
	BackupNotFound ErrorCode = "BACKUP_NOT_FOUND"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// ArmoryError represents an armory error with a stable code and message
type ArmoryError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new ArmoryError
func New(code ErrorCode, message string, cause error) *ArmoryError {
	return &ArmoryError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *ArmoryError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ArmoryError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *ArmoryError) WithDetails(details interface{}) *ArmoryError {
	e.Details = details
	return e
}

// CodeOf extracts the error code from err, or InternalError when err carries none.
func CodeOf(err error) ErrorCode {
	var ae *ArmoryError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return InternalError
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
