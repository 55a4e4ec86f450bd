package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(BackupNotFound, "backup missing", nil)
	msg := err.Error()
	if !strings.Contains(msg, "BACKUP_NOT_FOUND") || !strings.Contains(msg, "backup missing") {
		t.Errorf("Unexpected error message: %q", msg)
	}

	cause := errors.New("boom")
	wrapped := New(StorageFailure, "write failed", cause)
	if !strings.Contains(wrapped.Error(), "boom") {
		t.Errorf("Expected cause in message, got %q", wrapped.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := New(StorageFailure, "write failed", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(NoBackupsFound, "none", nil)); got != NoBackupsFound {
		t.Errorf("Expected NO_BACKUPS_FOUND, got %s", got)
	}

	// Codes survive fmt wrapping
	wrapped := fmt.Errorf("outer: %w", New(MigrationFailed, "bad schema", nil))
	if got := CodeOf(wrapped); got != MigrationFailed {
		t.Errorf("Expected MIGRATION_FAILED through wrapping, got %s", got)
	}

	if got := CodeOf(errors.New("plain")); got != InternalError {
		t.Errorf("Expected INTERNAL_ERROR for plain error, got %s", got)
	}
}

func TestHasCode(t *testing.T) {
	err := New(BackupSourceMissing, "no file", nil)

	if !HasCode(err, BackupSourceMissing) {
		t.Error("Expected HasCode to match")
	}
	if HasCode(err, NoBackupsFound) {
		t.Error("Expected HasCode to reject a different code")
	}
	if HasCode(nil, BackupSourceMissing) {
		t.Error("Expected HasCode to reject nil")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(InvalidProgramLinks, "unknown program", nil).
		WithDetails(map[string]string{"programId": "p9"})

	details, ok := err.Details.(map[string]string)
	if !ok || details["programId"] != "p9" {
		t.Errorf("Unexpected details: %+v", err.Details)
	}
}
