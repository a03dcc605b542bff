package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfigInvariant marks a job-configuration file that breaks an expected
	// convention (missing marker, zero or several active menu entries).
	ErrConfigInvariant = errors.New("config invariant violation")
	// ErrMissingFile marks an input artifact that could not be located.
	ErrMissingFile = errors.New("missing file")
	// ErrEmptyFile marks an input artifact that exists but holds no data.
	ErrEmptyFile = errors.New("empty file")
	// ErrDependency marks extinction requested without its disk input.
	ErrDependency = errors.New("dependency error")
	// ErrGridMismatch marks components whose row counts disagree.
	ErrGridMismatch = errors.New("grid mismatch")
	// ErrWriteConflict marks an existing record that may not be overwritten.
	ErrWriteConflict = errors.New("write conflict")
	// ErrNotFound marks an auditor query for a record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyCorrected marks a second extinction pass over the same table.
	ErrAlreadyCorrected = errors.New("extinction already applied")
	// ErrFinalized marks a mutation attempted on a finalized table.
	ErrFinalized = errors.New("table finalized")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		if err == nil {
			return errors.New(detail)
		}
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// JobFatal reports whether err belongs to the classes that abort a single job.
// Everything else is absorbed into the job's failure flag.
func JobFatal(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrConfigInvariant),
		errors.Is(err, ErrGridMismatch),
		errors.Is(err, ErrWriteConflict):
		return true
	default:
		return false
	}
}

// Kind returns a short machine-readable classification for err, used by the
// batch ledger.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfigInvariant):
		return "config_invariant"
	case errors.Is(err, ErrGridMismatch):
		return "grid_mismatch"
	case errors.Is(err, ErrWriteConflict):
		return "write_conflict"
	case errors.Is(err, ErrMissingFile):
		return "missing_file"
	case errors.Is(err, ErrEmptyFile):
		return "empty_file"
	case errors.Is(err, ErrDependency):
		return "dependency"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "io"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "collation failure"
	}
	return strings.Join(parts, ": ")
}
