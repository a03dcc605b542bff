package services_test

import (
	"errors"
	"strings"
	"testing"

	"collator/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrWriteConflict, "write", "commit", "record exists", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrWriteConflict) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"write", "commit", "record exists"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrGridMismatch, "assemble", "", "wall has 3 rows", nil)
	if !errors.Is(err, services.ErrGridMismatch) {
		t.Fatalf("expected grid mismatch marker, got %v", err)
	}
	if got := err.Error(); got != "grid mismatch: assemble: wall has 3 rows" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestJobFatalClassification(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		fatal bool
		kind  string
	}{
		{"nil", nil, false, ""},
		{"config", services.Wrap(services.ErrConfigInvariant, "parse", "", "EPS", nil), true, "config_invariant"},
		{"grid", services.Wrap(services.ErrGridMismatch, "assemble", "", "", nil), true, "grid_mismatch"},
		{"conflict", services.Wrap(services.ErrWriteConflict, "write", "", "", nil), true, "write_conflict"},
		{"missing", services.Wrap(services.ErrMissingFile, "discover", "", "wall", nil), false, "missing_file"},
		{"dependency", services.Wrap(services.ErrDependency, "correct", "", "", nil), false, "dependency"},
		{"other", errors.New("disk full"), false, "io"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.JobFatal(tc.err); got != tc.fatal {
				t.Fatalf("JobFatal = %v, want %v", got, tc.fatal)
			}
			if got := services.Kind(tc.err); got != tc.kind {
				t.Fatalf("Kind = %q, want %q", got, tc.kind)
			}
		})
	}
}
