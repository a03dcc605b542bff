package preflight

import (
	"fmt"
	"path/filepath"
	"strings"

	"collator/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckReadableDirectory("Model directory", cfg.Paths.ModelDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
	}
	if cfg.Batch.Ledger {
		results = append(results, CheckDirectoryAccess("Ledger directory", filepath.Dir(cfg.Paths.LedgerPath)))
	}
	if cfg.Logging.File {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	return results
}

// FirstFailure returns an error naming every failed result, or nil.
func FirstFailure(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(failed, "; "))
}
