package testsupport

import (
	"testing"

	"collator/internal/config"
	"collator/internal/ledger"
)

// MustOpenLedger opens the ledger configured by cfg and closes it on cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}
