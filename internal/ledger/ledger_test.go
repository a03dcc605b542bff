package ledger_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"collator/internal/failures"
	"collator/internal/ledger"
	"collator/internal/testsupport"
)

func TestRecordAndListBatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	l := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []ledger.Entry{
		{BatchID: "b1", Object: "HD1", JobID: "002", Status: ledger.StatusDegraded,
			Reasons: []failures.Reason{failures.MissingDisk, failures.MissingWall}, OutputPath: "/out/HD1_002.fits",
			StartedAt: start, FinishedAt: start.Add(2 * time.Second)},
		{BatchID: "b1", Object: "HD1", JobID: "001", Status: ledger.StatusOK, Checksum: "abc",
			StartedAt: start, FinishedAt: start.Add(time.Second)},
		{BatchID: "b2", Object: "HD1", JobID: "001", Status: ledger.StatusFatal,
			ErrorKind: "config_invariant", Error: "boom"},
	}
	for _, e := range entries {
		if _, err := l.Record(ctx, e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := l.ListBatch(ctx, "b1")
	if err != nil {
		t.Fatalf("ListBatch failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].JobID != "001" || got[1].JobID != "002" {
		t.Fatalf("entries not ordered by job id: %s, %s", got[0].JobID, got[1].JobID)
	}
	if diff := cmp.Diff(entries[0].Reasons, got[1].Reasons); diff != "" {
		t.Fatalf("reasons mismatch (-want +got):\n%s", diff)
	}
	if got[1].Duration() != 2*time.Second {
		t.Fatalf("unexpected duration %s", got[1].Duration())
	}

	latest, err := l.LatestBatch(ctx)
	if err != nil {
		t.Fatalf("LatestBatch failed: %v", err)
	}
	if latest != "b2" {
		t.Fatalf("expected latest batch b2, got %q", latest)
	}
}

func TestLatestBatchEmpty(t *testing.T) {
	l := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	latest, err := l.LatestBatch(context.Background())
	if err != nil {
		t.Fatalf("LatestBatch failed: %v", err)
	}
	if latest != "" {
		t.Fatalf("expected empty batch id, got %q", latest)
	}
}

func TestRecordValidates(t *testing.T) {
	l := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if _, err := l.Record(ctx, ledger.Entry{Status: ledger.StatusOK}); err == nil {
		t.Fatal("expected error without batch id")
	}
	if _, err := l.Record(ctx, ledger.Entry{BatchID: "b", Status: "weird"}); err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestHistoryFilters(t *testing.T) {
	l := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()
	for i, status := range []ledger.Status{ledger.StatusOK, ledger.StatusFatal, ledger.StatusOK, ledger.StatusDegraded} {
		object := "HD1"
		if i%2 == 1 {
			object = "HD2"
		}
		if _, err := l.Record(ctx, ledger.Entry{BatchID: "b", Object: object, JobID: "00" + string(rune('1'+i)), Status: status}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	hd1, err := l.History(ctx, ledger.Filter{Object: "HD1"})
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(hd1) != 2 || hd1[0].JobID != "003" {
		t.Fatalf("unexpected HD1 history: %+v", hd1)
	}

	fatal, err := l.History(ctx, ledger.Filter{Status: ledger.StatusFatal})
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(fatal) != 1 || fatal[0].Object != "HD2" {
		t.Fatalf("unexpected fatal history: %+v", fatal)
	}

	limited, err := l.History(ctx, ledger.Filter{Limit: 1})
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(limited) != 1 || limited[0].JobID != "004" {
		t.Fatalf("unexpected limited history: %+v", limited)
	}
}

func TestConcurrentRecords(t *testing.T) {
	l := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := l.Record(ctx, ledger.Entry{BatchID: "c", Object: "HD1", JobID: "x", Status: ledger.StatusOK})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Record failed: %v", err)
		}
	}
	got, err := l.ListBatch(ctx, "c")
	if err != nil {
		t.Fatalf("ListBatch failed: %v", err)
	}
	if len(got) != 16 {
		t.Fatalf("expected 16 entries, got %d", len(got))
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	l, err := ledger.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	if _, err := l.Record(context.Background(), ledger.Entry{BatchID: "keep", Object: "HD1", JobID: "001", Status: ledger.StatusOK}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := ledger.OpenPath(path)
	if err != nil {
		if errors.Is(err, ledger.ErrSchemaMismatch) {
			t.Fatalf("unexpected schema mismatch: %v", err)
		}
		t.Fatalf("reopen failed: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	latest, err := reopened.LatestBatch(context.Background())
	if err != nil || latest != "keep" {
		t.Fatalf("LatestBatch = %q, %v", latest, err)
	}
}
