package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"collator/internal/collate"
	"collator/internal/config"
	"collator/internal/jobid"
	"collator/internal/ledger"
	"collator/internal/logging"
	"collator/internal/preflight"
	"collator/internal/services"
)

// LockFileName is created in the destination directory while a batch runs.
const LockFileName = ".collate.lock"

// ErrLocked reports that another batch holds the destination lock.
var ErrLocked = errors.New("destination locked by another batch")

// Request names the jobs of one batch.
type Request struct {
	Object string
	// Jobs holds job labels such as "007".
	Jobs []string
	// Dir overrides the configured model directory.
	Dir string
	// Destination overrides the configured output directory.
	Destination string
}

// JobResult is the outcome of one job.
type JobResult struct {
	JobID    string
	Status   ledger.Status
	Result   collate.Result
	Err      error
	Duration time.Duration
}

// Summary collects the outcome of a batch. Results are sorted by job id.
type Summary struct {
	BatchID  string
	Object   string
	Results  []JobResult
	Started  time.Time
	Finished time.Time
}

// Count returns how many jobs ended with status.
func (s Summary) Count(status ledger.Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Clean reports whether every job produced an unflagged record.
func (s Summary) Clean() bool {
	return s.Count(ledger.StatusOK) == len(s.Results)
}

// Runner executes batches.
type Runner struct {
	cfg      *config.Config
	collator *collate.Collator
	ledger   *ledger.Ledger
	logger   *slog.Logger
	newID    func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLedger records job outcomes in l.
func WithLedger(l *ledger.Ledger) Option {
	return func(r *Runner) { r.ledger = l }
}

// WithBatchIDFunc overrides batch id generation.
func WithBatchIDFunc(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// New constructs a Runner from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:      cfg,
		collator: collate.New(collate.OptionsFromConfig(cfg), logger),
		logger:   logging.NewComponentLogger(logger, "batch"),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run collates every job in req. Job failures are reported in the summary,
// never as an error; the returned error covers lock, preflight and
// cancellation. After cancellation no further jobs start, running jobs
// finish, and the unstarted ones are reported as fatal.
func (r *Runner) Run(ctx context.Context, req Request) (Summary, error) {
	if strings.TrimSpace(req.Object) == "" {
		return Summary{}, errors.New("batch requires an object name")
	}
	jobs := sortedUnique(req.Jobs)
	if len(jobs) == 0 {
		return Summary{}, errors.New("batch requires at least one job")
	}
	dir := firstNonEmpty(req.Dir, r.cfg.Paths.ModelDir)
	dest := firstNonEmpty(req.Destination, r.cfg.Paths.OutputDir, dir)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create destination: %w", err)
	}

	if r.cfg.Batch.Lock {
		lock := flock.New(filepath.Join(dest, LockFileName))
		ok, err := lock.TryLock()
		if err != nil {
			return Summary{}, fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return Summary{}, fmt.Errorf("%w: %s", ErrLocked, dest)
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				r.logger.Warn("failed to release batch lock", logging.Error(err))
			}
		}()
	}

	checkCfg := *r.cfg
	checkCfg.Paths.ModelDir = dir
	checkCfg.Paths.OutputDir = dest
	if err := preflight.FirstFailure(preflight.RunAll(&checkCfg)); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		BatchID: r.newID(),
		Object:  req.Object,
		Results: make([]JobResult, len(jobs)),
		Started: time.Now(),
	}
	ctx = services.WithBatchID(ctx, summary.BatchID)
	logger := logging.WithContext(ctx, r.logger)

	names := make([]string, len(jobs))
	for i, id := range jobs {
		names[i] = r.collator.JobFileName(id)
	}
	if check := preflight.CheckJobFiles(dir, names); !check.Passed {
		logging.WarnWithContext(logger, "job files missing; affected jobs will fail", "job_files_missing",
			logging.String("detail", check.Detail),
			logging.String(logging.FieldErrorHint, "check the job list against the model directory"),
			logging.String(logging.FieldImpact, "no record is written for these jobs"),
		)
	}

	workers := r.cfg.Batch.Workers
	if workers <= 0 {
		workers = 1
	}
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_started"),
		logging.String(logging.FieldObject, req.Object),
		logging.Int("jobs", len(jobs)),
		logging.Int("workers", workers),
		logging.String("destination", dest),
	)

	var g errgroup.Group
	g.SetLimit(workers)
	started := make([]bool, len(jobs))
	for i, id := range jobs {
		if ctx.Err() != nil {
			break
		}
		job := collate.Job{Dir: dir, Object: req.Object, JobID: id, Destination: dest}
		// g.Go blocks until a worker frees up, so the batch may have been
		// cancelled by the time this job gets its slot.
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			started[i] = true
			summary.Results[i] = r.runJob(ctx, summary.BatchID, job)
			return nil
		})
	}
	_ = g.Wait()

	cancelErr := ctx.Err()
	unstarted := 0
	for i := range jobs {
		if started[i] {
			continue
		}
		unstarted++
		now := time.Now()
		res := JobResult{JobID: jobs[i], Status: ledger.StatusFatal, Err: cancelErr}
		summary.Results[i] = res
		r.record(ctx, summary.BatchID, req.Object, res, now, now)
	}
	summary.Finished = time.Now()

	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_finished"),
		logging.Int("ok", summary.Count(ledger.StatusOK)),
		logging.Int("degraded", summary.Count(ledger.StatusDegraded)),
		logging.Int("fatal", summary.Count(ledger.StatusFatal)),
		logging.Duration("elapsed", summary.Finished.Sub(summary.Started)),
	)
	if cancelErr != nil && unstarted > 0 {
		return summary, cancelErr
	}
	return summary, nil
}

func (r *Runner) runJob(ctx context.Context, batchID string, job collate.Job) JobResult {
	started := time.Now()
	// A started job runs to completion even when the batch is cancelled.
	res, err := r.collator.Run(context.WithoutCancel(ctx), job)
	finished := time.Now()

	out := JobResult{JobID: job.JobID, Result: res, Err: err, Duration: finished.Sub(started)}
	switch {
	case err != nil:
		out.Status = ledger.StatusFatal
		logger := logging.WithContext(services.WithJob(ctx, job.Object, job.JobID), r.logger)
		logging.ErrorWithContext(logger, "job failed; no record written", "job_failed",
			logging.Error(err),
			logging.String("error_kind", services.Kind(err)),
			logging.Bool("job_fatal", services.JobFatal(err)),
		)
	case res.Failed:
		out.Status = ledger.StatusDegraded
	default:
		out.Status = ledger.StatusOK
	}
	r.record(ctx, batchID, job.Object, out, started, finished)
	return out
}

func (r *Runner) record(ctx context.Context, batchID, object string, res JobResult, started, finished time.Time) {
	if r.ledger == nil {
		return
	}
	entry := ledger.Entry{
		BatchID:    batchID,
		Object:     object,
		JobID:      res.JobID,
		Status:     res.Status,
		Reasons:    res.Result.Reasons,
		OutputPath: res.Result.Path,
		Checksum:   res.Result.Checksum,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
		entry.ErrorKind = services.Kind(res.Err)
		if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
			entry.ErrorKind = "cancelled"
		}
	}
	if _, err := r.ledger.Record(context.WithoutCancel(ctx), entry); err != nil {
		r.logger.Warn("failed to record job outcome",
			logging.String(logging.FieldJobID, res.JobID),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ledger_write_failed"),
			logging.String(logging.FieldErrorHint, "check the ledger path and disk space"),
		)
	}
}

// sortedUnique orders job labels numerically, falling back to lexical order
// for labels that are not numbers.
func sortedUnique(jobs []string) []string {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		j = strings.TrimSpace(j)
		if j == "" {
			continue
		}
		if _, ok := seen[j]; ok {
			continue
		}
		seen[j] = struct{}{}
		out = append(out, j)
	}
	sort.SliceStable(out, func(a, b int) bool {
		na, errA := jobid.Parse(out[a])
		nb, errB := jobid.Parse(out[b])
		if errA == nil && errB == nil && na != nb {
			return na < nb
		}
		return out[a] < out[b]
	})
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
