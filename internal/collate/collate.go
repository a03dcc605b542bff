package collate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"collator/internal/columns"
	"collator/internal/components"
	"collator/internal/config"
	"collator/internal/extinction"
	"collator/internal/failures"
	"collator/internal/jobfile"
	"collator/internal/logging"
	"collator/internal/record"
	"collator/internal/schema"
	"collator/internal/services"
)

// Options configures a Collator.
type Options struct {
	OptThin    bool
	Extinction bool
	Overwrite  bool
	// Parameters overrides the dialect's parameter list when non-empty.
	Parameters []string
	Layouts    map[components.Kind]components.Layout
	// InnerRadiusPattern locates the rin scalar of disk models.
	InnerRadiusPattern string
	Skip               map[components.Kind]bool
}

// OptionsFromConfig derives collation options from configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OptThin:            cfg.OptThin(),
		Extinction:         cfg.Collate.Extinction,
		Overwrite:          cfg.Collate.Overwrite,
		Parameters:         append([]string(nil), cfg.Collate.Parameters...),
		Layouts:            components.LayoutsFromConfig(cfg),
		InnerRadiusPattern: cfg.Components.InnerRadius.Pattern,
		Skip:               components.SkipFromConfig(cfg),
	}
}

// Job identifies one collation.
type Job struct {
	// Dir holds the job file and component outputs.
	Dir    string
	Object string
	JobID  string
	// Destination receives the record; Dir when empty.
	Destination string
}

// Result describes a written record.
type Result struct {
	Job               Job
	Path              string
	Checksum          string
	Failed            bool
	Reasons           []failures.Reason
	Axes              schema.AxisMap
	ExtinctionApplied bool
}

// Collator runs the pipeline for one job at a time.
type Collator struct {
	opts    Options
	dialect jobfile.Dialect
	kinds   []components.Kind
	logger  *slog.Logger
}

// New constructs a Collator.
func New(opts Options, logger *slog.Logger) *Collator {
	dialect := jobfile.Disk()
	kinds := components.DiskKinds
	if opts.OptThin {
		dialect = jobfile.OptThin()
		kinds = components.OptThinKinds
		opts.Extinction = false
	}
	return &Collator{
		opts:    opts,
		dialect: dialect.WithParameters(opts.Parameters),
		kinds:   kinds,
		logger:  logging.NewComponentLogger(logger, "collate"),
	}
}

// jobState carries the values one run builds; it never outlives Run.
type jobState struct {
	params     jobfile.ParameterSet
	outcomes   []components.Outcome
	rin        *float64
	cols       map[components.Kind]components.Column
	withExt    bool
	draft      *schema.Draft
	recorder   *failures.Recorder
	result     Result
	targetPath string
}

// Run collates job. A non-nil error means no record was written.
func (c *Collator) Run(ctx context.Context, job Job) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(job.Destination) == "" {
		job.Destination = job.Dir
	}
	ctx = services.WithJob(ctx, job.Object, job.JobID)
	logger := logging.WithContext(ctx, c.logger)

	st := &jobState{
		cols:     make(map[components.Kind]components.Column),
		recorder: failures.NewRecorder(logger),
		result:   Result{Job: job},
	}

	stages := []struct {
		name string
		fn   func(context.Context, *slog.Logger, Job, *jobState) error
	}{
		{StageParse, c.parse},
		{StageDiscover, c.discover},
		{StageLoad, c.load},
		{StageAssemble, c.assemble},
		{StageCorrect, c.correct},
		{StageWrite, c.write},
	}
	for _, s := range stages {
		err := runStage(ctx, logger, s.name, func(stageCtx context.Context, stageLogger *slog.Logger) error {
			st.recorder = st.recorder.WithLogger(stageLogger)
			return s.fn(stageCtx, stageLogger, job, st)
		})
		if err != nil {
			return Result{}, err
		}
	}

	res := st.result
	logger.Info("job collated",
		logging.String(logging.FieldEventType, "job_collated"),
		logging.String("path", res.Path),
		logging.String("axes", res.Axes.String()),
		logging.Bool("failed", res.Failed),
		logging.String("reasons", failures.JoinReasons(res.Reasons)),
		logging.Bool("extinction_applied", res.ExtinctionApplied),
	)
	return res, nil
}

func (c *Collator) parse(_ context.Context, _ *slog.Logger, job Job, st *jobState) error {
	params, err := jobfile.ParseFile(job.Dir, job.JobID, c.dialect)
	if err != nil {
		return err
	}
	st.params = params
	return nil
}

func (c *Collator) discover(_ context.Context, logger *slog.Logger, job Job, st *jobState) error {
	loc := components.Locator{
		Dir:     job.Dir,
		Object:  job.Object,
		JobID:   job.JobID,
		Layouts: c.opts.Layouts,
		Skip:    c.opts.Skip,
	}
	outcomes, err := loc.LocateAll(c.kinds)
	if err != nil {
		return services.Wrap(nil, StageDiscover, "locate components", job.Dir, err)
	}
	st.outcomes = outcomes
	for _, o := range outcomes {
		logger.Debug("component located",
			logging.String("kind", o.Kind.String()),
			logging.String("state", o.State.String()),
			logging.String("path", o.Path),
		)
	}

	if c.opts.OptThin || strings.TrimSpace(c.opts.InnerRadiusPattern) == "" {
		return nil
	}
	path, err := components.FindFile(job.Dir, c.opts.InnerRadiusPattern, job.Object, job.JobID)
	if err != nil {
		return services.Wrap(nil, StageDiscover, "locate inner radius", job.Dir, err)
	}
	if path == "" {
		st.recorder.InnerRadius(components.Glob(c.opts.InnerRadiusPattern, job.Object, job.JobID),
			services.Wrap(services.ErrMissingFile, StageDiscover, "inner radius", "no matching file", nil))
		return nil
	}
	rin, err := columns.ReadScalar(path)
	if err != nil {
		st.recorder.InnerRadius(path, err)
		return nil
	}
	st.rin = &rin
	return nil
}

func (c *Collator) load(_ context.Context, _ *slog.Logger, _ Job, st *jobState) error {
	for _, o := range st.outcomes {
		if !st.recorder.Component(o) {
			continue
		}
		withExt := c.opts.Extinction && o.Kind == components.Disk
		col, err := components.Load(o, c.opts.Layouts[o.Kind], withExt)
		if err != nil {
			st.recorder.LoadFailed(o.Kind, err)
			continue
		}
		st.cols[o.Kind] = col
	}
	if c.opts.Extinction {
		if extinction.Available(st.cols) {
			st.withExt = true
		} else {
			st.recorder.Dependency(services.Wrap(services.ErrDependency, StageLoad, "extinction", "disk component with extinction column not loaded", nil))
		}
	}
	return nil
}

func (c *Collator) assemble(_ context.Context, _ *slog.Logger, _ Job, st *jobState) error {
	draft, err := schema.Assemble(st.cols, st.withExt)
	if err != nil {
		return err
	}
	st.draft = draft
	return nil
}

func (c *Collator) correct(_ context.Context, logger *slog.Logger, _ Job, st *jobState) error {
	if !st.withExt {
		return nil
	}
	if err := extinction.Correct(st.draft); err != nil {
		st.recorder.Dependency(err)
		if dropErr := st.draft.Drop(components.Extinction); dropErr != nil {
			return dropErr
		}
		return nil
	}
	logger.Debug("extinction applied", logging.String(logging.FieldEventType, "extinction_applied"))
	return nil
}

func (c *Collator) write(_ context.Context, logger *slog.Logger, job Job, st *jobState) error {
	if err := os.MkdirAll(job.Destination, 0o755); err != nil {
		return services.Wrap(nil, StageWrite, "create destination", job.Destination, err)
	}
	table := st.draft.Finalize()
	reasons := st.recorder.Reasons()
	rec := record.Record{
		Object:      job.Object,
		JobID:       job.JobID,
		OptThin:     c.opts.OptThin,
		Params:      st.params.Params(),
		InnerRadius: st.rin,
		Table:       table,
		Reasons:     reasons,
	}
	path := filepath.Join(job.Destination, record.FileName(job.Object, job.JobID, c.opts.OptThin))
	sum, err := record.Write(path, rec, c.opts.Overwrite)
	if err != nil {
		return err
	}
	logger.Debug("record written", logging.String("path", path), logging.String("sha256", sum))
	st.result = Result{
		Job:               job,
		Path:              path,
		Checksum:          sum,
		Failed:            len(reasons) > 0,
		Reasons:           reasons,
		Axes:              table.Axes(),
		ExtinctionApplied: table.Corrected(),
	}
	return nil
}

// String renders a job for messages.
func (j Job) String() string {
	return fmt.Sprintf("%s job %s", j.Object, j.JobID)
}

// JobFileName returns the job file name for jobID in the collator's mode.
func (c *Collator) JobFileName(jobID string) string {
	return c.dialect.JobFileName(jobID)
}
