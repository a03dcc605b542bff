package collate

import (
	"context"
	"log/slog"
	"time"

	"collator/internal/logging"
	"collator/internal/services"
)

// Stage names used in logs and error messages.
const (
	StageParse    = "parse"
	StageDiscover = "discover"
	StageLoad     = "load"
	StageAssemble = "assemble"
	StageCorrect  = "correct"
	StageWrite    = "write"
)

// runStage executes fn with stage-scoped context and logger, emitting start,
// completion, and failure events.
func runStage(ctx context.Context, logger *slog.Logger, name string, fn func(context.Context, *slog.Logger) error) error {
	stageCtx := services.WithStage(ctx, name)
	stageLogger := logging.WithContext(stageCtx, logger)
	started := time.Now()

	stageLogger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))

	if err := fn(stageCtx, stageLogger); err != nil {
		logging.ErrorWithContext(stageLogger, "stage failed", "stage_failure",
			logging.String("error_kind", services.Kind(err)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(err)),
		)
		return err
	}

	stageLogger.Debug("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func hintFor(err error) string {
	switch services.Kind(err) {
	case "config_invariant":
		return "fix the job file convention named in the error"
	case "grid_mismatch":
		return "component outputs use different wavelength grids; rerun the model"
	case "write_conflict":
		return "enable collate.overwrite or remove the existing record"
	case "missing_file":
		return "check paths.model_dir and the job number"
	default:
		return "check logs for details"
	}
}
