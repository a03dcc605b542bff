package services

import "context"

type contextKey string

const (
	objectKey  contextKey = "object"
	jobIDKey   contextKey = "job_id"
	stageKey   contextKey = "stage"
	batchIDKey contextKey = "batch_id"
)

// WithJob annotates context with the object name and job identifier of the
// collation in progress.
func WithJob(ctx context.Context, object, jobID string) context.Context {
	if object != "" {
		ctx = context.WithValue(ctx, objectKey, object)
	}
	if jobID != "" {
		ctx = context.WithValue(ctx, jobIDKey, jobID)
	}
	return ctx
}

// ObjectFromContext returns the object name if present.
func ObjectFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(objectKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// JobIDFromContext returns the job identifier if present.
func JobIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(jobIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the collation stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithBatchID annotates context with the batch run identifier.
func WithBatchID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, batchIDKey, id)
}

// BatchIDFromContext extracts the batch run identifier if present.
func BatchIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(batchIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
