package services_test

import (
	"context"
	"testing"

	"collator/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithJob(ctx, "cvso109", "042")
	ctx = services.WithStage(ctx, "assemble")
	ctx = services.WithBatchID(ctx, "batch-1")

	if object, ok := services.ObjectFromContext(ctx); !ok || object != "cvso109" {
		t.Fatalf("unexpected object: %v %v", object, ok)
	}
	if id, ok := services.JobIDFromContext(ctx); !ok || id != "042" {
		t.Fatalf("unexpected job id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "assemble" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if id, ok := services.BatchIDFromContext(ctx); !ok || id != "batch-1" {
		t.Fatalf("unexpected batch id: %v %v", id, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	ctx = services.WithJob(ctx, "", "")
	if _, ok := services.JobIDFromContext(ctx); ok {
		t.Fatal("expected no job id")
	}
}
