package collate_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"collator/internal/collate"
	"collator/internal/components"
	"collator/internal/config"
	"collator/internal/failures"
	"collator/internal/logging"
	"collator/internal/record"
	"collator/internal/services"
	"collator/internal/testsupport"
)

const object = "HD163296"

func newCollator(cfg *config.Config) *collate.Collator {
	return collate.New(collate.OptionsFromConfig(cfg), logging.NewNop())
}

func job(cfg *config.Config, id string) collate.Job {
	return collate.Job{Dir: cfg.Paths.ModelDir, Object: object, JobID: id, Destination: cfg.Paths.OutputDir}
}

func TestRunCompleteDiskModel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteDiskModel(t, cfg.Paths.ModelDir, object, "007", 6)

	res, err := newCollator(cfg).Run(context.Background(), job(cfg, "007"))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Failed {
		t.Fatalf("unexpected failure reasons %v", res.Reasons)
	}
	if got := res.Axes.String(); got != "{wavelength:0, photosphere:1, wall:2, disk:3}" {
		t.Fatalf("unexpected axes %s", got)
	}
	if res.Path != filepath.Join(cfg.Paths.OutputDir, "HD163296_007.fits") {
		t.Fatalf("unexpected path %q", res.Path)
	}

	h, err := record.ReadHeader(res.Path)
	if err != nil {
		t.Fatalf("ReadHeader returned error: %v", err)
	}
	if h.Failed() {
		t.Fatal("record flagged failed")
	}
	if rin, ok := h.Float("RIN"); !ok || math.Abs(rin-0.07) > 1e-12 {
		t.Fatalf("RIN = %v (%v)", rin, ok)
	}
	if eps, ok := h.Float("EPS"); !ok || eps != 0.01 {
		t.Fatalf("EPS = %v (%v)", eps, ok)
	}
}

func TestRunMissingDiskWithExtinctionRequested(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithExtinction())
	dir := cfg.Paths.ModelDir
	testsupport.WriteDiskJob(t, dir, "011", testsupport.NewDiskJob())
	testsupport.WritePhotosphere(t, dir, "011", 4)
	testsupport.WriteWall(t, dir, object, "011", 4)
	testsupport.WriteInnerRadius(t, dir, object, "011", 0.1)

	res, err := newCollator(cfg).Run(context.Background(), job(cfg, "011"))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	model, err := record.Read(res.Path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got := model.Table.Axes().String(); got != "{wavelength:0, photosphere:1, wall:2}" {
		t.Fatalf("unexpected axes %s", got)
	}
	if !model.Header.Failed() {
		t.Fatal("expected failure flag")
	}
	if model.Header.ExtinctionApplied() {
		t.Fatal("extinction must not be applied without the disk")
	}
	want := []failures.Reason{failures.ExtinctionUnavailable, failures.MissingDisk}
	if diff := cmp.Diff(want, model.Header.Reasons()); diff != "" {
		t.Fatalf("reasons mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAppliesExtinction(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithExtinction())
	testsupport.WriteDiskModel(t, cfg.Paths.ModelDir, object, "002", 3)

	res, err := newCollator(cfg).Run(context.Background(), job(cfg, "002"))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !res.ExtinctionApplied || res.Failed {
		t.Fatalf("unexpected result %+v", res)
	}
	model, err := record.Read(res.Path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got := model.Table.Axes().String(); got != "{wavelength:0, photosphere:1, wall:2, disk:3, extinction:4}" {
		t.Fatalf("unexpected axes %s", got)
	}
	phot, _ := model.Column(components.Photosphere)
	if want := 1 * math.Exp(-0.2); math.Abs(phot[0]-want) > 1e-9 {
		t.Fatalf("photosphere[0] = %v, want %v", phot[0], want)
	}
	disk, _ := model.Column(components.Disk)
	if math.Abs(disk[0]-100) > 1e-9 {
		t.Fatalf("disk must not be corrected, got %v", disk[0])
	}
}

func TestRunParseViolationIsFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := cfg.Paths.ModelDir
	bad := testsupport.NewDiskJob()
	bad.EPS = ""
	testsupport.WriteDiskJob(t, dir, "003", bad)
	testsupport.WritePhotosphere(t, dir, "003", 3)

	_, err := newCollator(cfg).Run(context.Background(), job(cfg, "003"))
	if !errors.Is(err, services.ErrConfigInvariant) {
		t.Fatalf("expected ErrConfigInvariant, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(cfg.Paths.OutputDir, "HD163296_003.fits")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no record, stat error %v", statErr)
	}
}

func TestRunMissingJobFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	_, err := newCollator(cfg).Run(context.Background(), job(cfg, "404"))
	if !errors.Is(err, services.ErrMissingFile) {
		t.Fatalf("expected ErrMissingFile, got %v", err)
	}
}

func TestRunGridMismatchIsFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := cfg.Paths.ModelDir
	testsupport.WriteDiskJob(t, dir, "004", testsupport.NewDiskJob())
	testsupport.WritePhotosphere(t, dir, "004", 4)
	testsupport.WriteWall(t, dir, object, "004", 5)

	_, err := newCollator(cfg).Run(context.Background(), job(cfg, "004"))
	if !errors.Is(err, services.ErrGridMismatch) {
		t.Fatalf("expected ErrGridMismatch, got %v", err)
	}
}

func TestRunOverwriteIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithOverwrite())
	testsupport.WriteDiskModel(t, cfg.Paths.ModelDir, object, "005", 4)
	c := newCollator(cfg)

	first, err := c.Run(context.Background(), job(cfg, "005"))
	if err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	h1, err := record.ReadHeader(first.Path)
	if err != nil {
		t.Fatalf("ReadHeader returned error: %v", err)
	}
	second, err := c.Run(context.Background(), job(cfg, "005"))
	if err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	h2, err := record.ReadHeader(second.Path)
	if err != nil {
		t.Fatalf("ReadHeader returned error: %v", err)
	}
	if diff := cmp.Diff(h1.Tags(), h2.Tags()); diff != "" {
		t.Fatalf("tags differ between runs (-first +second):\n%s", diff)
	}
	if first.Checksum != second.Checksum {
		t.Fatal("expected byte-identical records")
	}
}

func TestRunWithoutOverwriteConflicts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteDiskModel(t, cfg.Paths.ModelDir, object, "006", 4)
	c := newCollator(cfg)
	if _, err := c.Run(context.Background(), job(cfg, "006")); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	_, err := c.Run(context.Background(), job(cfg, "006"))
	if !errors.Is(err, services.ErrWriteConflict) {
		t.Fatalf("expected ErrWriteConflict, got %v", err)
	}
}

func TestRunScatteredLightWhenEnabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDisabled())
	dir := cfg.Paths.ModelDir
	testsupport.WriteDiskModel(t, dir, object, "008", 3)
	testsupport.WriteScattered(t, dir, object, "008", 3)

	res, err := newCollator(cfg).Run(context.Background(), job(cfg, "008"))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !res.Axes.Has(components.Scattered) {
		t.Fatalf("expected scattered axis, got %s", res.Axes)
	}
}

func TestRunEmptyComponentDegrades(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := cfg.Paths.ModelDir
	testsupport.WriteDiskModel(t, dir, object, "009", 3)
	testsupport.WriteEmpty(t, testsupport.WallPath(dir, object, "009"))
	if err := os.Remove(testsupport.InnerRadiusPath(dir, object, "009")); err != nil {
		t.Fatal(err)
	}

	res, err := newCollator(cfg).Run(context.Background(), job(cfg, "009"))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := []failures.Reason{failures.MissingInnerRadius, failures.MissingWall}
	if diff := cmp.Diff(want, res.Reasons); diff != "" {
		t.Fatalf("reasons mismatch (-want +got):\n%s", diff)
	}
	if res.Axes.Has(components.Wall) {
		t.Fatal("empty wall must not produce an axis")
	}
	h, err := record.ReadHeader(res.Path)
	if err != nil {
		t.Fatalf("ReadHeader returned error: %v", err)
	}
	if _, ok := h.Get("RIN"); ok {
		t.Fatal("expected no RIN tag")
	}
}

func TestRunNoComponentsWritesZeroAxisRecord(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteDiskJob(t, cfg.Paths.ModelDir, "010", testsupport.NewDiskJob())

	res, err := newCollator(cfg).Run(context.Background(), job(cfg, "010"))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Axes.Len() != 0 || !res.Failed {
		t.Fatalf("expected failed zero-axis record, got %+v", res)
	}
}

func TestRunOptThin(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithOptThin())
	dir := cfg.Paths.ModelDir
	testsupport.WriteOptThinJob(t, dir, "012", testsupport.NewOptThinJob())
	testsupport.WriteDust(t, dir, object, "012", 5)

	res, err := newCollator(cfg).Run(context.Background(), job(cfg, "012"))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if filepath.Base(res.Path) != "HD163296_OTD_012.fits" {
		t.Fatalf("unexpected path %q", res.Path)
	}
	model, err := record.Read(res.Path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if !model.Header.OptThin() || model.Header.Failed() {
		t.Fatalf("unexpected flags: optthin=%v failed=%v", model.Header.OptThin(), model.Header.Failed())
	}
	if got := model.Table.Axes().String(); got != "{wavelength:0, dust:1}" {
		t.Fatalf("unexpected axes %s", got)
	}
	if _, ok := model.Header.Get("LFLAXIS"); !ok {
		t.Fatal("expected LFLAXIS tag")
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newCollator(cfg).Run(ctx, job(cfg, "001")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
