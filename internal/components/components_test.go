package components_test

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"collator/internal/components"
	"collator/internal/services"
	"collator/internal/testsupport"
)

func newLocator(t *testing.T, dir string) components.Locator {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return components.Locator{
		Dir:     dir,
		Object:  "HD163296",
		JobID:   "007",
		Layouts: components.LayoutsFromConfig(cfg),
		Skip:    components.SkipFromConfig(cfg),
	}
}

func TestLocateClassifiesOutcomes(t *testing.T) {
	dir := t.TempDir()
	testsupport.WritePhotosphere(t, dir, "007", 4)
	testsupport.WriteEmpty(t, testsupport.WallPath(dir, "HD163296", "007"))
	testsupport.WriteScattered(t, dir, "HD163296", "007", 4)

	loc := newLocator(t, dir)
	outcomes, err := loc.LocateAll(components.DiskKinds)
	if err != nil {
		t.Fatalf("LocateAll returned error: %v", err)
	}
	want := map[components.Kind]components.State{
		components.Photosphere: components.Found,
		components.Wall:        components.Empty,
		components.Disk:        components.Missing,
		components.Scattered:   components.Disabled,
	}
	for _, o := range outcomes {
		if o.State != want[o.Kind] {
			t.Fatalf("%s: state %s, want %s", o.Kind, o.State, want[o.Kind])
		}
	}
	if outcomes[0].Size == 0 || outcomes[0].Path != testsupport.PhotospherePath(dir, "007") {
		t.Fatalf("unexpected photosphere outcome: %+v", outcomes[0])
	}
}

func TestLocateEscapesObjectName(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteWall(t, dir, "HDx", "007", 3)

	loc := newLocator(t, dir)
	loc.Object = "HD*"
	o, err := loc.Locate(components.Wall)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if o.State != components.Missing {
		t.Fatalf("expected wildcard in object name to be literal, got %s (%s)", o.State, o.Path)
	}
}

func TestLocatePicksFirstSortedMatch(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteText(t, filepath.Join(dir, "angle.B_007_i30.dat"), "h\n1 0 0 1 0\n")
	testsupport.WriteText(t, filepath.Join(dir, "angle.A_007_i60.dat"), "h\n1 0 0 2 0\n")

	o, err := newLocator(t, dir).Locate(components.Disk)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if filepath.Base(o.Path) != "angle.A_007_i60.dat" {
		t.Fatalf("unexpected match %q", o.Path)
	}
}

func TestLoadDiskWithExtinction(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteDisk(t, dir, "HD163296", "007", 5, 0.3)

	loc := newLocator(t, dir)
	o, err := loc.Locate(components.Disk)
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	col, err := components.Load(o, loc.Layouts[components.Disk], true)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if col.Len() != 5 || len(col.Wavelength) != 5 || len(col.Extinction) != 5 {
		t.Fatalf("unexpected column lengths: %+v", col)
	}
	if col.Flux[1] != 200 {
		t.Fatalf("unexpected flux: %v", col.Flux)
	}
	if math.Abs(col.Extinction[0]-0.3) > 1e-12 {
		t.Fatalf("unexpected extinction: %v", col.Extinction)
	}
}

func TestLoadWallSkipsHeader(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteWall(t, dir, "HD163296", "007", 3)
	loc := newLocator(t, dir)
	o, _ := loc.Locate(components.Wall)
	col, err := components.Load(o, loc.Layouts[components.Wall], false)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if col.Len() != 3 || col.Flux[0] != 10 {
		t.Fatalf("unexpected wall column: %+v", col)
	}
	if col.Extinction != nil {
		t.Fatal("expected no extinction column for the wall")
	}
}

func TestLoadHeaderOnlyFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteText(t, testsupport.DiskPath(dir, "HD163296", "007"), "only a header\n")
	loc := newLocator(t, dir)
	o, _ := loc.Locate(components.Disk)
	if o.State != components.Found {
		t.Fatalf("expected non-zero file to be found, got %s", o.State)
	}
	_, err := components.Load(o, loc.Layouts[components.Disk], false)
	if !errors.Is(err, services.ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestKindTags(t *testing.T) {
	if components.Disk.AxisTag() != "ANGAXIS" || components.Dust.AxisTag() != "LFLAXIS" {
		t.Fatal("unexpected axis tags")
	}
	kind, ok := components.KindForAxisTag("SCATAXIS")
	if !ok || kind != components.Scattered {
		t.Fatalf("KindForAxisTag(SCATAXIS) = %v, %v", kind, ok)
	}
	if _, ok := components.ParseKind("corona"); ok {
		t.Fatal("expected unknown kind")
	}
}
