package testsupport

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// DiskJob describes a disk-model job file fixture.
type DiskJob struct {
	// Values holds quoted assignments in file order.
	Values [][2]string
	// AMAXS and EPS choose the active menu entry by token. Empty leaves
	// every candidate commented out.
	AMAXS string
	EPS   string
	// Extra lists further tokens to mark active, producing an ambiguous menu.
	ExtraEPS string
	Temp     string
	AltInh   string
	TShock   string
	// Omit drops the named assignment from the file.
	Omit string
}

// NewDiskJob returns a valid disk job fixture.
func NewDiskJob() DiskJob {
	return DiskJob{
		Values: [][2]string{
			{"MSTAR", "0.5"}, {"TSTAR", "4000."}, {"RSTAR", "2.0"}, {"DISTANCIA", "140."},
			{"MDOT", "1.0e-8"}, {"ALPHA", "0.01"}, {"MUI", "0.5"}, {"RDISK", "300"},
			{"WLCUT_ANGLE", "50"}, {"WLCUT_SCATT", "40"}, {"NSILCOMPOUNDS", "6"},
			{"SILTOTABUN", "0.0034"}, {"AMORPFRAC_OLIVINE", "0.5"}, {"AMORPFRAC_PYROXENE", "0.5"},
			{"FORSTERITE_FRAC", "0.0"}, {"ENSTATITE_FRAC", "0.0"},
		},
		AMAXS:  "0.25",
		EPS:    "0.01",
		Temp:   "1400",
		AltInh: "1.5",
		TShock: "8000",
	}
}

var (
	diskGrainTokens = []string{"0.05", "0.1", "0.25", "1.0", "10.0", "1mm"}
	settlingTokens  = []string{"0.0001", "0.001", "0.01", "0.1", "1.0"}
)

// Text renders the job file.
func (j DiskJob) Text() string {
	var b strings.Builder
	b.WriteString("#!/bin/csh\n# disk model job\n")
	for _, kv := range j.Values {
		if kv[0] == j.Omit {
			continue
		}
		fmt.Fprintf(&b, "set %s='%s'\n", kv[0], kv[1])
	}
	writeMenu(&b, "AMAXS", "", diskGrainTokens, j.AMAXS, "")
	writeMenu(&b, "EPS", "", settlingTokens, j.EPS, j.ExtraEPS)
	if j.Omit != "TEMP" {
		fmt.Fprintf(&b, "set TEMP=%s.\n", j.Temp)
	}
	if j.Omit != "ALTINH" {
		fmt.Fprintf(&b, "set ALTINH=%s \n", j.AltInh)
	}
	if j.Omit != "TSHOCK" {
		fmt.Fprintf(&b, "set TSHOCK=%s.\n", j.TShock)
	}
	b.WriteString("./run_model\n")
	return b.String()
}

// OptThinJob describes an optically thin job file fixture.
type OptThinJob struct {
	Values [][2]string
	AMAXS  string
}

// NewOptThinJob returns a valid optically thin job fixture.
func NewOptThinJob() OptThinJob {
	return OptThinJob{
		Values: [][2]string{
			{"TSTAR", "4000."}, {"RSTAR", "2.0"}, {"DISTANCIA", "140."}, {"MUI", "0.5"},
			{"ROUT", "10."}, {"RIN", "0.5"}, {"TAUMIN", "0.01"}, {"POWER", "1.5"},
			{"FUDGEORG", "0.1"}, {"FUDGETROI", "0.2"}, {"FRACSIL", "0.3"}, {"FRACENT", "0.1"},
			{"FRACFORST", "0.1"}, {"FRACAMC", "0.0"},
		},
		AMAXS: "0p25",
	}
}

// Text renders the job file.
func (j OptThinJob) Text() string {
	var b strings.Builder
	b.WriteString("#!/bin/csh\n# optically thin job\n")
	for _, kv := range j.Values {
		fmt.Fprintf(&b, "set %s='%s'\n", kv[0], kv[1])
	}
	writeMenu(&b, "lamax", "amax", []string{"0p05", "0p1", "0p25", "1p0", "10p0", "1mm"}, j.AMAXS, "")
	return b.String()
}

func writeMenu(b *strings.Builder, variable, prefix string, tokens []string, active, extra string) {
	for _, token := range tokens {
		mark := "#"
		if token == active || (extra != "" && token == extra) {
			mark = ""
		}
		fmt.Fprintf(b, "%sset %s='%s%s'\n", mark, variable, prefix, token)
	}
}

// WriteDiskJob writes job<jobID> into dir.
func WriteDiskJob(t testing.TB, dir, jobID string, j DiskJob) {
	t.Helper()
	WriteText(t, filepath.Join(dir, "job"+jobID), j.Text())
}

// WriteOptThinJob writes job_optthin<jobID> into dir.
func WriteOptThinJob(t testing.TB, dir, jobID string, j OptThinJob) {
	t.Helper()
	WriteText(t, filepath.Join(dir, "job_optthin"+jobID), j.Text())
}

// Component fixture file names matching the default layouts.

func PhotospherePath(dir, jobID string) string {
	return filepath.Join(dir, "Phot_"+jobID)
}

func WallPath(dir, object, jobID string) string {
	return filepath.Join(dir, "fort17."+object+"_"+jobID)
}

func DiskPath(dir, object, jobID string) string {
	return filepath.Join(dir, "angle."+object+"_"+jobID+"_i60.dat")
}

func ScatteredPath(dir, object, jobID string) string {
	return filepath.Join(dir, "scatt."+object+"_"+jobID+".dat")
}

func DustPath(dir, object, jobID string) string {
	return filepath.Join(dir, "fort16."+object+"_"+jobID)
}

func InnerRadiusPath(dir, object, jobID string) string {
	return filepath.Join(dir, "rin."+object+"_"+jobID)
}

// WritePhotosphere writes a photosphere file with flux 1..n.
func WritePhotosphere(t testing.TB, dir, jobID string, n int) {
	t.Helper()
	rows := make([][]float64, n)
	for i, wl := range Grid(n) {
		rows[i] = []float64{wl, float64(i + 1)}
	}
	WriteTable(t, PhotospherePath(dir, jobID), 0, rows)
}

// WriteWall writes a wall file with flux 10*(i+1) behind nine header lines.
func WriteWall(t testing.TB, dir, object, jobID string, n int) {
	t.Helper()
	rows := make([][]float64, n)
	for i, wl := range Grid(n) {
		rows[i] = []float64{wl, 10 * float64(i+1)}
	}
	WriteTable(t, WallPath(dir, object, jobID), 9, rows)
}

// WriteDisk writes an angle file: wavelength, two filler columns, flux
// 100*(i+1), and a constant extinction column.
func WriteDisk(t testing.TB, dir, object, jobID string, n int, extinction float64) {
	t.Helper()
	rows := make([][]float64, n)
	for i, wl := range Grid(n) {
		rows[i] = []float64{wl, 0, 0, 100 * float64(i+1), extinction}
	}
	WriteTable(t, DiskPath(dir, object, jobID), 1, rows)
}

// WriteScattered writes a scattered light file with flux 0.5*(i+1).
func WriteScattered(t testing.TB, dir, object, jobID string, n int) {
	t.Helper()
	rows := make([][]float64, n)
	for i, wl := range Grid(n) {
		rows[i] = []float64{wl, 0.5 * float64(i+1)}
	}
	WriteTable(t, ScatteredPath(dir, object, jobID), 1, rows)
}

// WriteDust writes an optically thin dust file with flux in column 3.
func WriteDust(t testing.TB, dir, object, jobID string, n int) {
	t.Helper()
	rows := make([][]float64, n)
	for i, wl := range Grid(n) {
		rows[i] = []float64{wl, 0, 2 * float64(i+1)}
	}
	WriteTable(t, DustPath(dir, object, jobID), 0, rows)
}

// WriteInnerRadius writes the inner radius scalar file.
func WriteInnerRadius(t testing.TB, dir, object, jobID string, rin float64) {
	t.Helper()
	WriteText(t, InnerRadiusPath(dir, object, jobID), fmt.Sprintf("%g\n", rin))
}

// WriteDiskModel writes a complete disk model: job file, photosphere, wall,
// disk, and inner radius, all on an n-point grid.
func WriteDiskModel(t testing.TB, dir, object, jobID string, n int) {
	t.Helper()
	WriteDiskJob(t, dir, jobID, NewDiskJob())
	WritePhotosphere(t, dir, jobID, n)
	WriteWall(t, dir, object, jobID, n)
	WriteDisk(t, dir, object, jobID, n, 0.2)
	WriteInnerRadius(t, dir, object, jobID, 0.07)
}
