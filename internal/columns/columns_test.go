package columns_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"collator/internal/columns"
)

func TestReadSkipsHeaderAndSelectsColumns(t *testing.T) {
	input := `header one
header two
  1.0  10.0  100.0  1000.0
# comment
  2.0  20.0  2.0D+02  2000.0

  3.0  30.0  bad    3000.0
`
	table, err := columns.Read(strings.NewReader(input), 2, 1, 3)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if table.Rows() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.Rows())
	}
	if got := table.Columns[0]; got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("unexpected wavelength column: %v", got)
	}
	flux := table.Columns[1]
	if flux[0] != 100 || flux[1] != 200 {
		t.Fatalf("unexpected flux column: %v", flux)
	}
	if !math.IsNaN(flux[2]) {
		t.Fatalf("expected NaN for non-numeric field, got %v", flux[2])
	}
}

func TestReadShortLineYieldsNaN(t *testing.T) {
	table, err := columns.Read(strings.NewReader("1 2\n3\n"), 0, 1, 2)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if !math.IsNaN(table.Columns[1][1]) {
		t.Fatalf("expected NaN for missing field, got %v", table.Columns[1][1])
	}
}

func TestReadRejectsZeroColumn(t *testing.T) {
	if _, err := columns.Read(strings.NewReader("1\n"), 0, 0); err == nil {
		t.Fatal("expected error for column 0")
	}
}

func TestReadEmptyBody(t *testing.T) {
	table, err := columns.Read(strings.NewReader("only header\n"), 1, 1, 2)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if table.Rows() != 0 {
		t.Fatalf("expected no rows, got %d", table.Rows())
	}
}

func TestParseFloatFortranExponent(t *testing.T) {
	for token, want := range map[string]float64{"1.5D-02": 0.015, "2d3": 2000, " 4.25 ": 4.25} {
		got, err := columns.ParseFloat(token)
		if err != nil {
			t.Fatalf("ParseFloat(%q) returned error: %v", token, err)
		}
		if got != want {
			t.Fatalf("ParseFloat(%q) = %v, want %v", token, got, want)
		}
	}
	if _, err := columns.ParseFloat("abc"); err == nil {
		t.Fatal("expected error for non-numeric token")
	}
}

func TestReadScalar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rin")
	if err := os.WriteFile(path, []byte("  rin = 0.0734\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := columns.ReadScalar(path)
	if err != nil {
		t.Fatalf("ReadScalar returned error: %v", err)
	}
	if got != 0.0734 {
		t.Fatalf("unexpected scalar: %v", got)
	}
}
