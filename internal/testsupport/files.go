package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// MkdirAll creates dir or fails the test.
func MkdirAll(t testing.TB, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()
	MkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteEmpty creates a zero-length file.
func WriteEmpty(t testing.TB, path string) {
	t.Helper()
	WriteText(t, path, "")
}

// WriteTable writes header placeholder lines followed by whitespace-separated rows.
func WriteTable(t testing.TB, path string, headerLines int, rows [][]float64) {
	t.Helper()
	var b strings.Builder
	for i := 0; i < headerLines; i++ {
		b.WriteString("header line ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\n')
	}
	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(strconv.FormatFloat(v, 'E', 6, 64))
		}
		b.WriteByte('\n')
	}
	WriteText(t, path, b.String())
}

// Grid returns n wavelengths starting at 0.1 micron.
func Grid(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.1 * float64(i+1)
	}
	return out
}
