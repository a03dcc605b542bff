// Package columns reads whitespace-separated numeric text tables.
//
// Model outputs are plain columnar text with a fixed number of header lines.
// Fields that do not parse as numbers become quiet NaNs rather than errors,
// and Fortran double-precision exponents (1.0D-05) are accepted.
package columns

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ParseFloat parses a numeric token, accepting Fortran 'D' exponents.
func ParseFloat(token string) (float64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, errors.New("empty numeric token")
	}
	if strings.ContainsAny(token, "dD") {
		token = strings.NewReplacer("D", "E", "d", "e").Replace(token)
	}
	return strconv.ParseFloat(token, 64)
}

// Table holds the requested columns of a text file, one slice per column.
type Table struct {
	Columns [][]float64
}

// Rows returns the number of data rows.
func (t Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0])
}

// Read skips the first skip lines of r, then reads the requested 1-based
// columns from every remaining non-blank, non-comment line. A missing or
// non-numeric field is stored as NaN.
func Read(r io.Reader, skip int, cols ...int) (Table, error) {
	for _, c := range cols {
		if c < 1 {
			return Table{}, fmt.Errorf("column %d: columns are 1-based", c)
		}
	}
	out := Table{Columns: make([][]float64, len(cols))}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if line <= skip {
			continue
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		for i, c := range cols {
			value := math.NaN()
			if c <= len(fields) {
				if v, err := ParseFloat(fields[c-1]); err == nil {
					value = v
				}
			}
			out.Columns[i] = append(out.Columns[i], value)
		}
	}
	if err := scanner.Err(); err != nil {
		return Table{}, fmt.Errorf("scan table: %w", err)
	}
	return out, nil
}

// ReadFile opens path and calls Read.
func ReadFile(path string, skip int, cols ...int) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer file.Close()
	return Read(file, skip, cols...)
}

// ReadScalar returns the first numeric token in path.
func ReadScalar(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	for _, field := range strings.Fields(string(data)) {
		if v, err := ParseFloat(field); err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%s: no numeric value", path)
}
