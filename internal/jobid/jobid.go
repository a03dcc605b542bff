// Package jobid formats and parses numeric job labels.
//
// Model runs are numbered; file names carry the number zero-padded to three
// digits, or four digits for grids that exceed 999 jobs.
package jobid

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Max is the largest representable job number.
const Max = 9999

// ErrOutOfRange reports a job number that cannot be rendered as a label.
var ErrOutOfRange = errors.New("job number out of range")

// Format renders n as a job label. Labels are three digits wide unless n
// exceeds 999 or high is set, in which case they are four digits wide.
func Format(n int, high bool) (string, error) {
	if n < 0 || n > Max {
		return "", fmt.Errorf("%w: %d (allowed 0..%d)", ErrOutOfRange, n, Max)
	}
	if high || n > 999 {
		return fmt.Sprintf("%04d", n), nil
	}
	return fmt.Sprintf("%03d", n), nil
}

// Parse reads a job label or bare number.
func Parse(label string) (int, error) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return 0, errors.New("empty job label")
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("job label %q: %w", label, err)
	}
	if n < 0 || n > Max {
		return 0, fmt.Errorf("%w: %d (allowed 0..%d)", ErrOutOfRange, n, Max)
	}
	return n, nil
}

// ParseList expands a comma-separated list of numbers and inclusive ranges,
// such as "1-5,9,12-14", into a sorted slice without duplicates.
func ParseList(spec string) ([]int, error) {
	seen := make(map[int]struct{})
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange {
			n, err := Parse(part)
			if err != nil {
				return nil, err
			}
			seen[n] = struct{}{}
			continue
		}
		start, err := Parse(lo)
		if err != nil {
			return nil, err
		}
		end, err := Parse(hi)
		if err != nil {
			return nil, err
		}
		if end < start {
			return nil, fmt.Errorf("job range %q is descending", part)
		}
		for n := start; n <= end; n++ {
			seen[n] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil, errors.New("job list is empty")
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// FormatAll renders every number in ns with Format.
func FormatAll(ns []int, high bool) ([]string, error) {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		label, err := Format(n, high)
		if err != nil {
			return nil, err
		}
		out = append(out, label)
	}
	return out, nil
}
