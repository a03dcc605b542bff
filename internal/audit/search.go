package audit

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"collator/internal/columns"
	"collator/internal/record"
)

var (
	upper = cases.Upper(language.Und)
	fold  = cases.Fold()
)

// Criterion requires a tag to equal a value. Numeric values compare as
// numbers; anything else compares as case-insensitive text.
type Criterion struct {
	Key   string
	Value string
}

// ParseCriteria converts KEY=VALUE arguments.
func ParseCriteria(args []string) ([]Criterion, error) {
	out := make([]Criterion, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("criterion %q: want KEY=VALUE", arg)
		}
		out = append(out, Criterion{Key: key, Value: strings.TrimSpace(value)})
	}
	return out, nil
}

func (c Criterion) matches(h record.Header) bool {
	key := upper.String(strings.TrimSpace(c.Key))
	if want, err := columns.ParseFloat(c.Value); err == nil {
		if got, ok := h.Float(key); ok {
			return closeEnough(got, want)
		}
	}
	got, ok := h.String(key)
	if !ok {
		return false
	}
	return fold.String(got) == fold.String(c.Value)
}

func closeEnough(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

// Search returns the job labels of object's disk records in dir whose tags
// satisfy every criterion. Optically thin records are never matched and
// unreadable records are skipped.
func Search(dir, object string, criteria []Criterion) ([]string, error) {
	paths, err := recordPaths(dir, object+"_", Disk)
	if err != nil {
		return nil, err
	}
	var jobs []string
	for _, path := range paths {
		h, err := headers.Read(path)
		if err != nil {
			continue
		}
		if h.OptThin() || h.Object() != object {
			continue
		}
		ok := true
		for _, c := range criteria {
			if !c.matches(h) {
				ok = false
				break
			}
		}
		if ok {
			jobs = append(jobs, h.JobID())
		}
	}
	sort.Slice(jobs, func(i, j int) bool {
		a, errA := strconv.Atoi(jobs[i])
		b, errB := strconv.Atoi(jobs[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return jobs[i] < jobs[j]
	})
	return jobs, nil
}
