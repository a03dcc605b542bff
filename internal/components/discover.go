package components

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"collator/internal/config"
)

// State classifies one component lookup.
type State int

const (
	Missing State = iota
	Found
	Empty
	Disabled
)

func (s State) String() string {
	switch s {
	case Found:
		return "found"
	case Empty:
		return "empty"
	case Disabled:
		return "disabled"
	default:
		return "missing"
	}
}

// Outcome is the result of locating one component file.
type Outcome struct {
	Kind  Kind
	State State
	Path  string
	Size  int64
}

// Usable reports whether the component can be loaded.
func (o Outcome) Usable() bool { return o.State == Found }

// Layout describes how a component file is named and which 1-based columns
// carry the wavelength, flux, and optional extinction.
type Layout struct {
	Pattern          string
	HeaderLines      int
	WavelengthColumn int
	FluxColumn       int
	ExtinctionColumn int
}

// Locator finds the component files of one job.
type Locator struct {
	Dir     string
	Object  string
	JobID   string
	Layouts map[Kind]Layout
	// Skip forces kinds to Disabled regardless of what is on disk.
	Skip map[Kind]bool
}

// Glob expands a layout pattern for an object and job. Placeholder values are
// escaped so object names cannot inject wildcards.
func Glob(pattern, object, jobID string) string {
	r := strings.NewReplacer("{object}", escapeGlob(object), "{job}", escapeGlob(jobID))
	return r.Replace(pattern)
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Locate classifies one kind. When several files match, the first in
// lexical order is used.
func (l Locator) Locate(kind Kind) (Outcome, error) {
	out := Outcome{Kind: kind, State: Missing}
	if l.Skip[kind] {
		out.State = Disabled
		return out, nil
	}
	layout, ok := l.Layouts[kind]
	if !ok {
		return out, fmt.Errorf("no layout for component %s", kind)
	}
	path, err := findFirst(l.Dir, Glob(layout.Pattern, l.Object, l.JobID))
	if err != nil || path == "" {
		return out, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return out, fmt.Errorf("stat %s: %w", path, err)
	}
	out.Path = path
	out.Size = info.Size()
	if info.Size() == 0 {
		out.State = Empty
	} else {
		out.State = Found
	}
	return out, nil
}

// LocateAll classifies each kind in order.
func (l Locator) LocateAll(kinds []Kind) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(kinds))
	for _, kind := range kinds {
		o, err := l.Locate(kind)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

// FindFile returns the first regular file in dir matching the expanded
// pattern, or "" when nothing matches.
func FindFile(dir, pattern, object, jobID string) (string, error) {
	return findFirst(dir, Glob(pattern, object, jobID))
}

func findFirst(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(escapeGlob(dir), pattern))
	if err != nil {
		return "", fmt.Errorf("bad component pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		return m, nil
	}
	return "", nil
}

// LayoutsFromConfig maps the configured component layouts to kinds.
func LayoutsFromConfig(cfg *config.Config) map[Kind]Layout {
	c := cfg.Components
	return map[Kind]Layout{
		Photosphere: Layout(c.Photosphere),
		Wall:        Layout(c.Wall),
		Disk:        Layout(c.Disk),
		Scattered:   Layout(c.Scattered),
		Dust:        Layout(c.Dust),
	}
}

// SkipFromConfig returns the kinds listed in collate.disabled.
func SkipFromConfig(cfg *config.Config) map[Kind]bool {
	skip := make(map[Kind]bool, len(cfg.Collate.Disabled))
	for _, name := range cfg.Collate.Disabled {
		if kind, ok := ParseKind(name); ok {
			skip[kind] = true
		}
	}
	return skip
}
