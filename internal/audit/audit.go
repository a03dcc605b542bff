package audit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"collator/internal/failures"
	"collator/internal/record"
	"collator/internal/services"
)

// Kind selects which family of records an audit covers.
type Kind int

const (
	// Disk selects full disk model records.
	Disk Kind = iota
	// OptThin selects optically thin dust records.
	OptThin
)

func (k Kind) String() string {
	if k == OptThin {
		return "optthin"
	}
	return "disk"
}

// ParseKind converts "disk" or "optthin".
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "disk":
		return Disk, nil
	case "optthin", "otd":
		return OptThin, nil
	default:
		return Disk, fmt.Errorf("unknown record kind %q (want disk or optthin)", value)
	}
}

const optThinMarker = "_OTD_"

func (k Kind) matches(name string) bool {
	return strings.Contains(name, optThinMarker) == (k == OptThin)
}

// Failure is one flagged record.
type Failure struct {
	Path    string
	Object  string
	JobID   string
	Reasons []failures.Reason
}

// Unreadable is a record file whose header could not be read.
type Unreadable struct {
	Path string
	Err  error
}

// Report is the result of ScanFailures.
type Report struct {
	Scanned    int
	Failed     []Failure
	Unreadable []Unreadable
}

// ScanFailures reads every record of kind in dir whose file name starts with
// prefix and returns those with the failure flag set. A record without the
// flag counts as not failed. Unreadable files are reported, not fatal.
func ScanFailures(dir, prefix string, kind Kind) (Report, error) {
	paths, err := recordPaths(dir, prefix, kind)
	if err != nil {
		return Report{}, err
	}
	var rep Report
	for _, path := range paths {
		h, err := headers.Read(path)
		if err != nil {
			rep.Unreadable = append(rep.Unreadable, Unreadable{Path: path, Err: err})
			continue
		}
		rep.Scanned++
		if !h.Failed() {
			continue
		}
		rep.Failed = append(rep.Failed, Failure{
			Path:    path,
			Object:  h.Object(),
			JobID:   h.JobID(),
			Reasons: h.Reasons(),
		})
	}
	return rep, nil
}

// DumpMetadata returns every tag of the record for object and jobID.
func DumpMetadata(dir, object, jobID string, kind Kind) ([]record.Tag, error) {
	path := filepath.Join(dir, record.FileName(object, jobID, kind == OptThin))
	h, err := headers.Read(path)
	if err != nil {
		return nil, err
	}
	return h.Tags(), nil
}

func recordPaths(dir, prefix string, kind Kind) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "audit", "read directory", dir, err)
		}
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".fits") || !strings.HasPrefix(name, prefix) {
			continue
		}
		if !kind.matches(name) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}
