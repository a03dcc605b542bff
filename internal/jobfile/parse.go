package jobfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"collator/internal/services"
)

// Parse extracts every parameter of d from a job file's text. The first
// parameter that cannot be read stops parsing with a *ViolationError.
func Parse(text, jobID string, d Dialect) (ParameterSet, error) {
	params := make([]Param, 0, len(d.Parameters))
	for _, name := range d.Parameters {
		value, err := d.ruleFor(name).extract(text)
		if err != nil {
			return ParameterSet{}, &ViolationError{JobID: jobID, Parameter: name, Reason: err.Error()}
		}
		params = append(params, Param{Name: name, Key: TagKey(name), Value: value})
	}
	return newParameterSet(jobID, params), nil
}

// ParseFile reads the job file for jobID from dir and parses it.
func ParseFile(dir, jobID string, d Dialect) (ParameterSet, error) {
	path := filepath.Join(dir, d.JobFileName(jobID))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ParameterSet{}, services.Wrap(services.ErrMissingFile, "parse", "read job file", path, err)
		}
		return ParameterSet{}, services.Wrap(nil, "parse", "read job file", path, err)
	}
	set, err := Parse(string(data), jobID, d)
	if err != nil {
		return ParameterSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}
