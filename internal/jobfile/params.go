package jobfile

import (
	"strconv"
	"strings"
)

// MaxTagKeyLength is the widest metadata key a record may carry.
const MaxTagKeyLength = 8

var renames = map[string]string{
	"DISTANCIA":          "DISTANCE",
	"FUDGETROI":          "FUDGETRO",
	"FRACFORST":          "FRACFORS",
	"AMORPFRAC_OLIVINE":  "AMORF_OL",
	"AMORPFRAC_PYROXENE": "AMORF_PY",
	"WLCUT_ANGLE":        "WLCUT_AN",
	"WLCUT_SCATT":        "WLCUT_SC",
	"NSILCOMPOUNDS":      "NSILCOMP",
	"SILTOTABUN":         "SILTOTAB",
	"FORSTERITE_FRAC":    "FORSTERI",
	"ENSTATITE_FRAC":     "ENSTATIT",
}

// TagKey returns the record key used for a job-file parameter name.
func TagKey(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if key, ok := renames[name]; ok {
		return key
	}
	return name
}

// Value is a scalar extracted from a job file: a number, or text when the
// assignment does not hold a number.
type Value struct {
	Number float64
	Text   string
	IsText bool
}

// Float constructs a numeric value.
func Float(v float64) Value { return Value{Number: v} }

// Text constructs a text value.
func Text(s string) Value { return Value{Text: s, IsText: true} }

func (v Value) String() string {
	if v.IsText {
		return v.Text
	}
	return strconv.FormatFloat(v.Number, 'g', -1, 64)
}

// Param is one extracted parameter.
type Param struct {
	// Name is the parameter as spelled in the job file.
	Name string
	// Key is the renamed record tag.
	Key   string
	Value Value
}

// ParameterSet holds the parameters of one job in extraction order. It is
// built once by Parse and never modified afterwards.
type ParameterSet struct {
	jobID  string
	params []Param
	index  map[string]int
}

func newParameterSet(jobID string, params []Param) ParameterSet {
	index := make(map[string]int, len(params)*2)
	for i, p := range params {
		index[p.Key] = i
		index[p.Name] = i
	}
	return ParameterSet{jobID: jobID, params: params, index: index}
}

// JobID returns the job label the set was parsed for.
func (s ParameterSet) JobID() string { return s.jobID }

// Len returns the number of parameters.
func (s ParameterSet) Len() int { return len(s.params) }

// Params returns a copy of the parameters in extraction order.
func (s ParameterSet) Params() []Param {
	out := make([]Param, len(s.params))
	copy(out, s.params)
	return out
}

// Get looks a parameter up by tag key or job-file name.
func (s ParameterSet) Get(name string) (Value, bool) {
	i, ok := s.index[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Value{}, false
	}
	return s.params[i].Value, true
}

// Float returns a numeric parameter.
func (s ParameterSet) Float(name string) (float64, bool) {
	v, ok := s.Get(name)
	if !ok || v.IsText {
		return 0, false
	}
	return v.Number, true
}
