package jobfile

import (
	"fmt"
	"regexp"
	"strings"

	"collator/internal/columns"
)

// Candidate is one entry of a menu parameter.
type Candidate struct {
	Token string
	Value float64
}

// Menu describes a parameter written as a list of candidate assignments, one
// per line, of which exactly one is active (not commented out):
//
//	#set EPS='0.001'
//	set EPS='0.01'
//	#set EPS='0.1'
type Menu struct {
	// Variable is the shell variable assigned on each candidate line.
	Variable string
	// Prefix precedes the token inside the quotes, e.g. "amax" in 'amax0p25'.
	Prefix string
	// Decimal replaces '.' in tokens, e.g. 'p' in "0p25".
	Decimal    string
	Candidates []Candidate
	line       *regexp.Regexp
}

func newMenu(variable, prefix, decimal string, candidates ...Candidate) *Menu {
	return &Menu{
		Variable:   variable,
		Prefix:     prefix,
		Decimal:    decimal,
		Candidates: candidates,
		line: regexp.MustCompile(`(?m)^[ \t]*(#*)[ \t]*set[ \t]+` + regexp.QuoteMeta(variable) +
			`[ \t]*=[ \t]*'` + regexp.QuoteMeta(prefix) + `([^']*)'`),
	}
}

// Active returns the value of the single uncommented candidate.
func (m *Menu) Active(text string) (float64, error) {
	matches := m.line.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("no %s menu lines found", m.Variable)
	}
	var active []string
	for _, match := range matches {
		if match[1] == "" {
			active = append(active, strings.TrimSpace(match[2]))
		}
	}
	switch len(active) {
	case 0:
		return 0, fmt.Errorf("no active %s menu entry among %d candidates", m.Variable, len(matches))
	case 1:
	default:
		return 0, fmt.Errorf("%d active %s menu entries (%s), expected exactly one", len(active), m.Variable, strings.Join(active, ", "))
	}
	return m.lookup(active[0])
}

func (m *Menu) lookup(token string) (float64, error) {
	for _, c := range m.Candidates {
		if c.Token == token {
			return c.Value, nil
		}
	}
	numeric := token
	if m.Decimal != "" {
		numeric = strings.Replace(numeric, m.Decimal, ".", 1)
	}
	if v, err := columns.ParseFloat(numeric); err == nil {
		for _, c := range m.Candidates {
			if c.Value == v {
				return c.Value, nil
			}
		}
	}
	return 0, fmt.Errorf("active %s entry %q is not a known candidate", m.Variable, token)
}

func (m *Menu) extract(text string) (Value, error) {
	v, err := m.Active(text)
	if err != nil {
		return Value{}, err
	}
	return Float(v), nil
}

// MillimetreGrains is the grain size, in microns, of the "1mm" menu entry.
const MillimetreGrains = 1000.0

func diskGrainMenu() *Menu {
	return newMenu("AMAXS", "", "",
		Candidate{"0.05", 0.05},
		Candidate{"0.1", 0.1},
		Candidate{"0.25", 0.25},
		Candidate{"0.5", 0.5},
		Candidate{"1.0", 1.0},
		Candidate{"2.0", 2.0},
		Candidate{"3.0", 3.0},
		Candidate{"4.0", 4.0},
		Candidate{"5.0", 5.0},
		Candidate{"10.0", 10.0},
		Candidate{"100.0", 100.0},
		Candidate{"1mm", MillimetreGrains},
	)
}

func settlingMenu() *Menu {
	return newMenu("EPS", "", "",
		Candidate{"0.0001", 0.0001},
		Candidate{"0.001", 0.001},
		Candidate{"0.01", 0.01},
		Candidate{"0.1", 0.1},
		Candidate{"0.2", 0.2},
		Candidate{"0.5", 0.5},
		Candidate{"1.0", 1.0},
	)
}

func optThinGrainMenu() *Menu {
	return newMenu("lamax", "amax", "p",
		Candidate{"0p05", 0.05},
		Candidate{"0p1", 0.1},
		Candidate{"0p25", 0.25},
		Candidate{"0p5", 0.5},
		Candidate{"1p0", 1.0},
		Candidate{"2p0", 2.0},
		Candidate{"3p0", 3.0},
		Candidate{"4p0", 4.0},
		Candidate{"5p0", 5.0},
		Candidate{"10p0", 10.0},
		Candidate{"100p0", 100.0},
		Candidate{"1mm", MillimetreGrains},
	)
}
