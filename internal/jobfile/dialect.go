package jobfile

import "strings"

// Dialect names the job file convention of one model family: where the job
// file lives, which parameters it carries, and how each one is read.
type Dialect struct {
	Name          string
	JobFilePrefix string
	Parameters    []string
	rules         map[string]rule
}

// DiskParameters lists the parameters recorded for full disk models.
var DiskParameters = []string{
	"MSTAR", "TSTAR", "RSTAR", "DISTANCIA", "MDOT", "ALPHA", "MUI", "RDISK",
	"AMAXS", "EPS", "WLCUT_ANGLE", "WLCUT_SCATT", "NSILCOMPOUNDS", "SILTOTABUN",
	"AMORPFRAC_OLIVINE", "AMORPFRAC_PYROXENE", "FORSTERITE_FRAC", "ENSTATITE_FRAC",
	"TEMP", "ALTINH", "TSHOCK",
}

// OptThinParameters lists the parameters recorded for optically thin dust models.
var OptThinParameters = []string{
	"TSTAR", "RSTAR", "DISTANCIA", "MUI", "ROUT", "RIN", "TAUMIN", "POWER",
	"FUDGEORG", "FUDGETROI", "FRACSIL", "FRACENT", "FRACFORST", "FRACAMC", "AMAXS",
}

// Disk returns the dialect of full disk model job files (job<NNN>).
func Disk() Dialect {
	return Dialect{
		Name:          "disk",
		JobFilePrefix: "job",
		Parameters:    append([]string(nil), DiskParameters...),
		rules: map[string]rule{
			"AMAXS":  diskGrainMenu(),
			"EPS":    settlingMenu(),
			"TEMP":   newPeriodRule("TEMP"),
			"TSHOCK": newPeriodRule("TSHOCK"),
			"ALTINH": newWhitespaceRule("ALTINH"),
		},
	}
}

// OptThin returns the dialect of optically thin job files (job_optthin<NNN>).
func OptThin() Dialect {
	return Dialect{
		Name:          "optthin",
		JobFilePrefix: "job_optthin",
		Parameters:    append([]string(nil), OptThinParameters...),
		rules: map[string]rule{
			"AMAXS": optThinGrainMenu(),
		},
	}
}

// WithParameters returns a copy of d that extracts names instead of the
// default list. Names without a special rule are read as quoted assignments.
func (d Dialect) WithParameters(names []string) Dialect {
	if len(names) == 0 {
		return d
	}
	params := make([]string, 0, len(names))
	for _, name := range names {
		params = append(params, strings.ToUpper(strings.TrimSpace(name)))
	}
	d.Parameters = params
	return d
}

// JobFileName returns the job file name for a job label.
func (d Dialect) JobFileName(jobID string) string {
	return d.JobFilePrefix + jobID
}

func (d Dialect) ruleFor(name string) rule {
	if r, ok := d.rules[name]; ok {
		return r
	}
	return newQuotedRule(name)
}
