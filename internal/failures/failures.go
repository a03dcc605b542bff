// Package failures turns degraded component outcomes into failure reasons.
//
// A job's failure flag is derived from its reason set: the job failed when at
// least one reason was recorded. Reasons only accumulate, so the flag never
// clears once set.
package failures

import (
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"collator/internal/components"
	"collator/internal/logging"
	"collator/internal/services"
)

// Reason names one degradation of a record.
type Reason string

const (
	MissingPhotosphere    Reason = "MissingPhotosphere"
	MissingWall           Reason = "MissingWall"
	MissingDisk           Reason = "MissingDisk"
	MissingScattered      Reason = "MissingScattered"
	MissingDust           Reason = "MissingDust"
	ExtinctionUnavailable Reason = "ExtinctionUnavailable"
	MissingInnerRadius    Reason = "MissingInnerRadius"
)

// ReasonFor maps a component kind to its missing-input reason.
func ReasonFor(kind components.Kind) Reason {
	switch kind {
	case components.Photosphere:
		return MissingPhotosphere
	case components.Wall:
		return MissingWall
	case components.Disk:
		return MissingDisk
	case components.Scattered:
		return MissingScattered
	case components.Dust:
		return MissingDust
	case components.Extinction:
		return ExtinctionUnavailable
	default:
		return Reason("Missing" + strings.ToUpper(kind.String()[:1]) + kind.String()[1:])
	}
}

// ParseReasons splits a comma-separated reason list.
func ParseReasons(value string) []Reason {
	var out []Reason
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, Reason(part))
		}
	}
	return out
}

// JoinReasons renders reasons as a comma-separated list.
func JoinReasons(reasons []Reason) string {
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

// Recorder accumulates the failure reasons of one job.
type Recorder struct {
	logger *slog.Logger
	set    *reasonSet
}

type reasonSet struct {
	mu      sync.Mutex
	reasons map[Reason]struct{}
}

// NewRecorder returns an empty recorder logging through logger.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Recorder{logger: logger, set: &reasonSet{reasons: make(map[Reason]struct{})}}
}

// WithLogger returns a recorder sharing r's reasons but logging through logger.
func (r *Recorder) WithLogger(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = r.logger
	}
	return &Recorder{logger: logger, set: r.set}
}

func (r *Recorder) add(reason Reason) {
	r.set.mu.Lock()
	r.set.reasons[reason] = struct{}{}
	r.set.mu.Unlock()
}

// Component inspects a discovery outcome and reports whether the component
// should be loaded. Missing and Empty outcomes are recorded and logged;
// Disabled outcomes are skipped silently.
func (r *Recorder) Component(o components.Outcome) bool {
	switch o.State {
	case components.Found:
		return true
	case components.Disabled:
		r.logger.Debug("component disabled", logging.String("kind", o.Kind.String()))
		return false
	}
	reason := ReasonFor(o.Kind)
	r.add(reason)
	msg := "component file missing; axis omitted"
	hint := "check that the model run produced this component"
	if o.State == components.Empty {
		msg = "component file empty; axis omitted"
		hint = "rerun the model for this job"
	}
	logging.WarnWithContext(r.logger, msg, "component_"+o.State.String(),
		logging.String("kind", o.Kind.String()),
		logging.String("path", o.Path),
		logging.String("reason", string(reason)),
		logging.String(logging.FieldErrorHint, hint),
		logging.String(logging.FieldImpact, "record flagged failed without this axis"),
	)
	return false
}

// LoadFailed records a component that was found but could not be loaded.
func (r *Recorder) LoadFailed(kind components.Kind, err error) {
	reason := ReasonFor(kind)
	r.add(reason)
	event := "component_unreadable"
	if errors.Is(err, services.ErrEmptyFile) {
		event = "component_empty"
	}
	logging.WarnWithContext(r.logger, "component file unreadable; axis omitted", event,
		logging.String("kind", kind.String()),
		logging.String("reason", string(reason)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "inspect the component file for truncation"),
	)
}

// Dependency records extinction requested without its disk input.
func (r *Recorder) Dependency(err error) {
	r.add(ExtinctionUnavailable)
	logging.WarnWithContext(r.logger, "extinction requested without disk extinction column; correction skipped", "extinction_unavailable",
		logging.String("reason", string(ExtinctionUnavailable)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the disk component output"),
		logging.String(logging.FieldImpact, "photosphere and wall left uncorrected; record flagged failed"),
	)
}

// InnerRadius records a missing or unreadable inner radius file.
func (r *Recorder) InnerRadius(path string, err error) {
	r.add(MissingInnerRadius)
	logging.WarnWithContext(r.logger, "inner radius unavailable; RIN tag omitted", "inner_radius_missing",
		logging.String("path", path),
		logging.String("reason", string(MissingInnerRadius)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the rin output of the model run"),
	)
}

// Failed reports whether any reason was recorded.
func (r *Recorder) Failed() bool {
	r.set.mu.Lock()
	defer r.set.mu.Unlock()
	return len(r.set.reasons) > 0
}

// Reasons returns the recorded reasons in lexical order.
func (r *Recorder) Reasons() []Reason {
	r.set.mu.Lock()
	out := make([]Reason, 0, len(r.set.reasons))
	for reason := range r.set.reasons {
		out = append(out, reason)
	}
	r.set.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
