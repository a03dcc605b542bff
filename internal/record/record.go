package record

import (
	"fmt"

	"collator/internal/components"
	"collator/internal/failures"
	"collator/internal/jobfile"
	"collator/internal/schema"
)

// Header keys written by every record besides the job parameters.
const (
	KeyInnerRadius = "RIN"
	KeyObject      = "OBJNAME"
	KeyJob         = "JOBNUM"
	KeyOptThin     = "OPTTHIN"
	KeyExtinction  = "EXTCORR"
	KeyFailed      = "FAILED"
	KeyReasons     = "FAILRSN"
)

// Tag is one header card.
type Tag struct {
	Key     string
	Value   any
	Comment string
}

// Record is one collated job ready to be written.
type Record struct {
	Object  string
	JobID   string
	OptThin bool
	Params  []jobfile.Param
	// InnerRadius is nil when the rin file was unavailable.
	InnerRadius *float64
	Table       schema.Table
	Reasons     []failures.Reason
}

// Failed reports whether the record carries any failure reason.
func (r Record) Failed() bool { return len(r.Reasons) > 0 }

// FileName returns the record file name for a job.
func FileName(object, jobID string, optThin bool) string {
	if optThin {
		return object + "_OTD_" + jobID + ".fits"
	}
	return object + "_" + jobID + ".fits"
}

// Tags returns the header cards in write order.
func (r Record) Tags() []Tag {
	tags := make([]Tag, 0, len(r.Params)+12)
	for _, p := range r.Params {
		var value any = p.Value.Number
		if p.Value.IsText {
			value = p.Value.Text
		}
		tags = append(tags, Tag{Key: p.Key, Value: value})
	}
	if r.InnerRadius != nil {
		tags = append(tags, Tag{Key: KeyInnerRadius, Value: *r.InnerRadius, Comment: "inner radius"})
	}
	tags = append(tags,
		Tag{Key: KeyObject, Value: r.Object},
		Tag{Key: KeyJob, Value: r.JobID},
	)
	for i, kind := range r.Table.Axes().Kinds() {
		tags = append(tags, Tag{Key: kind.AxisTag(), Value: i, Comment: kind.String() + " row"})
	}
	if r.OptThin {
		tags = append(tags, Tag{Key: KeyOptThin, Value: 1})
	}
	tags = append(tags,
		Tag{Key: KeyExtinction, Value: r.Table.Corrected(), Comment: "self-extinction applied"},
		Tag{Key: KeyFailed, Value: r.Failed()},
	)
	if r.Failed() {
		tags = append(tags, Tag{Key: KeyReasons, Value: failures.JoinReasons(r.Reasons)})
	}
	return tags
}

func validateTags(tags []Tag) error {
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if len(tag.Key) == 0 || len(tag.Key) > jobfile.MaxTagKeyLength {
			return fmt.Errorf("header key %q must be 1 to %d characters", tag.Key, jobfile.MaxTagKeyLength)
		}
		if _, dup := seen[tag.Key]; dup {
			return fmt.Errorf("duplicate header key %q", tag.Key)
		}
		seen[tag.Key] = struct{}{}
	}
	return nil
}

// axisKinds lists the kinds whose index tags a reader looks for.
var axisKinds = components.Kinds()
