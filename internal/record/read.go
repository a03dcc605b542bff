package record

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/astrogo/fitsio"

	"collator/internal/components"
	"collator/internal/failures"
	"collator/internal/schema"
	"collator/internal/services"
)

// structural keys are managed by the container and not exposed as tags.
var structural = map[string]struct{}{
	"SIMPLE": {}, "BITPIX": {}, "NAXIS": {}, "EXTEND": {}, "END": {},
	"COMMENT": {}, "HISTORY": {}, "PCOUNT": {}, "GCOUNT": {}, "XTENSION": {},
	"BZERO": {}, "BSCALE": {},
}

func isStructural(key string) bool {
	if _, ok := structural[key]; ok {
		return true
	}
	return strings.HasPrefix(key, "NAXIS")
}

// Header is the tag set of a stored record.
type Header struct {
	tags  []Tag
	index map[string]int
}

func newHeader(tags []Tag) Header {
	index := make(map[string]int, len(tags))
	for i, t := range tags {
		if _, dup := index[t.Key]; !dup {
			index[t.Key] = i
		}
	}
	return Header{tags: tags, index: index}
}

// Tags returns the tags in file order.
func (h Header) Tags() []Tag { return append([]Tag(nil), h.tags...) }

// Get returns the raw value of key.
func (h Header) Get(key string) (any, bool) {
	i, ok := h.index[key]
	if !ok {
		return nil, false
	}
	return h.tags[i].Value, true
}

// Float returns a numeric tag.
func (h Header) Float(key string) (float64, bool) {
	v, ok := h.Get(key)
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// Int returns an integer tag.
func (h Header) Int(key string) (int, bool) {
	f, ok := h.Float(key)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// String returns a tag rendered as text.
func (h Header) String(key string) (string, bool) {
	v, ok := h.Get(key)
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s), true
	}
	return fmt.Sprint(v), true
}

// Bool returns a logical tag. Numeric tags read as true when non-zero.
func (h Header) Bool(key string) (bool, bool) {
	v, ok := h.Get(key)
	if !ok {
		return false, false
	}
	if b, ok := v.(bool); ok {
		return b, true
	}
	if f, ok := toFloat(v); ok {
		return f != 0, true
	}
	return false, false
}

// Failed reports the failure flag. A record without the tag is not failed.
func (h Header) Failed() bool {
	failed, _ := h.Bool(KeyFailed)
	return failed
}

// Reasons returns the stored failure reasons.
func (h Header) Reasons() []failures.Reason {
	s, _ := h.String(KeyReasons)
	return failures.ParseReasons(s)
}

// OptThin reports whether the record is an optically thin model.
func (h Header) OptThin() bool {
	v, _ := h.Bool(KeyOptThin)
	return v
}

// ExtinctionApplied reports the EXTCORR flag.
func (h Header) ExtinctionApplied() bool {
	v, _ := h.Bool(KeyExtinction)
	return v
}

// Object returns OBJNAME.
func (h Header) Object() string {
	s, _ := h.String(KeyObject)
	return s
}

// JobID returns JOBNUM.
func (h Header) JobID() string {
	s, _ := h.String(KeyJob)
	return s
}

// AxisMap rebuilds the axis map from the index tags.
func (h Header) AxisMap() (schema.AxisMap, error) {
	indices := make(map[components.Kind]int)
	for _, kind := range axisKinds {
		if idx, ok := h.Int(kind.AxisTag()); ok {
			indices[kind] = idx
		}
	}
	return schema.AxisMapFromIndices(indices)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func open(path string) (*os.File, *fitsio.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, services.Wrap(services.ErrNotFound, "read", "open", path, err)
		}
		return nil, nil, err
	}
	f, err := fitsio.Open(file)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("%s: decode fits: %w", path, err)
	}
	return file, f, nil
}

func headerOf(hdu fitsio.HDU) Header {
	hdr := hdu.Header()
	keys := hdr.Keys()
	tags := make([]Tag, 0, len(keys))
	for _, key := range keys {
		if isStructural(key) {
			continue
		}
		card := hdr.Get(key)
		if card == nil {
			continue
		}
		value := card.Value
		if s, ok := value.(string); ok {
			// FITS pads string values to eight characters.
			value = strings.TrimRight(s, " ")
		}
		tags = append(tags, Tag{Key: card.Name, Value: value, Comment: card.Comment})
	}
	return newHeader(tags)
}

// ReadHeader returns the tags of the record at path.
func ReadHeader(path string) (Header, error) {
	file, f, err := open(path)
	if err != nil {
		return Header{}, err
	}
	defer file.Close()
	defer f.Close()
	return headerOf(f.HDU(0)), nil
}
