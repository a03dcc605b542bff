// Package schema builds the dynamic axis layout and the 2-D table of a record.
//
// An AxisMap is grown as components load: wavelength first, then each loaded
// component one past the current highest index. A Draft is the mutable table
// under construction; Finalize freezes it into a Table that nothing can
// modify, which is how extinction correction is kept to a single pass.
package schema

import (
	"fmt"
	"strings"

	"collator/internal/components"
)

// AxisMap is an ordered mapping from component kind to table row index.
type AxisMap struct {
	kinds []components.Kind
}

// NewAxisMap returns a map holding kinds at indices 0..n-1.
func NewAxisMap(kinds ...components.Kind) AxisMap {
	return AxisMap{kinds: append([]components.Kind(nil), kinds...)}
}

// AxisMapFromIndices rebuilds a map from stored kind/index pairs. Indices
// must be exactly 0..len-1.
func AxisMapFromIndices(indices map[components.Kind]int) (AxisMap, error) {
	kinds := make([]components.Kind, len(indices))
	seen := make([]bool, len(indices))
	for kind, idx := range indices {
		if idx < 0 || idx >= len(indices) || seen[idx] {
			return AxisMap{}, fmt.Errorf("axis %s has invalid index %d", kind, idx)
		}
		seen[idx] = true
		kinds[idx] = kind
	}
	return AxisMap{kinds: kinds}, nil
}

func (m *AxisMap) add(kind components.Kind) int {
	m.kinds = append(m.kinds, kind)
	return len(m.kinds) - 1
}

// Index returns the row of kind.
func (m AxisMap) Index(kind components.Kind) (int, bool) {
	for i, k := range m.kinds {
		if k == kind {
			return i, true
		}
	}
	return 0, false
}

// Has reports whether kind is present.
func (m AxisMap) Has(kind components.Kind) bool {
	_, ok := m.Index(kind)
	return ok
}

// Len returns the number of axes.
func (m AxisMap) Len() int { return len(m.kinds) }

// Kinds returns the kinds in index order.
func (m AxisMap) Kinds() []components.Kind {
	return append([]components.Kind(nil), m.kinds...)
}

func (m AxisMap) String() string {
	parts := make([]string, len(m.kinds))
	for i, k := range m.kinds {
		parts[i] = fmt.Sprintf("%s:%d", k, i)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
