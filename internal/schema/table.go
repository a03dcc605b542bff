package schema

import (
	"fmt"

	"collator/internal/components"
	"collator/internal/services"
)

// Draft is a table under construction. Rows follow the AxisMap.
type Draft struct {
	axes      AxisMap
	rows      [][]float64
	corrected bool
	finalized bool
}

// Axes returns the current axis map.
func (d *Draft) Axes() AxisMap { return d.axes }

// GridSize returns the row length, zero for an empty draft.
func (d *Draft) GridSize() int {
	if len(d.rows) == 0 {
		return 0
	}
	return len(d.rows[0])
}

// Row returns a read-only copy of the row for kind.
func (d *Draft) Row(kind components.Kind) ([]float64, bool) {
	idx, ok := d.axes.Index(kind)
	if !ok {
		return nil, false
	}
	return append([]float64(nil), d.rows[idx]...), true
}

// Mutable returns the row for kind for in-place correction. It fails once
// the draft is finalized.
func (d *Draft) Mutable(kind components.Kind) ([]float64, bool, error) {
	if d.finalized {
		return nil, false, services.Wrap(services.ErrFinalized, "correct", kind.String(), "table already finalized", nil)
	}
	idx, ok := d.axes.Index(kind)
	if !ok {
		return nil, false, nil
	}
	return d.rows[idx], true, nil
}

// MarkCorrected records that extinction has been applied. It can succeed only
// once per draft and never after Finalize.
func (d *Draft) MarkCorrected() error {
	if d.finalized {
		return services.Wrap(services.ErrFinalized, "correct", "", "table already finalized", nil)
	}
	if d.corrected {
		return services.Wrap(services.ErrAlreadyCorrected, "correct", "", "", nil)
	}
	d.corrected = true
	return nil
}

// Corrected reports whether extinction has been applied.
func (d *Draft) Corrected() bool { return d.corrected }

// Drop removes the axis for kind, renumbering later axes.
func (d *Draft) Drop(kind components.Kind) error {
	if d.finalized {
		return services.Wrap(services.ErrFinalized, "assemble", kind.String(), "table already finalized", nil)
	}
	idx, ok := d.axes.Index(kind)
	if !ok {
		return nil
	}
	d.axes.kinds = append(d.axes.kinds[:idx:idx], d.axes.kinds[idx+1:]...)
	d.rows = append(d.rows[:idx:idx], d.rows[idx+1:]...)
	return nil
}

func (d *Draft) append(kind components.Kind, values []float64) error {
	if d.finalized {
		return services.Wrap(services.ErrFinalized, "assemble", kind.String(), "table already finalized", nil)
	}
	if d.axes.Has(kind) {
		return fmt.Errorf("assemble: axis %s already present", kind)
	}
	if len(d.rows) > 0 && len(values) != d.GridSize() {
		return services.Wrap(services.ErrGridMismatch, "assemble", kind.String(),
			fmt.Sprintf("%d rows, grid has %d", len(values), d.GridSize()), nil)
	}
	d.axes.add(kind)
	d.rows = append(d.rows, append([]float64(nil), values...))
	return nil
}

// Finalize freezes the draft. Later mutation attempts fail with ErrFinalized.
func (d *Draft) Finalize() Table {
	d.finalized = true
	rows := make([][]float64, len(d.rows))
	for i, r := range d.rows {
		rows[i] = append([]float64(nil), r...)
	}
	return Table{axes: NewAxisMap(d.axes.kinds...), rows: rows, corrected: d.corrected}
}

// Table is an immutable assembled table.
type Table struct {
	axes      AxisMap
	rows      [][]float64
	corrected bool
}

// NewTable builds a table from stored rows, checking that the row count
// matches the axis map and that rows are rectangular.
func NewTable(axes AxisMap, rows [][]float64, corrected bool) (Table, error) {
	if len(rows) != axes.Len() {
		return Table{}, services.Wrap(services.ErrGridMismatch, "read", "", fmt.Sprintf("%d rows for %d axes", len(rows), axes.Len()), nil)
	}
	for i, r := range rows {
		if len(r) != len(rows[0]) {
			return Table{}, services.Wrap(services.ErrGridMismatch, "read", "", fmt.Sprintf("row %d has %d values, row 0 has %d", i, len(r), len(rows[0])), nil)
		}
	}
	copied := make([][]float64, len(rows))
	for i, r := range rows {
		copied[i] = append([]float64(nil), r...)
	}
	return Table{axes: NewAxisMap(axes.kinds...), rows: copied, corrected: corrected}, nil
}

// Axes returns the axis map.
func (t Table) Axes() AxisMap { return NewAxisMap(t.axes.kinds...) }

// GridSize returns the row length.
func (t Table) GridSize() int {
	if len(t.rows) == 0 {
		return 0
	}
	return len(t.rows[0])
}

// Corrected reports whether extinction was applied before finalizing.
func (t Table) Corrected() bool { return t.corrected }

// Row returns a copy of the row for kind.
func (t Table) Row(kind components.Kind) ([]float64, bool) {
	idx, ok := t.axes.Index(kind)
	if !ok {
		return nil, false
	}
	return append([]float64(nil), t.rows[idx]...), true
}

// Flat returns the rows concatenated in axis order.
func (t Table) Flat() []float64 {
	out := make([]float64, 0, len(t.rows)*t.GridSize())
	for _, r := range t.rows {
		out = append(out, r...)
	}
	return out
}
