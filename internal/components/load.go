package components

import (
	"fmt"

	"collator/internal/columns"
	"collator/internal/services"
)

// Column is a loaded component: its wavelength grid, its flux, and, for the
// disk component, the extinction sibling column.
type Column struct {
	Kind       Kind
	Source     string
	Wavelength []float64
	Flux       []float64
	Extinction []float64
}

// Len returns the grid size.
func (c Column) Len() int { return len(c.Flux) }

// Load reads the columns of a Found outcome. withExtinction additionally reads
// the layout's extinction column when it has one.
func Load(o Outcome, layout Layout, withExtinction bool) (Column, error) {
	if o.State != Found {
		return Column{}, services.Wrap(services.ErrMissingFile, "load", o.Kind.String(), "component not found", nil)
	}
	cols := []int{layout.WavelengthColumn, layout.FluxColumn}
	readExt := withExtinction && layout.ExtinctionColumn > 0
	if readExt {
		cols = append(cols, layout.ExtinctionColumn)
	}
	table, err := columns.ReadFile(o.Path, layout.HeaderLines, cols...)
	if err != nil {
		return Column{}, services.Wrap(nil, "load", o.Kind.String(), o.Path, err)
	}
	if table.Rows() == 0 {
		return Column{}, services.Wrap(services.ErrEmptyFile, "load", o.Kind.String(), fmt.Sprintf("%s has no data rows", o.Path), nil)
	}
	col := Column{
		Kind:       o.Kind,
		Source:     o.Path,
		Wavelength: table.Columns[0],
		Flux:       table.Columns[1],
	}
	if readExt {
		col.Extinction = table.Columns[2]
	}
	return col, nil
}
