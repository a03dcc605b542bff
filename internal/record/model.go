package record

import (
	"fmt"

	"github.com/astrogo/fitsio"

	"collator/internal/components"
	"collator/internal/schema"
)

// Model is a record loaded for analysis.
type Model struct {
	Path   string
	Header Header
	Table  schema.Table
}

// Read loads the header and table of the record at path.
func Read(path string) (*Model, error) {
	file, f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	defer f.Close()

	hdu := f.HDU(0)
	header := headerOf(hdu)
	axes, err := header.AxisMap()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var rows [][]float64
	dims := hdu.Header().Axes()
	if len(dims) == 2 && dims[0] > 0 && dims[1] > 0 {
		img, ok := hdu.(fitsio.Image)
		if !ok {
			return nil, fmt.Errorf("%s: primary hdu is not an image", path)
		}
		grid, naxes := dims[0], dims[1]
		// fitsio fills a pre-sized slice; it cannot grow a nil one.
		flat := make([]float64, grid*naxes)
		if err := img.Read(&flat); err != nil {
			return nil, fmt.Errorf("%s: read image: %w", path, err)
		}
		if len(flat) != grid*naxes {
			return nil, fmt.Errorf("%s: image has %d values, want %d", path, len(flat), grid*naxes)
		}
		rows = make([][]float64, naxes)
		for i := range rows {
			rows[i] = flat[i*grid : (i+1)*grid]
		}
	}

	table, err := schema.NewTable(axes, rows, header.ExtinctionApplied())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Model{Path: path, Header: header, Table: table}, nil
}

// Column returns the row of kind.
func (m *Model) Column(kind components.Kind) ([]float64, error) {
	row, ok := m.Table.Row(kind)
	if !ok {
		return nil, fmt.Errorf("%s: record has no %s axis", m.Path, kind)
	}
	return row, nil
}

// Total sums the flux rows of kinds. With no kinds it sums every flux axis
// present. Wavelength and extinction are not flux and cannot be summed.
func (m *Model) Total(kinds ...components.Kind) ([]float64, error) {
	if len(kinds) == 0 {
		for _, kind := range m.Table.Axes().Kinds() {
			if isFlux(kind) {
				kinds = append(kinds, kind)
			}
		}
	}
	total := make([]float64, m.Table.GridSize())
	for _, kind := range kinds {
		if !isFlux(kind) {
			return nil, fmt.Errorf("%s is not a flux component", kind)
		}
		row, err := m.Column(kind)
		if err != nil {
			return nil, err
		}
		for i, v := range row {
			total[i] += v
		}
	}
	return total, nil
}

func isFlux(kind components.Kind) bool {
	return kind != components.Wavelength && kind != components.Extinction
}
