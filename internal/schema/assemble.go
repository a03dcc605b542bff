package schema

import (
	"collator/internal/components"
)

// order is the fixed assembly order of flux components.
var order = []components.Kind{
	components.Photosphere,
	components.Wall,
	components.Disk,
	components.Scattered,
	components.Dust,
}

// ResolveWavelength returns the wavelength grid of the first loaded
// component in assembly order.
func ResolveWavelength(cols map[components.Kind]components.Column) ([]float64, components.Kind, bool) {
	for _, kind := range order {
		if col, ok := cols[kind]; ok && len(col.Wavelength) > 0 {
			return col.Wavelength, kind, true
		}
	}
	return nil, 0, false
}

// Assemble builds a draft from loaded components. The wavelength axis is
// always index 0 when anything loaded; each component adds one flux axis in
// assembly order; when withExtinction is set and the disk column carries an
// extinction sibling, it is appended last. Components with a different grid
// size fail with ErrGridMismatch. With no components the draft has no axes.
func Assemble(cols map[components.Kind]components.Column, withExtinction bool) (*Draft, error) {
	d := &Draft{}
	wl, _, ok := ResolveWavelength(cols)
	if !ok {
		return d, nil
	}
	if err := d.append(components.Wavelength, wl); err != nil {
		return nil, err
	}
	for _, kind := range order {
		col, ok := cols[kind]
		if !ok {
			continue
		}
		if err := d.append(kind, col.Flux); err != nil {
			return nil, err
		}
	}
	if withExtinction {
		if disk, ok := cols[components.Disk]; ok && len(disk.Extinction) > 0 {
			if err := d.append(components.Extinction, disk.Extinction); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}
