// Package extinction applies disk self-extinction to the photosphere and wall.
package extinction

import (
	"math"

	"collator/internal/components"
	"collator/internal/schema"
	"collator/internal/services"
)

// Targets are the axes attenuated by the disk extinction column.
var Targets = []components.Kind{components.Photosphere, components.Wall}

// Available reports whether the loaded disk component carries extinction.
func Available(cols map[components.Kind]components.Column) bool {
	disk, ok := cols[components.Disk]
	return ok && len(disk.Extinction) > 0
}

// Correct multiplies every present target row by exp(-extinction). The draft
// must hold an extinction axis, and may be corrected only once and only
// before it is finalized. The extinction row itself is never modified.
func Correct(d *schema.Draft) error {
	ext, ok := d.Row(components.Extinction)
	if !ok {
		return services.Wrap(services.ErrDependency, "correct", "extinction", "disk extinction column unavailable", nil)
	}
	if err := d.MarkCorrected(); err != nil {
		return err
	}
	for _, kind := range Targets {
		row, ok, err := d.Mutable(kind)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		for i := range row {
			// Negative or NaN optical depths leave the sample unchanged.
			if tau := ext[i]; tau > 0 {
				row[i] *= math.Exp(-tau)
			}
		}
	}
	return nil
}
