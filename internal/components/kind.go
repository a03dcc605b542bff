// Package components locates and loads the optional per-job component files.
//
// Each component kind has a file name pattern with {object} and {job}
// placeholders and a fixed column layout. Discovery classifies every kind as
// Found, Empty, Missing, or Disabled without failing; loading a Found file
// yields a Column of wavelengths and fluxes.
package components

// Kind is a closed enumeration of the table axes a record may carry.
type Kind int

const (
	Wavelength Kind = iota
	Photosphere
	Wall
	Disk
	Scattered
	Extinction
	Dust
)

var kindNames = [...]string{
	Wavelength:  "wavelength",
	Photosphere: "photosphere",
	Wall:        "wall",
	Disk:        "disk",
	Scattered:   "scattered",
	Extinction:  "extinction",
	Dust:        "dust",
}

var axisTags = [...]string{
	Wavelength:  "WLAXIS",
	Photosphere: "PHOTAXIS",
	Wall:        "WALLAXIS",
	Disk:        "ANGAXIS",
	Scattered:   "SCATAXIS",
	Extinction:  "EXTAXIS",
	Dust:        "LFLAXIS",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// AxisTag returns the record header key holding this kind's axis index.
func (k Kind) AxisTag() string {
	if k < 0 || int(k) >= len(axisTags) {
		return ""
	}
	return axisTags[k]
}

// Kinds lists every kind in axis declaration order.
func Kinds() []Kind {
	return []Kind{Wavelength, Photosphere, Wall, Disk, Scattered, Extinction, Dust}
}

// ParseKind resolves a kind by name.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// KindForAxisTag resolves a kind from its header key.
func KindForAxisTag(tag string) (Kind, bool) {
	for i, t := range axisTags {
		if t == tag {
			return Kind(i), true
		}
	}
	return 0, false
}

// DiskKinds are the flux components of a disk model in assembly order.
var DiskKinds = []Kind{Photosphere, Wall, Disk, Scattered}

// OptThinKinds are the flux components of an optically thin model.
var OptThinKinds = []Kind{Dust}
