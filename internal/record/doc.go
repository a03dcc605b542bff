// Package record reads and writes collated model records.
//
// A record is a FITS file with one primary image: NAXIS1 is the wavelength
// grid size and NAXIS2 the number of axes, so image row i is table row i. The
// header carries the job parameters, the object name and job label, one
// index tag per present axis, the extinction-applied flag, and the failure
// flag with its reasons. Records without a FAILED tag predate the flag and
// read as not failed.
package record
