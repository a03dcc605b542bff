// Package jobfile extracts model parameters from job configuration files.
//
// A job file is a shell-style script of `set NAME='value'` assignments. Most
// parameters are plain quoted assignments, a few use a bare terminator
// convention, and the grain size and settling index are written as menus of
// candidate lines of which exactly one is uncommented. Each parameter is read
// by an explicit per-name rule held in a Dialect, and extracted names are
// shortened to 8-character tag keys through a static rename table.
package jobfile
