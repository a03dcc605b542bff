// Package preflight provides readiness checks for the filesystem paths a
// batch depends on.
//
// The batch runner calls RunAll before dispatching any job; a failed check
// aborts the batch so that no worker starts against an unreadable model
// directory or an unwritable destination. The CLI "config validate" command
// prints the same results.
package preflight
