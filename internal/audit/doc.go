// Package audit inspects collated records after the fact.
//
// ScanFailures lists flagged records in a directory, DumpMetadata returns the
// full tag set of one record, and Search finds disk models whose parameters
// match a set of criteria. None of them modify records.
package audit
