// Package main hosts the collate CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, then hands work to the
// internal packages: run and batch collate jobs, failcheck, dump, search and
// show inspect written records, history reads the batch ledger, and config
// scaffolds or validates the configuration file.
package main
