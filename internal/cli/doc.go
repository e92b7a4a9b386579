// Package cli wires together the Cobra command tree for the hoodscan binary.
//
// It defines the root command and all subcommands (run, neighborhoods,
// history, config, cache, models, version), binds flags, reads
// configuration, assembles the pipeline, and maps failures to exit codes.
package cli
