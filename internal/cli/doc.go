// Package cli wires together the Cobra command tree for the breakcheck binary.
//
// It defines the root command and its subcommands (review, config, version),
// binds flags, reads configuration and credentials, runs the review pipeline,
// and maps failures to deterministic exit codes.
package cli
