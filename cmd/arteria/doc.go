// Package main hosts the arteria CLI entrypoint and command graph.
//
// The Cobra command tree validates runfolders, prints their metadata, reads
// and writes the state sidecar, and inspects the transition history. It
// centralizes configuration resolution and structured logging setup so
// subcommands only deal with presentation.
//
// Exit codes: 0 success, 2 runfolder not ready, 3 invalid runfolder
// (directory or parameter file problems), 4 state sidecar errors, 1 anything
// else.
package main
