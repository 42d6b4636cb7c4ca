// Package cli defines the Cobra command tree for the wheelhouse CLI. Each file
// in this package registers one top-level command (install, list, remove,
// etc.) with the root command. Command implementations delegate to internal
// packages for the engine and only handle flag parsing, wiring, and output.
//
// Every command prints exactly one terminal status line on stdout. Logs go to
// stderr.
package cli
