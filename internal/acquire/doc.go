// Package acquire downloads every wheel of a package into a directory by
// running an external downloader (pip download by default) and reports the
// wheels found there afterwards.
//
// Failures never escape as panics or bare errors: Acquire always returns a
// Result, and a failed Result carries no artifacts and an error wrapping
// ErrDownloadFailed.
package acquire
