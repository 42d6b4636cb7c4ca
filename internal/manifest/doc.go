// Package manifest reads, mutates and writes the add-on manifest
// (blender_manifest.toml) whose "wheels" list registers downloaded wheel
// files with the host.
//
// Every mutation is a full load-modify-store cycle. Nothing is written unless
// the whole document parsed, and the write replaces the file atomically, so a
// failed operation leaves the manifest on disk untouched. Keys other than
// "wheels" are preserved across rewrites.
//
// Validate checks a manifest against an embedded JSON Schema and is used by
// the doctor command to report entries that do not follow the "./wheels/"
// convention.
package manifest
