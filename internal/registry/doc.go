// Package registry is the local view of installed wheels: it lists the
// wheel files present in the add-on's wheels directory, removes them
// together with their manifest entries, and reconciles the directory against
// the manifest, which is the authoritative record.
//
// The listing last shown to the user is persisted as a small JSON snapshot so
// that a later "remove <index>" refers to the same entries the user saw.
package registry
