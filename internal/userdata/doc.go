// Package userdata resolves the on-disk layout wheelhouse works against: the
// add-on root with its wheels/ directory and blender_manifest.toml, and the
// per-user state directory (~/.wheelhouse). It also scaffolds a fresh add-on.
package userdata
