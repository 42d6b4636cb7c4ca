// Package index confirms that a package exists on a remote package index
// before anything is downloaded. It speaks the PyPI JSON API:
// GET <base>/<name>/json answers 200 for known packages and 404 otherwise.
package index
