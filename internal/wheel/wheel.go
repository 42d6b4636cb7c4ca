package wheel

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Ext is the distribution-artifact extension.
const Ext = ".whl"

// ErrMalformed is returned when a .whl filename does not have the expected
// number of dash-separated components.
var ErrMalformed = errors.New("malformed wheel filename")

// nameRe is the PEP 508 distribution name grammar.
var nameRe = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

var separatorRe = regexp.MustCompile(`[-_.]+`)

// Filename holds the components of a wheel filename.
type Filename struct {
	Distribution string
	Version      string
	Build        string
	Python       string
	ABI          string
	Platform     string
}

// IsWheel reports whether name carries the wheel extension.
func IsWheel(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), Ext)
}

// Parse splits a wheel filename into its components.
func Parse(name string) (Filename, error) {
	if !IsWheel(name) {
		return Filename{}, fmt.Errorf("%s: %w", name, ErrMalformed)
	}
	parts := strings.Split(name[:len(name)-len(Ext)], "-")

	var f Filename
	switch len(parts) {
	case 5:
		f = Filename{parts[0], parts[1], "", parts[2], parts[3], parts[4]}
	case 6:
		f = Filename{parts[0], parts[1], parts[2], parts[3], parts[4], parts[5]}
	default:
		return Filename{}, fmt.Errorf("%s: %w", name, ErrMalformed)
	}
	for _, p := range parts {
		if p == "" {
			return Filename{}, fmt.Errorf("%s: %w", name, ErrMalformed)
		}
	}
	return f, nil
}

// SemVer parses the version leniently. PEP 440 versions that are not
// semver-shaped (e.g. "2.0rc1") return an error.
func (f Filename) SemVer() (*semver.Version, error) {
	return semver.NewVersion(f.Version)
}

// Project returns the normalized distribution name.
func (f Filename) Project() string {
	return NormalizeName(f.Distribution)
}

// ValidName reports whether name is a valid PEP 508 distribution name. Only
// names that pass are handed to the index or the downloader.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}

// NormalizeName applies PEP 503 normalization: lowercase, with runs of
// "-", "_" and "." collapsed to a single "-".
func NormalizeName(name string) string {
	return strings.ToLower(separatorRe.ReplaceAllString(name, "-"))
}

// CompareVersions orders two version strings. Semver-parsable versions are
// compared semantically; anything else falls back to string comparison.
func CompareVersions(a, b string) int {
	av, aerr := semver.NewVersion(a)
	bv, berr := semver.NewVersion(b)
	if aerr == nil && berr == nil {
		return av.Compare(bv)
	}
	return strings.Compare(a, b)
}

// Less orders wheels by normalized project name, then by version.
func Less(a, b Filename) bool {
	if pa, pb := a.Project(), b.Project(); pa != pb {
		return pa < pb
	}
	return CompareVersions(a.Version, b.Version) < 0
}
