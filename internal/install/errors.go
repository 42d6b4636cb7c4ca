package install

import (
	"errors"

	"github.com/wheelhouse-labs/wheelhouse/internal/acquire"
	"github.com/wheelhouse-labs/wheelhouse/internal/manifest"
	"github.com/wheelhouse-labs/wheelhouse/internal/registry"
)

var (
	ErrNoConnectivity           = errors.New("online access is disabled")
	ErrEmptyInput               = errors.New("package name is empty")
	ErrInvalidName              = errors.New("invalid package name")
	ErrInstallInProgress        = errors.New("an installation is already in progress")
	ErrPackageNotFound          = errors.New("package not found")
	ErrAvailabilityInconclusive = errors.New("could not confirm package availability")
	ErrInterrupted              = errors.New("interrupted before the installation finished")
)

var statusMessages = []struct {
	err error
	msg string
}{
	{ErrNoConnectivity, "No internet connection: online access is disabled"},
	{ErrEmptyInput, "Enter a package name"},
	{ErrInvalidName, "Invalid package name"},
	{ErrInstallInProgress, "Another installation is in progress"},
	{ErrPackageNotFound, "Package not found"},
	{ErrAvailabilityInconclusive, "Could not reach the package index"},
	{ErrInterrupted, "Installation interrupted"},
	{acquire.ErrDownloadFailed, "Installation failed"},
	{manifest.ErrRead, "Could not read the manifest"},
	{manifest.ErrParse, "Manifest is malformed"},
	{manifest.ErrWrite, "Could not write the manifest"},
	{registry.ErrIndexOutOfRange, "No wheel at that index"},
	{registry.ErrFileSystem, "Wheel file could not be removed"},
}

// StatusMessage maps an error to the single status line shown to the user.
func StatusMessage(err error) string {
	if err == nil {
		return "Done"
	}
	for _, m := range statusMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Error: " + err.Error()
}
