// Package install coordinates one package installation at a time:
//
//	Idle -> Validating -> CheckingAvailability -> Downloading
//	     -> UpdatingManifest -> Reloading -> Idle
//
// with Failed reachable from every step before Reloading. Validation and the
// availability lookup run on the caller's goroutine; the download runs in the
// background and the caller learns of completion through Session.Done.
//
// Only one session may be active; a second Install while one is running is
// rejected with ErrInstallInProgress and never starts a worker.
package install
