// Package reload asks the host application to re-read its extension set
// after the manifest changed. Reloads are deferred: Scheduler runs them after
// a fixed delay on a background timer, decoupled from the status message the
// caller already printed.
package reload
