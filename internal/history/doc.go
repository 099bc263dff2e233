// Package history records runfolder state transitions in SQLite.
//
// The runfolder sidecar is the source of truth for the current state; this
// ledger only answers "when did it change, and from what". Store satisfies
// runfolder.StateObserver through Observer, so wiring it into runfolder.Open
// is enough to capture initializations and every SetState call.
//
// Schema changes bump the version in schema.go; users delete the database to
// adopt the new schema.
package history
