// Package runfolder models the lifecycle of a single sequencing runfolder on
// disk.
//
// Open is the only way to obtain a Runfolder and acts as the readiness gate:
// the directory must exist, carry a parseable run parameter file, and its
// instrument completion marker must be older than the configured grace
// period. A successfully opened runfolder always has a state sidecar at
// <runfolder>/.arteria/state, initialized to "ready" the first time and
// never reset afterwards.
//
// State writes replace the sidecar atomically and serialize through an
// advisory lock on .arteria/state.lock, so concurrent processes observe
// either the old or the new token. Metadata is derived from the parsed run
// parameters on every call and never fails; missing fields are simply absent.
//
// Failures carry the runfolder path and the failed check, and match one of
// the exported sentinels through errors.Is. There are no retries here:
// callers that want to wait for a runfolder to become ready open it again
// later.
package runfolder
