// Package preflight provides readiness checks for the filesystem paths
// arteria depends on.
//
// The CLI "arteria doctor" command runs Run and renders the results. Each
// check is independent; a failed check never stops the others.
package preflight
