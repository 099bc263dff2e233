// Package state defines the closed set of lifecycle labels persisted next to
// each runfolder.
//
// The canonical encoding of a State is its lowercase token ("ready",
// "started", ...). Decoding validates against the enumeration and never
// coerces unknown tokens; callers receive ErrUnknown instead.
package state
