// Package runparams reads the instrument-authored run parameter file
// (RunParameters.xml / runParameters.xml) into a nested key/value mapping.
//
// Element names become keys, leaf elements become strings, repeated sibling
// elements become lists and attributes are kept under "-name" keys. Lookups
// are optional by construction: a missing key or an unexpected shape is
// reported through the ok result, never as an error.
package runparams
