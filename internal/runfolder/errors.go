package runfolder

import (
	"errors"
	"fmt"
)

var (
	ErrNotADirectory          = errors.New("not a directory")
	ErrMissingParameterFile   = errors.New("run parameter file missing")
	ErrMalformedParameterFile = errors.New("malformed run parameter file")
	ErrRunfolderNotReady      = errors.New("runfolder not ready")
	ErrUnknownState           = errors.New("unknown state in sidecar")
	ErrInvalidState           = errors.New("invalid state")
	ErrInvalidGracePeriod     = errors.New("invalid grace period")
)

// Kind names used by Kind, stable for scripts and exit code mapping.
const (
	KindNotADirectory          = "not_a_directory"
	KindMissingParameterFile   = "missing_parameter_file"
	KindMalformedParameterFile = "malformed_parameter_file"
	KindRunfolderNotReady      = "runfolder_not_ready"
	KindUnknownState           = "unknown_state"
	KindInvalidState           = "invalid_state"
	KindInvalidGracePeriod     = "invalid_grace_period"
	KindOther                  = "other"
)

var errorKinds = []struct {
	marker error
	kind   string
}{
	{ErrNotADirectory, KindNotADirectory},
	{ErrMissingParameterFile, KindMissingParameterFile},
	{ErrMalformedParameterFile, KindMalformedParameterFile},
	{ErrRunfolderNotReady, KindRunfolderNotReady},
	{ErrUnknownState, KindUnknownState},
	{ErrInvalidState, KindInvalidState},
	{ErrInvalidGracePeriod, KindInvalidGracePeriod},
}

// Kind classifies err by the sentinel it wraps. Errors from outside this
// package report KindOther; nil reports "".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range errorKinds {
		if errors.Is(err, entry.marker) {
			return entry.kind
		}
	}
	return KindOther
}

// wrap tags an error with marker and the path/check context an operator
// needs to diagnose it.
func wrap(marker error, path, check string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %s: %w", marker, path, check, err)
	}
	return fmt.Errorf("%w: %s: %s", marker, path, check)
}
