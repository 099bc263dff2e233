package runfolder

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"arteria/internal/instrument"
	"arteria/internal/logging"
	"arteria/internal/runparams"
	"arteria/internal/state"
)

// StateChange describes one write to a runfolder's state sidecar. From is
// empty when the sidecar was initialized or held an unrecognized token.
type StateChange struct {
	Runfolder string
	From      state.State
	To        state.State
	At        time.Time
}

// StateObserver is notified after every successful state write.
type StateObserver interface {
	StateChanged(change StateChange) error
}

// Options configures Open. Instrument is required; every other field has a
// usable zero value.
type Options struct {
	// GraceMinutes is the minimum age of the completion marker, in minutes.
	GraceMinutes int
	Instrument   instrument.Instrument
	Logger       *slog.Logger
	Observer     StateObserver
	// Now overrides the clock used for the grace period check.
	Now func() time.Time
}

// Runfolder is a validated runfolder with an initialized state sidecar.
type Runfolder struct {
	path          string
	parameterFile string
	params        runparams.Parameters
	marker        string
	states        *StateFile
	observer      StateObserver
	now           func() time.Time
	logger        *slog.Logger
}

// Open validates the runfolder at path and initializes its state sidecar.
// It returns an error wrapping one of the package sentinels when any check
// fails; no Runfolder is returned in that case.
func Open(path string, opts Options) (*Runfolder, error) {
	if opts.GraceMinutes < 0 {
		return nil, wrap(ErrInvalidGracePeriod, path, fmt.Sprintf("%d minutes is negative", opts.GraceMinutes), nil)
	}
	if opts.Instrument == nil {
		return nil, errors.New("runfolder: instrument is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldRunfolder, path))

	if err := checkDirectory(path); err != nil {
		return nil, err
	}

	parameterFile, err := runparams.Locate(path)
	if err != nil {
		return nil, wrap(ErrMissingParameterFile, path, "no RunParameters.xml or runParameters.xml", err)
	}
	params, err := runparams.Load(parameterFile)
	if err != nil {
		return nil, wrap(ErrMalformedParameterFile, path, "parse "+filepath.Base(parameterFile), err)
	}

	marker := resolveMarker(path, opts.Instrument.CompletionMarker(params))
	if err := checkMarker(path, marker, time.Duration(opts.GraceMinutes)*time.Minute, now()); err != nil {
		return nil, err
	}

	rf := &Runfolder{
		path:          path,
		parameterFile: parameterFile,
		params:        params,
		marker:        marker,
		states:        NewStateFile(path),
		observer:      opts.Observer,
		now:           now,
		logger:        logger,
	}

	created, err := rf.states.EnsureInitialized()
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("initialized runfolder state",
			logging.String(logging.FieldState, state.Default.String()),
			logging.String(logging.FieldEventType, "state_initialized"),
		)
		rf.notify("", state.Default)
	}

	logger.Debug("runfolder validated",
		logging.String("parameter_file", parameterFile),
		logging.String("completion_marker", marker),
	)
	return rf, nil
}

func checkDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return wrap(ErrNotADirectory, path, "stat", err)
	}
	if !info.IsDir() {
		return wrap(ErrNotADirectory, path, "is a file", nil)
	}
	return nil
}

func resolveMarker(dir, marker string) string {
	if marker == "" || filepath.IsAbs(marker) {
		return marker
	}
	return filepath.Join(dir, marker)
}

// checkMarker requires the completion marker to exist and to be strictly
// older than grace.
func checkMarker(dir, marker string, grace time.Duration, now time.Time) error {
	if marker == "" {
		return wrap(ErrRunfolderNotReady, dir, "instrument resolved no completion marker", nil)
	}
	info, err := os.Stat(marker)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return wrap(ErrRunfolderNotReady, dir, "completion marker "+marker+" does not exist", nil)
		}
		return wrap(ErrRunfolderNotReady, dir, "stat completion marker "+marker, err)
	}
	age := now.Sub(info.ModTime())
	if age <= grace {
		return wrap(ErrRunfolderNotReady, dir,
			fmt.Sprintf("completion marker %s modified %s ago, grace period is %s", marker, age.Round(time.Second), grace), nil)
	}
	return nil
}

// Path returns the runfolder directory.
func (r *Runfolder) Path() string {
	return r.path
}

// Name returns the base name of the runfolder directory.
func (r *Runfolder) Name() string {
	return filepath.Base(r.path)
}

// ParameterFile returns the run parameter file that was parsed.
func (r *Runfolder) ParameterFile() string {
	return r.parameterFile
}

// Parameters returns the parsed RunParameters mapping.
func (r *Runfolder) Parameters() runparams.Parameters {
	return r.params
}

// CompletionMarker returns the absolute path of the marker that gated Open.
func (r *Runfolder) CompletionMarker() string {
	return r.marker
}

// StatePath returns the location of the state sidecar.
func (r *Runfolder) StatePath() string {
	return r.states.Path()
}

// State reads the persisted state.
func (r *Runfolder) State() (state.State, error) {
	return r.states.Get()
}

// SetState persists next. Observer failures are logged and do not undo the
// write.
func (r *Runfolder) SetState(next state.State) error {
	previous, err := r.states.Set(next)
	if err != nil {
		return err
	}
	r.logger.Info("runfolder state changed",
		logging.String("previous_state", previous.String()),
		logging.String(logging.FieldState, next.String()),
		logging.String(logging.FieldEventType, "state_changed"),
	)
	r.notify(previous, next)
	return nil
}

// Metadata derives the identifying fields from the run parameters.
func (r *Runfolder) Metadata() Metadata {
	return ExtractMetadata(r.params, r.logger)
}

func (r *Runfolder) notify(from, to state.State) {
	if r.observer == nil {
		return
	}
	change := StateChange{Runfolder: r.path, From: from, To: to, At: r.now().UTC()}
	if err := r.observer.StateChanged(change); err != nil {
		logging.WarnWithContext(r.logger, "failed to record state change", "state_history_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the history database under paths.state_dir"),
			logging.String(logging.FieldImpact, "state was written but is missing from history"),
		)
	}
}
