package runfolder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"arteria/internal/fileutil"
	"arteria/internal/state"
)

const (
	// SidecarDir is the directory arteria owns inside every runfolder.
	SidecarDir = ".arteria"
	// StateFileName holds the state token inside SidecarDir.
	StateFileName = "state"

	lockFileName = "state.lock"
	fileMode     = 0o644
	dirMode      = 0o755
)

// StateFile persists the state token of one runfolder.
type StateFile struct {
	runfolder string
	path      string
	lockPath  string
}

// NewStateFile returns the store for the runfolder at dir. It touches
// nothing on disk.
func NewStateFile(dir string) *StateFile {
	sidecar := filepath.Join(dir, SidecarDir)
	return &StateFile{
		runfolder: dir,
		path:      filepath.Join(sidecar, StateFileName),
		lockPath:  filepath.Join(sidecar, lockFileName),
	}
}

// Path returns the location of the state token.
func (s *StateFile) Path() string {
	return s.path
}

// EnsureInitialized creates the sidecar directory and writes the default
// state if no token exists yet. An existing token is never overwritten. It
// reports whether the token was created by this call.
func (s *StateFile) EnsureInitialized() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return false, fmt.Errorf("create %s: %w", filepath.Dir(s.path), err)
	}

	var created bool
	err := s.withLock(func() error {
		var err error
		created, err = fileutil.CreateExclusive(s.path, []byte(state.Default.String()), fileMode)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("initialize %s: %w", s.path, err)
	}
	return created, nil
}

// Get reads the current state. Surrounding whitespace in the file is
// ignored; any other unrecognized content is ErrUnknownState.
func (s *StateFile) Get() (state.State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.path, err)
	}
	current, err := state.Parse(string(data))
	if err != nil {
		return "", wrap(ErrUnknownState, s.runfolder, s.path, err)
	}
	return current, nil
}

// Set replaces the stored token with next and returns the state it
// replaced. The previous state is empty when the old token was missing or
// unrecognized.
func (s *StateFile) Set(next state.State) (state.State, error) {
	if !next.Valid() {
		return "", wrap(ErrInvalidState, s.runfolder, fmt.Sprintf("%q is not a known state", string(next)), nil)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Dir(s.path), err)
	}

	var previous state.State
	err := s.withLock(func() error {
		if current, err := s.Get(); err == nil {
			previous = current
		}
		return fileutil.WriteFileAtomic(s.path, []byte(next.String()), fileMode)
	})
	if err != nil {
		return "", fmt.Errorf("write %s: %w", s.path, err)
	}
	return previous, nil
}

func (s *StateFile) withLock(fn func() error) (err error) {
	lock := flock.New(s.lockPath)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", s.lockPath, err)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("unlock %s: %w", s.lockPath, unlockErr)
		}
	}()
	return fn()
}
