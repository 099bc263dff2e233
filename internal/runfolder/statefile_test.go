package runfolder

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"arteria/internal/state"
)

func TestStateFileEnsureInitializedIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := NewStateFile(dir)

	created, err := store.EnsureInitialized()
	if err != nil {
		t.Fatalf("EnsureInitialized returned error: %v", err)
	}
	if !created {
		t.Fatal("expected first call to create the sidecar")
	}

	if err := os.WriteFile(store.Path(), []byte("started"), 0o644); err != nil {
		t.Fatal(err)
	}
	created, err = store.EnsureInitialized()
	if err != nil {
		t.Fatalf("EnsureInitialized returned error: %v", err)
	}
	if created {
		t.Fatal("expected second call to keep the existing sidecar")
	}
	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != state.Started {
		t.Fatalf("expected started, got %q", got)
	}
}

func TestStateFileSetReturnsPrevious(t *testing.T) {
	store := NewStateFile(t.TempDir())
	if _, err := store.EnsureInitialized(); err != nil {
		t.Fatal(err)
	}

	previous, err := store.Set(state.Pending)
	if err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if previous != state.Ready {
		t.Fatalf("expected previous ready, got %q", previous)
	}

	if err := os.WriteFile(store.Path(), []byte("bogus"), 0o644); err != nil {
		t.Fatal(err)
	}
	previous, err = store.Set(state.Error)
	if err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if previous != "" {
		t.Fatalf("expected empty previous for unknown token, got %q", previous)
	}
}

func TestStateFileSetCreatesSidecarDir(t *testing.T) {
	dir := t.TempDir()
	store := NewStateFile(dir)

	if _, err := store.Set(state.Done); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, SidecarDir, StateFileName))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "done" {
		t.Fatalf("unexpected sidecar content %q", data)
	}
}

func TestStateFileGetMissing(t *testing.T) {
	store := NewStateFile(t.TempDir())
	if _, err := store.Get(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestStateFileConcurrentWritersLeaveValidToken(t *testing.T) {
	dir := t.TempDir()
	store := NewStateFile(dir)
	if _, err := store.EnsureInitialized(); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			all := state.All()
			if _, err := NewStateFile(dir).Set(all[i%len(all)]); err != nil {
				t.Errorf("Set returned error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get returned error after concurrent writes: %v", err)
	}
	if !got.Valid() {
		t.Fatalf("expected a valid final state, got %q", got)
	}
}
