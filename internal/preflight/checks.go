package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"arteria/internal/instrument"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkAccess(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckRunfolderRoot verifies a monitored runfolder root. Runfolders get a
// state sidecar written into them, so the root needs write access as well.
func CheckRunfolderRoot(path string) Result {
	return checkAccess("Runfolder root", path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckInstrumentSetting reports how completion markers will be resolved.
func CheckInstrumentSetting(value string) Result {
	const name = "Completion marker"

	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "":
		return Result{Name: name, Detail: "instrument setting is empty"}
	case strings.EqualFold(trimmed, "auto"):
		return Result{Name: name, Passed: true, Detail: "detected from run parameters"}
	case filepath.IsAbs(trimmed):
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("fixed absolute path %s", trimmed)}
	case trimmed == instrument.CopyComplete || trimmed == instrument.RTAComplete:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("fixed %s", trimmed)}
	default:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("fixed %s (non-standard marker name)", trimmed)}
	}
}

func checkAccess(name, path string, mode uint32, okDetail string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}
