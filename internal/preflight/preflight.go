package preflight

import (
	"arteria/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Run executes all applicable preflight checks for the given config.
func Run(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// State and log directories are written by arteria itself.
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	for _, dir := range cfg.Runfolder.Directories {
		results = append(results, CheckRunfolderRoot(dir))
	}

	results = append(results, CheckInstrumentSetting(cfg.Runfolder.Instrument))
	return results
}
