package logging

import (
	"path/filepath"
	"strings"
)

// FormatSubject builds the "component [runfolder]" prefix used in console
// output. Only the base name of the runfolder is shown.
func FormatSubject(component, runfolder string) string {
	component = strings.TrimSpace(component)
	runfolder = strings.TrimSpace(runfolder)
	if runfolder != "" {
		runfolder = "[" + filepath.Base(runfolder) + "]"
	}
	switch {
	case component != "" && runfolder != "":
		return component + " " + runfolder
	case component != "":
		return component
	default:
		return runfolder
	}
}
