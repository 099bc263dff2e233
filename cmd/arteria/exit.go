package main

import (
	"arteria/internal/runfolder"
)

const (
	exitFailure      = 1
	exitNotReady     = 2
	exitInvalid      = 3
	exitStateProblem = 4
)

func exitCode(err error) int {
	switch runfolder.Kind(err) {
	case "":
		return 0
	case runfolder.KindRunfolderNotReady:
		return exitNotReady
	case runfolder.KindNotADirectory,
		runfolder.KindMissingParameterFile,
		runfolder.KindMalformedParameterFile:
		return exitInvalid
	case runfolder.KindUnknownState, runfolder.KindInvalidState:
		return exitStateProblem
	default:
		return exitFailure
	}
}
