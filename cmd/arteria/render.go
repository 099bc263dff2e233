package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"arteria/internal/state"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const statusLabelWidth = 20

var titleCaser = cases.Title(language.Und)

// stateLabel renders a state for humans, e.g. "Started".
func stateLabel(s state.State, colorize bool) string {
	if s == "" {
		return "-"
	}
	label := titleCaser.String(s.String())
	if !colorize {
		return label
	}
	if color := stateColor(s); color != "" {
		return color + label + ansiReset
	}
	return label
}

func stateColor(s state.State) string {
	switch s {
	case state.Ready:
		return ansiBlue
	case state.Pending, state.Started:
		return ansiYellow
	case state.Done:
		return ansiGreen
	case state.Error:
		return ansiRed
	default:
		return ""
	}
}

func renderCheckLine(label string, passed bool, detail string, colorize bool) string {
	status := "OK"
	color := ansiGreen
	if !passed {
		status = "FAIL"
		color = ansiRed
	}
	line := fmt.Sprintf("  %-*s [%s] %s", statusLabelWidth, label+":", status, detail)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
