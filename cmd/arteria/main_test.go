package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"arteria/internal/config"
	"arteria/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	cfg := testsupport.NewConfig(t, opts...)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, []byte(encoded), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

func TestCLICheckReadyRunfolder(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.NewRunfolder(t, testsupport.RunfolderSpec{MarkerAge: time.Hour})

	out, _, err := runCLI(t, []string{"check", dir}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "Ready")
	requireContains(t, out, "RK1")
	requireContains(t, out, "LT1")
	requireContains(t, out, "230101_A00001_0001_AHXXXXXXXX")

	if got := testsupport.ReadText(t, filepath.Join(dir, ".arteria", "state")); got != "ready" {
		t.Fatalf("expected sidecar initialized to ready, got %q", got)
	}
}

func TestCLICheckJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.NewRunfolder(t, testsupport.RunfolderSpec{MarkerAge: time.Hour})

	out, _, err := runCLI(t, []string{"check", "--json", dir}, env.configPath)
	if err != nil {
		t.Fatalf("check --json: %v", err)
	}
	var report checkReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode check output: %v\n%s", err, out)
	}
	if report.State != "ready" || report.Runfolder != dir {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.CompletionMarker != filepath.Join(dir, "CopyComplete.txt") {
		t.Fatalf("unexpected completion marker %q", report.CompletionMarker)
	}
}

func TestCLICheckExitCodes(t *testing.T) {
	env := setupCLITestEnv(t)

	tests := []struct {
		name string
		spec testsupport.RunfolderSpec
		args []string
		want int
	}{
		{"missing marker", testsupport.RunfolderSpec{Marker: "-"}, nil, exitNotReady},
		{"marker too young", testsupport.RunfolderSpec{MarkerAge: 5 * time.Minute}, []string{"--grace-minutes", "10"}, exitNotReady},
		{"missing parameter file", testsupport.RunfolderSpec{ParameterFile: "-", MarkerAge: time.Hour}, nil, exitInvalid},
		{"malformed parameter file", testsupport.RunfolderSpec{Parameters: "<RunParameters><RunId>x</RunParameters>", MarkerAge: time.Hour}, nil, exitInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testsupport.NewRunfolder(t, tt.spec)
			args := append(append([]string{}, tt.args...), "check", dir)
			_, _, err := runCLI(t, args, env.configPath)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := exitCode(err); got != tt.want {
				t.Fatalf("exit code = %d, want %d (%v)", got, tt.want, err)
			}
			if _, statErr := os.Stat(filepath.Join(dir, ".arteria")); !os.IsNotExist(statErr) {
				t.Fatalf("expected no sidecar directory after failed check, got %v", statErr)
			}
		})
	}

	file := filepath.Join(t.TempDir(), "not-a-dir")
	testsupport.WriteText(t, file, "x")
	_, _, err := runCLI(t, []string{"check", file}, env.configPath)
	if got := exitCode(err); got != exitInvalid {
		t.Fatalf("exit code for file = %d, want %d (%v)", got, exitInvalid, err)
	}
}

func TestCLIStateAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.NewRunfolder(t, testsupport.RunfolderSpec{MarkerAge: time.Hour})

	out, _, err := runCLI(t, []string{"state", "get", dir}, env.configPath)
	if err != nil {
		t.Fatalf("state get: %v", err)
	}
	if strings.TrimSpace(out) != "ready" {
		t.Fatalf("expected ready, got %q", out)
	}

	out, _, err = runCLI(t, []string{"state", "set", dir, "started"}, env.configPath)
	if err != nil {
		t.Fatalf("state set: %v", err)
	}
	requireContains(t, out, "is now Started")

	out, _, err = runCLI(t, []string{"state", "get", dir}, env.configPath)
	if err != nil {
		t.Fatalf("state get after set: %v", err)
	}
	if strings.TrimSpace(out) != "started" {
		t.Fatalf("expected started, got %q", out)
	}

	out, _, err = runCLI(t, []string{"history", "--json", dir}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var transitions []transitionJSON
	if err := json.Unmarshal([]byte(out), &transitions); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	got := make([][2]string, 0, len(transitions))
	for _, tr := range transitions {
		got = append(got, [2]string{tr.From, tr.To})
	}
	want := [][2]string{{"", "ready"}, {"ready", "started"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history recent: %v", err)
	}
	requireContains(t, out, dir)
	requireContains(t, out, "Started")
}

func TestCLIStateErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.NewRunfolder(t, testsupport.RunfolderSpec{MarkerAge: time.Hour})

	_, _, err := runCLI(t, []string{"state", "set", dir, "archived"}, env.configPath)
	if got := exitCode(err); got != exitStateProblem {
		t.Fatalf("invalid state exit code = %d, want %d (%v)", got, exitStateProblem, err)
	}

	if _, _, err := runCLI(t, []string{"check", dir}, env.configPath); err != nil {
		t.Fatalf("check: %v", err)
	}
	testsupport.WriteText(t, filepath.Join(dir, ".arteria", "state"), "bogus")
	_, _, err = runCLI(t, []string{"state", "get", dir}, env.configPath)
	if got := exitCode(err); got != exitStateProblem {
		t.Fatalf("unknown state exit code = %d, want %d (%v)", got, exitStateProblem, err)
	}

	// Setting a valid state repairs the sidecar.
	if _, _, err := runCLI(t, []string{"state", "set", dir, "error"}, env.configPath); err != nil {
		t.Fatalf("state set over unknown token: %v", err)
	}
	if got := testsupport.ReadText(t, filepath.Join(dir, ".arteria", "state")); got != "error" {
		t.Fatalf("expected error token, got %q", got)
	}
}

func TestCLIMetadata(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.NewRunfolder(t, testsupport.RunfolderSpec{MarkerAge: time.Hour})

	out, _, err := runCLI(t, []string{"metadata", "--json", dir}, env.configPath)
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	want := map[string]string{"reagent_kit_barcode": "RK1", "library_tube_barcode": "LT1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}

	out, _, err = runCLI(t, []string{"metadata", dir}, env.configPath)
	if err != nil {
		t.Fatalf("metadata table: %v", err)
	}
	requireContains(t, out, "reagent_kit_barcode")
}

func TestCLIHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistory(false))
	dir := testsupport.NewRunfolder(t, testsupport.RunfolderSpec{MarkerAge: time.Hour})

	if _, _, err := runCLI(t, []string{"state", "set", dir, "done"}, env.configPath); err != nil {
		t.Fatalf("state set without history: %v", err)
	}
	if _, err := os.Stat(env.cfg.HistoryPath()); !os.IsNotExist(err) {
		t.Fatalf("expected no history database, got %v", err)
	}
	_, _, err := runCLI(t, []string{"history", dir}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}
}

func TestCLIUsesConfiguredGraceAndInstrument(t *testing.T) {
	env := setupCLITestEnv(t,
		testsupport.WithGraceMinutes(30),
		testsupport.WithInstrument("RTAComplete.txt"),
	)

	young := testsupport.NewRunfolder(t, testsupport.RunfolderSpec{Marker: "RTAComplete.txt", MarkerAge: 10 * time.Minute})
	_, _, err := runCLI(t, []string{"check", young}, env.configPath)
	if got := exitCode(err); got != exitNotReady {
		t.Fatalf("exit code = %d, want %d (%v)", got, exitNotReady, err)
	}

	// The flag overrides the configured grace period.
	if _, _, err := runCLI(t, []string{"--grace-minutes", "5", "check", young}, env.configPath); err != nil {
		t.Fatalf("check with grace override: %v", err)
	}

	// A CopyComplete.txt marker does not satisfy a fixed RTAComplete.txt setting.
	wrongMarker := testsupport.NewRunfolder(t, testsupport.RunfolderSpec{MarkerAge: time.Hour})
	_, _, err = runCLI(t, []string{"check", wrongMarker}, env.configPath)
	if got := exitCode(err); got != exitNotReady {
		t.Fatalf("exit code = %d, want %d (%v)", got, exitNotReady, err)
	}
}

func TestCLILogsRunfolderEventsWithSubject(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := testsupport.NewRunfolder(t, testsupport.RunfolderSpec{MarkerAge: time.Hour})

	if _, _, err := runCLI(t, []string{"check", dir}, env.configPath); err != nil {
		t.Fatalf("check: %v", err)
	}

	logText := testsupport.ReadText(t, filepath.Join(env.cfg.Paths.LogDir, "arteria.log"))
	requireContains(t, logText, "runfolder ["+filepath.Base(dir)+"]: initialized runfolder state")
	requireContains(t, logText, "correlation_id=")
}
