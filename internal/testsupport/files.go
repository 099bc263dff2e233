package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// MinimalRunParameters is a NovaSeq-style parameter file with both barcodes.
const MinimalRunParameters = `<?xml version="1.0"?>
<RunParameters xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <RunId>230101_A00001_0001_AHXXXXXXXX</RunId>
  <ApplicationName>NovaSeq Control Software</ApplicationName>
  <ReagentKitBarcode>RK1</ReagentKitBarcode>
  <RfidsInfo>
    <LibraryTubeSerialBarcode>LT1</LibraryTubeSerialBarcode>
  </RfidsInfo>
</RunParameters>
`

// RunfolderSpec describes a fake runfolder written by NewRunfolder.
type RunfolderSpec struct {
	// Name of the runfolder directory; defaults to a NovaSeq-style name.
	Name string
	// ParameterFile is the parameter file name; "" writes RunParameters.xml,
	// "-" writes none.
	ParameterFile string
	// Parameters is the parameter file content; defaults to MinimalRunParameters.
	Parameters string
	// Marker is the completion marker name; "" writes CopyComplete.txt, "-"
	// writes none.
	Marker string
	// MarkerAge is subtracted from the current time to set the marker mtime.
	MarkerAge time.Duration
}

// NewRunfolder writes a runfolder below a fresh temp directory and returns
// its path.
func NewRunfolder(t testing.TB, spec RunfolderSpec) string {
	t.Helper()

	name := spec.Name
	if name == "" {
		name = "230101_A00001_0001_AHXXXXXXXX"
	}
	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir runfolder: %v", err)
	}

	paramFile := spec.ParameterFile
	if paramFile == "" {
		paramFile = "RunParameters.xml"
	}
	if paramFile != "-" {
		content := spec.Parameters
		if content == "" {
			content = MinimalRunParameters
		}
		WriteText(t, filepath.Join(dir, paramFile), content)
	}

	marker := spec.Marker
	if marker == "" {
		marker = "CopyComplete.txt"
	}
	if marker != "-" {
		TouchMarker(t, filepath.Join(dir, marker), time.Now().Add(-spec.MarkerAge))
	}
	return dir
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// TouchMarker creates path if needed and sets its modification time.
func TouchMarker(t testing.TB, path string, modTime time.Time) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		WriteText(t, path, "")
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

// ReadText returns the content of path.
func ReadText(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
