package runfolder_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"arteria/internal/instrument"
	"arteria/internal/runfolder"
	"arteria/internal/runparams"
	"arteria/internal/testsupport"
)

func TestExtractMetadata(t *testing.T) {
	cases := []struct {
		name   string
		params runparams.Parameters
		want   runfolder.Metadata
	}{
		{
			name:   "reagent kit only",
			params: runparams.Parameters{"ReagentKitBarcode": "RK1"},
			want:   runfolder.Metadata{"reagent_kit_barcode": "RK1"},
		},
		{
			name: "sample tube from consumables",
			params: runparams.Parameters{
				"ConsumableInfo": map[string]any{
					"ConsumableInfo": []any{
						map[string]any{"Type": "SampleTube", "SerialNumber": "S1"},
						map[string]any{"Type": "Other", "SerialNumber": "S2"},
					},
				},
			},
			want: runfolder.Metadata{"library_tube_barcode": "S1"},
		},
		{
			name: "rfid barcode wins over consumables",
			params: runparams.Parameters{
				"ReagentKitBarcode": "RK2",
				"RfidsInfo":         map[string]any{"LibraryTubeSerialBarcode": "LT1"},
				"ConsumableInfo": map[string]any{
					"ConsumableInfo": []any{map[string]any{"Type": "SampleTube", "SerialNumber": "S1"}},
				},
			},
			want: runfolder.Metadata{"reagent_kit_barcode": "RK2", "library_tube_barcode": "LT1"},
		},
		{
			name: "rfids without library tube falls back",
			params: runparams.Parameters{
				"RfidsInfo": map[string]any{"FlowCellSerialBarcode": "FC"},
				"ConsumableInfo": map[string]any{
					"ConsumableInfo": []any{
						map[string]any{"SerialNumber": "no-type"},
						map[string]any{"Type": "SampleTube", "SerialNumber": "S3"},
					},
				},
			},
			want: runfolder.Metadata{"library_tube_barcode": "S3"},
		},
		{
			name: "single consumable element",
			params: runparams.Parameters{
				"ConsumableInfo": map[string]any{
					"ConsumableInfo": map[string]any{"Type": "SampleTube", "SerialNumber": "S4"},
				},
			},
			want: runfolder.Metadata{"library_tube_barcode": "S4"},
		},
		{
			name: "sample tube without serial is omitted",
			params: runparams.Parameters{
				"ReagentKitBarcode": "RK3",
				"ConsumableInfo": map[string]any{
					"ConsumableInfo": []any{
						map[string]any{"Type": "SampleTube"},
						map[string]any{"Type": "SampleTube", "SerialNumber": "later"},
					},
				},
			},
			want: runfolder.Metadata{"reagent_kit_barcode": "RK3"},
		},
		{
			name: "malformed shapes",
			params: runparams.Parameters{
				"ReagentKitBarcode": map[string]any{"Nested": "x"},
				"RfidsInfo":         []any{"a", "b"},
				"ConsumableInfo":    "flat",
			},
			want: runfolder.Metadata{},
		},
		{
			name: "consumables list of scalars",
			params: runparams.Parameters{
				"ReagentKitBarcode": "RK4",
				"ConsumableInfo":    map[string]any{"ConsumableInfo": []any{"x", 1, nil}},
			},
			want: runfolder.Metadata{"reagent_kit_barcode": "RK4"},
		},
		{
			name:   "empty values count as missing",
			params: runparams.Parameters{"ReagentKitBarcode": "", "RfidsInfo": map[string]any{"LibraryTubeSerialBarcode": ""}},
			want:   runfolder.Metadata{},
		},
		{
			name:   "empty parameters",
			params: runparams.Parameters{},
			want:   runfolder.Metadata{},
		},
		{
			name:   "nil parameters",
			params: nil,
			want:   runfolder.Metadata{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := runfolder.ExtractMetadata(tc.params, nil)
			if got == nil {
				t.Fatal("expected a non-nil metadata map")
			}
			if len(got) > 2 {
				t.Fatalf("metadata has more than two keys: %v", got)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunfolderMetadataFromParsedXML(t *testing.T) {
	doc := `<?xml version="1.0"?>
<RunParameters>
  <ReagentKitBarcode>RK9</ReagentKitBarcode>
  <ConsumableInfo>
    <ConsumableInfo><Type>FlowCell</Type><SerialNumber>FC1</SerialNumber></ConsumableInfo>
    <ConsumableInfo><Type>SampleTube</Type><SerialNumber>S9</SerialNumber></ConsumableInfo>
  </ConsumableInfo>
</RunParameters>`
	dir := testsupport.NewRunfolder(t, testsupport.RunfolderSpec{Parameters: doc, MarkerAge: time.Hour})

	rf, err := runfolder.Open(dir, runfolder.Options{Instrument: instrument.Fixed(instrument.CopyComplete)})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	want := runfolder.Metadata{"reagent_kit_barcode": "RK9", "library_tube_barcode": "S9"}
	if diff := cmp.Diff(want, rf.Metadata()); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestRunfolderMetadataWithEmptyParameters(t *testing.T) {
	dir := testsupport.NewRunfolder(t, testsupport.RunfolderSpec{Parameters: "<RunParameters/>", MarkerAge: time.Hour})

	rf, err := runfolder.Open(dir, runfolder.Options{Instrument: instrument.Fixed(instrument.CopyComplete)})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if got := rf.Metadata(); len(got) != 0 {
		t.Fatalf("expected empty metadata, got %v", got)
	}
}

func TestMetadataKeysSorted(t *testing.T) {
	m := runfolder.Metadata{"reagent_kit_barcode": "RK1", "library_tube_barcode": "LT1"}
	want := []string{"library_tube_barcode", "reagent_kit_barcode"}
	if diff := cmp.Diff(want, m.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if keys := (runfolder.Metadata{}).Keys(); len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}
