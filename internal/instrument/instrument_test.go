package instrument_test

import (
	"testing"

	"arteria/internal/instrument"
	"arteria/internal/runparams"
)

func TestIdentify(t *testing.T) {
	cases := []struct {
		name   string
		params runparams.Parameters
		want   instrument.Model
		marker string
	}{
		{
			name:   "novaseq x plus",
			params: runparams.Parameters{"InstrumentType": "NovaSeqXPlus"},
			want:   instrument.ModelNovaSeqX,
			marker: instrument.CopyComplete,
		},
		{
			name:   "novaseq 6000",
			params: runparams.Parameters{"ApplicationName": "NovaSeq Control Software"},
			want:   instrument.ModelNovaSeq,
			marker: instrument.CopyComplete,
		},
		{
			name:   "nextseq 2000",
			params: runparams.Parameters{"InstrumentType": "NextSeq 2000"},
			want:   instrument.ModelNextSeq2k,
			marker: instrument.CopyComplete,
		},
		{
			name:   "nextseq 500",
			params: runparams.Parameters{"Setup": map[string]any{"ApplicationName": "NextSeq Control Software"}},
			want:   instrument.ModelNextSeq,
			marker: instrument.RTAComplete,
		},
		{
			name:   "miseq",
			params: runparams.Parameters{"Setup": map[string]any{"ApplicationName": "MiSeq Control Software"}},
			want:   instrument.ModelMiSeq,
			marker: instrument.RTAComplete,
		},
		{
			name:   "hiseq x",
			params: runparams.Parameters{"Setup": map[string]any{"ApplicationName": "HiSeq X Control Software"}},
			want:   instrument.ModelHiSeqX,
			marker: instrument.RTAComplete,
		},
		{
			name:   "iseq",
			params: runparams.Parameters{"InstrumentType": "iSeq 100"},
			want:   instrument.ModelISeq,
			marker: instrument.RTAComplete,
		},
		{
			name:   "miniseq",
			params: runparams.Parameters{"Setup": map[string]any{"ApplicationName": "MiniSeq Control Software"}},
			want:   instrument.ModelMiniSeq,
			marker: instrument.RTAComplete,
		},
		{
			name:   "unknown",
			params: runparams.Parameters{"ApplicationName": "Something Else"},
			want:   instrument.ModelUnknown,
			marker: instrument.RTAComplete,
		},
		{
			name:   "empty",
			params: nil,
			want:   instrument.ModelUnknown,
			marker: instrument.RTAComplete,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := instrument.Identify(tc.params); got != tc.want {
				t.Fatalf("Identify = %q, want %q", got, tc.want)
			}
			if got := instrument.Detect().CompletionMarker(tc.params); got != tc.marker {
				t.Fatalf("CompletionMarker = %q, want %q", got, tc.marker)
			}
		})
	}
}

func TestFromSetting(t *testing.T) {
	params := runparams.Parameters{"InstrumentType": "NovaSeqXPlus"}
	if got := instrument.FromSetting("auto").CompletionMarker(params); got != instrument.CopyComplete {
		t.Fatalf("auto resolved to %q", got)
	}
	if got := instrument.FromSetting("").CompletionMarker(params); got != instrument.CopyComplete {
		t.Fatalf("empty setting resolved to %q", got)
	}
	if got := instrument.FromSetting(" Done.txt ").CompletionMarker(params); got != "Done.txt" {
		t.Fatalf("fixed setting resolved to %q", got)
	}
}

func TestFuncAdapter(t *testing.T) {
	var seen runparams.Parameters
	inst := instrument.Func(func(p runparams.Parameters) string {
		seen = p
		return "/abs/marker"
	})
	params := runparams.Parameters{"RunId": "R1"}
	if got := inst.CompletionMarker(params); got != "/abs/marker" {
		t.Fatalf("unexpected marker %q", got)
	}
	if id, _ := seen.RunID(); id != "R1" {
		t.Fatal("expected parameters to be passed through")
	}
}
