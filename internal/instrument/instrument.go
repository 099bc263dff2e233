package instrument

import (
	"strings"

	"arteria/internal/runparams"
)

const (
	// CopyComplete is written once the run has been copied to its output folder.
	CopyComplete = "CopyComplete.txt"
	// RTAComplete is written by Real-Time Analysis when base calling ends.
	RTAComplete = "RTAComplete.txt"
)

// Instrument maps run parameters to the completion marker path. Relative
// paths are interpreted against the runfolder directory.
type Instrument interface {
	CompletionMarker(params runparams.Parameters) string
}

// Func adapts a plain function to Instrument.
type Func func(params runparams.Parameters) string

// CompletionMarker implements Instrument.
func (f Func) CompletionMarker(params runparams.Parameters) string {
	return f(params)
}

// Fixed returns an Instrument that always resolves to name.
func Fixed(name string) Instrument {
	return Func(func(runparams.Parameters) string { return name })
}

// Model identifies an instrument family.
type Model string

const (
	ModelUnknown   Model = "unknown"
	ModelNovaSeqX  Model = "novaseq_x"
	ModelNovaSeq   Model = "novaseq_6000"
	ModelNextSeq   Model = "nextseq"
	ModelNextSeq2k Model = "nextseq_2000"
	ModelMiSeq     Model = "miseq"
	ModelMiSeqI100 Model = "miseq_i100"
	ModelISeq      Model = "iseq"
	ModelHiSeq     Model = "hiseq"
	ModelHiSeqX    Model = "hiseq_x"
	ModelMiniSeq   Model = "miniseq"
)

// markers lists the completion marker for every known family. Instruments
// that copy their output after analysis only become safe to read after the
// copy step.
var markers = map[Model]string{
	ModelNovaSeqX:  CopyComplete,
	ModelNovaSeq:   CopyComplete,
	ModelNextSeq2k: CopyComplete,
	ModelMiSeqI100: CopyComplete,
	ModelNextSeq:   RTAComplete,
	ModelMiSeq:     RTAComplete,
	ModelISeq:      RTAComplete,
	ModelHiSeq:     RTAComplete,
	ModelHiSeqX:    RTAComplete,
	ModelMiniSeq:   RTAComplete,
	ModelUnknown:   RTAComplete,
}

// Ordered from most to least specific: "iseq" is a substring of most other
// family names and has to come last.
var modelPatterns = []struct {
	needle string
	model  Model
}{
	{"novaseqx", ModelNovaSeqX},
	{"novaseq x", ModelNovaSeqX},
	{"novaseq", ModelNovaSeq},
	{"nextseq 1000/2000", ModelNextSeq2k},
	{"nextseq 2000", ModelNextSeq2k},
	{"nextseq2000", ModelNextSeq2k},
	{"nextseq", ModelNextSeq},
	{"miseq i100", ModelMiSeqI100},
	{"miseqi100", ModelMiSeqI100},
	{"miseq", ModelMiSeq},
	{"hiseq x", ModelHiSeqX},
	{"hiseqx", ModelHiSeqX},
	{"hiseq", ModelHiSeq},
	{"miniseq", ModelMiniSeq},
	{"iseq", ModelISeq},
}

// Identify classifies the instrument that wrote params.
func Identify(params runparams.Parameters) Model {
	name, ok := params.InstrumentType()
	if !ok {
		return ModelUnknown
	}
	lowered := strings.ToLower(strings.TrimSpace(name))
	for _, p := range modelPatterns {
		if strings.Contains(lowered, p.needle) {
			return p.model
		}
	}
	return ModelUnknown
}

// Marker returns the completion marker file name used by model.
func (m Model) Marker() string {
	if name, ok := markers[m]; ok {
		return name
	}
	return RTAComplete
}

type detected struct{}

// Detect returns the default resolver, which identifies the instrument
// family from the parameters and picks its completion marker.
func Detect() Instrument {
	return detected{}
}

func (detected) CompletionMarker(params runparams.Parameters) string {
	return Identify(params).Marker()
}

// FromSetting builds the Instrument selected by configuration: "auto" (or
// empty) selects Detect, any other value is used as a fixed marker path.
func FromSetting(value string) Instrument {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "auto") {
		return Detect()
	}
	return Fixed(value)
}
