package runfolder

import (
	"log/slog"
	"slices"

	"arteria/internal/logging"
	"arteria/internal/runparams"
)

const (
	KeyReagentKitBarcode  = "reagent_kit_barcode"
	KeyLibraryTubeBarcode = "library_tube_barcode"
)

// Metadata holds the identifying fields derived from the run parameters.
// Keys are only present when a value was found.
type Metadata map[string]string

// Keys returns the present keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// lookup is one optional way of finding a field.
type lookup func(runparams.Parameters) (string, bool)

var (
	reagentKitLookups = []lookup{
		textAt("ReagentKitBarcode"),
	}
	libraryTubeLookups = []lookup{
		textAt("RfidsInfo", "LibraryTubeSerialBarcode"),
		sampleTubeSerial,
	}
)

// ExtractMetadata derives Metadata from params. It never fails: each field
// is resolved independently and a field that cannot be found is omitted.
func ExtractMetadata(params runparams.Parameters, logger *slog.Logger) Metadata {
	if logger == nil {
		logger = logging.NewNop()
	}
	metadata := Metadata{}
	if params.Empty() {
		logger.Warn("no run parameters available for metadata",
			logging.String(logging.FieldEventType, "metadata_missing"),
			logging.String(logging.FieldImpact, "runfolder metadata will be empty"),
		)
		return metadata
	}

	if value, ok := firstOf(params, reagentKitLookups); ok {
		metadata[KeyReagentKitBarcode] = value
	} else {
		logger.Debug("reagent kit barcode not found")
	}

	if value, ok := firstOf(params, libraryTubeLookups); ok {
		metadata[KeyLibraryTubeBarcode] = value
	} else {
		logger.Debug("library tube barcode not found")
	}

	return metadata
}

func firstOf(params runparams.Parameters, lookups []lookup) (string, bool) {
	for _, fn := range lookups {
		if value, ok := fn(params); ok {
			return value, true
		}
	}
	return "", false
}

func textAt(path ...string) lookup {
	return func(params runparams.Parameters) (string, bool) {
		value, ok := params.String(path...)
		// An empty element such as <ReagentKitBarcode/> counts as absent.
		if !ok || value == "" {
			return "", false
		}
		return value, true
	}
}

// sampleTubeSerial scans ConsumableInfo for the first SampleTube entry.
func sampleTubeSerial(params runparams.Parameters) (string, bool) {
	for _, consumable := range params.List("ConsumableInfo", "ConsumableInfo") {
		kind, ok := consumable.String("Type")
		if !ok || kind != "SampleTube" {
			continue
		}
		serial, ok := consumable.String("SerialNumber")
		if !ok || serial == "" {
			return "", false
		}
		return serial, true
	}
	return "", false
}
