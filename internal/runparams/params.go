package runparams

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/clbanning/mxj/v2"
	"golang.org/x/text/encoding/ianaindex"
)

// RootKey is the top-level element of every run parameter file.
const RootKey = "RunParameters"

// FileNames lists the accepted parameter file names in lookup order.
// Instruments disagree on the casing of the first letter.
var FileNames = []string{"RunParameters.xml", "runParameters.xml"}

var (
	// ErrNotFound reports that none of FileNames exists in a directory.
	ErrNotFound = errors.New("run parameter file not found")
	// ErrMalformed reports a file that is not well-formed XML or lacks the
	// RunParameters root element.
	ErrMalformed = errors.New("malformed run parameter file")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func init() {
	mxj.XmlCharsetReader = charsetReader
}

// charsetReader decodes the non UTF-8 encodings older instrument software
// declares, e.g. ISO-8859-1.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}

// Parameters is the parsed content of the RunParameters element.
type Parameters map[string]any

// Locate returns the first parameter file present directly inside dir.
func Locate(dir string) (string, error) {
	for _, name := range FileNames {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
		if info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNotFound, dir)
}

// Load reads and parses the parameter file at path.
func Load(path string) (Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	params, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return params, nil
}

// Parse decodes an XML document and returns the mapping held by its
// RunParameters root. An empty root element yields empty Parameters.
func Parse(data []byte) (Parameters, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	if err := checkSingleRoot(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	doc, err := mxj.NewMapXml(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	root, ok := doc[RootKey]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s root element", ErrMalformed, RootKey)
	}
	switch value := root.(type) {
	case map[string]any:
		return Parameters(value), nil
	case string:
		// <RunParameters/> or a text-only root carries no parameters.
		return Parameters{}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %s content %T", ErrMalformed, RootKey, root)
	}
}

// checkSingleRoot verifies data is one well-formed element surrounded only
// by whitespace, comments, processing instructions and the doctype.
// mxj stops after the first element and would accept trailing content.
func checkSingleRoot(data []byte) error {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charsetReader

	seenRoot := false
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if seenRoot {
				return fmt.Errorf("second root element <%s> after document element", t.Name.Local)
			}
			seenRoot = true
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				if seenRoot {
					return errors.New("text after document element")
				}
				return errors.New("text before document element")
			}
		}
	}
	if !seenRoot {
		return errors.New("no document element")
	}
	return nil
}

// Empty reports whether p holds no parameters.
func (p Parameters) Empty() bool {
	return len(p) == 0
}

// Lookup walks a key path through nested mappings.
func (p Parameters) Lookup(path ...string) (any, bool) {
	if len(p) == 0 || len(path) == 0 {
		return nil, false
	}
	var current any = map[string]any(p)
	for _, key := range path {
		node, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// String returns the text value at path. Elements carrying attributes keep
// their text under "#text" and are unwrapped transparently.
func (p Parameters) String(path ...string) (string, bool) {
	value, ok := p.Lookup(path...)
	if !ok {
		return "", false
	}
	return textOf(value)
}

// List returns the mappings stored at path. A single nested element is
// returned as a one-item list; non-mapping entries are skipped.
func (p Parameters) List(path ...string) []Parameters {
	value, ok := p.Lookup(path...)
	if !ok {
		return nil
	}
	if node, ok := asMap(value); ok {
		return []Parameters{node}
	}
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]Parameters, 0, len(items))
	for _, item := range items {
		if node, ok := asMap(item); ok {
			out = append(out, node)
		}
	}
	return out
}

// RunID returns the run identifier written by the instrument software.
func (p Parameters) RunID() (string, bool) {
	return p.first([]string{"RunId"}, []string{"RunID"}, []string{"Setup", "RunID"})
}

// InstrumentType returns the best available description of the instrument
// model, checking the keys used by the different control software versions.
func (p Parameters) InstrumentType() (string, bool) {
	return p.first(
		[]string{"InstrumentType"},
		[]string{"Setup", "ApplicationName"},
		[]string{"ApplicationName"},
	)
}

func (p Parameters) first(paths ...[]string) (string, bool) {
	for _, path := range paths {
		if value, ok := p.String(path...); ok && value != "" {
			return value, true
		}
	}
	return "", false
}

func asMap(value any) (Parameters, bool) {
	switch node := value.(type) {
	case Parameters:
		return node, true
	case map[string]any:
		return Parameters(node), true
	case mxj.Map:
		return Parameters(node), true
	default:
		return nil, false
	}
}

func textOf(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	default:
		node, ok := asMap(value)
		if !ok {
			return "", false
		}
		text, ok := node["#text"].(string)
		return text, ok
	}
}
