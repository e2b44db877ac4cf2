package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/recjson/value"
)

// ErrNotFound is returned when a YAML bundle has no schema with the requested name.
var ErrNotFound = errors.New("schema: named schema not found in YAML bundle")

// Document is one YAML schema document. Either Type holds a full descriptor
// or Attributes lists the record attributes.
//
//	name: Order
//	attributes:
//	  - name: id
//	    type: int64
//	  - name: customer
//	    optional: true
//	    attributes:
//	      - {name: name, type: rstring}
//	  - name: tags
//	    type: list<rstring>
type Document struct {
	Name       string      `yaml:"name"`
	Type       string      `yaml:"type"`
	Attributes []Attribute `yaml:"attributes"`
}

// Attribute describes one record attribute. A nested record is written with
// Attributes instead of Type.
type Attribute struct {
	Name       string      `yaml:"name"`
	Type       string      `yaml:"type"`
	Optional   bool        `yaml:"optional"`
	Attributes []Attribute `yaml:"attributes"`
}

// Build resolves the document into a record type.
func (d Document) Build() (*value.Type, error) {
	if d.Type != "" {
		t, err := ParseType(d.Type)
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", d.Name, err)
		}
		return t, nil
	}
	t, err := buildRecord(d.Attributes)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", d.Name, err)
	}
	return t, nil
}

func buildRecord(attrs []Attribute) (*value.Type, error) {
	if len(attrs) == 0 {
		return nil, errors.New("record has no attributes")
	}
	fields := make([]value.Field, 0, len(attrs))
	for _, a := range attrs {
		t, err := a.build()
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		fields = append(fields, value.F(a.Name, t))
	}
	return value.NewRecord(fields...)
}

func (a Attribute) build() (*value.Type, error) {
	var (
		t   *value.Type
		err error
	)
	switch {
	case a.Type != "" && len(a.Attributes) > 0:
		return nil, errors.New("type and attributes are mutually exclusive")
	case a.Type != "":
		t, err = ParseType(a.Type)
	default:
		t, err = buildRecord(a.Attributes)
	}
	if err != nil {
		return nil, err
	}
	if a.Optional {
		t = value.Optional(t)
	}
	return t, nil
}

// LoadYAML reads the first schema document of a (possibly multi-document)
// YAML bundle.
func LoadYAML(data []byte) (*value.Type, error) {
	return loadYAML(data, "", false)
}

// LoadYAMLNamed scans a multi-document YAML bundle for the schema with the
// given name.
func LoadYAMLNamed(data []byte, name string) (*value.Type, error) {
	return loadYAML(data, name, true)
}

// LoadFile reads a YAML schema file; name selects a document when non-empty.
func LoadFile(path, name string) (*value.Type, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if name != "" {
		return LoadYAMLNamed(data, name)
	}
	return LoadYAML(data)
}

func loadYAML(data []byte, name string, byName bool) (*value.Type, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc Document
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if byName && doc.Name != name {
			continue
		}
		return doc.Build()
	}
	if byName {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil, errors.New("schema: empty YAML input")
}
