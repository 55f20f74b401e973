package persona

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/personas.yaml
var defaultCatalogFS embed.FS

const defaultCatalogFile = "data/personas.yaml"

type catalogFile struct {
	Version  int       `yaml:"version"`
	Personas []Persona `yaml:"personas"`
}

// DecodeYAML reads a persona catalog document. Unknown keys are rejected so a typo in an
// adaptation field cannot silently drop a prompt fragment.
func DecodeYAML(r io.Reader) ([]Persona, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc catalogFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty catalog document", ErrConfiguration)
		}
		return nil, fmt.Errorf("%w: decode catalog: %w", ErrConfiguration, err)
	}
	if doc.Version > 1 {
		return nil, fmt.Errorf("%w: unsupported catalog version %d", ErrConfiguration, doc.Version)
	}
	return doc.Personas, nil
}

// LoadRegistry builds a Registry from the YAML file at path, or from the embedded default
// catalog when path is empty.
func LoadRegistry(path string) (*Registry, error) {
	data, err := readCatalog(path)
	if err != nil {
		return nil, err
	}
	personas, err := DecodeYAML(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return NewRegistry(personas)
}

// DefaultRegistry loads the embedded catalog.
func DefaultRegistry() (*Registry, error) {
	return LoadRegistry("")
}

func readCatalog(path string) ([]byte, error) {
	if p := strings.TrimSpace(path); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: read catalog %s: %w", ErrConfiguration, p, err)
		}
		return data, nil
	}
	return defaultCatalogFS.ReadFile(defaultCatalogFile)
}
