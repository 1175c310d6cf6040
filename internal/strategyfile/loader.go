// Package strategyfile reads YAML strategy documents into the loose mapping
// shape the strategy parser consumes. No validation happens here: unknown
// shapes are the parser's to classify.
package strategyfile

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and decodes the strategy document at path.
func Load(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open strategy file: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode strategy file %s: %w", path, err)
	}
	return doc, nil
}

// Decode decodes one YAML document from r. Table and column names keep their
// exact case; an empty document decodes to an empty mapping.
func Decode(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}
