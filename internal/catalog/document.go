package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a raw, untyped catalog document as it arrives from a source.
// Meta and Items stay untyped until Normalize runs.
type Document struct {
	Meta  map[string]any `json:"meta,omitempty"`
	Items []any          `json:"items"`
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrNotObject = errors.New("catalog document is not an object")

// FormatForName picks the decoder from a file name or URL path.
func FormatForName(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses b as a catalog document. A missing or non-list "items" key
// decodes as an empty item list; a non-object "meta" is dropped.
func Decode(b []byte, f Format) (Document, error) {
	var top any
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(b, &top); err != nil {
			return Document{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		if err := dec.Decode(&top); err != nil {
			return Document{}, fmt.Errorf("decode json: %w", err)
		}
	}

	obj, ok := top.(map[string]any)
	if !ok {
		return Document{}, ErrNotObject
	}

	var doc Document
	if m, ok := obj["meta"].(map[string]any); ok {
		doc.Meta = m
	}
	if items, ok := obj["items"].([]any); ok {
		doc.Items = items
	}
	return doc, nil
}

// Encode writes the document as JSON (used by the snapshot store).
func Encode(doc Document) ([]byte, error) {
	if doc.Items == nil {
		doc.Items = []any{}
	}
	return json.Marshal(doc)
}
