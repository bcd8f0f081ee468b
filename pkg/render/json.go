package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// RenderJSON encodes a layout as indented JSON.
func RenderJSON(l *Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// ParseJSON decodes a layout from JSON bytes.
func ParseJSON(data []byte) (*Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &l, nil
}

// WriteJSON encodes a layout as JSON and writes it to w.
func WriteJSON(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a layout to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(l *Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(l, f)
}
