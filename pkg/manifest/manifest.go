// Package manifest builds and renders the list of discovered files with
// their sizes and detected encodings.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileRecord describes one inspected file.
type FileRecord struct {
	Path     string `json:"file_name" yaml:"file_name" toml:"file_name"`
	Size     int64  `json:"file_size" yaml:"file_size" toml:"file_size"`
	Encoding string `json:"file_encoding" yaml:"file_encoding" toml:"file_encoding"`
	// Category is the extension bucket the file was discovered under.
	Category string `json:"-" yaml:"-" toml:"-"`
}

// Manifest is the document written to stdout before conversion.
type Manifest struct {
	Files []FileRecord `json:"files" yaml:"files" toml:"files"`
}

// Supported output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Build groups records by category in the given order and sorts each group
// by path. Groups are concatenated, never re-sorted as a whole. Records
// whose category is not listed follow, grouped by category name.
func Build(records []FileRecord, categories []string) Manifest {
	rank := make(map[string]int, len(categories))
	for i, c := range categories {
		if _, dup := rank[c]; !dup {
			rank[c] = i
		}
	}

	files := make([]FileRecord, len(records))
	copy(files, records)
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		ra, aKnown := rank[a.Category]
		rb, bKnown := rank[b.Category]
		switch {
		case aKnown && bKnown && ra != rb:
			return ra < rb
		case aKnown != bKnown:
			return aKnown
		case !aKnown && a.Category != b.Category:
			return a.Category < b.Category
		}
		return a.Path < b.Path
	})
	return Manifest{Files: files}
}

// Render serializes m in the requested format. An empty manifest renders
// with an empty file list, never a null one.
func Render(m Manifest, format string) ([]byte, error) {
	if m.Files == nil {
		m.Files = []FileRecord{}
	}

	var buf bytes.Buffer
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("failed to encode JSON manifest: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("failed to encode YAML manifest: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML manifest: %w", err)
		}
	case FormatTOML:
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("failed to encode TOML manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s", format)
	}
	return buf.Bytes(), nil
}

// Encode renders m and writes it to w in a single Write call.
func Encode(w io.Writer, m Manifest, format string) error {
	data, err := Render(m, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Parse reads a JSON or YAML manifest document.
func Parse(doc []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(doc, &m); err != nil {
		if yerr := yaml.Unmarshal(doc, &m); yerr != nil {
			return Manifest{}, fmt.Errorf("failed to parse manifest (JSON/YAML): %w", err)
		}
	}
	if m.Files == nil {
		m.Files = []FileRecord{}
	}
	return m, nil
}
