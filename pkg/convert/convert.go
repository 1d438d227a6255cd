// Package convert rewrites a source file in place as comment-free UTF-8
// with a byte order mark.
package convert

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fulmenhq/codeutf8/pkg/charset"
	"github.com/fulmenhq/codeutf8/pkg/comments"
	"github.com/fulmenhq/codeutf8/pkg/format/finalizer"
	"github.com/fulmenhq/codeutf8/pkg/manifest"
	"github.com/fulmenhq/codeutf8/pkg/safeio"
)

// Outcome describes what converting one file did.
type Outcome struct {
	Path     string         `json:"path"`
	BytesIn  int            `json:"bytes_in"`
	BytesOut int            `json:"bytes_out"`
	Changed  bool           `json:"changed"`
	Written  bool           `json:"written"`
	Stats    comments.Stats `json:"stats"`
}

// Converter turns inspected files into stripped UTF-8 with a BOM.
type Converter struct {
	// NoOp computes the result without touching the file.
	NoOp bool
}

// New creates a converter.
func New(noOp bool) *Converter {
	return &Converter{NoOp: noOp}
}

// Transform decodes raw using label, normalizes line endings to LF, strips
// comments and re-encodes the result as UTF-8 with a BOM.
func Transform(raw []byte, label string) ([]byte, comments.Stats, error) {
	text, err := charset.Decode(raw, label)
	if err != nil {
		return nil, comments.Stats{}, err
	}
	text, _ = finalizer.NormalizeLineEndings(text)
	stripped, stats := comments.StripWithStats(text)
	return charset.EncodeUTF8BOM(stripped), stats, nil
}

// Convert rewrites the file named by rec, relative to root, using the
// encoding recorded during inspection. The file is overwritten in place with
// its mode preserved; files whose bytes would not change are left alone.
func (c *Converter) Convert(ctx context.Context, root string, rec manifest.FileRecord) (Outcome, error) {
	outcome := Outcome{Path: rec.Path}
	if err := ctx.Err(); err != nil {
		return outcome, err
	}

	path, err := safeio.ResolveContained(root, rec.Path)
	if err != nil {
		return outcome, fmt.Errorf("invalid path %s: %w", rec.Path, err)
	}

	raw, err := safeio.ReadFileContained(root, path)
	if err != nil {
		return outcome, fmt.Errorf("failed to read: %w", err)
	}
	outcome.BytesIn = len(raw)

	out, stats, err := Transform(raw, rec.Encoding)
	if err != nil {
		return outcome, err
	}
	outcome.BytesOut = len(out)
	outcome.Stats = stats
	outcome.Changed = !bytes.Equal(raw, out)

	if c.NoOp || !outcome.Changed {
		return outcome, nil
	}
	if err := safeio.WriteFilePreservePerms(path, out); err != nil {
		return outcome, fmt.Errorf("failed to write: %w", err)
	}
	outcome.Written = true
	return outcome, nil
}
