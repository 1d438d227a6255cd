// Package charset guesses the text encoding of raw file bytes and converts
// between that encoding and UTF-8.
package charset

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/fulmenhq/codeutf8/pkg/format/finalizer"
	"github.com/saintfish/chardet"
)

// LabelUTF8 names UTF-8 text without a byte order mark.
const LabelUTF8 = "UTF-8"

// DefaultFallback is the label returned when no confident guess is available.
const DefaultFallback = "utf-8"

// Detector guesses an encoding label for raw bytes. Implementations never
// fail: when nothing better is known they return a fallback label.
type Detector interface {
	Detect(raw []byte) string
}

// DetectorFunc adapts a plain function to the Detector interface.
type DetectorFunc func(raw []byte) string

// Detect calls f(raw).
func (f DetectorFunc) Detect(raw []byte) string { return f(raw) }

// StatisticalDetector wraps the chardet text detector.
type StatisticalDetector struct {
	Fallback      string
	MinConfidence int // 0-100, results below this use Fallback
}

// NewDetector creates a statistical detector. An empty fallback means DefaultFallback.
func NewDetector(fallback string, minConfidence int) *StatisticalDetector {
	if fallback == "" {
		fallback = DefaultFallback
	}
	return &StatisticalDetector{Fallback: fallback, MinConfidence: minConfidence}
}

// Detect returns the best encoding label for raw.
//
// A leading byte order mark decides the answer on its own. Otherwise the
// statistical guess is used if its confidence reaches MinConfidence.
func (d *StatisticalDetector) Detect(raw []byte) string {
	if len(raw) == 0 {
		return d.Fallback
	}

	if enc, _, found := finalizer.GetBOMInfo(raw); found {
		return bomLabel(enc)
	}

	// Short UTF-8 text can score higher as a single-byte charset. Decoding it
	// that way would rewrite the file as mojibake, so valid multi-byte UTF-8
	// is taken as is.
	if utf8.Valid(raw) && !isASCII(raw) {
		return LabelUTF8
	}

	// A fresh detector per call keeps Detect safe for concurrent workers.
	res, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil || res == nil || res.Charset == "" {
		return d.Fallback
	}
	if res.Confidence < d.MinConfidence {
		return d.Fallback
	}
	return res.Charset
}

func isASCII(raw []byte) bool {
	for _, b := range raw {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// DetectFile reads path and returns its size and detected encoding label.
func DetectFile(d Detector, path string) (size int64, label string, err error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- paths come from directory discovery
	if err != nil {
		return 0, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return int64(len(raw)), d.Detect(raw), nil
}

// bomLabel maps a BOM family to the label used in manifests. UTF-8 with a
// mark is reported as UTF-8-SIG so it can be told apart from plain UTF-8.
func bomLabel(enc string) string {
	if enc == "UTF-8" {
		return LabelUTF8BOM
	}
	return enc
}
