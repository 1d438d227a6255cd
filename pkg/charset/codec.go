package charset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fulmenhq/codeutf8/pkg/format/finalizer"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// LabelUTF8BOM names UTF-8 text that starts with a byte order mark.
const LabelUTF8BOM = "UTF-8-SIG"

// ErrUnknownEncoding is returned when a label cannot be mapped to a decoder.
var ErrUnknownEncoding = errors.New("unknown encoding")

// aliases covers labels the detector emits that neither the IANA nor the
// WHATWG index knows under that spelling.
var aliases = map[string]encoding.Encoding{
	"utf-8-sig": unicode.UTF8BOM,
	"utf8":      unicode.UTF8,
	"ascii":     unicode.UTF8,
	"gb-18030":  simplifiedchinese.GB18030,
	"utf-16le":  unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be":  unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"utf-32le":  utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM),
	"utf-32be":  utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM),
}

// Lookup resolves an encoding label.
func Lookup(label string) (encoding.Encoding, error) {
	norm := strings.ToLower(strings.TrimSpace(label))
	if norm == "" {
		return nil, fmt.Errorf("%w: empty label", ErrUnknownEncoding)
	}
	if enc, ok := aliases[norm]; ok {
		return enc, nil
	}
	// ianaindex returns a nil encoding for names it knows but cannot decode.
	if enc, err := ianaindex.IANA.Encoding(norm); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(norm); err == nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, label)
}

// Decode converts raw bytes in the named encoding to a UTF-8 string.
// Bytes that are invalid in that encoding become U+FFFD instead of failing
// the decode. A leading byte order mark is dropped.
func Decode(raw []byte, label string) (string, error) {
	enc, err := Lookup(label)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode as %s: %w", label, err)
	}
	return strings.TrimPrefix(string(out), "\uFEFF"), nil
}

// EncodeUTF8BOM encodes text as UTF-8 preceded by a byte order mark.
// Empty text still gets the mark.
func EncodeUTF8BOM(text string) []byte {
	text = strings.ToValidUTF8(strings.TrimPrefix(text, "\uFEFF"), "\uFFFD")
	out := make([]byte, 0, len(finalizer.UTF8BOM)+len(text))
	out = append(out, finalizer.UTF8BOM...)
	return append(out, text...)
}
