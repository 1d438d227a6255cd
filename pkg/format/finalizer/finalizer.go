/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package finalizer

import (
	"bytes"
	"strings"
	"unicode"
)

// UTF8BOM is the UTF-8 byte order mark.
var UTF8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomTable lists known byte order marks, longest first so UTF-32LE wins over UTF-16LE.
var bomTable = []struct {
	encoding string
	mark     []byte
}{
	{"UTF-32BE", []byte{0x00, 0x00, 0xFE, 0xFF}},
	{"UTF-32LE", []byte{0xFF, 0xFE, 0x00, 0x00}},
	{"UTF-8", UTF8BOM},
	{"UTF-16BE", []byte{0xFE, 0xFF}},
	{"UTF-16LE", []byte{0xFF, 0xFE}},
}

// GetBOMInfo returns information about detected BOM
func GetBOMInfo(input []byte) (encoding string, bomSize int, found bool) {
	for _, b := range bomTable {
		if bytes.HasPrefix(input, b.mark) {
			return b.encoding, len(b.mark), true
		}
	}
	return "", 0, false
}

// RemoveBOM removes Byte Order Mark of any supported encoding if present
func RemoveBOM(input []byte) (out []byte, changed bool) {
	if _, size, found := GetBOMInfo(input); found {
		return input[size:], true
	}
	return input, false
}

// NormalizeLineEndings converts CRLF and lone CR line endings to LF.
func NormalizeLineEndings(content string) (out string, changed bool) {
	if !strings.Contains(content, "\r") {
		return content, false
	}
	out = strings.ReplaceAll(content, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")
	return out, out != content
}

// CompactLines trims trailing whitespace from every line, drops lines that
// are blank after trimming and rejoins the rest with "\n". No trailing
// newline is appended.
func CompactLines(content string) string {
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimRightFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, "\n")
}
