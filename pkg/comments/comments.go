// Package comments removes C and C++ comments from decoded source text.
//
// The scanner is a single forward pass over runes. It only knows about
// string/character literals (so comment markers inside them survive),
// backslash escapes inside those literals, and the two comment forms
// "/* ... */" and "// ...". It is not a tokenizer: identifiers, numbers and
// preprocessor lines are copied through untouched.
package comments

import (
	"fmt"
	"io"
	"strings"

	"github.com/fulmenhq/codeutf8/pkg/format/finalizer"
)

// Stats reports what a scan removed.
type Stats struct {
	BlockComments int `json:"block_comments"`
	LineComments  int `json:"line_comments"`
	RemovedRunes  int `json:"removed_runes"`
}

// scanner holds the per-file state. It is discarded after one Scan.
type scanner struct {
	out strings.Builder

	inBlockComment bool
	inString       bool
	delimiter      rune
	escapePending  bool

	stats Stats
}

// Strip returns text with all comments removed, trailing whitespace trimmed
// from each line and blank lines dropped. It never fails: an unterminated
// block comment or literal simply runs to the end of the input.
func Strip(text string) string {
	out, _ := StripWithStats(text)
	return out
}

// StripWithStats is Strip plus a count of what was removed.
func StripWithStats(text string) (string, Stats) {
	s := &scanner{}
	s.scan([]rune(text))
	return finalizer.CompactLines(s.out.String()), s.stats
}

// StripReader reads r to the end and strips the result.
func StripReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return Strip(string(data)), nil
}

func (s *scanner) scan(src []rune) {
	n := len(src)
	for i := 0; i < n; {
		c := src[i]

		// The rune after a backslash inside a literal is copied whatever it is.
		if s.escapePending {
			s.escapePending = false
			s.emit(c)
			i++
			continue
		}

		if c == '\\' && s.inString {
			s.escapePending = true
			s.emit(c)
			i++
			continue
		}

		if !s.inBlockComment && (c == '"' || c == '\'') {
			if !s.inString {
				s.inString = true
				s.delimiter = c
			} else if c == s.delimiter {
				s.inString = false
				s.delimiter = 0
			}
			s.emit(c)
			i++
			continue
		}

		if s.inString {
			s.emit(c)
			i++
			continue
		}

		// Two-rune lookahead never reads past the last rune.
		hasNext := i < n-1

		if hasNext && !s.inBlockComment && c == '/' && src[i+1] == '*' {
			s.inBlockComment = true
			s.stats.BlockComments++
			s.stats.RemovedRunes += 2
			i += 2
			continue
		}

		if hasNext && s.inBlockComment && c == '*' && src[i+1] == '/' {
			s.inBlockComment = false
			s.stats.RemovedRunes += 2
			i += 2
			continue
		}

		if s.inBlockComment {
			s.stats.RemovedRunes++
			i++
			continue
		}

		if hasNext && c == '/' && src[i+1] == '/' {
			// The terminating newline is left in place for the next iteration.
			s.stats.LineComments++
			for i < n && src[i] != '\n' {
				s.stats.RemovedRunes++
				i++
			}
			continue
		}

		s.emit(c)
		i++
	}
}

func (s *scanner) emit(c rune) {
	s.out.WriteRune(c)
}
