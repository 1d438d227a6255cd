// Package ascii lays out plain-text tables and boxes for terminal output,
// measuring text by display width so CJK file names stay aligned.
package ascii

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align selects how a table column is padded.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Box builds a box containing the provided lines and returns it as a string.
// Lines are left-aligned with single-space padding on each side. Multi-width
// runes (CJK, emoji) are accounted for so the borders stay aligned.
func Box(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	trimmed := make([]string, len(lines))
	maxWidth := 0
	for i, line := range lines {
		trimmed[i] = strings.TrimRight(line, " ")
		if w := StringWidth(trimmed[i]); w > maxWidth {
			maxWidth = w
		}
	}

	innerWidth := maxWidth + 2
	border := strings.Repeat("─", innerWidth)

	var sb strings.Builder
	sb.WriteString("┌" + border + "┐\n")
	for _, line := range trimmed {
		sb.WriteString("│ " + PadRight(line, maxWidth) + " │\n")
	}
	sb.WriteString("└" + border + "┘\n")
	return sb.String()
}

// Table renders headers and rows as columns separated by two spaces. A
// left-aligned last column is not padded. align may be shorter than
// headers; missing entries mean AlignLeft.
func Table(headers []string, rows [][]string, align []Align) string {
	cols := len(headers)
	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i > 0 {
				sb.WriteString("  ")
			}
			switch {
			case i < len(align) && align[i] == AlignRight:
				sb.WriteString(PadLeft(cell, widths[i]))
			case i == cols-1:
				sb.WriteString(cell)
			default:
				sb.WriteString(PadRight(cell, widths[i]))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

// Truncate shortens value so its display width fits width, appending "..."
// when there is room for it.
func Truncate(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

// PadRight appends spaces until s is width columns wide.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// PadLeft prepends spaces until s is width columns wide.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}

// StringWidth returns the display width of a string.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}
