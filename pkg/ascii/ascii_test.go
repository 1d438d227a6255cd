package ascii

import (
	"strings"
	"testing"
)

func TestBox(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "single line",
			lines: []string{"Hello"},
			want:  "┌───────┐\n│ Hello │\n└───────┘\n",
		},
		{
			name:  "multiple lines",
			lines: []string{"Line 1", "Longer line here", "Short"},
			want: "┌──────────────────┐\n" +
				"│ Line 1           │\n" +
				"│ Longer line here │\n" +
				"│ Short            │\n" +
				"└──────────────────┘\n",
		},
		{
			name:  "cjk width",
			lines: []string{"编码: GB18030", "files: 12"},
			want: "┌───────────────┐\n" +
				"│ 编码: GB18030 │\n" +
				"│ files: 12     │\n" +
				"└───────────────┘\n",
		},
		{
			name:  "trailing spaces ignored",
			lines: []string{"a   "},
			want:  "┌───┐\n│ a │\n└───┘\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Box(tt.lines)
			if got != tt.want {
				t.Errorf("Box() =\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestBoxEmpty(t *testing.T) {
	if got := Box(nil); got != "" {
		t.Errorf("Box(nil) = %q, want empty", got)
	}
}

func TestTable(t *testing.T) {
	got := Table(
		[]string{"FILE", "SIZE", "ENCODING"},
		[][]string{
			{"src/注释.c", "12", "GB18030"},
			{"a.h", "1024", "utf-8"},
		},
		[]Align{AlignLeft, AlignRight},
	)
	want := "FILE        SIZE  ENCODING\n" +
		"src/注释.c    12  GB18030\n" +
		"a.h         1024  utf-8\n"
	if got != want {
		t.Errorf("Table() =\n%s\nwant:\n%s", got, want)
	}

	for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
		if strings.HasSuffix(line, " ") {
			t.Errorf("line has trailing space: %q", line)
		}
	}
}

func TestTableShortRows(t *testing.T) {
	got := Table([]string{"A", "B"}, [][]string{{"x"}}, nil)
	want := "A  B\nx  \n"
	if got != want {
		t.Errorf("Table() = %q, want %q", got, want)
	}
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"hello", 5},
		{"你好", 4},
		{"a你b", 4},
	}
	for _, tt := range tests {
		if got := StringWidth(tt.input); got != tt.want {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		width int
		want  string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "12345", 5, "12345"},
		{"ellipsis", "a long file name", 8, "a lon..."},
		{"tiny width", "abcdef", 2, "ab"},
		{"zero width", "abc", 0, ""},
		{"wide runes", "注释注释注释", 7, "注释..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.value, tt.width); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.value, tt.width, got, tt.want)
			}
		})
	}
}

func TestPad(t *testing.T) {
	if got := PadRight("注", 4); got != "注  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadLeft("7", 3); got != "  7" {
		t.Errorf("PadLeft = %q", got)
	}
}
