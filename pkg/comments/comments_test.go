package comments

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no comments or literals",
			input:    "int main() {\n    return 0;\n}",
			expected: "int main() {\n    return 0;\n}",
		},
		{
			name:     "line comment keeps the newline",
			input:    "int x; // comment\nint y;",
			expected: "int x;\nint y;",
		},
		{
			name:     "whole-line comment leaves no blank line",
			input:    "// header\nint x;\n// footer\n",
			expected: "int x;",
		},
		{
			name:     "block comment spanning lines",
			input:    "/* block \n comment */ int x;",
			expected: " int x;",
		},
		{
			name:     "inline block comment",
			input:    "int /* width */ w = 3;",
			expected: "int  w = 3;",
		},
		{
			name:     "escaped quote inside string",
			input:    `char *s = "a\"b";`,
			expected: `char *s = "a\"b";`,
		},
		{
			name:     "comment markers inside string",
			input:    `const char *u = "http://x/*y*/"; // tail`,
			expected: `const char *u = "http://x/*y*/";`,
		},
		{
			name:     "escaped backslash ends before closing quote",
			input:    `p = "C:\\"; // dir`,
			expected: `p = "C:\\";`,
		},
		{
			name:     "double quote inside char literal",
			input:    `char c = '"'; // quote`,
			expected: `char c = '"';`,
		},
		{
			name:     "escaped single quote char literal",
			input:    `char c = '\''; /* q */`,
			expected: `char c = '\'';`,
		},
		{
			name:     "quotes inside block comment are ignored",
			input:    "/* it's \"quoted\" */ int x;",
			expected: " int x;",
		},
		{
			name:     "unterminated block comment",
			input:    "/* never closed",
			expected: "",
		},
		{
			name:     "unterminated block comment after code",
			input:    "int x;\n/* never closed\nint y;",
			expected: "int x;",
		},
		{
			name:     "unterminated string runs to end",
			input:    "s = \"open // not a comment\nnext /* line */",
			expected: "s = \"open // not a comment\nnext /* line */",
		},
		{
			name:     "trailing slash is literal",
			input:    "int x; /",
			expected: "int x; /",
		},
		{
			name:     "trailing line comment opener",
			input:    "int x; //",
			expected: "int x;",
		},
		{
			name:     "close marker outside comment is kept",
			input:    "a */ b",
			expected: "a */ b",
		},
		{
			name:     "slash star slash does not close",
			input:    "/*/ x */y",
			expected: "y",
		},
		{
			name:     "adjacent block comments",
			input:    "/* a *//* b */int z;",
			expected: "int z;",
		},
		{
			name:     "apostrophe in code opens a literal",
			input:    "x = a's; // c\ny;",
			expected: "x = a's; // c\ny;",
		},
		{
			name:     "CRLF line comment",
			input:    "a; // c\r\nb;\r\n",
			expected: "a;\nb;",
		},
		{
			name:     "non-ASCII text survives",
			input:    "// 注释\nconst char *s = \"你好\"; /* 块 */",
			expected: "const char *s = \"你好\";",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Strip(tt.input))
		})
	}
}

func TestStripBlockCommentTrimsToStatement(t *testing.T) {
	out := Strip("/* block \n comment */ int x;")
	assert.Equal(t, "int x;", strings.TrimSpace(out))
	assert.NotContains(t, out, "\n")
}

func TestStripIsIdempotent(t *testing.T) {
	inputs := []string{
		"int x; // c\nint y;",
		"/* a */ int a;\n\n\nint b; /* b\n */",
		`s = "//"; t = '/'; // x`,
		"#include <stdio.h>\n\nint main(void) {\n  printf(\"%d\\n\", 1); // print\n}\n",
	}
	for _, in := range inputs {
		once := Strip(in)
		assert.Equal(t, once, Strip(once), "input %q", in)
	}
}

func TestStripWithStats(t *testing.T) {
	out, stats := StripWithStats("/* a */ int x; // b\n/* c\n */ int y;")
	assert.Equal(t, " int x;\n int y;", out)
	assert.Equal(t, 2, stats.BlockComments)
	assert.Equal(t, 1, stats.LineComments)
	assert.Equal(t, len("/* a */")+len("// b")+len("/* c\n */"), stats.RemovedRunes)
}

func TestStripWithStatsCountsRunesNotBytes(t *testing.T) {
	_, stats := StripWithStats("//éé")
	assert.Equal(t, 4, stats.RemovedRunes)
}

func TestStripReader(t *testing.T) {
	out, err := StripReader(strings.NewReader("int x; /* gone */\n"))
	require.NoError(t, err)
	assert.Equal(t, "int x;", out)
}
