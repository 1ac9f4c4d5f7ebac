package xmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflowLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected string
	}{
		{name: "ideographic indent keeps one", line: "　　note", expected: "　note"},
		{name: "single ideographic indent", line: "　note", expected: "　note"},
		{name: "ascii spaces stripped", line: "    plain text", expected: "plain text"},
		{name: "tabs stripped", line: "\t\tplain", expected: "plain"},
		{name: "ascii before ideographic is not a marker", line: " 　note", expected: "note"},
		{name: "mixed after marker dropped", line: "　 　note", expected: "　note"},
		{name: "interior whitespace kept", line: "a  b　c ", expected: "a  b　c "},
		{name: "blank line becomes empty", line: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReflowLine(tt.line))
		})
	}
}

func TestReflowLineIdempotent(t *testing.T) {
	for _, line := range []string{"　　note", "    plain", "\t　x", "　", "", "text"} {
		once := ReflowLine(line)
		assert.Equal(t, once, ReflowLine(once), "line %q", line)
	}
}

func TestReflow(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "drops empty pieces from any line break",
			text:     "\r\n  first\r\n\r\n  second\n\n\rthird\r",
			expected: "first\nsecond\nthird",
		},
		{
			name:     "whitespace-only lines survive as empty lines",
			text:     "\n a\n   \n b\n ",
			expected: "a\n\nb\n",
		},
		{
			name:     "order is preserved",
			text:     "c\nb\na",
			expected: "c\nb\na",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Reflow(tt.text))
		})
	}
}

func TestExtractRemarks(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{
			name:     "indented comment text",
			raw:      "/// <summary>s</summary>\n/// <remarks>\n///    line one\n///　　line two\n/// </remarks>\n",
			expected: "line one\n　line two\n",
			ok:       true,
		},
		{
			name:     "space after marker hides the ideographic indent",
			raw:      "/// <remarks>\n/// 　あああ\n/// </remarks>\n",
			expected: "あああ\n",
			ok:       true,
		},
		{
			name:     "nested markup contributes its text",
			raw:      "/// <remarks>See <see cref=\"X\">X</see> and <c>y</c></remarks>",
			expected: "See X and y",
			ok:       true,
		},
		{
			name: "missing section",
			raw:  "/// <summary>only</summary>\n",
		},
		{
			name: "empty section",
			raw:  "/// <remarks/>\n",
		},
		{
			name: "whitespace-only section",
			raw:  "/// <remarks>\n///    \n/// </remarks>\n",
		},
		{
			name:     "first remarks wins",
			raw:      "/// <remarks>one</remarks>\n/// <remarks>two</remarks>\n",
			expected: "one",
			ok:       true,
		},
		{
			name: "nested remarks are not direct children",
			raw:  "/// <summary><remarks>inner</remarks></summary>\n",
		},
	}

	n := NewNormalizer(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := n.Normalize(&Block{Method: "M", Raw: tt.raw})
			require.NoError(t, err)

			text, ok := n.Remarks(doc)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestExtractSectionCustomTag(t *testing.T) {
	n := NewNormalizer(Options{RemarksTag: "summary"})
	doc, err := n.Normalize(&Block{Method: "M", Raw: "/// <summary>\n///   hello\n/// </summary>\n"})
	require.NoError(t, err)

	text, ok := n.Remarks(doc)
	require.True(t, ok)
	assert.Equal(t, "hello\n", text)
}
