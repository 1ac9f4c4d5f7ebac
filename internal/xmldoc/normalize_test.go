package xmldoc

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gubarz/xmldoc/internal/csharp"
)

func normalize(t *testing.T, raw string) (*Document, error) {
	t.Helper()
	return NewNormalizer(Options{}).Normalize(&Block{Method: "M", Raw: raw})
}

func TestLocate(t *testing.T) {
	f, err := csharp.Parse("class A\n{\n    /// <summary>x</summary>\n    void Doc() { }\n    void NoDoc() { }\n}\n")
	require.NoError(t, err)
	require.Len(t, f.Methods, 2)

	block, ok := Locate(f.Methods[0])
	require.True(t, ok)
	assert.Equal(t, "Doc", block.Method)
	assert.Equal(t, 4, block.Line)
	assert.Equal(t, "/// <summary>x</summary>\n", block.Raw)

	block, ok = Locate(f.Methods[1])
	assert.False(t, ok)
	assert.Nil(t, block)
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		raw      string
		expected string
	}{
		{
			name:     "marker with space",
			raw:      "/// <summary>\n    /// Main\n    /// </summary>\n",
			expected: "<root> <summary>\n     Main\n     </summary>\n</root>",
		},
		{
			name:     "marker without space",
			raw:      "///<a/>\n///<b/>",
			expected: "<root><a/>\n<b/></root>",
		},
		{
			name:     "every occurrence is removed",
			raw:      "/// <c>a /// b</c>",
			expected: "<root> <c>a  b</c></root>",
		},
		{
			name:     "custom root and marker",
			opts:     Options{Marker: "//!", RootTag: "doc"},
			raw:      "//! <summary/>",
			expected: "<doc> <summary/></doc>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewNormalizer(tt.opts).Wrap(tt.raw))
		})
	}
}

func TestNormalizeTree(t *testing.T) {
	raw := "/// <summary>Adds two numbers.</summary>\n" +
		"/// <param name=\"a\">First</param>\n" +
		"/// <param name=\"b\">Second</param>\n" +
		"/// <returns>The <c>sum</c>.</returns>\n"

	doc, err := normalize(t, raw)
	require.NoError(t, err)
	assert.Equal(t, "M", doc.Method)

	want := Node{
		Name: "root",
		Children: []Node{
			{Name: "summary", Text: "Adds two numbers."},
			{Name: "param", Attrs: map[string]string{"name": "a"}, Text: "First"},
			{Name: "param", Attrs: map[string]string{"name": "b"}, Text: "Second"},
			{Name: "returns", Text: "The .", Children: []Node{{Name: "c", Text: "sum"}}},
		},
	}
	if diff := cmp.Diff(want, doc.Tree()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	raw := "/// <summary>\n/// Main\n/// </summary>\n/// <remarks>Usage <see cref=\"X\"/> here</remarks>\n/// <param name=\"args\"></param>\n"

	doc, err := normalize(t, raw)
	require.NoError(t, err)

	for _, indent := range []int{0, 2, 4} {
		out, err := doc.Serialize(indent)
		require.NoError(t, err)

		reparsed := etree.NewDocument()
		require.NoError(t, reparsed.ReadFromString(out))
		if diff := cmp.Diff(doc.Tree(), toNode(reparsed.Root())); diff != "" {
			t.Fatalf("indent %d (-want +got):\n%s", indent, diff)
		}
	}

	// Serializing must not re-indent the parsed document itself
	first, err := doc.Serialize(0)
	require.NoError(t, err)
	_, err = doc.Serialize(2)
	require.NoError(t, err)
	again, err := doc.Serialize(0)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestNormalizeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "unclosed tag", raw: "/// <summary>broken\n"},
		{name: "mismatched tags", raw: "/// <summary>x</remarks>\n"},
		{name: "stray close", raw: "/// </summary>\n"},
		{name: "bare ampersand", raw: "/// <summary>a & b</summary>\n"},
		{name: "unknown entity", raw: "/// <summary>&nbsp;</summary>\n"},
		{name: "duplicate attribute", raw: "/// <param name=\"a\" name=\"b\">x</param>\n"},
		{name: "duplicate prefixed attribute", raw: "/// <a xmlns:x=\"u\" x:k=\"1\" x:k=\"2\"/>\n"},
		{name: "undeclared element prefix", raw: "/// <x:note>undeclared prefix</x:note>\n"},
		{name: "undeclared attribute prefix", raw: "/// <see x:cref=\"T\"/>\n"},
		{name: "prefix out of scope", raw: "/// <a xmlns:x=\"u\"><x:b/></a><x:c/>\n"},
		{name: "empty prefix declaration", raw: "/// <a xmlns:x=\"\"/>\n"},
		{name: "reserved element prefix", raw: "/// <xmlns:a/>\n"},
		{name: "double colon element", raw: "/// <a:b:c/>\n"},
		{name: "leading colon element", raw: "/// <:a/>\n"},
		{name: "leading colon attribute", raw: "/// <a :x=\"1\"/>\n"},
		{name: "trailing colon attribute", raw: "/// <a x:=\"1\"/>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := normalize(t, tt.raw)
			require.Error(t, err)
			assert.Nil(t, doc)

			var mErr *MalformedMarkupError
			require.True(t, errors.As(err, &mErr))
			assert.Equal(t, "M", mErr.Method)
			assert.NotEmpty(t, mErr.Msg)
			assert.Equal(t, NewNormalizer(Options{}).Wrap(tt.raw), mErr.Text)
			assert.Contains(t, err.Error(), "malformed markup in M")
		})
	}
}

func TestNormalizeAcceptsNamespaces(t *testing.T) {
	raw := "/// <summary xml:lang=\"en\">ok</summary>\n" +
		"/// <x:note xmlns:x=\"urn:x\" x:kind=\"info\"><x:p>inner</x:p></x:note>\n" +
		"/// <a xmlns=\"urn:d\" name=\"n\"/>\n"

	doc, err := normalize(t, raw)
	require.NoError(t, err)

	want := []string{"summary", "x:note", "a"}
	var got []string
	for _, c := range doc.Tree().Children {
		got = append(got, c.Name)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, map[string]string{"xmlns:x": "urn:x", "x:kind": "info"}, doc.Tree().Children[1].Attrs)
}

func TestNewNormalizerDefaults(t *testing.T) {
	n := NewNormalizer(Options{RootTag: "doc"})
	assert.Equal(t, Options{Marker: "///", RootTag: "doc", RemarksTag: "remarks"}, n.Options())
}
