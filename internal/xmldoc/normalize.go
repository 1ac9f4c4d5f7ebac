// Package xmldoc turns the documentation comment of a method declaration
// into an XML tree and extracts sections from it.
package xmldoc

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/gubarz/xmldoc/internal/csharp"
)

// Options controls how comment text becomes markup
type Options struct {
	Marker     string // line prefix removed before parsing
	RootTag    string // synthetic root element
	RemarksTag string // section returned by Remarks
}

// DefaultOptions returns the options matching C# XML documentation
func DefaultOptions() Options {
	return Options{
		Marker:     csharp.DocMarker,
		RootTag:    "root",
		RemarksTag: "remarks",
	}
}

// Block is the raw documentation comment attached to one method
type Block struct {
	Method string
	Line   int
	Raw    string
}

// MalformedMarkupError is returned when a comment does not parse as XML.
// Text is the wrapped markup handed to the parser.
type MalformedMarkupError struct {
	Method string
	Msg    string
	Text   string
}

func (e *MalformedMarkupError) Error() string {
	if e.Method == "" {
		return "malformed markup: " + e.Msg
	}
	return fmt.Sprintf("malformed markup in %s: %s", e.Method, e.Msg)
}

// Locate returns the documentation comment of a declaration, if it has one
func Locate(d *csharp.Declaration) (*Block, bool) {
	raw, ok := csharp.LeadingDocComment(d)
	if !ok {
		return nil, false
	}
	return &Block{Method: d.Name, Line: d.Line, Raw: raw}, true
}

// Normalizer converts comment blocks into documents
type Normalizer struct {
	opts Options
}

// NewNormalizer creates a normalizer. Empty option fields fall back to
// DefaultOptions.
func NewNormalizer(opts Options) *Normalizer {
	def := DefaultOptions()
	if opts.Marker == "" {
		opts.Marker = def.Marker
	}
	if opts.RootTag == "" {
		opts.RootTag = def.RootTag
	}
	if opts.RemarksTag == "" {
		opts.RemarksTag = def.RemarksTag
	}
	return &Normalizer{opts: opts}
}

// Options returns the effective options
func (n *Normalizer) Options() Options {
	return n.opts
}

// Wrap removes every marker occurrence and encloses the result in the
// synthetic root element.
func (n *Normalizer) Wrap(raw string) string {
	text := strings.ReplaceAll(raw, n.opts.Marker, "")
	return "<" + n.opts.RootTag + ">" + text + "</" + n.opts.RootTag + ">"
}

// Normalize parses a comment block. Failures are reported as
// *MalformedMarkupError and never retried.
func (n *Normalizer) Normalize(b *Block) (*Document, error) {
	wrapped := n.Wrap(b.Raw)

	doc := etree.NewDocument()
	doc.ReadSettings.ValidateInput = true
	doc.ReadSettings.PreserveDuplicateAttrs = true
	if err := doc.ReadFromString(wrapped); err != nil {
		return nil, &MalformedMarkupError{Method: b.Method, Msg: err.Error(), Text: wrapped}
	}
	if doc.Root() == nil {
		return nil, &MalformedMarkupError{Method: b.Method, Msg: "missing root element", Text: wrapped}
	}
	if err := checkNames(doc.Root(), map[string]bool{"xml": true}); err != nil {
		return nil, &MalformedMarkupError{Method: b.Method, Msg: err.Error(), Text: wrapped}
	}

	return &Document{Method: b.Method, doc: doc}, nil
}

// Remarks extracts and re-flows the remarks section of a document
func (n *Normalizer) Remarks(doc *Document) (string, bool) {
	return ExtractSection(doc, n.opts.RemarksTag)
}
