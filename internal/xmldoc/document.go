package xmldoc

import (
	"strings"

	"github.com/beevik/etree"
)

// Document is a parsed documentation comment under its synthetic root
type Document struct {
	Method string
	doc    *etree.Document
}

// Root returns the synthetic root element
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// Serialize renders the whole document as XML. indent <= 0 keeps the
// source layout; otherwise elements holding only elements are indented and
// text content is written as parsed.
func (d *Document) Serialize(indent int) (string, error) {
	out := d.doc.Copy()
	if indent > 0 && out.Root() != nil {
		indentElement(out.Root(), 0, indent)
	}
	s, err := out.WriteToString()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\n"), nil
}

func indentElement(e *etree.Element, depth, width int) {
	if !elementOnly(e) {
		return
	}
	for i := len(e.Child) - 1; i >= 0; i-- {
		if _, ok := e.Child[i].(*etree.CharData); ok {
			e.RemoveChildAt(i)
		}
	}

	pad := "\n" + strings.Repeat(" ", width*(depth+1))
	for i := len(e.Child) - 1; i >= 0; i-- {
		if child, ok := e.Child[i].(*etree.Element); ok {
			indentElement(child, depth+1, width)
		}
		e.InsertChildAt(i, etree.NewText(pad))
	}
	e.AddChild(etree.NewText("\n" + strings.Repeat(" ", width*depth)))
}

// elementOnly reports whether e has child elements and no text other
// than whitespace.
func elementOnly(e *etree.Element) bool {
	hasElement := false
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return false
			}
		case *etree.Element:
			hasElement = true
		}
	}
	return hasElement
}

// Node is a plain view of an element, used for JSON and YAML output
type Node struct {
	Name     string            `json:"name" yaml:"name"`
	Attrs    map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Text     string            `json:"text,omitempty" yaml:"text,omitempty"`
	Children []Node            `json:"children,omitempty" yaml:"children,omitempty"`
}

// Tree converts the document into plain nodes. Text holds the element's
// own character data with surrounding whitespace removed.
func (d *Document) Tree() Node {
	return toNode(d.Root())
}

func toNode(e *etree.Element) Node {
	n := Node{Name: e.FullTag()}
	if len(e.Attr) > 0 {
		n.Attrs = make(map[string]string, len(e.Attr))
		for _, a := range e.Attr {
			n.Attrs[a.FullKey()] = a.Value
		}
	}

	var text strings.Builder
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			text.WriteString(t.Data)
		case *etree.Element:
			n.Children = append(n.Children, toNode(t))
		}
	}
	n.Text = strings.TrimSpace(text.String())
	return n
}

// TextContent concatenates all character data below e in document order
func TextContent(e *etree.Element) string {
	var b strings.Builder
	writeText(&b, e)
	return b.String()
}

func writeText(b *strings.Builder, e *etree.Element) {
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			writeText(b, t)
		}
	}
}
