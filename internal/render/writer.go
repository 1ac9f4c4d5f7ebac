// Package render prints extraction reports.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/gubarz/xmldoc/internal/extractor"
)

// Output formats for full-document mode
const (
	FormatXML  = "xml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Labels printed in front of entries
const (
	MethodLabel  = "Method: "
	RemarksLabel = "Remarks:"
	ErrorLabel   = "XML Parse Error: "
)

// Options configures a Writer
type Options struct {
	Format      string
	Indent      int
	RemarksOnly bool
}

// Writer renders report entries
type Writer struct {
	out    io.Writer
	opts   Options
	styles *StyleManager
}

// NewWriter creates a writer. Styles degrade to plain text when out is
// not a terminal.
func NewWriter(out io.Writer, opts Options) *Writer {
	if opts.Format == "" {
		opts.Format = FormatXML
	}
	styles := DefaultStyles(lipgloss.NewRenderer(out))
	styles.LoadFromConfig()
	return &Writer{out: out, opts: opts, styles: styles}
}

// Options returns the writer's options
func (w *Writer) Options() Options {
	return w.opts
}

// WithStyles replaces the writer's styles
func (w *Writer) WithStyles(s *StyleManager) *Writer {
	w.styles = s
	return w
}

// WriteReport writes every entry of the report in order
func (w *Writer) WriteReport(r *extractor.Report) error {
	for _, e := range r.Entries {
		if err := w.WriteEntry(e); err != nil {
			return err
		}
	}
	return nil
}

// WriteEntry writes a single entry
func (w *Writer) WriteEntry(e *extractor.Entry) error {
	s, err := w.RenderEntry(e)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w.out, s)
	return err
}

// RenderEntry returns the text WriteEntry would print
func (w *Writer) RenderEntry(e *extractor.Entry) (string, error) {
	var b strings.Builder

	if !e.OK() {
		b.WriteString(w.styles.Error.Render(strings.TrimSpace(ErrorLabel)))
		b.WriteString(" " + e.Err.Msg + "\n")
		b.WriteString(e.Err.Text + "\n\n")
		return b.String(), nil
	}

	b.WriteString(w.styles.Method.Render(MethodLabel+e.Method) + "\n")

	if w.opts.RemarksOnly {
		if e.HasRem {
			b.WriteString(w.styles.Label.Render(RemarksLabel) + "\n")
			b.WriteString(e.Remarks + "\n")
		}
	} else {
		body, err := w.document(e)
		if err != nil {
			return "", fmt.Errorf("rendering %s: %w", e.Method, err)
		}
		b.WriteString(body + "\n")
	}

	b.WriteString("\n")
	return b.String(), nil
}

func (w *Writer) document(e *extractor.Entry) (string, error) {
	switch w.opts.Format {
	case FormatJSON:
		indent := strings.Repeat(" ", w.opts.Indent)
		data, err := json.MarshalIndent(e.Doc.Tree(), "", indent)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		if w.opts.Indent > 0 {
			enc.SetIndent(w.opts.Indent)
		}
		if err := enc.Encode(e.Doc.Tree()); err != nil {
			return "", err
		}
		if err := enc.Close(); err != nil {
			return "", err
		}
		return strings.TrimRight(buf.String(), "\n"), nil
	case FormatXML:
		return e.Doc.Serialize(w.opts.Indent)
	}
	return "", fmt.Errorf("unknown format %q", w.opts.Format)
}
