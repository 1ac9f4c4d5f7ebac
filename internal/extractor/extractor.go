package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/gubarz/xmldoc/internal/csharp"
	"github.com/gubarz/xmldoc/internal/xmldoc"
)

// Entry is the outcome for one documented method. Exactly one of Doc and
// Err is set.
type Entry struct {
	Method  string
	Line    int
	Doc     *xmldoc.Document
	Err     *xmldoc.MalformedMarkupError
	Remarks string // re-flowed remarks, set in remarks mode
	HasRem  bool   // whether the remarks section was present and non-blank
}

// OK reports whether the comment parsed
func (e *Entry) OK() bool {
	return e.Err == nil
}

// Report holds every documented method of one file in document order
type Report struct {
	Path    string
	Methods int // method declarations seen, documented or not
	Entries []*Entry
}

// Failures counts the entries whose comment did not parse
func (r *Report) Failures() int {
	n := 0
	for _, e := range r.Entries {
		if !e.OK() {
			n++
		}
	}
	return n
}

// Options configures an Extractor
type Options struct {
	Normalize   xmldoc.Options
	RemarksOnly bool
}

// Extractor runs the locate and normalize pipeline over source files
type Extractor struct {
	opts       Options
	normalizer *xmldoc.Normalizer
	log        *logrus.Logger
}

// NewExtractor creates an extractor. A nil logger gets a default one.
func NewExtractor(opts Options, log *logrus.Logger) *Extractor {
	if log == nil {
		log = logrus.New()
	}
	return &Extractor{
		opts:       opts,
		normalizer: xmldoc.NewNormalizer(opts.Normalize),
		log:        log,
	}
}

// ExtractFile reads a whole source file and extracts its documentation.
// Read and lexing failures are fatal; malformed comments are not.
func (x *Extractor) ExtractFile(ctx context.Context, path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	x.log.Debugf("Read %d bytes from %s", len(data), path)
	return x.ExtractSource(ctx, path, string(data))
}

// ExtractSource extracts documentation from in-memory source text
func (x *Extractor) ExtractSource(ctx context.Context, name, src string) (*Report, error) {
	file, err := csharp.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	file.Path = name

	report := &Report{Path: name, Methods: len(file.Methods)}
	for _, decl := range file.Methods {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		block, ok := xmldoc.Locate(decl)
		if !ok {
			x.log.Debugf("%s:%d %s has no documentation comment", name, decl.Line, decl.Name)
			continue
		}

		report.Entries = append(report.Entries, x.process(block))
	}

	x.log.WithFields(logrus.Fields{
		"file":       name,
		"methods":    report.Methods,
		"documented": len(report.Entries),
		"failures":   report.Failures(),
	}).Debug("Extraction finished")

	return report, nil
}

// process handles one comment block; a parse failure is captured in the
// entry instead of being returned.
func (x *Extractor) process(block *xmldoc.Block) *Entry {
	entry := &Entry{Method: block.Method, Line: block.Line}

	doc, err := x.normalizer.Normalize(block)
	if err != nil {
		var mErr *xmldoc.MalformedMarkupError
		if !errors.As(err, &mErr) {
			mErr = &xmldoc.MalformedMarkupError{Method: block.Method, Msg: err.Error(), Text: x.normalizer.Wrap(block.Raw)}
		}
		x.log.Warnf("Line %d: %v", block.Line, mErr)
		entry.Err = mErr
		return entry
	}

	entry.Doc = doc
	if x.opts.RemarksOnly {
		entry.Remarks, entry.HasRem = x.normalizer.Remarks(doc)
	}
	return entry
}
