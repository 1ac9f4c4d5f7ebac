package xmldoc

import (
	"strings"
	"unicode"
)

// IdeographicSpace is the full-width space authors use as a deliberate
// indent inside remarks.
const IdeographicSpace = "\u3000"

// ExtractSection returns the re-flowed text of the first direct child of
// the root named tag. Missing or blank sections report false.
func ExtractSection(doc *Document, tag string) (string, bool) {
	root := doc.Root()
	if root == nil {
		return "", false
	}
	el := root.SelectElement(tag)
	if el == nil {
		return "", false
	}
	text := TextContent(el)
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return Reflow(text), true
}

// Reflow splits text on CR and LF, drops empty pieces and joins the
// re-flowed lines with "\n".
func Reflow(text string) string {
	lines := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\r' || r == '\n'
	})
	for i, line := range lines {
		lines[i] = ReflowLine(line)
	}
	return strings.Join(lines, "\n")
}

// ReflowLine removes leading whitespace from a line. A line that started
// with an ideographic space keeps exactly one.
func ReflowLine(line string) string {
	marked := strings.HasPrefix(line, IdeographicSpace)
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if marked {
		trimmed = IdeographicSpace + trimmed
	}
	return trimmed
}
