package csharp

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TriviaKind classifies the non-token text between two tokens
type TriviaKind int

const (
	Whitespace TriviaKind = iota
	EndOfLine
	LineComment
	BlockComment
	DocComment   // consecutive /// lines grouped into one item
	Directive    // #region, #if, ...
	DisabledText // lines of an inactive #if branch
)

func (k TriviaKind) String() string {
	switch k {
	case Whitespace:
		return "whitespace"
	case EndOfLine:
		return "eol"
	case LineComment:
		return "line-comment"
	case BlockComment:
		return "block-comment"
	case DocComment:
		return "doc-comment"
	case Directive:
		return "directive"
	case DisabledText:
		return "disabled-text"
	}
	return fmt.Sprintf("trivia(%d)", int(k))
}

// Trivia is a single piece of leading trivia attached to a token
type Trivia struct {
	Kind TriviaKind
	Text string // exact source text
	Line int    // 1-based line of the first character
}

// TokenKind classifies a token
type TokenKind int

const (
	EOF TokenKind = iota
	Ident
	Punct
	Literal
)

// Token is a lexical token with the trivia that precedes it
type Token struct {
	Kind    TokenKind
	Text    string
	Line    int
	Column  int
	Leading []Trivia
}

// SyntaxError reports source text the lexer cannot tokenize
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// DocMarker is the line prefix of a documentation comment
const DocMarker = "///"

var twoCharPuncts = map[string]bool{
	"=>": true, "==": true, "!=": true, "<=": true, ">=": true,
	"&&": true, "||": true, "??": true, "?.": true, "::": true,
	"++": true, "--": true, "->": true, "+=": true, "-=": true,
	"*=": true, "/=": true, "%=": true, "&=": true, "|=": true, "^=": true,
}

type lexer struct {
	src       string
	pos       int
	line      int
	col       int
	lineStart bool // only whitespace seen since the last line break
	conds     []condFrame
}

// Lex splits C# source into tokens. The final token is always EOF and
// carries any trailing trivia of the file.
func Lex(src string) ([]Token, error) {
	src = strings.TrimPrefix(src, "\ufeff")
	l := &lexer{src: src, line: 1, col: 1, lineStart: true}

	var tokens []Token
	for {
		leading, err := l.trivia()
		if err != nil {
			return nil, err
		}
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tok.Leading = leading
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) peekByte(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

// advance moves past n bytes, keeping line and column current
func (l *lexer) advance(n int) {
	end := min(l.pos+n, len(l.src))
	for l.pos < end {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.pos += size
		if r == '\n' || (r == '\r' && l.peekByte(0) != '\n') {
			l.line++
			l.col = 1
			l.lineStart = true
			continue
		}
		l.col++
		if r != ' ' && r != '\t' && r != '\r' && r != '\f' && r != '\v' {
			l.lineStart = false
		}
	}
}

func (l *lexer) errorf(format string, args ...any) error {
	return &SyntaxError{Line: l.line, Column: l.col, Msg: fmt.Sprintf(format, args...)}
}

// trivia consumes whitespace, comments and directives before the next token
func (l *lexer) trivia() ([]Trivia, error) {
	var out []Trivia
	for !l.eof() {
		start, line := l.pos, l.line
		c := l.src[l.pos]
		switch {
		case c == '\r' || c == '\n':
			if c == '\r' && l.peekByte(1) == '\n' {
				l.advance(2)
			} else {
				l.advance(1)
			}
			out = append(out, Trivia{Kind: EndOfLine, Text: l.src[start:l.pos], Line: line})
		case c == ' ' || c == '\t' || c == '\f' || c == '\v':
			for !l.eof() && isBlank(l.src[l.pos]) {
				l.advance(1)
			}
			out = append(out, Trivia{Kind: Whitespace, Text: l.src[start:l.pos], Line: line})
		case c == '/' && l.peekByte(1) == '/':
			if l.lineStart && l.atDocMarker() {
				l.docComment()
				out = append(out, Trivia{Kind: DocComment, Text: l.src[start:l.pos], Line: line})
				continue
			}
			l.toLineEnd()
			out = append(out, Trivia{Kind: LineComment, Text: l.src[start:l.pos], Line: line})
		case c == '/' && l.peekByte(1) == '*':
			end := strings.Index(l.src[l.pos+2:], "*/")
			if end < 0 {
				return nil, l.errorf("unterminated block comment")
			}
			l.advance(end + 4)
			out = append(out, Trivia{Kind: BlockComment, Text: l.src[start:l.pos], Line: line})
		case c == '#' && l.lineStart:
			l.toLineEnd()
			out = append(out, Trivia{Kind: Directive, Text: l.src[start:l.pos], Line: line})
			if l.directive(l.src[start:l.pos]) {
				start, line = l.pos, l.line
				l.skipDisabled()
				if l.pos > start {
					out = append(out, Trivia{Kind: DisabledText, Text: l.src[start:l.pos], Line: line})
				}
			}
		default:
			return out, nil
		}
	}
	return out, nil
}

// atDocMarker reports whether the input starts with exactly three slashes
func (l *lexer) atDocMarker() bool {
	return strings.HasPrefix(l.src[l.pos:], DocMarker) && l.peekByte(len(DocMarker)) != '/'
}

// docComment consumes a run of consecutive /// lines, including the
// indentation between them and the final line break.
func (l *lexer) docComment() {
	for {
		l.toLineEnd()
		if l.eof() {
			return
		}
		l.lineBreak()

		indent := 0
		for l.pos+indent < len(l.src) && isBlank(l.src[l.pos+indent]) {
			indent++
		}
		rest := l.src[l.pos+indent:]
		if !strings.HasPrefix(rest, DocMarker) || strings.HasPrefix(rest, DocMarker+"/") {
			return
		}
		l.advance(indent)
	}
}

// lineBreak consumes one CR, LF or CRLF
func (l *lexer) lineBreak() {
	if l.src[l.pos] == '\r' && l.peekByte(1) == '\n' {
		l.advance(2)
	} else {
		l.advance(1)
	}
}

func (l *lexer) toLineEnd() {
	for !l.eof() && l.src[l.pos] != '\n' && l.src[l.pos] != '\r' {
		l.advance(1)
	}
}

func (l *lexer) next() (Token, error) {
	tok := Token{Line: l.line, Column: l.col}
	if l.eof() {
		tok.Kind = EOF
		return tok, nil
	}

	start := l.pos
	c := l.src[l.pos]
	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])

	switch {
	case l.atStringStart():
		if err := l.stringLiteral(); err != nil {
			return tok, err
		}
		tok.Kind = Literal
	case c == '\'':
		if err := l.charLiteral(); err != nil {
			return tok, err
		}
		tok.Kind = Literal
	case c == '@' && isIdentStart(l.runeAt(1)):
		l.advance(1)
		l.identRest()
		tok.Kind = Ident
	case isIdentStart(r):
		l.identRest()
		tok.Kind = Ident
	case c >= '0' && c <= '9':
		l.number()
		tok.Kind = Literal
	default:
		if l.pos+2 <= len(l.src) && twoCharPuncts[l.src[l.pos:l.pos+2]] {
			l.advance(2)
		} else {
			l.advance(1)
		}
		tok.Kind = Punct
	}

	tok.Text = l.src[start:l.pos]
	return tok, nil
}

func (l *lexer) runeAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos+off:])
	return r
}

func (l *lexer) identRest() {
	for !l.eof() {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) {
			return
		}
		l.advance(size)
	}
}

func (l *lexer) number() {
	for !l.eof() {
		c := l.src[l.pos]
		if isAlnum(c) || c == '_' || (c == '.' && l.peekByte(1) >= '0' && l.peekByte(1) <= '9') {
			l.advance(1)
			continue
		}
		return
	}
}

// atStringStart recognizes "...", @"...", $"...", $@"...", @$"..." and
// raw string literals with any number of leading dollars.
func (l *lexer) atStringStart() bool {
	i := 0
	for l.peekByte(i) == '$' || l.peekByte(i) == '@' {
		i++
	}
	return l.peekByte(i) == '"'
}

func (l *lexer) stringLiteral() error {
	verbatim, interpolated := false, false
	for l.src[l.pos] != '"' {
		switch l.src[l.pos] {
		case '@':
			verbatim = true
		case '$':
			interpolated = true
		}
		l.advance(1)
	}

	quotes := 0
	for l.peekByte(quotes) == '"' {
		quotes++
	}
	if quotes >= 3 {
		return l.rawString(quotes)
	}

	l.advance(1)
	for !l.eof() {
		c := l.src[l.pos]
		switch {
		case c == '"' && verbatim && l.peekByte(1) == '"':
			l.advance(2)
		case c == '"':
			l.advance(1)
			return nil
		case c == '\\' && !verbatim:
			l.advance(2)
		case c == '{' && interpolated && l.peekByte(1) == '{':
			l.advance(2)
		case c == '{' && interpolated:
			if err := l.interpolation(); err != nil {
				return err
			}
		case (c == '\n' || c == '\r') && !verbatim:
			return l.errorf("newline in string literal")
		default:
			l.advance(1)
		}
	}
	return l.errorf("unterminated string literal")
}

// interpolation skips a {expression} hole, including nested literals
func (l *lexer) interpolation() error {
	depth := 0
	for !l.eof() {
		c := l.src[l.pos]
		switch {
		case l.atStringStart():
			if err := l.stringLiteral(); err != nil {
				return err
			}
			continue
		case c == '\'':
			if err := l.charLiteral(); err != nil {
				return err
			}
			continue
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				l.advance(1)
				return nil
			}
		}
		l.advance(1)
	}
	return l.errorf("unterminated interpolation")
}

func (l *lexer) rawString(quotes int) error {
	delim := strings.Repeat(`"`, quotes)
	l.advance(quotes)
	end := strings.Index(l.src[l.pos:], delim)
	if end < 0 {
		return l.errorf("unterminated raw string literal")
	}
	l.advance(end + quotes)
	// a longer run of quotes belongs to the content
	for l.peekByte(0) == '"' {
		l.advance(1)
	}
	return nil
}

func (l *lexer) charLiteral() error {
	l.advance(1)
	for !l.eof() {
		switch l.src[l.pos] {
		case '\\':
			l.advance(2)
		case '\'':
			l.advance(1)
			return nil
		case '\n', '\r':
			return l.errorf("newline in character literal")
		default:
			l.advance(1)
		}
	}
	return l.errorf("unterminated character literal")
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f' || c == '\v'
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Pc, r)
}
