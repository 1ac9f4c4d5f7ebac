// Package csharp finds method declarations and their documentation
// comments in C# source text.
package csharp

// Declaration is a method declaration found in a source file
type Declaration struct {
	Name    string   // method identifier
	Line    int      // line of the identifier
	Column  int      // column of the identifier
	Leading []Trivia // leading trivia of the declaration's first token
}

// File holds the method declarations of one source file in document order
type File struct {
	Path    string
	Methods []*Declaration
}

var typeKeywords = map[string]bool{
	"class": true, "struct": true, "interface": true, "record": true,
	"namespace": true, "enum": true,
}

var modifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true,
	"static": true, "virtual": true, "override": true, "abstract": true,
	"sealed": true, "extern": true, "async": true, "unsafe": true,
	"new": true, "partial": true, "readonly": true, "volatile": true,
	"required": true, "file": true, "const": true,
}

// notMethodNames are keywords that can precede '(' without naming a method
var notMethodNames = map[string]bool{
	"if": true, "while": true, "for": true, "foreach": true, "switch": true,
	"catch": true, "using": true, "lock": true, "return": true, "fixed": true,
	"nameof": true, "typeof": true, "sizeof": true, "default": true,
	"checked": true, "unchecked": true, "when": true, "await": true,
	"throw": true, "base": true, "this": true, "operator": true, "stackalloc": true,
}

// statementLeads start statements rather than member declarations
var statementLeads = map[string]bool{
	"return": true, "await": true, "throw": true, "yield": true, "else": true,
	"goto": true, "case": true, "do": true, "try": true, "finally": true,
}

// Parse scans C# source text for method declarations. Method bodies are
// skipped, so local functions are never reported.
func Parse(src string) (*File, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	p.members(false)
	return &File{Methods: p.methods}, nil
}

// LeadingDocComment returns the raw text of the first documentation
// comment in the declaration's leading trivia.
func LeadingDocComment(d *Declaration) (string, bool) {
	for _, t := range d.Leading {
		if t.Kind == DocComment {
			return t.Text, true
		}
	}
	return "", false
}

type parser struct {
	tokens  []Token
	pos     int
	methods []*Declaration
}

func (p *parser) peek() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return Token{Kind: EOF}
}

// members walks the declarations of a namespace or type body. When nested
// is true it stops after the closing brace.
func (p *parser) members(nested bool) {
	for {
		tok := p.peek()
		if tok.Kind == EOF {
			return
		}
		if tok.Kind == Punct && tok.Text == "}" {
			p.pos++
			if nested {
				return
			}
			continue
		}

		start := p.pos
		depth := 0
	header:
		for {
			t := p.peek()
			if t.Kind == EOF {
				return
			}
			if t.Kind == Punct {
				switch t.Text {
				case "(", "[":
					depth++
				case ")", "]":
					depth--
				case ";", "{":
					if depth <= 0 {
						break header
					}
				case "}":
					if depth <= 0 {
						break header
					}
				}
			}
			p.pos++
		}

		h := p.tokens[start:p.pos]
		term := p.peek()
		switch term.Text {
		case ";":
			p.pos++
			p.addMethod(h)
		case "{":
			if kw := typeKeyword(h); kw != "" && kw != "enum" {
				p.pos++
				p.members(true)
				continue
			}
			p.addMethod(h)
			p.skipBlock()
		}
	}
}

// skipBlock consumes a balanced {...} group starting at the current token
func (p *parser) skipBlock() {
	depth := 0
	for {
		t := p.peek()
		if t.Kind == EOF {
			return
		}
		p.pos++
		if t.Kind != Punct {
			continue
		}
		switch t.Text {
		case "{":
			depth++
		case "}":
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *parser) addMethod(h []Token) {
	name, ok := methodName(h)
	if !ok {
		return
	}
	p.methods = append(p.methods, &Declaration{
		Name:    name.Text,
		Line:    name.Line,
		Column:  name.Column,
		Leading: h[0].Leading,
	})
}

// skipAttributes returns the index of the first token after any leading
// [...] attribute lists.
func skipAttributes(h []Token) int {
	i := 0
	for i < len(h) && h[i].Kind == Punct && h[i].Text == "[" {
		depth := 0
		for ; i < len(h); i++ {
			if h[i].Kind != Punct {
				continue
			}
			if h[i].Text == "[" {
				depth++
			} else if h[i].Text == "]" {
				depth--
				if depth == 0 {
					i++
					break
				}
			}
		}
	}
	return i
}

// typeKeyword returns the type or namespace keyword that introduces the
// header, if any, looking only before the first parameter list.
func typeKeyword(h []Token) string {
	for _, t := range h[skipAttributes(h):] {
		if t.Kind == Punct && t.Text == "(" {
			return ""
		}
		if t.Kind == Ident && typeKeywords[t.Text] {
			return t.Text
		}
	}
	return ""
}

// methodName decides whether a member header declares a method and
// returns its identifier token.
func methodName(h []Token) (Token, bool) {
	begin := skipAttributes(h)
	if begin >= len(h) {
		return Token{}, false
	}
	if typeKeyword(h) != "" {
		return Token{}, false
	}

	depth := 0
	for i := begin; i < len(h); i++ {
		t := h[i]
		if t.Kind == Ident && (t.Text == "delegate" || t.Text == "event" || t.Text == "operator") {
			return Token{}, false
		}
		if t.Kind != Punct {
			continue
		}
		switch t.Text {
		case "=", "=>":
			if depth == 0 {
				return Token{}, false
			}
		case ")":
			depth--
		case "(":
			if depth == 0 {
				if name, ok := candidate(h[begin:i]); ok {
					return name, true
				}
			}
			depth++
		}
	}
	return Token{}, false
}

// candidate checks the tokens before a parameter list: an identifier,
// optional type parameters, an optional explicit interface qualifier, and
// a non-empty return type.
func candidate(prefix []Token) (Token, bool) {
	j := len(prefix) - 1
	if j < 0 {
		return Token{}, false
	}
	if isPunct(prefix[j], ">") {
		j = skipTypeArgs(prefix, j)
	}
	if j < 0 || prefix[j].Kind != Ident {
		return Token{}, false
	}
	name := prefix[j]
	if notMethodNames[name.Text] || modifiers[name.Text] {
		return Token{}, false
	}
	if j > 0 && isPunct(prefix[j-1], "~") {
		return Token{}, false
	}

	k := j - 1
	for k >= 1 && (isPunct(prefix[k], ".") || isPunct(prefix[k], "::")) {
		k--
		if isPunct(prefix[k], ">") {
			k = skipTypeArgs(prefix, k)
		}
		if k < 0 || prefix[k].Kind != Ident {
			return Token{}, false
		}
		k--
	}

	rest := prefix[:k+1]
	for len(rest) > 0 && rest[0].Kind == Ident && modifiers[rest[0].Text] {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return Token{}, false
	}
	if rest[0].Kind == Ident && statementLeads[rest[0].Text] {
		return Token{}, false
	}
	if rest[0].Kind == Punct && rest[0].Text != "(" {
		return Token{}, false
	}
	return name, true
}

// skipTypeArgs walks back from a closing '>' to the token before its '<'
func skipTypeArgs(toks []Token, j int) int {
	depth := 0
	for ; j >= 0; j-- {
		switch {
		case isPunct(toks[j], ">"):
			depth++
		case isPunct(toks[j], "<"):
			depth--
			if depth == 0 {
				return j - 1
			}
		}
	}
	return -1
}

func isPunct(t Token, s string) bool {
	return t.Kind == Punct && t.Text == s
}
