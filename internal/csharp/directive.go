package csharp

import "strings"

// condFrame is one open #if group
type condFrame struct {
	active bool // the current branch is compiled
	taken  bool // some branch of the group has been compiled
}

func (l *lexer) frame() *condFrame {
	if len(l.conds) == 0 {
		return nil
	}
	return &l.conds[len(l.conds)-1]
}

// directive applies a conditional-compilation directive and reports
// whether the lines after it are inactive. No symbols are defined.
func (l *lexer) directive(text string) bool {
	name, expr := parseDirective(text)
	switch name {
	case "if":
		live := evalCondition(expr)
		l.conds = append(l.conds, condFrame{active: live, taken: live})
		return !live
	case "elif", "else":
		f := l.frame()
		if f == nil {
			return false
		}
		if f.taken {
			f.active = false
			return true
		}
		f.active = name == "else" || evalCondition(expr)
		f.taken = f.active
		return !f.active
	case "endif":
		if len(l.conds) > 0 {
			l.conds = l.conds[:len(l.conds)-1]
		}
	}
	return false
}

// skipDisabled consumes an inactive branch up to the start of the line
// holding the #elif, #else or #endif that ends it.
func (l *lexer) skipDisabled() {
	depth := 0
	l.toLineEnd()
	for !l.eof() {
		l.lineBreak()

		i := l.pos
		for i < len(l.src) && isBlank(l.src[i]) {
			i++
		}
		if i < len(l.src) && l.src[i] == '#' {
			end := i + strings.IndexAny(l.src[i:], "\r\n")
			if end < i {
				end = len(l.src)
			}
			name, _ := parseDirective(l.src[i:end])
			switch name {
			case "if":
				depth++
			case "endif":
				if depth == 0 {
					return
				}
				depth--
			case "elif", "else":
				if depth == 0 {
					return
				}
			}
		}
		l.toLineEnd()
	}
}

// parseDirective splits "#name expr // comment" into name and expr
func parseDirective(text string) (name, expr string) {
	s := strings.TrimLeft(strings.TrimPrefix(text, "#"), " \t\f\v")
	end := 0
	for end < len(s) && isAlnum(s[end]) {
		end++
	}
	name, expr = s[:end], s[end:]
	if i := strings.Index(expr, "//"); i >= 0 {
		expr = expr[:i]
	}
	return name, strings.TrimSpace(expr)
}

// evalCondition evaluates a preprocessor expression. true and false are
// literals; every other symbol is undefined.
func evalCondition(expr string) bool {
	p := &condParser{toks: condTokens(expr)}
	return p.or()
}

func condTokens(expr string) []string {
	var toks []string
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case isBlank(c):
			i++
		case i+1 < len(expr) && (expr[i:i+2] == "&&" || expr[i:i+2] == "||" || expr[i:i+2] == "==" || expr[i:i+2] == "!="):
			toks = append(toks, expr[i:i+2])
			i += 2
		case isAlnum(c) || c == '_':
			j := i
			for j < len(expr) && (isAlnum(expr[j]) || expr[j] == '_') {
				j++
			}
			toks = append(toks, expr[i:j])
			i = j
		default:
			toks = append(toks, expr[i:i+1])
			i++
		}
	}
	return toks
}

type condParser struct {
	toks []string
	pos  int
}

func (p *condParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *condParser) or() bool {
	v := p.and()
	for p.peek() == "||" {
		p.pos++
		r := p.and()
		v = v || r
	}
	return v
}

func (p *condParser) and() bool {
	v := p.equality()
	for p.peek() == "&&" {
		p.pos++
		r := p.equality()
		v = v && r
	}
	return v
}

func (p *condParser) equality() bool {
	v := p.unary()
	for op := p.peek(); op == "==" || op == "!="; op = p.peek() {
		p.pos++
		r := p.unary()
		v = (v == r) == (op == "==")
	}
	return v
}

func (p *condParser) unary() bool {
	if p.peek() == "!" {
		p.pos++
		return !p.unary()
	}
	return p.primary()
}

func (p *condParser) primary() bool {
	tok := p.peek()
	if tok == "" {
		return false
	}
	p.pos++
	if tok == "(" {
		v := p.or()
		if p.peek() == ")" {
			p.pos++
		}
		return v
	}
	return tok == "true"
}
