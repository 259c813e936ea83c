package turtle

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIRIRef          // <http://...>
	tokPrefixedName    // ex:Dog, :Dog, or bare keyword (a, true, false)
	tokBlankNode       // _:b0
	tokLiteral         // "..." or '''...'''
	tokNumber          // 42, 3.14, -1.2e3
	tokLangTag         // @en
	tokDatatypeMarker  // ^^
	tokDot
	tokSemicolon
	tokComma
	tokOpenBracket
	tokCloseBracket
	tokOpenParen
	tokCloseParen
	tokPrefixDirective // @prefix or PREFIX
	tokBaseDirective   // @base or BASE
)

type token struct {
	kind   tokenKind
	value  string
	line   int
	column int
}

// lexer scans Turtle text into tokens, tracking line and column for
// error reporting.
type lexer struct {
	input  string
	pos    int
	line   int
	column int
}

func newLexer(input string) *lexer {
	return &lexer{input: input, line: 1, column: 1}
}

func (l *lexer) errorf(format string, args ...any) *ParseError {
	return &ParseError{Line: l.line, Column: l.column, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		r := l.peek()
		switch {
		case r == '#':
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		case unicode.IsSpace(r):
			l.advance()
		default:
			return
		}
	}
}

// next returns the next token, or a ParseError on malformed input.
func (l *lexer) next() (token, error) {
	l.skipWhitespaceAndComments()

	tok := token{line: l.line, column: l.column}
	if l.pos >= len(l.input) {
		tok.kind = tokEOF
		return tok, nil
	}

	r := l.peek()
	switch {
	case r == '<':
		return l.lexIRIRef(tok)
	case r == '"' || r == '\'':
		return l.lexLiteral(tok, r)
	case r == '@':
		return l.lexAtKeyword(tok)
	case r == '^':
		l.advance()
		if l.peek() != '^' {
			return tok, l.errorf("expected ^^ datatype marker")
		}
		l.advance()
		tok.kind = tokDatatypeMarker
		return tok, nil
	case r == '.':
		// A dot may begin a decimal number (".5" is not legal Turtle,
		// so a bare dot is always a statement terminator).
		l.advance()
		tok.kind = tokDot
		return tok, nil
	case r == ';':
		l.advance()
		tok.kind = tokSemicolon
		return tok, nil
	case r == ',':
		l.advance()
		tok.kind = tokComma
		return tok, nil
	case r == '[':
		l.advance()
		tok.kind = tokOpenBracket
		return tok, nil
	case r == ']':
		l.advance()
		tok.kind = tokCloseBracket
		return tok, nil
	case r == '(':
		l.advance()
		tok.kind = tokOpenParen
		return tok, nil
	case r == ')':
		l.advance()
		tok.kind = tokCloseParen
		return tok, nil
	case r == '_':
		return l.lexBlankNode(tok)
	case r == '+' || r == '-' || unicode.IsDigit(r):
		return l.lexNumber(tok)
	default:
		return l.lexName(tok)
	}
}

func (l *lexer) lexIRIRef(tok token) (token, error) {
	l.advance() // consume <
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return tok, l.errorf("unterminated IRI reference")
		}
		r := l.advance()
		if r == '>' {
			tok.kind = tokIRIRef
			tok.value = sb.String()
			return tok, nil
		}
		if r == '\n' {
			return tok, l.errorf("newline inside IRI reference")
		}
		sb.WriteRune(r)
	}
}

// lexLiteral handles short ("...", '...') and long ("""...""") forms.
func (l *lexer) lexLiteral(tok token, quote rune) (token, error) {
	l.advance() // first quote

	long := false
	if l.peek() == quote {
		l.advance()
		if l.peek() == quote {
			l.advance()
			long = true
		} else {
			// Empty short literal.
			tok.kind = tokLiteral
			tok.value = ""
			return tok, nil
		}
	}

	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return tok, l.errorf("unterminated string literal")
		}
		r := l.advance()
		if r == '\\' {
			escaped, err := l.lexEscape()
			if err != nil {
				return tok, err
			}
			sb.WriteRune(escaped)
			continue
		}
		if r == quote {
			if !long {
				tok.kind = tokLiteral
				tok.value = sb.String()
				return tok, nil
			}
			if l.peek() == quote {
				l.advance()
				if l.peek() == quote {
					l.advance()
					tok.kind = tokLiteral
					tok.value = sb.String()
					return tok, nil
				}
				sb.WriteRune(quote)
				sb.WriteRune(quote)
				continue
			}
			sb.WriteRune(quote)
			continue
		}
		if r == '\n' && !long {
			return tok, l.errorf("newline in string literal")
		}
		sb.WriteRune(r)
	}
}

func (l *lexer) lexEscape() (rune, error) {
	if l.pos >= len(l.input) {
		return 0, l.errorf("unterminated escape sequence")
	}
	r := l.advance()
	switch r {
	case 't':
		return '\t', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case '"', '\'', '\\':
		return r, nil
	case 'u', 'U':
		width := 4
		if r == 'U' {
			width = 8
		}
		var code rune
		for i := 0; i < width; i++ {
			if l.pos >= len(l.input) {
				return 0, l.errorf("truncated unicode escape")
			}
			h := l.advance()
			var v rune
			switch {
			case h >= '0' && h <= '9':
				v = h - '0'
			case h >= 'a' && h <= 'f':
				v = h - 'a' + 10
			case h >= 'A' && h <= 'F':
				v = h - 'A' + 10
			default:
				return 0, l.errorf("invalid unicode escape character %q", h)
			}
			code = code<<4 | v
		}
		return code, nil
	default:
		return 0, l.errorf("unknown escape sequence \\%c", r)
	}
}

func (l *lexer) lexAtKeyword(tok token) (token, error) {
	l.advance() // consume @
	start := l.pos
	for l.pos < len(l.input) && (unicode.IsLetter(l.peek()) || l.peek() == '-') {
		l.advance()
	}
	word := l.input[start:l.pos]
	switch word {
	case "prefix":
		tok.kind = tokPrefixDirective
	case "base":
		tok.kind = tokBaseDirective
	default:
		// Language tag.
		if word == "" {
			return tok, l.errorf("empty language tag")
		}
		tok.kind = tokLangTag
		tok.value = word
	}
	return tok, nil
}

func (l *lexer) lexBlankNode(tok token) (token, error) {
	l.advance() // consume _
	if l.peek() != ':' {
		return tok, l.errorf("expected ':' after '_' in blank node label")
	}
	l.advance()
	start := l.pos
	for l.pos < len(l.input) && isNameChar(l.peek()) {
		l.advance()
	}
	tok.kind = tokBlankNode
	tok.value = l.input[start:l.pos]
	return tok, nil
}

func (l *lexer) lexNumber(tok token) (token, error) {
	start := l.pos
	if l.peek() == '+' || l.peek() == '-' {
		l.advance()
	}
	seenDigit := false
	for l.pos < len(l.input) {
		r := l.peek()
		if unicode.IsDigit(r) {
			seenDigit = true
			l.advance()
			continue
		}
		if r == '.' {
			// Only part of the number when followed by a digit;
			// otherwise it terminates the statement.
			next := l.pos + 1
			if next < len(l.input) && l.input[next] >= '0' && l.input[next] <= '9' {
				l.advance()
				continue
			}
			break
		}
		if r == 'e' || r == 'E' || r == '+' || r == '-' {
			l.advance()
			continue
		}
		break
	}
	if !seenDigit {
		return tok, l.errorf("malformed numeric literal")
	}
	tok.kind = tokNumber
	tok.value = l.input[start:l.pos]
	return tok, nil
}

// lexName scans a prefixed name (ex:Dog), a bare keyword (a, true,
// false, PREFIX, BASE), or a local-only name (:Dog).
func (l *lexer) lexName(tok token) (token, error) {
	start := l.pos
	for l.pos < len(l.input) {
		r := l.peek()
		if r == '.' {
			// A dot belongs to the name only when followed by another
			// name character; otherwise it terminates the statement.
			next := l.pos + 1
			if next >= len(l.input) || !isNameByte(l.input[next]) {
				break
			}
			l.advance()
			continue
		}
		if isNameChar(r) || r == ':' {
			l.advance()
			continue
		}
		break
	}
	word := l.input[start:l.pos]
	if word == "" {
		return tok, l.errorf("unexpected character %q", l.peek())
	}
	switch strings.ToUpper(word) {
	case "PREFIX":
		tok.kind = tokPrefixDirective
		return tok, nil
	case "BASE":
		tok.kind = tokBaseDirective
		return tok, nil
	}
	tok.kind = tokPrefixedName
	tok.value = word
	return tok, nil
}

func isNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		r == '_' || r == '-' || r == '.' || r == '%'
}

func isNameByte(b byte) bool {
	return b == '_' || b == '-' || b == '%' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') || b >= 0x80
}
