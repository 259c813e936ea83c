package turtle

import (
	"fmt"
	"io"
	"strings"

	"github.com/henboffman/ontology-builder-sub002/vocabulary"
)

// Parse reads a Turtle document and extracts a ParsedGraph. Malformed
// syntax returns a *ParseError with line and column; recognized but
// unusable constructs are recorded as warnings instead.
func Parse(r io.Reader) (*ParsedGraph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return ParseString(string(data))
}

// ParseString parses a Turtle document held in memory.
func ParseString(input string) (*ParsedGraph, error) {
	p := &parser{
		lex: newLexer(input),
		graph: &ParsedGraph{
			Prefixes: make(map[string]string),
		},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	p.extract()
	return p.graph, nil
}

type parser struct {
	lex   *lexer
	tok   token
	graph *ParsedGraph

	blankSubjects int
}

func (p *parser) next() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Line: p.tok.line, Column: p.tok.column, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) run() error {
	if err := p.next(); err != nil {
		return err
	}
	for p.tok.kind != tokEOF {
		switch p.tok.kind {
		case tokPrefixDirective:
			if err := p.parsePrefix(); err != nil {
				return err
			}
		case tokBaseDirective:
			if err := p.parseBase(); err != nil {
				return err
			}
		default:
			if err := p.parseTriples(); err != nil {
				return err
			}
		}
	}
	if p.blankSubjects > 0 {
		p.graph.warnf("skipped %d blank-node subject(s) (anonymous classes and restrictions are not imported)", p.blankSubjects)
	}
	return nil
}

// parsePrefix handles "@prefix ex: <iri> ." and SPARQL-style
// "PREFIX ex: <iri>" (terminating dot optional for both).
func (p *parser) parsePrefix() error {
	if err := p.next(); err != nil {
		return err
	}
	if p.tok.kind != tokPrefixedName || !strings.HasSuffix(p.tok.value, ":") {
		return p.errorf("expected prefix label ending in ':'")
	}
	label := strings.TrimSuffix(p.tok.value, ":")

	if err := p.next(); err != nil {
		return err
	}
	if p.tok.kind != tokIRIRef {
		return p.errorf("expected namespace IRI after prefix label")
	}
	p.graph.Prefixes[label] = p.resolveIRI(p.tok.value)

	if err := p.next(); err != nil {
		return err
	}
	if p.tok.kind == tokDot {
		return p.next()
	}
	return nil
}

func (p *parser) parseBase() error {
	if err := p.next(); err != nil {
		return err
	}
	if p.tok.kind != tokIRIRef {
		return p.errorf("expected IRI after base directive")
	}
	p.graph.BaseIRI = p.tok.value

	if err := p.next(); err != nil {
		return err
	}
	if p.tok.kind == tokDot {
		return p.next()
	}
	return nil
}

// parseTriples handles one "subject predicateObjectList ." statement.
func (p *parser) parseTriples() error {
	var subject string
	blank := false

	switch p.tok.kind {
	case tokIRIRef:
		subject = p.resolveIRI(p.tok.value)
	case tokPrefixedName:
		iri, err := p.expandName(p.tok.value)
		if err != nil {
			return err
		}
		subject = iri
	case tokBlankNode:
		subject = "_:" + p.tok.value
		blank = true
	case tokOpenBracket:
		// Anonymous subject: skip the whole bracketed structure and
		// the remainder of the statement.
		p.blankSubjects++
		if err := p.skipBracketed(); err != nil {
			return err
		}
		return p.skipToStatementEnd()
	default:
		return p.errorf("expected subject, got %q", p.tok.value)
	}

	if err := p.next(); err != nil {
		return err
	}
	if err := p.parsePredicateObjectList(subject, blank); err != nil {
		return err
	}
	if p.tok.kind != tokDot {
		return p.errorf("expected '.' at end of statement")
	}
	return p.next()
}

func (p *parser) parsePredicateObjectList(subject string, blankSubject bool) error {
	for {
		if p.tok.kind == tokDot || p.tok.kind == tokCloseBracket {
			return nil
		}

		predicate, err := p.parseVerb()
		if err != nil {
			return err
		}
		if err := p.next(); err != nil {
			return err
		}

		for {
			obj, err := p.parseObject()
			if err != nil {
				return err
			}
			if obj != nil && !blankSubject {
				p.graph.Statements = append(p.graph.Statements, Statement{
					Subject:   subject,
					Predicate: predicate,
					Object:    *obj,
				})
			}
			if blankSubject {
				p.blankSubjects++
			}
			if p.tok.kind != tokComma {
				break
			}
			if err := p.next(); err != nil {
				return err
			}
		}

		if p.tok.kind != tokSemicolon {
			return nil
		}
		if err := p.next(); err != nil {
			return err
		}
	}
}

func (p *parser) parseVerb() (string, error) {
	switch p.tok.kind {
	case tokIRIRef:
		return p.resolveIRI(p.tok.value), nil
	case tokPrefixedName:
		if p.tok.value == "a" {
			return vocabulary.RDFType, nil
		}
		return p.expandName(p.tok.value)
	default:
		return "", p.errorf("expected predicate, got %q", p.tok.value)
	}
}

// parseObject parses one object term and advances past it. A nil result
// with nil error means the object was skipped (blank-node property list
// or collection).
func (p *parser) parseObject() (*Object, error) {
	switch p.tok.kind {
	case tokIRIRef:
		obj := IRIObject(p.resolveIRI(p.tok.value))
		return &obj, p.next()

	case tokPrefixedName:
		switch p.tok.value {
		case "true", "false":
			obj := Object{Kind: ObjectLiteral, Value: p.tok.value, Datatype: vocabulary.XSD + "boolean"}
			return &obj, p.next()
		}
		iri, err := p.expandName(p.tok.value)
		if err != nil {
			return nil, err
		}
		obj := IRIObject(iri)
		return &obj, p.next()

	case tokBlankNode:
		obj := Object{Kind: ObjectBlank, Value: p.tok.value}
		return &obj, p.next()

	case tokNumber:
		datatype := vocabulary.XSD + "integer"
		if strings.ContainsAny(p.tok.value, ".eE") {
			datatype = vocabulary.XSD + "decimal"
		}
		obj := Object{Kind: ObjectLiteral, Value: p.tok.value, Datatype: datatype}
		return &obj, p.next()

	case tokLiteral:
		obj := Object{Kind: ObjectLiteral, Value: p.tok.value}
		if err := p.next(); err != nil {
			return nil, err
		}
		switch p.tok.kind {
		case tokLangTag:
			obj.Lang = p.tok.value
			return &obj, p.next()
		case tokDatatypeMarker:
			if err := p.next(); err != nil {
				return nil, err
			}
			switch p.tok.kind {
			case tokIRIRef:
				obj.Datatype = p.resolveIRI(p.tok.value)
			case tokPrefixedName:
				iri, err := p.expandName(p.tok.value)
				if err != nil {
					return nil, err
				}
				obj.Datatype = iri
			default:
				return nil, p.errorf("expected datatype IRI after ^^")
			}
			return &obj, p.next()
		}
		return &obj, nil

	case tokOpenBracket:
		p.graph.warnf("line %d: skipped blank-node property list (likely an OWL restriction)", p.tok.line)
		if err := p.skipBracketed(); err != nil {
			return nil, err
		}
		return nil, nil

	case tokOpenParen:
		p.graph.warnf("line %d: skipped RDF collection", p.tok.line)
		if err := p.skipCollection(); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		return nil, p.errorf("expected object, got %q", p.tok.value)
	}
}

// skipBracketed consumes a balanced [...] structure, including any
// nested brackets or parentheses, leaving the parser on the following
// token.
func (p *parser) skipBracketed() error {
	return p.skipBalanced(tokOpenBracket, tokCloseBracket)
}

func (p *parser) skipCollection() error {
	return p.skipBalanced(tokOpenParen, tokCloseParen)
}

func (p *parser) skipBalanced(open, close tokenKind) error {
	depth := 0
	for {
		switch p.tok.kind {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return p.next()
			}
		case tokEOF:
			return p.errorf("unterminated bracketed structure")
		}
		if err := p.next(); err != nil {
			return err
		}
	}
}

func (p *parser) skipToStatementEnd() error {
	for p.tok.kind != tokDot {
		if p.tok.kind == tokEOF {
			return p.errorf("unexpected end of input in statement")
		}
		if p.tok.kind == tokOpenBracket {
			if err := p.skipBracketed(); err != nil {
				return err
			}
			continue
		}
		if err := p.next(); err != nil {
			return err
		}
	}
	return p.next()
}

// expandName resolves a prefixed name against the declared prefixes.
func (p *parser) expandName(name string) (string, error) {
	i := strings.Index(name, ":")
	if i < 0 {
		return "", p.errorf("expected IRI or prefixed name, got %q", name)
	}
	prefix, local := name[:i], name[i+1:]
	ns, ok := p.graph.Prefixes[prefix]
	if !ok {
		return "", p.errorf("undeclared prefix %q", prefix)
	}
	return ns + local, nil
}

// resolveIRI resolves a (possibly relative) IRI against the base.
func (p *parser) resolveIRI(iri string) string {
	if p.graph.BaseIRI == "" || strings.Contains(iri, ":") {
		return iri
	}
	return p.graph.BaseIRI + iri
}
