// Package turtle parses Turtle/RDF documents into an in-memory
// ParsedGraph. The parser is tolerant: unknown namespaces are preserved
// as opaque IRIs, and constructs the engine cannot use (OWL restrictions,
// blank-node-only structures, collections) are skipped with a warning
// instead of failing the parse.
package turtle

import (
	"fmt"

	"github.com/henboffman/ontology-builder-sub002/vocabulary"
)

// ParsedGraph is the ephemeral result of parsing an RDF document. It is
// produced here, consumed by the merge planner, and never persisted.
type ParsedGraph struct {
	// BaseIRI is the document base, when declared.
	BaseIRI string

	// Prefixes maps prefix labels to namespace IRIs as declared.
	Prefixes map[string]string

	Classes     []*ParsedClass
	Properties  []*ParsedProperty
	Individuals []*ParsedIndividual

	// Statements holds every named-subject triple in document order,
	// including those already folded into the typed collections above.
	// The planner uses these for relationship extraction.
	Statements []Statement

	// Warnings lists non-fatal constructs that were skipped.
	Warnings []string
}

// ParsedClass is a class extracted from the document.
type ParsedClass struct {
	IRI          string
	Name         string // local name derived from the IRI
	Label        string
	Comment      string
	Definition   string // skos:definition
	Examples     []string
	Category     string // dc:subject
	SuperClasses []string // IRIs of named superclasses
}

// ParsedProperty is an object or datatype property extracted from the
// document.
type ParsedProperty struct {
	IRI        string
	Name       string
	Label      string
	Comment    string
	IsObject   bool
	Functional bool
	Domain     string // IRI, empty when absent
	Range      string // IRI or XSD datatype IRI
}

// ParsedIndividual is a named individual extracted from the document.
type ParsedIndividual struct {
	IRI   string
	Name  string
	Types []string
}

// Statement is a single parsed triple with a named subject.
type Statement struct {
	Subject   string
	Predicate string
	Object    Object
}

// ObjectKind discriminates statement objects.
type ObjectKind int

const (
	// ObjectIRI means the object is a named resource.
	ObjectIRI ObjectKind = iota
	// ObjectLiteral means the object is a literal value.
	ObjectLiteral
	// ObjectBlank means the object is a blank node reference.
	ObjectBlank
)

// Object is a statement object: an IRI, a literal, or a blank node.
type Object struct {
	Kind     ObjectKind
	Value    string // IRI, lexical form, or blank node label
	Datatype string
	Lang     string
}

// IRIObject builds a named-resource object.
func IRIObject(iri string) Object { return Object{Kind: ObjectIRI, Value: iri} }

// LiteralObject builds a plain literal object.
func LiteralObject(value string) Object { return Object{Kind: ObjectLiteral, Value: value} }

// ParseError is a position-aware parse failure.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// ClassByIRI returns the parsed class with the given IRI, or nil.
func (g *ParsedGraph) ClassByIRI(iri string) *ParsedClass {
	for _, c := range g.Classes {
		if c.IRI == iri {
			return c
		}
	}
	return nil
}

// warnf records a non-fatal warning.
func (g *ParsedGraph) warnf(format string, args ...any) {
	g.Warnings = append(g.Warnings, fmt.Sprintf(format, args...))
}

// localName is a small indirection so extraction code reads naturally.
func localName(iri string) string { return vocabulary.LocalName(iri) }
