// Package vocabulary provides the W3C namespace IRIs, prefix table, and
// naming helpers used by the ontology exchange engine.
//
// References:
// - OWL 2: https://www.w3.org/TR/owl2-overview/
// - SKOS: https://www.w3.org/TR/skos-reference/
// - Dublin Core: https://www.dublincore.org/specifications/dublin-core/dcmi-terms/
// - PROV-O: https://www.w3.org/TR/prov-o/
package vocabulary

import (
	"strings"
	"unicode"
)

// Core namespace IRIs.
const (
	RDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS    = "http://www.w3.org/2000/01/rdf-schema#"
	OWL     = "http://www.w3.org/2002/07/owl#"
	XSD     = "http://www.w3.org/2001/XMLSchema#"
	DC      = "http://purl.org/dc/elements/1.1/"
	DCTerms = "http://purl.org/dc/terms/"
	SKOS    = "http://www.w3.org/2004/02/skos/core#"
	PROV    = "http://www.w3.org/ns/prov#"
)

// Ontology import IRIs for upstream ontologies an export may depend on.
const (
	BFOImport   = "http://purl.obolibrary.org/obo/bfo.owl"
	ProvOImport = "http://www.w3.org/ns/prov-o#"
)

// Frequently used term IRIs.
const (
	RDFType            = RDF + "type"
	RDFSClass          = RDFS + "Class"
	RDFSLabel          = RDFS + "label"
	RDFSComment        = RDFS + "comment"
	RDFSSubClassOf     = RDFS + "subClassOf"
	RDFSDomain         = RDFS + "domain"
	RDFSRange          = RDFS + "range"
	OWLClass           = OWL + "Class"
	OWLOntology        = OWL + "Ontology"
	OWLImports         = OWL + "imports"
	OWLVersionIRI      = OWL + "versionIRI"
	OWLObjectProperty  = OWL + "ObjectProperty"
	OWLDatatypeProp    = OWL + "DatatypeProperty"
	OWLFunctionalProp  = OWL + "FunctionalProperty"
	OWLInverseFuncProp = OWL + "InverseFunctionalProperty"
	OWLNamedIndividual = OWL + "NamedIndividual"
	SKOSDefinition     = SKOS + "definition"
	SKOSExample        = SKOS + "example"
	DCSubject          = DC + "subject"
	DCTermsCreated     = DCTerms + "created"
	DCTermsModified    = DCTerms + "modified"
)

// Prefix pairs a Turtle prefix label with its namespace IRI.
type Prefix struct {
	Label string
	IRI   string
}

// Prefixes returns the standard prefix table in canonical emission order.
// The order is fixed so exports stay byte-stable.
func Prefixes() []Prefix {
	return []Prefix{
		{"rdf", RDF},
		{"rdfs", RDFS},
		{"owl", OWL},
		{"xsd", XSD},
		{"dc", DC},
		{"dcterms", DCTerms},
		{"skos", SKOS},
	}
}

// reservedSubclassTypes are relation type names rendered as rdfs:subClassOf
// axioms rather than declared object properties.
var reservedSubclassTypes = map[string]bool{
	"is-a":        true,
	"isa":         true,
	"subclass-of": true,
	"type":        true,
}

// IsSubclassType reports whether a relation type name belongs to the
// reserved subclass set. Matching is case-insensitive on the trimmed name.
func IsSubclassType(relType string) bool {
	return reservedSubclassTypes[strings.ToLower(strings.TrimSpace(relType))]
}

// XSDType maps a concept property data type to its XSD datatype IRI.
// Unknown types fall back to xsd:string.
func XSDType(dataType string) string {
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case "integer", "int":
		return XSD + "integer"
	case "decimal", "float", "double":
		return XSD + "decimal"
	case "boolean", "bool":
		return XSD + "boolean"
	case "date":
		return XSD + "date"
	case "datetime":
		return XSD + "dateTime"
	case "anyuri", "uri":
		return XSD + "anyURI"
	default:
		return XSD + "string"
	}
}

// DataTypeFromXSD maps an XSD datatype IRI back to the concept property
// data type name. Unknown IRIs map to "string".
func DataTypeFromXSD(iri string) string {
	switch iri {
	case XSD + "integer", XSD + "int", XSD + "long":
		return "integer"
	case XSD + "decimal", XSD + "float", XSD + "double":
		return "decimal"
	case XSD + "boolean":
		return "boolean"
	case XSD + "date":
		return "date"
	case XSD + "dateTime":
		return "datetime"
	case XSD + "anyURI":
		return "anyURI"
	default:
		return "string"
	}
}

// LocalName extracts the local name from an IRI: the fragment when one is
// present, otherwise the final path segment.
func LocalName(iri string) string {
	if i := strings.LastIndex(iri, "#"); i >= 0 && i < len(iri)-1 {
		return iri[i+1:]
	}
	trimmed := strings.TrimRight(iri, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return iri
}

// Humanize converts a local name like "has-part" or "hasPart" into a
// display label ("has part"). Only the leading rune is upper-cased.
func Humanize(localName string) string {
	if localName == "" {
		return ""
	}

	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, r := range localName {
		switch {
		case r == '-' || r == '_' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			flush()
			current.WriteRune(unicode.ToLower(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()

	if len(words) == 0 {
		return ""
	}

	label := strings.Join(words, " ")
	return strings.ToUpper(label[:1]) + label[1:]
}

// SafeLocalName converts an arbitrary display name into a name usable as
// the local part of an IRI: spaces become hyphens and characters outside
// [A-Za-z0-9_-] are dropped.
func SafeLocalName(name string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == ' ':
			sb.WriteRune('-')
		case r == '-' || r == '_':
			sb.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
