package turtle

import (
	"strings"

	"github.com/henboffman/ontology-builder-sub002/vocabulary"
)

// extract folds raw statements into typed classes, properties, and
// individuals. Statements are kept as-is for the merge planner; this
// pass only adds structure on top.
func (p *parser) extract() {
	g := p.graph

	// Group statements by subject, preserving first-seen subject order.
	order := make([]string, 0)
	bySubject := make(map[string][]Statement)
	for _, st := range g.Statements {
		if _, seen := bySubject[st.Subject]; !seen {
			order = append(order, st.Subject)
		}
		bySubject[st.Subject] = append(bySubject[st.Subject], st)
	}

	for _, subject := range order {
		statements := bySubject[subject]
		types := typeIRIs(statements)

		switch {
		case hasType(types, vocabulary.OWLClass) || hasType(types, vocabulary.RDFSClass):
			g.Classes = append(g.Classes, extractClass(g, subject, statements))

		case hasType(types, vocabulary.OWLObjectProperty):
			g.Properties = append(g.Properties, extractProperty(subject, statements, true, types))

		case hasType(types, vocabulary.OWLDatatypeProp):
			g.Properties = append(g.Properties, extractProperty(subject, statements, false, types))

		case hasType(types, vocabulary.OWLNamedIndividual):
			g.Individuals = append(g.Individuals, &ParsedIndividual{
				IRI:   subject,
				Name:  localName(subject),
				Types: types,
			})
		}
	}
}

func typeIRIs(statements []Statement) []string {
	var types []string
	for _, st := range statements {
		if st.Predicate == vocabulary.RDFType && st.Object.Kind == ObjectIRI {
			types = append(types, st.Object.Value)
		}
	}
	return types
}

func hasType(types []string, iri string) bool {
	for _, t := range types {
		if t == iri {
			return true
		}
	}
	return false
}

func extractClass(g *ParsedGraph, subject string, statements []Statement) *ParsedClass {
	class := &ParsedClass{
		IRI:  subject,
		Name: localName(subject),
	}
	for _, st := range statements {
		switch st.Predicate {
		case vocabulary.RDFSLabel:
			if class.Label == "" && st.Object.Kind == ObjectLiteral {
				class.Label = st.Object.Value
			}
		case vocabulary.RDFSComment:
			if class.Comment == "" && st.Object.Kind == ObjectLiteral {
				class.Comment = st.Object.Value
			}
		case vocabulary.SKOSDefinition:
			if class.Definition == "" && st.Object.Kind == ObjectLiteral {
				class.Definition = st.Object.Value
			}
		case vocabulary.SKOSExample:
			if st.Object.Kind == ObjectLiteral {
				class.Examples = append(class.Examples, st.Object.Value)
			}
		case vocabulary.DCSubject, vocabulary.DCTerms + "subject":
			if class.Category == "" && st.Object.Kind == ObjectLiteral {
				class.Category = st.Object.Value
			}
		case vocabulary.RDFSSubClassOf:
			if st.Object.Kind == ObjectIRI {
				class.SuperClasses = append(class.SuperClasses, st.Object.Value)
			} else {
				g.warnf("class %s: skipped non-named superclass (restriction)", class.Name)
			}
		}
	}
	if class.Label == "" {
		class.Label = vocabulary.Humanize(class.Name)
	}
	return class
}

func extractProperty(subject string, statements []Statement, isObject bool, types []string) *ParsedProperty {
	prop := &ParsedProperty{
		IRI:        subject,
		Name:       localName(subject),
		IsObject:   isObject,
		Functional: hasType(types, vocabulary.OWLFunctionalProp),
	}
	for _, st := range statements {
		switch st.Predicate {
		case vocabulary.RDFSLabel:
			if prop.Label == "" && st.Object.Kind == ObjectLiteral {
				prop.Label = st.Object.Value
			}
		case vocabulary.RDFSComment:
			if prop.Comment == "" && st.Object.Kind == ObjectLiteral {
				prop.Comment = st.Object.Value
			}
		case vocabulary.RDFSDomain:
			if prop.Domain == "" && st.Object.Kind == ObjectIRI {
				prop.Domain = st.Object.Value
			}
		case vocabulary.RDFSRange:
			if prop.Range == "" && st.Object.Kind == ObjectIRI {
				prop.Range = st.Object.Value
			}
		}
	}
	if prop.Label == "" {
		prop.Label = vocabulary.Humanize(prop.Name)
	}
	return prop
}

// SubclassStatements returns (subject, object) class IRI pairs for every
// rdfs:subClassOf assertion with named endpoints.
func (g *ParsedGraph) SubclassStatements() [][2]string {
	var pairs [][2]string
	for _, st := range g.Statements {
		if st.Predicate == vocabulary.RDFSSubClassOf && st.Object.Kind == ObjectIRI {
			pairs = append(pairs, [2]string{st.Subject, st.Object.Value})
		}
	}
	return pairs
}

// ObjectStatements returns the statements whose predicate is neither an
// RDF/RDFS/OWL/annotation builtin nor a literal assertion: candidate
// concept-to-concept relationships for the planner.
func (g *ParsedGraph) ObjectStatements() []Statement {
	var out []Statement
	for _, st := range g.Statements {
		if st.Object.Kind != ObjectIRI {
			continue
		}
		if isBuiltinPredicate(st.Predicate) {
			continue
		}
		out = append(out, st)
	}
	return out
}

func isBuiltinPredicate(iri string) bool {
	for _, ns := range []string{
		vocabulary.RDF, vocabulary.RDFS, vocabulary.OWL,
		vocabulary.SKOS, vocabulary.DC, vocabulary.DCTerms,
	} {
		if strings.HasPrefix(iri, ns) {
			return true
		}
	}
	return false
}
