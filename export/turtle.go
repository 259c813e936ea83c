// Package export serializes an ontology aggregate to OWL 2 DL Turtle.
// Output is canonical: identical ontology state always produces
// byte-identical text, so exports stay diffable.
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/henboffman/ontology-builder-sub002/model"
	"github.com/henboffman/ontology-builder-sub002/vocabulary"
)

// Serializer turns a fully-loaded ontology into a Turtle document.
type Serializer struct{}

// NewSerializer creates a Turtle serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Serialize renders the ontology as UTF-8 Turtle text. It fails with a
// structural error when the aggregate is inconsistent, e.g. a
// relationship referencing a concept the ontology does not own.
//
// Triple ordering is fixed: prefixes, ontology header, object property
// declarations, class declarations, concept property declarations, then
// subclass and generic assertions, each section sorted by stable keys.
func (s *Serializer) Serialize(o *model.Ontology) ([]byte, error) {
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("ontology is not serializable: %w", err)
	}

	var sb strings.Builder
	s.writePrefixes(&sb, o)
	s.writeHeader(&sb, o)
	s.writeRelationTypes(&sb, o)
	s.writeClasses(&sb, o)
	s.writeConceptProperties(&sb, o)
	s.writeAssertions(&sb, o)

	return []byte(sb.String()), nil
}

func (s *Serializer) writePrefixes(sb *strings.Builder, o *model.Ontology) {
	for _, p := range vocabulary.Prefixes() {
		fmt.Fprintf(sb, "@prefix %s: <%s> .\n", p.Label, p.IRI)
	}
	fmt.Fprintf(sb, "@prefix : <%s> .\n\n", o.Namespace)
}

func (s *Serializer) writeHeader(sb *strings.Builder, o *model.Ontology) {
	ontologyIRI := strings.TrimRight(o.Namespace, "/#")
	fmt.Fprintf(sb, "<%s> a owl:Ontology ;\n", ontologyIRI)
	fmt.Fprintf(sb, "    rdfs:label %s ;\n", literal(o.Name))
	if o.Version != "" {
		fmt.Fprintf(sb, "    owl:versionIRI <%s/%s> ;\n", ontologyIRI, o.Version)
	}
	if o.UsesBFO {
		fmt.Fprintf(sb, "    owl:imports <%s> ;\n", vocabulary.BFOImport)
	}
	if o.UsesProvO {
		fmt.Fprintf(sb, "    owl:imports <%s> ;\n", vocabulary.ProvOImport)
	}
	fmt.Fprintf(sb, "    dcterms:created %s ;\n", dateLiteral(o.CreatedAt))
	fmt.Fprintf(sb, "    dcterms:modified %s .\n\n", dateLiteral(o.ModifiedAt))
}

// relationTypeInfo aggregates every usage of one declared relation type.
type relationTypeInfo struct {
	localName   string
	description string
	domain      string // concept local name; empty when heterogeneous
	rang        string
	homogeneous bool
}

// writeRelationTypes emits one owl:ObjectProperty declaration per
// distinct non-reserved relation type. Domain and range are asserted
// only when every usage of the type shares a single source and target
// concept; mixed usage must not produce a spurious constraint.
func (s *Serializer) writeRelationTypes(sb *strings.Builder, o *model.Ontology) {
	infos := make(map[string]*relationTypeInfo)

	for _, rel := range sortedRelationships(o) {
		if vocabulary.IsSubclassType(rel.RelationType) {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(rel.RelationType))
		src := o.ConceptByID(rel.SourceConceptID)
		tgt := o.ConceptByID(rel.TargetConceptID)

		info, ok := infos[key]
		if !ok {
			info = &relationTypeInfo{
				localName:   vocabulary.SafeLocalName(key),
				domain:      vocabulary.SafeLocalName(src.Name),
				rang:        vocabulary.SafeLocalName(tgt.Name),
				homogeneous: true,
			}
			infos[key] = info
		}
		if info.description == "" && rel.Description != "" {
			info.description = rel.Description
		}
		if info.domain != vocabulary.SafeLocalName(src.Name) || info.rang != vocabulary.SafeLocalName(tgt.Name) {
			info.homogeneous = false
		}
	}

	keys := make([]string, 0, len(infos))
	for k := range infos {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		info := infos[key]
		fmt.Fprintf(sb, ":%s a owl:ObjectProperty ;\n", info.localName)
		fmt.Fprintf(sb, "    rdfs:label %s", literal(vocabulary.Humanize(info.localName)))
		if info.description != "" {
			fmt.Fprintf(sb, " ;\n    rdfs:comment %s", literal(info.description))
		}
		if info.homogeneous {
			fmt.Fprintf(sb, " ;\n    rdfs:domain :%s", info.domain)
			fmt.Fprintf(sb, " ;\n    rdfs:range :%s", info.rang)
		}
		sb.WriteString(" .\n\n")
	}
}

func (s *Serializer) writeClasses(sb *strings.Builder, o *model.Ontology) {
	for _, c := range sortedConcepts(o) {
		fmt.Fprintf(sb, ":%s a owl:Class ;\n", vocabulary.SafeLocalName(c.Name))
		fmt.Fprintf(sb, "    rdfs:label %s", literal(c.Name))
		if c.Definition != "" {
			fmt.Fprintf(sb, " ;\n    rdfs:comment %s", literal(c.Definition))
		}
		if c.SimpleExplanation != "" {
			fmt.Fprintf(sb, " ;\n    skos:definition %s", literal(c.SimpleExplanation))
		}
		for _, example := range c.Examples {
			fmt.Fprintf(sb, " ;\n    skos:example %s", literal(example))
		}
		if c.Category != "" {
			fmt.Fprintf(sb, " ;\n    dc:subject %s", literal(c.Category))
		}
		sb.WriteString(" .\n\n")
	}
}

func (s *Serializer) writeConceptProperties(sb *strings.Builder, o *model.Ontology) {
	for _, c := range sortedConcepts(o) {
		props := make([]*model.ConceptProperty, len(c.Properties))
		copy(props, c.Properties)
		sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })

		for _, prop := range props {
			term := propertyTerm(o, prop)

			kind := "owl:DatatypeProperty"
			if prop.Kind == model.ObjectProperty {
				kind = "owl:ObjectProperty"
			}
			fmt.Fprintf(sb, "%s a %s", term, kind)
			if prop.Functional {
				sb.WriteString(" , owl:FunctionalProperty")
			}
			fmt.Fprintf(sb, " ;\n    rdfs:label %s", literal(prop.Name))
			if prop.Description != "" {
				fmt.Fprintf(sb, " ;\n    rdfs:comment %s", literal(prop.Description))
			}
			fmt.Fprintf(sb, " ;\n    rdfs:domain :%s", vocabulary.SafeLocalName(c.Name))

			if prop.Kind == model.ObjectProperty {
				if rangeConcept := o.ConceptByID(prop.RangeConceptID); rangeConcept != nil {
					fmt.Fprintf(sb, " ;\n    rdfs:range :%s", vocabulary.SafeLocalName(rangeConcept.Name))
				}
			} else {
				fmt.Fprintf(sb, " ;\n    rdfs:range <%s>", vocabulary.XSDType(prop.DataType))
			}
			sb.WriteString(" .\n\n")
		}
	}
}

// writeAssertions emits subclass axioms for reserved relation types and
// generic property assertions for everything else.
func (s *Serializer) writeAssertions(sb *strings.Builder, o *model.Ontology) {
	for _, rel := range sortedRelationships(o) {
		src := o.ConceptByID(rel.SourceConceptID)
		tgt := o.ConceptByID(rel.TargetConceptID)

		if vocabulary.IsSubclassType(rel.RelationType) {
			fmt.Fprintf(sb, ":%s rdfs:subClassOf :%s .\n",
				vocabulary.SafeLocalName(src.Name), vocabulary.SafeLocalName(tgt.Name))
			continue
		}
		fmt.Fprintf(sb, ":%s :%s :%s .\n",
			vocabulary.SafeLocalName(src.Name),
			vocabulary.SafeLocalName(strings.ToLower(strings.TrimSpace(rel.RelationType))),
			vocabulary.SafeLocalName(tgt.Name))
	}
}

func sortedConcepts(o *model.Ontology) []*model.Concept {
	concepts := make([]*model.Concept, len(o.Concepts))
	copy(concepts, o.Concepts)
	sort.Slice(concepts, func(i, j int) bool {
		if concepts[i].Name != concepts[j].Name {
			return concepts[i].Name < concepts[j].Name
		}
		return concepts[i].ID < concepts[j].ID
	})
	return concepts
}

func sortedRelationships(o *model.Ontology) []*model.Relationship {
	rels := make([]*model.Relationship, len(o.Relationships))
	copy(rels, o.Relationships)
	sort.Slice(rels, func(i, j int) bool {
		a, b := rels[i], rels[j]
		an := o.ConceptByID(a.SourceConceptID).Name
		bn := o.ConceptByID(b.SourceConceptID).Name
		if an != bn {
			return an < bn
		}
		if a.RelationType != b.RelationType {
			return a.RelationType < b.RelationType
		}
		at := o.ConceptByID(a.TargetConceptID).Name
		bt := o.ConceptByID(b.TargetConceptID).Name
		if at != bt {
			return at < bt
		}
		return a.ID < b.ID
	})
	return rels
}

// propertyTerm renders a concept property's subject term: its declared
// URI when set, otherwise a term in the ontology's own namespace.
func propertyTerm(o *model.Ontology, prop *model.ConceptProperty) string {
	if prop.URI != "" {
		if strings.HasPrefix(prop.URI, o.Namespace) {
			return ":" + strings.TrimPrefix(prop.URI, o.Namespace)
		}
		return "<" + prop.URI + ">"
	}
	return ":" + vocabulary.SafeLocalName(prop.Name)
}

func literal(s string) string {
	return `"` + escapeString(s) + `"`
}

func dateLiteral(t time.Time) string {
	return fmt.Sprintf("%q^^xsd:date", t.UTC().Format("2006-01-02"))
}

// escapeString escapes special characters for Turtle string literals.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
