// Package model defines the persistent ontology aggregates: an Ontology
// owning Concepts, Relationships, and per-concept property declarations.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PropertyKind distinguishes datatype-valued from object-valued properties.
type PropertyKind string

const (
	// DataProperty holds a literal value (string, integer, date, ...).
	DataProperty PropertyKind = "data"

	// ObjectProperty references another concept.
	ObjectProperty PropertyKind = "object"
)

// Ontology is the aggregate root. Exactly one ontology owns a given
// concept or relationship.
type Ontology struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Namespace     string          `json:"namespace"`
	Version       string          `json:"version"`
	UsesBFO       bool            `json:"uses_bfo"`
	UsesProvO     bool            `json:"uses_prov_o"`
	CreatedAt     time.Time       `json:"created_at"`
	ModifiedAt    time.Time       `json:"modified_at"`
	Concepts      []*Concept      `json:"concepts,omitempty"`
	Relationships []*Relationship `json:"relationships,omitempty"`
}

// Concept is the ontology's notion of a class or category. Name is the
// display identity; merge matching is case-insensitive on the trimmed
// name, so names are not globally unique by construction.
type Concept struct {
	ID                string             `json:"id"`
	OntologyID        string             `json:"ontology_id"`
	Name              string             `json:"name"`
	Category          string             `json:"category,omitempty"`
	Definition        string             `json:"definition,omitempty"`
	SimpleExplanation string             `json:"simple_explanation,omitempty"`
	Examples          []string           `json:"examples,omitempty"`
	Color             string             `json:"color,omitempty"`
	SourceOntology    string             `json:"source_ontology,omitempty"`
	Properties        []*ConceptProperty `json:"properties,omitempty"`
}

// ConceptProperty declares a datatype- or object-valued attribute
// available to instances of a concept.
type ConceptProperty struct {
	ID             string       `json:"id"`
	ConceptID      string       `json:"concept_id"`
	Name           string       `json:"name"`
	URI            string       `json:"uri,omitempty"`
	Kind           PropertyKind `json:"kind"`
	DataType       string       `json:"data_type,omitempty"`
	RangeConceptID string       `json:"range_concept_id,omitempty"`
	Required       bool         `json:"required"`
	Functional     bool         `json:"functional"`
	Description    string       `json:"description,omitempty"`
}

// Relationship is a directed, typed edge between two concepts.
// RelationType is a local name; the reserved subclass set (is-a, isa,
// subclass-of, type) renders as rdfs:subClassOf rather than a declared
// object property.
type Relationship struct {
	ID              string `json:"id"`
	OntologyID      string `json:"ontology_id"`
	SourceConceptID string `json:"source_concept_id"`
	TargetConceptID string `json:"target_concept_id"`
	RelationType    string `json:"relation_type"`
	Label           string `json:"label,omitempty"`
	Description     string `json:"description,omitempty"`
}

// Validation errors.
var (
	ErrEmptyName      = errors.New("name is required")
	ErrEmptyNamespace = errors.New("namespace is required")
)

// NewOntology creates an ontology with a fresh ID and normalized namespace.
func NewOntology(name, namespace string) (*Ontology, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	ns, err := NormalizeNamespace(namespace)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Ontology{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(name),
		Namespace:  ns,
		Version:    "1.0.0",
		CreatedAt:  now,
		ModifiedAt: now,
	}, nil
}

// NormalizeNamespace trims the namespace URI and ensures it ends in "/"
// or "#" so term IRIs can be appended directly.
func NormalizeNamespace(namespace string) (string, error) {
	ns := strings.TrimSpace(namespace)
	if ns == "" {
		return "", ErrEmptyNamespace
	}
	if !strings.HasSuffix(ns, "/") && !strings.HasSuffix(ns, "#") {
		ns += "#"
	}
	return ns, nil
}

// NewConcept creates a concept owned by the given ontology.
func NewConcept(ontologyID, name string) *Concept {
	return &Concept{
		ID:         uuid.New().String(),
		OntologyID: ontologyID,
		Name:       strings.TrimSpace(name),
	}
}

// NewRelationship creates a relationship between two owned concepts.
func NewRelationship(ontologyID, sourceID, targetID, relType string) *Relationship {
	return &Relationship{
		ID:              uuid.New().String(),
		OntologyID:      ontologyID,
		SourceConceptID: sourceID,
		TargetConceptID: targetID,
		RelationType:    strings.TrimSpace(relType),
	}
}

// ConceptByID returns the owned concept with the given ID, or nil.
func (o *Ontology) ConceptByID(id string) *Concept {
	for _, c := range o.Concepts {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// FindConceptByName returns the first owned concept whose trimmed name
// matches case-insensitively, or nil. When duplicates exist the first
// match in concept order wins.
func (o *Ontology) FindConceptByName(name string) *Concept {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, c := range o.Concepts {
		if strings.ToLower(strings.TrimSpace(c.Name)) == want {
			return c
		}
	}
	return nil
}

// Validate checks aggregate consistency: required fields, a normalized
// namespace, and relationship endpoints owned by this ontology.
func (o *Ontology) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return ErrEmptyName
	}
	if o.Namespace == "" {
		return ErrEmptyNamespace
	}
	if !strings.HasSuffix(o.Namespace, "/") && !strings.HasSuffix(o.Namespace, "#") {
		return fmt.Errorf("namespace %q must end in / or #", o.Namespace)
	}
	for _, c := range o.Concepts {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("concept %s: %w", c.ID, ErrEmptyName)
		}
	}
	for _, r := range o.Relationships {
		if o.ConceptByID(r.SourceConceptID) == nil {
			return fmt.Errorf("relationship %s: source concept %s not in ontology", r.ID, r.SourceConceptID)
		}
		if o.ConceptByID(r.TargetConceptID) == nil {
			return fmt.Errorf("relationship %s: target concept %s not in ontology", r.ID, r.TargetConceptID)
		}
	}
	return nil
}

// TermIRI builds the full IRI of a term in this ontology's namespace.
func (o *Ontology) TermIRI(localName string) string {
	return o.Namespace + localName
}
