package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/henboffman/ontology-builder-sub002/model"
)

// MemoryStore is a mutex-guarded in-process Store. It is the default
// backend for tests and one-shot CLI runs.
type MemoryStore struct {
	mu            sync.RWMutex
	ontologies    map[string]*model.Ontology
	concepts      map[string]*model.Concept
	relationships map[string]*model.Relationship
	properties    map[string]*model.ConceptProperty
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ontologies:    make(map[string]*model.Ontology),
		concepts:      make(map[string]*model.Concept),
		relationships: make(map[string]*model.Relationship),
		properties:    make(map[string]*model.ConceptProperty),
	}
}

func (s *MemoryStore) CreateOntology(_ context.Context, o *model.Ontology) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ontologies[o.ID]; ok {
		return ErrAlreadyExists
	}
	clone := *o
	clone.Concepts = nil
	clone.Relationships = nil
	s.ontologies[o.ID] = &clone
	return nil
}

func (s *MemoryStore) GetOntology(_ context.Context, id string) (*model.Ontology, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.ontologies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.assemble(stored), nil
}

// assemble builds the full aggregate under the read lock. Collections
// are sorted by ID so repeated loads are deterministic.
func (s *MemoryStore) assemble(stored *model.Ontology) *model.Ontology {
	o := *stored
	for _, c := range s.concepts {
		if c.OntologyID != o.ID {
			continue
		}
		concept := *c
		for _, p := range s.properties {
			if p.ConceptID == concept.ID {
				prop := *p
				concept.Properties = append(concept.Properties, &prop)
			}
		}
		sort.Slice(concept.Properties, func(i, j int) bool {
			return concept.Properties[i].ID < concept.Properties[j].ID
		})
		o.Concepts = append(o.Concepts, &concept)
	}
	sort.Slice(o.Concepts, func(i, j int) bool { return o.Concepts[i].ID < o.Concepts[j].ID })

	for _, r := range s.relationships {
		if r.OntologyID == o.ID {
			rel := *r
			o.Relationships = append(o.Relationships, &rel)
		}
	}
	sort.Slice(o.Relationships, func(i, j int) bool { return o.Relationships[i].ID < o.Relationships[j].ID })
	return &o
}

func (s *MemoryStore) ListOntologies(_ context.Context) ([]*model.Ontology, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Ontology, 0, len(s.ontologies))
	for _, o := range s.ontologies {
		clone := *o
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) UpdateOntology(_ context.Context, o *model.Ontology) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ontologies[o.ID]; !ok {
		return ErrNotFound
	}
	clone := *o
	clone.Concepts = nil
	clone.Relationships = nil
	s.ontologies[o.ID] = &clone
	return nil
}

func (s *MemoryStore) CreateConcept(_ context.Context, c *model.Concept) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ontologies[c.OntologyID]; !ok {
		return ErrNotFound
	}
	if _, ok := s.concepts[c.ID]; ok {
		return ErrAlreadyExists
	}
	clone := *c
	clone.Properties = nil
	s.concepts[c.ID] = &clone
	return nil
}

func (s *MemoryStore) CreateRelationship(_ context.Context, r *model.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ontologies[r.OntologyID]; !ok {
		return ErrNotFound
	}
	if _, ok := s.concepts[r.SourceConceptID]; !ok {
		return ErrNotFound
	}
	if _, ok := s.concepts[r.TargetConceptID]; !ok {
		return ErrNotFound
	}
	clone := *r
	s.relationships[r.ID] = &clone
	return nil
}

func (s *MemoryStore) CreateProperty(_ context.Context, p *model.ConceptProperty) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.concepts[p.ConceptID]; !ok {
		return ErrNotFound
	}
	if _, ok := s.properties[p.ID]; ok {
		return ErrAlreadyExists
	}
	clone := *p
	s.properties[p.ID] = &clone
	return nil
}
