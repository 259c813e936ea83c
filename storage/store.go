// Package storage persists ontology aggregates. Three backends share
// one interface: an in-memory store, a SQLite store, and a NATS
// JetStream KV store. Every entity creation is its own round trip so a
// failing item never rolls back items already committed.
package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/henboffman/ontology-builder-sub002/model"
)

// Common storage errors.
var (
	// ErrNotFound is returned when an entity is not found.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when creating an entity whose ID is taken.
	ErrAlreadyExists = errors.New("entity already exists")
)

// Store provides ontology persistence. GetOntology returns the fully
// loaded aggregate (concepts, properties, relationships).
type Store interface {
	CreateOntology(ctx context.Context, o *model.Ontology) error
	GetOntology(ctx context.Context, id string) (*model.Ontology, error)
	ListOntologies(ctx context.Context) ([]*model.Ontology, error)
	UpdateOntology(ctx context.Context, o *model.Ontology) error

	CreateConcept(ctx context.Context, c *model.Concept) error
	CreateRelationship(ctx context.Context, r *model.Relationship) error
	CreateProperty(ctx context.Context, p *model.ConceptProperty) error
}

// IsTransient reports whether a storage error looks like a temporary
// infrastructure failure rather than a caller mistake. The merge engine
// records transient failures per item and never retries them itself.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := err.Error()
	for _, hint := range []string{"timeout", "connection", "unavailable", "busy", "locked"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
