// Package graph publishes ontology entities to a knowledge-graph
// ingestion stream as semantic triples.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"

	"github.com/henboffman/ontology-builder-sub002/merge"
	"github.com/henboffman/ontology-builder-sub002/model"
)

// GraphIngestSubject is the stream subject for graph ingestion.
const GraphIngestSubject = "graph.ingest.entity"

const tripleSource = "ontology.import"

// EntityIngestMessage is the message format for graph ingestion.
type EntityIngestMessage struct {
	ID        string           `json:"id"`
	Triples   []message.Triple `json:"triples"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// PublishOntology publishes an ontology and its concepts to the
// knowledge graph. A nil client is a graceful no-op so callers without
// NATS configured lose nothing but the broadcast.
func PublishOntology(ctx context.Context, nc *natsclient.Client, o *model.Ontology) error {
	if nc == nil {
		return nil
	}

	now := time.Now()
	entityID := OntologyEntityID(o.ID)

	triples := []message.Triple{
		{Subject: entityID, Predicate: "ontology.meta.name", Object: o.Name, Source: tripleSource, Timestamp: now, Confidence: 1.0},
		{Subject: entityID, Predicate: "ontology.meta.namespace", Object: o.Namespace, Source: tripleSource, Timestamp: now, Confidence: 1.0},
		{Subject: entityID, Predicate: "ontology.meta.version", Object: o.Version, Source: tripleSource, Timestamp: now, Confidence: 1.0},
		{Subject: entityID, Predicate: "ontology.meta.concepts", Object: len(o.Concepts), Source: tripleSource, Timestamp: now, Confidence: 1.0},
		{Subject: entityID, Predicate: "ontology.meta.relationships", Object: len(o.Relationships), Source: tripleSource, Timestamp: now, Confidence: 1.0},
	}

	for _, c := range o.Concepts {
		conceptID := ConceptEntityID(c.ID)
		triples = append(triples, message.Triple{
			Subject: entityID, Predicate: "ontology.concept.has", Object: conceptID,
			Source: tripleSource, Timestamp: now, Confidence: 1.0,
		})
		triples = append(triples, message.Triple{
			Subject: conceptID, Predicate: "ontology.concept.name", Object: c.Name,
			Source: tripleSource, Timestamp: now, Confidence: 1.0,
		})
	}

	return publish(ctx, nc, EntityIngestMessage{ID: entityID, Triples: triples, UpdatedAt: now})
}

// PublishImportResult publishes the outcome of a merge or import run.
func PublishImportResult(ctx context.Context, nc *natsclient.Client, result *merge.Result) error {
	if nc == nil {
		return nil
	}

	now := time.Now()
	entityID := OntologyEntityID(result.OntologyID)

	triples := []message.Triple{
		{Subject: entityID, Predicate: "ontology.import.succeeded", Object: result.Succeeded, Source: tripleSource, Timestamp: now, Confidence: 1.0},
		{Subject: entityID, Predicate: "ontology.import.failed", Object: result.Failed, Source: tripleSource, Timestamp: now, Confidence: 1.0},
		{Subject: entityID, Predicate: "ontology.import.concepts", Object: result.ConceptsCreated, Source: tripleSource, Timestamp: now, Confidence: 1.0},
		{Subject: entityID, Predicate: "ontology.import.relationships", Object: result.RelationshipsCreated, Source: tripleSource, Timestamp: now, Confidence: 1.0},
	}

	return publish(ctx, nc, EntityIngestMessage{ID: entityID, Triples: triples, UpdatedAt: now})
}

func publish(ctx context.Context, nc *natsclient.Client, msg EntityIngestMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal entity: %w", err)
	}
	if err := nc.PublishToStream(ctx, GraphIngestSubject, data); err != nil {
		return fmt.Errorf("publish entity: %w", err)
	}
	return nil
}

// OntologyEntityID generates a consistent entity ID for an ontology.
func OntologyEntityID(id string) string {
	return fmt.Sprintf("ontology.local.catalog.ontology.%s", id)
}

// ConceptEntityID generates a consistent entity ID for a concept.
func ConceptEntityID(id string) string {
	return fmt.Sprintf("ontology.local.catalog.concept.%s", id)
}
