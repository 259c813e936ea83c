package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/henboffman/ontology-builder-sub002/model"
)

// Bucket names for each entity type.
const (
	BucketOntologies    = "ONTOLOGY_ONTOLOGIES"
	BucketConcepts      = "ONTOLOGY_CONCEPTS"
	BucketRelationships = "ONTOLOGY_RELATIONSHIPS"
	BucketProperties    = "ONTOLOGY_PROPERTIES"
)

// KVStore is a Store backed by NATS JetStream KV, one bucket per entity
// type with JSON values.
type KVStore struct {
	ontologies    jetstream.KeyValue
	concepts      jetstream.KeyValue
	relationships jetstream.KeyValue
	properties    jetstream.KeyValue
}

// NewKVStore creates a KVStore with the given JetStream context,
// creating the KV buckets if they don't exist.
func NewKVStore(ctx context.Context, js jetstream.JetStream) (*KVStore, error) {
	ontologies, err := getOrCreateBucket(ctx, js, BucketOntologies)
	if err != nil {
		return nil, fmt.Errorf("create ontologies bucket: %w", err)
	}
	concepts, err := getOrCreateBucket(ctx, js, BucketConcepts)
	if err != nil {
		return nil, fmt.Errorf("create concepts bucket: %w", err)
	}
	relationships, err := getOrCreateBucket(ctx, js, BucketRelationships)
	if err != nil {
		return nil, fmt.Errorf("create relationships bucket: %w", err)
	}
	properties, err := getOrCreateBucket(ctx, js, BucketProperties)
	if err != nil {
		return nil, fmt.Errorf("create properties bucket: %w", err)
	}

	return &KVStore{
		ontologies:    ontologies,
		concepts:      concepts,
		relationships: relationships,
		properties:    properties,
	}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("Ontology builder %s storage", strings.ToLower(name)),
		History:     5, // Keep last 5 revisions
	})
}

func (s *KVStore) CreateOntology(ctx context.Context, o *model.Ontology) error {
	return createJSON(ctx, s.ontologies, o.ID, stripOntology(o))
}

func (s *KVStore) GetOntology(ctx context.Context, id string) (*model.Ontology, error) {
	entry, err := s.ontologies.Get(ctx, id)
	if err != nil {
		if isKeyNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get ontology: %w", err)
	}

	var o model.Ontology
	if err := json.Unmarshal(entry.Value(), &o); err != nil {
		return nil, fmt.Errorf("unmarshal ontology: %w", err)
	}

	if err := s.loadAggregate(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// loadAggregate scans the concept, property, and relationship buckets
// for entries owned by the ontology. Key scans are acceptable at the
// entity counts a single ontology holds.
func (s *KVStore) loadAggregate(ctx context.Context, o *model.Ontology) error {
	conceptByID := make(map[string]*model.Concept)

	conceptKeys, err := bucketKeys(ctx, s.concepts)
	if err != nil {
		return fmt.Errorf("list concept keys: %w", err)
	}
	for _, key := range conceptKeys {
		var c model.Concept
		if !getJSON(ctx, s.concepts, key, &c) {
			continue
		}
		if c.OntologyID == o.ID {
			o.Concepts = append(o.Concepts, &c)
			conceptByID[c.ID] = &c
		}
	}

	propKeys, err := bucketKeys(ctx, s.properties)
	if err != nil {
		return fmt.Errorf("list property keys: %w", err)
	}
	for _, key := range propKeys {
		var p model.ConceptProperty
		if !getJSON(ctx, s.properties, key, &p) {
			continue
		}
		if owner, ok := conceptByID[p.ConceptID]; ok {
			owner.Properties = append(owner.Properties, &p)
		}
	}

	relKeys, err := bucketKeys(ctx, s.relationships)
	if err != nil {
		return fmt.Errorf("list relationship keys: %w", err)
	}
	for _, key := range relKeys {
		var r model.Relationship
		if !getJSON(ctx, s.relationships, key, &r) {
			continue
		}
		if r.OntologyID == o.ID {
			o.Relationships = append(o.Relationships, &r)
		}
	}

	return nil
}

func (s *KVStore) ListOntologies(ctx context.Context) ([]*model.Ontology, error) {
	keys, err := bucketKeys(ctx, s.ontologies)
	if err != nil {
		return nil, fmt.Errorf("list ontology keys: %w", err)
	}

	ontologies := make([]*model.Ontology, 0, len(keys))
	for _, key := range keys {
		var o model.Ontology
		if getJSON(ctx, s.ontologies, key, &o) {
			ontologies = append(ontologies, &o)
		}
	}
	return ontologies, nil
}

func (s *KVStore) UpdateOntology(ctx context.Context, o *model.Ontology) error {
	data, err := json.Marshal(stripOntology(o))
	if err != nil {
		return fmt.Errorf("marshal ontology: %w", err)
	}
	if _, err := s.ontologies.Put(ctx, o.ID, data); err != nil {
		return fmt.Errorf("update ontology: %w", err)
	}
	return nil
}

func (s *KVStore) CreateConcept(ctx context.Context, c *model.Concept) error {
	clone := *c
	clone.Properties = nil
	return createJSON(ctx, s.concepts, c.ID, &clone)
}

func (s *KVStore) CreateRelationship(ctx context.Context, r *model.Relationship) error {
	return createJSON(ctx, s.relationships, r.ID, r)
}

func (s *KVStore) CreateProperty(ctx context.Context, p *model.ConceptProperty) error {
	return createJSON(ctx, s.properties, p.ID, p)
}

// stripOntology drops owned collections before persisting the root
// record; they live in their own buckets.
func stripOntology(o *model.Ontology) *model.Ontology {
	clone := *o
	clone.Concepts = nil
	clone.Relationships = nil
	return &clone
}

func createJSON(ctx context.Context, kv jetstream.KeyValue, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if _, err := kv.Create(ctx, key, data); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return ErrAlreadyExists
		}
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// getJSON loads and unmarshals one entry, skipping entries that fail to
// load.
func getJSON(ctx context.Context, kv jetstream.KeyValue, key string, v any) bool {
	entry, err := kv.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal(entry.Value(), v) == nil
}

func bucketKeys(ctx context.Context, kv jetstream.KeyValue) ([]string, error) {
	keys, err := kv.Keys(ctx)
	if err != nil {
		if err == jetstream.ErrNoKeysFound {
			return nil, nil
		}
		return nil, err
	}
	return keys, nil
}

// isKeyNotFound checks if an error indicates a key was not found.
func isKeyNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "key not found")
}
