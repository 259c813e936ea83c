package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henboffman/ontology-builder-sub002/model"
)

func newTestOntology(t *testing.T) *model.Ontology {
	t.Helper()
	o, err := model.NewOntology("Animals", "http://example.org/animals#")
	require.NoError(t, err)
	return o
}

func TestMemoryStoreOntologyLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	o := newTestOntology(t)

	require.NoError(t, store.CreateOntology(ctx, o))
	assert.ErrorIs(t, store.CreateOntology(ctx, o), ErrAlreadyExists)

	loaded, err := store.GetOntology(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Name, loaded.Name)

	_, err = store.GetOntology(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	o.Name = "Zoo Animals"
	require.NoError(t, store.UpdateOntology(ctx, o))
	loaded, err = store.GetOntology(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zoo Animals", loaded.Name)

	all, err := store.ListOntologies(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryStoreAggregateAssembly(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	o := newTestOntology(t)
	require.NoError(t, store.CreateOntology(ctx, o))

	dog := model.NewConcept(o.ID, "Dog")
	mammal := model.NewConcept(o.ID, "Mammal")
	require.NoError(t, store.CreateConcept(ctx, dog))
	require.NoError(t, store.CreateConcept(ctx, mammal))

	prop := &model.ConceptProperty{
		ID:        "p-1",
		ConceptID: dog.ID,
		Name:      "hasAge",
		Kind:      model.DataProperty,
		DataType:  "integer",
	}
	require.NoError(t, store.CreateProperty(ctx, prop))

	rel := model.NewRelationship(o.ID, dog.ID, mammal.ID, "is-a")
	require.NoError(t, store.CreateRelationship(ctx, rel))

	loaded, err := store.GetOntology(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Concepts, 2)
	require.Len(t, loaded.Relationships, 1)

	loadedDog := loaded.ConceptByID(dog.ID)
	require.NotNil(t, loadedDog)
	require.Len(t, loadedDog.Properties, 1)
	assert.Equal(t, "hasAge", loadedDog.Properties[0].Name)
}

func TestMemoryStoreReferentialChecks(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	o := newTestOntology(t)
	require.NoError(t, store.CreateOntology(ctx, o))

	orphan := model.NewConcept("missing-ontology", "Dog")
	assert.ErrorIs(t, store.CreateConcept(ctx, orphan), ErrNotFound)

	dog := model.NewConcept(o.ID, "Dog")
	require.NoError(t, store.CreateConcept(ctx, dog))

	rel := model.NewRelationship(o.ID, dog.ID, "missing-concept", "is-a")
	assert.ErrorIs(t, store.CreateRelationship(ctx, rel), ErrNotFound)

	prop := &model.ConceptProperty{ID: "p-1", ConceptID: "missing-concept", Name: "x"}
	assert.ErrorIs(t, store.CreateProperty(ctx, prop), ErrNotFound)

	assert.ErrorIs(t, store.UpdateOntology(ctx, &model.Ontology{ID: "nope", Name: "x", Namespace: "http://x#"}), ErrNotFound)
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	o := newTestOntology(t)
	require.NoError(t, store.CreateOntology(ctx, o))

	dog := model.NewConcept(o.ID, "Dog")
	require.NoError(t, store.CreateConcept(ctx, dog))

	// Mutating a loaded aggregate must not leak into the store.
	loaded, err := store.GetOntology(ctx, o.ID)
	require.NoError(t, err)
	loaded.Concepts[0].Name = "Mutated"

	again, err := store.GetOntology(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dog", again.Concepts[0].Name)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{context.DeadlineExceeded, true},
		{errors.New("connection refused"), true},
		{errors.New("database is locked"), true},
		{errors.New("nats: timeout"), true},
		{ErrNotFound, false},
		{ErrAlreadyExists, false},
		{errors.New("name is required"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsTransient(tt.err); got != tt.want {
			t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
