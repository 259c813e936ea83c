package merge_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/henboffman/ontology-builder-sub002/merge"
	"github.com/henboffman/ontology-builder-sub002/model"
	"github.com/henboffman/ontology-builder-sub002/storage"
)

// faultyStore delegates to a memory store but fails concept creation
// for selected names.
type faultyStore struct {
	storage.Store
	failConcepts map[string]bool
}

func (s *faultyStore) CreateConcept(ctx context.Context, c *model.Concept) error {
	if s.failConcepts[c.Name] {
		return errors.New("simulated backend failure")
	}
	return s.Store.CreateConcept(ctx, c)
}

func seedOntology(t *testing.T, store storage.Store, names ...string) *model.Ontology {
	t.Helper()
	o, err := model.NewOntology("Target", "http://example.org/t#")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.CreateOntology(context.Background(), o); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		c := model.NewConcept(o.ID, name)
		if err := store.CreateConcept(context.Background(), c); err != nil {
			t.Fatal(err)
		}
	}
	return o
}

func TestMergeIntoExisting(t *testing.T) {
	store := storage.NewMemoryStore()
	o := seedOntology(t, store, "Dog")

	target, err := store.GetOntology(context.Background(), o.ID)
	if err != nil {
		t.Fatal(err)
	}

	preview := merge.NewPlanner(nil).PlanTriples(target, []merge.Triple{
		{Subject: "dog", Relation: "is-a", Object: "Mammal"},
		{Subject: "Mammal", Relation: "is-a", Object: "Animal"},
	})

	executor := merge.NewExecutor(store, nil)
	result, err := executor.MergeIntoExisting(context.Background(), o.ID, preview, merge.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if !result.Success {
		t.Fatalf("expected success, got errors: %v", result.Errors)
	}
	if result.ConceptsCreated != 2 || result.RelationshipsCreated != 2 {
		t.Errorf("unexpected counts: %+v", result)
	}

	loaded, err := store.GetOntology(context.Background(), o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Concepts) != 3 {
		t.Errorf("expected 3 concepts, got %d", len(loaded.Concepts))
	}
	if len(loaded.Relationships) != 2 {
		t.Errorf("expected 2 relationships, got %d", len(loaded.Relationships))
	}

	// Existing Dog must be reused, not duplicated.
	var dogs int
	for _, c := range loaded.Concepts {
		if strings.EqualFold(c.Name, "dog") {
			dogs++
		}
	}
	if dogs != 1 {
		t.Errorf("expected exactly one Dog concept, got %d", dogs)
	}
}

func TestMergeIntoMissingOntology(t *testing.T) {
	store := storage.NewMemoryStore()
	executor := merge.NewExecutor(store, nil)

	_, err := executor.MergeIntoExisting(context.Background(), "nope", &merge.Preview{}, merge.Options{})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestImportAsNewOntology(t *testing.T) {
	store := storage.NewMemoryStore()

	preview := merge.NewPlanner(nil).PlanTriples(&model.Ontology{}, []merge.Triple{
		{Subject: "Dog", Relation: "is-a", Object: "Mammal"},
	})

	executor := merge.NewExecutor(store, nil)
	result, err := executor.ImportAsNewOntology(context.Background(), "Animals", "http://example.org/animals", preview, merge.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.OntologyID == "" {
		t.Fatalf("unexpected result: %+v", result)
	}

	loaded, err := store.GetOntology(context.Background(), result.OntologyID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Namespace != "http://example.org/animals#" {
		t.Errorf("namespace not normalized: %q", loaded.Namespace)
	}
	if len(loaded.Concepts) != 2 || len(loaded.Relationships) != 1 {
		t.Errorf("unexpected aggregate: %d concepts, %d relationships",
			len(loaded.Concepts), len(loaded.Relationships))
	}
}

func TestPartialFailureIsolation(t *testing.T) {
	store := &faultyStore{
		Store:        storage.NewMemoryStore(),
		failConcepts: map[string]bool{"Cat": true},
	}
	o := seedOntology(t, store, "Dog")

	target, err := store.GetOntology(context.Background(), o.ID)
	if err != nil {
		t.Fatal(err)
	}

	preview := merge.NewPlanner(nil).PlanTriples(target, []merge.Triple{
		{Subject: "Dog", Relation: "is-a", Object: "Mammal"},
		{Subject: "Dog", Relation: "chases", Object: "Cat"},
	})

	executor := merge.NewExecutor(store, nil)
	result, err := executor.MergeIntoExisting(context.Background(), o.ID, preview, merge.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if result.Success {
		t.Fatal("expected a failed run")
	}
	// Cat fails; the Dog-chases-Cat relationship fails with it. Mammal
	// and Dog-is-a-Mammal survive.
	if result.ConceptsCreated != 1 {
		t.Errorf("expected 1 concept created, got %d", result.ConceptsCreated)
	}
	if result.RelationshipsCreated != 1 {
		t.Errorf("expected 1 relationship created, got %d", result.RelationshipsCreated)
	}
	if result.Failed != 2 {
		t.Errorf("expected 2 failures, got %d", result.Failed)
	}

	// User-facing errors name the items, never the backend detail.
	for _, msg := range result.Errors {
		if strings.Contains(msg, "simulated backend failure") {
			t.Errorf("storage detail leaked into user-facing error: %q", msg)
		}
	}

	loaded, err := store.GetOntology(context.Background(), o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Concepts) != 2 {
		t.Errorf("expected Dog and Mammal persisted, got %d concepts", len(loaded.Concepts))
	}
}

func TestErrorReportingCap(t *testing.T) {
	fail := map[string]bool{}
	var triples []merge.Triple
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for _, n := range names {
		fail[n] = true
		triples = append(triples, merge.Triple{Subject: n, Relation: "is-a", Object: "Root"})
	}

	store := &faultyStore{Store: storage.NewMemoryStore(), failConcepts: fail}
	o := seedOntology(t, store, "Root")

	target, err := store.GetOntology(context.Background(), o.ID)
	if err != nil {
		t.Fatal(err)
	}
	preview := merge.NewPlanner(nil).PlanTriples(target, triples)

	executor := merge.NewExecutor(store, nil)
	result, err := executor.MergeIntoExisting(context.Background(), o.ID, preview, merge.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Errors) != 5 {
		t.Errorf("expected error reporting capped at 5, got %d", len(result.Errors))
	}
	if !result.MoreErrors {
		t.Error("expected MoreErrors flag with more than 5 failures")
	}
}

func TestProgressReporting(t *testing.T) {
	store := storage.NewMemoryStore()
	o := seedOntology(t, store)

	target, err := store.GetOntology(context.Background(), o.ID)
	if err != nil {
		t.Fatal(err)
	}
	preview := merge.NewPlanner(nil).PlanTriples(target, []merge.Triple{
		{Subject: "Dog", Relation: "is-a", Object: "Mammal"},
	})

	var steps []int
	var lastTotal int
	opts := merge.Options{
		Progress: func(step, total int, item string) {
			steps = append(steps, step)
			lastTotal = total
		},
	}

	executor := merge.NewExecutor(store, nil)
	if _, err := executor.MergeIntoExisting(context.Background(), o.ID, preview, opts); err != nil {
		t.Fatal(err)
	}

	// 2 concepts + 1 relationship.
	if lastTotal != 3 {
		t.Errorf("expected total 3, got %d", lastTotal)
	}
	if len(steps) != 3 || steps[0] != 1 || steps[2] != 3 {
		t.Errorf("expected monotonically increasing steps, got %v", steps)
	}
}
