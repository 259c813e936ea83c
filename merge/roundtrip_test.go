package merge_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/henboffman/ontology-builder-sub002/export"
	"github.com/henboffman/ontology-builder-sub002/merge"
	"github.com/henboffman/ontology-builder-sub002/model"
	"github.com/henboffman/ontology-builder-sub002/storage"
	"github.com/henboffman/ontology-builder-sub002/turtle"
)

// TestExportImportRoundTrip exports an ontology, parses the result, and
// imports it into a fresh ontology. The re-imported aggregate must
// carry the same concepts, annotations, properties, and relationships.
func TestExportImportRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	source := &model.Ontology{
		ID:         "src",
		Name:       "Animals",
		Namespace:  "http://example.org/animals#",
		Version:    "1.0.0",
		CreatedAt:  now,
		ModifiedAt: now,
	}

	dog := &model.Concept{
		ID: "c-dog", OntologyID: source.ID, Name: "Dog",
		Definition:        "A domesticated canine.",
		SimpleExplanation: "A furry friend.",
		Examples:          []string{"Beagle", "Poodle"},
		Category:          "Biology",
	}
	mammal := &model.Concept{ID: "c-mammal", OntologyID: source.ID, Name: "Mammal"}
	cat := &model.Concept{ID: "c-cat", OntologyID: source.ID, Name: "Cat"}
	dog.Properties = []*model.ConceptProperty{
		{ID: "p-age", ConceptID: dog.ID, Name: "hasAge", Kind: model.DataProperty, DataType: "integer", Functional: true},
	}
	source.Concepts = []*model.Concept{dog, mammal, cat}
	source.Relationships = []*model.Relationship{
		{ID: "r-1", OntologyID: source.ID, SourceConceptID: dog.ID, TargetConceptID: mammal.ID, RelationType: "is-a"},
		{ID: "r-2", OntologyID: source.ID, SourceConceptID: dog.ID, TargetConceptID: cat.ID, RelationType: "chases"},
	}

	data, err := export.NewSerializer().Serialize(source)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	graph, err := turtle.Parse(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("parse of own export failed: %v\n%s", err, data)
	}

	preview := merge.NewPlanner(nil).Plan(&model.Ontology{}, graph)

	store := storage.NewMemoryStore()
	executor := merge.NewExecutor(store, nil)
	result, err := executor.ImportAsNewOntology(context.Background(), "Animals", "http://example.org/animals#", preview, merge.Options{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !result.Success {
		t.Fatalf("import reported errors: %v", result.Errors)
	}

	loaded, err := store.GetOntology(context.Background(), result.OntologyID)
	if err != nil {
		t.Fatal(err)
	}

	names := map[string]*model.Concept{}
	for _, c := range loaded.Concepts {
		names[c.Name] = c
	}
	for _, want := range []string{"Dog", "Mammal", "Cat"} {
		if names[want] == nil {
			t.Fatalf("concept %s lost in round trip: have %v", want, conceptNames(loaded))
		}
	}
	if len(loaded.Concepts) != 3 {
		t.Errorf("expected 3 concepts, got %v", conceptNames(loaded))
	}

	rtDog := names["Dog"]
	if rtDog.Definition != "A domesticated canine." {
		t.Errorf("definition lost: %q", rtDog.Definition)
	}
	if rtDog.SimpleExplanation != "A furry friend." {
		t.Errorf("simple explanation lost: %q", rtDog.SimpleExplanation)
	}
	if len(rtDog.Examples) != 2 {
		t.Errorf("examples lost: %v", rtDog.Examples)
	}
	if rtDog.Category != "Biology" {
		t.Errorf("category lost: %q", rtDog.Category)
	}
	if len(rtDog.Properties) != 1 {
		t.Fatalf("expected hasAge on Dog, got %+v", rtDog.Properties)
	}
	prop := rtDog.Properties[0]
	if prop.Kind != model.DataProperty || prop.DataType != "integer" || !prop.Functional {
		t.Errorf("property attributes lost: %+v", prop)
	}

	type edge struct{ src, rel, tgt string }
	edges := map[edge]bool{}
	for _, r := range loaded.Relationships {
		edges[edge{
			src: loaded.ConceptByID(r.SourceConceptID).Name,
			rel: r.RelationType,
			tgt: loaded.ConceptByID(r.TargetConceptID).Name,
		}] = true
	}
	if !edges[edge{"Dog", "is-a", "Mammal"}] {
		t.Errorf("subclass edge lost: %v", edges)
	}
	if !edges[edge{"Dog", "chases", "Cat"}] {
		t.Errorf("generic edge lost: %v", edges)
	}
	if len(loaded.Relationships) != 2 {
		t.Errorf("expected 2 relationships, got %d", len(loaded.Relationships))
	}
}

// TestRoundTripStable re-exports a re-imported ontology and checks the
// declarations survive a second pass unchanged.
func TestRoundTripStable(t *testing.T) {
	ttl := `@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix : <http://example.org/zoo#> .

:Lion a owl:Class ;
    rdfs:label "Lion" ;
    rdfs:subClassOf :Cat .
:Cat a owl:Class ;
    rdfs:label "Cat" .
`
	graph, err := turtle.ParseString(ttl)
	if err != nil {
		t.Fatal(err)
	}

	store := storage.NewMemoryStore()
	preview := merge.NewPlanner(nil).Plan(&model.Ontology{}, graph)
	result, err := merge.NewExecutor(store, nil).
		ImportAsNewOntology(context.Background(), "Zoo", "http://example.org/zoo#", preview, merge.Options{})
	if err != nil || !result.Success {
		t.Fatalf("import failed: %v %+v", err, result)
	}

	loaded, err := store.GetOntology(context.Background(), result.OntologyID)
	if err != nil {
		t.Fatal(err)
	}
	out, err := export.NewSerializer().Serialize(loaded)
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)

	if !strings.Contains(text, ":Lion a owl:Class ;") ||
		!strings.Contains(text, ":Cat a owl:Class ;") {
		t.Errorf("class declarations lost:\n%s", text)
	}
	if !strings.Contains(text, ":Lion rdfs:subClassOf :Cat .") {
		t.Errorf("subclass axiom lost:\n%s", text)
	}
}

func conceptNames(o *model.Ontology) []string {
	var names []string
	for _, c := range o.Concepts {
		names = append(names, c.Name)
	}
	return names
}
