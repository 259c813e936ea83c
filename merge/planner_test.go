package merge_test

import (
	"testing"

	"github.com/henboffman/ontology-builder-sub002/merge"
	"github.com/henboffman/ontology-builder-sub002/model"
	"github.com/henboffman/ontology-builder-sub002/turtle"
)

func target(names ...string) *model.Ontology {
	o := &model.Ontology{ID: "onto-1", Name: "Target", Namespace: "http://example.org/t#"}
	for i, name := range names {
		o.Concepts = append(o.Concepts, &model.Concept{
			ID:         string(rune('a' + i)),
			OntologyID: o.ID,
			Name:       name,
		})
	}
	return o
}

func TestPlanTriplesCaseInsensitiveMatch(t *testing.T) {
	planner := merge.NewPlanner(nil)

	preview := planner.PlanTriples(target("Dog"), []merge.Triple{
		{Subject: "dog", Relation: "is-a", Object: "Mammal"},
	})

	if len(preview.Matched) != 1 || preview.Matched[0].Name != "dog" {
		t.Fatalf("expected dog to match existing Dog: %+v", preview.Matched)
	}
	if len(preview.NewConcepts) != 1 || preview.NewConcepts[0].Name != "Mammal" {
		t.Fatalf("expected only Mammal staged: %+v", preview.NewConcepts)
	}
	if len(preview.NewRelationships) != 1 {
		t.Fatalf("expected 1 relationship: %+v", preview.NewRelationships)
	}

	// Endpoints are recorded under canonical names.
	rel := preview.NewRelationships[0]
	if rel.SourceName != "Dog" || rel.TargetName != "Mammal" || rel.RelationType != "is-a" {
		t.Errorf("unexpected staged relationship: %+v", rel)
	}
}

func TestPlanTriplesAutoCreatesChain(t *testing.T) {
	planner := merge.NewPlanner(nil)

	preview := planner.PlanTriples(target(), []merge.Triple{
		{Subject: "A", Relation: "feeds", Object: "B"},
		{Subject: "B", Relation: "feeds", Object: "C"},
	})

	if len(preview.NewConcepts) != 3 {
		t.Errorf("expected A, B, C staged once each: %+v", preview.NewConcepts)
	}
	if len(preview.NewRelationships) != 2 {
		t.Errorf("expected 2 relationships: %+v", preview.NewRelationships)
	}
	if len(preview.Matched) != 0 {
		t.Errorf("nothing should match an empty target: %+v", preview.Matched)
	}
}

func TestPlanTriplesDuplicateSubjects(t *testing.T) {
	planner := merge.NewPlanner(nil)

	preview := planner.PlanTriples(target(), []merge.Triple{
		{Subject: "Dog", Relation: "is-a", Object: "Mammal"},
		{Subject: "DOG", Relation: "chases", Object: "Cat"},
	})

	if len(preview.NewConcepts) != 3 {
		t.Errorf("case variants of one name must stage a single concept: %+v", preview.NewConcepts)
	}
}

func TestPlanConcepts(t *testing.T) {
	planner := merge.NewPlanner(nil)

	preview := planner.PlanConcepts(target("Dog"), []string{"dog", "Cat"})
	if len(preview.Matched) != 1 {
		t.Errorf("expected dog matched: %+v", preview.Matched)
	}
	if len(preview.NewConcepts) != 1 || preview.NewConcepts[0].Name != "Cat" {
		t.Errorf("expected only Cat staged: %+v", preview.NewConcepts)
	}
	if len(preview.NewRelationships) != 0 {
		t.Errorf("bare concept lists stage no relationships")
	}
}

const planTTL = `@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix skos: <http://www.w3.org/2004/02/skos/core#> .
@prefix : <http://example.org/animals#> .

:Dog a owl:Class ;
    rdfs:label "Dog" ;
    rdfs:comment "A domesticated canine." ;
    skos:example "Beagle" ;
    rdfs:subClassOf :Mammal .

:Mammal a owl:Class .

:hasAge a owl:DatatypeProperty ;
    rdfs:domain :Dog ;
    rdfs:range xsd:integer .

:chases a owl:ObjectProperty ;
    rdfs:domain :Dog ;
    rdfs:range :Cat .

:Dog :chases :Cat .
`

func TestPlanGraph(t *testing.T) {
	graph, err := turtle.ParseString(planTTL)
	if err != nil {
		t.Fatal(err)
	}

	preview := merge.NewPlanner(nil).Plan(target(), graph)

	names := map[string]bool{}
	for _, c := range preview.NewConcepts {
		names[c.Name] = true
	}
	for _, want := range []string{"Dog", "Mammal", "Cat"} {
		if !names[want] {
			t.Errorf("expected %s staged, got %+v", want, preview.NewConcepts)
		}
	}

	// chases is used as a predicate between classes, so it becomes a
	// relationship type, not a concept property.
	if len(preview.NewProperties) != 1 || preview.NewProperties[0].Name != "hasAge" {
		t.Fatalf("expected only hasAge staged as a property: %+v", preview.NewProperties)
	}
	if preview.NewProperties[0].DataType != "integer" {
		t.Errorf("expected integer data type, got %q", preview.NewProperties[0].DataType)
	}

	relTypes := map[string]bool{}
	for _, r := range preview.NewRelationships {
		relTypes[r.RelationType] = true
	}
	if !relTypes["is-a"] || !relTypes["chases"] {
		t.Errorf("expected is-a and chases relationships: %+v", preview.NewRelationships)
	}

	// Annotations carry over onto the staged concept.
	for _, c := range preview.NewConcepts {
		if c.Name == "Dog" {
			if c.Definition != "A domesticated canine." {
				t.Errorf("comment not carried: %+v", c)
			}
			if len(c.Examples) != 1 || c.Examples[0] != "Beagle" {
				t.Errorf("examples not carried: %+v", c)
			}
		}
	}
}

func TestPlanGraphLabelAlias(t *testing.T) {
	// Display label differs from the IRI local name; assertions that
	// reference the local name must resolve to the same staged concept.
	ttl := `@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix : <http://example.org/x#> .
:Golden-Dog a owl:Class ;
    rdfs:label "Golden Dog" ;
    rdfs:subClassOf :Dog .
:Dog a owl:Class .
`
	graph, err := turtle.ParseString(ttl)
	if err != nil {
		t.Fatal(err)
	}

	preview := merge.NewPlanner(nil).Plan(target(), graph)
	if len(preview.NewConcepts) != 2 {
		t.Fatalf("expected 2 staged concepts: %+v", preview.NewConcepts)
	}
	if len(preview.NewRelationships) != 1 {
		t.Fatalf("expected 1 relationship: %+v", preview.NewRelationships)
	}
	if preview.NewRelationships[0].SourceName != "Golden Dog" {
		t.Errorf("relationship endpoint should use the display name: %+v", preview.NewRelationships[0])
	}
}

func TestPlanGraphDomainlessPropertyWarning(t *testing.T) {
	ttl := `@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix : <http://example.org/x#> .
:orphan a owl:DatatypeProperty .
`
	graph, err := turtle.ParseString(ttl)
	if err != nil {
		t.Fatal(err)
	}

	preview := merge.NewPlanner(nil).Plan(target(), graph)
	if len(preview.NewProperties) != 0 {
		t.Errorf("domainless property must not be staged: %+v", preview.NewProperties)
	}
	if len(preview.Warnings) == 0 {
		t.Error("expected a warning for the skipped property")
	}
}
