package merge

import (
	"github.com/henboffman/ontology-builder-sub002/model"
	"github.com/henboffman/ontology-builder-sub002/turtle"
	"github.com/henboffman/ontology-builder-sub002/vocabulary"
)

// Planner computes merge previews. It reads the target ontology but
// never mutates it or the store.
type Planner struct {
	resolver ConceptResolver
}

// NewPlanner creates a planner. A nil resolver falls back to the
// default name-based resolver.
func NewPlanner(resolver ConceptResolver) *Planner {
	if resolver == nil {
		resolver = NameResolver{}
	}
	return &Planner{resolver: resolver}
}

// stageEntry is one slot in the transient symbol table built during
// planning: either an existing concept or a pending placeholder.
type stageEntry struct {
	existing *model.Concept
	staged   *StagedConcept
}

// name returns the entry's canonical display name.
func (e *stageEntry) name() string {
	if e.existing != nil {
		return e.existing.Name
	}
	return e.staged.Name
}

// plan carries the working state of one planning run.
type plan struct {
	planner *Planner
	target  *model.Ontology
	preview *Preview
	symbols map[string]*stageEntry
}

func (p *Planner) newPlan(target *model.Ontology) *plan {
	return &plan{
		planner: p,
		target:  target,
		preview: &Preview{},
		symbols: make(map[string]*stageEntry),
	}
}

// Plan previews merging a parsed RDF graph into the target ontology.
// Passing an empty target previews a fresh import.
func (p *Planner) Plan(target *model.Ontology, graph *turtle.ParsedGraph) *Preview {
	pl := p.newPlan(target)
	pl.preview.Warnings = append(pl.preview.Warnings, graph.Warnings...)

	for _, class := range graph.Classes {
		pl.stageClass(graph, class)
	}
	pl.stageParsedProperties(graph)

	for _, triple := range graphTriples(graph) {
		pl.stageTriple(triple)
	}
	return pl.preview
}

// PlanTriples previews merging tabular rows into the target ontology.
func (p *Planner) PlanTriples(target *model.Ontology, triples []Triple) *Preview {
	pl := p.newPlan(target)
	for _, triple := range triples {
		pl.stageTriple(triple)
	}
	return pl.preview
}

// PlanConcepts previews adding a bare list of concept names.
func (p *Planner) PlanConcepts(target *model.Ontology, names []string) *Preview {
	pl := p.newPlan(target)
	for _, name := range names {
		pl.resolveOrStage(name)
	}
	return pl.preview
}

// graphTriples converts a parsed graph's relationship-bearing
// statements into planner triples: subclass assertions become reserved
// is-a rows, every other named-object statement becomes a generic row.
func graphTriples(graph *turtle.ParsedGraph) []Triple {
	var triples []Triple
	for _, pair := range graph.SubclassStatements() {
		triples = append(triples, Triple{
			Subject:  vocabulary.LocalName(pair[0]),
			Relation: "is-a",
			Object:   vocabulary.LocalName(pair[1]),
		})
	}
	for _, st := range graph.ObjectStatements() {
		triples = append(triples, Triple{
			Subject:  vocabulary.LocalName(st.Subject),
			Relation: vocabulary.LocalName(st.Predicate),
			Object:   vocabulary.LocalName(st.Object.Value),
		})
	}
	return triples
}

// stageClass resolves one parsed class, staging a new concept carrying
// the class's annotations when no existing concept matches.
func (pl *plan) stageClass(graph *turtle.ParsedGraph, class *turtle.ParsedClass) {
	name := class.Name
	if class.Label != "" {
		name = class.Label
	}

	key := nameKey(name)
	if _, done := pl.symbols[key]; done {
		return
	}

	var entry *stageEntry
	if existing := pl.resolve(name); existing != nil {
		entry = &stageEntry{existing: existing}
		pl.preview.Matched = append(pl.preview.Matched, MatchedConcept{Name: name, ConceptID: existing.ID})
	} else {
		staged := &StagedConcept{
			Name:              name,
			Definition:        class.Comment,
			SimpleExplanation: class.Definition,
			Examples:          class.Examples,
			Category:          class.Category,
			SourceOntology:    provenance(graph, class.IRI),
		}
		entry = &stageEntry{staged: staged}
		pl.preview.NewConcepts = append(pl.preview.NewConcepts, *staged)
	}

	// Register the IRI local name as an alias so assertion triples,
	// which reference the class by local name, resolve to the same
	// staged entry even when the display label differs.
	pl.symbols[key] = entry
	if alias := nameKey(class.Name); alias != key {
		pl.symbols[alias] = entry
	}
}

// stageParsedProperties stages concept properties for parsed datatype
// and object properties with a named domain. Properties that are used
// as predicates between classes are relationship types, not concept
// properties, and are handled by the triple pass instead.
func (pl *plan) stageParsedProperties(graph *turtle.ParsedGraph) {
	usedAsPredicate := make(map[string]bool)
	for _, st := range graph.ObjectStatements() {
		usedAsPredicate[st.Predicate] = true
	}

	for _, prop := range graph.Properties {
		if usedAsPredicate[prop.IRI] {
			continue
		}
		if prop.Domain == "" {
			pl.preview.Warnings = append(pl.preview.Warnings,
				"property "+prop.Name+" has no domain; skipped")
			continue
		}

		owner := pl.resolveOrStage(vocabulary.LocalName(prop.Domain))

		staged := StagedProperty{
			ConceptName: owner.name(),
			Name:        prop.Name,
			URI:         prop.IRI,
			IsObject:    prop.IsObject,
			Functional:  prop.Functional,
			Description: prop.Comment,
		}
		if prop.IsObject {
			if prop.Range != "" {
				staged.RangeName = pl.resolveOrStage(vocabulary.LocalName(prop.Range)).name()
			}
		} else {
			staged.DataType = vocabulary.DataTypeFromXSD(prop.Range)
		}
		pl.preview.NewProperties = append(pl.preview.NewProperties, staged)
	}
}

// stageTriple resolves both endpoints of one subject-relation-object
// row, staging any endpoint found neither in the target ontology nor in
// the concepts already staged within this operation.
func (pl *plan) stageTriple(triple Triple) {
	source := pl.resolveOrStage(triple.Subject)
	target := pl.resolveOrStage(triple.Object)

	// Endpoints are recorded under their canonical names so the
	// executor re-resolves against the same identities the plan used.
	pl.preview.NewRelationships = append(pl.preview.NewRelationships, StagedRelationship{
		SourceName:   source.name(),
		RelationType: triple.Relation,
		TargetName:   target.name(),
		Description:  triple.Description,
	})
}

// resolveOrStage looks a name up in the symbol table, then the target
// ontology, staging a bare new concept when both miss.
func (pl *plan) resolveOrStage(name string) *stageEntry {
	key := nameKey(name)
	if entry, ok := pl.symbols[key]; ok {
		return entry
	}

	if existing := pl.resolve(name); existing != nil {
		entry := &stageEntry{existing: existing}
		pl.symbols[key] = entry
		pl.preview.Matched = append(pl.preview.Matched, MatchedConcept{Name: name, ConceptID: existing.ID})
		return entry
	}

	staged := &StagedConcept{Name: name}
	entry := &stageEntry{staged: staged}
	pl.symbols[key] = entry
	pl.preview.NewConcepts = append(pl.preview.NewConcepts, *staged)
	return entry
}

func (pl *plan) resolve(name string) *model.Concept {
	if pl.target == nil {
		return nil
	}
	return pl.planner.resolver.Resolve(name, pl.target.Concepts)
}

// provenance derives a source-ontology tag from the graph base or the
// class IRI's namespace.
func provenance(graph *turtle.ParsedGraph, classIRI string) string {
	if graph.BaseIRI != "" {
		return graph.BaseIRI
	}
	local := vocabulary.LocalName(classIRI)
	if len(classIRI) > len(local) {
		return classIRI[:len(classIRI)-len(local)]
	}
	return ""
}
