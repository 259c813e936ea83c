package merge

// Triple is the common subject-relation-object row both parsers
// converge on before planning. Fields hold display names, not IRIs.
type Triple struct {
	Subject  string
	Relation string
	Object   string

	// Description annotates the relation, when the source carried one.
	Description string
}

// MatchedConcept pairs an incoming name with the existing concept it
// resolved to.
type MatchedConcept struct {
	Name      string
	ConceptID string
}

// StagedConcept describes a concept the executor would create.
type StagedConcept struct {
	Name              string
	Definition        string
	SimpleExplanation string
	Examples          []string
	Category          string
	SourceOntology    string
}

// StagedProperty describes a concept property the executor would
// create. ConceptName references the owning concept by name, which may
// itself be staged.
type StagedProperty struct {
	ConceptName string
	Name        string
	URI         string
	IsObject    bool
	DataType    string
	RangeName   string
	Functional  bool
	Description string
}

// StagedRelationship describes a relationship the executor would
// create. Endpoints are referenced by name; either may be pending
// creation within the same operation.
type StagedRelationship struct {
	SourceName   string
	RelationType string
	TargetName   string
	Description  string
}

// Preview partitions an incoming graph against the target ontology. It
// is a pure function of its inputs; computing it mutates nothing.
type Preview struct {
	Matched          []MatchedConcept
	NewConcepts      []StagedConcept
	NewProperties    []StagedProperty
	NewRelationships []StagedRelationship
	Warnings         []string
}

// Empty reports whether the preview stages no work at all.
func (p *Preview) Empty() bool {
	return len(p.NewConcepts) == 0 && len(p.NewProperties) == 0 && len(p.NewRelationships) == 0
}
