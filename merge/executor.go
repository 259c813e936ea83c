package merge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/henboffman/ontology-builder-sub002/model"
	"github.com/henboffman/ontology-builder-sub002/storage"
)

func newID() string { return uuid.New().String() }

// maxReportedErrors caps the error list returned to callers; the full
// detail goes to the log.
const maxReportedErrors = 5

// ProgressFunc reports per-item progress. It lets a caller update UI
// but not abort: once started, a merge runs to completion.
type ProgressFunc func(step, total int, item string)

// Options tune one executor run.
type Options struct {
	// Progress is invoked after each attempted item. Nil is fine.
	Progress ProgressFunc

	// Pace inserts a delay between items, purely to keep a calling UI
	// responsive. Zero disables pacing.
	Pace time.Duration
}

// Result is the outcome record of a merge or import run.
type Result struct {
	OntologyID           string   `json:"ontology_id"`
	Success              bool     `json:"success"`
	Succeeded            int      `json:"succeeded"`
	Failed               int      `json:"failed"`
	ConceptsCreated      int      `json:"concepts_created"`
	PropertiesCreated    int      `json:"properties_created"`
	RelationshipsCreated int      `json:"relationships_created"`
	Errors               []string `json:"errors,omitempty"`
	MoreErrors           bool     `json:"more_errors,omitempty"`
}

func (r *Result) recordError(msg string) {
	r.Failed++
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, msg)
	} else {
		r.MoreErrors = true
	}
}

// Executor materializes a preview against a store. Execution is
// strictly sequential: concept creation is never parallelized, so two
// staged-but-unresolved concepts can't race to create duplicate entries
// for the same name. Each entity is persisted via its own round trip;
// there is no enclosing transaction, so a failing relationship never
// rolls back concepts already committed.
type Executor struct {
	store  storage.Store
	logger *slog.Logger
}

// NewExecutor creates an executor. A nil logger falls back to
// slog.Default().
func NewExecutor(store storage.Store, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{store: store, logger: logger}
}

// MergeIntoExisting applies the preview to an existing ontology. The
// ontology must exist; anything else is a fail-fast error. Per-item
// failures are collected in the result and do not halt the batch.
func (e *Executor) MergeIntoExisting(ctx context.Context, ontologyID string, preview *Preview, opts Options) (*Result, error) {
	target, err := e.store.GetOntology(ctx, ontologyID)
	if err != nil {
		return nil, fmt.Errorf("load target ontology: %w", err)
	}
	return e.execute(ctx, target, preview, opts)
}

// ImportAsNewOntology materializes the preview as a brand-new ontology.
// Every staged concept is treated as new regardless of name collisions
// elsewhere; nothing outside the new ontology is touched.
func (e *Executor) ImportAsNewOntology(ctx context.Context, name, namespace string, preview *Preview, opts Options) (*Result, error) {
	ontology, err := model.NewOntology(name, namespace)
	if err != nil {
		return nil, fmt.Errorf("new ontology: %w", err)
	}
	if err := e.store.CreateOntology(ctx, ontology); err != nil {
		return nil, fmt.Errorf("create ontology: %w", err)
	}
	return e.execute(ctx, ontology, preview, opts)
}

// execute runs the batch. The ordering invariant: every staged concept
// creation is attempted and recorded before any property or
// relationship creation begins, because the latter hold identity
// references to concepts.
func (e *Executor) execute(ctx context.Context, target *model.Ontology, preview *Preview, opts Options) (*Result, error) {
	result := &Result{OntologyID: target.ID}
	total := len(preview.NewConcepts) + len(preview.NewProperties) + len(preview.NewRelationships)
	step := 0

	var limiter *rate.Limiter
	if opts.Pace > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Pace), 1)
	}

	// Symbol table: name -> created or matched concept. Seeded from
	// the loaded aggregate so endpoints resolve without re-querying
	// storage after each creation.
	created := make(map[string]*model.Concept)
	for _, c := range target.Concepts {
		if _, ok := created[nameKey(c.Name)]; !ok {
			created[nameKey(c.Name)] = c
		}
	}

	pace := func() {
		if limiter != nil {
			_ = limiter.Wait(ctx)
		}
	}
	progress := func(item string) {
		step++
		if opts.Progress != nil {
			opts.Progress(step, total, item)
		}
	}

	// Phase 1: concepts.
	for i := range preview.NewConcepts {
		staged := &preview.NewConcepts[i]
		pace()

		concept := model.NewConcept(target.ID, staged.Name)
		concept.Definition = staged.Definition
		concept.SimpleExplanation = staged.SimpleExplanation
		concept.Examples = staged.Examples
		concept.Category = staged.Category
		concept.SourceOntology = staged.SourceOntology

		if err := e.store.CreateConcept(ctx, concept); err != nil {
			e.logger.Error("concept creation failed",
				"ontology", target.ID,
				"concept", staged.Name,
				"transient", storage.IsTransient(err),
				"error", err)
			result.recordError(fmt.Sprintf("failed to create concept %q", staged.Name))
		} else {
			result.Succeeded++
			result.ConceptsCreated++
			if _, ok := created[nameKey(staged.Name)]; !ok {
				created[nameKey(staged.Name)] = concept
			}
		}
		progress(staged.Name)
	}

	// Phase 2: properties, then relationships, re-resolving each
	// endpoint against the now-updated concept set.
	for _, staged := range preview.NewProperties {
		pace()
		if err := e.createProperty(ctx, created, staged); err != nil {
			e.logger.Error("property creation failed",
				"ontology", target.ID,
				"property", staged.Name,
				"transient", storage.IsTransient(err),
				"error", err)
			result.recordError(fmt.Sprintf("failed to create property %q on %q", staged.Name, staged.ConceptName))
		} else {
			result.Succeeded++
			result.PropertiesCreated++
		}
		progress(staged.Name)
	}

	for _, staged := range preview.NewRelationships {
		pace()
		item := fmt.Sprintf("%s %s %s", staged.SourceName, staged.RelationType, staged.TargetName)
		if err := e.createRelationship(ctx, target.ID, created, staged); err != nil {
			e.logger.Error("relationship creation failed",
				"ontology", target.ID,
				"relationship", item,
				"transient", storage.IsTransient(err),
				"error", err)
			result.recordError(fmt.Sprintf("failed to create relationship %q", item))
		} else {
			result.Succeeded++
			result.RelationshipsCreated++
		}
		progress(item)
	}

	result.Success = result.Failed == 0
	return result, nil
}

func (e *Executor) createProperty(ctx context.Context, created map[string]*model.Concept, staged StagedProperty) error {
	owner, ok := created[nameKey(staged.ConceptName)]
	if !ok {
		return fmt.Errorf("owning concept %q was not created", staged.ConceptName)
	}

	prop := &model.ConceptProperty{
		ID:          newID(),
		ConceptID:   owner.ID,
		Name:        staged.Name,
		URI:         staged.URI,
		Kind:        model.DataProperty,
		DataType:    staged.DataType,
		Functional:  staged.Functional,
		Description: staged.Description,
	}
	if staged.IsObject {
		prop.Kind = model.ObjectProperty
		prop.DataType = ""
		if staged.RangeName != "" {
			rangeConcept, ok := created[nameKey(staged.RangeName)]
			if !ok {
				return fmt.Errorf("range concept %q was not created", staged.RangeName)
			}
			prop.RangeConceptID = rangeConcept.ID
		}
	}
	return e.store.CreateProperty(ctx, prop)
}

func (e *Executor) createRelationship(ctx context.Context, ontologyID string, created map[string]*model.Concept, staged StagedRelationship) error {
	source, ok := created[nameKey(staged.SourceName)]
	if !ok {
		return fmt.Errorf("source concept %q was not created", staged.SourceName)
	}
	target, ok := created[nameKey(staged.TargetName)]
	if !ok {
		return fmt.Errorf("target concept %q was not created", staged.TargetName)
	}

	rel := model.NewRelationship(ontologyID, source.ID, target.ID, staged.RelationType)
	rel.Description = staged.Description
	return e.store.CreateRelationship(ctx, rel)
}
