// Package merge plans and executes reconciliation of externally-parsed
// graph data against an existing ontology. Planning is pure; execution
// mutates the store entity by entity with partial-failure tolerance.
package merge

import (
	"strings"

	"github.com/henboffman/ontology-builder-sub002/model"
)

// ConceptResolver matches an incoming name against existing concepts.
// Name-based matching cannot distinguish two legitimately distinct
// concepts sharing a display name; the interface exists so URI-based or
// fuzzy matchers can be substituted.
type ConceptResolver interface {
	// Resolve returns the matching concept, or nil when absent. When
	// several concepts share a name the first match in concept order
	// wins.
	Resolve(name string, existing []*model.Concept) *model.Concept
}

// NameResolver is the default resolver: case-insensitive exact match on
// the trimmed display name.
type NameResolver struct{}

// Resolve implements ConceptResolver.
func (NameResolver) Resolve(name string, existing []*model.Concept) *model.Concept {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return nil
	}
	for _, c := range existing {
		if strings.ToLower(strings.TrimSpace(c.Name)) == want {
			return c
		}
	}
	return nil
}

// nameKey is the canonical map key for a concept name.
func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
