package pattern

import (
	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
)

// MergeMatches flattens matches into one graph, deduplicating entities by
// id and relationships by relationship id while keeping first-occurrence
// order. Intended for importing search results into a workspace, where
// the same entity or witness relationship appears in many matches.
func MergeMatches(matches []apptype.PatternMatch) ([]apptype.Entity, []apptype.Relationship) {
	entities := make([]apptype.Entity, 0)
	relationships := make([]apptype.Relationship, 0)
	seenEnt := make(map[string]struct{})
	seenRel := make(map[string]struct{})
	for _, m := range matches {
		for _, e := range m.Entities {
			if _, ok := seenEnt[e.ID]; ok {
				continue
			}
			seenEnt[e.ID] = struct{}{}
			entities = append(entities, e)
		}
		for _, r := range m.Relationships {
			if _, ok := seenRel[r.ID]; ok {
				continue
			}
			seenRel[r.ID] = struct{}{}
			relationships = append(relationships, r)
		}
	}
	return entities, relationships
}
