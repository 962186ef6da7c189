package pattern

import (
	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
)

// assembleMatches shapes raw assignments into caller-facing matches. The
// entity order inside each match follows the sorted node order used for
// the search. Relationships are attached as discovered; duplicates across
// different matches are expected and left for the consumer to dedup.
func assembleMatches(sortedNodes []apptype.PatternNode, raw []rawMatch) []apptype.PatternMatch {
	matches := make([]apptype.PatternMatch, 0, len(raw))
	for _, rm := range raw {
		rels := rm.relationships
		if rels == nil {
			rels = []apptype.Relationship{}
		}
		m := apptype.PatternMatch{
			Entities:      make([]apptype.Entity, 0, len(sortedNodes)),
			Relationships: rels,
		}
		for _, n := range sortedNodes {
			m.Entities = append(m.Entities, rm.assignment[n.ID])
		}
		matches = append(matches, m)
	}
	return matches
}

// paginate returns one 1-indexed page. An out-of-range page yields an
// empty page, not an error.
func paginate(matches []apptype.PatternMatch, pageNumber, pageSize int) []apptype.PatternMatch {
	start := (pageNumber - 1) * pageSize
	if start < 0 || start >= len(matches) {
		return []apptype.PatternMatch{}
	}
	end := min(start+pageSize, len(matches))
	return matches[start:end]
}
