package pattern

import (
	"slices"

	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
)

// entityMatchesNode reports whether a candidate entity satisfies a pattern
// node's type gate and all of its attribute filters (AND across filters).
func entityMatchesNode(e apptype.Entity, node apptype.PatternNode) bool {
	if node.Type != "" && e.EntityType != node.Type {
		return false
	}
	for _, f := range node.Filters {
		value, present := entityAttribute(e, f.Attribute)
		if !attributeMatches(value, present, f.Patterns) {
			return false
		}
	}
	return true
}

type direction int

const (
	directionForward direction = iota
	directionReverse
)

// relationshipMatchesEdge reports whether rel connects the candidate pair
// (idA, idB) in either direction and carries a predicate allowed by the
// edge. Predicate matching is not direction-qualified: the same predicate
// satisfies the edge regardless of which side is source.
func relationshipMatchesEdge(rel apptype.Relationship, edge apptype.PatternEdge, idA, idB string) (direction, bool) {
	var dir direction
	switch {
	case rel.SourceEntityID == idA && rel.RelatedEntityID == idB:
		dir = directionForward
	case rel.SourceEntityID == idB && rel.RelatedEntityID == idA:
		dir = directionReverse
	default:
		return directionForward, false
	}
	if len(edge.Predicates) == 0 {
		return dir, true
	}
	return dir, slices.Contains(edge.Predicates, rel.Predicate)
}
