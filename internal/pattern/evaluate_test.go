package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
)

func TestEntityMatchesNode_TypeGate(t *testing.T) {
	e := apptype.Entity{ID: "e1", LabelNormalized: "Google", EntityType: "Organization"}

	assert.True(t, entityMatchesNode(e, apptype.PatternNode{ID: "n1", Type: "Organization"}))
	assert.False(t, entityMatchesNode(e, apptype.PatternNode{ID: "n1", Type: "Person"}))
	// empty type means any type
	assert.True(t, entityMatchesNode(e, apptype.PatternNode{ID: "n1"}))
}

func TestEntityMatchesNode_FiltersAreANDed(t *testing.T) {
	e := apptype.Entity{ID: "e1", LabelNormalized: "Google", EntityType: "Organization"}

	node := apptype.PatternNode{ID: "n1", Filters: []apptype.AttributeFilter{
		{Attribute: "labelNormalized", Patterns: []string{"goo"}},
		{Attribute: "type", Patterns: []string{"organization"}},
	}}
	assert.True(t, entityMatchesNode(e, node))

	node.Filters[1].Patterns = []string{"person"}
	assert.False(t, entityMatchesNode(e, node))
}

func TestEntityMatchesNode_EmptyFilterIsPlaceholder(t *testing.T) {
	// a filter without patterns is in-progress UI state, vacuously satisfied
	e := apptype.Entity{ID: "e1", LabelNormalized: "Google", EntityType: "Organization"}
	node := apptype.PatternNode{ID: "n1", Filters: []apptype.AttributeFilter{
		{Attribute: "labelNormalized", Patterns: []string{}},
	}}
	assert.True(t, entityMatchesNode(e, node))
}

func TestEntityMatchesNode_UnknownAttributeFails(t *testing.T) {
	e := apptype.Entity{ID: "e1", LabelNormalized: "Google", EntityType: "Organization"}
	node := apptype.PatternNode{ID: "n1", Filters: []apptype.AttributeFilter{
		{Attribute: "nickname", Patterns: []string{"goo"}},
	}}
	assert.False(t, entityMatchesNode(e, node))
}

func TestRelationshipMatchesEdge_Direction(t *testing.T) {
	rel := apptype.Relationship{ID: "r1", Predicate: "manages", SourceEntityID: "a", RelatedEntityID: "b"}
	edge := apptype.PatternEdge{ID: "e1", SourceNodeID: "n1", TargetNodeID: "n2"}

	dir, ok := relationshipMatchesEdge(rel, edge, "a", "b")
	assert.True(t, ok)
	assert.Equal(t, directionForward, dir)

	dir, ok = relationshipMatchesEdge(rel, edge, "b", "a")
	assert.True(t, ok)
	assert.Equal(t, directionReverse, dir)

	_, ok = relationshipMatchesEdge(rel, edge, "a", "c")
	assert.False(t, ok)
}

func TestRelationshipMatchesEdge_Predicates(t *testing.T) {
	rel := apptype.Relationship{ID: "r1", Predicate: "manages", SourceEntityID: "a", RelatedEntityID: "b"}

	edge := apptype.PatternEdge{ID: "e1", Predicates: []string{"manages", "owns"}}
	_, ok := relationshipMatchesEdge(rel, edge, "a", "b")
	assert.True(t, ok)

	// predicate matching is not direction-qualified
	_, ok = relationshipMatchesEdge(rel, edge, "b", "a")
	assert.True(t, ok)

	edge.Predicates = []string{"owns"}
	_, ok = relationshipMatchesEdge(rel, edge, "a", "b")
	assert.False(t, ok)

	// empty predicate set matches any predicate
	edge.Predicates = nil
	_, ok = relationshipMatchesEdge(rel, edge, "a", "b")
	assert.True(t, ok)
}
