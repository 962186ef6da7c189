package patternsearch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
)

func setupService(t *testing.T, name string) *Service {
	svc, err := NewService(&Config{URL: "file:" + name + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, svc.Close()) })
	return svc
}

func TestService_SearchPatternEndToEnd(t *testing.T) {
	svc := setupService(t, "svc-search-test")
	ctx := context.Background()
	const project = "default"

	require.NoError(t, svc.CreateEntities(ctx, project, []apptype.Entity{
		{ID: "o1", LabelNormalized: "Google", EntityType: "Organization"},
		{ID: "o2", LabelNormalized: "DeepMind", EntityType: "Organization"},
	}))
	_, err := svc.CreateRelationships(ctx, project, []apptype.Relationship{
		{ID: "r1", Predicate: "manages", SourceEntityID: "o1", RelatedEntityID: "o2"},
	})
	require.NoError(t, err)

	p := apptype.SearchPattern{
		Nodes: []apptype.PatternNode{
			{ID: "n1", Label: "parent", Type: "Organization", Filters: []apptype.AttributeFilter{
				{Attribute: "labelNormalized", Patterns: []string{"Google"}},
			}},
			{ID: "n2", Label: "subsidiary", Type: "Organization"},
		},
		Edges: []apptype.PatternEdge{
			{ID: "e1", SourceNodeID: "n1", TargetNodeID: "n2", Predicates: []string{"manages"}},
		},
	}

	resp, err := svc.SearchPattern(ctx, project, p, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalCount)
	m := resp.Matches[0]
	require.Len(t, m.Entities, 2)
	assert.Equal(t, "o1", m.Entities[0].ID)
	assert.Equal(t, "o2", m.Entities[1].ID)
	require.Len(t, m.Relationships, 1)
	assert.Equal(t, "r1", m.Relationships[0].ID)
}

func TestService_GetPredicates(t *testing.T) {
	svc := setupService(t, "svc-predicates-test")
	ctx := context.Background()
	const project = "default"

	require.NoError(t, svc.CreateEntities(ctx, project, []apptype.Entity{
		{ID: "a", LabelNormalized: "A", EntityType: "T"},
		{ID: "b", LabelNormalized: "B", EntityType: "T"},
	}))
	_, err := svc.CreateRelationships(ctx, project, []apptype.Relationship{
		{Predicate: "manages", SourceEntityID: "a", RelatedEntityID: "b"},
		{Predicate: "employs", SourceEntityID: "b", RelatedEntityID: "a"},
		{Predicate: "manages", SourceEntityID: "b", RelatedEntityID: "a"},
	})
	require.NoError(t, err)

	preds, err := svc.GetPredicates(ctx, project)
	require.NoError(t, err)
	assert.Equal(t, []string{"employs", "manages"}, preds)
}
