package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
)

const testProject = "test-project"

func setupTestDB(t *testing.T) (*DBManager, func()) {
	config := NewConfig()
	// Use an in-memory database for testing, one per test so state never
	// leaks between tests. The `cache=shared` is crucial for sharing the
	// connection across different calls to `sql.Open` within the same
	// process.
	config.URL = "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := NewDBManager(config)
	require.NoError(t, err)

	cleanup := func() {
		err := db.Close()
		assert.NoError(t, err)
	}

	return db, cleanup
}

func TestCreateAndGetEntity(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	entity := apptype.Entity{ID: "o1", LabelNormalized: "Google", EntityType: "Organization"}

	err := db.CreateEntities(ctx, testProject, []apptype.Entity{entity})
	require.NoError(t, err)

	retrieved, err := db.GetEntity(ctx, testProject, "o1")
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, entity, *retrieved)

	_, err = db.GetEntity(ctx, testProject, "missing")
	assert.Error(t, err)
}

func TestCreateEntities_Upsert(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	err := db.CreateEntities(ctx, testProject, []apptype.Entity{
		{ID: "o1", LabelNormalized: "Google", EntityType: "Organization"},
	})
	require.NoError(t, err)
	err = db.CreateEntities(ctx, testProject, []apptype.Entity{
		{ID: "o1", LabelNormalized: "Alphabet", EntityType: "Organization"},
	})
	require.NoError(t, err)

	retrieved, err := db.GetEntity(ctx, testProject, "o1")
	require.NoError(t, err)
	assert.Equal(t, "Alphabet", retrieved.LabelNormalized)

	entities, err := db.ListEntities(ctx, testProject)
	require.NoError(t, err)
	assert.Len(t, entities, 1)
}

func TestListPreservesInsertionOrder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	entities := []apptype.Entity{
		{ID: "z", LabelNormalized: "Zeta", EntityType: "T"},
		{ID: "a", LabelNormalized: "Alpha", EntityType: "T"},
		{ID: "m", LabelNormalized: "Mid", EntityType: "T"},
	}
	require.NoError(t, db.CreateEntities(ctx, testProject, entities))

	listed, err := db.ListEntities(ctx, testProject)
	require.NoError(t, err)
	assert.Equal(t, entities, listed)

	created, err := db.CreateRelationships(ctx, testProject, []apptype.Relationship{
		{Predicate: "second", SourceEntityID: "a", RelatedEntityID: "m"},
		{Predicate: "first", SourceEntityID: "z", RelatedEntityID: "a"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	rels, err := db.ListRelationships(ctx, testProject)
	require.NoError(t, err)
	require.Len(t, rels, 2)
	assert.Equal(t, "second", rels[0].Predicate)
	assert.Equal(t, "first", rels[1].Predicate)
}

func TestCreateRelationships_GeneratesIDs(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, db.CreateEntities(ctx, testProject, []apptype.Entity{
		{ID: "a", LabelNormalized: "A", EntityType: "T"},
		{ID: "b", LabelNormalized: "B", EntityType: "T"},
	}))

	created, err := db.CreateRelationships(ctx, testProject, []apptype.Relationship{
		{Predicate: "knows", SourceEntityID: "a", RelatedEntityID: "b"},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.NotEmpty(t, created[0].ID)
}

func TestCreateRelationships_RejectsMissingEndpoints(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, db.CreateEntities(ctx, testProject, []apptype.Entity{
		{ID: "a", LabelNormalized: "A", EntityType: "T"},
	}))

	_, err := db.CreateRelationships(ctx, testProject, []apptype.Relationship{
		{Predicate: "knows", SourceEntityID: "a", RelatedEntityID: "ghost"},
	})
	assert.Error(t, err)
}

func TestDeleteEntities_RemovesRelationships(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, db.CreateEntities(ctx, testProject, []apptype.Entity{
		{ID: "a", LabelNormalized: "A", EntityType: "T"},
		{ID: "b", LabelNormalized: "B", EntityType: "T"},
		{ID: "c", LabelNormalized: "C", EntityType: "T"},
	}))
	_, err := db.CreateRelationships(ctx, testProject, []apptype.Relationship{
		{ID: "r1", Predicate: "knows", SourceEntityID: "a", RelatedEntityID: "b"},
		{ID: "r2", Predicate: "knows", SourceEntityID: "b", RelatedEntityID: "c"},
	})
	require.NoError(t, err)

	require.NoError(t, db.DeleteEntities(ctx, testProject, []string{"a"}))

	entities, relationships, err := db.Snapshot(ctx, testProject)
	require.NoError(t, err)
	assert.Len(t, entities, 2)
	require.Len(t, relationships, 1)
	assert.Equal(t, "r2", relationships[0].ID)
}

func TestDeleteRelationships(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, db.CreateEntities(ctx, testProject, []apptype.Entity{
		{ID: "a", LabelNormalized: "A", EntityType: "T"},
		{ID: "b", LabelNormalized: "B", EntityType: "T"},
	}))
	_, err := db.CreateRelationships(ctx, testProject, []apptype.Relationship{
		{ID: "r1", Predicate: "knows", SourceEntityID: "a", RelatedEntityID: "b"},
	})
	require.NoError(t, err)

	require.NoError(t, db.DeleteRelationships(ctx, testProject, []string{"r1"}))

	rels, err := db.ListRelationships(ctx, testProject)
	require.NoError(t, err)
	assert.Empty(t, rels)
}

func TestReadGraph(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, db.CreateEntities(ctx, testProject, []apptype.Entity{
		{ID: "a", LabelNormalized: "A", EntityType: "T"},
		{ID: "b", LabelNormalized: "B", EntityType: "T"},
	}))
	_, err := db.CreateRelationships(ctx, testProject, []apptype.Relationship{
		{ID: "r1", Predicate: "knows", SourceEntityID: "a", RelatedEntityID: "b"},
	})
	require.NoError(t, err)

	entities, relationships, err := db.ReadGraph(ctx, testProject, 10)
	require.NoError(t, err)
	assert.Len(t, entities, 2)
	assert.Len(t, relationships, 1)
}

func TestMultiProject(t *testing.T) {
	dir, err := os.MkdirTemp("", "pattern-search-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	config := &Config{
		ProjectsDir:      dir,
		MultiProjectMode: true,
	}

	db, err := NewDBManager(config)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	err = db.CreateEntities(ctx, "project1", []apptype.Entity{{ID: "e1", LabelNormalized: "One", EntityType: "T"}})
	require.NoError(t, err)
	err = db.CreateEntities(ctx, "project2", []apptype.Entity{{ID: "e2", LabelNormalized: "Two", EntityType: "T"}})
	require.NoError(t, err)

	retrieved, err := db.GetEntity(ctx, "project1", "e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", retrieved.ID)

	_, err = db.GetEntity(ctx, "project1", "e2")
	assert.Error(t, err)
	_, err = db.GetEntity(ctx, "project2", "e1")
	assert.Error(t, err)
}
