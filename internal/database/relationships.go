package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
	"github.com/kgforge/mcp-pattern-search-go/internal/metrics"
)

// CreateRelationships creates multiple relationships between entities.
// A relationship submitted without an id is assigned a generated one.
// The created relationships (including generated ids) are returned.
func (dm *DBManager) CreateRelationships(ctx context.Context, projectName string, relationships []apptype.Relationship) ([]apptype.Relationship, error) {
	done := metrics.TimeOp("db_create_relationships")
	success := false
	defer func() { done(success) }()
	db, err := dm.getDB(projectName)
	if err != nil {
		return nil, err
	}
	if len(relationships) == 0 {
		success = true
		return []apptype.Relationship{}, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO relationships (id, predicate, source_id, related_id) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	created := make([]apptype.Relationship, 0, len(relationships))
	for _, rel := range relationships {
		if rel.SourceEntityID == "" || rel.RelatedEntityID == "" || rel.Predicate == "" {
			return nil, fmt.Errorf("relationship predicate and endpoints cannot be empty")
		}
		if err := verifyEndpoints(ctx, tx, rel.SourceEntityID, rel.RelatedEntityID); err != nil {
			return nil, err
		}
		if rel.ID == "" {
			rel.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, rel.ID, rel.Predicate, rel.SourceEntityID, rel.RelatedEntityID); err != nil {
			return nil, fmt.Errorf("failed to insert relationship (%s -> %s): %w", rel.SourceEntityID, rel.RelatedEntityID, err)
		}
		created = append(created, rel)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	success = true
	return created, nil
}

// verifyEndpoints checks that both relationship endpoints exist before
// linking them.
func verifyEndpoints(ctx context.Context, tx *sql.Tx, source, related string) error {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM entities WHERE id IN (?, ?)", source, related)
	if err != nil {
		return fmt.Errorf("failed to verify relationship endpoints: %w", err)
	}
	found := make(map[string]bool, 2)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err == nil {
			found[id] = true
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to verify relationship endpoints: %w", err)
	}
	missing := make([]string, 0, 2)
	if !found[source] {
		missing = append(missing, source)
	}
	if !found[related] {
		missing = append(missing, related)
	}
	if len(missing) > 0 {
		return fmt.Errorf("relationship endpoints must exist before linking: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// ListRelationships returns all relationships in insertion order. This is
// the read-only snapshot the pattern engine scans when searching for edge
// witnesses; insertion order drives its first-match-wins selection.
func (dm *DBManager) ListRelationships(ctx context.Context, projectName string) ([]apptype.Relationship, error) {
	done := metrics.TimeOp("db_list_relationships")
	success := false
	defer func() { done(success) }()
	db, err := dm.getDB(projectName)
	if err != nil {
		return nil, err
	}
	stmt, err := dm.getPreparedStmt(ctx, projectName, db, "SELECT id, predicate, source_id, related_id FROM relationships ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query relationships: %w", err)
	}
	defer rows.Close()

	relationships := make([]apptype.Relationship, 0)
	for rows.Next() {
		var r apptype.Relationship
		if err := rows.Scan(&r.ID, &r.Predicate, &r.SourceEntityID, &r.RelatedEntityID); err != nil {
			return nil, fmt.Errorf("failed to scan relationship: %w", err)
		}
		relationships = append(relationships, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating relationships: %w", err)
	}
	success = true
	return relationships, nil
}

// GetRelationshipsForEntities returns relationships whose endpoints are
// both among the given entities
func (dm *DBManager) GetRelationshipsForEntities(ctx context.Context, projectName string, entities []apptype.Entity) ([]apptype.Relationship, error) {
	done := metrics.TimeOp("db_get_relationships_for_entities")
	success := false
	defer func() { done(success) }()
	if len(entities) == 0 {
		success = true
		return []apptype.Relationship{}, nil
	}
	db, err := dm.getDB(projectName)
	if err != nil {
		return nil, err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(entities)), ",")
	query := fmt.Sprintf(
		"SELECT id, predicate, source_id, related_id FROM relationships WHERE source_id IN (%s) AND related_id IN (%s) ORDER BY rowid",
		placeholders, placeholders)
	args := make([]interface{}, 0, len(entities)*2)
	for _, e := range entities {
		args = append(args, e.ID)
	}
	for _, e := range entities {
		args = append(args, e.ID)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query relationships for entities: %w", err)
	}
	defer rows.Close()

	relationships := make([]apptype.Relationship, 0)
	for rows.Next() {
		var r apptype.Relationship
		if err := rows.Scan(&r.ID, &r.Predicate, &r.SourceEntityID, &r.RelatedEntityID); err != nil {
			return nil, fmt.Errorf("failed to scan relationship: %w", err)
		}
		relationships = append(relationships, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating relationships: %w", err)
	}
	success = true
	return relationships, nil
}

// DeleteRelationships deletes relationships by id
func (dm *DBManager) DeleteRelationships(ctx context.Context, projectName string, ids []string) error {
	done := metrics.TimeOp("db_delete_relationships")
	success := false
	defer func() { done(success) }()
	db, err := dm.getDB(projectName)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		success = true
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	if _, err := db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM relationships WHERE id IN (%s)", placeholders), args...); err != nil {
		return fmt.Errorf("failed to delete relationships: %w", err)
	}
	success = true
	return nil
}

// Snapshot returns the entity and relationship pools for one search call.
// Both slices are fresh copies in insertion order; the engine never sees
// live storage state.
func (dm *DBManager) Snapshot(ctx context.Context, projectName string) ([]apptype.Entity, []apptype.Relationship, error) {
	entities, err := dm.ListEntities(ctx, projectName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entities: %w", err)
	}
	relationships, err := dm.ListRelationships(ctx, projectName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	return entities, relationships, nil
}

// ReadGraph retrieves recent entities and the relationships among them
func (dm *DBManager) ReadGraph(ctx context.Context, projectName string, limit int) ([]apptype.Entity, []apptype.Relationship, error) {
	entities, err := dm.GetRecentEntities(ctx, projectName, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get recent entities: %w", err)
	}
	relationships, err := dm.GetRelationshipsForEntities(ctx, projectName, entities)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get relationships: %w", err)
	}
	return entities, relationships, nil
}
