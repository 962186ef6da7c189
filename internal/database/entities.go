package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
	"github.com/kgforge/mcp-pattern-search-go/internal/metrics"
)

// CreateEntities creates or updates entities
func (dm *DBManager) CreateEntities(ctx context.Context, projectName string, entities []apptype.Entity) error {
	done := metrics.TimeOp("db_create_entities")
	success := false
	defer func() { done(success) }()
	db, err := dm.getDB(projectName)
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		success = true
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, entity := range entities {
		if strings.TrimSpace(entity.ID) == "" {
			return fmt.Errorf("entity id must be a non-empty string")
		}
		if strings.TrimSpace(entity.EntityType) == "" {
			return fmt.Errorf("invalid entity type for entity %q", entity.ID)
		}

		result, err := tx.ExecContext(ctx,
			"UPDATE entities SET label_normalized = ?, entity_type = ? WHERE id = ?",
			entity.LabelNormalized, entity.EntityType, entity.ID)
		if err != nil {
			return fmt.Errorf("failed to update entity %q: %w", entity.ID, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected for update: %w", err)
		}
		if rowsAffected == 0 {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO entities (id, label_normalized, entity_type) VALUES (?, ?, ?)",
				entity.ID, entity.LabelNormalized, entity.EntityType); err != nil {
				return fmt.Errorf("failed to insert entity %q: %w", entity.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	success = true
	return nil
}

// GetEntity retrieves a single entity by id
func (dm *DBManager) GetEntity(ctx context.Context, projectName string, id string) (*apptype.Entity, error) {
	done := metrics.TimeOp("db_get_entity")
	success := false
	defer func() { done(success) }()
	db, err := dm.getDB(projectName)
	if err != nil {
		return nil, err
	}
	stmt, err := dm.getPreparedStmt(ctx, projectName, db, "SELECT id, label_normalized, entity_type FROM entities WHERE id = ?")
	if err != nil {
		return nil, err
	}
	var e apptype.Entity
	if err := stmt.QueryRowContext(ctx, id).Scan(&e.ID, &e.LabelNormalized, &e.EntityType); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("entity %q not found", id)
		}
		return nil, fmt.Errorf("failed to query entity %q: %w", id, err)
	}
	success = true
	return &e, nil
}

// ListEntities returns all entities in insertion order. This is the
// read-only snapshot the pattern engine iterates as its candidate pool;
// insertion order is the "input order" its determinism contract names.
func (dm *DBManager) ListEntities(ctx context.Context, projectName string) ([]apptype.Entity, error) {
	done := metrics.TimeOp("db_list_entities")
	success := false
	defer func() { done(success) }()
	db, err := dm.getDB(projectName)
	if err != nil {
		return nil, err
	}
	stmt, err := dm.getPreparedStmt(ctx, projectName, db, "SELECT id, label_normalized, entity_type FROM entities ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	entities := make([]apptype.Entity, 0)
	for rows.Next() {
		var e apptype.Entity
		if err := rows.Scan(&e.ID, &e.LabelNormalized, &e.EntityType); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entities: %w", err)
	}
	success = true
	return entities, nil
}

// GetRecentEntities retrieves recently created entities
func (dm *DBManager) GetRecentEntities(ctx context.Context, projectName string, limit int) ([]apptype.Entity, error) {
	done := metrics.TimeOp("db_get_recent_entities")
	success := false
	defer func() { done(success) }()
	db, err := dm.getDB(projectName)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	stmt, err := dm.getPreparedStmt(ctx, projectName, db, "SELECT id, label_normalized, entity_type FROM entities ORDER BY created_at DESC, id DESC LIMIT ?")
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent entities: %w", err)
	}
	defer rows.Close()

	entities := make([]apptype.Entity, 0, limit)
	for rows.Next() {
		var e apptype.Entity
		if err := rows.Scan(&e.ID, &e.LabelNormalized, &e.EntityType); err != nil {
			return nil, fmt.Errorf("failed to scan recent entity: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent entities: %w", err)
	}
	success = true
	return entities, nil
}

// DeleteEntities deletes entities by id along with their relationships
func (dm *DBManager) DeleteEntities(ctx context.Context, projectName string, ids []string) error {
	done := metrics.TimeOp("db_delete_entities")
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

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids)*2)
	for _, id := range ids {
		args = append(args, id)
	}
	for _, id := range ids {
		args = append(args, id)
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM relationships WHERE source_id IN (%s) OR related_id IN (%s)", placeholders, placeholders),
		args...); err != nil {
		return fmt.Errorf("failed to delete relationships for entities: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM entities WHERE id IN (%s)", placeholders),
		args[:len(ids)]...); err != nil {
		return fmt.Errorf("failed to delete entities: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	success = true
	return nil
}
