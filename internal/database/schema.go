package database

// schema holds the DDL applied to every project database on first open.
// rowid order doubles as insertion order, which the pattern engine relies
// on for deterministic candidate and relationship iteration.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS entities (
        id TEXT PRIMARY KEY,
        label_normalized TEXT NOT NULL,
        entity_type TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    )`,

	`CREATE TABLE IF NOT EXISTS relationships (
        id TEXT PRIMARY KEY,
        predicate TEXT NOT NULL,
        source_id TEXT NOT NULL,
        related_id TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        FOREIGN KEY (source_id) REFERENCES entities(id),
        FOREIGN KEY (related_id) REFERENCES entities(id)
    )`,

	`CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(entity_type)`,
	`CREATE INDEX IF NOT EXISTS idx_entities_created_at ON entities(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_relationships_predicate ON relationships(predicate)`,
	`CREATE INDEX IF NOT EXISTS idx_relationships_source ON relationships(source_id)`,
	`CREATE INDEX IF NOT EXISTS idx_relationships_related ON relationships(related_id)`,
	`CREATE INDEX IF NOT EXISTS idx_relationships_src_rel_pred ON relationships(source_id, related_id, predicate)`,
}
