package patternsearch

import (
	"context"

	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
	"github.com/kgforge/mcp-pattern-search-go/internal/database"
	"github.com/kgforge/mcp-pattern-search-go/internal/pattern"
)

// Service provides a library-first API for pattern search without MCP
// transport.
type Service struct {
	db     *database.DBManager
	engine *pattern.Engine
}

// NewService constructs a Service with the provided config.
func NewService(cfg *Config) (*Service, error) {
	dm, err := database.NewDBManager(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return &Service{db: dm, engine: pattern.NewEngine(cfg.MaxSearchSteps)}, nil
}

// Close releases resources.
func (s *Service) Close() error { return s.db.Close() }

// SearchPattern enumerates all matches of p and returns the requested
// 1-indexed page. pageNumber and pageSize must both be >= 1.
func (s *Service) SearchPattern(ctx context.Context, project string, p apptype.SearchPattern, pageNumber, pageSize int) (apptype.PatternSearchResponse, error) {
	entities, relationships, err := s.db.Snapshot(ctx, project)
	if err != nil {
		return apptype.PatternSearchResponse{}, err
	}
	return s.engine.Search(p, entities, relationships, pageNumber, pageSize)
}

// GetPredicates returns the distinct sorted relationship predicates.
func (s *Service) GetPredicates(ctx context.Context, project string) ([]string, error) {
	relationships, err := s.db.ListRelationships(ctx, project)
	if err != nil {
		return nil, err
	}
	return pattern.Predicates(relationships), nil
}

// CreateEntities inserts or updates entities.
func (s *Service) CreateEntities(ctx context.Context, project string, ents []apptype.Entity) error {
	return s.db.CreateEntities(ctx, project, ents)
}

// CreateRelationships inserts relationships, generating missing ids.
func (s *Service) CreateRelationships(ctx context.Context, project string, rels []apptype.Relationship) ([]apptype.Relationship, error) {
	return s.db.CreateRelationships(ctx, project, rels)
}

// DeleteEntities removes entities and their relationships.
func (s *Service) DeleteEntities(ctx context.Context, project string, ids []string) error {
	return s.db.DeleteEntities(ctx, project, ids)
}

// DeleteRelationships removes relationships by id.
func (s *Service) DeleteRelationships(ctx context.Context, project string, ids []string) error {
	return s.db.DeleteRelationships(ctx, project, ids)
}

// ReadGraph returns recent entities and the relationships among them.
func (s *Service) ReadGraph(ctx context.Context, project string, limit int) ([]apptype.Entity, []apptype.Relationship, error) {
	return s.db.ReadGraph(ctx, project, limit)
}

// MergeMatches dedups entities and relationships across matches for
// importing results into a workspace.
func MergeMatches(matches []apptype.PatternMatch) ([]apptype.Entity, []apptype.Relationship) {
	return pattern.MergeMatches(matches)
}
