package patternsearch

import (
	"github.com/kgforge/mcp-pattern-search-go/internal/database"
)

// Config exposes a stable wrapper for database configuration in package
// mode. Fields map directly to internal/database.Config, plus the engine
// step budget.
type Config struct {
	URL              string
	AuthToken        string
	ProjectsDir      string
	MultiProjectMode bool

	// MaxSearchSteps bounds one pattern search (0 = unlimited).
	MaxSearchSteps int
}

func (c *Config) toInternal() *database.Config {
	return &database.Config{
		URL:              c.URL,
		AuthToken:        c.AuthToken,
		ProjectsDir:      c.ProjectsDir,
		MultiProjectMode: c.MultiProjectMode,
	}
}
