package apptype

// ProjectArgs provides a standard way to pass project context to tools.
type ProjectArgs struct {
	ProjectName string `json:"projectName,omitempty" jsonschema:"The name of the project to operate on. If not provided, the default project is used."`
}

// PatternSearchArgs represents the arguments for the search_pattern tool.
// SortAttribute and SortDirection are accepted for schema compatibility
// with the pattern-builder client but do not affect engine output: match
// order is the engine's deterministic order.
type PatternSearchArgs struct {
	ProjectArgs   ProjectArgs   `json:"projectArgs,omitempty" jsonschema:"Project context for the operation."`
	Pattern       SearchPattern `json:"pattern" jsonschema:"The pattern graph to search for."`
	PageSize      int           `json:"pageSize" jsonschema:"Number of matches per page (must be >= 1)."`
	PageNumber    int           `json:"pageNumber" jsonschema:"1-indexed page number (must be >= 1)."`
	SortAttribute string        `json:"sortAttribute,omitempty" jsonschema:"Accepted but not used; match order is deterministic."`
	SortDirection string        `json:"sortDirection,omitempty" jsonschema:"Accepted but not used; one of asc|desc."`
}

// GetPredicatesArgs represents the arguments for the get_predicates tool
type GetPredicatesArgs struct {
	ProjectArgs ProjectArgs `json:"projectArgs,omitempty" jsonschema:"Project context for the operation."`
}

// PredicatesResult is the result of the get_predicates tool
type PredicatesResult struct {
	Predicates []string `json:"predicates"`
}

// CreateEntitiesArgs represents the arguments for the create_entities tool
type CreateEntitiesArgs struct {
	ProjectArgs ProjectArgs `json:"projectArgs,omitempty" jsonschema:"Project context for the operation."`
	Entities    []Entity    `json:"entities" jsonschema:"A list of entities to create."`
}

// CreateRelationshipsArgs represents the arguments for the create_relationships tool
type CreateRelationshipsArgs struct {
	ProjectArgs   ProjectArgs    `json:"projectArgs,omitempty" jsonschema:"Project context for the operation."`
	Relationships []Relationship `json:"relationships" jsonschema:"A list of relationships to create between entities. Missing relationship ids are generated."`
}

// DeleteEntitiesArgs represents the arguments for the delete_entities tool
type DeleteEntitiesArgs struct {
	ProjectArgs ProjectArgs `json:"projectArgs,omitempty" jsonschema:"Project context for the operation."`
	IDs         []string    `json:"ids" jsonschema:"Entity ids to delete."`
}

// DeleteRelationshipsArgs represents the arguments for the delete_relationships tool
type DeleteRelationshipsArgs struct {
	ProjectArgs ProjectArgs `json:"projectArgs,omitempty" jsonschema:"Project context for the operation."`
	IDs         []string    `json:"ids" jsonschema:"Relationship ids to delete."`
}

// ReadGraphArgs represents the arguments for the read_graph tool
type ReadGraphArgs struct {
	ProjectArgs ProjectArgs `json:"projectArgs,omitempty" jsonschema:"Project context for the operation."`
	Limit       int         `json:"limit,omitempty" jsonschema:"Maximum number of recent entities to return (default 10)."`
}

// GraphResult represents the result for graph-shaped tools (read_graph)
type GraphResult struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// Health
type HealthArgs struct{}

type HealthResult struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Revision     string `json:"revision"`
	BuildDate    string `json:"buildDate"`
	MultiProject bool   `json:"multiProject"`
	MaxSteps     int    `json:"maxSteps"`
}
