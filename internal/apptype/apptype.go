package apptype

// Entity represents a node in the knowledge graph
type Entity struct {
	ID              string `json:"id"`
	LabelNormalized string `json:"labelNormalized"`
	EntityType      string `json:"type"`
}

// Relationship represents a relationship between two entities. The stored
// direction is recorded but pattern matching treats relationships as
// undirected.
type Relationship struct {
	ID              string `json:"relationshipId"`
	Predicate       string `json:"predicate"`
	SourceEntityID  string `json:"sourceEntityId"`
	RelatedEntityID string `json:"relatedEntityId"`
}

// AttributeFilter constrains one entity attribute. Patterns are OR'd: the
// filter is satisfied when any single pattern matches. An empty pattern
// list is vacuously satisfied.
type AttributeFilter struct {
	Attribute string   `json:"attribute"`
	Patterns  []string `json:"patterns"`
}

// PatternNode is one typed, filtered vertex of a pattern graph. An empty
// Type matches any entity type. Filters are AND'd.
type PatternNode struct {
	ID      string            `json:"id"`
	Label   string            `json:"label"`
	Type    string            `json:"type,omitempty"`
	Filters []AttributeFilter `json:"filters,omitempty"`
}

// PatternEdge is one predicate-filtered connection between two pattern
// nodes. An empty Predicates list matches any predicate.
type PatternEdge struct {
	ID           string   `json:"id"`
	SourceNodeID string   `json:"sourceNodeId"`
	TargetNodeID string   `json:"targetNodeId"`
	Predicates   []string `json:"predicates,omitempty"`
}

// SearchPattern is the full pattern graph submitted by a caller.
type SearchPattern struct {
	Nodes []PatternNode `json:"nodes"`
	Edges []PatternEdge `json:"edges"`
}

// PatternMatch is one complete, constraint-satisfying assignment of
// entities to pattern nodes plus the relationships that justified each
// satisfied edge. Entities are ordered by pattern-node label ascending.
type PatternMatch struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// PatternSearchResponse is one page of matches plus the total count over
// the full enumeration.
type PatternSearchResponse struct {
	Matches    []PatternMatch `json:"matches"`
	TotalCount int            `json:"totalCount"`
	PageNumber int            `json:"pageNumber"`
	PageSize   int            `json:"pageSize"`
}
