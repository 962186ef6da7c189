package pattern

import (
	"errors"
	"maps"
	"slices"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
	"github.com/kgforge/mcp-pattern-search-go/internal/metrics"
)

// ErrBudgetExceeded is returned when a search exceeds the engine's step
// budget. The enumeration is abandoned; no partial page is returned.
var ErrBudgetExceeded = errors.New("pattern search step budget exceeded")

// Engine performs subgraph pattern search over an entity/relationship
// snapshot. The search is a synchronous depth-first backtracking
// enumeration; given identical inputs it produces byte-identical output.
// Each call owns its own state, so one Engine may be shared across
// goroutines.
type Engine struct {
	// MaxSteps bounds candidate evaluations across one search. Worst-case
	// enumeration is exponential in pattern size; a positive budget makes
	// the engine fail closed with ErrBudgetExceeded instead of enumerating
	// unboundedly. Zero means unlimited.
	MaxSteps int
}

// NewEngine returns an Engine with the given step budget (0 = unlimited).
func NewEngine(maxSteps int) *Engine {
	return &Engine{MaxSteps: maxSteps}
}

// rawMatch is one complete assignment before assembly into a PatternMatch.
type rawMatch struct {
	assignment    map[string]apptype.Entity
	relationships []apptype.Relationship
}

// Search enumerates every occurrence of the pattern within the snapshot,
// then returns the requested 1-indexed page plus the total match count.
// Pagination happens only after the full enumeration completes, so
// TotalCount is always exact.
func (e *Engine) Search(p apptype.SearchPattern, entities []apptype.Entity, relationships []apptype.Relationship, pageNumber, pageSize int) (apptype.PatternSearchResponse, error) {
	resp := apptype.PatternSearchResponse{
		Matches:    []apptype.PatternMatch{},
		PageNumber: pageNumber,
		PageSize:   pageSize,
	}
	if len(p.Nodes) == 0 {
		return resp, nil
	}

	sorted := sortNodes(p.Nodes)
	st := &searchState{
		nodes:         sorted,
		edges:         p.Edges,
		entities:      entities,
		relationships: relationships,
		assignment:    make(map[string]apptype.Entity, len(sorted)),
		usedIDs:       make(map[string]struct{}, len(sorted)),
		maxSteps:      e.MaxSteps,
	}
	err := st.backtrack(0)
	metrics.Default().ObserveSearchSteps(float64(st.steps))
	if err != nil {
		return apptype.PatternSearchResponse{}, err
	}

	matches := assembleMatches(sorted, st.found)
	resp.TotalCount = len(matches)
	resp.Matches = paginate(matches, pageNumber, pageSize)
	return resp, nil
}

// sortNodes orders pattern nodes by label ascending. This fixed order is
// the sole tie-break of the whole search: it determines both the variable
// order of the backtracking and the entity order inside emitted matches.
// The collator is built per call; collate.Collator carries internal
// iterator state and must not be shared across concurrent searches.
func sortNodes(nodes []apptype.PatternNode) []apptype.PatternNode {
	sorted := slices.Clone(nodes)
	cl := collate.New(language.Und)
	sort.SliceStable(sorted, func(i, j int) bool {
		return cl.CompareString(sorted[i].Label, sorted[j].Label) < 0
	})
	return sorted
}

type searchState struct {
	nodes         []apptype.PatternNode
	edges         []apptype.PatternEdge
	entities      []apptype.Entity
	relationships []apptype.Relationship

	assignment  map[string]apptype.Entity
	usedIDs     map[string]struct{}
	matchedRels []apptype.Relationship
	found       []rawMatch

	steps    int
	maxSteps int
}

// backtrack assigns an entity to nodes[nodeIndex] and recurses. Candidates
// are tried in entity input order. Emitted matches carry copies of the
// assignment and relationship list, never the live state shared across
// sibling branches.
func (st *searchState) backtrack(nodeIndex int) error {
	if nodeIndex == len(st.nodes) {
		st.found = append(st.found, rawMatch{
			assignment:    maps.Clone(st.assignment),
			relationships: slices.Clone(st.matchedRels),
		})
		return nil
	}

	node := st.nodes[nodeIndex]
	for _, candidate := range st.entities {
		st.steps++
		if st.maxSteps > 0 && st.steps > st.maxSteps {
			return ErrBudgetExceeded
		}
		if _, used := st.usedIDs[candidate.ID]; used {
			continue
		}
		if !entityMatchesNode(candidate, node) {
			continue
		}
		witnesses, ok := st.edgeWitnesses(node, candidate)
		if !ok {
			continue
		}

		st.assignment[node.ID] = candidate
		st.usedIDs[candidate.ID] = struct{}{}
		st.matchedRels = append(st.matchedRels, witnesses...)

		if err := st.backtrack(nodeIndex + 1); err != nil {
			return err
		}

		st.matchedRels = st.matchedRels[:len(st.matchedRels)-len(witnesses)]
		delete(st.usedIDs, candidate.ID)
		delete(st.assignment, node.ID)
	}
	return nil
}

// edgeWitnesses finds, for every pattern edge connecting node to an
// already-assigned node, the first relationship in input order that
// satisfies the edge against (candidate, neighbor). Only that first
// witness is attached to the match; alternative qualifying relationships
// between the same pair never produce separate matches. If any edge has
// no witness the candidate is rejected outright.
func (st *searchState) edgeWitnesses(node apptype.PatternNode, candidate apptype.Entity) ([]apptype.Relationship, bool) {
	var witnesses []apptype.Relationship
	for _, edge := range st.edges {
		var neighborID string
		switch node.ID {
		case edge.SourceNodeID:
			neighborID = edge.TargetNodeID
		case edge.TargetNodeID:
			neighborID = edge.SourceNodeID
		default:
			continue
		}
		neighbor, assigned := st.assignment[neighborID]
		if !assigned {
			continue
		}

		satisfied := false
		for _, rel := range st.relationships {
			if _, ok := relationshipMatchesEdge(rel, edge, candidate.ID, neighbor.ID); ok {
				witnesses = append(witnesses, rel)
				satisfied = true
				break
			}
		}
		if !satisfied {
			return nil, false
		}
	}
	return witnesses, true
}
