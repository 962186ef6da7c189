package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kgforge/mcp-pattern-search-go/internal/apptype"
	"github.com/kgforge/mcp-pattern-search-go/internal/buildinfo"
	"github.com/kgforge/mcp-pattern-search-go/internal/database"
	"github.com/kgforge/mcp-pattern-search-go/internal/metrics"
	"github.com/kgforge/mcp-pattern-search-go/internal/pattern"
)

const defaultProject = "default"

// MCPServer handles MCP protocol communication
type MCPServer struct {
	server *mcp.Server
	db     *database.DBManager
	engine *pattern.Engine
}

// NewMCPServer creates a new MCP server. maxSteps bounds the work of one
// pattern search (0 = unlimited).
func NewMCPServer(db *database.DBManager, maxSteps int) *MCPServer {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "mcp-pattern-search-go",
		Version: buildinfo.Version,
	}, nil)

	mcpServer := &MCPServer{
		server: server,
		db:     db,
		engine: pattern.NewEngine(maxSteps),
	}

	// initialize metrics from env (no-op if disabled)
	metrics.InitFromEnv()
	mcpServer.setupToolHandlers()
	return mcpServer
}

// setupToolHandlers registers all MCP tools
func (s *MCPServer) setupToolHandlers() {
	searchPatternInputSchema, err := jsonschema.For[apptype.PatternSearchArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for PatternSearchArgs: %v", err))
	}
	searchPatternOutputSchema, err := jsonschema.For[apptype.PatternSearchResponse]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for PatternSearchResponse: %v", err))
	}
	getPredicatesInputSchema, err := jsonschema.For[apptype.GetPredicatesArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for GetPredicatesArgs: %v", err))
	}
	getPredicatesOutputSchema, err := jsonschema.For[apptype.PredicatesResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for PredicatesResult: %v", err))
	}
	createEntitiesInputSchema, err := jsonschema.For[apptype.CreateEntitiesArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for CreateEntitiesArgs: %v", err))
	}
	createRelationshipsInputSchema, err := jsonschema.For[apptype.CreateRelationshipsArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for CreateRelationshipsArgs: %v", err))
	}
	deleteEntitiesInputSchema, err := jsonschema.For[apptype.DeleteEntitiesArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for DeleteEntitiesArgs: %v", err))
	}
	deleteRelationshipsInputSchema, err := jsonschema.For[apptype.DeleteRelationshipsArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for DeleteRelationshipsArgs: %v", err))
	}
	readGraphInputSchema, err := jsonschema.For[apptype.ReadGraphArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for ReadGraphArgs: %v", err))
	}
	readGraphOutputSchema, err := jsonschema.For[apptype.GraphResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for GraphResult: %v", err))
	}
	healthInputSchema, err := jsonschema.For[apptype.HealthArgs]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HealthArgs: %v", err))
	}
	healthOutputSchema, err := jsonschema.For[apptype.HealthResult]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for HealthResult: %v", err))
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "search_pattern",
		Title:        "Search Pattern",
		Description:  "Find every occurrence of a typed, filtered pattern graph inside the knowledge graph. Returns one page of matches plus the total count.",
		InputSchema:  searchPatternInputSchema,
		OutputSchema: searchPatternOutputSchema,
	}, s.handleSearchPattern)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "get_predicates",
		Title:        "Get Predicates",
		Description:  "List the distinct relationship predicates present in the graph, sorted ascending.",
		InputSchema:  getPredicatesInputSchema,
		OutputSchema: getPredicatesOutputSchema,
	}, s.handleGetPredicates)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_entities",
		Title:       "Create Entities",
		Description: "Create or update entities in the knowledge graph.",
		InputSchema: createEntitiesInputSchema,
	}, s.handleCreateEntities)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_relationships",
		Title:       "Create Relationships",
		Description: "Create relationships between existing entities. Missing relationship ids are generated.",
		InputSchema: createRelationshipsInputSchema,
	}, s.handleCreateRelationships)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_entities",
		Title:       "Delete Entities",
		Description: "Delete entities by id together with their relationships.",
		InputSchema: deleteEntitiesInputSchema,
	}, s.handleDeleteEntities)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_relationships",
		Title:       "Delete Relationships",
		Description: "Delete relationships by id.",
		InputSchema: deleteRelationshipsInputSchema,
	}, s.handleDeleteRelationships)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "read_graph",
		Title:        "Read Graph",
		Description:  "Get recent entities and the relationships among them.",
		InputSchema:  readGraphInputSchema,
		OutputSchema: readGraphOutputSchema,
	}, s.handleReadGraph)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "health_check",
		Title:        "Health Check",
		Description:  "Returns server and configuration information.",
		InputSchema:  healthInputSchema,
		OutputSchema: healthOutputSchema,
	}, s.handleHealth)
}

func (s *MCPServer) getProjectName(providedName string) string {
	if providedName != "" {
		return providedName
	}
	return defaultProject
}

// handleSearchPattern handles the search_pattern tool call. Page inputs
// are validated here, at the transport boundary; the engine assumes them
// valid.
func (s *MCPServer) handleSearchPattern(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.PatternSearchArgs],
) (*mcp.CallToolResultFor[apptype.PatternSearchResponse], error) {
	done := metrics.TimeTool("search_pattern")
	var success bool
	defer func() { done(success) }()
	projectName := s.getProjectName(params.Arguments.ProjectArgs.ProjectName)
	pageSize := params.Arguments.PageSize
	pageNumber := params.Arguments.PageNumber
	if pageSize < 1 {
		return nil, fmt.Errorf("pageSize must be >= 1, got %d", pageSize)
	}
	if pageNumber < 1 {
		return nil, fmt.Errorf("pageNumber must be >= 1, got %d", pageNumber)
	}

	entities, relationships, err := s.db.Snapshot(ctx, projectName)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot graph: %w", err)
	}

	resp, err := s.engine.Search(params.Arguments.Pattern, entities, relationships, pageNumber, pageSize)
	if err != nil {
		if errors.Is(err, pattern.ErrBudgetExceeded) {
			return nil, fmt.Errorf("pattern too complex for this graph: %w", err)
		}
		return nil, fmt.Errorf("pattern search failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.PatternSearchResponse]{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Found %d matches (page %d, size %d)", resp.TotalCount, resp.PageNumber, resp.PageSize),
			},
		},
		StructuredContent: resp,
	}, nil
}

// handleGetPredicates handles the get_predicates tool call
func (s *MCPServer) handleGetPredicates(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.GetPredicatesArgs],
) (*mcp.CallToolResultFor[apptype.PredicatesResult], error) {
	done := metrics.TimeTool("get_predicates")
	var success bool
	defer func() { done(success) }()
	projectName := s.getProjectName(params.Arguments.ProjectArgs.ProjectName)

	relationships, err := s.db.ListRelationships(ctx, projectName)
	if err != nil {
		return nil, fmt.Errorf("failed to list relationships: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.PredicatesResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: "Predicates listed"}},
		StructuredContent: apptype.PredicatesResult{Predicates: pattern.Predicates(relationships)},
	}, nil
}

// handleCreateEntities handles the create_entities tool call
func (s *MCPServer) handleCreateEntities(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.CreateEntitiesArgs],
) (*mcp.CallToolResultFor[any], error) {
	done := metrics.TimeTool("create_entities")
	var success bool
	defer func() { done(success) }()
	projectName := s.getProjectName(params.Arguments.ProjectArgs.ProjectName)
	entities := params.Arguments.Entities

	if err := s.db.CreateEntities(ctx, projectName, entities); err != nil {
		return nil, fmt.Errorf("failed to create entities: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Successfully processed %d entities in project %s", len(entities), projectName),
			},
		},
	}, nil
}

// handleCreateRelationships handles the create_relationships tool call
func (s *MCPServer) handleCreateRelationships(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.CreateRelationshipsArgs],
) (*mcp.CallToolResultFor[any], error) {
	done := metrics.TimeTool("create_relationships")
	var success bool
	defer func() { done(success) }()
	projectName := s.getProjectName(params.Arguments.ProjectArgs.ProjectName)

	created, err := s.db.CreateRelationships(ctx, projectName, params.Arguments.Relationships)
	if err != nil {
		return nil, fmt.Errorf("failed to create relationships: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: fmt.Sprintf("Created %d relationships in project %s", len(created), projectName),
			},
		},
	}, nil
}

// handleDeleteEntities handles bulk entity deletion
func (s *MCPServer) handleDeleteEntities(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.DeleteEntitiesArgs],
) (*mcp.CallToolResultFor[any], error) {
	done := metrics.TimeTool("delete_entities")
	var success bool
	defer func() { done(success) }()
	projectName := s.getProjectName(params.Arguments.ProjectArgs.ProjectName)
	ids := params.Arguments.IDs
	if err := s.db.DeleteEntities(ctx, projectName, ids); err != nil {
		return nil, fmt.Errorf("failed to delete entities: %w", err)
	}
	success = true
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Deleted %d entities in project %s", len(ids), projectName)}},
	}, nil
}

// handleDeleteRelationships handles bulk relationship deletion
func (s *MCPServer) handleDeleteRelationships(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.DeleteRelationshipsArgs],
) (*mcp.CallToolResultFor[any], error) {
	done := metrics.TimeTool("delete_relationships")
	var success bool
	defer func() { done(success) }()
	projectName := s.getProjectName(params.Arguments.ProjectArgs.ProjectName)
	ids := params.Arguments.IDs
	if err := s.db.DeleteRelationships(ctx, projectName, ids); err != nil {
		return nil, fmt.Errorf("failed to delete relationships: %w", err)
	}
	success = true
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Deleted %d relationships in project %s", len(ids), projectName)}},
	}, nil
}

// handleReadGraph handles the read_graph tool call
func (s *MCPServer) handleReadGraph(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.ReadGraphArgs],
) (*mcp.CallToolResultFor[apptype.GraphResult], error) {
	done := metrics.TimeTool("read_graph")
	var success bool
	defer func() { done(success) }()
	projectName := s.getProjectName(params.Arguments.ProjectArgs.ProjectName)
	limit := params.Arguments.Limit
	if limit <= 0 {
		limit = 10
	}
	entities, relationships, err := s.db.ReadGraph(ctx, projectName, limit)
	if err != nil {
		return nil, fmt.Errorf("read graph failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[apptype.GraphResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: "Graph read successfully"}},
		StructuredContent: apptype.GraphResult{Entities: entities, Relationships: relationships},
	}, nil
}

// handleHealth returns basic server health information
func (s *MCPServer) handleHealth(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.HealthArgs],
) (*mcp.CallToolResultFor[apptype.HealthResult], error) {
	done := metrics.TimeTool("health_check")
	defer func() { done(true) }()
	cfg := s.db.Config()
	res := apptype.HealthResult{
		Name:         "mcp-pattern-search-go",
		Version:      buildinfo.Version,
		Revision:     buildinfo.Revision,
		BuildDate:    buildinfo.BuildDate,
		MultiProject: cfg.MultiProjectMode,
		MaxSteps:     s.engine.MaxSteps,
	}
	return &mcp.CallToolResultFor[apptype.HealthResult]{
		Content:           []mcp.Content{&mcp.TextContent{Text: "ok"}},
		StructuredContent: res,
	}, nil
}

// Run starts the MCP server with stdio transport
func (s *MCPServer) Run(ctx context.Context) error {
	transport := mcp.NewStdioTransport()
	return s.server.Run(ctx, transport)
}

// RunSSE starts the MCP server over SSE at the given address and endpoint
func (s *MCPServer) RunSSE(ctx context.Context, addr string, endpoint string) error {
	handler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server { return s.server })
	mux := http.NewServeMux()
	mux.Handle(endpoint, handler)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("SSE MCP server listening on %s%s", addr, endpoint)
	return srv.ListenAndServe()
}
