package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/orionhealth/hirag/internal/llm"
	"github.com/orionhealth/hirag/internal/node"
	"github.com/orionhealth/hirag/internal/search"
)

// Tool input structs with jsonschema tags

type IngestRecordInput struct {
	Content    string `json:"content" jsonschema:"Text of the health observation,required"`
	RecordType string `json:"record_type" jsonschema:"Type: symptom|diagnosis|medication|vital_sign|general"`
}

type SearchRecordsInput struct {
	Query    string `json:"query" jsonschema:"Natural language query,required"`
	Strategy string `json:"strategy,omitempty" jsonschema:"Ranking strategy: bm25|recency|diversity|mmr. Omit for bm25."`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max results"`
}

type MultiHopSearchInput struct {
	Query    string `json:"query" jsonschema:"Natural language query,required"`
	MaxHops  int    `json:"max_hops,omitempty" jsonschema:"Traversal depth up the summary hierarchy"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"Number of direct hits to expand"`
	Strategy string `json:"strategy,omitempty" jsonschema:"Ranking strategy: bm25|recency|diversity|mmr"`
}

type SmartSearchInput struct {
	Query string `json:"query" jsonschema:"Natural language query; the strategy is chosen automatically,required"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max direct results"`
}

type CompareStrategiesInput struct {
	Query string `json:"query" jsonschema:"Query to run under every strategy,required"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results per strategy"`
}

type GenerateSummaryInput struct {
	SummaryType string `json:"summary_type" jsonschema:"Period: weekly|monthly|quarterly,required"`
}

type GetNodeInput struct {
	NodeID string `json:"node_id" jsonschema:"Node UUID,required"`
}

type DeleteNodeInput struct {
	NodeID string `json:"node_id" jsonschema:"Node UUID,required"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ingest_record",
		Description: "Store a raw health observation as a layer-0 node in the memory hierarchy.",
	}, s.ingestRecord)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_records",
		Description: "Search health records under an explicit ranking strategy.",
	}, s.searchRecords)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "multihop_search",
		Description: "Search base records and attach the period summaries that transitively include each hit.",
	}, s.multiHopSearch)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "smart_search",
		Description: "Search with automatic strategy selection plus hierarchical context. Best default for conversational queries.",
	}, s.smartSearch)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "compare_strategies",
		Description: "Run one query under every ranking strategy and return the results side by side.",
	}, s.compareStrategies)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "generate_summary",
		Description: "Generate a period summary over the trailing window and persist it in the hierarchy when a model is available.",
	}, s.generateSummary)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_node",
		Description: "Retrieve a specific node by its ID.",
	}, s.getNode)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_node",
		Description: "Permanently delete a node. Summary nodes referencing it keep their remaining sources.",
	}, s.deleteNode)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_usage",
		Description: "Report the routing strategy, network state and cumulative cloud token usage.",
	}, s.getUsage)
}

func (s *Server) ingestRecord(ctx context.Context, req *mcp.CallToolRequest, input *IngestRecordInput) (*mcp.CallToolResult, any, error) {
	recordType := input.RecordType
	if recordType == "" {
		recordType = "general"
	}

	id, err := s.svc.Engine.Ingest(ctx, input.Content, recordType, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest record: %w", err)
	}

	return makeTextResult(fmt.Sprintf("Stored record: %s (type: %s)", id, recordType)), nil, nil
}

func (s *Server) searchRecords(ctx context.Context, req *mcp.CallToolRequest, input *SearchRecordsInput) (*mcp.CallToolResult, any, error) {
	strategy := search.StrategyBM25
	if input.Strategy != "" {
		var err error
		strategy, err = search.ParseStrategy(input.Strategy)
		if err != nil {
			return nil, nil, err
		}
	}

	ids, err := s.svc.Retriever.Search(ctx, input.Query, input.Limit, strategy)
	if err != nil {
		return nil, nil, fmt.Errorf("search: %w", err)
	}

	return makeJSONResult(map[string]any{
		"strategy": strategy,
		"results":  ids,
	})
}

func (s *Server) multiHopSearch(ctx context.Context, req *mcp.CallToolRequest, input *MultiHopSearchInput) (*mcp.CallToolResult, any, error) {
	strategy := search.StrategyBM25
	if input.Strategy != "" {
		var err error
		strategy, err = search.ParseStrategy(input.Strategy)
		if err != nil {
			return nil, nil, err
		}
	}

	results, err := s.svc.Retriever.MultiHop(ctx, input.Query, input.MaxHops, input.TopK, strategy)
	if err != nil {
		return nil, nil, fmt.Errorf("multi-hop search: %w", err)
	}

	return makeJSONResult(results)
}

func (s *Server) smartSearch(ctx context.Context, req *mcp.CallToolRequest, input *SmartSearchInput) (*mcp.CallToolResult, any, error) {
	result, err := s.svc.Retriever.SmartSearch(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("smart search: %w", err)
	}

	return makeJSONResult(result)
}

func (s *Server) compareStrategies(ctx context.Context, req *mcp.CallToolRequest, input *CompareStrategiesInput) (*mcp.CallToolResult, any, error) {
	results := s.svc.Retriever.CompareStrategies(ctx, input.Query, input.Limit)
	return makeJSONResult(results)
}

func (s *Server) generateSummary(ctx context.Context, req *mcp.CallToolRequest, input *GenerateSummaryInput) (*mcp.CallToolResult, any, error) {
	summaryType, err := llm.ParseSummaryType(input.SummaryType)
	if err != nil {
		return nil, nil, err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -summaryType.Days())

	report, err := s.svc.Summaries.GenerateSummary(ctx, start, end, summaryType)
	if err != nil {
		return nil, nil, fmt.Errorf("generate summary: %w", err)
	}

	return makeJSONResult(report)
}

func (s *Server) getNode(ctx context.Context, req *mcp.CallToolRequest, input *GetNodeInput) (*mcp.CallToolResult, any, error) {
	id, err := uuid.Parse(input.NodeID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid node_id: %w", err)
	}

	n, err := s.svc.Engine.Store().Get(ctx, id)
	if err != nil {
		if errors.Is(err, node.ErrNotFound) {
			return makeTextResult("Node not found"), nil, nil
		}
		return nil, nil, fmt.Errorf("get node: %w", err)
	}

	return makeJSONResult(n)
}

func (s *Server) deleteNode(ctx context.Context, req *mcp.CallToolRequest, input *DeleteNodeInput) (*mcp.CallToolResult, any, error) {
	id, err := uuid.Parse(input.NodeID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid node_id: %w", err)
	}

	if err := s.svc.Engine.Store().Delete(ctx, id); err != nil {
		return nil, nil, fmt.Errorf("delete node: %w", err)
	}

	return makeTextResult(fmt.Sprintf("Deleted node: %s", id)), nil, nil
}

func (s *Server) getUsage(ctx context.Context, req *mcp.CallToolRequest, input *struct{}) (*mcp.CallToolResult, any, error) {
	return makeJSONResult(map[string]any{
		"strategy":          s.svc.Router.Strategy(),
		"network_available": s.svc.Router.NetworkAvailable(),
		"usage":             s.svc.Router.Usage(),
	})
}

// Helper functions

func makeTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func makeJSONResult(data any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}
