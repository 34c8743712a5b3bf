package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	recallToolName    = "recall"
	recallDescription = "Search the project's session knowledge base. Returns the most relevant knowledge documents for the query text: summaries, conventions, decisions, and gotchas from past coding sessions."
)

// RecallInput represents the input arguments for the recall tool.
type RecallInput struct {
	Query string `json:"query" jsonschema:"the search query text to find relevant knowledge"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of results to return (default: 5)"`
}

// RecallResult represents a single recall result.
type RecallResult struct {
	ID        string  `json:"id"`
	Score     float32 `json:"score"`
	Timestamp string  `json:"timestamp,omitempty"`
	Content   string  `json:"content"`
}

// RecallOutput represents the output of the recall tool.
type RecallOutput struct {
	Query   string         `json:"query"`
	Results []RecallResult `json:"results"`
	Count   int            `json:"count"`
}

// handleRecall processes a recall request.
func (s *Server) handleRecall(ctx context.Context, req *mcp.CallToolRequest, input RecallInput) (*mcp.CallToolResult, RecallOutput, error) {
	logger := s.config.Logger

	topK := input.TopK
	if topK <= 0 {
		topK = 5
	}

	logger.Debug("MCP recall request", "query", input.Query, "topK", topK)

	results, err := s.config.Index.Query(ctx, input.Query, topK)
	if err != nil {
		logger.Error("failed to query knowledge index", "err", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to query knowledge index: %v", err)},
			},
		}, RecallOutput{}, nil
	}

	recallResults := make([]RecallResult, 0, len(results))
	for _, result := range results {
		recallResults = append(recallResults, RecallResult{
			ID:        result.ID,
			Score:     result.Score,
			Timestamp: result.Metadata["timestamp"],
			Content:   result.Content,
		})
	}

	output := RecallOutput{
		Query:   input.Query,
		Results: recallResults,
		Count:   len(recallResults),
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal recall output", "err", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, RecallOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
