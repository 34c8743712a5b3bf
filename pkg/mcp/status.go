package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	statusToolName    = "status"
	statusDescription = "Report the state of the project's knowledge base: how many session files exist on disk and how many documents the search index holds. A lower index count means reindexing is needed."
)

// StatusInput represents the input arguments for the status tool.
type StatusInput struct{}

// StatusOutput represents the output of the status tool.
type StatusOutput struct {
	SessionFiles     int `json:"session_files"`
	IndexedDocuments int `json:"indexed_documents"`
}

// handleStatus reports knowledge base state.
func (s *Server) handleStatus(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
	indexed, err := s.config.Index.Count(ctx)
	if err != nil {
		s.config.Logger.Error("failed to count indexed documents", "err", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to count indexed documents: %v", err)},
			},
		}, StatusOutput{}, nil
	}

	output := StatusOutput{
		SessionFiles:     s.config.Store.SessionFileCount(),
		IndexedDocuments: indexed,
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize status: %v", err)},
			},
		}, StatusOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
