// Package mcp provides an MCP (Model Context Protocol) server over the
// project's knowledge base.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/LouisB739/thehook/pkg/index"
	"github.com/LouisB739/thehook/pkg/knowledge"
	"github.com/LouisB739/thehook/pkg/utils"
)

type Config struct {
	// Index answers semantic queries over stored knowledge.
	Index *index.Index

	// Store exposes the durable records for status reporting and rebuilds.
	Store *knowledge.Store

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the recall and status tools.
func NewServer(c Config) (*Server, error) {
	if c.Index == nil {
		return nil, errors.New("index is required")
	}
	if c.Store == nil {
		return nil, errors.New("knowledge store is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "thehook",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        recallToolName,
		Description: recallDescription,
	}, s.handleRecall)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        statusToolName,
		Description: statusDescription,
	}, s.handleStatus)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
