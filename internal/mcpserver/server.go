// Package mcpserver exposes document parsing and compliance scanning as
// Model Context Protocol tools over stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lucasnoah/complyd/internal/config"
	"github.com/lucasnoah/complyd/internal/db"
	"github.com/lucasnoah/complyd/internal/docparse"
)

var (
	ErrMissingParser = errors.New("mcpserver: parser is required")
	ErrMissingConfig = errors.New("mcpserver: config is required")
)

// Deps are the collaborators the tools run against. History is optional;
// when set, scans are recorded if the config enables history.
type Deps struct {
	Parser  *docparse.Parser
	Config  *config.Config
	History *db.DB
}

// Server is the complyd MCP server.
type Server struct {
	deps    Deps
	version string
	server  *mcp.Server
}

// New creates a server and registers its tools.
func New(deps Deps, version string) (*Server, error) {
	if deps.Parser == nil {
		return nil, ErrMissingParser
	}
	if deps.Config == nil {
		return nil, ErrMissingConfig
	}
	if version == "" {
		version = "dev"
	}

	s := &Server{
		deps:    deps,
		version: version,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "complyd",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
