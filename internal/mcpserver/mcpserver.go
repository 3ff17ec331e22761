// Package mcpserver exposes the dead code scan to LLM agents over the Model
// Context Protocol.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/clrd/pkg/config"
)

// Server is a stdio MCP server with the scan_dead_code tool and the embedded
// prompts.
type Server struct {
	server     *mcp.Server
	configPath string
}

// Option configures a Server.
type Option func(*Server)

// WithConfigPath makes every scan use the config file at path instead of
// searching the scanned root.
func WithConfigPath(path string) Option {
	return func(s *Server) {
		s.configPath = path
	}
}

// NewServer creates a server reporting version to clients.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{Name: "clrd", Version: version}, nil),
	}
	for _, opt := range opts {
		opt(s)
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "scan_dead_code",
		Description: describeScanDeadCode(),
	}, s.handleScanDeadCode)
	s.registerPrompts()
	return s
}

// Run serves over stdin and stdout until ctx is done or the client hangs up.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) loadConfig(root string) (*config.Config, error) {
	if s.configPath != "" {
		return config.Load(s.configPath)
	}
	return config.LoadOrDefault(root)
}
