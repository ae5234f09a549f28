package mcp

import (
	"context"
	"errors"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/gimmeDG/UnrealEngine5-mcp/internal/catalog"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/logging"
	"github.com/gimmeDG/UnrealEngine5-mcp/internal/searcher"
)

const (
	// ServerName is the MCP server name
	ServerName = "unreal-engine-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp         *server.MCPServer
	handle      *catalog.Handle
	searcher    *searcher.Searcher
	defaultTopK int
	logger      logrus.FieldLogger
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithDefaultTopK sets the result count used when a call omits top_k
func WithDefaultTopK(topK int) Option {
	return func(s *Server) { s.defaultTopK = topK }
}

// NewServer creates the MCP server and registers its tools. handle and srch
// must refer to the same catalog.
func NewServer(handle *catalog.Handle, srch *searcher.Searcher, opts ...Option) *Server {
	s := &Server{
		handle:      handle,
		searcher:    srch,
		defaultTopK: defaultTopK,
		logger:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Component(s.logger, "mcp")

	s.mcp = server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
	)
	s.registerTools()

	return s
}

// Serve runs the MCP protocol on stdin/stdout until ctx is cancelled or
// stdin is closed
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("Serving MCP on stdio")
	err := server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchUnrealAPITool(s.defaultTopK), s.handleSearchUnrealAPI)
	s.mcp.AddTool(getAPIStatsTool(), s.handleGetAPIStats)
	s.logger.Debug("Registered tools")
}
