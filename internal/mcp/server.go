package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/auto-site/internal/audit"
	"github.com/ziadkadry99/auto-site/internal/project"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the site tools to AI agents.
type Server struct {
	files *project.Store
	trail *audit.Trail
	log   *zerolog.Logger
	lang  string
	mcp   *server.MCPServer
}

// NewServer creates a new MCP server backed by the project store. Pages are
// compiled with lang; a nil log discards output.
func NewServer(files *project.Store, lang string, log *zerolog.Logger) *Server {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	s := &Server{
		files: files,
		log:   log,
		lang:  lang,
	}

	s.mcp = server.NewMCPServer(
		"autosite",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// WithTrail records multiplications run by agents in trail.
func (s *Server) WithTrail(trail *audit.Trail) *Server {
	s.trail = trail
	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listProjectsTool, s.handleListProjects)
	s.mcp.AddTool(listPagesTool, s.handleListPages)
	s.mcp.AddTool(detectTagsTool, s.handleDetectTags)
	s.mcp.AddTool(compilePageTool, s.handleCompilePage)
	s.mcp.AddTool(multiplyPagesTool, s.handleMultiplyPages)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
