// Package server exposes a capture session to agents as MCP tools.
//
// The facade is confined to the UI loop, so every handler hops onto it with
// uiloop.Loop.Do before touching session state.
package server

import (
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/agentation/internal/logging"
	"github.com/mj1618/agentation/internal/uiloop"
	"github.com/mj1618/agentation/internal/version"
	"github.com/mj1618/agentation/pkg/agentation"
	"go.uber.org/zap"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// Server wraps the MCP server with the facade it drives.
type Server struct {
	loop   *uiloop.Loop
	agent  *agentation.Agentation
	cache  *SnapshotCache
	mcp    *mcpserver.MCPServer
	logger *zap.Logger
}

// New creates a server for an installed facade running on loop.
func New(loop *uiloop.Loop, agent *agentation.Agentation, cfg Config, logger *zap.Logger) *Server {
	s := &Server{
		loop:   loop,
		agent:  agent,
		cache:  NewSnapshotCache(cfg.CacheTTL),
		logger: logging.OrNop(logger),
	}
	s.mcp = mcpserver.NewMCPServer("agentation", version.Version)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	s.logger.Info("serving", zap.String("transport", cfg.Transport), zap.Int("port", cfg.Port))
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("start_session",
			mcp.WithDescription("Start a feedback capture session. Captures the view hierarchy and carries over feedback according to the carryover setting."),
		),
		s.handleStart,
	)

	s.mcp.AddTool(
		mcp.NewTool("stop_session",
			mcp.WithDescription("Stop the capture session and return its feedback"),
			mcp.WithString("format", mcp.Description("Export format: markdown, json (default: configured format)")),
		),
		s.handleStop,
	)

	s.mcp.AddTool(
		mcp.NewTool("toggle_pause",
			mcp.WithDescription("Pause a capturing session or resume a paused one. Resuming re-captures the hierarchy."),
		),
		s.handleTogglePause,
	)

	s.mcp.AddTool(
		mcp.NewTool("session_status",
			mcp.WithDescription("Report the session state and feedback count"),
		),
		s.handleStatus,
	)

	s.mcp.AddTool(
		mcp.NewTool("capture_hierarchy",
			mcp.WithDescription("Capture the flattened element hierarchy. Returns leaf elements with ids, types, names, screen frames and paths."),
			mcp.WithString("source", mcp.Description("Data source for this call only: view, accessibility")),
			mcp.WithBoolean("include_hidden", mcp.Description("Include hidden and transparent elements in this call")),
			mcp.WithBoolean("include_system", mcp.Description("Include system-injected windows in this call")),
			mcp.WithString("types", mcp.Description("Comma-separated short types to keep (e.g. button,input)")),
			mcp.WithString("text", mcp.Description("Keep elements whose name or path contains text")),
		),
		s.handleCapture,
	)

	s.mcp.AddTool(
		mcp.NewTool("hit_test",
			mcp.WithDescription("Return the smallest captured element containing a screen point"),
			mcp.WithNumber("x", mcp.Required(), mcp.Description("X coordinate in points")),
			mcp.WithNumber("y", mcp.Required(), mcp.Description("Y coordinate in points")),
		),
		s.handleHitTest,
	)

	s.mcp.AddTool(
		mcp.NewTool("add_feedback",
			mcp.WithDescription("Attach feedback to the element at a screen point. Starts a session when idle and updates the element's existing feedback if it has some."),
			mcp.WithNumber("x", mcp.Required(), mcp.Description("X coordinate in points")),
			mcp.WithNumber("y", mcp.Required(), mcp.Description("Y coordinate in points")),
			mcp.WithString("text", mcp.Required(), mcp.Description("Feedback text")),
		),
		s.handleAddFeedback,
	)

	s.mcp.AddTool(
		mcp.NewTool("remove_feedback",
			mcp.WithDescription("Remove a feedback item by id"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Feedback item id")),
		),
		s.handleRemoveFeedback,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_feedback",
			mcp.WithDescription("List feedback of the active session, or the last one when idle"),
		),
		s.handleListFeedback,
	)

	s.mcp.AddTool(
		mcp.NewTool("export_feedback",
			mcp.WithDescription("Render feedback as a markdown report or JSON"),
			mcp.WithString("format", mcp.Description("Export format: markdown, json (default: configured format)")),
			mcp.WithBoolean("group_by_screen", mcp.Description("Group markdown items under per-screen headings")),
		),
		s.handleExport,
	)

	s.mcp.AddTool(
		mcp.NewTool("copy_feedback",
			mcp.WithDescription("Copy the formatted feedback to the clipboard"),
		),
		s.handleCopy,
	)

	s.mcp.AddTool(
		mcp.NewTool("clear_feedback",
			mcp.WithDescription("Remove every feedback item from the active session"),
		),
		s.handleClear,
	)
}
