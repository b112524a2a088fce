// Package mcp provides the read-only MCP (Model Context Protocol) server.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/detox-cli/internal/ports"
	"github.com/xvierd/detox-cli/internal/services"
)

const defaultHistoryDays = 7

// Server implements the MCP server using mark3labs/mcp-go. It exposes no
// tool that changes state: the block can only be engaged from the
// terminal.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider, version string) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"detox",
		version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_detox_status",
			mcp.WithDescription("Get today's detox status: whether distracting sites are blocked, time worked and time remaining"),
		),
		s.handleGetStatus,
	)

	historyTool := mcp.NewTool(
		"list_completions",
		mcp.WithDescription("List days on which the work quota was completed, newest first, with the current streak"),
		mcp.WithNumber(
			"days",
			mcp.Description("How many days back to look, including today (default: 7)"),
		),
	)
	s.server.AddTool(historyTool, s.handleListCompletions)
}

// Start serves MCP requests over stdio until stdin closes.
func (s *Server) Start(ctx context.Context) error {
	return server.ServeStdio(s.server)
}

// handleGetStatus handles the get_detox_status tool.
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.stateProvider.Snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read detox state: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(services.NewStatusReport(snap), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleListCompletions handles the list_completions tool.
func (s *Server) handleListCompletions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := request.GetInt("days", defaultHistoryDays)
	if days < 1 {
		return mcp.NewToolResultError("days must be at least 1"), nil
	}

	completions, err := s.stateProvider.RecentCompletions(ctx, days)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read history: %v", err)), nil
	}
	streak, err := s.stateProvider.Streak(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compute streak: %v", err)), nil
	}

	result := map[string]interface{}{
		"completions": services.NewCompletionReports(completions),
		"total_count": len(completions),
		"days":        days,
		"streak":      streak,
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completions: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
