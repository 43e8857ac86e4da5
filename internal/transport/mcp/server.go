// Package mcp exposes a game session as Model Context Protocol tools so an agent
// can play over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
	"github.com/vovakirdan/tui-blast/internal/session"
)

const instructions = `Block Blast - MCP Interface

Place pieces from a tray of three onto a 10x10 board. Completing a row or column
clears it. A placement scores one point per cell plus 10 for the first line and
15 for each further line cleared at once. Pieces cannot be rotated. The tray is
refilled after all three pieces are placed. The game is over when no remaining
piece fits anywhere.

Coordinates are (row, col) of the piece's top-left bounding-box cell, both 0-9.

AVAILABLE TOOLS:
- blast_state: board, tray, score
- blast_place: place tray slot 0-2 at row, col
- blast_undo: revert the last placement
- blast_hint: first legal move, scanning slot, row, column
- blast_new_game: start over (best score is kept)
- blast_shapes: the shape catalog with draw weights`

// Options configure the tool server.
type Options struct {
	Version   string
	WeightCap int // dispenser weight constant, for blast_shapes
}

// Server registers the game tools on an MCP server.
type Server struct {
	sess      *session.Session
	weightCap int
	mcpServer *server.MCPServer
}

// NewServer creates the tool server for sess. sess must be running.
func NewServer(sess *session.Session, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.WeightCap <= 0 {
		opts.WeightCap = engine.DefaultWeightCap
	}

	s := &Server{sess: sess, weightCap: opts.WeightCap}
	s.mcpServer = server.NewMCPServer(
		"Block Blast",
		opts.Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)
	s.registerTools()
	return s
}

// ServeStdio serves the tools on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func noArgs() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "blast_state",
		Description: "Get the board, the tray and the score",
		InputSchema: noArgs(),
	}, s.handleState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "blast_place",
		Description: "Place the piece in a tray slot with its top-left bounding-box cell at (row, col)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"slot": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"maximum":     engine.TraySize - 1,
					"description": "Tray slot holding the piece",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"maximum":     engine.BoardSize - 1,
					"description": "Board row of the piece's top edge",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"maximum":     engine.BoardSize - 1,
					"description": "Board column of the piece's left edge",
				},
			},
			Required: []string{"slot", "row", "col"},
		},
	}, s.handlePlace)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "blast_undo",
		Description: "Revert the last placement. The tray keeps its current pieces",
		InputSchema: noArgs(),
	}, s.handleUndo)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "blast_hint",
		Description: "Find the first legal move, scanning slots, then rows, then columns",
		InputSchema: noArgs(),
	}, s.handleHint)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "blast_new_game",
		Description: "Start a new game. The best score is kept",
		InputSchema: noArgs(),
	}, s.handleNewGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "blast_shapes",
		Description: "List every piece shape with its ID, cells and draw probability",
		InputSchema: noArgs(),
	}, s.handleShapes)
}

func (s *Server) handleState(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reply, err := s.sess.Do(ctx, session.CmdState{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(FormatView(reply.View)), nil
}

func (s *Server) handlePlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	var cmd session.CmdPlace
	var err error
	if cmd.Slot, err = intArg(args, "slot"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if cmd.Row, err = intArg(args, "row"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if cmd.Col, err = intArg(args, "col"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	reply, err := s.sess.Do(ctx, cmd)
	if errors.Is(err, engine.ErrInvalidPlacement) {
		return mcp.NewToolResultError(fmt.Sprintf("%v\n\n%s", err, FormatView(reply.View))), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(FormatPlacement(*reply.Result) + "\n\n" + FormatView(reply.View)), nil
}

func (s *Server) handleUndo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reply, err := s.sess.Do(ctx, session.CmdUndo{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg := "Undone."
	if !reply.Undone {
		msg = "Nothing to undo."
	}
	return mcp.NewToolResultText(msg + "\n\n" + FormatView(reply.View)), nil
}

func (s *Server) handleHint(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reply, err := s.sess.Do(ctx, session.CmdHint{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if reply.Hint == nil {
		return mcp.NewToolResultText("No legal move. The game is over."), nil
	}
	mv := reply.Hint
	return mcp.NewToolResultText(fmt.Sprintf("Slot %d (%s) fits at row %d, col %d.",
		mv.Slot, mv.Shape, mv.Row, mv.Col)), nil
}

func (s *Server) handleNewGame(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reply, err := s.sess.Do(ctx, session.CmdNewGame{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("New game started.\n\n" + FormatView(reply.View)), nil
}

func (s *Server) handleShapes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatCatalog(s.weightCap)), nil
}

// intArg reads a whole number argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, name string) (int, error) {
	v, ok := args[name]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", name)
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("argument %q must be a whole number, got %v", name, n)
		}
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("argument %q must be a number, got %T", name, v)
	}
}
