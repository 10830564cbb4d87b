package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Barkoczy/discord-minesweeper/game/engine"
	"github.com/Barkoczy/discord-minesweeper/game/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Minesweeper",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Minesweeper - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Reveal every cell that is not a mine. Revealing a mine loses the game.

AVAILABLE TOOLS:
- start_game: Start a new game for a player (replaces any game in progress)
- reveal_cell: Reveal the cell at x,y
- game_state: Show the board of a player's game
- list_games: List games in progress
- end_game: Abandon a player's game
- game_instructions: Rules and board legend`),
	)

	c.registerTools()
}

func playerProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Player ID owning the game",
	}
}

func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start a new minesweeper game for a player, replacing any game in progress",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_id": playerProperty(),
			},
			Required: []string{"player_id"},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reveal_cell",
		Description: "Reveal a cell. Empty cells uncover their whole empty region",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_id": playerProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column), 0-based",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row), 0-based",
				},
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Only reveal if this is still the player's current game (optional)",
				},
			},
			Required: []string{"player_id", "x", "y"},
		},
	}, c.handleRevealCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show the board of a player's game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_id": playerProperty(),
			},
			Required: []string{"player_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all games in progress",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_game",
		Description: "Abandon a player's game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"player_id": playerProperty(),
			},
			Required: []string{"player_id"},
		},
	}, c.handleEndGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the game and the board legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// HTTPHandler serves single JSON-RPC messages over HTTP POST
func (c *Client) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	})
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

// intArg accepts JSON numbers and numeric strings
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func playerPath(player string) string {
	return "/api/games/" + url.PathEscape(player)
}

// Tool handlers

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	player, _ := arguments(request)["player_id"].(string)
	if player == "" {
		return mcp.NewToolResultError("player_id is required"), nil
	}

	var game service.GameInfo
	err := c.apiCall(ctx, "POST", "/api/games", map[string]string{"player_id": player}, &game)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Started game %s for %s (%dx%d, %d mines)\n%s\n\n%s",
		game.GameID, game.Player, game.Board.Size, game.Board.Size, game.Board.Mines,
		game.Message, game.Board.String())
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleRevealCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	player, _ := args["player_id"].(string)
	gameID, _ := args["game_id"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")

	if player == "" {
		return mcp.NewToolResultError("player_id is required"), nil
	}
	if !okX || !okY {
		return mcp.NewToolResultError("x and y must be integers"), nil
	}

	body := map[string]interface{}{"x": x, "y": y}
	if gameID != "" {
		body["game_id"] = gameID
	}

	var result service.RevealResult
	err := c.apiCall(ctx, "POST", playerPath(player)+"/reveal", body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRevealResult(x, y, &result)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	player, _ := arguments(request)["player_id"].(string)
	if player == "" {
		return mcp.NewToolResultError("player_id is required"), nil
	}

	var game service.GameInfo
	err := c.apiCall(ctx, "GET", playerPath(player), nil, &game)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGame(&game)), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Count int                 `json:"count"`
		Games []*service.GameInfo `json:"games"`
	}
	err := c.apiCall(ctx, "GET", "/api/games", nil, &resp)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(resp.Games) == 0 {
		return mcp.NewToolResultText("No games in progress"), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Games in progress: %d\n", len(resp.Games))
	for _, game := range resp.Games {
		fmt.Fprintf(&sb, "- %s: game %s, %d/%d safe cells revealed, last move %s\n",
			game.Player, game.GameID, game.Board.Revealed(), safeCells(game.Board),
			game.LastActivity.Format(time.RFC3339))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleEndGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	player, _ := arguments(request)["player_id"].(string)
	if player == "" {
		return mcp.NewToolResultError("player_id is required"), nil
	}

	if err := c.apiCall(ctx, "DELETE", playerPath(player), nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Game of %s ended", player)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Minesweeper - Instructions

GAME OBJECTIVE:
Reveal every cell that does not hide a mine.

RULES:
• The board is square. Coordinates are 0-based: x is the column, y the row.
• Revealing a mine loses the game immediately.
• A revealed number tells how many of the 8 surrounding cells are mines.
• Revealing a cell with no adjacent mines also reveals its neighbours,
  spreading through the whole empty region and its numbered border.
• Revealing a cell that is already revealed or outside the board does nothing.
• A finished game is removed. Call start_game to play again.
• Games without a move for a while are removed as well.

BOARD LEGEND:
• - Hidden cell
• . Revealed empty cell (no adjacent mines)
• 1-8 Number of adjacent mines
• * Mine (only shown after a loss)

STRATEGY:
• Start near the middle: corners have fewer neighbours and rarely cascade.
• A number equal to its count of hidden neighbours means all of them are mines.
• A number whose mines are all accounted for means its other neighbours are safe.`

	return mcp.NewToolResultText(instructions), nil
}

func safeCells(b engine.Snapshot) int {
	return b.Size*b.Size - b.Mines
}

func formatGame(game *service.GameInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Player: %s\n", game.Player)
	fmt.Fprintf(&sb, "Game: %s\n", game.GameID)
	fmt.Fprintf(&sb, "State: %s\n", game.State)
	fmt.Fprintf(&sb, "Revealed: %d/%d safe cells\n", game.Board.Revealed(), safeCells(game.Board))
	fmt.Fprintf(&sb, "Message: %s\n\n", game.Message)
	sb.WriteString(game.Board.String())
	return sb.String()
}

func formatRevealResult(x, y int, result *service.RevealResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Reveal (%d,%d): %s\n", x, y, result.Outcome)
	fmt.Fprintf(&sb, "%s\n", result.Message)
	if result.GameOver {
		sb.WriteString("The game is over. Use start_game to play again.\n")
	}
	sb.WriteString("\n")
	sb.WriteString(result.Board.String())
	return sb.String()
}
