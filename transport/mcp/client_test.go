package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Barkoczy/discord-minesweeper/api"
	"github.com/Barkoczy/discord-minesweeper/game/engine"
	"github.com/Barkoczy/discord-minesweeper/game/service"
	"github.com/Barkoczy/discord-minesweeper/game/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient runs a real API server over 3x3 boards with a mine in the
// bottom-right corner.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	logger, _ := test.NewNullLogger()
	manager, err := session.NewManager(3, 1,
		session.WithLogger(logger),
		session.WithBoardFactory(func(size, _ int) (*engine.Board, error) {
			return engine.NewBoardWithMines(size, []int{8})
		}),
	)
	require.NoError(t, err)

	server := httptest.NewServer(api.NewServer(service.NewGameService(manager), nil, logger))
	t.Cleanup(server.Close)

	return NewClient(server.URL)
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, result.IsError
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.GetMCPServer())
}

func TestClient_GameFlow(t *testing.T) {
	client := newTestClient(t)

	text, isErr := call(t, client.handleStartGame, map[string]interface{}{"player_id": "alice"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Started game")
	assert.Contains(t, text, "3x3, 1 mines")
	assert.Contains(t, text, "0: - - - \n")

	text, isErr = call(t, client.handleRevealCell, map[string]interface{}{"player_id": "alice", "x": float64(1), "y": float64(1)})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Reveal (1,1): continue")
	assert.Contains(t, text, "1: - 1 - \n")

	text, isErr = call(t, client.handleGameState, map[string]interface{}{"player_id": "alice"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "State: active")
	assert.Contains(t, text, "Revealed: 1/8 safe cells")

	text, isErr = call(t, client.handleListGames, map[string]interface{}{})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Games in progress: 1")
	assert.Contains(t, text, "- alice: game")

	text, isErr = call(t, client.handleRevealCell, map[string]interface{}{"player_id": "alice", "x": "0", "y": "0"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Reveal (0,0): win")
	assert.Contains(t, text, service.MessageWon)
	assert.Contains(t, text, "The game is over")

	text, isErr = call(t, client.handleGameState, map[string]interface{}{"player_id": "alice"})
	assert.True(t, isErr)
	assert.Contains(t, text, session.ErrNoSession.Error())

	text, _ = call(t, client.handleListGames, map[string]interface{}{})
	assert.Equal(t, "No games in progress", text)
}

func TestClient_EndGame(t *testing.T) {
	client := newTestClient(t)

	_, isErr := call(t, client.handleStartGame, map[string]interface{}{"player_id": "bob"})
	require.False(t, isErr)

	text, isErr := call(t, client.handleEndGame, map[string]interface{}{"player_id": "bob"})
	require.False(t, isErr, text)
	assert.Equal(t, "Game of bob ended", text)

	_, isErr = call(t, client.handleEndGame, map[string]interface{}{"player_id": "bob"})
	assert.True(t, isErr)
}

func TestClient_InvalidArguments(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]interface{}
		want    string
	}{
		{"start without player", client.handleStartGame, map[string]interface{}{}, "player_id is required"},
		{"reveal without player", client.handleRevealCell, map[string]interface{}{"x": 1.0, "y": 1.0}, "player_id is required"},
		{"reveal with fractional x", client.handleRevealCell, map[string]interface{}{"player_id": "a", "x": 1.5, "y": 1.0}, "x and y must be integers"},
		{"reveal without y", client.handleRevealCell, map[string]interface{}{"player_id": "a", "x": 1.0}, "x and y must be integers"},
		{"state without player", client.handleGameState, map[string]interface{}{}, "player_id is required"},
		{"end without player", client.handleEndGame, map[string]interface{}{}, "player_id is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, tt.handler, tt.args)
			assert.True(t, isErr)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestClient_APIUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	text, isErr := call(t, client.handleGameState, map[string]interface{}{"player_id": "alice"})
	assert.True(t, isErr)
	assert.Equal(t, "API error: 502", text)
}

func TestClient_GameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	text, isErr := call(t, client.handleGameInstructions, map[string]interface{}{})
	require.False(t, isErr)

	for _, content := range []string{"GAME OBJECTIVE", "RULES", "BOARD LEGEND", "Hidden cell", "Mine"} {
		assert.Contains(t, text, content)
	}
}

func TestClient_HTTPHandler(t *testing.T) {
	handler := NewClient("http://localhost:8080").HTTPHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/mcp", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/mcp", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"id":1`)
}

func TestIntArg(t *testing.T) {
	args := map[string]interface{}{"f": 3.0, "i": 4, "s": " 5 ", "bad": "x", "frac": 2.5}

	for key, want := range map[string]int{"f": 3, "i": 4, "s": 5} {
		got, ok := intArg(args, key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	for _, key := range []string{"bad", "frac", "missing"} {
		_, ok := intArg(args, key)
		assert.False(t, ok, key)
	}
}
