// Package mcp exposes the minesweeper game to MCP clients.
//
// The Client is a thin proxy: every tool call is turned into a REST request
// against a running API server, so games started over MCP are the same games
// the REST API, websocket watchers and the Discord bot see.
//
// Tools:
//   - start_game: start (or restart) a game for a player
//   - reveal_cell: reveal the cell at x,y; optional game_id pins the game
//   - game_state: show a player's board
//   - list_games: list games in progress
//   - end_game: abandon a player's game
//   - game_instructions: rules and board legend
//
// Boards are rendered as text, one row per line:
//
//	   0 1 2
//	0: - - 1
//	1: . 1 -
//	2: . 1 -
//
// with "-" hidden, "." empty, "*" mine and digits for adjacent mine counts.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// stdio
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP
//	mux.Handle("/mcp", client.HTTPHandler())
package mcp
