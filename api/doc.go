// Package api provides the HTTP REST API for the minesweeper game.
//
// Endpoints:
//
// Games:
//   - POST /api/games - Start a game, body {"player_id": "alice"}; replaces any game in progress
//   - GET /api/games - List games in progress
//   - GET /api/games/{player} - Get a player's game
//   - DELETE /api/games/{player} - Abandon a player's game
//   - POST /api/games/{player}/reveal - Reveal a cell, body {"x": 1, "y": 2, "game_id": "...", "requester_id": "..."}
//
// Misc:
//   - GET /api/settings - Board size and mine count of new games
//   - GET /api/health - Liveness probe
//   - GET /ws?player={player} - Live board updates (see package websocket)
//
// Errors are returned as {"error": "..."} with 400 for malformed requests,
// 403 when the requester does not own the game, 404 when there is no game
// (including games that were finished, replaced or evicted) and 500 otherwise.
//
// A rejected reveal (out of bounds or already revealed) is not an error: it
// returns 200 with "outcome": "rejected" and the unchanged board.
//
// Usage:
//
//	server := api.NewServer(gameService, hub, logger)
//	http.ListenAndServe(":8080", server)
package api
