// Package service provides the business logic layer for the minesweeper game.
//
// GameService is what every transport talks to: the REST API, the MCP tools
// and the Discord bot. It turns registry results into transport-friendly DTOs
// with the player-facing message for each outcome, and validates requests
// before they reach the registry.
//
// Usage:
//
//	manager, _ := session.NewManager(5, 5)
//	games := service.NewGameService(manager)
//
//	game, err := games.StartGame(ctx, "alice")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := games.Reveal(ctx, service.RevealRequest{
//		Player: "alice",
//		GameID: game.GameID,
//		X:      2,
//		Y:      3,
//	})
//
// Errors from the registry (session.ErrNoSession, session.ErrOwnership) are
// wrapped, so callers test them with errors.Is.
package service
