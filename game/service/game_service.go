package service

import (
	"context"

	"github.com/Barkoczy/discord-minesweeper/game/session"
)

// GameService defines all game-related operations
type GameService interface {
	StartGame(ctx context.Context, player string) (*GameInfo, error)
	Reveal(ctx context.Context, req RevealRequest) (*RevealResult, error)
	GetGame(ctx context.Context, player string) (*GameInfo, error)
	ListGames(ctx context.Context) ([]*GameInfo, error)
	EndGame(ctx context.Context, player string) error
	Settings() GameSettings
}

// SessionManager is the registry the service drives. *session.Manager
// implements it.
type SessionManager interface {
	StartGame(player session.PlayerID) (session.Handle, error)
	RevealFor(player, requester session.PlayerID, x, y int) (session.Result, error)
	RevealGame(h session.Handle, requester session.PlayerID, x, y int) (session.Result, error)
	Get(player session.PlayerID) (session.Info, error)
	List() []session.Info
	Delete(player session.PlayerID) error
	BoardSize() int
	MineCount() int
}

var _ SessionManager = (*session.Manager)(nil)
