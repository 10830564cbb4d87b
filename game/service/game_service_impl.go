package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Barkoczy/discord-minesweeper/game/session"
)

var ErrInvalidPlayer = errors.New("player id is required")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager) GameService {
	return &gameServiceImpl{sessions: sessions}
}

// StartGame starts a new game for player, replacing any game in progress
func (s *gameServiceImpl) StartGame(ctx context.Context, player string) (*GameInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if player == "" {
		return nil, ErrInvalidPlayer
	}

	handle, err := s.sessions.StartGame(session.PlayerID(player))
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	info, err := s.sessions.Get(handle.Player)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", handle.GameID, err)
	}
	if info.GameID != handle.GameID {
		// Replaced by a concurrent start for the same player.
		return nil, fmt.Errorf("failed to load game %s: %w", handle.GameID, session.ErrNoSession)
	}

	return toGameInfo(info), nil
}

// Reveal reveals one cell
func (s *gameServiceImpl) Reveal(ctx context.Context, req RevealRequest) (*RevealResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Player == "" {
		return nil, ErrInvalidPlayer
	}

	requester := req.Requester
	if requester == "" {
		requester = req.Player
	}

	var (
		result session.Result
		err    error
	)
	if req.GameID != "" {
		handle := session.Handle{Player: session.PlayerID(req.Player), GameID: req.GameID}
		result, err = s.sessions.RevealGame(handle, session.PlayerID(requester), req.X, req.Y)
	} else {
		result, err = s.sessions.RevealFor(session.PlayerID(req.Player), session.PlayerID(requester), req.X, req.Y)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reveal (%d,%d): %w", req.X, req.Y, err)
	}

	return toRevealResult(req.Player, result), nil
}

// GetGame returns player's current game
func (s *gameServiceImpl) GetGame(ctx context.Context, player string) (*GameInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := s.sessions.Get(session.PlayerID(player))
	if err != nil {
		return nil, fmt.Errorf("failed to get game for %s: %w", player, err)
	}
	return toGameInfo(info), nil
}

// ListGames returns every game in progress, oldest first
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]*GameInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos := s.sessions.List()
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].CreatedAt.Before(infos[j].CreatedAt)
		}
		return infos[i].Player < infos[j].Player
	})

	games := make([]*GameInfo, 0, len(infos))
	for _, info := range infos {
		games = append(games, toGameInfo(info))
	}
	return games, nil
}

// EndGame abandons player's game
func (s *gameServiceImpl) EndGame(ctx context.Context, player string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.sessions.Delete(session.PlayerID(player)); err != nil {
		return fmt.Errorf("failed to end game for %s: %w", player, err)
	}
	return nil
}

// Settings returns the dimensions of new boards
func (s *gameServiceImpl) Settings() GameSettings {
	return GameSettings{
		BoardSize: s.sessions.BoardSize(),
		Mines:     s.sessions.MineCount(),
	}
}
