package service

import (
	"time"

	"github.com/Barkoczy/discord-minesweeper/game/engine"
	"github.com/Barkoczy/discord-minesweeper/game/session"
)

// Player-facing messages
const (
	MessagePlaying  = "Click on the buttons to reveal the blocks except mines."
	MessageLost     = "You lost the game!"
	MessageWon      = "Congratulations! You won!"
	MessageRejected = "That block is already revealed or outside the board."
)

// GameInfo describes a game in progress
type GameInfo struct {
	Player       string          `json:"player_id"`
	GameID       string          `json:"game_id"`
	State        session.State   `json:"state"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActivity time.Time       `json:"last_activity"`
	Message      string          `json:"message"`
	Board        engine.Snapshot `json:"board"`
}

// RevealRequest asks to reveal X,Y in Player's game. Requester is who clicked;
// it defaults to Player. A non-empty GameID pins the request to that game.
type RevealRequest struct {
	Player    string `json:"player_id"`
	Requester string `json:"requester_id,omitempty"`
	GameID    string `json:"game_id,omitempty"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

// RevealResult contains the result of a reveal
type RevealResult struct {
	Player   string          `json:"player_id"`
	GameID   string          `json:"game_id"`
	Outcome  engine.Outcome  `json:"outcome"`
	GameOver bool            `json:"game_over"`
	Won      bool            `json:"won"`
	Message  string          `json:"message"`
	Board    engine.Snapshot `json:"board"`
}

// GameSettings are the board dimensions used for new games
type GameSettings struct {
	BoardSize int `json:"board_size"`
	Mines     int `json:"mines"`
}

// OutcomeMessage returns the text shown to a player after a reveal
func OutcomeMessage(o engine.Outcome) string {
	switch o {
	case engine.Loss:
		return MessageLost
	case engine.Win:
		return MessageWon
	case engine.Rejected:
		return MessageRejected
	default:
		return MessagePlaying
	}
}

func stateMessage(s session.State) string {
	switch s {
	case session.StateLost:
		return MessageLost
	case session.StateWon:
		return MessageWon
	default:
		return MessagePlaying
	}
}

func toGameInfo(info session.Info) *GameInfo {
	return &GameInfo{
		Player:       string(info.Player),
		GameID:       info.GameID,
		State:        info.State,
		CreatedAt:    info.CreatedAt,
		LastActivity: info.LastActivity,
		Message:      stateMessage(info.State),
		Board:        info.Board,
	}
}

func toRevealResult(player string, r session.Result) *RevealResult {
	return &RevealResult{
		Player:   player,
		GameID:   r.GameID,
		Outcome:  r.Outcome,
		GameOver: r.Board.GameOver,
		Won:      r.Board.Victory,
		Message:  OutcomeMessage(r.Outcome),
		Board:    r.Board,
	}
}
