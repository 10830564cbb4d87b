package session

import (
	"time"

	"github.com/Barkoczy/discord-minesweeper/game/engine"
)

// Handle identifies one specific game of one player.
type Handle struct {
	Player PlayerID `json:"player_id"`
	GameID string   `json:"game_id"`
}

// Result is what a reveal produced. Board is the state right after the move.
type Result struct {
	GameID  string          `json:"game_id"`
	Outcome engine.Outcome  `json:"outcome"`
	Board   engine.Snapshot `json:"board"`
}

// Terminal reports whether the reveal ended the game
func (r Result) Terminal() bool {
	return r.Outcome.Terminal()
}

// Won reports whether the reveal won the game
func (r Result) Won() bool {
	return r.Outcome == engine.Win
}

// Info is a point-in-time copy of a registered session.
type Info struct {
	Player       PlayerID        `json:"player_id"`
	GameID       string          `json:"game_id"`
	State        State           `json:"state"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActivity time.Time       `json:"last_activity"`
	Board        engine.Snapshot `json:"board"`
}
