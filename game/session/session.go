package session

import (
	"sync"
	"time"

	"github.com/Barkoczy/discord-minesweeper/game/engine"
)

// PlayerID identifies a player. It is opaque to the registry.
type PlayerID string

// State is the lifecycle state of a game session.
type State string

const (
	StateActive State = "active"
	StateWon    State = "won"
	StateLost   State = "lost"
)

// Session is one player's game. All methods are safe for concurrent use.
type Session struct {
	mu           sync.Mutex
	id           string
	owner        PlayerID
	board        *engine.Board
	createdAt    time.Time
	lastActivity time.Time
	now          func() time.Time
}

func newSession(id string, owner PlayerID, board *engine.Board, now func() time.Time) *Session {
	created := now()
	return &Session{
		id:           id,
		owner:        owner,
		board:        board,
		createdAt:    created,
		lastActivity: created,
		now:          now,
	}
}

// ID returns the unique game id
func (s *Session) ID() string {
	return s.id
}

// Owner returns the player the game belongs to
func (s *Session) Owner() PlayerID {
	return s.owner
}

// RevealCell reveals x,y on the board.
func (s *Session) RevealCell(x, y int) engine.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reveal(x, y)
}

// reveal requires s.mu. Activity is refreshed once per accepted move; cells
// uncovered by the cascade do not count as separate activity.
func (s *Session) reveal(x, y int) engine.Outcome {
	outcome := s.board.Reveal(x, y)
	if outcome != engine.Rejected {
		s.lastActivity = s.now()
	}
	return outcome
}

// State returns the lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() State {
	switch {
	case s.board.IsVictory():
		return StateWon
	case s.board.IsGameOver():
		return StateLost
	default:
		return StateActive
	}
}

// LastActivity returns the time of the last accepted reveal, or the creation
// time if there was none.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Snapshot returns the renderable board
func (s *Session) Snapshot() engine.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Snapshot()
}

// info requires s.mu.
func (s *Session) info() Info {
	return Info{
		Player:       s.owner,
		GameID:       s.id,
		State:        s.state(),
		CreatedAt:    s.createdAt,
		LastActivity: s.lastActivity,
		Board:        s.board.Snapshot(),
	}
}

// idleSince requires s.mu.
func (s *Session) idleSince(cutoff time.Time) bool {
	return s.lastActivity.Before(cutoff)
}
