package session

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Barkoczy/discord-minesweeper/game/engine"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoSession = errors.New("no active game for player")
	ErrOwnership = errors.New("game belongs to another player")
)

// BoardFactory builds the board for a new game.
type BoardFactory func(size, mines int) (*engine.Board, error)

// Manager is the session registry. It maps each player to at most one live
// session.
type Manager struct {
	sessions map[PlayerID]*Session
	mu       sync.Mutex

	size     int
	mines    int
	newBoard BoardFactory
	now      func() time.Time
	log      logrus.FieldLogger
}

// Option configures a Manager
type Option func(*Manager)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithBoardFactory replaces random board generation.
func WithBoardFactory(factory BoardFactory) Option {
	return func(m *Manager) {
		m.newBoard = factory
	}
}

// WithRandSource uses src for mine placement instead of a time-seeded source.
func WithRandSource(src rand.Source) Option {
	return func(m *Manager) {
		m.newBoard = randomBoards(rand.New(src))
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates a registry whose games use the given board dimensions.
// It fails with engine.ErrInvalidConfig if no valid board can be built from them.
func NewManager(size, mines int, opts ...Option) (*Manager, error) {
	if err := engine.ValidateConfig(size, mines); err != nil {
		return nil, err
	}

	m := &Manager{
		sessions: make(map[PlayerID]*Session),
		size:     size,
		mines:    mines,
		newBoard: randomBoards(rand.New(rand.NewSource(time.Now().UnixNano()))),
		now:      time.Now,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// randomBoards serializes access to rng, which is not safe for concurrent use.
func randomBoards(rng *rand.Rand) BoardFactory {
	var mu sync.Mutex
	return func(size, mines int) (*engine.Board, error) {
		mu.Lock()
		defer mu.Unlock()
		return engine.Generate(size, mines, rng)
	}
}

// StartGame creates a fresh game for player, discarding any previous one.
func (m *Manager) StartGame(player PlayerID) (Handle, error) {
	board, err := m.newBoard(m.size, m.mines)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to create board: %w", err)
	}

	s := newSession(uuid.NewString(), player, board, m.now)

	m.mu.Lock()
	_, replaced := m.sessions[player]
	m.sessions[player] = s
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{
		"player":   player,
		"game":     s.id,
		"replaced": replaced,
	}).Debug("game started")

	return Handle{Player: player, GameID: s.id}, nil
}

// RevealFor reveals x,y in player's current game on behalf of requester.
func (m *Manager) RevealFor(player, requester PlayerID, x, y int) (Result, error) {
	return m.reveal(player, requester, "", x, y)
}

// RevealGame is RevealFor restricted to the game identified by h. A handle
// of a game that has been replaced, finished or evicted yields ErrNoSession.
func (m *Manager) RevealGame(h Handle, requester PlayerID, x, y int) (Result, error) {
	return m.reveal(h.Player, requester, h.GameID, x, y)
}

func (m *Manager) reveal(player, requester PlayerID, gameID string, x, y int) (Result, error) {
	if requester != player {
		return Result{}, ErrOwnership
	}

	s, ok := m.lookup(player)
	if !ok || (gameID != "" && s.id != gameID) {
		return Result{}, ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The entry may have been replaced, finished or evicted while we waited.
	if !m.isCurrent(player, s) {
		return Result{}, ErrNoSession
	}

	outcome := s.reveal(x, y)
	if outcome.Terminal() {
		m.removeIfCurrent(player, s)
		m.log.WithFields(logrus.Fields{
			"player":  player,
			"game":    s.id,
			"outcome": outcome,
		}).Debug("game finished")
	}

	return Result{
		GameID:  s.id,
		Outcome: outcome,
		Board:   s.board.Snapshot(),
	}, nil
}

// Get returns a copy of player's current session
func (m *Manager) Get(player PlayerID) (Info, error) {
	s, ok := m.lookup(player)
	if !ok {
		return Info{}, ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info(), nil
}

// List returns copies of all registered sessions
func (m *Manager) List() []Info {
	sessions := m.entries()

	result := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		s.mu.Lock()
		result = append(result, s.info())
		s.mu.Unlock()
	}

	return result
}

// Delete removes player's session
func (m *Manager) Delete(player PlayerID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[player]; !exists {
		return ErrNoSession
	}
	delete(m.sessions, player)
	return nil
}

// SweepIdle removes every session whose last activity is older than timeout,
// finished or not, and returns how many were removed.
func (m *Manager) SweepIdle(timeout time.Duration) int {
	cutoff := m.now().Add(-timeout)
	removed := 0

	for _, s := range m.entries() {
		s.mu.Lock()
		if s.idleSince(cutoff) && m.removeIfCurrent(s.owner, s) {
			removed++
		}
		s.mu.Unlock()
	}

	return removed
}

// Count returns the number of registered sessions
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// BoardSize returns the side length used for new games
func (m *Manager) BoardSize() int {
	return m.size
}

// MineCount returns the number of mines used for new games
func (m *Manager) MineCount() int {
	return m.mines
}

func (m *Manager) lookup(player PlayerID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[player]
	return s, ok
}

func (m *Manager) entries() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

func (m *Manager) isCurrent(player PlayerID, s *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[player] == s
}

// removeIfCurrent deletes player's entry only if it still points at s.
func (m *Manager) removeIfCurrent(player PlayerID, s *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessions[player] != s {
		return false
	}
	delete(m.sessions, player)
	return true
}
