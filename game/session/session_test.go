package session

import (
	"testing"
	"time"

	"github.com/Barkoczy/discord-minesweeper/game/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSession builds a 3x3 game with one mine in the bottom right corner:
//
//	0 0 0
//	0 1 1
//	0 1 *
func newTestSession(t *testing.T, clock *fakeClock) *Session {
	t.Helper()
	board, err := engine.NewBoardWithMines(3, []int{8})
	require.NoError(t, err)
	return newSession("game-1", "alice", board, clock.Now)
}

func TestSession_Accessors(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	assert.Equal(t, "game-1", s.ID())
	assert.Equal(t, PlayerID("alice"), s.Owner())
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, clock.Now(), s.LastActivity())

	snap := s.Snapshot()
	assert.Equal(t, 3, snap.Size)
	assert.Equal(t, 1, snap.Mines)
	assert.Zero(t, snap.Revealed())
}

func TestSession_RevealCell(t *testing.T) {
	t.Run("accepted move refreshes activity", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestSession(t, clock)
		created := s.LastActivity()

		clock.Advance(time.Minute)
		assert.Equal(t, engine.Continue, s.RevealCell(1, 1))
		assert.Equal(t, created.Add(time.Minute), s.LastActivity())
		assert.Equal(t, engine.CellView{State: engine.StateCount, Count: 1}, s.Snapshot().At(1, 1))
		assert.Equal(t, StateActive, s.State())
	})

	t.Run("rejected move leaves activity alone", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestSession(t, clock)
		require.Equal(t, engine.Continue, s.RevealCell(1, 1))
		last := s.LastActivity()

		clock.Advance(time.Minute)
		assert.Equal(t, engine.Rejected, s.RevealCell(1, 1))
		assert.Equal(t, engine.Rejected, s.RevealCell(5, 5))
		assert.Equal(t, last, s.LastActivity())
	})

	t.Run("cascade to a win", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestSession(t, clock)

		assert.Equal(t, engine.Win, s.RevealCell(0, 0))
		assert.Equal(t, StateWon, s.State())
		assert.Equal(t, 8, s.Snapshot().Revealed())
		assert.Equal(t, engine.Rejected, s.RevealCell(2, 2))
	})

	t.Run("mine loses", func(t *testing.T) {
		clock := newFakeClock()
		s := newTestSession(t, clock)

		assert.Equal(t, engine.Loss, s.RevealCell(2, 2))
		assert.Equal(t, StateLost, s.State())
		assert.Equal(t, engine.StateMine, s.Snapshot().At(2, 2).State)
		assert.Equal(t, 1, s.Snapshot().Revealed())
	})
}
