package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Barkoczy/discord-minesweeper/game/engine"
	"github.com/Barkoczy/discord-minesweeper/game/service"
	"github.com/Barkoczy/discord-minesweeper/game/session"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService uses a 3x3 board with a single mine in the bottom-right
// corner: revealing (0,0) wins, (2,2) loses, (1,1) shows a 1.
func newTestService(t *testing.T) service.GameService {
	t.Helper()
	logger, _ := test.NewNullLogger()
	manager, err := session.NewManager(3, 1,
		session.WithLogger(logger),
		session.WithBoardFactory(func(size, _ int) (*engine.Board, error) {
			return engine.NewBoardWithMines(size, []int{8})
		}),
	)
	require.NoError(t, err)
	return service.NewGameService(manager)
}

// failingSessions is a SessionManager whose StartGame always fails
type failingSessions struct {
	service.SessionManager
}

func (failingSessions) StartGame(session.PlayerID) (session.Handle, error) {
	return session.Handle{}, errors.New("board factory exploded")
}

func TestGameService_StartGame(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh game", func(t *testing.T) {
		svc := newTestService(t)

		game, err := svc.StartGame(ctx, "alice")
		require.NoError(t, err)

		assert.Equal(t, "alice", game.Player)
		assert.NotEmpty(t, game.GameID)
		assert.Equal(t, session.StateActive, game.State)
		assert.Equal(t, service.MessagePlaying, game.Message)
		assert.Zero(t, game.Board.Revealed())
		assert.Equal(t, 3, game.Board.Size)
	})

	t.Run("empty player", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.StartGame(ctx, "")
		assert.ErrorIs(t, err, service.ErrInvalidPlayer)
	})

	t.Run("registry failure", func(t *testing.T) {
		svc := service.NewGameService(failingSessions{})
		_, err := svc.StartGame(ctx, "alice")
		assert.ErrorContains(t, err, "failed to start game")
	})

	t.Run("cancelled context", func(t *testing.T) {
		svc := newTestService(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := svc.StartGame(cancelled, "alice")
		assert.ErrorIs(t, err, context.Canceled)

		_, err = svc.GetGame(ctx, "alice")
		assert.ErrorIs(t, err, session.ErrNoSession)
	})
}

func TestGameService_Reveal(t *testing.T) {
	ctx := context.Background()

	t.Run("continue", func(t *testing.T) {
		svc := newTestService(t)
		game, err := svc.StartGame(ctx, "alice")
		require.NoError(t, err)

		result, err := svc.Reveal(ctx, service.RevealRequest{Player: "alice", GameID: game.GameID, X: 1, Y: 1})
		require.NoError(t, err)

		assert.Equal(t, engine.Continue, result.Outcome)
		assert.Equal(t, service.MessagePlaying, result.Message)
		assert.False(t, result.GameOver)
		assert.Equal(t, engine.CellView{State: engine.StateCount, Count: 1}, result.Board.At(1, 1))
	})

	t.Run("win", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.StartGame(ctx, "alice")
		require.NoError(t, err)

		result, err := svc.Reveal(ctx, service.RevealRequest{Player: "alice", X: 0, Y: 0})
		require.NoError(t, err)

		assert.Equal(t, engine.Win, result.Outcome)
		assert.True(t, result.GameOver)
		assert.True(t, result.Won)
		assert.Equal(t, service.MessageWon, result.Message)

		_, err = svc.GetGame(ctx, "alice")
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("loss", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.StartGame(ctx, "alice")
		require.NoError(t, err)

		result, err := svc.Reveal(ctx, service.RevealRequest{Player: "alice", X: 2, Y: 2})
		require.NoError(t, err)

		assert.Equal(t, engine.Loss, result.Outcome)
		assert.True(t, result.GameOver)
		assert.False(t, result.Won)
		assert.Equal(t, service.MessageLost, result.Message)
	})

	t.Run("rejected", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.StartGame(ctx, "alice")
		require.NoError(t, err)

		result, err := svc.Reveal(ctx, service.RevealRequest{Player: "alice", X: 9, Y: 9})
		require.NoError(t, err)
		assert.Equal(t, engine.Rejected, result.Outcome)
		assert.Equal(t, service.MessageRejected, result.Message)
	})

	t.Run("someone else's game", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.StartGame(ctx, "alice")
		require.NoError(t, err)

		_, err = svc.Reveal(ctx, service.RevealRequest{Player: "alice", Requester: "bob", X: 0, Y: 0})
		assert.ErrorIs(t, err, session.ErrOwnership)

		game, err := svc.GetGame(ctx, "alice")
		require.NoError(t, err)
		assert.Zero(t, game.Board.Revealed())
	})

	t.Run("stale game id", func(t *testing.T) {
		svc := newTestService(t)
		old, err := svc.StartGame(ctx, "alice")
		require.NoError(t, err)
		_, err = svc.StartGame(ctx, "alice")
		require.NoError(t, err)

		_, err = svc.Reveal(ctx, service.RevealRequest{Player: "alice", GameID: old.GameID, X: 0, Y: 0})
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("no game", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.Reveal(ctx, service.RevealRequest{Player: "alice"})
		assert.ErrorIs(t, err, session.ErrNoSession)

		_, err = svc.Reveal(ctx, service.RevealRequest{})
		assert.ErrorIs(t, err, service.ErrInvalidPlayer)
	})
}

func TestGameService_ListAndEnd(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, p := range []string{"carol", "alice", "bob"} {
		_, err := svc.StartGame(ctx, p)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	games, err := svc.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, "carol", games[0].Player, "oldest first")

	require.NoError(t, svc.EndGame(ctx, "carol"))
	assert.ErrorIs(t, svc.EndGame(ctx, "carol"), session.ErrNoSession)

	games, err = svc.ListGames(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 2)
}

func TestGameService_Settings(t *testing.T) {
	svc := newTestService(t)
	assert.Equal(t, service.GameSettings{BoardSize: 3, Mines: 1}, svc.Settings())
}

func TestOutcomeMessage(t *testing.T) {
	assert.Equal(t, service.MessagePlaying, service.OutcomeMessage(engine.Continue))
	assert.Equal(t, service.MessageLost, service.OutcomeMessage(engine.Loss))
	assert.Equal(t, service.MessageWon, service.OutcomeMessage(engine.Win))
	assert.Equal(t, service.MessageRejected, service.OutcomeMessage(engine.Rejected))
}
