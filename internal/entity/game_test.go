package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmesh/tictactoe-chain/internal/apperror"
)

func TestNewGame(t *testing.T) {
	// Given: a fresh game created by alice
	game := NewGame(0, "chain-a", "alice")

	// Then: it waits for a second player with X to move first
	assert.Equal(t, uint64(0), game.ID)
	assert.Equal(t, "chain-a", game.ChainID)
	assert.Equal(t, "alice", game.PlayerX)
	assert.Empty(t, game.PlayerO)
	assert.Equal(t, MarkX, game.Turn)
	assert.Equal(t, StatusWaiting, game.Status)
	assert.True(t, game.IsWaiting())
}

func TestGame_Join(t *testing.T) {
	t.Run("Admits a second player and starts the game", func(t *testing.T) {
		// Given: a waiting game created by alice
		game := NewGame(0, "chain-a", "alice")

		// When: bob joins
		err := game.Join("bob")

		// Then: the game is ongoing with bob as O
		require.NoError(t, err)
		assert.Equal(t, "bob", game.PlayerO)
		assert.Equal(t, StatusOngoing, game.Status)
		assert.Equal(t, MarkX, game.Turn)
	})

	t.Run("Returns ErrSelfJoin when the creator joins their own game", func(t *testing.T) {
		game := NewGame(0, "chain-a", "alice")

		err := game.Join("alice")

		require.ErrorIs(t, err, apperror.ErrSelfJoin)
		assert.True(t, game.IsWaiting())
	})

	t.Run("Returns ErrGameFull when the game already started", func(t *testing.T) {
		// Given: a game that bob already joined
		game := NewGame(0, "chain-a", "alice")
		require.NoError(t, game.Join("bob"))

		// When: a third player tries to join
		err := game.Join("carol")

		// Then: it should fail and keep bob as O
		require.ErrorIs(t, err, apperror.ErrGameFull)
		assert.Equal(t, "bob", game.PlayerO)
	})
}

func TestGame_MakeMove(t *testing.T) {
	newOngoingGame := func(t *testing.T) *Game {
		t.Helper()
		game := NewGame(0, "chain-a", "alice")
		require.NoError(t, game.Join("bob"))
		return game
	}

	t.Run("Applies a move and flips the turn", func(t *testing.T) {
		// Given: an ongoing game, X to move
		game := newOngoingGame(t)

		// When: alice plays (0, 0)
		err := game.MakeMove("alice", 0, 0)

		// Then: the cell holds X and it is O's turn
		require.NoError(t, err)
		assert.Equal(t, MarkX, game.Board[0][0])
		assert.Equal(t, MarkO, game.Turn)
		assert.Equal(t, 1, game.Moves)
	})

	t.Run("Returns ErrGameNotInProgress while waiting for a player", func(t *testing.T) {
		game := NewGame(0, "chain-a", "alice")

		err := game.MakeMove("alice", 0, 0)

		require.ErrorIs(t, err, apperror.ErrGameNotInProgress)
	})

	t.Run("Returns ErrNotYourTurn for an out-of-turn move", func(t *testing.T) {
		// Given: an ongoing game, X to move
		game := newOngoingGame(t)

		// When: bob plays out of turn
		err := game.MakeMove("bob", 0, 0)

		// Then: nothing changed
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, EmptyCell, game.Board[0][0])
		assert.Equal(t, MarkX, game.Turn)
	})

	t.Run("Rejects a move to an occupied cell without flipping the turn", func(t *testing.T) {
		// Given: alice played (0, 0)
		game := newOngoingGame(t)
		require.NoError(t, game.MakeMove("alice", 0, 0))

		// When: bob plays the same cell
		err := game.MakeMove("bob", 0, 0)

		// Then: it fails and the turn stays with O
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, MarkO, game.Turn)

		// And: bob can still play a free cell
		require.NoError(t, game.MakeMove("bob", 1, 1))
		assert.Equal(t, MarkO, game.Board[1][1])
		assert.Equal(t, MarkX, game.Turn)
	})

	t.Run("Never allows two consecutive moves by the same player", func(t *testing.T) {
		game := newOngoingGame(t)
		require.NoError(t, game.MakeMove("alice", 0, 0))

		err := game.MakeMove("alice", 1, 1)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Finishes the game when a player completes a line", func(t *testing.T) {
		// Given: X about to complete the top row
		game := newOngoingGame(t)
		require.NoError(t, game.MakeMove("alice", 0, 0))
		require.NoError(t, game.MakeMove("bob", 1, 0))
		require.NoError(t, game.MakeMove("alice", 0, 1))
		require.NoError(t, game.MakeMove("bob", 1, 1))

		// When: alice plays the winning cell
		require.NoError(t, game.MakeMove("alice", 0, 2))

		// Then: the game is won by X and frozen
		assert.Equal(t, StatusWon, game.Status)
		assert.Equal(t, MarkX, game.Winner)
		assert.True(t, game.IsFinished())

		err := game.MakeMove("bob", 2, 2)
		require.ErrorIs(t, err, apperror.ErrGameNotInProgress)
	})

	t.Run("Finishes in a draw when the board fills without a line", func(t *testing.T) {
		// Given: an ongoing game played to a full board with no winner
		game := newOngoingGame(t)
		moves := []struct {
			player   string
			row, col int
		}{
			{"alice", 0, 0}, {"bob", 0, 1}, {"alice", 0, 2},
			{"bob", 1, 1}, {"alice", 1, 0}, {"bob", 2, 0},
			{"alice", 2, 1}, {"bob", 2, 2}, {"alice", 1, 2},
		}

		for _, move := range moves {
			require.NoError(t, game.MakeMove(move.player, move.row, move.col))
		}

		// Then: the game is a draw with no winner
		assert.Equal(t, StatusDraw, game.Status)
		assert.Empty(t, game.Winner)
		assert.Equal(t, 9, game.Moves)
	})
}

func TestGame_ConfirmOngoingState(t *testing.T) {
	t.Run("Returns nil when game is ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing}

		assert.NoError(t, game.ConfirmOngoingState())
	})

	t.Run("Returns ErrGameNotInProgress for waiting and finished games", func(t *testing.T) {
		for _, status := range []string{StatusWaiting, StatusWon, StatusDraw} {
			game := &Game{Status: status}

			assert.ErrorIs(t, game.ConfirmOngoingState(), apperror.ErrGameNotInProgress)
		}
	})

	t.Run("Returns error for unknown game status", func(t *testing.T) {
		game := &Game{Status: "unknown"}

		err := game.ConfirmOngoingState()

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownGameStatus)
	})
}

func TestGame_HasPlayer(t *testing.T) {
	game := NewGame(0, "chain-a", "alice")
	require.NoError(t, game.Join("bob"))

	assert.True(t, game.HasPlayer("alice"))
	assert.True(t, game.HasPlayer("bob"))
	assert.False(t, game.HasPlayer("carol"))
	assert.False(t, game.HasPlayer(""))
}
