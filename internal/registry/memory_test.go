package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playmesh/tictactoe-chain/internal/apperror"
	"github.com/playmesh/tictactoe-chain/internal/entity"
)

func TestMemoryRegistry_Create(t *testing.T) {
	ctx := context.Background()
	games := NewMemoryRegistry("chain-a")

	// Given: two games created in sequence
	first, err := games.Create(ctx, entity.NewGame(0, "", "alice"))
	require.NoError(t, err)
	second, err := games.Create(ctx, entity.NewGame(0, "", "bob"))
	require.NoError(t, err)

	// Then: identifiers are monotonic starting at 0 and stamped with the chain
	assert.Equal(t, uint64(0), first)
	assert.Equal(t, uint64(1), second)

	stored, err := games.Get(ctx, "chain-a", first)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.PlayerX)
	assert.Equal(t, "chain-a", stored.ChainID)
}

func TestMemoryRegistry_Get(t *testing.T) {
	t.Run("Returns ErrGameNotFound for an absent id", func(t *testing.T) {
		ctx := context.Background()
		games := NewMemoryRegistry("chain-a")

		_, err := games.Get(ctx, "chain-a", 42)

		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Returns a snapshot detached from the stored game", func(t *testing.T) {
		// Given: a stored game
		ctx := context.Background()
		games := NewMemoryRegistry("chain-a")
		_, err := games.Create(ctx, entity.NewGame(0, "", "alice"))
		require.NoError(t, err)

		// When: a loaded copy is mutated without Put
		loaded, err := games.Get(ctx, "chain-a", 0)
		require.NoError(t, err)
		require.NoError(t, loaded.Join("bob"))

		// Then: the stored game is unchanged
		stored, err := games.Get(ctx, "chain-a", 0)
		require.NoError(t, err)
		assert.True(t, stored.IsWaiting())
		assert.Empty(t, stored.PlayerO)
	})
}

func TestMemoryRegistry_List(t *testing.T) {
	ctx := context.Background()
	games := NewMemoryRegistry("chain-a")

	// Given: three local games and one remote projection
	for _, creator := range []string{"alice", "bob", "carol"} {
		_, err := games.Create(ctx, entity.NewGame(0, "", creator))
		require.NoError(t, err)
	}
	require.NoError(t, games.Put(ctx, entity.NewGame(7, "chain-b", "dave")))

	// When: listing all games
	all, err := games.List(ctx)
	require.NoError(t, err)

	// Then: games come back ordered by ascending identifier
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].ID, all[i].ID)
	}
	assert.Equal(t, uint64(7), all[3].ID)
	assert.Equal(t, "chain-b", all[3].ChainID)
}

func TestMemoryRegistry_ListForPlayer(t *testing.T) {
	ctx := context.Background()
	games := NewMemoryRegistry("chain-a")

	// Given: alice created one game and joined another
	_, err := games.Create(ctx, entity.NewGame(0, "", "alice"))
	require.NoError(t, err)

	joined := entity.NewGame(0, "", "bob")
	_, err = games.Create(ctx, joined)
	require.NoError(t, err)
	require.NoError(t, joined.Join("alice"))
	require.NoError(t, games.Put(ctx, joined))

	_, err = games.Create(ctx, entity.NewGame(0, "", "carol"))
	require.NoError(t, err)

	// When: listing alice's games
	mine, err := games.ListForPlayer(ctx, "alice")
	require.NoError(t, err)

	// Then: both participations are returned, none of carol's
	require.Len(t, mine, 2)
	assert.Equal(t, uint64(0), mine[0].ID)
	assert.Equal(t, uint64(1), mine[1].ID)
}
