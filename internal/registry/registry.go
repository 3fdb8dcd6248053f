// Package registry owns all persisted game state: the id->game mapping,
// the monotonic identifier allocator and the derived per-player index.
package registry

import (
	"context"
	"fmt"

	"github.com/playmesh/tictactoe-chain/internal/entity"
)

type GameRegistry interface {
	// Create allocates the next identifier, stamps the game with it and
	// the registry's chain, and inserts the game.
	Create(ctx context.Context, game *entity.Game) (uint64, error)

	Get(ctx context.Context, chainID string, id uint64) (*entity.Game, error)

	// Put upserts a game under its (chain, id) key. Used for updates to
	// local games and for projections of remote ones.
	Put(ctx context.Context, game *entity.Game) error

	// List returns every known game ordered by ascending identifier.
	List(ctx context.Context) ([]*entity.Game, error)

	ListForPlayer(ctx context.Context, player string) ([]*entity.Game, error)
}

// Identifiers are unique per originating chain only, so games are keyed by
// chain and id together.
func gameKey(chainID string, id uint64) string {
	return fmt.Sprintf("game:%s:%d", chainID, id)
}

func playerKey(player string) string {
	return "player:" + player + ":games"
}

const (
	nextIDKey = "games:next_id"
	indexKey  = "games:index"
)
