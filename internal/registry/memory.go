package registry

import (
	"context"
	"sync"

	"github.com/playmesh/tictactoe-chain/internal/apperror"
	"github.com/playmesh/tictactoe-chain/internal/entity"
)

type memoryRegistry struct {
	mu      sync.RWMutex
	games   map[string]entity.Game
	nextID  uint64
	chainID string
}

// NewMemoryRegistry - an in-process GameRegistry for tests and single-chain
// development runs.
func NewMemoryRegistry(chainID string) GameRegistry {
	return &memoryRegistry{
		games:   make(map[string]entity.Game),
		chainID: chainID,
	}
}

func (that *memoryRegistry) Create(_ context.Context, game *entity.Game) (uint64, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game.ID = that.nextID
	game.ChainID = that.chainID
	that.nextID++

	that.games[gameKey(game.ChainID, game.ID)] = *game

	return game.ID, nil
}

func (that *memoryRegistry) Get(_ context.Context, chainID string, id uint64) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[gameKey(chainID, id)]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	// games hold no reference types, a shallow copy is a full snapshot
	return &game, nil
}

func (that *memoryRegistry) Put(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[gameKey(game.ChainID, game.ID)] = *game

	return nil
}

func (that *memoryRegistry) List(_ context.Context) ([]*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	games := make([]*entity.Game, 0, len(that.games))
	for key := range that.games {
		game := that.games[key]
		games = append(games, &game)
	}

	sortGames(games)

	return games, nil
}

func (that *memoryRegistry) ListForPlayer(_ context.Context, player string) ([]*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	var games []*entity.Game
	for key := range that.games {
		game := that.games[key]
		if game.HasPlayer(player) {
			games = append(games, &game)
		}
	}

	sortGames(games)

	return games, nil
}
