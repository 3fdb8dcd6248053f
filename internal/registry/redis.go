package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/playmesh/tictactoe-chain/internal/apperror"
	"github.com/playmesh/tictactoe-chain/internal/entity"
)

type redisRegistry struct {
	client  *redis.Client
	chainID string
}

// NewRedisRegistry - a GameRegistry persisted in Redis. Games are JSON
// values, the identifier counter is an INCR key, and the display order and
// per-player indexes live in a sorted set and plain sets.
func NewRedisRegistry(client *redis.Client, chainID string) GameRegistry {
	return &redisRegistry{
		client:  client,
		chainID: chainID,
	}
}

func (that *redisRegistry) Create(ctx context.Context, game *entity.Game) (uint64, error) {
	next, err := that.client.Incr(ctx, nextIDKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate game id: %w", err)
	}

	// INCR returns the new counter value; ids start at 0
	game.ID = uint64(next - 1)
	game.ChainID = that.chainID

	if err = that.Put(ctx, game); err != nil {
		return 0, fmt.Errorf("failed to store new game: %w", err)
	}

	return game.ID, nil
}

func (that *redisRegistry) Get(ctx context.Context, chainID string, id uint64) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKey(chainID, id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *redisRegistry) Put(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	key := gameKey(game.ChainID, game.ID)

	pipe := that.client.TxPipeline()
	pipe.Set(ctx, key, gameJSON, 0)
	pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(game.ID), Member: key})
	pipe.SAdd(ctx, playerKey(game.PlayerX), key)
	if game.PlayerO != "" {
		pipe.SAdd(ctx, playerKey(game.PlayerO), key)
	}

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *redisRegistry) List(ctx context.Context) ([]*entity.Game, error) {
	keys, err := that.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read game index: %w", err)
	}

	return that.fetchGames(ctx, keys)
}

func (that *redisRegistry) ListForPlayer(ctx context.Context, player string) ([]*entity.Game, error) {
	keys, err := that.client.SMembers(ctx, playerKey(player)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read player index: %w", err)
	}

	games, err := that.fetchGames(ctx, keys)
	if err != nil {
		return nil, err
	}

	// set members come back unordered
	sortGames(games)

	return games, nil
}

func (that *redisRegistry) fetchGames(ctx context.Context, keys []string) ([]*entity.Game, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch games: %w", err)
	}

	games := make([]*entity.Game, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// index entry without a value, nothing to serve
			continue
		}

		var game entity.Game
		if err = json.Unmarshal([]byte(raw), &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game: %w", err)
		}

		games = append(games, &game)
	}

	return games, nil
}

func sortGames(games []*entity.Game) {
	sort.Slice(games, func(i, j int) bool {
		if games[i].ID != games[j].ID {
			return games[i].ID < games[j].ID
		}
		return games[i].ChainID < games[j].ChainID
	})
}
