// Package query serves read-only projections over the registry. Queries
// never mutate state and reflect the most recently applied local operation
// or message.
package query

import (
	"context"
	"fmt"

	"github.com/playmesh/tictactoe-chain/internal/entity"
)

type gameRegistry interface {
	Get(ctx context.Context, chainID string, id uint64) (*entity.Game, error)
	List(ctx context.Context) ([]*entity.Game, error)
	ListForPlayer(ctx context.Context, player string) ([]*entity.Game, error)
}

type Service struct {
	games   gameRegistry
	chainID string
}

func NewService(games gameRegistry, chainID string) *Service {
	return &Service{
		games:   games,
		chainID: chainID,
	}
}

// Game - a single game on the local chain.
func (that *Service) Game(ctx context.Context, id uint64) (*entity.GameView, error) {
	game, err := that.games.Get(ctx, that.chainID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}

	view := game.View()

	return &view, nil
}

// Games - every known game ordered by ascending identifier.
func (that *Service) Games(ctx context.Context) ([]entity.GameView, error) {
	games, err := that.games.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return toViews(games), nil
}

func (that *Service) GamesForPlayer(ctx context.Context, player string) ([]entity.GameView, error) {
	games, err := that.games.ListForPlayer(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for player: %w", err)
	}

	return toViews(games), nil
}

func (that *Service) WaitingGames(ctx context.Context) ([]entity.GameView, error) {
	return that.listByStatus(ctx, func(game *entity.Game) bool { return game.IsWaiting() })
}

func (that *Service) ActiveGames(ctx context.Context) ([]entity.GameView, error) {
	return that.listByStatus(ctx, func(game *entity.Game) bool { return game.IsOngoing() })
}

func (that *Service) CompletedGames(ctx context.Context) ([]entity.GameView, error) {
	return that.listByStatus(ctx, func(game *entity.Game) bool { return game.IsFinished() })
}

// Stats - aggregate counts computed in one pass over the registry.
func (that *Service) Stats(ctx context.Context) (*entity.Stats, error) {
	games, err := that.games.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	stats := &entity.Stats{TotalGames: len(games)}
	for _, game := range games {
		switch {
		case game.IsWaiting():
			stats.WaitingGames++
		case game.IsOngoing():
			stats.ActiveGames++
		default:
			stats.CompletedGames++
		}
	}

	return stats, nil
}

func (that *Service) listByStatus(ctx context.Context, keep func(*entity.Game) bool) ([]entity.GameView, error) {
	games, err := that.games.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	var views []entity.GameView
	for _, game := range games {
		if keep(game) {
			views = append(views, game.View())
		}
	}

	return views, nil
}

func toViews(games []*entity.Game) []entity.GameView {
	views := make([]entity.GameView, 0, len(games))
	for _, game := range games {
		views = append(views, game.View())
	}

	return views
}
