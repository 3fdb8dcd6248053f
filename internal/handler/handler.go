// Package handler implements the operation-handling contract: it validates
// an authenticated operation against the registry, applies the pure game
// transition, persists the result and stages the outbound messages.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playmesh/tictactoe-chain/internal/entity"
	"github.com/playmesh/tictactoe-chain/internal/registry"
)

const (
	OpCreateGame = "create_game"
	OpJoinGame   = "join_game"
	OpMakeMove   = "make_move"
)

var ErrUnknownOperation = errors.New("unknown operation")

// Operation - the decoded tagged union of the authenticated operation API.
// The caller identity is established by the host runtime and passed
// separately as a verified string.
type Operation struct {
	Type   string `json:"type"`
	GameID uint64 `json:"game_id"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

type OperationHandler struct {
	logger *slog.Logger

	games   registry.GameRegistry
	chainID string
}

func New(logger *slog.Logger, games registry.GameRegistry, chainID string) *OperationHandler {
	return &OperationHandler{
		logger:  logger.With("component", "handler"),
		games:   games,
		chainID: chainID,
	}
}

// Handle - dispatches one decoded operation for actor. On success it returns
// the updated game and the messages to emit; on failure no state changes and
// no messages are staged.
func (that *OperationHandler) Handle(ctx context.Context, actor string, op Operation) (*entity.Game, []entity.Message, error) {
	switch op.Type {
	case OpCreateGame:
		return that.CreateGame(ctx, actor)
	case OpJoinGame:
		return that.JoinGame(ctx, actor, op.GameID)
	case OpMakeMove:
		return that.MakeMove(ctx, actor, op.GameID, op.Row, op.Col)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op.Type)
	}
}

func (that *OperationHandler) CreateGame(ctx context.Context, actor string) (*entity.Game, []entity.Message, error) {
	game := entity.NewGame(0, that.chainID, actor)

	gameID, err := that.games.Create(ctx, game)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", gameID, "creator", actor)

	return game, []entity.Message{entity.NewGameCreatedMessage(game)}, nil
}

func (that *OperationHandler) JoinGame(ctx context.Context, actor string, gameID uint64) (*entity.Game, []entity.Message, error) {
	game, err := that.games.Get(ctx, that.chainID, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get game %d: %w", gameID, err)
	}

	if err = game.Join(actor); err != nil {
		return nil, nil, fmt.Errorf("failed to join game %d: %w", gameID, err)
	}

	if err = that.games.Put(ctx, game); err != nil {
		return nil, nil, fmt.Errorf("failed to update game %d: %w", gameID, err)
	}

	that.logger.Info("player joined", "gameID", gameID, "player", actor)

	return game, []entity.Message{entity.NewPlayerJoinedMessage(game, actor)}, nil
}

func (that *OperationHandler) MakeMove(ctx context.Context, actor string, gameID uint64, row, col int) (*entity.Game, []entity.Message, error) {
	game, err := that.games.Get(ctx, that.chainID, gameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get game %d: %w", gameID, err)
	}

	// the transition runs on a loaded copy, so a failed move leaves the
	// stored game untouched
	if err = game.MakeMove(actor, row, col); err != nil {
		return nil, nil, fmt.Errorf("failed to make move in game %d: %w", gameID, err)
	}

	if err = that.games.Put(ctx, game); err != nil {
		return nil, nil, fmt.Errorf("failed to update game %d: %w", gameID, err)
	}

	log := that.logger.With("gameID", gameID, "player", actor)
	log.Info("move made", "row", row, "col", col)

	switch game.Status {
	case entity.StatusWon:
		log.Info("game won", "winner", game.Winner)
	case entity.StatusDraw:
		log.Info("game ended in a draw")
	}

	return game, []entity.Message{entity.NewMoveMadeMessage(game, actor, row, col)}, nil
}
