package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/playmesh/tictactoe-chain/internal/entity"
	"github.com/playmesh/tictactoe-chain/internal/handler"
)

type GameUseCase interface {
	CreateGame(ctx context.Context, playerID string) (*entity.Game, error)
	JoinGame(ctx context.Context, playerID string, gameID uint64) (*entity.Game, error)
	MakeMove(ctx context.Context, playerID string, gameID uint64, row, col int) (*entity.Game, error)
}

type operationHandler interface {
	Handle(ctx context.Context, actor string, op handler.Operation) (*entity.Game, []entity.Message, error)
}

type messagePublisher interface {
	Publish(ctx context.Context, message entity.Message) error
}

type gameUseCase struct {
	logger *slog.Logger

	handler   operationHandler
	publisher messagePublisher
}

func NewGameUseCase(logger *slog.Logger, operations operationHandler, publisher messagePublisher) GameUseCase {
	return &gameUseCase{
		logger:    logger.With("component", "usecase"),
		handler:   operations,
		publisher: publisher,
	}
}

func (that *gameUseCase) CreateGame(ctx context.Context, playerID string) (*entity.Game, error) {
	return that.perform(ctx, playerID, handler.Operation{Type: handler.OpCreateGame})
}

func (that *gameUseCase) JoinGame(ctx context.Context, playerID string, gameID uint64) (*entity.Game, error) {
	return that.perform(ctx, playerID, handler.Operation{Type: handler.OpJoinGame, GameID: gameID})
}

func (that *gameUseCase) MakeMove(ctx context.Context, playerID string, gameID uint64, row, col int) (*entity.Game, error) {
	return that.perform(ctx, playerID, handler.Operation{Type: handler.OpMakeMove, GameID: gameID, Row: row, Col: col})
}

func (that *gameUseCase) perform(ctx context.Context, playerID string, op handler.Operation) (*entity.Game, error) {
	game, messages, err := that.handler.Handle(ctx, playerID, op)
	if err != nil {
		return nil, fmt.Errorf("failed to handle operation: %w", err)
	}

	// the game is already durable at this point; delivery is at-least-once,
	// so a failed publish is logged rather than rolled back
	for _, message := range messages {
		if err = that.publisher.Publish(ctx, message); err != nil {
			that.logger.Error("failed to publish message",
				"type", message.Type, "gameID", message.GameID, "error", err)
		}
	}

	return game, nil
}
