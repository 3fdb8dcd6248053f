// Package router moves cross-chain notifications: it publishes outbound
// messages to the messaging substrate and applies inbound ones to the local
// partial view. Delivery may be duplicated, so application is idempotent.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/playmesh/tictactoe-chain/internal/apperror"
	"github.com/playmesh/tictactoe-chain/internal/entity"
)

const channelPrefix = "tictactoe:events:"

var (
	ErrUnknownMessage    = errors.New("unknown message type")
	ErrOutOfOrderMessage = errors.New("message is out of order")
)

type gameRegistry interface {
	Get(ctx context.Context, chainID string, id uint64) (*entity.Game, error)
	Put(ctx context.Context, game *entity.Game) error
}

type Router struct {
	logger *slog.Logger

	client  *redis.Client
	games   gameRegistry
	chainID string

	mu        sync.Mutex
	listeners []chan entity.Message
}

func New(logger *slog.Logger, client *redis.Client, games gameRegistry, chainID string) *Router {
	return &Router{
		logger:  logger.With("component", "router"),
		client:  client,
		games:   games,
		chainID: chainID,
	}
}

// Publish - sends one outbound message on the chain's event channel and
// fans it out to in-process listeners. Never blocks on acknowledgement.
func (that *Router) Publish(ctx context.Context, message entity.Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("could not marshal message: %w", err)
	}

	if err = that.client.Publish(ctx, channelPrefix+message.ChainID, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	that.notify(message)

	return nil
}

// Run - consumes inbound messages until the context is canceled.
func (that *Router) Run(ctx context.Context) error {
	pubsub := that.client.PSubscribe(ctx, channelPrefix+"*")
	defer func() {
		if err := pubsub.Close(); err != nil {
			that.logger.Error("could not close subscription", "error", err)
		}
	}()

	messages := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case received, ok := <-messages:
			if !ok {
				return nil
			}
			that.receive(ctx, []byte(received.Payload))
		}
	}
}

// receive - decodes and applies one inbound payload. Malformed or
// unappliable messages are dropped with a warning, never fatal.
func (that *Router) receive(ctx context.Context, payload []byte) {
	var message entity.Message
	if err := json.Unmarshal(payload, &message); err != nil {
		that.logger.Warn("dropping malformed message", "error", err)
		return
	}

	// own messages were already applied by the operation handler
	if message.ChainID == that.chainID {
		return
	}

	if err := that.Apply(ctx, message); err != nil {
		that.logger.Warn("dropping message",
			"type", message.Type, "gameID", message.GameID, "chainID", message.ChainID, "error", err)
		return
	}

	that.logger.Debug("message applied",
		"type", message.Type, "gameID", message.GameID, "chainID", message.ChainID)

	that.notify(message)
}

// Apply - updates the local projection of a remote game. Duplicates are
// no-ops; a move_made ahead of the locally recorded progress is rejected
// instead of being applied out of order.
func (that *Router) Apply(ctx context.Context, message entity.Message) error {
	switch message.Type {
	case entity.MessageGameCreated:
		return that.applyGameCreated(ctx, message)
	case entity.MessagePlayerJoined:
		return that.applyPlayerJoined(ctx, message)
	case entity.MessageMoveMade:
		return that.applyMoveMade(ctx, message)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, message.Type)
	}
}

func (that *Router) applyGameCreated(ctx context.Context, message entity.Message) error {
	_, err := that.games.Get(ctx, message.ChainID, message.GameID)
	if err == nil {
		// duplicate delivery
		return nil
	}
	if !errors.Is(err, apperror.ErrGameNotFound) {
		return fmt.Errorf("failed to check for existing game: %w", err)
	}

	game := entity.NewGame(message.GameID, message.ChainID, message.Player)
	if err = that.games.Put(ctx, game); err != nil {
		return fmt.Errorf("failed to store remote game: %w", err)
	}

	return nil
}

func (that *Router) applyPlayerJoined(ctx context.Context, message entity.Message) error {
	game, err := that.games.Get(ctx, message.ChainID, message.GameID)
	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}

	if game.PlayerO == message.Player {
		// duplicate delivery
		return nil
	}

	if err = game.Join(message.Player); err != nil {
		return fmt.Errorf("failed to apply join: %w", err)
	}

	if err = that.games.Put(ctx, game); err != nil {
		return fmt.Errorf("failed to store game: %w", err)
	}

	return nil
}

func (that *Router) applyMoveMade(ctx context.Context, message entity.Message) error {
	game, err := that.games.Get(ctx, message.ChainID, message.GameID)
	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}

	if message.MoveCount <= game.Moves {
		// move already observed, duplicate delivery
		return nil
	}

	if message.MoveCount > game.Moves+1 {
		return fmt.Errorf("%w: move %d arrived at local progress %d",
			ErrOutOfOrderMessage, message.MoveCount, game.Moves)
	}

	if err = game.MakeMove(message.Player, message.Row, message.Col); err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	if game.Status != message.Status {
		that.logger.Warn("projection status diverges from origin",
			"gameID", game.ID, "chainID", game.ChainID, "local", game.Status, "origin", message.Status)
	}

	if err = that.games.Put(ctx, game); err != nil {
		return fmt.Errorf("failed to store game: %w", err)
	}

	return nil
}

// Listen - registers an in-process listener fed with every published and
// applied message. Slow listeners miss messages instead of blocking the
// router.
func (that *Router) Listen(buffer int) chan entity.Message {
	listener := make(chan entity.Message, buffer)

	that.mu.Lock()
	that.listeners = append(that.listeners, listener)
	that.mu.Unlock()

	return listener
}

// Drop - removes a listener registered with Listen.
func (that *Router) Drop(listener chan entity.Message) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, known := range that.listeners {
		if known == listener {
			that.listeners = append(that.listeners[:i], that.listeners[i+1:]...)
			return
		}
	}
}

func (that *Router) notify(message entity.Message) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, listener := range that.listeners {
		select {
		case listener <- message:
		default:
		}
	}
}
