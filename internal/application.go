package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/playmesh/tictactoe-chain/internal/config"
	"github.com/playmesh/tictactoe-chain/internal/handler"
	"github.com/playmesh/tictactoe-chain/internal/query"
	"github.com/playmesh/tictactoe-chain/internal/registry"
	"github.com/playmesh/tictactoe-chain/internal/registry/storage"
	"github.com/playmesh/tictactoe-chain/internal/router"
	"github.com/playmesh/tictactoe-chain/internal/usecase"
	"github.com/playmesh/tictactoe-chain/transport/rest"
	"github.com/playmesh/tictactoe-chain/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	games := registry.NewRedisRegistry(redisStorage.Connection, conf.ChainID)
	operations := handler.New(logger, games, conf.ChainID)
	messageRouter := router.New(logger, redisStorage.Connection, games, conf.ChainID)
	gameUseCase := usecase.NewGameUseCase(logger, operations, messageRouter)
	queryService := query.NewService(games, conf.ChainID)

	// consume inbound cross-chain messages
	routerErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting message router", "chainID", conf.ChainID)
		if routerErr := messageRouter.Run(ctx); routerErr != nil {
			log.Error("Message router error", "error", routerErr)
			routerErrCh <- routerErr
		}
	}()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, gameUseCase, queryService)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run WebSocket event feed
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, messageRouter)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-routerErrCh:
		return fmt.Errorf("message router error: %w", err)
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
