// Package websocket streams game events to connected clients. Clients only
// listen; mutating operations go through the REST transport.
package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/playmesh/tictactoe-chain/internal/entity"
)

const listenerBuffer = 16

type messageFeed interface {
	Listen(buffer int) chan entity.Message
	Drop(listener chan entity.Message)
}

type Server struct {
	logger *slog.Logger

	feed     messageFeed
	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, feed messageFeed) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		feed:   feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Start - starts the WebSocket server and shuts it down when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.handleClient(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) handleClient(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		that.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	log := that.logger.With("remote", conn.RemoteAddr().String())
	log.Debug("client connected")

	messages := that.feed.Listen(listenerBuffer)
	defer that.feed.Drop(messages)

	defer func() {
		if err = conn.Close(); err != nil {
			log.Debug("failed to close connection", "error", err)
		}
	}()

	// the read loop discards client frames but notices disconnects and
	// keeps control-frame processing alive
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-gone:
			log.Debug("client disconnected")
			return
		case message := <-messages:
			if err = conn.WriteJSON(message); err != nil {
				log.Debug("failed to write message", "error", err)
				return
			}
		}
	}
}
