package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Server struct {
	logger *slog.Logger

	uGame uGame
	qGame qGame
}

func New(logger *slog.Logger, uGame uGame, qGame qGame) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		uGame:  uGame,
		qGame:  qGame,
	}
}

func (that *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", pingHandler)

	mux.HandleFunc("POST /games", that.handleCreateGame)
	mux.HandleFunc("POST /games/{id}/join", that.handleJoinGame)
	mux.HandleFunc("POST /games/{id}/moves", that.handleMakeMove)

	mux.HandleFunc("GET /games", that.handleListGames)
	mux.HandleFunc("GET /games/{id}", that.handleGetGame)
	mux.HandleFunc("GET /stats", that.handleStats)

	return mux
}

// Start - starts the HTTP server and shuts it down when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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
