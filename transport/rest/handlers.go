package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/playmesh/tictactoe-chain/internal/apperror"
	"github.com/playmesh/tictactoe-chain/internal/entity"
)

// the verified caller identity supplied by the external auth collaborator
const playerHeader = "X-Player-ID"

type uGame interface {
	CreateGame(ctx context.Context, playerID string) (*entity.Game, error)
	JoinGame(ctx context.Context, playerID string, gameID uint64) (*entity.Game, error)
	MakeMove(ctx context.Context, playerID string, gameID uint64, row, col int) (*entity.Game, error)
}

type qGame interface {
	Game(ctx context.Context, id uint64) (*entity.GameView, error)
	Games(ctx context.Context) ([]entity.GameView, error)
	GamesForPlayer(ctx context.Context, player string) ([]entity.GameView, error)
	WaitingGames(ctx context.Context) ([]entity.GameView, error)
	ActiveGames(ctx context.Context) ([]entity.GameView, error)
	CompletedGames(ctx context.Context) ([]entity.GameView, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

type movePayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	playerID, ok := that.requirePlayer(w, r)
	if !ok {
		return
	}

	game, err := that.uGame.CreateGame(r.Context(), playerID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game.View())
}

func (that *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	playerID, ok := that.requirePlayer(w, r)
	if !ok {
		return
	}

	gameID, ok := that.requireGameID(w, r)
	if !ok {
		return
	}

	game, err := that.uGame.JoinGame(r.Context(), playerID, gameID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game.View())
}

func (that *Server) handleMakeMove(w http.ResponseWriter, r *http.Request) {
	playerID, ok := that.requirePlayer(w, r)
	if !ok {
		return
	}

	gameID, ok := that.requireGameID(w, r)
	if !ok {
		return
	}

	var move movePayload
	if err := json.NewDecoder(r.Body).Decode(&move); err != nil {
		http.Error(w, "invalid move payload", http.StatusBadRequest)
		return
	}

	game, err := that.uGame.MakeMove(r.Context(), playerID, gameID, move.Row, move.Col)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game.View())
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := that.requireGameID(w, r)
	if !ok {
		return
	}

	view, err := that.qGame.Game(r.Context(), gameID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		views []entity.GameView
		err   error
	)

	switch status := r.URL.Query().Get("status"); {
	case r.URL.Query().Get("player") != "":
		views, err = that.qGame.GamesForPlayer(ctx, r.URL.Query().Get("player"))
	case status == "waiting":
		views, err = that.qGame.WaitingGames(ctx)
	case status == "active":
		views, err = that.qGame.ActiveGames(ctx)
	case status == "completed":
		views, err = that.qGame.CompletedGames(ctx)
	case status != "":
		http.Error(w, "unknown status filter", http.StatusBadRequest)
		return
	default:
		views, err = that.qGame.Games(ctx)
	}

	if err != nil {
		that.writeError(w, err)
		return
	}

	if views == nil {
		views = []entity.GameView{}
	}

	that.writeJSON(w, http.StatusOK, views)
}

func (that *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.qGame.Stats(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *Server) requirePlayer(w http.ResponseWriter, r *http.Request) (string, bool) {
	playerID := r.Header.Get(playerHeader)
	if playerID == "" {
		http.Error(w, "missing "+playerHeader+" header", http.StatusUnauthorized)
		return "", false
	}

	return playerID, true
}

func (that *Server) requireGameID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	gameID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return 0, false
	}

	return gameID, true
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func (that *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameFull),
		errors.Is(err, apperror.ErrSelfJoin),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameNotInProgress),
		errors.Is(err, apperror.ErrCellOccupied):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, map[string]string{"error": err.Error()})
}
