package entity

import (
	"errors"
	"fmt"

	"github.com/playmesh/tictactoe-chain/internal/apperror"
)

const (
	StatusWaiting = "waiting"
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusDraw    = "draw"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

type Game struct {
	ID      uint64 `json:"id"`
	ChainID string `json:"chain_id"`
	PlayerX string `json:"player_x"`
	PlayerO string `json:"player_o,omitempty"`
	Board   Board  `json:"board"`
	Turn    string `json:"player_turn,omitempty"`
	Status  string `json:"status"`
	Winner  string `json:"winner,omitempty"`
	Moves   int    `json:"moves"`
}

func NewGame(id uint64, chainID, creator string) *Game {
	return &Game{
		ID:      id,
		ChainID: chainID,
		PlayerX: creator,
		Turn:    MarkX,
		Status:  StatusWaiting,
	}
}

// Join - admits a second player as O and starts the game.
func (that *Game) Join(candidate string) error {
	if !that.IsWaiting() {
		return fmt.Errorf("%w: game %d", apperror.ErrGameFull, that.ID)
	}

	if candidate == that.PlayerX {
		return apperror.ErrSelfJoin
	}

	that.PlayerO = candidate
	that.Status = StatusOngoing

	return nil
}

// MakeMove - applies one move by actor. The turn check runs before the cell
// checks so an out-of-turn caller learns nothing about the board.
func (that *Game) MakeMove(actor string, row, col int) error {
	if !that.IsOngoing() {
		return fmt.Errorf("%w: game %d is %s", apperror.ErrGameNotInProgress, that.ID, that.Status)
	}

	if actor != that.CurrentPlayer() {
		return apperror.ErrNotYourTurn
	}

	if err := that.Board.Set(row, col, that.Turn); err != nil {
		return err
	}

	that.Moves++
	that.updateState()

	return nil
}

// CurrentPlayer - the identity holding the current turn mark.
func (that *Game) CurrentPlayer() string {
	if that.Turn == MarkX {
		return that.PlayerX
	}
	return that.PlayerO
}

func (that *Game) updateState() {
	switch result := that.Board.DetermineResult(); result {
	// one player wins
	case MarkX, MarkO:
		that.Winner = result
		that.Status = StatusWon
		that.Turn = ""
	// tie
	case MarkTie:
		that.Status = StatusDraw
		that.Turn = ""
	// game continues, the turn flips
	default:
		if that.Turn == MarkX {
			that.Turn = MarkO
		} else {
			that.Turn = MarkX
		}
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

// HasPlayer - reports whether identity participates in the game.
func (that *Game) HasPlayer(identity string) bool {
	return identity != "" && (identity == that.PlayerX || identity == that.PlayerO)
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return fmt.Errorf("%w: game %d is %s", apperror.ErrGameNotInProgress, that.ID, that.Status)
	case that.IsFinished():
		return fmt.Errorf("%w: game %d is %s", apperror.ErrGameNotInProgress, that.ID, that.Status)
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}
