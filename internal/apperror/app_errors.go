package apperror

import "errors"

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameFull          = errors.New("game already has two players")
	ErrSelfJoin          = errors.New("cannot play against yourself")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrGameNotInProgress = errors.New("game is not in progress")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrCellOutOfRange    = errors.New("cell is out of range")
)
