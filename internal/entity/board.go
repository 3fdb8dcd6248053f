package entity

import (
	"fmt"

	"github.com/playmesh/tictactoe-chain/internal/apperror"
)

const (
	MarkX   = "X"
	MarkO   = "O"
	MarkTie = "-"

	EmptyCell = ""

	BoardSize = 3
)

// WinLines - the 3 rows, 3 columns and 2 diagonals as {row, col} triples.
var WinLines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

type Board [BoardSize][BoardSize]string

// Set - places a mark on an empty cell.
func (that *Board) Set(row, col int, mark string) error {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOutOfRange, row, col)
	}

	if that[row][col] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that[row][col] = mark

	return nil
}

// DetermineResult - returns MarkX or MarkO if a line is complete,
// MarkTie if the board is full without a winner, EmptyCell otherwise.
func (that *Board) DetermineResult() string {
	for _, line := range WinLines {
		a := that[line[0][0]][line[0][1]]
		b := that[line[1][0]][line[1][1]]
		c := that[line[2][0]][line[2][1]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	// the game continues until all the cells are full
	for row := range that {
		for col := range that[row] {
			if that[row][col] == EmptyCell {
				return EmptyCell
			}
		}
	}

	return MarkTie
}
