package game

import "errors"

// Board dimensions for Connect Four.
const (
	Rows = 6
	Cols = 7

	// Capacity is the total number of cells; a game with this many
	// accepted moves and no winner is a draw.
	Capacity = Rows * Cols
)

// Cell is the content of a single board position.
type Cell uint8

const (
	Empty Cell = iota
	TokenA
	TokenB
)

var (
	ErrInvalidColumn = errors.New("column out of range")
	ErrColumnFull    = errors.New("column is full")
)

// Board is a fixed 6x7 grid. Row 0 is the top row; pieces stack upward
// from row 5. Cells never revert to Empty once occupied.
type Board [Rows][Cols]Cell

func NewBoard() *Board {
	return &Board{}
}

// Drop places token in the lowest empty cell of col and returns the row
// it landed in. Fails with ErrColumnFull when the column has no empty
// cell left, leaving the board untouched.
func (b *Board) Drop(col int, token Cell) (int, error) {
	if col < 0 || col >= Cols {
		return -1, ErrInvalidColumn
	}
	for r := Rows - 1; r >= 0; r-- {
		if b[r][col] == Empty {
			b[r][col] = token
			return r, nil
		}
	}
	return -1, ErrColumnFull
}

// ConnectsFour reports whether the piece at (row, col) completes a line
// of four or more. Only the four lines through the placed cell are
// examined, counting contiguous runs in both directions, so callers
// invoke it right after Drop instead of scanning the whole board.
func (b *Board) ConnectsFour(row, col int) bool {
	token := b[row][col]
	if token == Empty {
		return false
	}

	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for _, d := range dirs {
		count := 1

		r, c := row+d[0], col+d[1]
		for inBounds(r, c) && b[r][c] == token {
			count++
			r, c = r+d[0], c+d[1]
		}

		r, c = row-d[0], col-d[1]
		for inBounds(r, c) && b[r][c] == token {
			count++
			r, c = r-d[0], c-d[1]
		}

		if count >= 4 {
			return true
		}
	}
	return false
}

func inBounds(r, c int) bool {
	return r >= 0 && r < Rows && c >= 0 && c < Cols
}

// Full reports whether moves accepted so far fill the board.
func Full(moves int) bool {
	return moves >= Capacity
}
