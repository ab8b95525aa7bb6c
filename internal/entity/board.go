package entity

import (
	"errors"
	"fmt"
)

const BoardSize = 3

// Cell is the content of one board square. The set of values is closed.
type Cell uint8

const (
	EmptyCell Cell = iota
	PlayerMark
	OpponentMark
)

const (
	playerSymbol   = "X"
	opponentSymbol = "O"
)

var (
	ErrInvalidMark = errors.New("invalid mark")

	// WinLines - every row, every column and both diagonals.
	WinLines = [8][3]Move{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {2, 0}},
	}
)

func (that Cell) String() string {
	switch that {
	case PlayerMark:
		return playerSymbol
	case OpponentMark:
		return opponentSymbol
	default:
		return " "
	}
}

// Opposite returns the other side's mark. EmptyCell has no opposite.
func (that Cell) Opposite() Cell {
	switch that {
	case PlayerMark:
		return OpponentMark
	case OpponentMark:
		return PlayerMark
	default:
		return EmptyCell
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	switch that {
	case EmptyCell:
		return []byte{}, nil
	case PlayerMark:
		return []byte(playerSymbol), nil
	case OpponentMark:
		return []byte(opponentSymbol), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidMark, that)
	}
}

func (that *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", " ":
		*that = EmptyCell
	case playerSymbol:
		*that = PlayerMark
	case opponentSymbol:
		*that = OpponentMark
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMark, text)
	}

	return nil
}

// Move is a (row, column) coordinate on the board.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) Valid() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Board is the 3x3 grid, row-major. It is a value: assigning or passing it copies every cell.
type Board [BoardSize][BoardSize]Cell

// IsWinner reports whether any of the 8 lines consists entirely of mark.
func (that Board) IsWinner(mark Cell) bool {
	for _, line := range WinLines {
		a, b, c := that.at(line[0]), that.at(line[1]), that.at(line[2])
		if a == mark && b == mark && c == mark {
			return true
		}
	}

	return false
}

func (that Board) IsFull() bool {
	for row := range BoardSize {
		for col := range BoardSize {
			if that[row][col] == EmptyCell {
				return false
			}
		}
	}

	return true
}

// IsTerminal reports whether either side has won or no empty cell remains.
func (that Board) IsTerminal() bool {
	return that.IsWinner(PlayerMark) || that.IsWinner(OpponentMark) || that.IsFull()
}

// Score is +1 when the opponent has won, -1 when the player has won and 0 otherwise.
// It is only meaningful at terminal positions or at a search cutoff.
func (that Board) Score() int {
	switch {
	case that.IsWinner(OpponentMark):
		return 1
	case that.IsWinner(PlayerMark):
		return -1
	default:
		return 0
	}
}

func (that Board) Outcome() Outcome {
	switch {
	case that.IsWinner(OpponentMark):
		return OutcomeOpponentWins
	case that.IsWinner(PlayerMark):
		return OutcomePlayerWins
	case that.IsFull():
		return OutcomeDraw
	default:
		return OutcomeOngoing
	}
}

// EmptyCells lists the free squares in row-major order.
func (that Board) EmptyCells() []Move {
	moves := make([]Move, 0, BoardSize*BoardSize)
	for row := range BoardSize {
		for col := range BoardSize {
			if that[row][col] == EmptyCell {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// Count returns how many cells hold mark.
func (that Board) Count(mark Cell) int {
	count := 0
	for row := range BoardSize {
		for col := range BoardSize {
			if that[row][col] == mark {
				count++
			}
		}
	}

	return count
}

// Place returns a copy of the board with mark at move. The receiver is left untouched.
func (that Board) Place(move Move, mark Cell) Board {
	that[move.Row][move.Col] = mark
	return that
}

func (that Board) at(move Move) Cell {
	return that[move.Row][move.Col]
}
