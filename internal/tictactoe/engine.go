package tictactoe

import (
	"errors"
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	DefaultDepth = 6
	MaxDepth     = entity.BoardSize * entity.BoardSize
)

// Pruning selects how far a beta cutoff stops the scan of a node's children.
type Pruning string

const (
	// PruneFull abandons the whole node on a cutoff.
	PruneFull Pruning = "full"
	// PruneRow abandons only the rest of the current row on a cutoff and keeps scanning the next rows.
	PruneRow Pruning = "row"
)

var (
	ErrInvalidDepth   = errors.New("invalid search depth")
	ErrUnknownPruning = errors.New("unknown pruning mode")
)

func ParsePruning(value string) (Pruning, error) {
	switch Pruning(value) {
	case PruneFull, PruneRow:
		return Pruning(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPruning, value)
	}
}

// SearchResult is the opponent's chosen cell with its minimax value.
type SearchResult struct {
	Move  entity.Move `json:"move"`
	Score int         `json:"score"`
	Nodes int         `json:"nodes"`
}

// Engine picks moves for the opponent (the maximizing side) with depth-bounded minimax and alpha-beta pruning.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	depth   int
	pruning Pruning
}

func NewEngine(depth int, pruning Pruning) (*Engine, error) {
	if depth < 1 || depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidDepth, depth, MaxDepth)
	}

	if _, err := ParsePruning(string(pruning)); err != nil {
		return nil, err
	}

	return &Engine{
		depth:   depth,
		pruning: pruning,
	}, nil
}

func (that *Engine) Depth() int {
	return that.depth
}

func (that *Engine) Pruning() Pruning {
	return that.pruning
}

// FindBestMove tries the opponent's mark on every empty cell in row-major order and keeps
// the first cell with the highest minimax value. The board passed in is never modified.
func (that *Engine) FindBestMove(board entity.Board) (SearchResult, error) {
	result := SearchResult{Score: math.MinInt}
	found := false

	for _, move := range board.EmptyCells() {
		next := board.Place(move, entity.OpponentMark)

		value := that.minimax(next, that.depth, math.MinInt, math.MaxInt, false, &result.Nodes)
		if !found || value > result.Score {
			result.Move = move
			result.Score = value
			found = true
		}
	}

	if !found {
		return SearchResult{}, apperror.ErrNoEmptyCell
	}

	return result, nil
}

// Minimax evaluates board with the given side to move. The opponent maximizes, the player minimizes.
func (that *Engine) Minimax(board entity.Board, depth, alpha, beta int, maximizing bool) int {
	var nodes int
	return that.minimax(board, depth, alpha, beta, maximizing, &nodes)
}

func (that *Engine) minimax(board entity.Board, depth, alpha, beta int, maximizing bool, nodes *int) int {
	*nodes++

	if depth == 0 || board.IsTerminal() {
		return board.Score()
	}

	if maximizing {
		best := math.MinInt
		for row := range entity.BoardSize {
			for col := range entity.BoardSize {
				if board[row][col] != entity.EmptyCell {
					continue
				}

				next := board.Place(entity.Move{Row: row, Col: col}, entity.OpponentMark)
				value := that.minimax(next, depth-1, alpha, beta, false, nodes)

				best = max(best, value)
				alpha = max(alpha, value)
				if beta <= alpha {
					if that.pruning == PruneFull {
						return best
					}
					break
				}
			}
		}

		return best
	}

	best := math.MaxInt
	for row := range entity.BoardSize {
		for col := range entity.BoardSize {
			if board[row][col] != entity.EmptyCell {
				continue
			}

			next := board.Place(entity.Move{Row: row, Col: col}, entity.PlayerMark)
			value := that.minimax(next, depth-1, alpha, beta, true, nodes)

			best = min(best, value)
			beta = min(beta, value)
			if beta <= alpha {
				if that.pruning == PruneFull {
					return best
				}
				break
			}
		}
	}

	return best
}
