package console

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	StatusYourMove     = "Your move"
	StatusPlayerWins   = "Player wins!"
	StatusOpponentWins = "AI wins!"
	StatusDraw         = "It's a tie!"
	StatusThinking     = "AI is thinking..."
)

const (
	playerColor   = "12"
	opponentColor = "9"
	errorColor    = "1"
	hintColor     = "8"
)

// Renderer draws sessions to a terminal. Colours degrade to plain text on terminals without colour support.
type Renderer struct {
	out *termenv.Output
}

func NewRenderer(out *termenv.Output) *Renderer {
	return &Renderer{out: out}
}

// Session prints the board followed by the status line.
func (that *Renderer) Session(session *entity.Session) {
	fmt.Fprintln(that.out, that.board(session.Board, session.LastOpponentMove))
	that.Status(session)
}

// Status prints only the status line.
func (that *Renderer) Status(session *entity.Session) {
	fmt.Fprintln(that.out, that.out.String(Status(session)).Bold().String())
}

func (that *Renderer) Error(err error) {
	fmt.Fprintln(that.out, that.out.String("error: "+err.Error()).Foreground(that.out.Color(errorColor)).String())
}

func (that *Renderer) Help() {
	fmt.Fprintln(that.out, that.out.String(`enter "<row> <col>" (0-2) to move, "reset" to start over, "quit" to leave`).
		Foreground(that.out.Color(hintColor)).String())
}

func (that *Renderer) board(board entity.Board, last *entity.Move) string {
	var sb strings.Builder

	sb.WriteString("   0   1   2\n")
	for row := range entity.BoardSize {
		if row > 0 {
			sb.WriteString("  ---+---+---\n")
		}

		fmt.Fprintf(&sb, "%d ", row)
		for col := range entity.BoardSize {
			if col > 0 {
				sb.WriteString("|")
			}

			highlight := last != nil && last.Row == row && last.Col == col
			sb.WriteString(" " + that.cell(board[row][col], highlight) + " ")
		}

		if row < entity.BoardSize-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func (that *Renderer) cell(cell entity.Cell, highlight bool) string {
	switch cell {
	case entity.PlayerMark:
		return that.out.String(cell.String()).Foreground(that.out.Color(playerColor)).String()
	case entity.OpponentMark:
		style := that.out.String(cell.String()).Foreground(that.out.Color(opponentColor))
		if highlight {
			style = style.Bold().Underline()
		}

		return style.String()
	default:
		return " "
	}
}

// Status is the line shown under the board.
func Status(session *entity.Session) string {
	switch session.Outcome {
	case entity.OutcomePlayerWins:
		return StatusPlayerWins
	case entity.OutcomeOpponentWins:
		return StatusOpponentWins
	case entity.OutcomeDraw:
		return StatusDraw
	}

	if session.IsOpponentTurn() {
		return StatusThinking
	}

	return StatusYourMove
}
