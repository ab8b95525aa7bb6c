package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

// Outcome is derived from the board and never set by hand.
type Outcome string

const (
	OutcomeOngoing      Outcome = "ongoing"
	OutcomePlayerWins   Outcome = "player_wins"
	OutcomeOpponentWins Outcome = "opponent_wins"
	OutcomeDraw         Outcome = "draw"
)

type SessionState string

const (
	StateAwaitingPlayerMove   SessionState = "awaiting_player_move"
	StateAwaitingOpponentMove SessionState = "awaiting_opponent_move"
	StateGameOver             SessionState = "game_over"
)

// Session owns the board of one game against the engine together with its turn state.
type Session struct {
	ID               string       `json:"id"`
	Board            Board        `json:"board"`
	State            SessionState `json:"state"`
	Outcome          Outcome      `json:"outcome"`
	OpponentFirst    bool         `json:"opponent_first,omitempty"`
	LastOpponentMove *Move        `json:"last_opponent_move,omitempty"`
}

func NewSession(id string, opponentFirst bool) *Session {
	session := &Session{
		ID:            id,
		OpponentFirst: opponentFirst,
	}
	session.Reset()

	return session
}

// Reset clears the board and returns the session to its initial state.
func (that *Session) Reset() {
	that.Board = Board{}
	that.Outcome = OutcomeOngoing
	that.LastOpponentMove = nil
	that.State = that.initialState()
}

func (that *Session) PlacePlayerMark(move Move) error {
	if err := that.place(move, PlayerMark, StateAwaitingPlayerMove); err != nil {
		return err
	}

	that.advance(StateAwaitingOpponentMove)

	return nil
}

func (that *Session) PlaceOpponentMark(move Move) error {
	if err := that.place(move, OpponentMark, StateAwaitingOpponentMove); err != nil {
		return err
	}

	that.LastOpponentMove = &move
	that.advance(StateAwaitingPlayerMove)

	return nil
}

func (that *Session) IsOver() bool {
	return that.State == StateGameOver
}

func (that *Session) IsPlayerTurn() bool {
	return that.State == StateAwaitingPlayerMove
}

func (that *Session) IsOpponentTurn() bool {
	return that.State == StateAwaitingOpponentMove
}

func (that *Session) place(move Move, mark Cell, expected SessionState) error {
	if that.IsOver() {
		return apperror.ErrGameFinished
	}

	if that.State != expected {
		return apperror.ErrNotYourTurn
	}

	if !move.Valid() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidCell, move)
	}

	if that.Board[move.Row][move.Col] != EmptyCell {
		return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, move)
	}

	that.Board[move.Row][move.Col] = mark

	return nil
}

// advance recomputes the outcome after a placement.
func (that *Session) advance(next SessionState) {
	that.Outcome = that.Board.Outcome()
	if that.Outcome != OutcomeOngoing {
		that.State = StateGameOver
		return
	}

	that.State = next
}

func (that *Session) initialState() SessionState {
	if that.OpponentFirst {
		return StateAwaitingOpponentMove
	}

	return StateAwaitingPlayerMove
}
