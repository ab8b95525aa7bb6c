package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

func newTestGame(t *testing.T, opponentFirst bool) (*Game, *bytes.Buffer) {
	t.Helper()

	engine, err := tictactoe.NewEngine(tictactoe.DefaultDepth, tictactoe.PruneFull)
	require.NoError(t, err)

	var buf bytes.Buffer
	renderer := NewRenderer(termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii)))
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return NewGame(logger, engine, renderer, opponentFirst), &buf
}

func input(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestGame_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Engine answers each move", func(t *testing.T) {
		// Given: a new game
		game, out := newTestGame(t, false)

		// When: the player takes a corner and quits
		err := game.Run(ctx, input("0 0", "quit"))

		// Then: the engine took the centre and the player is to move again
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerMark, game.Session().Board[0][0])
		assert.Equal(t, entity.OpponentMark, game.Session().Board[1][1])
		assert.Contains(t, out.String(), StatusYourMove)
		assert.Contains(t, out.String(), "1    | O |")
	})

	t.Run("Thinking status precedes the engine's board", func(t *testing.T) {
		game, out := newTestGame(t, false)

		err := game.Run(ctx, input("0 0", "quit"))

		require.NoError(t, err)

		text := out.String()
		thinking := strings.Index(text, StatusThinking)
		require.GreaterOrEqual(t, thinking, 0)
		assert.Greater(t, strings.LastIndex(text, "1    | O |"), thinking)
	})

	t.Run("Thinking status only when the engine searches", func(t *testing.T) {
		game, out := newTestGame(t, false)

		// the fifth move fills the board
		err := game.Run(ctx, input("0 0", "0,1", "2 0", "1 2", "2 2"))

		require.NoError(t, err)
		assert.Equal(t, 4, strings.Count(out.String(), StatusThinking))
	})

	t.Run("AI wins", func(t *testing.T) {
		game, out := newTestGame(t, false)

		err := game.Run(ctx, input("0 0", "2 2", "0 2", "1 0"))

		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeOpponentWins, game.Session().Outcome)
		assert.Contains(t, out.String(), StatusOpponentWins)
	})

	t.Run("Tie", func(t *testing.T) {
		game, out := newTestGame(t, false)

		err := game.Run(ctx, input("0 0", "0,1", "2 0", "1 2", "2 2"))

		require.NoError(t, err)
		assert.Equal(t, entity.OutcomeDraw, game.Session().Outcome)
		assert.True(t, game.Session().Board.IsFull())
		assert.Contains(t, out.String(), StatusDraw)
	})

	t.Run("Bad input is reported and ignored", func(t *testing.T) {
		// Given: a game where the engine holds the centre
		game, out := newTestGame(t, false)

		// When: the player repeats moves, leaves the board and types nonsense
		err := game.Run(ctx, input("0 0", "1 1", "3 3", "hello", "quit"))

		// Then: every mistake is shown and the board is unchanged
		require.NoError(t, err)
		assert.Contains(t, out.String(), apperror.ErrCellOccupied.Error())
		assert.Contains(t, out.String(), apperror.ErrInvalidCell.Error())
		assert.Contains(t, out.String(), ErrUnknownCommand.Error())
		assert.Equal(t, 1, game.Session().Board.Count(entity.PlayerMark))
		assert.Equal(t, 1, game.Session().Board.Count(entity.OpponentMark))
	})

	t.Run("Moves after the end are rejected", func(t *testing.T) {
		game, out := newTestGame(t, false)

		err := game.Run(ctx, input("0 0", "2 2", "0 2", "1 0", "2 0"))

		require.NoError(t, err)
		assert.Contains(t, out.String(), apperror.ErrGameFinished.Error())
		assert.Equal(t, entity.EmptyCell, game.Session().Board[2][0])
	})

	t.Run("Reset starts over", func(t *testing.T) {
		game, _ := newTestGame(t, false)

		err := game.Run(ctx, input("0 0", "reset"))

		require.NoError(t, err)
		assert.Equal(t, entity.Board{}, game.Session().Board)
		assert.Equal(t, entity.StateAwaitingPlayerMove, game.Session().State)
	})

	t.Run("Engine opens when it moves first", func(t *testing.T) {
		game, out := newTestGame(t, true)

		err := game.Run(ctx, input("quit"))

		require.NoError(t, err)
		assert.Equal(t, entity.OpponentMark, game.Session().Board[0][0])
		assert.True(t, game.Session().IsPlayerTurn())
		assert.True(t, strings.HasPrefix(out.String(), StatusThinking+"\n"))
	})

	t.Run("End of input ends the game", func(t *testing.T) {
		game, _ := newTestGame(t, false)

		require.NoError(t, game.Run(ctx, strings.NewReader("")))
	})

	t.Run("Cancelled context stops the loop", func(t *testing.T) {
		game, _ := newTestGame(t, false)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := game.Run(cancelled, input("0 0"))

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, entity.Board{}, game.Session().Board)
	})
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		line    string
		want    entity.Move
		wantErr bool
	}{
		{line: "0 2", want: entity.Move{Row: 0, Col: 2}},
		{line: "2,1", want: entity.Move{Row: 2, Col: 1}},
		{line: "1\t1", want: entity.Move{Row: 1, Col: 1}},
		{line: "1", wantErr: true},
		{line: "a b", wantErr: true},
		{line: "1 2 3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseMove(tt.line)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCommand)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
