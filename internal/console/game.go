package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const (
	commandQuit  = "quit"
	commandReset = "reset"
	commandHelp  = "help"
)

var ErrUnknownCommand = errors.New("unknown command")

type moveFinder interface {
	FindBestMove(board entity.Board) (tictactoe.SearchResult, error)
}

// Game is a terminal game between the user and the engine. It keeps its session in memory.
type Game struct {
	logger   *slog.Logger
	engine   moveFinder
	renderer *Renderer

	session *entity.Session
}

func NewGame(logger *slog.Logger, engine moveFinder, renderer *Renderer, opponentFirst bool) *Game {
	return &Game{
		logger:   logger.With("component", "console"),
		engine:   engine,
		renderer: renderer,
		session:  entity.NewSession("console", opponentFirst),
	}
}

func (that *Game) Session() *entity.Session {
	return that.session
}

// Run reads commands from in until quit, end of input or ctx is done.
func (that *Game) Run(ctx context.Context, in io.Reader) error {
	if err := that.opponentTurn(); err != nil {
		return err
	}

	that.renderer.Help()
	that.renderer.Session(that.session)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}

		switch line {
		case commandQuit, "q", "exit":
			return nil
		case commandHelp, "?":
			that.renderer.Help()
			continue
		case commandReset:
			that.session.Reset()
			if err := that.opponentTurn(); err != nil {
				return err
			}
		default:
			if err := that.playerTurn(line); err != nil {
				that.renderer.Error(err)
				continue
			}

			if err := that.opponentTurn(); err != nil {
				return err
			}
		}

		that.renderer.Session(that.session)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *Game) playerTurn(line string) error {
	move, err := parseMove(line)
	if err != nil {
		return err
	}

	return that.session.PlacePlayerMark(move)
}

func (that *Game) opponentTurn() error {
	log := that.logger.With("method", "opponentTurn")

	if !that.session.IsOpponentTurn() {
		return nil
	}

	that.renderer.Status(that.session)

	result, err := that.engine.FindBestMove(that.session.Board)
	if err != nil {
		return fmt.Errorf("failed to find opponent move: %w", err)
	}

	if err = that.session.PlaceOpponentMark(result.Move); err != nil {
		return fmt.Errorf("failed to place opponent mark: %w", err)
	}

	log.Debug("opponent moved", "move", result.Move.String(), "score", result.Score, "nodes", result.Nodes)

	return nil
}

// parseMove accepts "<row> <col>" and "<row>,<col>".
func parseMove(line string) (entity.Move, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) != 2 {
		return entity.Move{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return entity.Move{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return entity.Move{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
	}

	return entity.Move{Row: row, Col: col}, nil
}
