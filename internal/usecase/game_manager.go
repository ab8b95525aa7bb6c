package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type moveFinder interface {
	FindBestMove(board entity.Board) (tictactoe.SearchResult, error)
}

// GameManager runs sessions between a human player and the engine.
type GameManager struct {
	logger *slog.Logger

	sessionRepo sessionRepo
	engine      moveFinder

	opponentFirst bool
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, engine moveFinder, opponentFirst bool) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		sessionRepo: sessionRepo,
		engine:      engine,

		opponentFirst: opponentFirst,
	}
}

// StartSession creates and stores a new session. When the engine moves first its opening is already on the board.
func (that *GameManager) StartSession(ctx context.Context) (*entity.Session, error) {
	session := entity.NewSession(uuid.NewString(), that.opponentFirst)

	if err := that.opponentTurn(session); err != nil {
		return nil, err
	}

	if err := that.saveSession(ctx, session); err != nil {
		return nil, err
	}

	that.logger.Info("session started", "session_id", session.ID, "opponent_first", session.OpponentFirst)

	return session, nil
}

func (that *GameManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// MakeTurn places the player's mark and, unless that ended the game, answers with the engine's move.
// Both marks are stored together; a concurrent change to the session replays the turn on the fresh state.
func (that *GameManager) MakeTurn(ctx context.Context, id string, move entity.Move) (*entity.Session, error) {
	session, err := that.sessionRepo.Update(ctx, id, func(session *entity.Session) error {
		if err := session.PlacePlayerMark(move); err != nil {
			return fmt.Errorf("failed to place player mark: %w", err)
		}

		return that.opponentTurn(session)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if session.IsOver() {
		that.logger.Info("game over", "session_id", session.ID, "outcome", session.Outcome)
	}

	return session, nil
}

func (that *GameManager) ResetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.Update(ctx, id, func(session *entity.Session) error {
		session.Reset()

		return that.opponentTurn(session)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset session: %w", err)
	}

	return session, nil
}

func (that *GameManager) EndSession(ctx context.Context, id string) error {
	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session ended", "session_id", id)

	return nil
}

// opponentTurn lets the engine move when the session waits for it. Otherwise it does nothing.
func (that *GameManager) opponentTurn(session *entity.Session) error {
	log := that.logger.With("method", "opponentTurn")

	if !session.IsOpponentTurn() {
		return nil
	}

	result, err := that.engine.FindBestMove(session.Board)
	if err != nil {
		return fmt.Errorf("failed to find opponent move: %w", err)
	}

	if err = session.PlaceOpponentMark(result.Move); err != nil {
		return fmt.Errorf("failed to place opponent mark: %w", err)
	}

	log.Debug("opponent moved", "session_id", session.ID, "move", result.Move.String(), "score", result.Score, "nodes", result.Nodes)

	return nil
}

func (that *GameManager) saveSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}
