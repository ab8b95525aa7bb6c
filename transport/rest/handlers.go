package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type gameManager interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	MakeTurn(ctx context.Context, id string, move entity.Move) (*entity.Session, error)
	ResetSession(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

var errMissingCell = errors.New("row and col are required")

type turnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type sessionHandler struct {
	logger  *slog.Logger
	manager gameManager
}

func newSessionHandler(logger *slog.Logger, manager gameManager) *sessionHandler {
	return &sessionHandler{
		logger:  logger.With("component", "rest"),
		manager: manager,
	}
}

func (that *sessionHandler) create(w http.ResponseWriter, r *http.Request) {
	session, err := that.manager.StartSession(r.Context())
	if err != nil {
		that.writeError(w, "create", err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (that *sessionHandler) get(w http.ResponseWriter, r *http.Request) {
	session, err := that.manager.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "get", err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (that *sessionHandler) turn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Row == nil || req.Col == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMissingCell.Error()})
		return
	}

	move := entity.Move{Row: *req.Row, Col: *req.Col}
	session, err := that.manager.MakeTurn(r.Context(), chi.URLParam(r, "id"), move)
	if err != nil {
		that.writeError(w, "turn", err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (that *sessionHandler) reset(w http.ResponseWriter, r *http.Request) {
	session, err := that.manager.ResetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "reset", err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (that *sessionHandler) end(w http.ResponseWriter, r *http.Request) {
	if err := that.manager.EndSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "end", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *sessionHandler) writeError(w http.ResponseWriter, method string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		writeJSON(w, status, errorResponse{Error: "internal server error"})

		return
	}

	writeJSON(w, status, errorResponse{Error: apperror.ClientError(err).Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidCell):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
