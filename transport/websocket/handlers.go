package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	actionNew   = "session:new"
	actionGet   = "session:get"
	actionTurn  = "session:turn"
	actionReset = "session:reset"
	actionLeave = "session:leave"
	actionError = "error"
)

var (
	errInvalidPayload   = errors.New("invalid payload")
	errMissingSessionID = errors.New("session_id is required")
	errMissingCell      = errors.New("row and col are required")
)

func (that *Server) handleNewSession(ctx context.Context, msg *Message, writer *bufio.Writer) error {
	session, err := that.manager.StartSession(ctx)

	return that.reply(writer, msg.Action, session, err)
}

func (that *Server) handleGetSession(ctx context.Context, msg *Message, writer *bufio.Writer) error {
	payload, err := parsePayload(msg)
	if err != nil {
		return that.sendError(writer, msg.Action, err.Error())
	}

	session, err := that.manager.GetSession(ctx, payload.SessionID)

	return that.reply(writer, msg.Action, session, err)
}

func (that *Server) handleTurn(ctx context.Context, msg *Message, writer *bufio.Writer) error {
	payload, err := parsePayload(msg)
	if err != nil {
		return that.sendError(writer, msg.Action, err.Error())
	}

	if payload.Row == nil || payload.Col == nil {
		return that.sendError(writer, msg.Action, errMissingCell.Error())
	}

	move := entity.Move{Row: *payload.Row, Col: *payload.Col}
	session, err := that.manager.MakeTurn(ctx, payload.SessionID, move)

	return that.reply(writer, msg.Action, session, err)
}

func (that *Server) handleReset(ctx context.Context, msg *Message, writer *bufio.Writer) error {
	payload, err := parsePayload(msg)
	if err != nil {
		return that.sendError(writer, msg.Action, err.Error())
	}

	session, err := that.manager.ResetSession(ctx, payload.SessionID)

	return that.reply(writer, msg.Action, session, err)
}

func (that *Server) handleLeave(ctx context.Context, msg *Message, writer *bufio.Writer) error {
	payload, err := parsePayload(msg)
	if err != nil {
		return that.sendError(writer, msg.Action, err.Error())
	}

	err = that.manager.EndSession(ctx, payload.SessionID)

	return that.reply(writer, msg.Action, nil, err)
}

// reply sends the session, or the error text when the client caused err. Server faults are logged and masked.
func (that *Server) reply(writer *bufio.Writer, action string, session *entity.Session, err error) error {
	if err == nil {
		return that.sendMessage(writer, action, ResponsePayload{Session: session})
	}

	if clientErr := apperror.ClientError(err); clientErr != nil {
		return that.sendError(writer, action, clientErr.Error())
	}

	that.logger.Error("action failed", "action", action, "error", err)

	return that.sendError(writer, action, "internal server error")
}

func parsePayload(msg *Message) (RequestPayload, error) {
	var payload RequestPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return RequestPayload{}, errInvalidPayload
		}
	}

	if payload.SessionID == "" {
		return RequestPayload{}, errMissingSessionID
	}

	return payload, nil
}
