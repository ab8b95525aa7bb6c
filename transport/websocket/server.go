package websocket

import (
	"bufio"
	"context"
	"crypto/sha1" //nolint:gosec // required by the websocket handshake
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	handshakeGUID   = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"
	shutdownTimeout = 5 * time.Second
)

type gameManager interface {
	StartSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	MakeTurn(ctx context.Context, id string, move entity.Move) (*entity.Session, error)
	ResetSession(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

type handlerFunc func(ctx context.Context, message *Message, writer *bufio.Writer) error

type Server struct {
	logger  *slog.Logger
	manager gameManager

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
	}

	server.handlers = map[string]handlerFunc{
		actionNew:   server.handleNewSession,
		actionGet:   server.handleGetSession,
		actionTurn:  server.handleTurn,
		actionReset: server.handleReset,
		actionLeave: server.handleLeave,
	}

	return server
}

func (that *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Get("/ws", that.upgradeToWebSocket)

	return router
}

// Start - starts WebSocket server. Open connections are closed once ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}

		return nil
	}
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(w http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	key := req.Header.Get("Sec-WebSocket-Key")
	if !strings.EqualFold(req.Header.Get("Upgrade"), "websocket") || key == "" {
		http.Error(w, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	hijacker, ok := w.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	conn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}
	defer conn.Close()

	// the server's read timeout is still armed on the hijacked conn
	_ = conn.SetDeadline(time.Time{})

	stop := context.AfterFunc(req.Context(), func() {
		_ = conn.Close()
	})
	defer stop()

	handshake := "HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: " + acceptKey(key) + "\r\n\r\n"

	if _, err = bufrw.WriteString(handshake); err != nil {
		log.Error("failed to write handshake", "error", err)
		return
	}

	if err = bufrw.Flush(); err != nil {
		log.Error("failed to flush handshake", "error", err)
		return
	}

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	if err = that.handleMessages(req.Context(), bufrw); err != nil {
		log.Error("error handling messages", "error", err)
	}

	log.Info("WebSocket connection closed", "remote", conn.RemoteAddr().String())
}

// handleMessages - reads frames until the client closes the connection.
func (that *Server) handleMessages(ctx context.Context, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMessages")

	var (
		pending   []byte
		isPending bool
	)

	for {
		f, err := readFrame(bufrw.Reader)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}

			return err
		}

		switch f.opCode {
		case opPing:
			if err = writeFrame(bufrw.Writer, frame{isFin: true, opCode: opPong, payload: f.payload}); err != nil {
				return err
			}

			continue
		case opPong:
			continue
		case opClose:
			_ = writeFrame(bufrw.Writer, frame{isFin: true, opCode: opClose, payload: closeCode(f.payload)})
			return nil
		case opText:
			pending, isPending = f.payload, true
		case opContinuation:
			if !isPending {
				continue
			}

			pending = append(pending, f.payload...)
			if len(pending) > maxPayloadSize {
				return fmt.Errorf("%w: fragmented message", errFrameTooLarge)
			}
		default:
			log.Warn("ignoring frame", "opcode", f.opCode)
			continue
		}

		if !f.isFin {
			continue
		}

		isPending = false
		if err = that.processMessage(ctx, pending, bufrw.Writer); err != nil {
			return err
		}
	}
}

func (that *Server) processMessage(ctx context.Context, raw []byte, writer *bufio.Writer) error {
	log := that.logger.With("method", "processMessage")

	var message Message
	if err := json.Unmarshal(raw, &message); err != nil {
		log.Warn("failed to unmarshal message", "error", err)
		return that.sendError(writer, actionError, "invalid message")
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action", "action", message.Action)
		return that.sendError(writer, message.Action, "unknown action")
	}

	return handler(ctx, &message, writer)
}

func (that *Server) sendMessage(writer *bufio.Writer, action string, payload ResponsePayload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response, err := json.Marshal(Message{Action: action, Payload: payloadBytes})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if err = writeFrame(writer, frame{isFin: true, opCode: opText, payload: response}); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (that *Server) sendError(writer *bufio.Writer, action, message string) error {
	return that.sendMessage(writer, action, ResponsePayload{Error: message})
}

func acceptKey(key string) string {
	hash := sha1.Sum([]byte(key + handshakeGUID)) //nolint:gosec // required by the websocket handshake
	return base64.StdEncoding.EncodeToString(hash[:])
}

// closeCode keeps only the status code of a close payload.
func closeCode(payload []byte) []byte {
	if len(payload) < 2 {
		return nil
	}

	return payload[:2]
}
