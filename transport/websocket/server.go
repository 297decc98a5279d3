package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	ws "nhooyr.io/websocket"

	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
)

const readLimit = 1 << 12

type moveService interface {
	GetMove(ctx context.Context, board []int, playerTurn int) (*entity.Move, error)
}

type Server struct {
	logger *slog.Logger
	moves  moveService

	handlers map[string]func(ctx context.Context, message *Message) ResponsePayload
}

func New(logger *slog.Logger, moves moveService) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		moves:  moves,

		handlers: make(map[string]func(context.Context, *Message) ResponsePayload),
	}

	server.handlers[actionMove] = server.handleMove

	return server
}

// ServeHTTP upgrades the connection and answers messages until the client goes away.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := ws.Accept(w, r, nil)
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}
	defer conn.Close(ws.StatusInternalError, "")

	conn.SetReadLimit(readLimit)

	log.Info("WebSocket connection established")

	err = that.handleMessages(r.Context(), conn)

	switch ws.CloseStatus(err) {
	case ws.StatusNormalClosure, ws.StatusGoingAway:
		log.Info("WebSocket connection closed")
	default:
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *ws.Conn) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Info("failed to unmarshal message", "error", err)
			if err = that.send(ctx, conn, actionError, ResponsePayload{Error: "invalid message"}); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Info("unknown action", "action", message.Action)
			if err = that.send(ctx, conn, actionError, ResponsePayload{Error: "unknown action: " + message.Action}); err != nil {
				return err
			}
			continue
		}

		if err = that.send(ctx, conn, message.Action, handler(ctx, &message)); err != nil {
			return err
		}
	}
}

func (that *Server) send(ctx context.Context, conn *ws.Conn, action string, payload ResponsePayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if err = conn.Write(ctx, ws.MessageText, response); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
