package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-agent/internal/apperror"
)

var errMissingFields = errors.New("state and player_turn are required")

func (that *Server) handleMove(ctx context.Context, msg *Message) ResponsePayload {
	log := that.logger.With("method", "handleMove")

	var payload MovePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return ResponsePayload{Error: "invalid payload"}
	}

	if payload.State == nil || payload.PlayerTurn == nil {
		return ResponsePayload{Error: errMissingFields.Error()}
	}

	move, err := that.moves.GetMove(ctx, payload.State, *payload.PlayerTurn)
	if err != nil {
		log.Info("failed to get move", "error", err)
		return ResponsePayload{Error: apperror.Message(err)}
	}

	return ResponsePayload{Move: move}
}
