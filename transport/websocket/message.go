package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
)

const (
	actionMove  = "move"
	actionError = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type MovePayload struct {
	State      []int `json:"state"`
	PlayerTurn *int  `json:"player_turn"`
}

type ResponsePayload struct {
	*entity.Move
	Error string `json:"error,omitempty"`
}
