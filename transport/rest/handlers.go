package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-agent/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
)

const maxBodyBytes = 1 << 12

var (
	errStateRequired      = errors.New("state is required")
	errPlayerTurnRequired = errors.New("player_turn is required")
)

type MoveHandler interface {
	GetMove(w http.ResponseWriter, r *http.Request)
}

type moveService interface {
	GetMove(ctx context.Context, board []int, playerTurn int) (*entity.Move, error)
}

type moveHandler struct {
	logger *slog.Logger

	moves moveService
}

func NewMoveHandler(logger *slog.Logger, moves moveService) MoveHandler {
	return &moveHandler{
		logger: logger.With("component", "moveHandler"),
		moves:  moves,
	}
}

// MoveRequest is the body of POST /get_move.
type MoveRequest struct {
	State      []int `json:"state"`
	PlayerTurn *int  `json:"player_turn"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *moveHandler) GetMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GetMove")

	var req MoveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Info("failed to decode request", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := req.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	move, err := that.moves.GetMove(r.Context(), req.State, *req.PlayerTurn)
	if err != nil {
		status := apperror.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to get move", "error", err)
		}

		writeJSON(w, status, errorResponse{Error: apperror.Message(err)})
		return
	}

	writeJSON(w, http.StatusOK, move)
}

func (that *MoveRequest) validate() error {
	if that.State == nil {
		return errStateRequired
	}

	if that.PlayerTurn == nil {
		return errPlayerTurnRequired
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
