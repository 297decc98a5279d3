package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-agent/internal/agent"
	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
	"github.com/rocketscienceinc/tictactoe-agent/internal/repository"
)

type MoveService interface {
	GetMove(ctx context.Context, board []int, playerTurn int) (*entity.Move, error)
}

type network interface {
	Forward(input *entity.Tensor) (float64, []float64, error)
}

type moveRepo interface {
	Save(ctx context.Context, state *entity.GameState, move *entity.Move) error
	Get(ctx context.Context, state *entity.GameState) (*entity.Move, error)
}

type moveService struct {
	logger *slog.Logger

	net      network
	moveRepo moveRepo
}

// NewMoveService - moveRepo may be nil, then every request goes to the network.
func NewMoveService(logger *slog.Logger, net network, moveRepo moveRepo) MoveService {
	return &moveService{
		logger:   logger.With("component", "moveService"),
		net:      net,
		moveRepo: moveRepo,
	}
}

func (that *moveService) GetMove(ctx context.Context, board []int, playerTurn int) (*entity.Move, error) {
	log := that.logger.With("method", "GetMove")

	if err := entity.ValidateBoard(board); err != nil {
		return nil, fmt.Errorf("invalid board: %w", err)
	}

	if err := entity.ValidatePlayerTurn(playerTurn); err != nil {
		return nil, fmt.Errorf("invalid player turn: %w", err)
	}

	var cells [entity.BoardSize]int
	copy(cells[:], board)

	state := entity.BuildGameState(cells, playerTurn)

	if that.moveRepo != nil && state.HasLegalMoves() {
		cached, err := that.moveRepo.Get(ctx, state)
		switch {
		case err == nil && cached != nil && state.IsAllowed(cached.Move):
			log.Debug("move served from cache", "move", cached.Move)
			return cached, nil
		case err != nil && !errors.Is(err, repository.ErrMoveNotFound):
			log.Warn("move cache lookup failed", "error", err)
		}
	}

	move, err := agent.Predict(state, that.net)
	if err != nil {
		return nil, fmt.Errorf("failed to predict move: %w", err)
	}

	if that.moveRepo != nil {
		if err = that.moveRepo.Save(ctx, state, move); err != nil {
			log.Warn("failed to cache move", "error", err)
		}
	}

	log.Debug("move predicted", "move", move.Move, "value", move.Value)

	return move, nil
}
