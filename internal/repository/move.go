package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
)

var ErrMoveNotFound = errors.New("move not found")

type MoveRepository interface {
	Save(ctx context.Context, state *entity.GameState, move *entity.Move) error
	Get(ctx context.Context, state *entity.GameState) (*entity.Move, error)
}

type dbMove struct {
	client  *redis.Client
	ttl     time.Duration
	modelID string
}

// NewMoveRepository caches moves decided by the model identified by modelID;
// ttl of zero keeps them forever.
func NewMoveRepository(client *redis.Client, ttl time.Duration, modelID string) MoveRepository {
	return &dbMove{
		client:  client,
		ttl:     ttl,
		modelID: modelID,
	}
}

func (that *dbMove) Save(ctx context.Context, state *entity.GameState, move *entity.Move) error {
	moveJSON, err := json.Marshal(move)
	if err != nil {
		return fmt.Errorf("could not marshal move: %w", err)
	}

	err = that.client.Set(ctx, moveKey(that.modelID, state), moveJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set move: %w", err)
	}

	return nil
}

func (that *dbMove) Get(ctx context.Context, state *entity.GameState) (*entity.Move, error) {
	response, err := that.client.Get(ctx, moveKey(that.modelID, state)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrMoveNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get move: %w", err)
	}

	var cached entity.Move
	if err = json.Unmarshal([]byte(response), &cached); err != nil {
		return nil, fmt.Errorf("failed to unmarshal move: %w", err)
	}

	return &cached, nil
}

// moveKey - "move:<model_id>:<player_turn>:<c0,...,c8>".
func moveKey(modelID string, state *entity.GameState) string {
	cells := make([]string, len(state.Board))
	for i, cell := range state.Board {
		cells[i] = strconv.Itoa(cell)
	}

	return "move:" + modelID + ":" + strconv.Itoa(state.PlayerTurn) + ":" + strings.Join(cells, ",")
}
