package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-agent/internal/apperror"
)

const (
	BoardSize = 9

	EmptyCell = 0
	PlayerX   = 1
	PlayerO   = -1
)

// InputDim is the shape the encoded state is fed to the model with: two planes of 3x3.
var InputDim = []int{2, 3, 3}

var ErrShape = errors.New("shape does not match data length")

// GameState is the perspective-relative encoding of a board for the player to move.
type GameState struct {
	Board          [BoardSize]int
	PlayerTurn     int
	StateBinary    [2 * BoardSize]int
	InputDim       []int
	AllowedActions []int
}

// ValidateBoard checks the raw payload before it is encoded.
func ValidateBoard(board []int) error {
	if len(board) != BoardSize {
		return fmt.Errorf("%w: got %d", apperror.ErrInvalidBoard, len(board))
	}

	for i, cell := range board {
		if cell != EmptyCell && cell != PlayerX && cell != PlayerO {
			return fmt.Errorf("%w: cell %d has value %d", apperror.ErrInvalidCell, i, cell)
		}
	}

	return nil
}

func ValidatePlayerTurn(playerTurn int) error {
	if playerTurn != PlayerX && playerTurn != PlayerO {
		return fmt.Errorf("%w: got %d", apperror.ErrInvalidPlayerTurn, playerTurn)
	}

	return nil
}

// BuildGameState encodes the board from the point of view of playerTurn:
// the first nine entries mark the mover's cells, the next nine the opponent's.
func BuildGameState(board [BoardSize]int, playerTurn int) *GameState {
	state := &GameState{
		Board:          board,
		PlayerTurn:     playerTurn,
		InputDim:       append([]int(nil), InputDim...),
		AllowedActions: make([]int, 0, BoardSize),
	}

	for i, cell := range board {
		switch cell {
		case playerTurn:
			state.StateBinary[i] = 1
		case -playerTurn:
			state.StateBinary[BoardSize+i] = 1
		}

		if cell == EmptyCell {
			state.AllowedActions = append(state.AllowedActions, i)
		}
	}

	return state
}

// Tensor returns the binary state reshaped into InputDim.
func (that *GameState) Tensor() (*Tensor, error) {
	data := make([]float64, len(that.StateBinary))
	for i, v := range that.StateBinary {
		data[i] = float64(v)
	}

	return NewTensor(data, that.InputDim...)
}

func (that *GameState) IsAllowed(action int) bool {
	for _, allowed := range that.AllowedActions {
		if allowed == action {
			return true
		}
	}

	return false
}

func (that *GameState) HasLegalMoves() bool {
	return len(that.AllowedActions) > 0
}
