package agent

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-agent/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
	"github.com/rocketscienceinc/tictactoe-agent/internal/model"
)

// MaskedLogit is written over the logits of occupied cells.
const MaskedLogit = -100.0

type network interface {
	Forward(input *entity.Tensor) (float64, []float64, error)
}

// Predict picks the most probable legal move for the encoded state.
func Predict(state *entity.GameState, net network) (*entity.Move, error) {
	if !state.HasLegalMoves() {
		return nil, apperror.ErrNoLegalMoves
	}

	input, err := state.Tensor()
	if err != nil {
		return nil, fmt.Errorf("failed to reshape state: %w", err)
	}

	value, logits, err := net.Forward(input.Batch())
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	if len(logits) != entity.BoardSize {
		return nil, fmt.Errorf("%w: got %d logits", model.ErrOutputShape, len(logits))
	}

	probs := Softmax(Mask(logits, state.AllowedActions))

	return &entity.Move{
		Move:          ArgmaxOver(probs, state.AllowedActions),
		Value:         value,
		Probabilities: probs,
	}, nil
}

// Mask returns a copy of logits where every index outside allowed is MaskedLogit.
func Mask(logits []float64, allowed []int) []float64 {
	masked := make([]float64, len(logits))
	for i := range masked {
		masked[i] = MaskedLogit
	}

	for _, action := range allowed {
		if action >= 0 && action < len(logits) {
			masked[action] = logits[action]
		}
	}

	return masked
}

// Softmax shifts by the maximum before exponentiating; the ratios are unchanged.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}

	highest := logits[0]
	for _, l := range logits[1:] {
		highest = math.Max(highest, l)
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(l - highest)
		sum += probs[i]
	}

	for i := range probs {
		probs[i] /= sum
	}

	return probs
}

// ArgmaxOver is Argmax restricted to indices, so a legal move is picked even when
// every legal logit is below MaskedLogit. indices must be ascending and non-empty.
func ArgmaxOver(values []float64, indices []int) int {
	best := indices[0]
	for _, i := range indices[1:] {
		if values[i] > values[best] {
			best = i
		}
	}

	return best
}

// Argmax returns the index of the largest value; the lowest index wins ties.
func Argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}

	return best
}
