package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"sync"

	"github.com/patrikeh/go-deep"

	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
)

const Actions = entity.BoardSize

var (
	ErrInvalidModel  = errors.New("invalid model")
	ErrShapeMismatch = errors.New("input shape does not match model")
	ErrOutputShape   = errors.New("unexpected model output shape")
)

// Config describes the architecture of a freshly initialised network.
type Config struct {
	InputDim []int
	Hidden   []int
	StdDev   float64
}

func DefaultConfig() Config {
	return Config{
		InputDim: entity.InputDim,
		Hidden:   []int{64, 32},
		StdDev:   0.1,
	}
}

// DualNet is a two-head network: a tanh value head and a linear policy head
// over the same flattened input.
type DualNet struct {
	id       string
	inputDim []int

	// go-deep keeps neuron activations on the network, so forward passes are serialised.
	mu     sync.Mutex
	value  *deep.Neural
	policy *deep.Neural
}

type dump struct {
	InputDim []int      `json:"input_dim"`
	Value    *deep.Dump `json:"value"`
	Policy   *deep.Dump `json:"policy"`
}

// New builds a network with normally distributed weights drawn from seed.
func New(cfg Config, seed int64) *DualNet {
	rng := rand.New(rand.NewSource(seed)) //nolint: gosec // weights, not secrets
	weight := func() float64 {
		return rng.NormFloat64() * cfg.StdDev
	}

	inputs := size(cfg.InputDim)

	value := deep.NewNeural(&deep.Config{
		Inputs:     inputs,
		Layout:     append(slices.Clone(cfg.Hidden), 1),
		Activation: deep.ActivationTanh,
		Mode:       deep.ModeDefault,
		Weight:     weight,
		Bias:       true,
	})

	policy := deep.NewNeural(&deep.Config{
		Inputs:     inputs,
		Layout:     append(slices.Clone(cfg.Hidden), Actions),
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeRegression,
		Weight:     weight,
		Bias:       true,
	})

	net := &DualNet{
		inputDim: slices.Clone(cfg.InputDim),
		value:    value,
		policy:   policy,
	}

	if raw, err := net.Marshal(); err == nil {
		net.id = fingerprint(raw)
	}

	return net
}

// Load reads a model written by Save. It is called once at process start.
func Load(path string) (*DualNet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	net, err := Unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", path, err)
	}

	return net, nil
}

func Unmarshal(raw []byte) (*DualNet, error) {
	var d dump
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	if d.Value == nil || d.Policy == nil || d.Value.Config == nil || d.Policy.Config == nil {
		return nil, fmt.Errorf("%w: missing head", ErrInvalidModel)
	}

	inputs := size(d.InputDim)
	if inputs <= 0 || d.Value.Config.Inputs != inputs || d.Policy.Config.Inputs != inputs {
		return nil, fmt.Errorf("%w: input_dim %v does not match head inputs", ErrInvalidModel, d.InputDim)
	}

	if last(d.Value.Config.Layout) != 1 {
		return nil, fmt.Errorf("%w: value head must have one output", ErrInvalidModel)
	}

	if last(d.Policy.Config.Layout) != Actions {
		return nil, fmt.Errorf("%w: policy head must have %d outputs", ErrInvalidModel, Actions)
	}

	return &DualNet{
		id:       fingerprint(raw),
		inputDim: d.InputDim,
		value:    deep.FromDump(d.Value),
		policy:   deep.FromDump(d.Policy),
	}, nil
}

func (that *DualNet) Marshal() ([]byte, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	raw, err := json.Marshal(dump{
		InputDim: that.inputDim,
		Value:    that.value.Dump(),
		Policy:   that.policy.Dump(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model: %w", err)
	}

	return raw, nil
}

func (that *DualNet) Save(path string) error {
	raw, err := that.Marshal()
	if err != nil {
		return err
	}

	if err = os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}

	return nil
}

// ID fingerprints the weights the network was built from.
func (that *DualNet) ID() string {
	return that.id
}

func (that *DualNet) InputDim() []int {
	return slices.Clone(that.inputDim)
}

// Forward runs a batch of exactly one sample whose remaining dimensions equal InputDim.
func (that *DualNet) Forward(input *entity.Tensor) (float64, []float64, error) {
	if len(input.Shape) != len(that.inputDim)+1 || input.Shape[0] != 1 {
		return 0, nil, fmt.Errorf("%w: expected batch of one %v, got %v", ErrShapeMismatch, that.inputDim, input.Shape)
	}

	if !slices.Equal(input.Shape[1:], that.inputDim) {
		return 0, nil, fmt.Errorf("%w: expected %v, got %v", ErrShapeMismatch, that.inputDim, input.Shape[1:])
	}

	features := slices.Clone(input.Data)

	that.mu.Lock()
	value := that.value.Predict(features)
	logits := that.policy.Predict(features)
	that.mu.Unlock()

	if len(value) != 1 || len(logits) != Actions {
		return 0, nil, fmt.Errorf("%w: value %d, logits %d", ErrOutputShape, len(value), len(logits))
	}

	return value[0], slices.Clone(logits), nil
}

func fingerprint(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}

func size(shape []int) int {
	if len(shape) == 0 {
		return 0
	}

	n := 1
	for _, dim := range shape {
		if dim <= 0 {
			return 0
		}
		n *= dim
	}

	return n
}

func last(layout []int) int {
	if len(layout) == 0 {
		return 0
	}

	return layout[len(layout)-1]
}
