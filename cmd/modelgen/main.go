// Command modelgen writes an untrained model file in the format the server loads.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-agent/internal/model"
)

func main() {
	out := flag.String("out", "model.json", "Path of the model file to write")
	seed := flag.Int64("seed", 1, "Seed for weight initialisation")
	hidden := flag.String("hidden", "64,32", "Comma separated hidden layer sizes")
	stdDev := flag.Float64("stddev", 0.1, "Standard deviation of initial weights")

	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	layers, err := parseLayers(*hidden)
	if err != nil {
		logger.Error("invalid -hidden", "error", err)
		os.Exit(2)
	}

	cfg := model.DefaultConfig()
	cfg.Hidden = layers
	cfg.StdDev = *stdDev

	if err = model.New(cfg, *seed).Save(*out); err != nil {
		logger.Error("failed to write model", "error", err)
		os.Exit(1)
	}

	logger.Info("model written", "path", *out, "seed", *seed, "hidden", layers)
}

func parseLayers(spec string) ([]int, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	parts := strings.Split(spec, ",")
	layers := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", part, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("layer %q must be positive", part)
		}
		layers = append(layers, n)
	}

	return layers, nil
}
