package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-agent/internal/config"
	"github.com/rocketscienceinc/tictactoe-agent/internal/model"
	"github.com/rocketscienceinc/tictactoe-agent/internal/repository"
	"github.com/rocketscienceinc/tictactoe-agent/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-agent/internal/service"
	"github.com/rocketscienceinc/tictactoe-agent/transport/rest"
	"github.com/rocketscienceinc/tictactoe-agent/transport/websocket"
)

const shutdownTimeout = 5 * time.Second

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	net, err := model.Load(conf.ModelPath)
	if err != nil {
		return fmt.Errorf("could not load model: %w", err)
	}

	log.Info("Model loaded", "path", conf.ModelPath, "id", net.ID(), "input_dim", net.InputDim())

	var moveRepo repository.MoveRepository
	if conf.Redis.Enabled {
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, redisErr := storage.NewRedisStorage(ctx, redisAddrString)
		if redisErr != nil {
			return fmt.Errorf("could not connect to redis storage: %w", redisErr)
		}

		defer func() {
			if closeErr := redisStorage.Close(); closeErr != nil {
				log.Error("could not close redis storage", "error", closeErr)
			}
		}()

		moveRepo = repository.NewMoveRepository(redisStorage.Connection, conf.Redis.TTL, net.ID())
		log.Info("Move cache enabled", "addr", redisAddrString, "ttl", conf.Redis.TTL)
	}

	moveService := service.NewMoveService(logger, net, moveRepo)
	wsServer := websocket.New(logger, moveService)
	srv := rest.NewServer(conf.HTTPPort, rest.NewHandler(logger, moveService, wsServer))

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown failed: %w", err)
		}
		return nil
	})

	return group.Wait()
}
