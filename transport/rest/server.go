package rest

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-agent/web"
)

// NewHandler wires every REST route. websocket may be nil.
func NewHandler(logger *slog.Logger, moves moveService, websocket http.Handler) http.Handler {
	moveHandler := NewMoveHandler(logger, moves)
	ping := NewPingHandler()

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", http.FileServerFS(web.Static))
	mux.HandleFunc("POST /get_move", moveHandler.GetMove)
	mux.HandleFunc("GET /ping", ping.PingHandler)

	if websocket != nil {
		mux.Handle("GET /ws", websocket)
	}

	return logRequests(logger, mux)
}

// NewServer - request contexts are cancelled on Shutdown, which also ends hijacked websocket sessions.
func NewServer(port string, handler http.Handler) *http.Server {
	baseCtx, cancel := context.WithCancel(context.Background())

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}
	srv.RegisterOnShutdown(cancel)

	return srv
}
