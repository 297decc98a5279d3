package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_ShutdownCancelsRequests(t *testing.T) {
	// Given: a server whose handler only returns once its request context ends
	entered := make(chan struct{})
	finished := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-r.Context().Done()
		close(finished)
	})

	srv := NewServer("0", handler)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err == nil {
			resp.Body.Close()
		}
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was never called")
	}

	// When: the server shuts down
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(ctx)

	// Then: the long-lived handler is released and shutdown completes in time
	require.NoError(t, err)
	select {
	case <-finished:
	default:
		t.Fatal("handler still running after shutdown")
	}
	assert.True(t, errors.Is(<-serveErr, http.ErrServerClosed))
}
