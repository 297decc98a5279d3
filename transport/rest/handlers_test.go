package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-agent/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
	"github.com/rocketscienceinc/tictactoe-agent/internal/model"
	"github.com/rocketscienceinc/tictactoe-agent/internal/service"
)

var errInference = errors.New("inference exploded")

type mockMoveService struct {
	mock.Mock
}

func (that *mockMoveService) GetMove(ctx context.Context, board []int, playerTurn int) (*entity.Move, error) {
	args := that.Called(ctx, board, playerTurn)
	move, _ := args.Get(0).(*entity.Move)
	return move, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postMove(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/get_move", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestMoveHandler_GetMove(t *testing.T) {
	t.Run("Returns the move", func(t *testing.T) {
		// Given: a service that answers 3
		svc := &mockMoveService{}
		svc.On("GetMove", mock.Anything, []int{0, 0, 0, 0, 1, 0, 0, 0, -1}, 1).
			Return(&entity.Move{Move: 3, Value: 0.1, Probabilities: make([]float64, 9)}, nil).
			Once()
		handler := NewHandler(discardLogger(), svc, nil)

		// When: the reference board is posted
		rec := postMove(t, handler, `{"state":[0,0,0,0,1,0,0,0,-1],"player_turn":1}`)

		// Then: the response carries the move
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.InDelta(t, 3, body["move"], 0)
		svc.AssertExpectations(t)
	})

	t.Run("Malformed JSON is a client error", func(t *testing.T) {
		svc := &mockMoveService{}
		handler := NewHandler(discardLogger(), svc, nil)

		rec := postMove(t, handler, `{"state":[0,0`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "GetMove", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Missing fields are client errors", func(t *testing.T) {
		svc := &mockMoveService{}
		handler := NewHandler(discardLogger(), svc, nil)

		rec := postMove(t, handler, `{"player_turn":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "state is required")

		rec = postMove(t, handler, `{"state":[0,0,0,0,0,0,0,0,0]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "player_turn is required")
	})

	t.Run("Wrong types are client errors", func(t *testing.T) {
		svc := &mockMoveService{}
		handler := NewHandler(discardLogger(), svc, nil)

		rec := postMove(t, handler, `{"state":"xoxoxoxox","player_turn":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Maps service errors to statuses", func(t *testing.T) {
		cases := []struct {
			err    error
			status int
		}{
			{apperror.ErrInvalidBoard, http.StatusBadRequest},
			{apperror.ErrInvalidCell, http.StatusBadRequest},
			{apperror.ErrInvalidPlayerTurn, http.StatusBadRequest},
			{apperror.ErrNoLegalMoves, http.StatusUnprocessableEntity},
			{errInference, http.StatusInternalServerError},
		}

		for _, tc := range cases {
			svc := &mockMoveService{}
			svc.On("GetMove", mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err).Once()
			handler := NewHandler(discardLogger(), svc, nil)

			rec := postMove(t, handler, `{"state":[0,0,0,0,0,0,0,0,0],"player_turn":1}`)

			assert.Equal(t, tc.status, rec.Code, tc.err.Error())
			assert.NotContains(t, rec.Body.String(), "exploded")
		}
	})

	t.Run("Only POST is routed", func(t *testing.T) {
		handler := NewHandler(discardLogger(), &mockMoveService{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/get_move", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestServer_EndToEnd(t *testing.T) {
	// Given: the real service over a freshly initialised network
	net := model.New(model.DefaultConfig(), 9)
	svc := service.NewMoveService(discardLogger(), net, nil)
	srv := httptest.NewServer(NewHandler(discardLogger(), svc, nil))
	t.Cleanup(srv.Close)

	t.Run("Reference board", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/get_move", "application/json",
			strings.NewReader(`{"state":[0,0,0,0,1,0,0,0,-1],"player_turn":1}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var move entity.Move
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&move))
		assert.Contains(t, []int{0, 1, 2, 3, 5, 6, 7}, move.Move)
	})

	t.Run("Full board", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/get_move", "application/json",
			strings.NewReader(`{"state":[1,-1,1,-1,1,-1,-1,1,-1],"player_turn":1}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var body errorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, apperror.ErrNoLegalMoves.Error(), body.Error)
	})
}

func TestServer_StaticAndPing(t *testing.T) {
	handler := NewHandler(discardLogger(), &mockMoveService{}, nil)

	t.Run("Index page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/get_move")
	})

	t.Run("Ping", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
	})
}
