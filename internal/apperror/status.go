package apperror

import (
	"errors"
	"net/http"
)

// HTTPStatus maps a move error to its HTTP status.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidBoard),
		errors.Is(err, ErrInvalidCell),
		errors.Is(err, ErrInvalidPlayerTurn):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoLegalMoves):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Message is the text shown to clients; internal failures are not described.
func Message(err error) string {
	switch HTTPStatus(err) {
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusUnprocessableEntity:
		return ErrNoLegalMoves.Error()
	default:
		return "Internal Server Error"
	}
}
