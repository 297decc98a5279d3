package apperror

import "errors"

var (
	ErrInvalidBoard      = errors.New("board must have exactly 9 cells")
	ErrInvalidCell       = errors.New("cell value must be -1, 0 or 1")
	ErrInvalidPlayerTurn = errors.New("player turn must be 1 or -1")
	ErrNoLegalMoves      = errors.New("no legal moves")
)
