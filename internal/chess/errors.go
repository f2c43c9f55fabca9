package chess

import "errors"

var (
	// ErrInvalidMove means a move token could not be parsed into two board
	// coordinates.
	ErrInvalidMove = errors.New("invalid move")

	// ErrIllegalMove means a parsed move is not in the legal move set of the
	// side to move.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidFEN means a starting position could not be decoded.
	ErrInvalidFEN = errors.New("invalid FEN")
)
