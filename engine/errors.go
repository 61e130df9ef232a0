package engine

import "errors"

// Sentinel errors carried by precondition panics.
var (
	// ErrOutOfBounds is wrapped when a cell index lies outside the grid.
	ErrOutOfBounds = errors.New("cell out of bounds")

	// ErrInvalidTile is wrapped when a tile value is not a known tile id.
	ErrInvalidTile = errors.New("invalid tile")

	// ErrInvalidConfig is wrapped when a game or queue is built with unusable parameters.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMalformedShape is wrapped when the rotation table is inconsistent.
	ErrMalformedShape = errors.New("malformed shape table")

	// ErrUnknownCommand is returned by ParseCommand for unrecognised names.
	ErrUnknownCommand = errors.New("unknown command")
)
