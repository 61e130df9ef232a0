// Package engine implements the rules of a falling-block puzzle game.
//
// A Game owns a fixed-size Grid, the live Piece, a look-ahead Queue of upcoming
// shapes, an optional held shape and the score. Every command mutates the game
// synchronously and returns a Snapshot, a read-only copy of everything a
// renderer needs. The package has no notion of time, input devices or drawing:
// callers decide when to issue commands.
//
// Illegal gameplay moves (collisions) are not errors. A blocked sideways move
// or rotation leaves the piece untouched, and a blocked downward move locks the
// piece. Programming errors such as out-of-range cell indices or invalid
// configuration panic with an error wrapping one of the package sentinels.
package engine
