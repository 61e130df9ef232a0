// Package leaderboard keeps high scores: a record model, pluggable stores,
// an HTTP service and a client that the game uses to submit and fetch them.
//
// The game never depends on the service being reachable. A Reporter submits
// in the background and keeps the last leaderboard it managed to fetch.
package leaderboard

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxNicknameLen is the longest nickname a record may carry, in runes.
const MaxNicknameLen = 32

var (
	// ErrInvalidRecord is returned when a record fails validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrNetwork is returned when the leaderboard service cannot be reached
	// or answers with an unexpected status.
	ErrNetwork = errors.New("leaderboard network error")

	// ErrUnavailable is returned when a store backend cannot serve a request.
	ErrUnavailable = errors.New("leaderboard store unavailable")
)

// Record is one submitted score.
type Record struct {
	ID        uuid.UUID `json:"id"`
	Nickname  string    `json:"nickname"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewRecord returns a record with a fresh id and the current time.
func NewRecord(nickname string, score int) Record {
	return Record{
		ID:        uuid.New(),
		Nickname:  strings.TrimSpace(nickname),
		Score:     score,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the nickname length and that the score is not negative.
func (r Record) Validate() error {
	name := strings.TrimSpace(r.Nickname)
	if name == "" {
		return fmt.Errorf("%w: empty nickname", ErrInvalidRecord)
	}
	if n := utf8.RuneCountInString(name); n > MaxNicknameLen {
		return fmt.Errorf("%w: nickname is %d characters, max %d", ErrInvalidRecord, n, MaxNicknameLen)
	}
	if r.Score < 0 {
		return fmt.Errorf("%w: negative score %d", ErrInvalidRecord, r.Score)
	}
	return nil
}

// less orders records by score, highest first, then by submission time.
func less(a, b Record) int {
	if a.Score != b.Score {
		if a.Score > b.Score {
			return -1
		}
		return 1
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}
