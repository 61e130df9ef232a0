package leaderboard

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Service is the remote side a Reporter talks to. *Client implements it.
type Service interface {
	Submit(ctx context.Context, nickname string, score int) (Record, error)
	Top(ctx context.Context, n int) ([]Record, error)
}

// Reporter keeps leaderboard traffic off the game's critical path. Failures
// are logged and never returned.
type Reporter struct {
	svc     Service
	logger  *log.Logger
	timeout time.Duration

	mu   sync.Mutex
	last []Record
	wg   sync.WaitGroup
}

// NewReporter returns a reporter whose requests give up after timeout.
func NewReporter(svc Service, logger *log.Logger, timeout time.Duration) *Reporter {
	return &Reporter{svc: svc, logger: logger, timeout: timeout}
}

// Submit sends the score in the background. Scores of zero or less are not
// worth a leaderboard entry and are dropped.
func (r *Reporter) Submit(nickname string, score int) {
	if score <= 0 {
		r.logger.Debug("score not submitted", "score", score)
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		rec, err := r.svc.Submit(ctx, nickname, score)
		if err != nil {
			r.logger.Warn("submit score", "nickname", nickname, "score", score, "err", err)
			return
		}
		r.logger.Info("score submitted", "id", rec.ID, "score", rec.Score)
	}()
}

// Fetch returns the top n records, or the last successful result if the
// service fails.
func (r *Reporter) Fetch(ctx context.Context, n int) []Record {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, err := r.svc.Top(ctx, n)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.logger.Warn("fetch leaderboard", "err", err)
		return slices.Clone(r.last)
	}
	r.last = slices.Clone(records)
	return records
}

// Wait blocks until background submissions have finished.
func (r *Reporter) Wait() {
	r.wg.Wait()
}
