package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// requestError is a failed round trip to the service. Status is zero when no
// response arrived at all.
type requestError struct {
	Status int
	Detail string
	Err    error
}

func (e *requestError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("%v: %v", ErrNetwork, e.Err)
	case e.Status == http.StatusBadRequest:
		return fmt.Sprintf("%v: %s", ErrInvalidRecord, e.Detail)
	default:
		return fmt.Sprintf("%v: status %d", ErrNetwork, e.Status)
	}
}

func (e *requestError) Unwrap() []error {
	if e.Status == http.StatusBadRequest {
		return []error{ErrInvalidRecord}
	}
	if e.Err != nil {
		return []error{ErrNetwork, e.Err}
	}
	return []error{ErrNetwork}
}

// temporary: the request never got an answer, or the service was overloaded
// or failing. A 4xx other than 429 will fail the same way again.
func (e *requestError) temporary() bool {
	return e.Status == 0 || e.Status == http.StatusTooManyRequests || e.Status >= 500
}

func isTemporary(err error) bool {
	var re *requestError
	return errors.As(err, &re) && re.temporary()
}

// retry calls fn until it succeeds, returns a permanent error, or the
// client's attempts run out. The wait doubles after each temporary failure.
func (c *Client) retry(ctx context.Context, fn func() error) error {
	attempts := max(c.attempts, 1)
	delay := c.delay

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !isTemporary(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
