package leaderboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	t.Run("round trip against the server", func(t *testing.T) {
		srv := httptest.NewServer(NewServer(NewMemoryStore(), quietLogger()).Handler())
		defer srv.Close()
		c := NewClient(srv.URL+"/api/", WithRetry(1, time.Millisecond))
		ctx := context.Background()

		rec, err := c.Submit(ctx, "ada", 120)
		require.NoError(t, err)
		assert.Equal(t, "ada", rec.Nickname)

		_, err = c.Submit(ctx, "bob", 80)
		require.NoError(t, err)

		top, err := c.Top(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"ada", "bob"}, nicknames(top))
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		inner := NewServer(NewMemoryStore(), quietLogger()).Handler()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			inner.ServeHTTP(w, r)
		}))
		defer srv.Close()

		c := NewClient(srv.URL+"/api", WithRetry(3, time.Millisecond))
		_, err := c.Submit(context.Background(), "ada", 10)
		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, WithRetry(2, time.Millisecond))
		_, err := c.Top(context.Background(), 3)
		assert.ErrorIs(t, err, ErrNetwork)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("client errors are permanent", func(t *testing.T) {
		var calls atomic.Int32
		inner := NewServer(NewMemoryStore(), quietLogger()).Handler()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			inner.ServeHTTP(w, r)
		}))
		defer srv.Close()

		c := NewClient(srv.URL+"/api", WithRetry(3, time.Millisecond))
		_, err := c.Submit(context.Background(), "", 10)
		assert.ErrorIs(t, err, ErrInvalidRecord)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("unreachable service", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := NewClient(url, WithRetry(2, time.Millisecond))
		_, err := c.Top(context.Background(), 1)
		assert.ErrorIs(t, err, ErrNetwork)
	})
}

func TestClientRetry(t *testing.T) {
	c := NewClient("http://unused", WithRetry(5, time.Millisecond))

	t.Run("stops on permanent errors", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := c.retry(context.Background(), func() error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries temporary statuses", func(t *testing.T) {
		for _, code := range []int{0, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway} {
			calls := 0
			err := c.retry(context.Background(), func() error {
				calls++
				return &requestError{Status: code, Err: errors.New("refused")}
			})
			assert.ErrorIs(t, err, ErrNetwork, "status %d", code)
			assert.Equal(t, 5, calls, "status %d", code)
		}
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		for _, code := range []int{http.StatusBadRequest, http.StatusNotFound} {
			calls := 0
			c.retry(context.Background(), func() error {
				calls++
				return &requestError{Status: code}
			})
			assert.Equal(t, 1, calls, "status %d", code)
		}
	})

	t.Run("honours cancellation", func(t *testing.T) {
		slow := NewClient("http://unused", WithRetry(5, time.Hour))
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := slow.retry(ctx, func() error {
			calls++
			cancel()
			return &requestError{Status: http.StatusServiceUnavailable}
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero attempts still runs once", func(t *testing.T) {
		once := NewClient("http://unused", WithRetry(0, 0))
		calls := 0
		require.NoError(t, once.retry(context.Background(), func() error {
			calls++
			return nil
		}))
		assert.Equal(t, 1, calls)
	})
}

func TestRequestError(t *testing.T) {
	bad := &requestError{Status: http.StatusBadRequest, Detail: "empty nickname"}
	assert.ErrorIs(t, bad, ErrInvalidRecord)
	assert.NotErrorIs(t, bad, ErrNetwork)
	assert.Contains(t, bad.Error(), "empty nickname")

	down := &requestError{Status: http.StatusServiceUnavailable}
	assert.ErrorIs(t, down, ErrNetwork)
	assert.Contains(t, down.Error(), "503")

	refused := errors.New("connection refused")
	lost := &requestError{Err: refused}
	assert.ErrorIs(t, lost, ErrNetwork)
	assert.ErrorIs(t, lost, refused)
}
