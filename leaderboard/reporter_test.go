package leaderboard

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	mu        sync.Mutex
	submitted []Record
	top       []Record
	err       error
	block     chan struct{}
}

func (f *fakeService) Submit(ctx context.Context, nickname string, score int) (Record, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return Record{}, f.err
	}
	r := NewRecord(nickname, score)
	f.submitted = append(f.submitted, r)
	return r, nil
}

func (f *fakeService) Top(ctx context.Context, n int) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return sortRecords(append([]Record(nil), f.top...), n), nil
}

func (f *fakeService) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func TestReporter(t *testing.T) {
	t.Run("submits positive scores", func(t *testing.T) {
		svc := &fakeService{}
		r := NewReporter(svc, quietLogger(), time.Second)

		r.Submit("ada", 0)
		r.Submit("ada", -3)
		r.Submit("ada", 40)
		r.Wait()

		assert.Len(t, svc.submitted, 1)
		assert.Equal(t, 40, svc.submitted[0].Score)
	})

	t.Run("does not block the caller", func(t *testing.T) {
		svc := &fakeService{block: make(chan struct{})}
		r := NewReporter(svc, quietLogger(), time.Second)

		done := make(chan struct{})
		go func() {
			r.Submit("ada", 10)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Submit blocked on the service")
		}
		close(svc.block)
		r.Wait()
	})

	t.Run("failures are logged", func(t *testing.T) {
		var buf bytes.Buffer
		svc := &fakeService{err: ErrNetwork}
		r := NewReporter(svc, log.New(&buf), time.Second)

		r.Submit("ada", 10)
		r.Wait()

		assert.Contains(t, buf.String(), "submit score")
		assert.Empty(t, svc.submitted)
	})

	t.Run("fetch falls back to the last good result", func(t *testing.T) {
		svc := &fakeService{top: []Record{NewRecord("ada", 5), NewRecord("bob", 9)}}
		r := NewReporter(svc, quietLogger(), time.Second)

		assert.Empty(t, NewReporter(&fakeService{err: ErrNetwork}, quietLogger(), time.Second).Fetch(context.Background(), 5))

		first := r.Fetch(context.Background(), 5)
		assert.Equal(t, []string{"bob", "ada"}, nicknames(first))

		svc.setErr(ErrNetwork)
		again := r.Fetch(context.Background(), 5)
		assert.Equal(t, first, again)
	})
}
