package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type recordingSender struct {
	mu      sync.Mutex
	sent    []Message
	err     error
	release chan struct{} // если задан, Send ждет его закрытия
}

func (s *recordingSender) Name() string { return "test" }

func (s *recordingSender) Send(ctx context.Context, msg Message) error {
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type recorderStub struct {
	mu      sync.Mutex
	results map[string]int
}

func (r *recorderStub) IncNotification(_, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = make(map[string]int)
	}
	r.results[result]++
}

func (r *recorderStub) get(result string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[result]
}

func TestDispatcher_DeliversAndDrains(t *testing.T) {
	sender := &recordingSender{}
	rec := &recorderStub{}
	d := NewDispatcher(sender, 16, 3, time.Second, nopLogger{}, rec)

	for i := 0; i < 10; i++ {
		require.True(t, d.Enqueue(Message{Kind: KindRequested, Event: Event{BookingID: int64(i)}}))
	}

	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 10, sender.count())
	assert.Equal(t, 10, rec.get(ResultSent))
}

func TestDispatcher_FailuresAreCounted(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	rec := &recorderStub{}
	d := NewDispatcher(sender, 4, 1, time.Second, nopLogger{}, rec)

	d.Enqueue(Message{Kind: KindApproved})
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, 1, rec.get(ResultFailed))
	assert.Equal(t, 0, rec.get(ResultSent))
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	sender := &recordingSender{release: make(chan struct{})}
	rec := &recorderStub{}
	d := NewDispatcher(sender, 1, 1, time.Second, nopLogger{}, rec)

	done := make(chan int)
	go func() {
		accepted := 0
		for i := 0; i < 5; i++ {
			if d.Enqueue(Message{Kind: KindRequested}) {
				accepted++
			}
		}
		done <- accepted
	}()

	select {
	case accepted := <-done:
		// один в работе у воркера и один в очереди
		assert.LessOrEqual(t, accepted, 2)
		assert.GreaterOrEqual(t, rec.get(ResultDropped), 3)
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	close(sender.release)
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_EnqueueAfterClose(t *testing.T) {
	d := NewDispatcher(&recordingSender{}, 1, 1, time.Second, nopLogger{}, nil)
	require.NoError(t, d.Close(context.Background()))

	assert.False(t, d.Enqueue(Message{Kind: KindRejected}))
	// повторное закрытие безопасно
	assert.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_CloseRespectsContext(t *testing.T) {
	sender := &recordingSender{release: make(chan struct{})}
	d := NewDispatcher(sender, 1, 1, time.Second, nopLogger{}, nil)
	d.Enqueue(Message{Kind: KindRequested})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)
	close(sender.release)
}
