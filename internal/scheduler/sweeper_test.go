package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type purgerStub struct {
	calls  atomic.Int32
	purged int64
	err    error
}

func (p *purgerStub) PurgeExpired(context.Context) (int64, error) {
	p.calls.Add(1)
	return p.purged, p.err
}

func TestClaimSweeper_RunOnce(t *testing.T) {
	purger := &purgerStub{purged: 4}
	sweeper, err := NewClaimSweeper(purger, time.Minute, nopLogger{})
	require.NoError(t, err)
	defer sweeper.Stop()

	n, err := sweeper.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, int32(1), purger.calls.Load())
}

func TestClaimSweeper_RunOnceError(t *testing.T) {
	purger := &purgerStub{err: errors.New("db gone")}
	sweeper, err := NewClaimSweeper(purger, time.Minute, nopLogger{})
	require.NoError(t, err)
	defer sweeper.Stop()

	_, err = sweeper.RunOnce(context.Background())

	assert.Error(t, err)
}

func TestClaimSweeper_RunsPeriodically(t *testing.T) {
	purger := &purgerStub{}
	sweeper, err := NewClaimSweeper(purger, 20*time.Millisecond, nopLogger{})
	require.NoError(t, err)

	sweeper.Start()

	assert.Eventually(t, func() bool {
		return purger.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, sweeper.Stop())
}
