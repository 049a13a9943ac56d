package retention

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingPurger struct {
	calls atomic.Int64
	err   error
}

func (p *countingPurger) PurgeExpired(ctx context.Context) (int64, error) {
	p.calls.Add(1)
	return 1, p.err
}

func TestJanitor_RunsImmediatelyAndOnTick(t *testing.T) {
	p := &countingPurger{}
	j := NewJanitor(p, 10*time.Millisecond, nil)
	j.Start()

	assert.Eventually(t, func() bool { return p.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	j.Stop()
	after := p.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, p.calls.Load(), "no purge after Stop")
}

func TestJanitor_KeepsRunningAfterError(t *testing.T) {
	p := &countingPurger{err: errors.New("db down")}
	j := NewJanitor(p, 10*time.Millisecond, nil)
	j.Start()
	defer j.Stop()

	assert.Eventually(t, func() bool { return p.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestJanitor_StopIsRepeatable(t *testing.T) {
	j := NewJanitor(&countingPurger{}, time.Hour, nil)
	j.Start()

	done := make(chan struct{})
	go func() {
		j.Stop()
		j.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestNewJanitor_DefaultInterval(t *testing.T) {
	j := NewJanitor(&countingPurger{}, 0, nil)
	assert.Equal(t, DefaultInterval, j.interval)
}

func TestJanitor_StopWithoutStart(t *testing.T) {
	p := &countingPurger{}
	j := NewJanitor(p, time.Hour, nil)
	j.Stop()
	assert.Zero(t, p.calls.Load())
}
