package bringup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifyReadyAbsorbsDuplicates(t *testing.T) {
	mctx := NewModuleContext()
	mctx.NotifyReady()
	mctx.NotifyReady()
	mctx.NotifyReady()

	s := &session{mctx: mctx}
	assert.True(t, s.awaitReady(context.Background(), time.Second, 0))

	// The duplicates collapsed into one pending signal.
	assert.False(t, s.awaitReady(context.Background(), 5*time.Millisecond, 0))
}

func TestAwaitReadyTimesOutAndProceeds(t *testing.T) {
	s := &session{mctx: NewModuleContext()}

	start := time.Now()
	signaled := s.awaitReady(context.Background(), 10*time.Millisecond, 0)
	assert.False(t, signaled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAwaitReadyAppliesSettleDelay(t *testing.T) {
	mctx := NewModuleContext()
	mctx.NotifyReady()
	s := &session{mctx: mctx}

	start := time.Now()
	signaled := s.awaitReady(context.Background(), time.Second, 20*time.Millisecond)
	assert.True(t, signaled)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestResetDrainsStaleReadySignal(t *testing.T) {
	mctx := NewModuleContext()
	mctx.NotifyReady() // stale signal from a prior power cycle
	mctx.setFastPath(FastPathYes)

	mctx.reset()

	assert.Equal(t, FastPathNo, mctx.FastPath())
	s := &session{mctx: mctx}
	assert.False(t, s.awaitReady(context.Background(), 5*time.Millisecond, 0))
}

func TestFastPathResultString(t *testing.T) {
	assert.Equal(t, "no", FastPathNo.String())
	assert.Equal(t, "yes", FastPathYes.String())
	assert.Equal(t, "indeterminate", FastPathIndeterminate.String())
	assert.Equal(t, "indeterminate", FastPathResult(99).String())
}
