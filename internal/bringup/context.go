package bringup

import "sync"

// FastPathResult records whether a bring-up attempt ended early because
// the flow-control write invalidated the rest of the session.
type FastPathResult int

const (
	// FastPathIndeterminate means the flow-control convergence failed
	// outright, so whether the session needs re-establishing is unknown.
	FastPathIndeterminate FastPathResult = iota

	// FastPathNo means the full sequence ran.
	FastPathNo

	// FastPathYes means the sequence ended right after a successful
	// flow-control rewrite; the caller should re-invoke bring-up on a
	// fresh channel before treating the session as configured.
	FastPathYes
)

func (r FastPathResult) String() string {
	switch r {
	case FastPathNo:
		return "no"
	case FastPathYes:
		return "yes"
	default:
		return "indeterminate"
	}
}

// ModuleContext owns the runtime state for one device session: the
// primitive gating delivery of the ready notification and the fast-path
// result of the most recent attempt. Create exactly one live instance
// per device session; it is not designed for concurrent bring-up
// attempts.
type ModuleContext struct {
	ready chan struct{}

	mu       sync.Mutex
	fastPath FastPathResult
}

// NewModuleContext allocates the session's synchronization state.
func NewModuleContext() *ModuleContext {
	return &ModuleContext{
		ready:    make(chan struct{}, 1),
		fastPath: FastPathNo,
	}
}

// NotifyReady delivers the asynchronous ready notification from the
// channel layer. Non-blocking; a pending undelivered signal absorbs
// duplicates.
func (m *ModuleContext) NotifyReady() {
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// FastPath reports whether the most recent bring-up attempt took the
// fast-path exit. Valid only after an attempt has completed.
func (m *ModuleContext) FastPath() FastPathResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fastPath
}

func (m *ModuleContext) setFastPath(r FastPathResult) {
	m.mu.Lock()
	m.fastPath = r
	m.mu.Unlock()
}

// reset clears state at the start of an attempt. Draining the ready
// channel here means a stale signal from a prior power cycle cannot be
// mistaken for the current one.
func (m *ModuleContext) reset() {
	select {
	case <-m.ready:
	default:
	}
	m.setFastPath(FastPathNo)
}
