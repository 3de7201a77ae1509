package hal

import (
	"sync"
	"sync/atomic"
)

// irqGate models interrupt delivery for goroutine-driven interrupt sources.
//
// Masking is a mutex: a handler that posts while the main loop holds the mask
// blocks until Restore, the way a pending interrupt waits for PRIMASK to
// clear. Raise marks the interrupt pending and leaves a wake token before the
// handler runs, so a wait entered with the mask held still returns.
//
// Disable/Restore pairs do not nest.
type irqGate struct {
	mu      sync.Mutex
	pending atomic.Int32
	raised  atomic.Uint64
	down    atomic.Bool
	wake    chan struct{}
}

func newIRQGate() *irqGate {
	return &irqGate{wake: make(chan struct{}, 1)}
}

func (g *irqGate) Disable() uintptr {
	g.mu.Lock()
	return 1
}

func (g *irqGate) Restore(uintptr) { g.mu.Unlock() }

func (g *irqGate) WaitForInterrupt() {
	if g.pending.Load() > 0 || g.down.Load() {
		return
	}
	<-g.wake
}

// raise runs fn as an interrupt handler.
func (g *irqGate) raise(fn func()) {
	g.pending.Add(1)
	g.raised.Add(1)
	g.signal()
	if fn != nil {
		fn()
	}
	g.pending.Add(-1)
}

// shutdown makes every later wait return at once and wakes a sleeper.
func (g *irqGate) shutdown() {
	g.down.Store(true)
	g.signal()
}

func (g *irqGate) signal() {
	select {
	case g.wake <- struct{}{}:
	default:
	}
}
