package hal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// alarmTimer is a Timer whose alarm is driven by a ticker goroutine and
// delivered through an irqGate.
type alarmTimer struct {
	gate  *irqGate
	epoch time.Time
	ticks atomic.Uint64

	mu     sync.Mutex
	period time.Duration
	fn     func(tick uint64)
	armed  chan struct{}
}

func newAlarmTimer(g *irqGate) *alarmTimer {
	return &alarmTimer{gate: g, epoch: time.Now(), armed: make(chan struct{})}
}

func (t *alarmTimer) Counter() uint32 { return uint32(time.Since(t.epoch)) }

func (t *alarmTimer) Now() uint64 { return t.ticks.Load() }

func (t *alarmTimer) SetAlarm(period time.Duration, fn func(tick uint64)) error {
	if period <= 0 || fn == nil {
		return ErrInvalidPeriod
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fn != nil {
		return ErrAlarmSet
	}
	t.period = period
	t.fn = fn
	close(t.armed)
	return nil
}

// fire raises one alarm interrupt.
func (t *alarmTimer) fire() {
	t.mu.Lock()
	fn := t.fn
	t.mu.Unlock()
	if fn == nil {
		return
	}
	tick := t.ticks.Add(1)
	t.gate.raise(func() { fn(tick) })
}

// run waits for the alarm to be set, then fires it every period until ctx
// is done.
func (t *alarmTimer) run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-t.armed:
	}
	t.mu.Lock()
	period := t.period
	t.mu.Unlock()

	tk := time.NewTicker(period)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tk.C:
			t.fire()
		}
	}
}
