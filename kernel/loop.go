package kernel

import (
	"context"
	"sync/atomic"
)

// Phase is one step of a dispatch loop iteration.
type Phase uint8

const (
	PhaseEntropyMix Phase = iota
	PhaseLinkProgress
	PhaseTick
	PhaseDrainImmediate
	PhaseProcessOneNormal
	PhaseIdleOrSleep
)

func (p Phase) String() string {
	switch p {
	case PhaseEntropyMix:
		return "entropy_mix"
	case PhaseLinkProgress:
		return "link_progress"
	case PhaseTick:
		return "tick"
	case PhaseDrainImmediate:
		return "drain_immediate"
	case PhaseProcessOneNormal:
		return "process_one_normal"
	case PhaseIdleOrSleep:
		return "idle_or_sleep"
	default:
		return "unknown"
	}
}

// Loop is the dispatch loop: it mixes entropy, lets the link make progress,
// ticks tasks, drains immediates, delivers one normal message and sleeps
// when there is nothing to do. An iteration whose drain hit its bound
// delivers no normal message.
type Loop struct {
	sys   *System
	link  Link
	wdog  Watchdog
	hook  func(Phase)
	iters atomic.Uint64
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLink polls l once per iteration.
func WithLink(l Link) LoopOption { return func(lp *Loop) { lp.link = l } }

// WithWatchdog kicks w once per iteration.
func WithWatchdog(w Watchdog) LoopOption { return func(lp *Loop) { lp.wdog = w } }

// WithPhaseHook calls fn at the start of every phase.
func WithPhaseHook(fn func(Phase)) LoopOption { return func(lp *Loop) { lp.hook = fn } }

// NewLoop returns a dispatch loop over sys.
func NewLoop(sys *System, opts ...LoopOption) *Loop {
	l := &Loop{sys: sys}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Iterations returns the number of completed iterations. Safe from any
// goroutine.
func (l *Loop) Iterations() uint64 { return l.iters.Load() }

// RunOnce runs one full iteration and reports whether it slept.
func (l *Loop) RunOnce() bool {
	sched := l.sys.Scheduler()

	l.enter(PhaseEntropyMix)
	if pool := l.sys.Entropy(); pool != nil {
		pool.AddEntropy()
	}

	l.enter(PhaseLinkProgress)
	if l.link != nil {
		l.link.Progress()
	}

	l.enter(PhaseTick)
	sched.TickTasks()

	l.enter(PhaseDrainImmediate)
	_, bounded := sched.ProcessImmediates()

	// Normal work waits while immediates are backed up.
	l.enter(PhaseProcessOneNormal)
	if !bounded {
		sched.ProcessNextNormalMessage()
	}

	l.enter(PhaseIdleOrSleep)
	slept := sched.SleepIfWaitingForMessages()

	if l.wdog != nil {
		l.wdog.Kick()
	}
	l.iters.Add(1)
	return slept
}

// Run iterates until ctx is done or, when iterations > 0, until that many
// iterations have completed. On the device ctx is never cancelled and
// iterations is 0, so Run does not return.
func (l *Loop) Run(ctx context.Context, iterations uint64) error {
	if err := l.sys.Scheduler().Start(); err != nil {
		return err
	}
	for n := uint64(0); iterations == 0 || n < iterations; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.RunOnce()
	}
	return nil
}

func (l *Loop) enter(p Phase) {
	if l.hook != nil {
		l.hook(p)
	}
}
