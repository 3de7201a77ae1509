package kernel

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"plcnode/entropy"
)

type countingLink struct{ calls int }

func (l *countingLink) Progress() { l.calls++ }

type countingWatchdog struct{ kicks int }

func (w *countingWatchdog) Kick() { w.kicks++ }

func newTestLoop(t *testing.T, opts ...LoopOption) (*Loop, *harness, *entropy.Pool) {
	t.Helper()
	h := newHarness(t, DefaultConfig(), "A", "B")
	clk := &stepClock{}
	pool := entropy.New(clk)
	return NewLoop(NewSystem(clk, h.sched, pool), opts...), h, pool
}

func TestLoopPhaseOrder(t *testing.T) {
	var phases []Phase
	l, _, _ := newTestLoop(t, WithPhaseHook(func(p Phase) { phases = append(phases, p) }))

	l.RunOnce()

	want := []Phase{
		PhaseEntropyMix,
		PhaseLinkProgress,
		PhaseTick,
		PhaseDrainImmediate,
		PhaseProcessOneNormal,
		PhaseIdleOrSleep,
	}
	if fmt.Sprint(phases) != fmt.Sprint(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
}

func TestLoopIterationDeliversOneNormal(t *testing.T) {
	l, h, _ := newTestLoop(t)

	mustPost(t, h.sched, NewMessageTo(1, 0), Immediate)
	mustPost(t, h.sched, NewMessageTo(2, 1), Immediate)
	mustPost(t, h.sched, NewMessageTo(10, 0), Normal)
	mustPost(t, h.sched, NewMessageTo(11, 1), Normal)

	if slept := l.RunOnce(); slept {
		t.Fatalf("RunOnce() slept with a normal message still queued")
	}
	want := []delivery{{"A", 1}, {"B", 2}, {"A", 10}}
	if fmt.Sprint(h.j.deliveries) != fmt.Sprint(want) {
		t.Fatalf("deliveries = %v, want %v", h.j.deliveries, want)
	}
	if want := []string{"A", "B"}; fmt.Sprint(h.j.ticks) != fmt.Sprint(want) {
		t.Fatalf("ticks = %v, want %v", h.j.ticks, want)
	}

	if slept := l.RunOnce(); !slept {
		t.Fatalf("RunOnce() did not sleep once queues were empty")
	}
	if h.idle.waits != 1 {
		t.Fatalf("waits = %d, want 1", h.idle.waits)
	}
}

func TestLoopTickWorkHandledSameIteration(t *testing.T) {
	l, h, _ := newTestLoop(t)
	fired := false
	tick := &tickPoster{sched: h.sched}
	if _, err := h.sched.RegisterTask(tick); err != nil {
		t.Fatalf("RegisterTask: %v", err)
	}
	h.tasks[1].onMessage = func(ft *fakeTask, msg Message) (Message, bool) {
		fired = msg.Kind() == 42
		return Message{}, false
	}

	l.RunOnce()
	if !fired {
		t.Fatalf("immediate posted from OnTick was not delivered in the same iteration")
	}
}

type tickPoster struct {
	sched *Scheduler
	done  bool
}

func (p *tickPoster) Init(Handle) error                 { return nil }
func (p *tickPoster) OnMessage(Message) (Message, bool) { return Message{}, false }
func (p *tickPoster) OnTick() {
	if p.done {
		return
	}
	p.done = true
	_ = p.sched.Post(NewMessageTo(42, 1), Immediate)
}

func TestLoopRunIterationsAndAmbientWork(t *testing.T) {
	link := &countingLink{}
	wdog := &countingWatchdog{}
	l, h, pool := newTestLoop(t, WithLink(link), WithWatchdog(wdog))

	if err := l.Run(context.Background(), 5); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.Iterations() != 5 {
		t.Fatalf("Iterations() = %d, want 5", l.Iterations())
	}
	if link.calls != 5 || wdog.kicks != 5 {
		t.Fatalf("link calls = %d, watchdog kicks = %d, want 5 and 5", link.calls, wdog.kicks)
	}
	if pool.Mixes() != 5 {
		t.Fatalf("pool.Mixes() = %d, want 5", pool.Mixes())
	}
	if !h.sched.Started() {
		t.Fatalf("scheduler not started by Run")
	}
	if h.idle.waits != 5 {
		t.Fatalf("waits = %d, want 5", h.idle.waits)
	}
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var iters int
	l, _, _ := newTestLoop(t, WithPhaseHook(func(p Phase) {
		if p == PhaseIdleOrSleep {
			iters++
			if iters == 3 {
				cancel()
			}
		}
	}))

	err := l.Run(ctx, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() err = %v, want context.Canceled", err)
	}
	if l.Iterations() != 3 {
		t.Fatalf("Iterations() = %d, want 3", l.Iterations())
	}
}

func TestPhaseString(t *testing.T) {
	if got := PhaseDrainImmediate.String(); got != "drain_immediate" {
		t.Fatalf("PhaseDrainImmediate.String() = %q", got)
	}
	if got := Phase(99).String(); got != "unknown" {
		t.Fatalf("Phase(99).String() = %q, want unknown", got)
	}
}

func TestLoopDefersNormalWhileImmediatesBackedUp(t *testing.T) {
	cfg := Config{ImmediateCapacity: 4, NormalCapacity: 4, MaxImmediateDeliveries: 2}
	h := newHarness(t, cfg, "A", "B")
	l := NewLoop(NewSystem(&stepClock{}, h.sched, nil))

	for i := 1; i <= 4; i++ {
		mustPost(t, h.sched, NewMessageTo(Kind(i), 0), Immediate)
	}
	mustPost(t, h.sched, NewMessageTo(100, 1), Normal)

	if slept := l.RunOnce(); slept {
		t.Fatalf("RunOnce() slept with work queued")
	}
	want := []delivery{{"A", 1}, {"A", 2}}
	if fmt.Sprint(h.j.deliveries) != fmt.Sprint(want) {
		t.Fatalf("bounded iteration deliveries = %v, want %v", h.j.deliveries, want)
	}
	st := h.sched.Stats()
	if st.ImmediateLen != 2 || st.NormalLen != 1 {
		t.Fatalf("queues = %d immediate, %d normal, want 2 and 1", st.ImmediateLen, st.NormalLen)
	}
	if got := h.log.count(FaultDrainBound); got != 1 {
		t.Fatalf("drain bound faults = %d, want 1", got)
	}

	l.RunOnce()
	want = append(want, delivery{"A", 3}, delivery{"A", 4}, delivery{"B", 100})
	if fmt.Sprint(h.j.deliveries) != fmt.Sprint(want) {
		t.Fatalf("deliveries = %v, want %v", h.j.deliveries, want)
	}
	if got := h.log.count(FaultQueueFull); got != 0 {
		t.Fatalf("queue full faults = %d, want none", got)
	}
}
