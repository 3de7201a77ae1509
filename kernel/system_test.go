package kernel

import (
	"errors"
	"testing"

	"plcnode/entropy"
)

type stepClock struct {
	n uint32
}

func (c *stepClock) Counter() uint32 {
	c.n += 37
	return c.n
}

func (c *stepClock) Now() uint64 { return uint64(c.n) }

func TestSystemAccessors(t *testing.T) {
	clk := &stepClock{}
	sched := NewScheduler(DefaultConfig(), &mutexIRQ{}, &countingIdle{}, nil)
	pool := entropy.New(clk)
	sys := NewSystem(clk, sched, pool)

	if sys.Scheduler() != sched {
		t.Fatalf("Scheduler() returned a different scheduler")
	}
	if sys.Entropy() != pool {
		t.Fatalf("Entropy() returned a different pool")
	}
	if sys.Clock() != Clock(clk) {
		t.Fatalf("Clock() returned a different clock")
	}
}

func TestSystemPostForwards(t *testing.T) {
	j := &journal{}
	sched := NewScheduler(DefaultConfig(), &mutexIRQ{}, &countingIdle{}, nil)
	if _, err := sched.RegisterTask(&fakeTask{name: "A", j: j}); err != nil {
		t.Fatalf("RegisterTask: %v", err)
	}
	sys := NewSystem(&stepClock{}, sched, nil)

	if err := sys.Post(NewMessageTo(4, 0), Normal); err != nil {
		t.Fatalf("Post: %v", err)
	}
	sched.ProcessNextNormalMessage()
	if len(j.deliveries) != 1 || j.deliveries[0].kind != 4 {
		t.Fatalf("deliveries = %v, want one of kind 4", j.deliveries)
	}
}

func TestPostWithoutSystemIsFatal(t *testing.T) {
	fatals := installFatalRecorder(t)

	var sys *System
	err := sys.Post(NewMessageTo(2, 1), Immediate)
	if !errors.Is(err, ErrNoSystem) {
		t.Fatalf("Post() err = %v, want ErrNoSystem", err)
	}
	if len(*fatals) != 1 {
		t.Fatalf("fatal faults = %d, want 1", len(*fatals))
	}
	if f := (*fatals)[0]; f.Kind != FaultStartup || f.Msg != 2 || f.To != 1 {
		t.Fatalf("fault = %+v, want startup msg=2 to=1", f)
	}
}
