package kernel

import (
	"errors"

	"plcnode/entropy"
)

var ErrNoSystem = errors.New("system context not constructed")

// System is the process-wide context: one scheduler, one entropy pool and
// one hardware clock.
//
// It is constructed once at startup, after interrupts and the clock are
// running, and handed by reference to every task and to the dispatch loop.
type System struct {
	sched *Scheduler
	pool  *entropy.Pool
	clock Clock
}

// NewSystem aggregates already-constructed dependencies. It performs no I/O.
func NewSystem(clock Clock, sched *Scheduler, pool *entropy.Pool) *System {
	return &System{sched: sched, pool: pool, clock: clock}
}

// Scheduler returns the task scheduler.
func (s *System) Scheduler() *Scheduler { return s.sched }

// Entropy returns the entropy accumulator.
func (s *System) Entropy() *entropy.Pool { return s.pool }

// Clock returns the hardware clock.
func (s *System) Clock() Clock { return s.clock }

// Post forwards to the scheduler. Posting before the system exists is a
// fatal startup fault.
func (s *System) Post(msg Message, u Urgency) error {
	if s == nil || s.sched == nil {
		fatal(Fault{Kind: FaultStartup, Msg: msg.Kind(), To: msg.To(), Err: ErrNoSystem})
		return ErrNoSystem
	}
	return s.sched.Post(msg, u)
}
