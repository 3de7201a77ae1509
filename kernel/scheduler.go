package kernel

import (
	"errors"
	"sync/atomic"
)

const maxTasks = 32

var (
	ErrStarted        = errors.New("scheduler already started")
	ErrTooManyTasks   = errors.New("task registry full")
	ErrNilTask        = errors.New("nil task")
	ErrUnknownTask    = errors.New("no such task")
	ErrNotInitialized = errors.New("task not initialized")
	ErrQueueFull      = errors.New("queue full")
)

// Config sizes the scheduler queues and bounds the immediate drain.
type Config struct {
	// ImmediateCapacity defaults to at least MaxImmediateDeliveries.
	ImmediateCapacity int
	NormalCapacity    int
	// MaxImmediateDeliveries bounds one ProcessImmediates pass.
	// Zero or less disables the bound.
	MaxImmediateDeliveries int
}

// DefaultConfig returns the queue sizes used when none are configured.
func DefaultConfig() Config {
	return Config{
		ImmediateCapacity:      256,
		NormalCapacity:         256,
		MaxImmediateDeliveries: 256,
	}
}

type taskState struct {
	task      Task
	name      string
	ready     bool
	delivered atomic.Uint32
}

// Scheduler owns the task registry and the immediate and normal queues.
type Scheduler struct {
	cfg  Config
	irq  Interrupts
	idle Idler
	rep  Reporter

	tasks     [maxTasks]taskState
	taskCount atomic.Uint32
	started   atomic.Bool

	imm  *queue
	norm *queue

	posted    [2]atomic.Uint64
	delivered atomic.Uint64
	sleeps    atomic.Uint64
	faults    faultCounters
}

// NewScheduler creates a scheduler. A nil reporter discards faults.
func NewScheduler(cfg Config, irq Interrupts, idle Idler, rep Reporter) *Scheduler {
	def := DefaultConfig()
	if cfg.ImmediateCapacity <= 0 {
		cfg.ImmediateCapacity = max(def.ImmediateCapacity, cfg.MaxImmediateDeliveries)
	}
	if cfg.NormalCapacity <= 0 {
		cfg.NormalCapacity = def.NormalCapacity
	}
	if rep == nil {
		rep = NopReporter{}
	}
	return &Scheduler{
		cfg:  cfg,
		irq:  irq,
		idle: idle,
		rep:  rep,
		imm:  newQueue(cfg.ImmediateCapacity, irq),
		norm: newQueue(cfg.NormalCapacity, irq),
	}
}

// RegisterTask appends t to the registry and returns its handle.
//
// Registration is a startup-time operation: once dispatch has begun, or when
// the registry is full, it raises a fatal startup fault.
func (s *Scheduler) RegisterTask(t Task) (Handle, error) {
	var err error
	switch {
	case t == nil:
		err = ErrNilTask
	case s.started.Load():
		err = ErrStarted
	case s.taskCount.Load() >= maxTasks:
		err = ErrTooManyTasks
	}
	if err != nil {
		f := Fault{Kind: FaultStartup, To: Broadcast, Err: err}
		if t != nil {
			f.Task = taskName(t)
		}
		s.faults.add(FaultStartup)
		fatal(f)
		return Broadcast, err
	}

	id := s.taskCount.Load()
	st := &s.tasks[id]
	st.task = t
	st.name = taskName(t)
	s.taskCount.Store(id + 1)
	return Handle(id), nil
}

// Start initializes every task in registration order and freezes the
// registry. It runs once; later calls are no-ops. The processing
// operations call it implicitly.
func (s *Scheduler) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}
	n := s.count()
	for id := 0; id < n; id++ {
		st := &s.tasks[id]
		if err := st.task.Init(Handle(id)); err != nil {
			s.faults.add(FaultStartup)
			fatal(Fault{Kind: FaultStartup, To: Handle(id), Task: st.name, Err: err})
			return err
		}
		st.ready = true
	}
	return nil
}

// Started reports whether dispatch has begun.
func (s *Scheduler) Started() bool { return s.started.Load() }

func (s *Scheduler) count() int { return int(s.taskCount.Load()) }

// Post enqueues msg on the queue selected by u. It never blocks and may be
// called from interrupt context.
func (s *Scheduler) Post(msg Message, u Urgency) error {
	if !msg.IsBroadcast() && int(msg.To()) >= s.count() {
		s.fault(Fault{Kind: FaultRouting, Msg: msg.Kind(), To: msg.To(), Err: ErrUnknownTask})
		return ErrUnknownTask
	}

	q := s.norm
	if u == Immediate {
		q = s.imm
	}
	if !q.push(msg) {
		s.fault(Fault{Kind: FaultQueueFull, Msg: msg.Kind(), To: msg.To(), Err: ErrQueueFull})
		return ErrQueueFull
	}
	s.posted[u&1].Add(1)
	return nil
}

// TickTasks runs every task's OnTick in registration order.
func (s *Scheduler) TickTasks() {
	s.ensureStarted()
	n := s.count()
	for id := 0; id < n; id++ {
		st := &s.tasks[id]
		if !st.ready {
			continue
		}
		st.task.OnTick()
	}
}

// ProcessImmediates delivers immediate messages until the queue is empty,
// including messages posted by handlers during the pass. A pass stops after
// Config.MaxImmediateDeliveries messages; if work remains, one overload
// fault is reported, the rest stays queued for the next pass and bounded is
// true. Callers defer normal work on bounded passes.
func (s *Scheduler) ProcessImmediates() (delivered int, bounded bool) {
	s.ensureStarted()
	limit := s.cfg.MaxImmediateDeliveries
	var last Kind
	for {
		if limit > 0 && delivered >= limit {
			if s.imm.len() > 0 {
				s.fault(Fault{Kind: FaultDrainBound, Msg: last, To: Broadcast})
				return delivered, true
			}
			return delivered, false
		}
		msg, ok := s.imm.pop()
		if !ok {
			return delivered, false
		}
		last = msg.Kind()
		s.deliver(msg, Immediate)
		delivered++
	}
}

// ProcessNextNormalMessage delivers at most one normal message and reports
// whether one was delivered.
func (s *Scheduler) ProcessNextNormalMessage() bool {
	s.ensureStarted()
	msg, ok := s.norm.pop()
	if !ok {
		return false
	}
	s.deliver(msg, Normal)
	return true
}

// SleepIfWaitingForMessages idles the processor until the next interrupt
// when both queues are empty and no task reports pending work. It reports
// whether it slept.
func (s *Scheduler) SleepIfWaitingForMessages() bool {
	state := s.irq.Disable()
	if s.imm.len() > 0 || s.norm.len() > 0 || s.pending() {
		s.irq.Restore(state)
		return false
	}
	s.idle.WaitForInterrupt()
	s.irq.Restore(state)
	s.sleeps.Add(1)
	return true
}

func (s *Scheduler) pending() bool {
	n := s.count()
	for id := 0; id < n; id++ {
		if p, ok := s.tasks[id].task.(Pender); ok && p.Pending() {
			return true
		}
	}
	return false
}

func (s *Scheduler) ensureStarted() {
	if !s.started.Load() {
		_ = s.Start()
	}
}

func (s *Scheduler) deliver(msg Message, u Urgency) {
	s.delivered.Add(1)
	if !msg.IsBroadcast() {
		s.deliverTo(msg.To(), msg, u)
		return
	}
	n := s.count()
	for id := 0; id < n; id++ {
		s.deliverTo(Handle(id), msg, u)
	}
}

func (s *Scheduler) deliverTo(h Handle, msg Message, u Urgency) {
	if int(h) >= s.count() {
		s.fault(Fault{Kind: FaultRouting, Msg: msg.Kind(), To: h, Err: ErrUnknownTask})
		return
	}
	st := &s.tasks[h]
	if !st.ready {
		s.fault(Fault{Kind: FaultRouting, Msg: msg.Kind(), To: h, Task: st.name, Err: ErrNotInitialized})
		return
	}
	st.delivered.Add(1)
	reply, ok := st.task.OnMessage(msg)
	if ok {
		_ = s.Post(reply, u)
	}
}

func (s *Scheduler) fault(f Fault) {
	s.faults.add(f.Kind)
	s.rep.Report(f)
}

// TaskStats is the per-task slice of Stats.
type TaskStats struct {
	Handle    Handle
	Name      string
	Delivered uint32
}

// Stats is a point-in-time snapshot of scheduler counters.
type Stats struct {
	Started         bool
	ImmediateLen    int
	NormalLen       int
	ImmediateCap    int
	NormalCap       int
	PostedImmediate uint64
	PostedNormal    uint64
	Delivered       uint64
	Sleeps          uint64
	Faults          [faultKinds]uint32
	Tasks           []TaskStats
}

// FaultCount returns the number of faults of kind k reported so far.
func (st Stats) FaultCount(k FaultKind) uint32 {
	if k >= faultKinds {
		return 0
	}
	return st.Faults[k]
}

// Stats returns a snapshot of the scheduler counters. Safe from any goroutine.
func (s *Scheduler) Stats() Stats {
	st := Stats{
		Started:         s.started.Load(),
		ImmediateLen:    s.imm.len(),
		NormalLen:       s.norm.len(),
		ImmediateCap:    int(s.imm.capacity()),
		NormalCap:       int(s.norm.capacity()),
		PostedImmediate: s.posted[Immediate].Load(),
		PostedNormal:    s.posted[Normal].Load(),
		Delivered:       s.delivered.Load(),
		Sleeps:          s.sleeps.Load(),
	}
	for k := FaultKind(0); k < faultKinds; k++ {
		st.Faults[k] = s.faults.load(k)
	}
	n := s.count()
	st.Tasks = make([]TaskStats, n)
	for id := 0; id < n; id++ {
		t := &s.tasks[id]
		st.Tasks[id] = TaskStats{Handle: Handle(id), Name: t.name, Delivered: t.delivered.Load()}
	}
	return st
}
