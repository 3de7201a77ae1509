// Package heartbeat counts alarm ticks and periodically asks the status task
// for a report.
package heartbeat

import (
	"plcnode/internal/logx"
	"plcnode/kernel"
	"plcnode/proto"
)

// Task turns alarm ticks into periodic status requests.
type Task struct {
	sys    *kernel.System
	log    logx.Logger
	status kernel.Handle
	every  uint64
	self   kernel.Handle

	ticks    uint64
	lastTick uint64
	due      bool
	seq      uint32
}

// New returns a heartbeat that requests a status report from status every
// `every` alarm ticks.
func New(sys *kernel.System, log logx.Logger, status kernel.Handle, every int) *Task {
	if every < 1 {
		every = 1
	}
	return &Task{
		sys:    sys,
		log:    log.With(logx.String("task", "heartbeat")),
		status: status,
		every:  uint64(every),
	}
}

func (t *Task) Name() string { return "heartbeat" }

func (t *Task) Init(self kernel.Handle) error {
	t.self = self
	return nil
}

func (t *Task) OnMessage(msg kernel.Message) (kernel.Message, bool) {
	switch proto.Kind(msg.Kind()) {
	case proto.MsgServicesAvailable:
		t.log.Debug("armed", logx.Uint64("every", t.every))
	case proto.MsgAlarmTick:
		if tick, ok := proto.DecodeAlarmTick(msg.Payload()); ok {
			t.lastTick = tick
		}
		t.ticks++
		if t.ticks%t.every == 0 {
			t.due = true
		}
	}
	return kernel.Message{}, false
}

// OnTick posts a status request once one is due.
func (t *Task) OnTick() {
	if !t.due {
		return
	}
	t.due = false
	t.seq++
	var buf [4]byte
	msg, err := kernel.NewMessageTo(kernel.Kind(proto.MsgStatusRequest), t.status).
		WithPayload(proto.AppendStatusRequest(buf[:0], t.seq))
	if err != nil {
		return
	}
	if err := t.sys.Post(msg, kernel.Normal); err != nil {
		t.log.Warn("status request dropped", logx.Err(err))
	}
}

// Pending reports whether a status request is due on the next tick.
func (t *Task) Pending() bool { return t.due }

// Ticks returns the number of alarm ticks seen.
func (t *Task) Ticks() uint64 { return t.ticks }

// LastTick returns the alarm tick number carried by the latest tick message.
func (t *Task) LastTick() uint64 { return t.lastTick }
