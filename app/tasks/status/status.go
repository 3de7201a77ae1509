// Package status reports node identity at startup and scheduler state on
// request.
package status

import (
	"plcnode/hal"
	"plcnode/internal/buildinfo"
	"plcnode/internal/logx"
	"plcnode/kernel"
	"plcnode/proto"
)

// Task is the status service: it announces the node once services are up
// and answers status requests with a scheduler report.
type Task struct {
	sys  *kernel.System
	log  logx.Logger
	id   hal.EUI64
	self kernel.Handle

	announced bool
	requests  uint32
}

// New returns a status task reporting identity id.
func New(sys *kernel.System, log logx.Logger, id hal.EUI64) *Task {
	return &Task{sys: sys, log: log.With(logx.String("task", "status")), id: id}
}

func (t *Task) Name() string { return "status" }

func (t *Task) Init(self kernel.Handle) error {
	t.self = self
	return nil
}

func (t *Task) OnMessage(msg kernel.Message) (kernel.Message, bool) {
	switch proto.Kind(msg.Kind()) {
	case proto.MsgServicesAvailable:
		t.announce()
	case proto.MsgStatusRequest:
		seq, _ := proto.DecodeStatusRequest(msg.Payload())
		t.report(seq)
	}
	return kernel.Message{}, false
}

func (t *Task) OnTick() {}

// Announced reports whether the startup broadcast has been seen.
func (t *Task) Announced() bool { return t.announced }

// Requests returns the number of status requests served.
func (t *Task) Requests() uint32 { return t.requests }

func (t *Task) announce() {
	t.announced = true
	fields := []logx.Field{
		logx.String("eui64", t.id.String()),
		logx.String("build", buildinfo.Short()),
		logx.String("built", buildinfo.Date),
	}
	if pool := t.sys.Entropy(); pool != nil {
		fields = append(fields, logx.Uint64("entropy_mixes", pool.Mixes()))
	}
	t.log.Info("services available", fields...)
}

func (t *Task) report(seq uint32) {
	t.requests++
	st := t.sys.Scheduler().Stats()
	t.log.Info("scheduler status",
		logx.Uint64("seq", uint64(seq)),
		logx.Int("tasks", len(st.Tasks)),
		logx.Int("immediate_len", st.ImmediateLen),
		logx.Int("normal_len", st.NormalLen),
		logx.Uint64("delivered", st.Delivered),
		logx.Uint64("sleeps", st.Sleeps),
		logx.Uint64("routing_faults", uint64(st.FaultCount(kernel.FaultRouting))),
		logx.Uint64("overload_faults", uint64(st.FaultCount(kernel.FaultDrainBound)+st.FaultCount(kernel.FaultQueueFull))),
		logx.Uint64("alarm_ticks", t.sys.Clock().Now()),
	)
}
