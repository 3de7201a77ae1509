package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plcnode/app/tasks/heartbeat"
	"plcnode/app/tasks/status"
	"plcnode/entropy"
	"plcnode/hal"
	"plcnode/internal/logx"
	"plcnode/kernel"
	"plcnode/proto"
)

// Options configures node startup.
type Options struct {
	Scheduler       kernel.Config
	AlarmPeriod     time.Duration
	HeartbeatEvery  int
	IdentityAddr    uint16
	Watchdog        bool
	WatchdogTimeout time.Duration
	Log             logx.Options
	FaultRatePerSec float64
	FaultBurst      int
	// Halt runs after a fatal fault has been logged. Nil blocks forever.
	Halt func(kernel.Fault)
}

// DefaultOptions returns the options a node runs with when nothing is
// configured.
func DefaultOptions() Options {
	return Options{
		Scheduler:       kernel.DefaultConfig(),
		AlarmPeriod:     10 * time.Millisecond,
		HeartbeatEvery:  100,
		IdentityAddr:    hal.DefaultIdentityAddr,
		WatchdogTimeout: 2 * time.Second,
		Log:             logx.Options{Level: "info"},
		FaultRatePerSec: 5,
		FaultBurst:      10,
	}
}

// Node is a started node: the system context, its tasks and the dispatch
// loop.
type Node struct {
	Log       logx.Logger
	System    *kernel.System
	Loop      *kernel.Loop
	Identity  hal.EUI64
	Status    *status.Task
	Heartbeat *heartbeat.Task

	faults *faultLog
}

// New performs the startup sequence: it builds the system context, seeds the
// entropy pool from the node identity, registers the tasks, arms the alarm
// and posts the startup broadcast. The returned node has not dispatched
// anything yet.
func New(h hal.HAL, opts Options) (*Node, error) {
	log := logx.New(logx.LineWriter{Sink: h.Logger()}, opts.Log)
	installFatalHandler(log, opts.Halt)

	faults := newFaultLog(log, opts.FaultRatePerSec, opts.FaultBurst)
	timer := h.Timer()
	sched := kernel.NewScheduler(opts.Scheduler, h.Interrupts(), h.Idle(), faults)
	pool := entropy.New(timer)
	sys := kernel.NewSystem(timer, sched, pool)

	addr := opts.IdentityAddr
	if addr == 0 {
		addr = hal.DefaultIdentityAddr
	}
	id, err := hal.ReadEUI64(h.IdentityBus(), addr)
	switch {
	case errors.Is(err, hal.ErrBusConfig):
		log.Error("identity bus unavailable", logx.Hex("addr", uint64(addr)), logx.Err(err))
		id = hal.EUI64{}
	case err != nil:
		log.Warn("node identity unavailable", logx.Err(err))
		id = hal.EUI64{}
	}
	pool.UpdateSeed(id.LoWord())
	pool.UpdateSeed(id.HiWord())

	st := status.New(sys, log, id)
	statusID, err := sched.RegisterTask(st)
	if err != nil {
		return nil, fmt.Errorf("register status: %w", err)
	}
	hb := heartbeat.New(sys, log, statusID, opts.HeartbeatEvery)
	hbID, err := sched.RegisterTask(hb)
	if err != nil {
		return nil, fmt.Errorf("register heartbeat: %w", err)
	}

	if opts.AlarmPeriod > 0 {
		err := timer.SetAlarm(opts.AlarmPeriod, func(tick uint64) {
			var buf [8]byte
			msg, err := kernel.NewMessageTo(kernel.Kind(proto.MsgAlarmTick), hbID).
				WithPayload(proto.AppendAlarmTick(buf[:0], tick))
			if err != nil {
				return
			}
			_ = sys.Post(msg, kernel.Immediate)
		})
		if err != nil {
			return nil, fmt.Errorf("set alarm: %w", err)
		}
	}

	loopOpts := []kernel.LoopOption{kernel.WithLink(h.Link())}
	kicking := false
	if opts.Watchdog {
		wd := h.Watchdog()
		if err := wd.Start(opts.WatchdogTimeout); err != nil {
			if !errors.Is(err, hal.ErrNotImplemented) {
				return nil, fmt.Errorf("start watchdog: %w", err)
			}
			log.Warn("watchdog unavailable", logx.Err(err))
		} else {
			loopOpts = append(loopOpts, kernel.WithWatchdog(wd))
			kicking = true
		}
	}

	if err := sys.Post(kernel.NewMessage(kernel.Kind(proto.MsgServicesAvailable)), kernel.Normal); err != nil {
		return nil, fmt.Errorf("post startup broadcast: %w", err)
	}

	log.Info("node started",
		logx.String("eui64", id.String()),
		logx.Int("tasks", len(sched.Stats().Tasks)),
		logx.Bool("watchdog", kicking),
	)

	return &Node{
		Log:       log,
		System:    sys,
		Loop:      kernel.NewLoop(sys, loopOpts...),
		Identity:  id,
		Status:    st,
		Heartbeat: hb,
		faults:    faults,
	}, nil
}

// Run dispatches until ctx is done or iterations (> 0) have completed.
func (n *Node) Run(ctx context.Context, iterations uint64) error {
	return n.Loop.Run(ctx, iterations)
}

// Run starts the node and dispatches forever (TinyGo/native entrypoint).
func Run(h hal.HAL, opts Options) {
	n, err := New(h, opts)
	if err != nil {
		h.Logger().WriteLineString("startup failed: " + err.Error())
		select {}
	}
	_ = n.Run(context.Background(), 0)
	select {}
}
