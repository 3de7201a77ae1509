package kernel

import (
	"fmt"
	"sync/atomic"
)

// FaultKind identifies a scheduler fault.
type FaultKind uint8

const (
	// FaultStartup is a configuration/startup fault. Always fatal.
	FaultStartup FaultKind = iota
	// FaultRouting is a message addressed to an unknown or uninitialized task.
	FaultRouting
	// FaultDrainBound is an immediate drain that hit its delivery bound.
	FaultDrainBound
	// FaultQueueFull is a post rejected because its queue is at capacity.
	FaultQueueFull

	faultKinds
)

func (k FaultKind) String() string {
	switch k {
	case FaultStartup:
		return "startup"
	case FaultRouting:
		return "routing"
	case FaultDrainBound:
		return "drain_bound"
	case FaultQueueFull:
		return "queue_full"
	default:
		return "unknown"
	}
}

// FaultKinds lists every fault kind in declaration order.
func FaultKinds() []FaultKind {
	out := make([]FaultKind, 0, faultKinds)
	for k := FaultKind(0); k < faultKinds; k++ {
		out = append(out, k)
	}
	return out
}

// FaultClass groups fault kinds by handling policy.
type FaultClass uint8

const (
	ClassFatal FaultClass = iota
	ClassRouting
	ClassOverload
)

func (c FaultClass) String() string {
	switch c {
	case ClassFatal:
		return "fatal"
	case ClassRouting:
		return "routing"
	case ClassOverload:
		return "overload"
	default:
		return "unknown"
	}
}

// Class returns the handling class of k.
func (k FaultKind) Class() FaultClass {
	switch k {
	case FaultRouting:
		return ClassRouting
	case FaultDrainBound, FaultQueueFull:
		return ClassOverload
	default:
		return ClassFatal
	}
}

// Fault describes one reported fault.
type Fault struct {
	Kind FaultKind
	// Msg is the kind of the offending message, if any.
	Msg Kind
	// To is the destination of the offending message, if any.
	To Handle
	// Task names the task involved, if known.
	Task string
	Err  error
}

func (f Fault) Error() string {
	s := fmt.Sprintf("%s fault: msg=%d to=%d", f.Kind, f.Msg, f.To)
	if f.Task != "" {
		s += " task=" + f.Task
	}
	if f.Err != nil {
		s += ": " + f.Err.Error()
	}
	return s
}

func (f Fault) Unwrap() error { return f.Err }

// Reporter receives non-fatal faults.
//
// Report may run in interrupt context and must not block or post messages.
type Reporter interface {
	Report(Fault)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Fault)

func (fn ReporterFunc) Report(f Fault) { fn(f) }

// NopReporter discards every fault.
type NopReporter struct{}

func (NopReporter) Report(Fault) {}

type faultCounters [faultKinds]atomic.Uint32

func (c *faultCounters) add(k FaultKind) {
	if k < faultKinds {
		c[k].Add(1)
	}
}

func (c *faultCounters) load(k FaultKind) uint32 {
	if k >= faultKinds {
		return 0
	}
	return c[k].Load()
}
