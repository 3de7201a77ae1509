package kernel

// Task is a cooperatively scheduled functional unit.
//
// Handlers run to completion on the main loop and never concurrently with
// each other, so task state needs no locking.
type Task interface {
	// Init runs once, before any message is delivered to the task.
	Init(self Handle) error
	// OnMessage handles one message and may return a follow-up message.
	OnMessage(msg Message) (Message, bool)
	// OnTick runs once per loop iteration.
	OnTick()
}

// Pender is implemented by tasks that can have outstanding tick-work.
// The scheduler does not sleep while any task reports pending work.
type Pender interface {
	Pending() bool
}

// Namer is implemented by tasks that want a readable name in fault reports.
type Namer interface {
	Name() string
}

func taskName(t Task) string {
	if n, ok := t.(Namer); ok {
		return n.Name()
	}
	return ""
}

// Urgency selects the queue a message is posted to.
type Urgency uint8

const (
	// Normal messages are delivered one per loop iteration.
	Normal Urgency = iota
	// Immediate messages are drained before any normal message.
	Immediate
)

func (u Urgency) String() string {
	switch u {
	case Normal:
		return "normal"
	case Immediate:
		return "immediate"
	default:
		return "unknown"
	}
}
