package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	// MsgServicesAvailable is broadcast once at startup, after every task
	// has been registered.
	MsgServicesAvailable Kind = iota + 1
	// MsgAlarmTick is posted from the alarm interrupt.
	MsgAlarmTick
	// MsgStatusRequest asks the status task to report scheduler state.
	MsgStatusRequest
)

func (k Kind) String() string {
	switch k {
	case MsgServicesAvailable:
		return "services_available"
	case MsgAlarmTick:
		return "alarm_tick"
	case MsgStatusRequest:
		return "status_request"
	default:
		return "unknown"
	}
}
