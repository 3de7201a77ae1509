package hal

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrAlarmSet       = errors.New("alarm already set")
	ErrInvalidPeriod  = errors.New("invalid alarm period")
)

// Timer is the hardware clock: a free-running cycle counter plus a periodic
// alarm.
type Timer interface {
	// Counter returns a free-running counter whose low bits jitter.
	Counter() uint32
	// Now returns the number of alarm ticks raised so far.
	Now() uint64
	// SetAlarm installs fn as the periodic alarm handler. fn runs in
	// interrupt context and must only post messages.
	SetAlarm(period time.Duration, fn func(tick uint64)) error
}

// Interrupts masks and unmasks interrupt delivery. Disable returns the prior
// state for Restore; pairs do not nest.
type Interrupts interface {
	Disable() uintptr
	Restore(state uintptr)
}

// Idle parks the processor until the next interrupt. An interrupt raised
// since the previous wait makes the next wait return at once.
type Idle interface {
	WaitForInterrupt()
}

// Watchdog resets the node unless kicked within its timeout.
type Watchdog interface {
	Start(timeout time.Duration) error
	Kick()
}

// Link is the power-line network driver library, polled once per loop
// iteration.
type Link interface {
	Progress()
}

// HAL provides the only contact point between the node and the outside world.
type HAL interface {
	Logger() Logger
	Timer() Timer
	Interrupts() Interrupts
	Idle() Idle
	Watchdog() Watchdog
	Link() Link
	// IdentityBus is the I2C bus carrying the EUI-64 EEPROM.
	IdentityBus() drivers.I2C
}
