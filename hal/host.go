//go:build !tinygo

package hal

import (
	"context"
	"io"
	"os"
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers"
)

// HostConfig configures the host HAL.
type HostConfig struct {
	// EUI64 is the identity programmed into the simulated EEPROM.
	EUI64 EUI64
	// IdentityAddr is the EEPROM's I2C address; 0 selects DefaultIdentityAddr.
	IdentityAddr uint16
	// Out receives log lines; nil selects os.Stdout.
	Out io.Writer
	// In backs UART reads; nil selects os.Stdin.
	In io.Reader
}

// Host is the HAL used when running the node as a host process.
type Host struct {
	uart   *hostUART
	logger *UARTLogger
	gate   *irqGate
	timer  *alarmTimer
	wdog   *hostWatchdog
	bus    *memEEPROM
}

var _ HAL = (*Host)(nil)

// NewHost returns a host HAL implementation.
func NewHost(cfg HostConfig) *Host {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.IdentityAddr == 0 {
		cfg.IdentityAddr = DefaultIdentityAddr
	}
	uart := &hostUART{r: cfg.In, w: cfg.Out}
	gate := newIRQGate()
	return &Host{
		uart:   uart,
		logger: NewUARTLogger(uart),
		gate:   gate,
		timer:  newAlarmTimer(gate),
		wdog:   &hostWatchdog{},
		bus:    newMemEEPROM(cfg.IdentityAddr, cfg.EUI64),
	}
}

func (h *Host) Logger() Logger           { return h.logger }
func (h *Host) Timer() Timer             { return h.timer }
func (h *Host) Interrupts() Interrupts   { return h.gate }
func (h *Host) Idle() Idle               { return h.gate }
func (h *Host) Watchdog() Watchdog       { return h.wdog }
func (h *Host) Link() Link               { return nullLink{} }
func (h *Host) IdentityBus() drivers.I2C { return h.bus }

// UART returns the stdio UART behind the logger.
func (h *Host) UART() drivers.UART { return h.uart }

// Raise runs fn as an interrupt handler and wakes the processor.
func (h *Host) Raise(fn func()) { h.gate.raise(fn) }

// Raised returns the number of interrupts raised so far.
func (h *Host) Raised() uint64 { return h.gate.raised.Load() }

// Run drives the alarm until ctx is done.
func (h *Host) Run(ctx context.Context) error { return h.timer.run(ctx) }

// FireAlarm raises one alarm interrupt immediately.
func (h *Host) FireAlarm() { h.timer.fire() }

// Shutdown wakes a sleeping loop and keeps later waits from blocking so the
// loop can observe cancellation.
func (h *Host) Shutdown() { h.gate.shutdown() }

// Kicks returns the number of watchdog kicks.
func (h *Host) Kicks() uint64 { return h.wdog.kicks.Load() }

type hostWatchdog struct {
	timeout atomic.Int64
	kicks   atomic.Uint64
}

func (w *hostWatchdog) Start(timeout time.Duration) error {
	if timeout <= 0 {
		return ErrInvalidPeriod
	}
	w.timeout.Store(int64(timeout))
	return nil
}

func (w *hostWatchdog) Kick() { w.kicks.Add(1) }
