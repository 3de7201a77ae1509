//go:build tinygo && baremetal

package hal

import (
	"context"
	"machine"
	"time"

	"tinygo.org/x/drivers"
)

type tinyGoHAL struct {
	logger *UARTLogger
	gate   *irqGate
	timer  *alarmTimer
	wdog   *tinyGoWatchdog
	bus    drivers.I2C
}

// New returns the device HAL.
//
// UART: UART0 on the board's default pins, 115200 8N1.
// I2C: I2C0 at 100 kHz, carrying the identity EEPROM. A configuration
// failure surfaces on the first identity read.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{BaudRate: 115200})

	i2c := machine.I2C0
	bus := CheckedBus(i2c, i2c.Configure(machine.I2CConfig{Frequency: 100_000}))

	gate := newIRQGate()
	return &tinyGoHAL{
		logger: NewUARTLogger(uart),
		gate:   gate,
		timer:  newAlarmTimer(gate),
		wdog:   &tinyGoWatchdog{},
		bus:    bus,
	}
}

func (h *tinyGoHAL) Logger() Logger           { return h.logger }
func (h *tinyGoHAL) Timer() Timer             { return &tinyGoTimer{alarmTimer: h.timer} }
func (h *tinyGoHAL) Interrupts() Interrupts   { return h.gate }
func (h *tinyGoHAL) Idle() Idle               { return h.gate }
func (h *tinyGoHAL) Watchdog() Watchdog       { return h.wdog }
func (h *tinyGoHAL) Link() Link               { return nullLink{} }
func (h *tinyGoHAL) IdentityBus() drivers.I2C { return h.bus }

// tinyGoTimer starts the alarm goroutine as soon as the alarm is set.
type tinyGoTimer struct {
	*alarmTimer
}

func (t *tinyGoTimer) SetAlarm(period time.Duration, fn func(tick uint64)) error {
	if err := t.alarmTimer.SetAlarm(period, fn); err != nil {
		return err
	}
	go t.run(context.Background())
	return nil
}

type tinyGoWatchdog struct {
	started bool
}

func (w *tinyGoWatchdog) Start(timeout time.Duration) error {
	ms := timeout.Milliseconds()
	if ms <= 0 {
		return ErrInvalidPeriod
	}
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: uint32(ms)}); err != nil {
		return err
	}
	if err := machine.Watchdog.Start(); err != nil {
		return err
	}
	w.started = true
	return nil
}

func (w *tinyGoWatchdog) Kick() {
	if w.started {
		machine.Watchdog.Update()
	}
}
