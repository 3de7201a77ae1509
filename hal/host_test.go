//go:build !tinygo

package hal

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

var testID = EUI64{0x00, 0x04, 0xa3, 0x0b, 0x00, 0x1a, 0x2b, 0x3c}

func TestReadEUI64FromHostBus(t *testing.T) {
	h := NewHost(HostConfig{EUI64: testID, Out: &bytes.Buffer{}})

	got, err := ReadEUI64(h.IdentityBus(), DefaultIdentityAddr)
	if err != nil {
		t.Fatalf("ReadEUI64: %v", err)
	}
	if got != testID {
		t.Fatalf("ReadEUI64() = %s, want %s", got, testID)
	}

	if _, err := ReadEUI64(h.IdentityBus(), 0x51); !errors.Is(err, ErrNoDevice) {
		t.Fatalf("ReadEUI64(0x51) err = %v, want ErrNoDevice", err)
	}
}

func TestReadEUI64Unprogrammed(t *testing.T) {
	h := NewHost(HostConfig{Out: &bytes.Buffer{}})
	if _, err := ReadEUI64(h.IdentityBus(), DefaultIdentityAddr); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("ReadEUI64() err = %v, want ErrNoIdentity", err)
	}
}

func TestEEPROMUpperHalfIsProtected(t *testing.T) {
	e := newMemEEPROM(DefaultIdentityAddr, testID)

	if err := e.Tx(DefaultIdentityAddr, []byte{0x10, 0xAA, 0xBB}, nil); err != nil {
		t.Fatalf("write lower half: %v", err)
	}
	r := make([]byte, 2)
	if err := e.Tx(DefaultIdentityAddr, []byte{0x10}, r); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(r, []byte{0xAA, 0xBB}) {
		t.Fatalf("read back = %x, want aabb", r)
	}

	if err := e.Tx(DefaultIdentityAddr, []byte{eui64Register, 0x00}, nil); !errors.Is(err, ErrEEPROMProtected) {
		t.Fatalf("write to identity err = %v, want ErrEEPROMProtected", err)
	}
	if got, _ := ReadEUI64(e, DefaultIdentityAddr); got != testID {
		t.Fatalf("identity after rejected write = %s, want %s", got, testID)
	}
}

func TestUARTLoggerWritesCRLFLines(t *testing.T) {
	var out bytes.Buffer
	h := NewHost(HostConfig{Out: &out})

	h.Logger().WriteLineString("boot")
	h.Logger().WriteLineBytes([]byte("ready"))

	if got := out.String(); got != "boot\r\nready\r\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestWaitReturnsWhenInterruptRaisedFirst(t *testing.T) {
	g := newIRQGate()
	g.raise(nil)

	done := make(chan struct{})
	go func() {
		g.Disable()
		g.WaitForInterrupt()
		g.Restore(0)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("WaitForInterrupt() blocked despite an earlier interrupt")
	}
}

func TestHandlerWaitsForMaskButWakesSleeper(t *testing.T) {
	g := newIRQGate()
	var posted atomic.Bool
	handlerDone := make(chan struct{})

	g.Disable()
	go func() {
		g.raise(func() {
			g.Disable()
			posted.Store(true)
			g.Restore(0)
		})
		close(handlerDone)
	}()

	g.WaitForInterrupt()
	if posted.Load() {
		t.Fatalf("handler ran while interrupts were masked")
	}
	g.Restore(0)

	select {
	case <-handlerDone:
	case <-time.After(2 * time.Second):
		t.Fatalf("handler did not complete after Restore")
	}
	if !posted.Load() {
		t.Fatalf("handler did not run")
	}
	if g.raised.Load() != 1 {
		t.Fatalf("raised = %d, want 1", g.raised.Load())
	}
}

func TestShutdownWakesSleeper(t *testing.T) {
	h := NewHost(HostConfig{Out: &bytes.Buffer{}})

	done := make(chan struct{})
	go func() {
		h.Idle().WaitForInterrupt()
		close(done)
	}()
	h.Shutdown()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("WaitForInterrupt() still blocked after Shutdown")
	}
	h.Idle().WaitForInterrupt()
}

func TestSetAlarm(t *testing.T) {
	h := NewHost(HostConfig{Out: &bytes.Buffer{}})
	tm := h.Timer()

	if err := tm.SetAlarm(0, func(uint64) {}); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("SetAlarm(0) err = %v, want ErrInvalidPeriod", err)
	}

	var ticks []uint64
	if err := tm.SetAlarm(time.Millisecond, func(tick uint64) { ticks = append(ticks, tick) }); err != nil {
		t.Fatalf("SetAlarm: %v", err)
	}
	if err := tm.SetAlarm(time.Millisecond, func(uint64) {}); !errors.Is(err, ErrAlarmSet) {
		t.Fatalf("second SetAlarm err = %v, want ErrAlarmSet", err)
	}

	h.FireAlarm()
	h.FireAlarm()
	if len(ticks) != 2 || ticks[0] != 1 || ticks[1] != 2 {
		t.Fatalf("ticks = %v, want [1 2]", ticks)
	}
	if tm.Now() != 2 {
		t.Fatalf("Now() = %d, want 2", tm.Now())
	}
	if h.Raised() != 2 {
		t.Fatalf("Raised() = %d, want 2", h.Raised())
	}
}

func TestRunDrivesAlarmUntilCancelled(t *testing.T) {
	h := NewHost(HostConfig{Out: &bytes.Buffer{}})
	var fired atomic.Uint64
	if err := h.Timer().SetAlarm(time.Millisecond, func(uint64) { fired.Add(1) }); err != nil {
		t.Fatalf("SetAlarm: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- h.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("alarm fired %d times, want at least 3", fired.Load())
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
}

func TestWatchdog(t *testing.T) {
	h := NewHost(HostConfig{Out: &bytes.Buffer{}})
	if err := h.Watchdog().Start(0); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("Start(0) err = %v, want ErrInvalidPeriod", err)
	}
	if err := h.Watchdog().Start(time.Second); err != nil {
		t.Fatalf("Start: %v", err)
	}
	h.Watchdog().Kick()
	h.Watchdog().Kick()
	if h.Kicks() != 2 {
		t.Fatalf("Kicks() = %d, want 2", h.Kicks())
	}
}

func TestCheckedBusPassesHealthyBus(t *testing.T) {
	e := newMemEEPROM(DefaultIdentityAddr, EUI64{1, 2, 3, 4, 5, 6, 7, 8})
	if got := CheckedBus(e, nil); got != e {
		t.Fatalf("CheckedBus(bus, nil) did not return bus")
	}
}
