//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"sync"
)

const (
	eepromSizeBytes = 256
	// The upper half of a 24AA02E64 is permanently write-protected.
	eepromProtectedFrom = 0x80
)

var (
	ErrNoDevice        = errors.New("i2c: no device at address")
	ErrEEPROMProtected = errors.New("eeprom: write to protected region")
)

// memEEPROM is an in-memory 24AA02E64 behind a drivers.I2C bus.
type memEEPROM struct {
	mu   sync.Mutex
	addr uint16
	ptr  uint8
	mem  [eepromSizeBytes]byte
}

func newMemEEPROM(addr uint16, id EUI64) *memEEPROM {
	e := &memEEPROM{addr: addr}
	for i := range e.mem {
		e.mem[i] = 0xFF
	}
	copy(e.mem[eui64Register:], id[:])
	return e
}

// Tx implements drivers.I2C. The first written byte sets the word pointer,
// the rest are written from there; reads are sequential and wrap.
func (e *memEEPROM) Tx(addr uint16, w, r []byte) error {
	if addr != e.addr {
		return fmt.Errorf("%w 0x%02x", ErrNoDevice, addr)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(w) > 0 {
		e.ptr = w[0]
		for _, b := range w[1:] {
			if e.ptr >= eepromProtectedFrom {
				return fmt.Errorf("%w at 0x%02x", ErrEEPROMProtected, e.ptr)
			}
			e.mem[e.ptr] = b
			e.ptr++
		}
	}
	for i := range r {
		r[i] = e.mem[e.ptr]
		e.ptr++
	}
	return nil
}
