package hal

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"tinygo.org/x/drivers"
)

// DefaultIdentityAddr is the 7-bit I2C address of the 24AA02E64 identity
// EEPROM.
const DefaultIdentityAddr uint16 = 0x50

// eui64Register is the first byte of the factory-programmed EUI-64.
const eui64Register = 0xF8

var (
	ErrNoIdentity = errors.New("identity eeprom not programmed")
	ErrBadEUI64   = errors.New("malformed eui-64")
)

// EUI64 is the node's 64-bit extended unique identifier.
type EUI64 [8]byte

// Uint64 returns e as a big-endian integer.
func (e EUI64) Uint64() uint64 { return binary.BigEndian.Uint64(e[:]) }

// HiWord returns the upper 32 bits.
func (e EUI64) HiWord() uint32 { return uint32(e.Uint64() >> 32) }

// LoWord returns the lower 32 bits.
func (e EUI64) LoWord() uint32 { return uint32(e.Uint64()) }

func (e EUI64) IsZero() bool { return e == EUI64{} }

// String formats e as colon-separated hex octets.
func (e EUI64) String() string {
	var b strings.Builder
	b.Grow(23)
	for i, v := range e {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(hex.EncodeToString([]byte{v}))
	}
	return b.String()
}

// ParseEUI64 accepts 16 hex digits, optionally separated into octets by ':'
// or '-'.
func ParseEUI64(s string) (EUI64, error) {
	var e EUI64
	clean := strings.NewReplacer(":", "", "-", "").Replace(strings.TrimSpace(s))
	if len(clean) != 16 {
		return e, fmt.Errorf("%w: %q", ErrBadEUI64, s)
	}
	if _, err := hex.Decode(e[:], []byte(clean)); err != nil {
		return e, fmt.Errorf("%w: %q: %v", ErrBadEUI64, s, err)
	}
	return e, nil
}

// ReadEUI64 reads the EUI-64 from the identity EEPROM at addr. An all-zero
// or all-ones identity is reported as ErrNoIdentity.
func ReadEUI64(bus drivers.I2C, addr uint16) (EUI64, error) {
	var e EUI64
	if bus == nil {
		return e, ErrNotImplemented
	}
	if err := bus.Tx(addr, []byte{eui64Register}, e[:]); err != nil {
		return e, fmt.Errorf("read eui-64 at 0x%02x: %w", addr, err)
	}
	if e.IsZero() || e == (EUI64{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}) {
		return e, ErrNoIdentity
	}
	return e, nil
}
