package hal

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"
)

var ErrBusConfig = errors.New("i2c bus not configured")

// CheckedBus returns bus, or, when its configuration failed with err, a bus
// whose every transfer reports that failure.
func CheckedBus(bus drivers.I2C, err error) drivers.I2C {
	if err != nil {
		return brokenBus{err: fmt.Errorf("%w: %w", ErrBusConfig, err)}
	}
	return bus
}

type brokenBus struct {
	err error
}

func (b brokenBus) Tx(uint16, []byte, []byte) error { return b.err }
