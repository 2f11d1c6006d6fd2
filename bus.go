package vl53l1x

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Bus is a connection to one device address on an I2C bus.  The method set
// matches *i2c.Options from github.com/swdee/go-i2c.
type Bus interface {
	WriteBytes(buf []byte) (int, error)
	ReadBytes(buf []byte) (int, error)
	Close() error
}

// Opener opens a Bus connection to the device at the given 7 bit address
type Opener func(addr uint8) (Bus, error)

// PowerPin is the output wired to the XSHUT input of the sensor.  Any
// periph.io gpio.PinIO satisfies it.
type PowerPin interface {
	Out(l gpio.Level) error
	Halt() error
}

// Clock provides the monotonic time source and sleep primitive used by the
// polling loops
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// systemClock is the Clock backed by the time package
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
