package vl53l1x

import (
	"tinygo.org/x/drivers"
)

// tinyGoBus adapts a tinygo drivers.I2C bus to the Bus interface
type tinyGoBus struct {
	bus  drivers.I2C
	addr uint16
}

func (t *tinyGoBus) WriteBytes(buf []byte) (int, error) {

	if err := t.bus.Tx(t.addr, buf, nil); err != nil {
		return 0, err
	}

	return len(buf), nil
}

func (t *tinyGoBus) ReadBytes(buf []byte) (int, error) {

	if err := t.bus.Tx(t.addr, nil, buf); err != nil {
		return 0, err
	}

	return len(buf), nil
}

// Close is a no-op, the bus itself is owned by the caller
func (t *tinyGoBus) Close() error {
	return nil
}

// TinyGoOpener returns an Opener over a bus that implements the tinygo
// drivers.I2C interface, such as machine.I2C0 on a microcontroller
func TinyGoOpener(bus drivers.I2C) Opener {
	return func(addr uint8) (Bus, error) {
		return &tinyGoBus{bus: bus, addr: uint16(addr)}, nil
	}
}
