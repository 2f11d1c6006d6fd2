package vl53l1x

import (
	"fmt"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// periphBus adapts a periph.io i2c.Dev to the Bus interface
type periphBus struct {
	bus i2c.BusCloser
	dev *i2c.Dev
}

// WriteBytes sends buf as a single write transaction
func (p *periphBus) WriteBytes(buf []byte) (int, error) {

	if err := p.dev.Tx(buf, nil); err != nil {
		return 0, err
	}

	return len(buf), nil
}

// ReadBytes fills buf with a single read transaction
func (p *periphBus) ReadBytes(buf []byte) (int, error) {

	if err := p.dev.Tx(nil, buf); err != nil {
		return 0, err
	}

	return len(buf), nil
}

// Close releases the underlying bus handle
func (p *periphBus) Close() error {
	return p.bus.Close()
}

// PeriphOpener returns an Opener using the periph.io host drivers.  busName
// is looked up in the i2creg registry, an empty name selects the first bus.
func PeriphOpener(busName string) Opener {
	return func(addr uint8) (Bus, error) {

		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("could not init host: %w", err)
		}

		bus, err := i2creg.Open(busName)

		if err != nil {
			return nil, fmt.Errorf("could not open bus: %w", err)
		}

		return &periphBus{
			bus: bus,
			dev: &i2c.Dev{Bus: bus, Addr: uint16(addr)},
		}, nil
	}
}

// PeriphPin looks up the named GPIO, eg: GPIO17, for use as the XSHUT power
// pin
func PeriphPin(name string) (PowerPin, error) {

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}

	pin := gpioreg.ByName(name)

	if pin == nil {
		return nil, fmt.Errorf("%w: power gpio %q not found", ErrInvalidArgument, name)
	}

	return pin, nil
}
