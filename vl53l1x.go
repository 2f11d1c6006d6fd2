// go-vl53l1x is an I2C driver for the ST VL53L1X time‐of‐flight sensor.
package vl53l1x

import (
	"fmt"
	"io"
	"log"
	"time"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"
)

const (
	// Address is the default address of the sensor on I2C bus
	Address uint8 = 0x29
	// DefaultTimeout is the operation timeout used when Config.Timeout is zero
	DefaultTimeout = 500 * time.Millisecond
)

// Config holds the construction parameters of a sensor
type Config struct {
	// Opener opens bus connections, it is called once with the default
	// address and once with Address when the two differ
	Opener Opener
	// Address is the bus address to assign to the sensor, defaults to 0x29
	Address uint8
	// PowerPin is the pin driving XSHUT.  When nil the sensor is assumed to
	// be always powered with XSHUT pulled up.
	PowerPin PowerPin
	// Timeout bounds boot and data ready polling, defaults to 500ms
	Timeout time.Duration
	// Clock is the time source, defaults to the system clock
	Clock Clock
	// Logger receives debug output, defaults to discarding it
	Logger *log.Logger
}

// RangingController starts and stops ranging and tracks data readiness
type RangingController interface {
	StartRanging() error
	StopRanging() error
	IsRangingActive() (bool, error)
	ClearInterrupt() error
	IsDataReady() (bool, error)
	WaitForDataReady() error
}

// Configurator programs the measurement settings of the sensor
type Configurator interface {
	SetDistanceMode(mode DistanceMode) error
	GetDistanceMode() (DistanceMode, error)
	SetTimingBudget(budget TimingBudget) error
	GetTimingBudget() (TimingBudget, error)
	SetInterMeasurementPeriod(ms uint16) error
	GetInterMeasurementPeriod() (uint16, error)
	SetROI(roi ROI) error
	GetROI() (ROI, error)
	SetDistanceThreshold(low, high uint16, mode WindowDetectionMode) error
	SetSignalThreshold(signal uint16) error
	SetSigmaThreshold(sigma uint16) error
}

// Measurer reads measurement results and runs calibrations
type Measurer interface {
	Distance() (uint16, error)
	GetDistance() (uint16, error)
	GetSignalPerSpad() (uint16, error)
	GetAmbientPerSpad() (uint16, error)
	GetRangeStatus() (RangeStatus, error)
	CalibrateOffset(targetDistanceMm uint16) (int16, error)
	CalibrateXtalk(targetDistanceMm uint16) (uint16, error)
}

var (
	_ RangingController = (*VL53L1X)(nil)
	_ Configurator      = (*VL53L1X)(nil)
	_ Measurer          = (*VL53L1X)(nil)
)

// VL53L1X represents a single VL53L1X sensor instance.
type VL53L1X struct {
	transport

	// bus is the I2C connection at the assigned address
	bus    Bus
	opener Opener
	pin    PowerPin
	clock  Clock

	address   uint8
	ioTimeout time.Duration

	timeoutStart time.Time

	rangingActive bool

	// log logger for debugging
	log *log.Logger
}

// New powers up the sensor, assigns its bus address, waits for boot and
// writes the default configuration.  On failure every resource acquired so
// far is released.
func New(cfg Config) (*VL53L1X, error) {

	if cfg.Opener == nil {
		return nil, fmt.Errorf("%w: no bus opener configured", ErrInvalidArgument)
	}

	v := &VL53L1X{
		opener:    cfg.Opener,
		pin:       cfg.PowerPin,
		clock:     cfg.Clock,
		address:   cfg.Address,
		ioTimeout: cfg.Timeout,
		log:       cfg.Logger,
	}

	if v.address == 0 {
		v.address = Address
	}

	if v.ioTimeout == 0 {
		v.ioTimeout = DefaultTimeout
	}

	if v.clock == nil {
		v.clock = systemClock{}
	}

	if v.log == nil {
		// create null logger
		v.log = log.New(io.Discard, "", log.LstdFlags)
	}

	if err := v.setup(); err != nil {
		return nil, multierr.Append(err, v.Close())
	}

	return v, nil
}

// setup runs the construction sequence in order
func (v *VL53L1X) setup() error {

	v.log.Printf("Starting setup at address 0x%02X", v.address)

	if err := v.powerOn(); err != nil {
		return fmt.Errorf("power on failed: %w", err)
	}

	if err := v.assignAddress(v.address); err != nil {
		return err
	}

	if err := v.waitForBoot(); err != nil {
		return err
	}

	if err := v.initialize(); err != nil {
		return fmt.Errorf("failed to init device: %w", err)
	}

	v.log.Printf("Device initialized")

	return nil
}

// Close releases the bus connection and powers the sensor down when a power
// pin is configured.  It is safe to call more than once, the sensor must
// not be used afterwards.
func (v *VL53L1X) Close() error {

	var err error

	if v.bus != nil {
		err = multierr.Append(err, v.bus.Close())
		v.bus = nil
		v.transport = nil
	}

	return multierr.Append(err, v.powerOff())
}

// powerOff drives XSHUT low and releases the pin
func (v *VL53L1X) powerOff() error {

	if v.pin == nil {
		return nil
	}

	pin := v.pin
	v.pin = nil

	err := pin.Out(gpio.Low)
	v.clock.Sleep(10 * time.Millisecond)

	return multierr.Append(err, pin.Halt())
}

// Addr returns the address the sensor answers on
func (v *VL53L1X) Addr() uint8 {
	return v.address
}
