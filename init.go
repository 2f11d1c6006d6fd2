package vl53l1x

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// BootState reports whether the sensor firmware has finished booting
type BootState uint8

const (
	NotBooted BootState = iota
	Booted
)

// String implement Stringer interface for BootState
func (b BootState) String() string {
	if b == Booted {
		return "booted"
	}

	return "not booted"
}

// defaultConfiguration is written to registers 0x2D to 0x87 on initialization,
// taken from VL51L1X_DEFAULT_CONFIGURATION in the Ultra Lite Driver
var defaultConfiguration = [...]byte{
	0x00,                                                 // 0x2d : set bit 2 and 5 to 1 for fast plus mode (1MHz I2C), else don't touch
	0x01,                                                 // 0x2e : bit 0 if I2C pulled up at 1.8V, else set bit 0 to 1 (pull up at AVDD)
	0x01,                                                 // 0x2f : bit 0 if GPIO pulled up at 1.8V, else set bit 0 to 1 (pull up at AVDD)
	0x01,                                                 // 0x30 : set bit 4 to 0 for active high interrupt and 1 for active low (bits 3:0 must be 0x1)
	0x02,                                                 // 0x31 : bit 1 = interrupt depending on the polarity
	0x00, 0x02, 0x08, 0x00, 0x08, 0x10, 0x01, 0x01,       // 0x32 - 0x39
	0x00, 0x00, 0x00, 0x00, 0xff, 0x00, 0x0F, 0x00,       // 0x3a - 0x41
	0x00, 0x00, 0x00, 0x00,                               // 0x42 - 0x45
	0x20,                                                 // 0x46 : interrupt configuration, 0x20 is new sample ready
	0x0b, 0x00, 0x00, 0x02, 0x0a, 0x21, 0x00, 0x00,       // 0x47 - 0x4e
	0x05, 0x00, 0x00, 0x00, 0x00, 0xc8, 0x00, 0x00,       // 0x4f - 0x56
	0x38, 0xff, 0x01, 0x00, 0x08, 0x00, 0x00, 0x01,       // 0x57 - 0x5e
	0xcc, 0x0f, 0x01, 0xf1, 0x0d,                         // 0x5f - 0x63
	0x01,                                                 // 0x64 : sigma threshold MSB (mm in 14.2 format), default 90 mm
	0x68,                                                 // 0x65 : sigma threshold LSB
	0x00,                                                 // 0x66 : min count rate MSB (MCPS in 9.7 format)
	0x80,                                                 // 0x67 : min count rate LSB
	0x08, 0xb8, 0x00, 0x00,                               // 0x68 - 0x6b
	0x00, 0x00, 0x0f, 0x89,                               // 0x6c - 0x6f : intermeasurement period, 32 bits
	0x00, 0x00,                                           // 0x70 - 0x71
	0x00, 0x00,                                           // 0x72 - 0x73 : distance threshold high
	0x00, 0x00,                                           // 0x74 - 0x75 : distance threshold low
	0x00, 0x01, 0x0f, 0x0d, 0x0e, 0x0e, 0x00, 0x00, 0x02, // 0x76 - 0x7e
	0xc7,                                                 // 0x7f : ROI center
	0xff,                                                 // 0x80 : XY ROI (X=Width, Y=Height)
	0x9B, 0x00, 0x00, 0x00, 0x01,                         // 0x81 - 0x85
	0x00,                                                 // 0x86 : clear interrupt
	0x00,                                                 // 0x87 : start ranging, 0x40 starts ranging right after init
}

const (
	defaultConfigurationStart uint16 = 0x2D
	defaultConfigurationEnd   uint16 = 0x87
)

// powerOn pulses XSHUT low then high to reset the sensor.  Without a power
// pin the sensor is assumed to be always on.
func (v *VL53L1X) powerOn() error {

	if v.pin == nil {
		return nil
	}

	v.log.Print("Pulsing XSHUT")

	if err := v.pin.Out(gpio.Low); err != nil {
		return err
	}

	v.clock.Sleep(10 * time.Millisecond)

	if err := v.pin.Out(gpio.High); err != nil {
		return err
	}

	v.clock.Sleep(10 * time.Millisecond)

	return nil
}

// assignAddress connects to the sensor at its factory address, programs
// newAddr into it and reopens the connection at newAddr
func (v *VL53L1X) assignAddress(newAddr uint8) error {

	if newAddr > 0x7F {
		return fmt.Errorf("%w: address 0x%02X can't exceed 0x7F", ErrInvalidArgument, newAddr)
	}

	defaultBus, err := v.opener(Address)

	if err != nil {
		return fmt.Errorf("%w: open default address: %w", ErrAddressAssignment, err)
	}

	if newAddr == Address {
		v.setBus(defaultBus)
		return nil
	}

	v.log.Printf("Changing address 0x%02X to 0x%02X", Address, newAddr)

	err = registers{bus: defaultBus}.writeReg(I2C_SLAVE_DEVICE_ADDRESS, newAddr)

	if err == nil {
		v.clock.Sleep(10 * time.Millisecond)
	}

	// release the default address connection on every path
	if cerr := defaultBus.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return fmt.Errorf("%w: can't change I2C address to 0x%02X: %w", ErrAddressAssignment, newAddr, err)
	}

	bus, err := v.opener(newAddr)

	if err != nil {
		return fmt.Errorf("%w: open address 0x%02X: %w", ErrAddressAssignment, newAddr, err)
	}

	v.setBus(bus)
	return nil
}

// setBus makes bus the permanent connection of the sensor
func (v *VL53L1X) setBus(bus Bus) {
	v.bus = bus
	v.transport = registers{bus: bus}
}

// GetBootState returns the firmware boot state
func (v *VL53L1X) GetBootState() (BootState, error) {

	val, err := v.readReg(FIRMWARE_SYSTEM_STATUS)

	if err != nil {
		return NotBooted, err
	}

	if val > 0 {
		return Booted, nil
	}

	return NotBooted, nil
}

// waitForBoot polls the boot state until the firmware reports booted
func (v *VL53L1X) waitForBoot() error {

	v.startTimeout()

	for {
		state, err := v.GetBootState()

		if err != nil {
			return err
		}

		if state == Booted {
			return nil
		}

		if v.checkTimeoutExpired() {
			return fmt.Errorf("%w: the device did not boot within %v", ErrTimeout, v.ioTimeout)
		}

		v.clock.Sleep(bootPollInterval)
	}
}

// initialize writes the default configuration then runs one ranging cycle so
// the VHV calibration settles, based on VL53L1X_SensorInit()
func (v *VL53L1X) initialize() error {

	for reg := defaultConfigurationStart; reg <= defaultConfigurationEnd; reg++ {
		if err := v.writeReg(reg, defaultConfiguration[reg-defaultConfigurationStart]); err != nil {
			return err
		}
	}

	if err := v.StartRanging(); err != nil {
		return err
	}

	if err := v.WaitForDataReady(); err != nil {
		return err
	}

	if err := v.ClearInterrupt(); err != nil {
		return err
	}

	if err := v.StopRanging(); err != nil {
		return err
	}

	// two bounds VHV
	if err := v.writeReg(VHV_CONFIG_TIMEOUT_MACROP_LOOP_BOUND, 0x09); err != nil {
		return err
	}

	// start VHV from the previous temperature
	return v.writeReg(VHV_CONFIG_INIT, 0x00)
}

// GetSensorID returns the model ID of the sensor which should be 0xEACC
func (v *VL53L1X) GetSensorID() (uint16, error) {
	return v.readReg16Bit(IDENTIFICATION_MODEL_ID)
}
