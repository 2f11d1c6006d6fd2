package vl53l1x

import "fmt"

// Register addresses from the ST VL53L1X Ultra Lite Driver (STSW-IMG009)
const (
	SOFT_RESET               uint16 = 0x0000
	I2C_SLAVE_DEVICE_ADDRESS uint16 = 0x0001

	// VHV (temperature compensation) configuration
	VHV_CONFIG_TIMEOUT_MACROP_LOOP_BOUND uint16 = 0x0008
	VHV_CONFIG_INIT                      uint16 = 0x000B

	// Crosstalk compensation
	ALGO_CROSSTALK_COMPENSATION_PLANE_OFFSET_KCPS     uint16 = 0x0016
	ALGO_CROSSTALK_COMPENSATION_X_PLANE_GRADIENT_KCPS uint16 = 0x0018
	ALGO_CROSSTALK_COMPENSATION_Y_PLANE_GRADIENT_KCPS uint16 = 0x001A

	// Offset correction
	ALGO_PART_TO_PART_RANGE_OFFSET_MM uint16 = 0x001E
	MM_CONFIG_INNER_OFFSET_MM         uint16 = 0x0020
	MM_CONFIG_OUTER_OFFSET_MM         uint16 = 0x0022

	// GPIO and interrupt configuration
	GPIO_HV_MUX_CTRL               uint16 = 0x0030
	GPIO_TIO_HV_STATUS             uint16 = 0x0031
	SYSTEM_INTERRUPT_CONFIG_GPIO   uint16 = 0x0046
	PHASECAL_CONFIG_TIMEOUT_MACROP uint16 = 0x004B

	// Timing configuration
	RANGE_CONFIG_TIMEOUT_MACROP_A_HI           uint16 = 0x005E
	RANGE_CONFIG_VCSEL_PERIOD_A                uint16 = 0x0060
	RANGE_CONFIG_TIMEOUT_MACROP_B_HI           uint16 = 0x0061
	RANGE_CONFIG_VCSEL_PERIOD_B                uint16 = 0x0063
	RANGE_CONFIG_SIGMA_THRESH                  uint16 = 0x0064
	RANGE_CONFIG_MIN_COUNT_RATE_RTN_LIMIT_MCPS uint16 = 0x0066
	RANGE_CONFIG_VALID_PHASE_HIGH              uint16 = 0x0069
	SYSTEM_INTERMEASUREMENT_PERIOD             uint16 = 0x006C

	// Distance thresholds
	SYSTEM_THRESH_HIGH uint16 = 0x0072
	SYSTEM_THRESH_LOW  uint16 = 0x0074

	// SD (Single Detector) configuration
	SD_CONFIG_WOI_SD0           uint16 = 0x0078
	SD_CONFIG_INITIAL_PHASE_SD0 uint16 = 0x007A

	// ROI (region of interest) registers
	ROI_CONFIG_USER_ROI_CENTRE_SPAD              uint16 = 0x007F
	ROI_CONFIG_USER_ROI_REQUESTED_GLOBAL_XY_SIZE uint16 = 0x0080

	// Interrupt and mode registers
	SYSTEM_INTERRUPT_CLEAR uint16 = 0x0086
	SYSTEM_MODE_START      uint16 = 0x0087

	// Result registers
	RESULT_RANGE_STATUS                                    uint16 = 0x0089
	RESULT_DSS_ACTUAL_EFFECTIVE_SPADS_SD0                  uint16 = 0x008C
	RESULT_AMBIENT_COUNT_RATE_MCPS_SD                      uint16 = 0x0090
	RESULT_FINAL_CROSSTALK_CORRECTED_RANGE_MM_SD0          uint16 = 0x0096
	RESULT_PEAK_SIGNAL_COUNT_RATE_CROSSTALK_CORRECTED_MCPS uint16 = 0x0098
	RESULT_OSC_CALIBRATE_VAL                               uint16 = 0x00DE

	// Identification and status registers
	FIRMWARE_SYSTEM_STATUS          uint16 = 0x00E5
	IDENTIFICATION_MODEL_ID         uint16 = 0x010F
	ROI_CONFIG_MODE_ROI_CENTRE_SPAD uint16 = 0x013E
)

// transport is the typed register access layer.  All multi-byte values are
// big-endian on the wire.
type transport interface {
	readReg(reg uint16) (uint8, error)
	readRegInt16(reg uint16) (int16, error)
	readReg16Bit(reg uint16) (uint16, error)
	readReg32Bit(reg uint16) (uint32, error)
	readBlock(reg uint16, size int) ([]byte, error)
	writeReg(reg uint16, value uint8) error
	writeRegInt16(reg uint16, value int16) error
	writeReg16Bit(reg uint16, value uint16) error
	writeReg32Bit(reg uint16, value uint32) error
}

// registers implements transport on top of a Bus
type registers struct {
	bus Bus
}

// write sends the register address followed by value bytes in one transaction
func (r registers) write(reg uint16, value ...byte) error {

	buf := make([]byte, 2, 2+len(value))
	buf[0] = byte(reg >> 8)
	buf[1] = byte(reg)
	buf = append(buf, value...)

	n, err := r.bus.WriteBytes(buf)

	if err != nil {
		return fmt.Errorf("%w: write register 0x%04X: %w", ErrTransport, reg, err)
	}

	if n < len(buf) {
		return fmt.Errorf("%w: write register 0x%04X: short write", ErrTransport, reg)
	}

	return nil
}

// read writes the register address then reads size bytes
func (r registers) read(reg uint16, size int) ([]byte, error) {

	addr := []byte{byte(reg >> 8), byte(reg)}

	if _, err := r.bus.WriteBytes(addr); err != nil {
		return nil, fmt.Errorf("%w: select register 0x%04X: %w", ErrTransport, reg, err)
	}

	buf := make([]byte, size)
	n, err := r.bus.ReadBytes(buf)

	if err != nil {
		return nil, fmt.Errorf("%w: read register 0x%04X: %w", ErrTransport, reg, err)
	}

	if n < size {
		return nil, fmt.Errorf("%w: read register 0x%04X: insufficient data", ErrTransport, reg)
	}

	return buf, nil
}

// writeReg writes a 8 bit value to the register
func (r registers) writeReg(reg uint16, value uint8) error {
	return r.write(reg, value)
}

// writeRegInt16 writes a signed 16 bit value to the register
func (r registers) writeRegInt16(reg uint16, value int16) error {
	return r.writeReg16Bit(reg, uint16(value))
}

// writeReg16Bit writes a 16 bit value to the register
func (r registers) writeReg16Bit(reg uint16, value uint16) error {
	return r.write(reg, byte(value>>8), byte(value))
}

// writeReg32Bit writes a 32 bit value to the register
func (r registers) writeReg32Bit(reg uint16, value uint32) error {
	return r.write(reg, byte(value>>24), byte(value>>16), byte(value>>8), byte(value))
}

// readBlock reads size consecutive registers in one transaction
func (r registers) readBlock(reg uint16, size int) ([]byte, error) {
	return r.read(reg, size)
}

// readReg reads an 8-bit value from a 16-bit register.
func (r registers) readReg(reg uint16) (uint8, error) {

	buf, err := r.read(reg, 1)

	if err != nil {
		return 0, err
	}

	return buf[0], nil
}

// readRegInt16 reads a signed 16-bit value
func (r registers) readRegInt16(reg uint16) (int16, error) {

	val, err := r.readReg16Bit(reg)

	return int16(val), err
}

// readReg16Bit reads a 16-bit value from a 16-bit register.
func (r registers) readReg16Bit(reg uint16) (uint16, error) {

	buf, err := r.read(reg, 2)

	if err != nil {
		return 0, err
	}

	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

// readReg32Bit reads a 32-bit value from a 16-bit register.
func (r registers) readReg32Bit(reg uint16) (uint32, error) {

	buf, err := r.read(reg, 4)

	if err != nil {
		return 0, err
	}

	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), nil
}
