package vl53l1x

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

const (
	// modeStartRanging is the SYSTEM_MODE_START value for continuous ranging
	modeStartRanging uint8 = 0x40
	// modeStopRanging is the SYSTEM_MODE_START value that stops ranging
	modeStopRanging uint8 = 0x00
)

// RangeStatus represents the sensor’s reported status.
type RangeStatus uint8

const (
	NoError RangeStatus = iota
	SigmaFailure
	SignalFailure
	OutOfBounds
	WrapAround
)

// String implement Stringer interface for RangeStatus
func (s RangeStatus) String() string {
	switch s {
	case NoError:
		return "no error"
	case SigmaFailure:
		return "sigma failure"
	case SignalFailure:
		return "signal failure"
	case OutOfBounds:
		return "out of bounds"
	case WrapAround:
		return "wrap around"
	default:
		return "unknown status"
	}
}

// StartRanging clears any pending interrupt and begins continuous ranging.
// ClearInterrupt must be called after each measurement is read to arm the
// next data ready event.
func (v *VL53L1X) StartRanging() error {

	v.log.Print("Start ranging")

	if err := v.ClearInterrupt(); err != nil {
		return err
	}

	if err := v.writeReg(SYSTEM_MODE_START, modeStartRanging); err != nil {
		return err
	}

	v.rangingActive = true
	return nil
}

// StopRanging stops ranging
func (v *VL53L1X) StopRanging() error {

	v.log.Print("Stop ranging")

	if err := v.writeReg(SYSTEM_MODE_START, modeStopRanging); err != nil {
		return err
	}

	v.rangingActive = false
	return nil
}

// IsRangingActive reads the mode register to report whether ranging is
// running
func (v *VL53L1X) IsRangingActive() (bool, error) {

	mode, err := v.readReg(SYSTEM_MODE_START)

	if err != nil {
		return false, err
	}

	return mode == modeStartRanging, nil
}

// ClearInterrupt acknowledges the current measurement
func (v *VL53L1X) ClearInterrupt() error {
	return v.writeReg(SYSTEM_INTERRUPT_CLEAR, 0x01)
}

// IsDataReady checks if the sensor has a new reading available.  Any nonzero
// GPIO status is treated as ready regardless of interrupt polarity.
func (v *VL53L1X) IsDataReady() (bool, error) {

	status, err := v.readReg(GPIO_TIO_HV_STATUS)

	if err != nil {
		return false, err
	}

	return status != 0, nil
}

// WaitForDataReady polls every 50ms until data is ready or the operation
// timeout expires
func (v *VL53L1X) WaitForDataReady() error {

	v.startTimeout()

	for {
		ready, err := v.IsDataReady()

		if err != nil {
			return err
		}

		if ready {
			return nil
		}

		if v.checkTimeoutExpired() {
			return fmt.Errorf("%w: the device did not send any data within %v", ErrTimeout, v.ioTimeout)
		}

		v.clock.Sleep(dataReadyPollInterval)
	}
}

// GetInterruptPolarity returns gpio.High when the interrupt is active high
func (v *VL53L1X) GetInterruptPolarity() (gpio.Level, error) {

	val, err := v.readReg(GPIO_HV_MUX_CTRL)

	if err != nil {
		return gpio.Low, err
	}

	return gpio.Level((val&0x10)>>4 == 1), nil
}

// SetInterruptPolarity programs the interrupt polarity, gpio.High (default)
// or gpio.Low
func (v *VL53L1X) SetInterruptPolarity(polarity gpio.Level) error {

	val, err := v.readReg(GPIO_HV_MUX_CTRL)

	if err != nil {
		return err
	}

	val &= 0xEF

	if polarity == gpio.High {
		val |= 0x10
	}

	return v.writeReg(GPIO_HV_MUX_CTRL, val)
}

// Distance returns a distance in millimeters.  Ranging is started
// automatically if it has not been started yet.
func (v *VL53L1X) Distance() (uint16, error) {

	if !v.rangingActive {
		if err := v.StartRanging(); err != nil {
			return 0, err
		}
	}

	if err := v.WaitForDataReady(); err != nil {
		return 0, err
	}

	return v.GetDistance()
}

// GetDistance reads the last measured distance in millimeters and clears the
// interrupt
func (v *VL53L1X) GetDistance() (uint16, error) {

	distance, err := v.readReg16Bit(RESULT_FINAL_CROSSTALK_CORRECTED_RANGE_MM_SD0)

	if err != nil {
		return 0, err
	}

	if err := v.ClearInterrupt(); err != nil {
		return 0, err
	}

	return distance, nil
}

// GetSignalPerSpad returns the signal per SPAD in kcps/SPAD
func (v *VL53L1X) GetSignalPerSpad() (uint16, error) {
	return v.ratePerSpad(RESULT_PEAK_SIGNAL_COUNT_RATE_CROSSTALK_CORRECTED_MCPS)
}

// GetAmbientPerSpad returns the ambient per SPAD in kcps/SPAD
func (v *VL53L1X) GetAmbientPerSpad() (uint16, error) {
	return v.ratePerSpad(RESULT_AMBIENT_COUNT_RATE_MCPS_SD)
}

// ratePerSpad divides the rate register by the effective SPAD count.  Zero
// SPADs yield zero.
func (v *VL53L1X) ratePerSpad(rateReg uint16) (uint16, error) {

	rate, err := v.readReg16Bit(rateReg)

	if err != nil {
		return 0, err
	}

	spads, err := v.readReg16Bit(RESULT_DSS_ACTUAL_EFFECTIVE_SPADS_SD0)

	if err != nil {
		return 0, err
	}

	if spads == 0 {
		return 0, nil
	}

	return uint16(2000.0 * float64(rate) / float64(spads)), nil
}

// GetSignalRate returns the signal rate in kcps
func (v *VL53L1X) GetSignalRate() (uint16, error) {

	val, err := v.readReg16Bit(RESULT_PEAK_SIGNAL_COUNT_RATE_CROSSTALK_CORRECTED_MCPS)

	return val * 8, err
}

// GetAmbientRate returns the ambient rate in kcps
func (v *VL53L1X) GetAmbientRate() (uint16, error) {

	val, err := v.readReg16Bit(RESULT_AMBIENT_COUNT_RATE_MCPS_SD)

	return val * 8, err
}

// GetSpadCount returns the current number of enabled SPADs
func (v *VL53L1X) GetSpadCount() (uint16, error) {

	val, err := v.readReg16Bit(RESULT_DSS_ACTUAL_EFFECTIVE_SPADS_SD0)

	return val >> 8, err
}

// GetRangeStatus decodes the status of the last measurement.  Codes outside
// the known set return an *UnknownStatusError.
func (v *VL53L1X) GetRangeStatus() (RangeStatus, error) {

	val, err := v.readReg(RESULT_RANGE_STATUS)

	if err != nil {
		return NoError, err
	}

	return decodeRangeStatus(val)
}

// decodeRangeStatus maps the low 5 bits of RESULT_RANGE_STATUS
func decodeRangeStatus(val uint8) (RangeStatus, error) {

	code := val & 0x1F

	switch code {
	case 9:
		return NoError, nil
	case 6:
		return SigmaFailure, nil
	case 4:
		return SignalFailure, nil
	case 5:
		return OutOfBounds, nil
	case 7:
		return WrapAround, nil
	default:
		return NoError, &UnknownStatusError{Code: code}
	}
}

// resultBlockSize is the length of the result registers from
// RESULT_RANGE_STATUS to the end of the peak signal rate
const resultBlockSize = 17

// Result holds a single measurement read in one transaction
type Result struct {
	Status RangeStatus
	// Distance in mm
	Distance uint16
	// Ambient rate in kcps
	Ambient uint16
	// SignalPerSpad in kcps/SPAD
	SignalPerSpad uint16
	// SpadCount is the number of enabled SPADs
	SpadCount uint16
}

// GetResult reads status, distance, rates and SPAD count of the last
// measurement in a single bus transaction, based on VL53L1X_GetResult().  The
// interrupt is not cleared.
func (v *VL53L1X) GetResult() (Result, error) {

	buf, err := v.readBlock(RESULT_RANGE_STATUS, resultBlockSize)

	if err != nil {
		return Result{}, err
	}

	status, err := decodeRangeStatus(buf[0])

	if err != nil {
		return Result{}, err
	}

	// report_status (buf[1]) and stream_count (buf[2]) are not used

	return Result{
		Status:        status,
		SpadCount:     uint16(buf[3]),
		Ambient:       (uint16(buf[7])<<8 | uint16(buf[8])) * 8,
		Distance:      uint16(buf[13])<<8 | uint16(buf[14]),
		SignalPerSpad: (uint16(buf[15])<<8 | uint16(buf[16])) * 8,
	}, nil
}
