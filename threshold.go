package vl53l1x

// WindowDetectionMode selects when the distance threshold interrupt fires
type WindowDetectionMode uint8

const (
	// Below raises the interrupt under the low threshold
	Below WindowDetectionMode = iota
	// Above raises the interrupt over the high threshold
	Above
	// Out raises the interrupt outside of the window
	Out
	// In raises the interrupt inside of the window
	In
)

// String implement Stringer interface for WindowDetectionMode
func (m WindowDetectionMode) String() string {
	switch m {
	case Below:
		return "below"
	case Above:
		return "above"
	case Out:
		return "out of window"
	case In:
		return "in window"
	default:
		return "unknown"
	}
}

// SetDistanceThreshold programs the threshold detection window in mm.  For
// example with low=100 and high=300, Below fires under 100 and Above over 300.
func (v *VL53L1X) SetDistanceThreshold(low, high uint16, mode WindowDetectionMode) error {

	val, err := v.readReg(SYSTEM_INTERRUPT_CONFIG_GPIO)

	if err != nil {
		return err
	}

	val &= 0x47

	if err := v.writeReg(SYSTEM_INTERRUPT_CONFIG_GPIO, val|(uint8(mode)&0x07)|0x40); err != nil {
		return err
	}

	if err := v.writeReg16Bit(SYSTEM_THRESH_HIGH, high); err != nil {
		return err
	}

	return v.writeReg16Bit(SYSTEM_THRESH_LOW, low)
}

// GetDistanceThresholdWindow returns the programmed window detection mode
func (v *VL53L1X) GetDistanceThresholdWindow() (WindowDetectionMode, error) {

	val, err := v.readReg(SYSTEM_INTERRUPT_CONFIG_GPIO)

	return WindowDetectionMode(val & 0x07), err
}

// GetDistanceThresholdLow returns the low threshold in mm
func (v *VL53L1X) GetDistanceThresholdLow() (uint16, error) {
	return v.readReg16Bit(SYSTEM_THRESH_LOW)
}

// GetDistanceThresholdHigh returns the high threshold in mm
func (v *VL53L1X) GetDistanceThresholdHigh() (uint16, error) {
	return v.readReg16Bit(SYSTEM_THRESH_HIGH)
}
