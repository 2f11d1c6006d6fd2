package vl53l1x

import "fmt"

// DistanceMode represents the selected ranging mode of sensor
type DistanceMode int

const (
	// DistanceModeUnknown is reported when the sensor registers match neither
	// mode
	DistanceModeUnknown DistanceMode = iota
	// Short distance mode is limited to 1.3m but has better ambient immunity
	Short
	// Long distance mode can range up to 4m in the dark with a 200ms budget
	Long
)

// String implement Stringer interface for DistanceMode
func (m DistanceMode) String() string {
	switch m {
	case Short:
		return "short"
	case Long:
		return "long"
	default:
		return "unknown"
	}
}

// TimingBudget is one of the predefined measurement timing budgets
type TimingBudget int

const (
	BudgetUnknown TimingBudget = iota
	Budget15
	Budget20
	Budget33
	Budget50
	Budget100
	Budget200
	Budget500
)

// Milliseconds returns the budget duration in ms, zero for BudgetUnknown
func (b TimingBudget) Milliseconds() uint16 {
	switch b {
	case Budget15:
		return 15
	case Budget20:
		return 20
	case Budget33:
		return 33
	case Budget50:
		return 50
	case Budget100:
		return 100
	case Budget200:
		return 200
	case Budget500:
		return 500
	default:
		return 0
	}
}

// String implement Stringer interface for TimingBudget
func (b TimingBudget) String() string {
	if b == BudgetUnknown {
		return "unknown"
	}

	return fmt.Sprintf("%dms", b.Milliseconds())
}

// modeSettings holds the registers written for each distance mode
type modeSettings struct {
	phasecalTimeout uint8
	vcselPeriodA    uint8
	vcselPeriodB    uint8
	validPhaseHigh  uint8
	woiSD0          uint16
	initialPhaseSD0 uint16
}

var distanceModeSettings = map[DistanceMode]modeSettings{
	Short: {
		phasecalTimeout: 0x14,
		vcselPeriodA:    0x07,
		vcselPeriodB:    0x05,
		validPhaseHigh:  0x38,
		woiSD0:          0x0705,
		initialPhaseSD0: 0x0606,
	},
	Long: {
		phasecalTimeout: 0x0A,
		vcselPeriodA:    0x0F,
		vcselPeriodB:    0x0D,
		validPhaseHigh:  0xB8,
		woiSD0:          0x0F0D,
		initialPhaseSD0: 0x0E0E,
	},
}

// macropTimeouts holds the range config timeout A and B register values
type macropTimeouts struct {
	a uint16
	b uint16
}

var timingBudgetSettings = map[DistanceMode]map[TimingBudget]macropTimeouts{
	Short: {
		Budget15:  {0x001D, 0x0027},
		Budget20:  {0x0051, 0x006E},
		Budget33:  {0x00D6, 0x006E},
		Budget50:  {0x01AE, 0x01E8},
		Budget100: {0x02E1, 0x0388},
		Budget200: {0x03E1, 0x0496},
		Budget500: {0x0591, 0x05C1},
	},
	Long: {
		Budget20:  {0x001E, 0x0022},
		Budget33:  {0x0060, 0x006E},
		Budget50:  {0x00AD, 0x00C6},
		Budget100: {0x01CC, 0x01EA},
		Budget200: {0x02D9, 0x02F8},
		Budget500: {0x048F, 0x04A4},
	},
}

// GetDistanceMode reads the distance mode from the phase calibration timeout
func (v *VL53L1X) GetDistanceMode() (DistanceMode, error) {

	val, err := v.readReg(PHASECAL_CONFIG_TIMEOUT_MACROP)

	if err != nil {
		return DistanceModeUnknown, err
	}

	for mode, s := range distanceModeSettings {
		if s.phasecalTimeout == val {
			return mode, nil
		}
	}

	return DistanceModeUnknown, nil
}

// SetDistanceMode configures the sensor for Short or Long range.  The timing
// budget registers depend on the mode, so the current budget is reapplied.
func (v *VL53L1X) SetDistanceMode(mode DistanceMode) error {

	s, ok := distanceModeSettings[mode]

	if !ok {
		return fmt.Errorf("%w: unrecognized distance mode %v", ErrInvalidArgument, mode)
	}

	// save the existing timing budget.
	budget, err := v.GetTimingBudget()

	if err != nil {
		return err
	}

	// check the budget exists in the new mode before touching any register
	if _, ok := timingBudgetSettings[mode][budget]; budget != BudgetUnknown && !ok {
		return fmt.Errorf("%w: timing budget %v is not available in distance mode %v", ErrInvalidArgument, budget, mode)
	}

	v.log.Printf("Set distance mode %v", mode)

	if err := v.writeReg(PHASECAL_CONFIG_TIMEOUT_MACROP, s.phasecalTimeout); err != nil {
		return err
	}

	if err := v.writeReg(RANGE_CONFIG_VCSEL_PERIOD_A, s.vcselPeriodA); err != nil {
		return err
	}

	if err := v.writeReg(RANGE_CONFIG_VCSEL_PERIOD_B, s.vcselPeriodB); err != nil {
		return err
	}

	if err := v.writeReg(RANGE_CONFIG_VALID_PHASE_HIGH, s.validPhaseHigh); err != nil {
		return err
	}

	if err := v.writeReg16Bit(SD_CONFIG_WOI_SD0, s.woiSD0); err != nil {
		return err
	}

	if err := v.writeReg16Bit(SD_CONFIG_INITIAL_PHASE_SD0, s.initialPhaseSD0); err != nil {
		return err
	}

	// an unknown budget can't be translated to the new mode
	if budget == BudgetUnknown {
		return nil
	}

	// reapply the timing budget
	return v.SetTimingBudget(budget)
}

// SetTimingBudget programs the timing budget for the current distance mode.
// Budget15 is only available in Short mode.
func (v *VL53L1X) SetTimingBudget(budget TimingBudget) error {

	mode, err := v.GetDistanceMode()

	if err != nil {
		return err
	}

	table, ok := timingBudgetSettings[mode]

	if !ok {
		return fmt.Errorf("%w: timing budget can't be set in distance mode %v", ErrInvalidArgument, mode)
	}

	t, ok := table[budget]

	if !ok {
		return fmt.Errorf("%w: timing budget %v is not available in distance mode %v", ErrInvalidArgument, budget, mode)
	}

	if err := v.writeReg16Bit(RANGE_CONFIG_TIMEOUT_MACROP_A_HI, t.a); err != nil {
		return err
	}

	return v.writeReg16Bit(RANGE_CONFIG_TIMEOUT_MACROP_B_HI, t.b)
}

// GetTimingBudget returns the current timing budget.  The timeout A values
// are distinct across both modes so the mode register is not consulted.
func (v *VL53L1X) GetTimingBudget() (TimingBudget, error) {

	val, err := v.readReg16Bit(RANGE_CONFIG_TIMEOUT_MACROP_A_HI)

	if err != nil {
		return BudgetUnknown, err
	}

	for _, table := range timingBudgetSettings {
		for budget, t := range table {
			if t.a == val {
				return budget, nil
			}
		}
	}

	return BudgetUnknown, nil
}

// oscCalibrateValue returns the PLL clock calibration masked to 10 bits
func (v *VL53L1X) oscCalibrateValue() (uint16, error) {

	val, err := v.readReg16Bit(RESULT_OSC_CALIBRATE_VAL)

	return val & 0x3FF, err
}

// SetInterMeasurementPeriod programs the inter-measurement period in ms.  It
// must be greater than or equal to the timing budget, which is not checked.
func (v *VL53L1X) SetInterMeasurementPeriod(ms uint16) error {

	clockPll, err := v.oscCalibrateValue()

	if err != nil {
		return err
	}

	return v.writeReg32Bit(SYSTEM_INTERMEASUREMENT_PERIOD,
		uint32(float64(clockPll)*float64(ms)*1.075))
}

// GetInterMeasurementPeriod returns the inter-measurement period in ms
func (v *VL53L1X) GetInterMeasurementPeriod() (uint16, error) {

	period, err := v.readReg32Bit(SYSTEM_INTERMEASUREMENT_PERIOD)

	if err != nil {
		return 0, err
	}

	clockPll, err := v.oscCalibrateValue()

	if err != nil {
		return 0, err
	}

	if clockPll == 0 {
		return 0, nil
	}

	return uint16(float64(period) / (float64(clockPll) * 1.065)), nil
}

// SetSignalThreshold programs the minimum signal threshold in kcps, the
// default is 1024 kcps
func (v *VL53L1X) SetSignalThreshold(signal uint16) error {
	return v.writeReg16Bit(RANGE_CONFIG_MIN_COUNT_RATE_RTN_LIMIT_MCPS, signal>>3)
}

// GetSignalThreshold returns the signal threshold in kcps
func (v *VL53L1X) GetSignalThreshold() (uint16, error) {

	val, err := v.readReg16Bit(RANGE_CONFIG_MIN_COUNT_RATE_RTN_LIMIT_MCPS)

	return val << 3, err
}

// SetSigmaThreshold programs the sigma threshold in mm, stored in 14.2 fixed
// point
func (v *VL53L1X) SetSigmaThreshold(sigma uint16) error {

	if sigma > 0xFFFF>>2 {
		return fmt.Errorf("%w: sigma threshold %d is too high", ErrInvalidArgument, sigma)
	}

	return v.writeReg16Bit(RANGE_CONFIG_SIGMA_THRESH, sigma<<2)
}

// GetSigmaThreshold returns the sigma threshold in mm
func (v *VL53L1X) GetSigmaThreshold() (uint16, error) {

	val, err := v.readReg16Bit(RANGE_CONFIG_SIGMA_THRESH)

	return val >> 2, err
}

// SetOffset programs the offset correction in mm
func (v *VL53L1X) SetOffset(offset int16) error {

	if err := v.writeRegInt16(ALGO_PART_TO_PART_RANGE_OFFSET_MM, offset*4); err != nil {
		return err
	}

	if err := v.writeRegInt16(MM_CONFIG_INNER_OFFSET_MM, 0); err != nil {
		return err
	}

	return v.writeRegInt16(MM_CONFIG_OUTER_OFFSET_MM, 0)
}

// GetOffset returns the programmed offset correction in mm
func (v *VL53L1X) GetOffset() (int16, error) {

	val, err := v.readRegInt16(ALGO_PART_TO_PART_RANGE_OFFSET_MM)

	if err != nil {
		return 0, err
	}

	val <<= 3
	return val / 32, nil
}

// SetXtalk programs the crosstalk correction in cps, the number of photons
// reflected back from the cover glass
func (v *VL53L1X) SetXtalk(xtalk uint16) error {

	if err := v.writeReg16Bit(ALGO_CROSSTALK_COMPENSATION_X_PLANE_GRADIENT_KCPS, 0); err != nil {
		return err
	}

	if err := v.writeReg16Bit(ALGO_CROSSTALK_COMPENSATION_Y_PLANE_GRADIENT_KCPS, 0); err != nil {
		return err
	}

	// << 9 for 7.9 format and / 1000 for cps to kcps
	return v.writeReg16Bit(ALGO_CROSSTALK_COMPENSATION_PLANE_OFFSET_KCPS,
		uint16((uint32(xtalk)<<9)/1000))
}

// GetXtalk returns the programmed crosstalk correction in cps
func (v *VL53L1X) GetXtalk() (uint16, error) {

	val, err := v.readReg16Bit(ALGO_CROSSTALK_COMPENSATION_PLANE_OFFSET_KCPS)

	if err != nil {
		return 0, err
	}

	return uint16((uint32(val) * 1000) >> 9), nil
}
