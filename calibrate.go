package vl53l1x

import "fmt"

// calibrationSamples is the number of measurements averaged by a calibration
const calibrationSamples = 50

// CalibrateOffset measures a target at a known distance and programs the
// offset compensation.  ST recommends a grey 17% target at 100mm.  It blocks
// for 50 measurements and returns the offset found in mm.
func (v *VL53L1X) CalibrateOffset(targetDistanceMm uint16) (int16, error) {

	if err := v.writeReg16Bit(ALGO_PART_TO_PART_RANGE_OFFSET_MM, 0); err != nil {
		return 0, err
	}

	if err := v.writeReg16Bit(MM_CONFIG_INNER_OFFSET_MM, 0); err != nil {
		return 0, err
	}

	if err := v.writeReg16Bit(MM_CONFIG_OUTER_OFFSET_MM, 0); err != nil {
		return 0, err
	}

	if err := v.StartRanging(); err != nil {
		return 0, err
	}

	averageDistance := 0

	for i := 0; i < calibrationSamples; i++ {

		if err := v.WaitForDataReady(); err != nil {
			return 0, err
		}

		distance, err := v.GetDistance()

		if err != nil {
			return 0, err
		}

		if err := v.ClearInterrupt(); err != nil {
			return 0, err
		}

		averageDistance += int(distance)
	}

	if err := v.StopRanging(); err != nil {
		return 0, err
	}

	averageDistance /= calibrationSamples

	offset := int16(int(targetDistanceMm) - averageDistance)

	if err := v.writeRegInt16(ALGO_PART_TO_PART_RANGE_OFFSET_MM, offset*4); err != nil {
		return 0, err
	}

	v.log.Printf("Offset calibration at %dmm found %dmm", targetDistanceMm, offset)

	return offset, nil
}

// CalibrateXtalk measures a target at the distance where the sensor starts to
// under range because of cover glass reflections, the inflection point, and
// programs the crosstalk compensation.  It blocks for 50 measurements and
// returns the crosstalk found in cps.
func (v *VL53L1X) CalibrateXtalk(targetDistanceMm uint16) (uint16, error) {

	if targetDistanceMm == 0 {
		return 0, fmt.Errorf("%w: target distance must be greater than zero", ErrInvalidArgument)
	}

	if err := v.writeReg16Bit(ALGO_CROSSTALK_COMPENSATION_PLANE_OFFSET_KCPS, 0); err != nil {
		return 0, err
	}

	if err := v.StartRanging(); err != nil {
		return 0, err
	}

	averageSignalRate := 0
	averageDistance := 0
	averageSpadCount := 0

	for i := 0; i < calibrationSamples; i++ {

		if err := v.WaitForDataReady(); err != nil {
			return 0, err
		}

		signalRate, err := v.GetSignalRate()

		if err != nil {
			return 0, err
		}

		distance, err := v.GetDistance()

		if err != nil {
			return 0, err
		}

		spadCount, err := v.GetSpadCount()

		if err != nil {
			return 0, err
		}

		if err := v.ClearInterrupt(); err != nil {
			return 0, err
		}

		averageDistance += int(distance)
		averageSignalRate += int(signalRate)
		averageSpadCount += int(spadCount)
	}

	if err := v.StopRanging(); err != nil {
		return 0, err
	}

	averageDistance /= calibrationSamples
	averageSignalRate /= calibrationSamples
	averageSpadCount /= calibrationSamples

	if averageSpadCount == 0 {
		return 0, fmt.Errorf("%w: no SPADs were enabled during calibration", ErrInvalidArgument)
	}

	// integer division throughout, 1 - d/t is 1 whenever d < t
	xtalk := uint16(512 * averageSignalRate * (1 - averageDistance/int(targetDistanceMm)) / averageSpadCount)

	if err := v.writeReg16Bit(ALGO_CROSSTALK_COMPENSATION_PLANE_OFFSET_KCPS, xtalk); err != nil {
		return 0, err
	}

	v.log.Printf("Crosstalk calibration at %dmm found %dcps", targetDistanceMm, xtalk)

	return xtalk, nil
}

// StartTemperatureUpdate runs a full VHV temperature calibration.  Run it
// before restarting ranging when the sensor has been stopped for a long time.
func (v *VL53L1X) StartTemperatureUpdate() error {

	// full VHV
	if err := v.writeReg(VHV_CONFIG_TIMEOUT_MACROP_LOOP_BOUND, 0x81); err != nil {
		return err
	}

	if err := v.writeReg(VHV_CONFIG_INIT, 0x92); err != nil {
		return err
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
