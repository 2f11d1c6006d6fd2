package vl53l1x

import (
	"bytes"
	"errors"
	"testing"
)

func TestCalibrateOffset(t *testing.T) {

	v, dev, _ := newTestSensor(t)
	dev.set16(ALGO_PART_TO_PART_RANGE_OFFSET_MM, 0x0040)
	dev.set16(RESULT_FINAL_CROSSTALK_CORRECTED_RANGE_MM_SD0, 105)

	offset, err := v.CalibrateOffset(100)

	if err != nil {
		t.Fatal(err)
	}

	if offset != -5 {
		t.Errorf("offset = %d, want -5", offset)
	}

	written := dev.writesTo(ALGO_PART_TO_PART_RANGE_OFFSET_MM)

	if len(written) != 2 || !bytes.Equal(written[0], []byte{0x00, 0x00}) {
		t.Fatalf("offset writes %v, want zero then result", written)
	}

	// -20 as int16
	if !bytes.Equal(written[1], []byte{0xFF, 0xEC}) {
		t.Errorf("offset register = % X, want FF EC", written[1])
	}

	if got := dev.reads[RESULT_FINAL_CROSSTALK_CORRECTED_RANGE_MM_SD0]; got != calibrationSamples {
		t.Errorf("sampled %d times, want %d", got, calibrationSamples)
	}

	if active, _ := v.IsRangingActive(); active {
		t.Errorf("ranging left active after calibration")
	}

	if got, _ := v.GetOffset(); got != -5 {
		t.Errorf("GetOffset = %d, want -5", got)
	}
}

func TestCalibrateXtalk(t *testing.T) {

	v, dev, _ := newTestSensor(t)

	// signal rate 16 * 8 = 128 kcps, 16 SPADs, target beyond the distance
	dev.set16(RESULT_PEAK_SIGNAL_COUNT_RATE_CROSSTALK_CORRECTED_MCPS, 16)
	dev.set16(RESULT_DSS_ACTUAL_EFFECTIVE_SPADS_SD0, 16<<8)
	dev.set16(RESULT_FINAL_CROSSTALK_CORRECTED_RANGE_MM_SD0, 50)

	xtalk, err := v.CalibrateXtalk(100)

	if err != nil {
		t.Fatal(err)
	}

	// 512 * 128 * (1 - 50/100) / 16 with integer division
	if xtalk != 4096 {
		t.Errorf("xtalk = %d, want 4096", xtalk)
	}

	if got := dev.get16(ALGO_CROSSTALK_COMPENSATION_PLANE_OFFSET_KCPS); got != 4096 {
		t.Errorf("plane offset = %d, want 4096", got)
	}

	if got := dev.reads[RESULT_DSS_ACTUAL_EFFECTIVE_SPADS_SD0]; got != calibrationSamples {
		t.Errorf("sampled %d times, want %d", got, calibrationSamples)
	}
}

func TestCalibrateXtalkAtTarget(t *testing.T) {

	v, dev, _ := newTestSensor(t)

	dev.set16(RESULT_PEAK_SIGNAL_COUNT_RATE_CROSSTALK_CORRECTED_MCPS, 16)
	dev.set16(RESULT_DSS_ACTUAL_EFFECTIVE_SPADS_SD0, 16<<8)
	dev.set16(RESULT_FINAL_CROSSTALK_CORRECTED_RANGE_MM_SD0, 150)

	xtalk, err := v.CalibrateXtalk(100)

	if err != nil {
		t.Fatal(err)
	}

	if xtalk != 0 {
		t.Errorf("xtalk = %d, want 0", xtalk)
	}
}

func TestCalibrateXtalkInvalid(t *testing.T) {

	v, dev, _ := newTestSensor(t)

	if _, err := v.CalibrateXtalk(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}

	dev.set16(RESULT_DSS_ACTUAL_EFFECTIVE_SPADS_SD0, 0)

	if _, err := v.CalibrateXtalk(100); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument without SPADs", err)
	}
}

func TestCalibrationTimeout(t *testing.T) {

	v, dev, _ := newTestSensor(t)
	dev.mem[GPIO_TIO_HV_STATUS] = 0

	if _, err := v.CalibrateOffset(100); !errors.Is(err, ErrTimeout) {
		t.Errorf("got %v, want ErrTimeout", err)
	}
}

func TestStartTemperatureUpdate(t *testing.T) {

	v, dev, _ := newTestSensor(t)

	if err := v.StartTemperatureUpdate(); err != nil {
		t.Fatal(err)
	}

	bound := dev.writesTo(VHV_CONFIG_TIMEOUT_MACROP_LOOP_BOUND)
	vhvInit := dev.writesTo(VHV_CONFIG_INIT)

	if len(bound) != 2 || bound[0][0] != 0x81 || bound[1][0] != 0x09 {
		t.Errorf("loop bound writes %v, want full then two bounds", bound)
	}

	if len(vhvInit) != 2 || vhvInit[0][0] != 0x92 || vhvInit[1][0] != 0x00 {
		t.Errorf("VHV init writes %v", vhvInit)
	}

	if active, _ := v.IsRangingActive(); active {
		t.Errorf("ranging left active")
	}
}
