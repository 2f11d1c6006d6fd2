package vl53l1x

import (
	"errors"
	"testing"
)

func TestSetROIClampsAndCenters(t *testing.T) {

	v, dev, _ := newTestSensor(t)
	dev.mem[ROI_CONFIG_MODE_ROI_CENTRE_SPAD] = 150

	if err := v.SetROI(ROI{Width: 20, Height: 20}); err != nil {
		t.Fatal(err)
	}

	if dev.mem[ROI_CONFIG_USER_ROI_CENTRE_SPAD] != 199 {
		t.Errorf("center = %d, want 199", dev.mem[ROI_CONFIG_USER_ROI_CENTRE_SPAD])
	}

	if dev.mem[ROI_CONFIG_USER_ROI_REQUESTED_GLOBAL_XY_SIZE] != 0xFF {
		t.Errorf("size register = 0x%02X, want 0xFF", dev.mem[ROI_CONFIG_USER_ROI_REQUESTED_GLOBAL_XY_SIZE])
	}

	roi, err := v.GetROI()

	if err != nil || roi != (ROI{Width: 16, Height: 16}) {
		t.Errorf("GetROI = %+v, %v, want 16x16", roi, err)
	}
}

func TestSetROIKeepsOpticalCenter(t *testing.T) {

	v, dev, _ := newTestSensor(t)
	dev.mem[ROI_CONFIG_MODE_ROI_CENTRE_SPAD] = 150

	if err := v.SetROI(ROI{Width: 4, Height: 8}); err != nil {
		t.Fatal(err)
	}

	if center, _ := v.GetROICenter(); center != 150 {
		t.Errorf("center = %d, want the optical center 150", center)
	}

	if dev.mem[ROI_CONFIG_USER_ROI_REQUESTED_GLOBAL_XY_SIZE] != 0x73 {
		t.Errorf("size register = 0x%02X, want 0x73", dev.mem[ROI_CONFIG_USER_ROI_REQUESTED_GLOBAL_XY_SIZE])
	}

	roi, _ := v.GetROI()

	if roi != (ROI{Width: 4, Height: 8}) {
		t.Errorf("GetROI = %+v, want 4x8", roi)
	}

	// 11 wide forces the center
	if err := v.SetROI(ROI{Width: 11, Height: 4}); err != nil {
		t.Fatal(err)
	}

	if center, _ := v.GetROICenter(); center != 199 {
		t.Errorf("center = %d, want 199", center)
	}
}

func TestSetROIRejectsEmpty(t *testing.T) {

	v, dev, _ := newTestSensor(t)

	if err := v.SetROI(ROI{Width: 0, Height: 4}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("got %v, want ErrInvalidArgument", err)
	}

	if len(dev.writes) != 0 {
		t.Errorf("registers written for an empty ROI")
	}
}

func TestSetROICenter(t *testing.T) {

	v, _, _ := newTestSensor(t)

	if err := v.SetROICenter(231); err != nil {
		t.Fatal(err)
	}

	if center, err := v.GetROICenter(); err != nil || center != 231 {
		t.Errorf("GetROICenter = %d, %v", center, err)
	}
}
