package vl53l1x

import "testing"

func TestSetDistanceThreshold(t *testing.T) {

	v, dev, _ := newTestSensor(t)

	// default configuration is 0x20, new sample ready
	if err := v.SetDistanceThreshold(100, 300, In); err != nil {
		t.Fatal(err)
	}

	if got := dev.mem[SYSTEM_INTERRUPT_CONFIG_GPIO]; got != 0x43 {
		t.Errorf("interrupt config = 0x%02X, want 0x43", got)
	}

	mode, err := v.GetDistanceThresholdWindow()

	if err != nil || mode != In {
		t.Errorf("GetDistanceThresholdWindow = %v, %v, want in window", mode, err)
	}

	low, _ := v.GetDistanceThresholdLow()
	high, _ := v.GetDistanceThresholdHigh()

	if low != 100 || high != 300 {
		t.Errorf("thresholds = %d %d, want 100 300", low, high)
	}
}

func TestSetDistanceThresholdPreservesBits(t *testing.T) {

	v, dev, _ := newTestSensor(t)
	dev.mem[SYSTEM_INTERRUPT_CONFIG_GPIO] = 0xB0

	if err := v.SetDistanceThreshold(50, 60, Above); err != nil {
		t.Fatal(err)
	}

	// 0xB0 & 0x47 keeps nothing, then mode 1 and enable 0x40
	if got := dev.mem[SYSTEM_INTERRUPT_CONFIG_GPIO]; got != 0x41 {
		t.Errorf("interrupt config = 0x%02X, want 0x41", got)
	}

	dev.mem[SYSTEM_INTERRUPT_CONFIG_GPIO] = 0x04

	if err := v.SetDistanceThreshold(50, 60, Below); err != nil {
		t.Fatal(err)
	}

	if got := dev.mem[SYSTEM_INTERRUPT_CONFIG_GPIO]; got != 0x44 {
		t.Errorf("interrupt config = 0x%02X, want 0x44", got)
	}
}
