package vl53l1x

import "time"

const (
	// bootPollInterval is the delay between boot state reads
	bootPollInterval = 10 * time.Millisecond
	// dataReadyPollInterval is the delay between data ready reads
	dataReadyPollInterval = 50 * time.Millisecond
)

// Timeout returns the operation timeout used for boot and data ready polling
func (v *VL53L1X) Timeout() time.Duration {
	return v.ioTimeout
}

// startTimeout starts the timeout counter
func (v *VL53L1X) startTimeout() {
	v.timeoutStart = v.clock.Now()
}

// checkTimeoutExpired checks if timeout has expired
func (v *VL53L1X) checkTimeoutExpired() bool {
	return v.clock.Now().Sub(v.timeoutStart) >= v.ioTimeout
}
