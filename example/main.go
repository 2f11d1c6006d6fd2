package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/swdee/go-vl53l1x/v2"
)

func main() {

	i2cbus := flag.String("b", "/dev/i2c-1", "Path to I2C bus to use, or periph.io bus name with -p")
	usePeriph := flag.Bool("p", false, "Use periph.io host drivers instead of i2c-dev")
	xshut := flag.String("x", "", "GPIO name wired to XSHUT, eg: GPIO17 (requires -p)")
	addr := flag.Uint("a", uint(vl53l1x.Address), "I2C address to assign to the sensor")
	calibrate := flag.Uint("c", 0, "Run offset calibration against a target at this distance in mm")
	flag.Parse()

	cfg, err := newConfig(*i2cbus, *usePeriph, *xshut, *addr)

	if err != nil {
		log.Fatal(err)
	}

	cfg.Logger = log.New(os.Stderr, "vl53l1x: ", log.LstdFlags)

	sensor, err := vl53l1x.New(cfg)

	if err != nil {
		log.Fatal(err)
	}

	defer sensor.Close()

	id, err := sensor.GetSensorID()

	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Sensor ID: 0x%04X\n", id)

	if err := configure(sensor); err != nil {
		log.Fatalf("Configuring sensor failed: %v", err)
	}

	if *calibrate > 0 {
		offset, err := sensor.CalibrateOffset(uint16(*calibrate))

		if err != nil {
			log.Fatalf("Offset calibration failed: %v", err)
		}

		fmt.Printf("Offset: %d mm\n", offset)
	}

	// Read a measurement
	for i := 0; i < 10; i++ {

		distance, err := sensor.Distance()

		if err != nil {
			log.Printf("Read error: %v", err)
			continue
		}

		status, err := sensor.GetRangeStatus()

		if err != nil {
			log.Printf("Range status error: %v", err)
		}

		fmt.Printf("Distance: %d mm (status: %s)\n", distance, status)

		time.Sleep(200 * time.Millisecond)
	}

	if err := sensor.StopRanging(); err != nil {
		log.Fatalf("Stop ranging failed: %v", err)
	}
}

// newConfig selects the bus driver from the command line options.  XSHUT
// control is only available through the periph.io GPIO registry.
func newConfig(bus string, usePeriph bool, xshut string, addr uint) (vl53l1x.Config, error) {

	if addr > 0x7F {
		return vl53l1x.Config{}, fmt.Errorf("I2C address 0x%X can't exceed 0x7F", addr)
	}

	if !usePeriph {
		if xshut != "" {
			return vl53l1x.Config{}, errors.New("XSHUT pin control (-x) requires periph.io host drivers (-p)")
		}

		return vl53l1x.Config{
			Opener:  vl53l1x.GoI2COpener(bus),
			Address: uint8(addr),
		}, nil
	}

	cfg := vl53l1x.Config{
		Opener:  vl53l1x.PeriphOpener(bus),
		Address: uint8(addr),
	}

	if xshut != "" {
		pin, err := vl53l1x.PeriphPin(xshut)

		if err != nil {
			return vl53l1x.Config{}, err
		}

		cfg.PowerPin = pin
	}

	return cfg, nil
}

// configure sets short distance mode with a 50ms budget and a 12x12 region
// of interest.  It is recommended by ST for the inter-measurement period to
// be longer than the timing budget.
func configure(sensor *vl53l1x.VL53L1X) error {

	if err := sensor.SetDistanceMode(vl53l1x.Short); err != nil {
		return err
	}

	if err := sensor.SetTimingBudget(vl53l1x.Budget50); err != nil {
		return err
	}

	if err := sensor.SetInterMeasurementPeriod(55); err != nil {
		return err
	}

	return sensor.SetROI(vl53l1x.ROI{Width: 12, Height: 12})
}
