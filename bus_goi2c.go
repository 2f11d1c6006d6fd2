package vl53l1x

import (
	"github.com/swdee/go-i2c"
)

// GoI2COpener returns an Opener that connects through the Linux i2c-dev
// interface at path dev, eg: /dev/i2c-1
func GoI2COpener(dev string) Opener {
	return func(addr uint8) (Bus, error) {

		conn, err := i2c.New(addr, dev)

		if err != nil {
			return nil, err
		}

		return conn, nil
	}
}
