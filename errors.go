package vl53l1x

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is returned when the underlying bus reports an I/O failure
	// or returns fewer bytes than requested
	ErrTransport = errors.New("vl53l1x: transport error")

	// ErrInvalidArgument is returned for out of range caller input
	ErrInvalidArgument = errors.New("vl53l1x: invalid argument")

	// ErrTimeout is returned when the sensor did not boot or did not have data
	// ready within the configured operation timeout
	ErrTimeout = errors.New("vl53l1x: timeout")

	// ErrAddressAssignment wraps a transport failure that happened while
	// changing the bus address of the sensor
	ErrAddressAssignment = errors.New("vl53l1x: address assignment failed")

	// ErrUnknownStatus is matched by UnknownStatusError
	ErrUnknownStatus = errors.New("vl53l1x: unknown range status")
)

// UnknownStatusError reports a range status code outside of the known set
type UnknownStatusError struct {
	Code uint8
}

// Error implements the error interface
func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("vl53l1x: the returned range status code %d of the device is unknown", e.Code)
}

// Is makes errors.Is(err, ErrUnknownStatus) succeed
func (e *UnknownStatusError) Is(target error) bool {
	return target == ErrUnknownStatus
}
