package review

import (
	"fmt"
	"strings"
)

// Device identifies which mockup variant a screen image or comment belongs to.
// It is a closed set: every switch over Device must handle both values.
type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceMobile  Device = "mobile"
)

// Devices lists every device in display order.
var Devices = []Device{DeviceDesktop, DeviceMobile}

// ParseDevice converts a wire value into a Device.
func ParseDevice(s string) (Device, error) {
	switch Device(strings.ToLower(strings.TrimSpace(s))) {
	case DeviceDesktop:
		return DeviceDesktop, nil
	case DeviceMobile:
		return DeviceMobile, nil
	default:
		return "", fmt.Errorf("unknown device %q", s)
	}
}

// Valid reports whether d is one of the two known devices.
func (d Device) Valid() bool {
	return d == DeviceDesktop || d == DeviceMobile
}

func (d Device) String() string { return string(d) }
