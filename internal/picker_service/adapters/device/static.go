package device

import (
	"context"
	"errors"
	"strings"
)

// ErrDeviceTypeUnset is returned when no device type was configured.
var ErrDeviceTypeUnset = errors.New("device type is not configured")

// StaticInfo reports a device type fixed at startup (APP_DEVICE_TYPE).
type StaticInfo struct {
	deviceType string
}

func NewStaticInfo(deviceType string) *StaticInfo {
	return &StaticInfo{deviceType: strings.TrimSpace(deviceType)}
}

func (s *StaticInfo) DeviceType(_ context.Context) (string, error) {
	if s.deviceType == "" {
		return "", ErrDeviceTypeUnset
	}
	return s.deviceType, nil
}
