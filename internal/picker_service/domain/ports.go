package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// PickerCapability is the host ability that shows the contact picker UI.
// A nil result with a nil error means the host produced no answer.
type PickerCapability interface {
	StartContactsPicker(ctx context.Context, caller CallerContext, cfg *InvocationConfig) (*PickerResult, error)
	StartSaveContactsPicker(ctx context.Context, caller CallerContext, cfg *InvocationConfig) (*PickerResult, error)
	StartSaveExistContactsPicker(ctx context.Context, caller CallerContext, cfg *InvocationConfig) (*PickerResult, error)
}

// DeviceInfo reports the class of the device the picker would run on.
type DeviceInfo interface {
	DeviceType(ctx context.Context) (string, error)
}

// supportedDeviceTypes are the device classes that ship the picker UI.
var supportedDeviceTypes = map[string]struct{}{
	"phone":  {},
	"2in1":   {},
	"tablet": {},
}

// IsSupportedDeviceType reports whether deviceType (case-insensitive) can host the picker.
func IsSupportedDeviceType(deviceType string) bool {
	_, ok := supportedDeviceTypes[strings.ToLower(deviceType)]
	return ok
}

// ErrMissingCallerContext is returned by capabilities invoked without a caller.
var ErrMissingCallerContext = errors.New("picker: caller context is required")

// ResultCodeError carries a raw native resultCode from the select flow, unchanged,
// for callers that switch on it.
type ResultCodeError struct {
	ResultCode int
}

func (e *ResultCodeError) Error() string {
	return fmt.Sprintf("picker returned result code %d", e.ResultCode)
}
