package domain

import "fmt"

// Business error codes surfaced to callers of the contacts APIs.
const (
	CodeInvalidParameter = 401
	CodeDeviceNotFound   = 801
	CodeSystemError      = 16700001
	CodeQueryValueFailed = 16700101
	CodeSetValueFailed   = 16700102
	CodeUserCancelled    = 16700103
)

const (
	MsgInvalidParameter       = "Parameter error. Possible causes: Mandatory parameters are left unspecified"
	MsgSelectInvalidParameter = "Parameter error. Possible causes: Parameter verification failed"
	MsgDeviceNotFound         = "The specified SystemCapability name was not found."
	MsgSystemError            = "General error."
	MsgQueryValueFailed       = "Failed to get value from contacts data."
	MsgSetValueFailed         = "Failed to set value to contacts data."
	MsgUserCancelled          = "User cancel."
)

var defaultMessages = map[int]string{
	CodeInvalidParameter: MsgInvalidParameter,
	CodeDeviceNotFound:   MsgDeviceNotFound,
	CodeSystemError:      MsgSystemError,
	CodeQueryValueFailed: MsgQueryValueFailed,
	CodeSetValueFailed:   MsgSetValueFailed,
	CodeUserCancelled:    MsgUserCancelled,
}

// BusinessError is the only structured error shape returned to API callers.
type BusinessError struct {
	Code    int
	Message string
}

// NewBusinessError builds an error for code. An empty desc falls back to the
// code's default message, or "General error." for unknown codes.
func NewBusinessError(code int, desc string) *BusinessError {
	msg := desc
	if msg == "" {
		var ok bool
		if msg, ok = defaultMessages[code]; !ok {
			msg = MsgSystemError
		}
	}
	return &BusinessError{Code: code, Message: msg}
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("business error %d: %s", e.Code, e.Message)
}

// Is matches any *BusinessError with the same code, so errors.Is(err, ErrUserCancelled) works
// regardless of the message.
func (e *BusinessError) Is(target error) bool {
	t, ok := target.(*BusinessError)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidParameter = NewBusinessError(CodeInvalidParameter, "")
	ErrDeviceNotFound   = NewBusinessError(CodeDeviceNotFound, "")
	ErrSystem           = NewBusinessError(CodeSystemError, "")
	ErrQueryValueFailed = NewBusinessError(CodeQueryValueFailed, "")
	ErrSetValueFailed   = NewBusinessError(CodeSetValueFailed, "")
	ErrUserCancelled    = NewBusinessError(CodeUserCancelled, "")
)
