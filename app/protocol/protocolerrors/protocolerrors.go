package protocolerrors

import "github.com/pkg/errors"

// ErrorCode identifies why a connection to a peer failed.
type ErrorCode int

// These constants are used to identify a specific ConnectionError.
const (
	// ConnectionRefused indicates the connection to the peer could not be
	// established.
	ConnectionRefused ErrorCode = iota

	// IOError indicates a socket read or write failed.
	IOError

	// ConnectionHangUp indicates the peer closed the connection.
	ConnectionHangUp

	// InvalidData indicates the peer sent bytes that could not be decoded
	// or whose checksum did not verify.
	InvalidData
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ConnectionRefused: "ConnectionRefused",
	IOError:           "IOError",
	ConnectionHangUp:  "ConnectionHangUp",
	InvalidData:       "InvalidData",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return "Unknown ErrorCode"
}

var errorCodeDescriptions = map[ErrorCode]string{
	ConnectionRefused: "connection to provided address refused",
	IOError:           "IO error occurred during connection",
	ConnectionHangUp:  "connection hang up",
	InvalidData:       "invalid data received",
}

// ErrHandshakeTimeout is returned when a handshake did not complete within the
// caller's time budget. It never is a ConnectionError since the peer did not
// cause it.
var ErrHandshakeTimeout = errors.New("handshake timed out")

// ErrHandshakeCanceled is returned when a handshake was abandoned because its
// context was canceled, for instance on shutdown.
var ErrHandshakeCanceled = errors.New("handshake canceled")

// ConnectionError is an error that terminates a single handshake attempt.
type ConnectionError struct {
	Code  ErrorCode
	Cause error
}

func (e *ConnectionError) Error() string {
	description := errorCodeDescriptions[e.Code]
	if e.Cause == nil {
		return description
	}
	return description + ": " + e.Cause.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// Errorf formats according to a format specifier and returns the string
// as a value that satisfies error.
// Errorf also records the stack trace at the point it was called.
func Errorf(code ErrorCode, format string, args ...interface{}) error {
	return &ConnectionError{
		Code:  code,
		Cause: errors.Errorf(format, args...),
	}
}

// New returns an error with the supplied message.
// New also records the stack trace at the point it was called.
func New(code ErrorCode, message string) error {
	return &ConnectionError{
		Code:  code,
		Cause: errors.New(message),
	}
}

// Wrap returns an error annotating err with a stack trace
// at the point Wrap is called, and the supplied message.
func Wrap(code ErrorCode, err error, message string) error {
	return &ConnectionError{
		Code:  code,
		Cause: errors.Wrap(err, message),
	}
}

// Wrapf returns an error annotating err with a stack trace
// at the point Wrapf is called, and the format specifier.
func Wrapf(code ErrorCode, err error, format string, args ...interface{}) error {
	return &ConnectionError{
		Code:  code,
		Cause: errors.Wrapf(err, format, args...),
	}
}

// IsCode returns whether err is, or wraps, a ConnectionError with the given
// code.
func IsCode(err error, code ErrorCode) bool {
	var connectionErr *ConnectionError
	if !errors.As(err, &connectionErr) {
		return false
	}
	return connectionErr.Code == code
}
