package errors

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrConfiguration is returned when the endpoint is missing required settings
// such as the device address. No I/O has happened when it is returned.
var ErrConfiguration = errors.New("configuration error")

// ErrTransport is returned when binding the socket or sending the datagram fails
var ErrTransport = errors.New("transport error")

// ErrTimeout is returned when the device did not answer within the exchange window
var ErrTimeout = errors.New("timeout")

// ErrProtocol is returned when a reply cannot be deciphered or decoded
var ErrProtocol = errors.New("protocol error")

// ErrDevice is returned when the device answered with a non-zero err_code
var ErrDevice = errors.New("device error")

// ErrInvalidInput is returned when the provided input is invalid
var ErrInvalidInput = errors.New("invalid input")

// LogErrorAndReturn logs an error with structured context and returns it
func LogErrorAndReturn(logger *slog.Logger, err error, message string, args ...any) error {
	if err == nil {
		return nil
	}

	logger.Error(message, append([]any{"error", err}, args...)...)
	return err
}

// WrapErrorf wraps an error with additional context using fmt.Errorf
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Wrap attaches a sentinel kind to cause so that both errors.Is(err, kind)
// and errors.Is(err, cause) hold. A nil cause returns nil.
func Wrap(kind, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf(format+": %w: %w", append(args, kind, cause)...)
}

// IsConfiguration returns true if the error is or wraps ErrConfiguration
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsTransport returns true if the error is or wraps ErrTransport
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsTimeout returns true if the error is or wraps ErrTimeout
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsProtocol returns true if the error is or wraps ErrProtocol
func IsProtocol(err error) bool {
	return errors.Is(err, ErrProtocol)
}

// IsDevice returns true if the error is or wraps ErrDevice
func IsDevice(err error) bool {
	return errors.Is(err, ErrDevice)
}

// IsInvalidInput returns true if the error is or wraps ErrInvalidInput
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Configurationf returns a formatted ErrConfiguration error
func Configurationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConfiguration)...)
}

// Timeoutf returns a formatted ErrTimeout error
func Timeoutf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrTimeout)...)
}

// Protocolf returns a formatted ErrProtocol error
func Protocolf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrProtocol)...)
}

// Devicef returns a formatted ErrDevice error
func Devicef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrDevice)...)
}

// InvalidInputf returns a formatted ErrInvalidInput error
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}
