package errors

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrConfig is returned when the settings file is missing, unreadable or holds a malformed value
var ErrConfig = errors.New("configuration error")

// ErrDiscovery is returned when the bridge cannot be found or its lights cannot be listed
var ErrDiscovery = errors.New("bridge discovery failed")

// ErrBridge is returned when the bridge rejects or fails a command
var ErrBridge = errors.New("bridge error")

// ErrInvalidInput is returned when the provided input is invalid
var ErrInvalidInput = errors.New("invalid input")

// Process exit statuses.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitDiscovery = 2
)

// LogErrorAndReturn logs an error with structured context and returns it
func LogErrorAndReturn(logger *slog.Logger, err error, message string, args ...any) error {
	// Don't modify nil errors
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

// IsConfig returns true if the error is or wraps ErrConfig
func IsConfig(err error) bool {
	return errors.Is(err, ErrConfig)
}

// IsDiscovery returns true if the error is or wraps ErrDiscovery
func IsDiscovery(err error) bool {
	return errors.Is(err, ErrDiscovery)
}

// IsBridge returns true if the error is or wraps ErrBridge
func IsBridge(err error) bool {
	return errors.Is(err, ErrBridge)
}

// IsInvalidInput returns true if the error is or wraps ErrInvalidInput
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Configf returns a formatted ErrConfig error
func Configf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConfig)...)
}

// Discoveryf returns a formatted ErrDiscovery error
func Discoveryf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrDiscovery)...)
}

// Bridgef returns a formatted ErrBridge error
func Bridgef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrBridge)...)
}

// InvalidInputf returns a formatted ErrInvalidInput error
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

// ExitCode maps an error returned from a command to the process exit status.
// Discovery and light listing failures get their own status so scripts can
// tell "no bridge" apart from everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsDiscovery(err):
		return ExitDiscovery
	default:
		return ExitFailure
	}
}
