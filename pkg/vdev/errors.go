package vdev

import (
	"errors"

	"github.com/vdevs/vdevs-go/pkg/wire"
)

// Device errors.
var (
	ErrInvalidConfig      = errors.New("invalid device configuration")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNoSpace            = errors.New("no space left on device")
	ErrNotFound           = errors.New("device not found")
	ErrUnsupportedCommand = errors.New("unsupported command")
	ErrNotThisDevice      = errors.New("command not for this device")
	ErrBusy               = errors.New("device busy")
	ErrSessionClosed      = errors.New("session closed")
)

// StatusOf maps an error onto its wire status code. Errors outside the
// device taxonomy map to StatusFailure.
func StatusOf(err error) wire.Status {
	switch {
	case err == nil:
		return wire.StatusSuccess
	case errors.Is(err, ErrInvalidConfig):
		return wire.StatusInvalidConfig
	case errors.Is(err, ErrPermissionDenied):
		return wire.StatusPermissionDenied
	case errors.Is(err, ErrInvalidArgument):
		return wire.StatusInvalidArgument
	case errors.Is(err, ErrNoSpace):
		return wire.StatusNoSpace
	case errors.Is(err, ErrNotFound):
		return wire.StatusNotFound
	case errors.Is(err, ErrUnsupportedCommand):
		return wire.StatusUnsupportedCommand
	case errors.Is(err, ErrNotThisDevice):
		return wire.StatusNotThisDevice
	case errors.Is(err, ErrBusy):
		return wire.StatusBusy
	case errors.Is(err, ErrSessionClosed):
		return wire.StatusClosed
	default:
		return wire.StatusFailure
	}
}
