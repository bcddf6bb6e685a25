package wire

import "syscall"

// Status represents the result code of a device operation.
type Status uint8

const (
	// StatusSuccess indicates the operation completed successfully.
	StatusSuccess Status = 0

	// StatusInvalidConfig indicates bad creation parameters or a device
	// without a usable buffer.
	StatusInvalidConfig Status = 1

	// StatusPermissionDenied indicates the access mode is incompatible with
	// the device permission.
	StatusPermissionDenied Status = 2

	// StatusInvalidArgument indicates a seek target outside the buffer.
	StatusInvalidArgument Status = 3

	// StatusNoSpace indicates a write that would transfer zero bytes.
	StatusNoSpace Status = 4

	// StatusNotFound indicates an unknown device identifier.
	StatusNotFound Status = 5

	// StatusUnsupportedCommand indicates an unknown command in the family.
	StatusUnsupportedCommand Status = 6

	// StatusNotThisDevice indicates a command from a different family.
	StatusNotThisDevice Status = 7

	// StatusBusy indicates the device still has open sessions.
	StatusBusy Status = 8

	// StatusClosed indicates use of a closed session or registry.
	StatusClosed Status = 9

	// StatusFailure indicates an error outside the taxonomy.
	StatusFailure Status = 255
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusInvalidConfig:
		return "INVALID_CONFIG"
	case StatusPermissionDenied:
		return "PERMISSION_DENIED"
	case StatusInvalidArgument:
		return "INVALID_ARGUMENT"
	case StatusNoSpace:
		return "NO_SPACE"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusUnsupportedCommand:
		return "UNSUPPORTED_COMMAND"
	case StatusNotThisDevice:
		return "NOT_THIS_DEVICE"
	case StatusBusy:
		return "BUSY"
	case StatusClosed:
		return "CLOSED"
	case StatusFailure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Errno returns the errno a character device driver reports for the status.
// StatusSuccess maps to 0.
func (s Status) Errno() syscall.Errno {
	switch s {
	case StatusSuccess:
		return 0
	case StatusInvalidConfig, StatusInvalidArgument, StatusUnsupportedCommand:
		return syscall.EINVAL
	case StatusPermissionDenied:
		return syscall.EPERM
	case StatusNoSpace:
		return syscall.ENOMEM
	case StatusNotFound:
		return syscall.ENODEV
	case StatusNotThisDevice:
		return syscall.ENOTTY
	case StatusBusy:
		return syscall.EBUSY
	case StatusClosed:
		return syscall.EBADF
	default:
		return syscall.EIO
	}
}

// IsSuccess returns true if the status indicates success.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// IsError returns true if the status indicates an error.
func (s Status) IsError() bool {
	return s != StatusSuccess
}
