package log

import (
	"time"

	"github.com/vdevs/vdevs-go/pkg/wire"
)

// Event represents a device event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the session (UUID). Empty for probe and remove.
	SessionID string `cbor:"2,keyasint,omitempty"`

	// DeviceID is the registry identifier of the device.
	DeviceID int `cbor:"3,keyasint"`

	// Node is the external node name, e.g. "vDev-0".
	Node string `cbor:"4,keyasint,omitempty"`

	// Category classifies the event.
	Category Category `cbor:"5,keyasint"`

	// Op is the operation that produced the event.
	Op Op `cbor:"6,keyasint"`

	// Status is the outcome of the operation.
	Status wire.Status `cbor:"7,keyasint"`

	// Type-specific payload (at most one of these is set).
	IO        *IOEvent        `cbor:"8,keyasint,omitempty"`  // read, write, seek
	Control   *ControlEvent   `cbor:"9,keyasint,omitempty"`  // control commands
	Lifecycle *LifecycleEvent `cbor:"10,keyasint,omitempty"` // probe, remove, open, close
	Error     *ErrorEventData `cbor:"11,keyasint,omitempty"` // failed operations
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryLifecycle indicates device or session lifecycle.
	CategoryLifecycle Category = 0
	// CategoryIO indicates a read, write or seek.
	CategoryIO Category = 1
	// CategoryControl indicates a control command.
	CategoryControl Category = 2
	// CategoryError indicates a failed operation.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryLifecycle:
		return "LIFECYCLE"
	case CategoryIO:
		return "IO"
	case CategoryControl:
		return "CONTROL"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Op identifies the operation behind an event.
type Op uint8

const (
	OpProbe  Op = 0
	OpRemove Op = 1
	OpOpen   Op = 2
	OpClose  Op = 3
	OpRead   Op = 4
	OpWrite  Op = 5
	OpSeek   Op = 6
	OpIoctl  Op = 7
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpProbe:
		return "PROBE"
	case OpRemove:
		return "REMOVE"
	case OpOpen:
		return "OPEN"
	case OpClose:
		return "CLOSE"
	case OpRead:
		return "READ"
	case OpWrite:
		return "WRITE"
	case OpSeek:
		return "SEEK"
	case OpIoctl:
		return "IOCTL"
	default:
		return "UNKNOWN"
	}
}

// DefaultCategory returns the category an operation is logged under when it
// succeeds.
func (o Op) DefaultCategory() Category {
	switch o {
	case OpRead, OpWrite, OpSeek:
		return CategoryIO
	case OpIoctl:
		return CategoryControl
	default:
		return CategoryLifecycle
	}
}

// IOEvent captures a read, write or seek.
type IOEvent struct {
	// Offset is the cursor before the operation.
	Offset int64 `cbor:"1,keyasint"`

	// Requested is the byte count asked for (read/write) or the seek offset.
	Requested int64 `cbor:"2,keyasint"`

	// Transferred is the byte count actually moved after clipping.
	Transferred int `cbor:"3,keyasint"`

	// Whence is the seek origin (io.SeekStart etc.), seek only.
	Whence int `cbor:"4,keyasint,omitempty"`

	// NewOffset is the cursor after the operation.
	NewOffset int64 `cbor:"5,keyasint"`
}

// ControlEvent captures a control command.
type ControlEvent struct {
	// Cmd is the raw command number.
	Cmd wire.Cmd `cbor:"1,keyasint"`

	// Arg is the command argument.
	Arg uint64 `cbor:"2,keyasint,omitempty"`

	// NewOffset is the cursor after the command.
	NewOffset int64 `cbor:"3,keyasint"`
}

// LifecycleEvent captures device probe/remove and session open/close.
type LifecycleEvent struct {
	// Capacity is the device buffer size.
	Capacity int `cbor:"1,keyasint,omitempty"`

	// Permission is the device permission mode.
	Permission uint8 `cbor:"2,keyasint,omitempty"`

	// SerialNumber is the device serial number.
	SerialNumber string `cbor:"3,keyasint,omitempty"`

	// AccessMode is the mode requested at open.
	AccessMode uint8 `cbor:"4,keyasint,omitempty"`

	// OpenSessions is the number of sessions open after the event.
	OpenSessions int `cbor:"5,keyasint,omitempty"`
}

// ErrorEventData captures a failed operation.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Errno is the errno a character device would have returned.
	Errno int `cbor:"2,keyasint,omitempty"`
}

// NewErrorData builds the error payload for a failed operation.
func NewErrorData(status wire.Status, err error) *ErrorEventData {
	if err == nil {
		return nil
	}
	return &ErrorEventData{
		Message: err.Error(),
		Errno:   int(status.Errno()),
	}
}
