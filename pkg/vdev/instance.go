package vdev

import (
	"fmt"
	"sync"

	"github.com/vdevs/vdevs-go/pkg/wire"
)

// NodePrefix is the prefix of external node names.
const NodePrefix = "vDev-"

// NodeName returns the external node name for a device identifier.
func NodeName(id int) string {
	return fmt.Sprintf("%s%d", NodePrefix, id)
}

// Config is the creation-time configuration of a device.
type Config struct {
	// Capacity is the buffer size in bytes. Must be positive.
	Capacity int

	// Permission constrains which sessions may be opened.
	Permission Permission

	// SerialNumber is a descriptive identity.
	SerialNumber string
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if !c.Permission.Valid() {
		return fmt.Errorf("%w: unknown permission %d", ErrInvalidConfig, uint8(c.Permission))
	}
	return nil
}

// Instance is one virtual device.
type Instance struct {
	// mu guards buffer, dataLen and the cursors of sessions bound to
	// this instance.
	mu sync.Mutex

	id           int
	node         string
	serialNumber string
	permission   Permission
	capacity     int

	buffer  []byte
	dataLen int
}

// NewInstance allocates a device with a zero-filled buffer.
func NewInstance(id int, cfg Config) (*Instance, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Instance{
		id:           id,
		node:         NodeName(id),
		serialNumber: cfg.SerialNumber,
		permission:   cfg.Permission,
		capacity:     cfg.Capacity,
		buffer:       make([]byte, cfg.Capacity),
	}, nil
}

// ID returns the registry identifier.
func (i *Instance) ID() int {
	return i.id
}

// Node returns the external node name.
func (i *Instance) Node() string {
	return i.node
}

// Capacity returns the fixed buffer size.
func (i *Instance) Capacity() int {
	return i.capacity
}

// Permission returns the permission mode.
func (i *Instance) Permission() Permission {
	return i.permission
}

// SerialNumber returns the serial number.
func (i *Instance) SerialNumber() string {
	return i.serialNumber
}

// DataLen returns the logical length of data written since creation or the
// last fill.
func (i *Instance) DataLen() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.dataLen
}

// ReadRange returns a copy of up to length bytes starting at offset. The
// range is clipped to the buffer; an offset at or past the end yields an
// empty slice.
func (i *Instance) ReadRange(offset int64, length int) []byte {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.readRangeLocked(offset, length)
}

func (i *Instance) readRangeLocked(offset int64, length int) []byte {
	n := i.clip(offset, length)
	if n == 0 {
		return []byte{}
	}
	out := make([]byte, n)
	copy(out, i.buffer[offset:offset+int64(n)])
	return out
}

// WriteRange copies data into the buffer at offset, clipped to the buffer.
// It returns the number of bytes written, or ErrNoSpace when nothing fits.
func (i *Instance) WriteRange(offset int64, data []byte) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.writeRangeLocked(offset, data)
}

func (i *Instance) writeRangeLocked(offset int64, data []byte) (int, error) {
	n := i.clip(offset, len(data))
	if n == 0 {
		return 0, ErrNoSpace
	}
	copy(i.buffer[offset:], data[:n])
	if end := int(offset) + n; end > i.dataLen {
		i.dataLen = end
	}
	return n, nil
}

// clip returns how many of length bytes at offset fit in the buffer.
func (i *Instance) clip(offset int64, length int) int {
	if offset < 0 || length <= 0 || offset >= int64(i.capacity) {
		return 0
	}
	if avail := i.capacity - int(offset); length > avail {
		return avail
	}
	return length
}

// Fill overwrites the whole buffer with value and resets the data length.
func (i *Instance) Fill(value byte) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.fillLocked(value)
}

func (i *Instance) fillLocked(value byte) {
	for j := range i.buffer {
		i.buffer[j] = value
	}
	i.dataLen = 0
}

// Info returns a snapshot description of the device. OpenSessions is left
// for the registry to fill in.
func (i *Instance) Info() wire.DeviceInfo {
	return wire.DeviceInfo{
		ID:           i.id,
		Node:         i.node,
		SerialNumber: i.serialNumber,
		Capacity:     i.capacity,
		Permission:   uint8(i.permission),
		DataLen:      i.DataLen(),
	}
}
