package vdev

import (
	"fmt"
	"strings"
)

// Permission is the instance-level access policy.
type Permission uint8

const (
	// PermReadOnly allows sessions that only read.
	PermReadOnly Permission = 0x01

	// PermWriteOnly allows sessions that only write.
	PermWriteOnly Permission = 0x02

	// PermReadWrite allows any session.
	PermReadWrite Permission = 0x03
)

// Valid reports whether p is one of the three defined modes.
func (p Permission) Valid() bool {
	return p == PermReadOnly || p == PermWriteOnly || p == PermReadWrite
}

// String returns the permission name.
func (p Permission) String() string {
	switch p {
	case PermReadOnly:
		return "RDONLY"
	case PermWriteOnly:
		return "WRONLY"
	case PermReadWrite:
		return "RDWR"
	default:
		return fmt.Sprintf("Permission(%d)", uint8(p))
	}
}

// ParsePermission parses a permission name or its numeric value.
func ParsePermission(s string) (Permission, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rdonly", "ro", "read-only", "readonly", "1":
		return PermReadOnly, nil
	case "wronly", "wo", "write-only", "writeonly", "2":
		return PermWriteOnly, nil
	case "rdwr", "rw", "read-write", "readwrite", "3":
		return PermReadWrite, nil
	default:
		return 0, fmt.Errorf("%w: unknown permission %q", ErrInvalidConfig, s)
	}
}

// AccessMode is the access requested when a session is opened.
type AccessMode uint8

const (
	// ModeRead requests read access.
	ModeRead AccessMode = 1 << iota

	// ModeWrite requests write access.
	ModeWrite

	// ModeReadWrite requests both.
	ModeReadWrite = ModeRead | ModeWrite
)

// CanRead returns true if the mode includes read access.
func (m AccessMode) CanRead() bool { return m&ModeRead != 0 }

// CanWrite returns true if the mode includes write access.
func (m AccessMode) CanWrite() bool { return m&ModeWrite != 0 }

// String returns the mode as "r", "w", "rw" or "-".
func (m AccessMode) String() string {
	var s string
	if m.CanRead() {
		s += "r"
	}
	if m.CanWrite() {
		s += "w"
	}
	if s == "" {
		return "-"
	}
	return s
}

// ParseAccessMode parses "r", "w" or "rw" (and their long forms).
func ParseAccessMode(s string) (AccessMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "read", "rdonly", "o_rdonly":
		return ModeRead, nil
	case "w", "write", "wronly", "o_wronly":
		return ModeWrite, nil
	case "rw", "wr", "readwrite", "rdwr", "o_rdwr":
		return ModeReadWrite, nil
	default:
		return 0, fmt.Errorf("%w: unknown access mode %q", ErrInvalidArgument, s)
	}
}

// CheckPermission decides whether a session opened with mode may use a
// device with permission perm.
func CheckPermission(perm Permission, mode AccessMode) error {
	switch {
	case perm == PermReadWrite:
		return nil
	case perm == PermReadOnly && mode.CanRead() && !mode.CanWrite():
		return nil
	case perm == PermWriteOnly && mode.CanWrite() && !mode.CanRead():
		return nil
	}
	return fmt.Errorf("%w: %s access to %s device", ErrPermissionDenied, mode, perm)
}
