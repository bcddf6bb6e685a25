// Package vdev implements fixed-size, permission-gated virtual storage
// devices.
//
// # Instances
//
// An Instance owns a zero-initialised buffer whose size is fixed at creation,
// a permission mode, a logical data length and an exclusive lock. Reads and
// writes past the end of the buffer are clipped, never rejected; a write that
// would transfer nothing fails with ErrNoSpace.
//
// # Sessions
//
// A Session is one open handle on an Instance. Open checks the requested
// AccessMode against the instance Permission:
//
//	Permission   allowed modes
//	RDWR         r, w, rw
//	RDONLY       r
//	WRONLY       w
//
// Each session has its own cursor. Read, Write and Seek move it; Seek
// positions are relative to the buffer capacity, never to the data length.
//
// # Control Commands
//
// Session.Ioctl dispatches control commands in the 'V' family:
//
//	CmdFillZero  IO('V', 1)     fill the buffer, reset data length and cursor
//	CmdFillChar  IOW('V', 2, 1) accepted, no effect
//
// Commands from another family fail with ErrNotThisDevice before the device
// is touched.
//
// # Locking
//
// Every buffer access, cursor update and command takes the same instance
// lock, so a fill can never interleave with a read or write on the same
// device. Independent instances share nothing.
package vdev
