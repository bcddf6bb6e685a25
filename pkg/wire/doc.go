// Package wire defines the binary contract between virtual devices and
// their callers.
//
// # Control Commands
//
// Control commands use the Linux ioctl number layout. A 32-bit command
// number packs four fields:
//
//	bits 31-30  direction (none, write, read, read|write)
//	bits 29-16  argument size in bytes
//	bits 15-8   type, the 1-byte family tag of the device driver
//	bits  7-0   number, the command within the family
//
// IO, IOR, IOW and IOWR build command numbers; the Cmd accessors take them
// apart again. A dispatcher compares Type against its own family tag before
// looking at anything else.
//
// # Status Codes
//
// Status is the compact result code recorded in event logs and snapshots.
// Each status maps onto the errno a character device would return.
//
// # CBOR Snapshots
//
// A Snapshot captures every DeviceInfo of a registry at one instant. It is
// encoded as CBOR (RFC 8949) with integer keys and carries the control
// interface version it was taken under.
package wire
