package wire

import "fmt"

// Field widths of a command number.
const (
	nrBits   = 8
	typeBits = 8
	sizeBits = 14
	dirBits  = 2

	nrShift   = 0
	typeShift = nrShift + nrBits
	sizeShift = typeShift + typeBits
	dirShift  = sizeShift + sizeBits

	nrMask   = 1<<nrBits - 1
	typeMask = 1<<typeBits - 1
	sizeMask = 1<<sizeBits - 1
	dirMask  = 1<<dirBits - 1
)

// Dir is the data transfer direction encoded in a command number,
// seen from the caller.
type Dir uint8

const (
	// DirNone means the command carries no argument.
	DirNone Dir = 0
	// DirWrite means the caller passes an argument to the device.
	DirWrite Dir = 1
	// DirRead means the device returns data to the caller.
	DirRead Dir = 2
	// DirReadWrite means the argument is passed in both directions.
	DirReadWrite Dir = DirRead | DirWrite
)

// String returns the direction name.
func (d Dir) String() string {
	switch d {
	case DirNone:
		return "NONE"
	case DirWrite:
		return "WRITE"
	case DirRead:
		return "READ"
	case DirReadWrite:
		return "READWRITE"
	default:
		return "UNKNOWN"
	}
}

// Cmd is an encoded control command number.
type Cmd uint32

// NewCmd packs the four command fields. Values wider than their field
// are truncated.
func NewCmd(dir Dir, typ, nr uint8, size uint16) Cmd {
	return Cmd(uint32(dir)&dirMask<<dirShift |
		uint32(size)&sizeMask<<sizeShift |
		uint32(typ)&typeMask<<typeShift |
		uint32(nr)&nrMask<<nrShift)
}

// IO builds a command without an argument.
func IO(typ, nr uint8) Cmd {
	return NewCmd(DirNone, typ, nr, 0)
}

// IOR builds a command that returns size bytes to the caller.
func IOR(typ, nr uint8, size uint16) Cmd {
	return NewCmd(DirRead, typ, nr, size)
}

// IOW builds a command that passes size bytes to the device.
func IOW(typ, nr uint8, size uint16) Cmd {
	return NewCmd(DirWrite, typ, nr, size)
}

// IOWR builds a command that passes size bytes in both directions.
func IOWR(typ, nr uint8, size uint16) Cmd {
	return NewCmd(DirReadWrite, typ, nr, size)
}

// Dir returns the transfer direction.
func (c Cmd) Dir() Dir { return Dir(uint32(c) >> dirShift & dirMask) }

// Size returns the argument size in bytes.
func (c Cmd) Size() uint16 { return uint16(uint32(c) >> sizeShift & sizeMask) }

// Type returns the family tag.
func (c Cmd) Type() uint8 { return uint8(uint32(c) >> typeShift & typeMask) }

// Nr returns the command number within its family.
func (c Cmd) Nr() uint8 { return uint8(uint32(c) >> nrShift & nrMask) }

// String formats the command as its decoded fields.
func (c Cmd) String() string {
	typ := c.Type()
	tag := fmt.Sprintf("0x%02x", typ)
	if typ >= 0x20 && typ < 0x7f {
		tag = fmt.Sprintf("'%c'", typ)
	}
	return fmt.Sprintf("cmd(%s, type=%s, nr=%d, size=%d)", c.Dir(), tag, c.Nr(), c.Size())
}
