// Package inspect provides device inspection utilities.
//
// The inspect package offers:
//   - Parsing address expressions (e.g., "vDev-0/16/32")
//   - Resolving command names to command numbers
//   - Hex dumps and digests of device buffers
//   - Formatting output for display
package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vdevs/vdevs-go/pkg/vdev"
)

// Address errors.
var (
	ErrEmptyAddress   = errors.New("empty address")
	ErrInvalidAddress = errors.New("invalid address format")
	ErrInvalidNumber  = errors.New("invalid numeric value in address")
)

// Address is a parsed device range expression.
// Format: device[/offset[/length]]
type Address struct {
	// DeviceID is the device identifier.
	DeviceID int

	// Offset is the first byte of the range.
	Offset int64

	// Length is the number of bytes; 0 means up to the end of the buffer.
	Length int

	// Raw stores the original input string.
	Raw string
}

// ParseAddress parses an address string.
//
// Supported formats:
//   - "vDev-0" or "0" - whole device
//   - "vDev-0/16" - from offset 16 to the end
//   - "vDev-0/0x10/32" - 32 bytes from offset 16
//
// Numeric values can be decimal or hex (0x prefix).
func ParseAddress(input string) (*Address, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyAddress
	}
	if strings.HasPrefix(input, "/") || strings.HasSuffix(input, "/") || strings.Contains(input, "//") {
		return nil, ErrInvalidAddress
	}

	parts := strings.Split(input, "/")
	if len(parts) > 3 {
		return nil, ErrInvalidAddress
	}

	a := &Address{Raw: input}

	id, err := ParseDeviceID(parts[0])
	if err != nil {
		return nil, fmt.Errorf("device: %w", err)
	}
	a.DeviceID = id

	if len(parts) > 1 {
		off, err := parseNumber(parts[1])
		if err != nil {
			return nil, fmt.Errorf("offset: %w", err)
		}
		a.Offset = off
	}
	if len(parts) > 2 {
		n, err := parseNumber(parts[2])
		if err != nil {
			return nil, fmt.Errorf("length: %w", err)
		}
		a.Length = int(n)
	}
	return a, nil
}

// String returns the address in canonical form.
func (a *Address) String() string {
	var sb strings.Builder
	sb.WriteString(vdev.NodeName(a.DeviceID))
	if a.Offset != 0 || a.Length != 0 {
		sb.WriteString("/")
		sb.WriteString(strconv.FormatInt(a.Offset, 10))
	}
	if a.Length != 0 {
		sb.WriteString("/")
		sb.WriteString(strconv.Itoa(a.Length))
	}
	return sb.String()
}

// ParseDeviceID accepts a node name ("vDev-3") or a bare identifier ("3").
func ParseDeviceID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, vdev.NodePrefix); ok {
		s = rest
	}
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return id, nil
}

// parseNumber parses a non-negative decimal or hex number.
func parseNumber(s string) (int64, error) {
	var v uint64
	var err error

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 31)
	} else {
		v, err = strconv.ParseUint(s, 10, 31)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, s)
	}
	return int64(v), nil
}
