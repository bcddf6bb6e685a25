package wire

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// ErrInvalidSnapshot is returned for snapshots that fail validation.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

var (
	snapEncMode cbor.EncMode
	snapDecMode cbor.DecMode
)

func init() {
	var err error
	snapEncMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: snapshot encoder mode: %v", err))
	}

	// Unknown keys are skipped so newer snapshots stay readable.
	snapDecMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("wire: snapshot decoder mode: %v", err))
	}
}

// DeviceInfo is a point-in-time description of one virtual device.
type DeviceInfo struct {
	ID           int    `cbor:"1,keyasint" json:"id"`
	Node         string `cbor:"2,keyasint" json:"node"`
	SerialNumber string `cbor:"3,keyasint,omitempty" json:"serial_number,omitempty"`
	Capacity     int    `cbor:"4,keyasint" json:"capacity"`
	Permission   uint8  `cbor:"5,keyasint" json:"permission"`
	DataLen      int    `cbor:"6,keyasint" json:"data_len"`
	OpenSessions int    `cbor:"7,keyasint,omitempty" json:"open_sessions,omitempty"`
}

// Validate checks the invariants a device description must satisfy.
func (d *DeviceInfo) Validate() error {
	if d.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", d.Capacity)
	}
	if d.DataLen < 0 || d.DataLen > d.Capacity {
		return fmt.Errorf("data length %d outside [0, %d]", d.DataLen, d.Capacity)
	}
	if d.Permission < 1 || d.Permission > 3 {
		return fmt.Errorf("unknown permission %d", d.Permission)
	}
	return nil
}

// Snapshot is every device of a registry at one instant.
type Snapshot struct {
	// Interface is the control interface version, "major.minor".
	Interface string       `cbor:"1,keyasint"`
	Taken     time.Time    `cbor:"2,keyasint"`
	Devices   []DeviceInfo `cbor:"3,keyasint"`
}

// Validate checks every device and rejects duplicate identifiers.
func (s *Snapshot) Validate() error {
	if s.Interface == "" {
		return fmt.Errorf("%w: missing interface version", ErrInvalidSnapshot)
	}
	seen := make(map[int]bool, len(s.Devices))
	for i := range s.Devices {
		d := &s.Devices[i]
		if err := d.Validate(); err != nil {
			return fmt.Errorf("%w: device %s: %v", ErrInvalidSnapshot, d.Node, err)
		}
		if seen[d.ID] {
			return fmt.Errorf("%w: duplicate device id %d", ErrInvalidSnapshot, d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}

// EncodeSnapshot validates s and returns its CBOR encoding.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return snapEncMode.Marshal(s)
}

// DecodeSnapshot parses and validates a CBOR snapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := snapDecMode.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// WriteSnapshot writes the encoding of s to w.
func WriteSnapshot(w io.Writer, s *Snapshot) error {
	data, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadSnapshot reads one snapshot from r.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := snapDecMode.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
