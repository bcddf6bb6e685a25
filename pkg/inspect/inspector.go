package inspect

import (
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/vdevs/vdevs-go/pkg/registry"
	"github.com/vdevs/vdevs-go/pkg/wire"
)

// BytesPerRow is the width of a dump row.
const BytesPerRow = 16

// Inspector provides read-only views of the devices in a registry.
type Inspector struct {
	reg *registry.Registry
}

// NewInspector creates a new Inspector for the given registry.
func NewInspector(reg *registry.Registry) *Inspector {
	return &Inspector{reg: reg}
}

// Devices returns a snapshot of every live device ordered by identifier.
func (i *Inspector) Devices() []wire.DeviceInfo {
	instances := i.reg.Instances()
	infos := make([]wire.DeviceInfo, 0, len(instances))
	for _, inst := range instances {
		info, err := i.reg.Info(inst.ID())
		if err != nil {
			// Unregistered since the listing.
			continue
		}
		infos = append(infos, info)
	}
	return infos
}

// Device returns a snapshot of one device.
func (i *Inspector) Device(id int) (wire.DeviceInfo, error) {
	return i.reg.Info(id)
}

// DumpRow is one row of a hex dump.
type DumpRow struct {
	Offset int64
	Data   []byte
}

// Dump returns the buffer range of addr split into rows. The range is
// clipped to the capacity; a Length of 0 selects up to the end.
func (i *Inspector) Dump(addr *Address) ([]DumpRow, error) {
	inst, err := i.reg.Lookup(addr.DeviceID)
	if err != nil {
		return nil, err
	}
	if addr.Offset > int64(inst.Capacity()) {
		return nil, fmt.Errorf("%w: offset %d beyond capacity %d", ErrInvalidAddress, addr.Offset, inst.Capacity())
	}

	length := addr.Length
	if length == 0 {
		length = inst.Capacity() - int(addr.Offset)
	}
	data := inst.ReadRange(addr.Offset, length)

	rows := make([]DumpRow, 0, (len(data)+BytesPerRow-1)/BytesPerRow)
	for start := 0; start < len(data); start += BytesPerRow {
		end := min(start+BytesPerRow, len(data))
		rows = append(rows, DumpRow{
			Offset: addr.Offset + int64(start),
			Data:   data[start:end],
		})
	}
	return rows, nil
}

// Digest returns the BLAKE2b-256 digest of a device's whole buffer.
func (i *Inspector) Digest(id int) ([blake2b.Size256]byte, error) {
	inst, err := i.reg.Lookup(id)
	if err != nil {
		return [blake2b.Size256]byte{}, err
	}
	return blake2b.Sum256(inst.ReadRange(0, inst.Capacity())), nil
}
