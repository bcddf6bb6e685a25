package inspect

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vdevs/vdevs-go/pkg/vdev"
	"github.com/vdevs/vdevs-go/pkg/version"
	"github.com/vdevs/vdevs-go/pkg/wire"
)

// Snapshot captures every live device under the current interface version.
func (i *Inspector) Snapshot() *wire.Snapshot {
	return &wire.Snapshot{
		Interface: version.Current,
		Taken:     time.Now().UTC(),
		Devices:   i.Devices(),
	}
}

// SaveSnapshot writes a snapshot of every live device to w.
func (i *Inspector) SaveSnapshot(w io.Writer) (*wire.Snapshot, error) {
	snap := i.Snapshot()
	if err := wire.WriteSnapshot(w, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadSnapshot reads a snapshot and rejects one taken under an
// incompatible interface version.
func LoadSnapshot(r io.Reader) (*wire.Snapshot, error) {
	snap, err := wire.ReadSnapshot(r)
	if err != nil {
		return nil, err
	}
	if err := version.CheckCompatible(snap.Interface); err != nil {
		return nil, err
	}
	return snap, nil
}

// CheckInterface compares the commands the driver accepts against the
// current interface manifest. Warnings are returned alongside a nil error.
func CheckInterface() ([]string, error) {
	m, err := version.LoadCurrentManifest()
	if err != nil {
		return nil, err
	}
	if m.Magic != vdev.Magic {
		return nil, fmt.Errorf("interface %s: family %#x, driver uses %#x", m.Version, m.Magic, vdev.Magic)
	}
	result := version.ValidateCommands(m, vdev.SupportedCommands())
	if !result.Valid {
		return result.Warnings, fmt.Errorf("interface %s: %s", m.Version, strings.Join(result.Errors, "; "))
	}
	return result.Warnings, nil
}
