package inspect

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"github.com/vdevs/vdevs-go/pkg/registry"
	"github.com/vdevs/vdevs-go/pkg/vdev"
)

func setupInspector(t *testing.T) (*Inspector, *registry.Registry) {
	t.Helper()
	reg := registry.New(registry.Config{})
	_, err := reg.Register(vdev.Config{Capacity: 40, Permission: vdev.PermReadWrite, SerialNumber: "SN-A"})
	require.NoError(t, err)
	_, err = reg.Register(vdev.Config{Capacity: 8, Permission: vdev.PermReadOnly, SerialNumber: "SN-B"})
	require.NoError(t, err)
	return NewInspector(reg), reg
}

func TestInspectorDevices(t *testing.T) {
	insp, reg := setupInspector(t)

	s, err := reg.Open(0, vdev.ModeWrite)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.Write([]byte("hello"))
	require.NoError(t, err)

	infos := insp.Devices()
	require.Len(t, infos, 2)
	assert.Equal(t, "vDev-0", infos[0].Node)
	assert.Equal(t, 5, infos[0].DataLen)
	assert.Equal(t, 1, infos[0].OpenSessions)
	assert.Equal(t, "SN-B", infos[1].SerialNumber)
	assert.Equal(t, uint8(vdev.PermReadOnly), infos[1].Permission)

	_, err = insp.Device(7)
	assert.ErrorIs(t, err, vdev.ErrNotFound)
}

func TestInspectorDump(t *testing.T) {
	insp, reg := setupInspector(t)
	inst, _ := reg.Lookup(0)
	_, err := inst.WriteRange(0, bytes.Repeat([]byte{'x'}, 40))
	require.NoError(t, err)

	rows, err := insp.Dump(&Address{DeviceID: 0})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(16), rows[1].Offset)
	assert.Len(t, rows[2].Data, 8)

	rows, err = insp.Dump(&Address{DeviceID: 0, Offset: 36, Length: 100})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(36), rows[0].Offset)
	assert.Len(t, rows[0].Data, 4)

	rows, err = insp.Dump(&Address{DeviceID: 0, Offset: 40})
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = insp.Dump(&Address{DeviceID: 0, Offset: 41})
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = insp.Dump(&Address{DeviceID: 9})
	assert.ErrorIs(t, err, vdev.ErrNotFound)
}

func TestInspectorDigest(t *testing.T) {
	insp, reg := setupInspector(t)

	sum, err := insp.Digest(1)
	require.NoError(t, err)
	assert.Equal(t, blake2b.Sum256(make([]byte, 8)), sum)

	inst, _ := reg.Lookup(1)
	inst.Fill(vdev.FillSentinel)
	changed, err := insp.Digest(1)
	require.NoError(t, err)
	assert.NotEqual(t, sum, changed)

	_, err = insp.Digest(5)
	assert.ErrorIs(t, err, vdev.ErrNotFound)
}
