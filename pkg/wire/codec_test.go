package wire

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Interface: "1.0",
		Taken:     time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC),
		Devices: []DeviceInfo{
			{ID: 0, Node: "vDev-0", Capacity: 8, Permission: 3, DataLen: 5, OpenSessions: 1},
			{ID: 2, Node: "vDev-2", SerialNumber: "VDEV-CX-3333", Capacity: 128, Permission: 1},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	want := testSnapshot()

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, want); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	got, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}

	if got.Interface != want.Interface || !got.Taken.Equal(want.Taken) {
		t.Errorf("header = %q %v, want %q %v", got.Interface, got.Taken, want.Interface, want.Taken)
	}
	if len(got.Devices) != len(want.Devices) {
		t.Fatalf("got %d devices, want %d", len(got.Devices), len(want.Devices))
	}
	for i := range want.Devices {
		if got.Devices[i] != want.Devices[i] {
			t.Errorf("device %d = %+v, want %+v", i, got.Devices[i], want.Devices[i])
		}
	}
}

func TestSnapshotIntegerKeys(t *testing.T) {
	data, err := EncodeSnapshot(testSnapshot())
	if err != nil {
		t.Fatalf("EncodeSnapshot failed: %v", err)
	}
	for _, name := range []string{"Capacity", "Devices", "Interface"} {
		if bytes.Contains(data, []byte(name)) {
			t.Errorf("found field name %q in encoding", name)
		}
	}
}

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"missing interface", func(s *Snapshot) { s.Interface = "" }},
		{"zero capacity", func(s *Snapshot) { s.Devices[0].Capacity = 0 }},
		{"data beyond capacity", func(s *Snapshot) { s.Devices[0].DataLen = 9 }},
		{"negative data", func(s *Snapshot) { s.Devices[0].DataLen = -1 }},
		{"bad permission", func(s *Snapshot) { s.Devices[1].Permission = 7 }},
		{"duplicate id", func(s *Snapshot) { s.Devices[1].ID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSnapshot()
			tt.mutate(s)
			if _, err := EncodeSnapshot(s); !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("EncodeSnapshot error = %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}

func TestDecodeSnapshotRejectsInvalid(t *testing.T) {
	bad := testSnapshot()
	bad.Devices[0].DataLen = 100
	data, err := snapEncMode.Marshal(bad)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeSnapshot(data); !errors.Is(err, ErrInvalidSnapshot) {
		t.Errorf("DecodeSnapshot error = %v, want ErrInvalidSnapshot", err)
	}
}

func TestDecodeSnapshotGarbage(t *testing.T) {
	if _, err := DecodeSnapshot([]byte{0xff, 0x00}); err == nil {
		t.Error("expected decode error for garbage input")
	}
	if _, err := ReadSnapshot(bytes.NewReader(nil)); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestEmptySnapshot(t *testing.T) {
	data, err := EncodeSnapshot(&Snapshot{Interface: "1.0"})
	if err != nil {
		t.Fatalf("EncodeSnapshot failed: %v", err)
	}
	got, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}
	if len(got.Devices) != 0 {
		t.Errorf("got %d devices, want 0", len(got.Devices))
	}
}
