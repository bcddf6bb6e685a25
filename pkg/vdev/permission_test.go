package vdev

import (
	"errors"
	"testing"
)

func TestCheckPermission(t *testing.T) {
	tests := []struct {
		perm Permission
		mode AccessMode
		ok   bool
	}{
		{PermReadWrite, ModeRead, true},
		{PermReadWrite, ModeWrite, true},
		{PermReadWrite, ModeReadWrite, true},
		{PermReadOnly, ModeRead, true},
		{PermReadOnly, ModeWrite, false},
		{PermReadOnly, ModeReadWrite, false},
		{PermWriteOnly, ModeWrite, true},
		{PermWriteOnly, ModeRead, false},
		{PermWriteOnly, ModeReadWrite, false},
		{PermReadOnly, AccessMode(0), false},
		{PermWriteOnly, AccessMode(0), false},
		{Permission(0), ModeRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.perm.String()+"/"+tt.mode.String(), func(t *testing.T) {
			err := CheckPermission(tt.perm, tt.mode)
			if tt.ok && err != nil {
				t.Errorf("expected allowed, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrPermissionDenied) {
				t.Errorf("expected ErrPermissionDenied, got %v", err)
			}
		})
	}
}

func TestParsePermission(t *testing.T) {
	tests := []struct {
		in   string
		want Permission
	}{
		{"rdonly", PermReadOnly},
		{"RDONLY", PermReadOnly},
		{"1", PermReadOnly},
		{"wronly", PermWriteOnly},
		{"wo", PermWriteOnly},
		{"2", PermWriteOnly},
		{"rdwr", PermReadWrite},
		{" rw ", PermReadWrite},
		{"3", PermReadWrite},
	}

	for _, tt := range tests {
		got, err := ParsePermission(tt.in)
		if err != nil {
			t.Errorf("ParsePermission(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePermission(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParsePermission("exec"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown permission, got %v", err)
	}
}

func TestParseAccessMode(t *testing.T) {
	tests := []struct {
		in   string
		want AccessMode
	}{
		{"r", ModeRead},
		{"O_RDONLY", ModeRead},
		{"w", ModeWrite},
		{"write", ModeWrite},
		{"rw", ModeReadWrite},
		{"rdwr", ModeReadWrite},
	}

	for _, tt := range tests {
		got, err := ParseAccessMode(tt.in)
		if err != nil {
			t.Errorf("ParseAccessMode(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAccessMode(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseAccessMode("x"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestPermissionString(t *testing.T) {
	tests := []struct {
		perm Permission
		want string
	}{
		{PermReadOnly, "RDONLY"},
		{PermWriteOnly, "WRONLY"},
		{PermReadWrite, "RDWR"},
		{Permission(7), "Permission(7)"},
	}
	for _, tt := range tests {
		if got := tt.perm.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestAccessModeString(t *testing.T) {
	if ModeRead.String() != "r" || ModeWrite.String() != "w" || ModeReadWrite.String() != "rw" {
		t.Errorf("unexpected mode strings: %s %s %s", ModeRead, ModeWrite, ModeReadWrite)
	}
	if AccessMode(0).String() != "-" {
		t.Errorf("empty mode = %q", AccessMode(0).String())
	}
}
