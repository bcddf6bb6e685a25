package wire

import (
	"syscall"
	"testing"
)

func TestCmdLayout(t *testing.T) {
	tests := []struct {
		name string
		cmd  Cmd
		want uint32
		dir  Dir
		typ  uint8
		nr   uint8
		size uint16
	}{
		{"IO", IO('V', 1), 0x00005601, DirNone, 'V', 1, 0},
		{"IOW char", IOW('V', 2, 1), 0x40015602, DirWrite, 'V', 2, 1},
		{"IOR int", IOR('V', 3, 4), 0x80045603, DirRead, 'V', 3, 4},
		{"IOWR", IOWR('X', 9, 8), 0xc0085809, DirReadWrite, 'X', 9, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if uint32(tt.cmd) != tt.want {
				t.Errorf("expected 0x%08x, got 0x%08x", tt.want, uint32(tt.cmd))
			}
			if tt.cmd.Dir() != tt.dir {
				t.Errorf("Dir() = %s, want %s", tt.cmd.Dir(), tt.dir)
			}
			if tt.cmd.Type() != tt.typ {
				t.Errorf("Type() = %d, want %d", tt.cmd.Type(), tt.typ)
			}
			if tt.cmd.Nr() != tt.nr {
				t.Errorf("Nr() = %d, want %d", tt.cmd.Nr(), tt.nr)
			}
			if tt.cmd.Size() != tt.size {
				t.Errorf("Size() = %d, want %d", tt.cmd.Size(), tt.size)
			}
		})
	}
}

func TestCmdSizeTruncated(t *testing.T) {
	cmd := IOR('V', 1, 0xffff)
	if cmd.Size() != 0x3fff {
		t.Errorf("expected size truncated to 14 bits, got 0x%x", cmd.Size())
	}
	if cmd.Type() != 'V' {
		t.Errorf("size overflow leaked into type: %d", cmd.Type())
	}
}

func TestCmdString(t *testing.T) {
	got := IOW('V', 2, 1).String()
	want := "cmd(WRITE, type='V', nr=2, size=1)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	got = IO(0x01, 7).String()
	want = "cmd(NONE, type=0x01, nr=7, size=0)"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStatusErrno(t *testing.T) {
	tests := []struct {
		status Status
		errno  syscall.Errno
		name   string
	}{
		{StatusSuccess, 0, "SUCCESS"},
		{StatusInvalidConfig, syscall.EINVAL, "INVALID_CONFIG"},
		{StatusPermissionDenied, syscall.EPERM, "PERMISSION_DENIED"},
		{StatusInvalidArgument, syscall.EINVAL, "INVALID_ARGUMENT"},
		{StatusNoSpace, syscall.ENOMEM, "NO_SPACE"},
		{StatusNotFound, syscall.ENODEV, "NOT_FOUND"},
		{StatusUnsupportedCommand, syscall.EINVAL, "UNSUPPORTED_COMMAND"},
		{StatusNotThisDevice, syscall.ENOTTY, "NOT_THIS_DEVICE"},
		{StatusBusy, syscall.EBUSY, "BUSY"},
		{StatusClosed, syscall.EBADF, "CLOSED"},
		{StatusFailure, syscall.EIO, "FAILURE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.status.Errno() != tt.errno {
				t.Errorf("Errno() = %v, want %v", tt.status.Errno(), tt.errno)
			}
			if tt.status.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.status.String(), tt.name)
			}
		})
	}

	if !StatusSuccess.IsSuccess() || StatusSuccess.IsError() {
		t.Error("StatusSuccess should be success")
	}
	if Status(42).String() != "UNKNOWN" {
		t.Errorf("expected UNKNOWN for undefined status, got %s", Status(42))
	}
}
