package vdev

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/vdevs/vdevs-go/pkg/log"
	"github.com/vdevs/vdevs-go/pkg/wire"
)

// recordingLogger collects events for assertions.
type recordingLogger struct {
	events []log.Event
}

func (r *recordingLogger) Log(e log.Event) {
	r.events = append(r.events, e)
}

func (r *recordingLogger) last() log.Event {
	if len(r.events) == 0 {
		return log.Event{}
	}
	return r.events[len(r.events)-1]
}

func openTestSession(t *testing.T, inst *Instance, mode AccessMode, opts ...SessionOption) *Session {
	t.Helper()
	s, err := Open(inst, mode, opts...)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func TestWriteSeekReadScenario(t *testing.T) {
	inst := newTestInstance(t, 8, PermReadWrite)
	s := openTestSession(t, inst, ModeWrite)

	n, err := s.Write([]byte("HELLO"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != 5 {
		t.Errorf("Write returned %d, want 5", n)
	}
	if s.Offset() != 5 {
		t.Errorf("cursor = %d, want 5", s.Offset())
	}

	pos, err := s.Seek(0, io.SeekStart)
	if err != nil || pos != 0 {
		t.Fatalf("Seek(0, Start) = %d, %v", pos, err)
	}

	data, err := s.Read(8)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	want := []byte{'H', 'E', 'L', 'L', 'O', 0, 0, 0}
	if !bytes.Equal(data, want) {
		t.Errorf("Read = %q, want %q", data, want)
	}
	if s.Offset() != 8 {
		t.Errorf("cursor = %d, want 8", s.Offset())
	}
}

func TestRoundTrip(t *testing.T) {
	inst := newTestInstance(t, 64, PermReadWrite)
	s := openTestSession(t, inst, ModeReadWrite)

	for _, n := range []int{1, 7, 32, 64} {
		payload := bytes.Repeat([]byte{byte(n)}, n)
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			t.Fatalf("Seek failed: %v", err)
		}
		if written, err := s.Write(payload); err != nil || written != n {
			t.Fatalf("Write(%d) = %d, %v", n, written, err)
		}
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			t.Fatalf("Seek failed: %v", err)
		}
		got, err := s.Read(n)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("round trip of %d bytes mismatched", n)
		}
	}
}

func TestOpenPermissionDenied(t *testing.T) {
	inst := newTestInstance(t, 8, PermReadOnly)

	s, err := Open(inst, ModeReadWrite)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}
	if s != nil {
		t.Error("expected nil session")
	}

	if _, err := Open(inst, ModeRead); err != nil {
		t.Errorf("read-only open should succeed: %v", err)
	}
}

func TestSessionIDsUnique(t *testing.T) {
	inst := newTestInstance(t, 8, PermReadWrite)
	a := openTestSession(t, inst, ModeRead)
	b := openTestSession(t, inst, ModeRead)

	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("session IDs not unique: %q %q", a.ID(), b.ID())
	}
	if a.Instance() != inst || a.Mode() != ModeRead {
		t.Error("session accessors do not reflect open arguments")
	}
}

func TestReadAtEndIsNotError(t *testing.T) {
	inst := newTestInstance(t, 4, PermReadWrite)
	s := openTestSession(t, inst, ModeRead)

	if _, err := s.Seek(0, io.SeekEnd); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	data, err := s.Read(10)
	if err != nil {
		t.Errorf("Read at end returned error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Read at end returned %d bytes", len(data))
	}
	if s.Offset() != 4 {
		t.Errorf("cursor moved to %d", s.Offset())
	}

	data, err = s.Read(0)
	if err != nil || len(data) != 0 {
		t.Errorf("Read(0) at end = %q, %v", data, err)
	}
}

func TestReadClipsAndNegativeCount(t *testing.T) {
	inst := newTestInstance(t, 6, PermReadWrite)
	s := openTestSession(t, inst, ModeReadWrite)

	if _, err := s.Seek(4, io.SeekStart); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	data, err := s.Read(100)
	if err != nil || len(data) != 2 {
		t.Errorf("Read(100) at 4 = %d bytes, %v; want 2", len(data), err)
	}

	if _, err := s.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	data, err = s.Read(-5)
	if err != nil || len(data) != 0 {
		t.Errorf("Read(-5) = %d bytes, %v", len(data), err)
	}
	if s.Offset() != 0 {
		t.Errorf("cursor moved on negative read: %d", s.Offset())
	}
}

func TestWriteBoundary(t *testing.T) {
	inst := newTestInstance(t, 10, PermReadWrite)
	s := openTestSession(t, inst, ModeWrite)

	if _, err := s.Seek(7, io.SeekStart); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	// capacity - cursor + 1 bytes are clipped to capacity - cursor
	n, err := s.Write([]byte("abcd"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Write returned %d, want 3", n)
	}
	if s.Offset() != 10 {
		t.Errorf("cursor = %d, want 10", s.Offset())
	}

	n, err = s.Write([]byte("x"))
	if !errors.Is(err, ErrNoSpace) {
		t.Errorf("expected ErrNoSpace at capacity, got %v", err)
	}
	if n != 0 {
		t.Errorf("Write at capacity returned %d", n)
	}
	if s.Offset() != 10 {
		t.Errorf("cursor moved after failed write: %d", s.Offset())
	}
}

func TestWriteEmptyIsNoSpace(t *testing.T) {
	inst := newTestInstance(t, 4, PermReadWrite)
	s := openTestSession(t, inst, ModeWrite)

	if _, err := s.Write(nil); !errors.Is(err, ErrNoSpace) {
		t.Errorf("expected ErrNoSpace for empty write, got %v", err)
	}
}

func TestSeek(t *testing.T) {
	tests := []struct {
		name    string
		start   int64
		offset  int64
		whence  int
		want    int64
		wantErr bool
	}{
		{"start zero", 2, 0, io.SeekStart, 0, false},
		{"start capacity", 0, 4, io.SeekStart, 4, false},
		{"start past capacity", 1, 5, io.SeekStart, 1, true},
		{"start negative", 1, -1, io.SeekStart, 1, true},
		{"current forward", 1, 2, io.SeekCurrent, 3, false},
		{"current backward", 3, -3, io.SeekCurrent, 0, false},
		{"current before start", 1, -2, io.SeekCurrent, 1, true},
		{"current past end", 3, 2, io.SeekCurrent, 3, true},
		{"end minus two", 0, -2, io.SeekEnd, 2, false},
		{"end exactly", 0, 0, io.SeekEnd, 4, false},
		{"end plus one", 2, 1, io.SeekEnd, 2, true},
		{"end before start", 2, -5, io.SeekEnd, 2, true},
		{"bad whence", 2, 0, 7, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := newTestInstance(t, 4, PermReadWrite)
			s := openTestSession(t, inst, ModeReadWrite)
			if _, err := s.Seek(tt.start, io.SeekStart); err != nil {
				t.Fatalf("initial Seek failed: %v", err)
			}

			got, err := s.Seek(tt.offset, tt.whence)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Seek returned %d, want %d", got, tt.want)
			}
			if s.Offset() != tt.want {
				t.Errorf("cursor = %d, want %d", s.Offset(), tt.want)
			}
		})
	}
}

func TestSeekIgnoresDataLen(t *testing.T) {
	inst := newTestInstance(t, 16, PermReadWrite)
	s := openTestSession(t, inst, ModeReadWrite)
	_, _ = s.Write([]byte("abc"))

	pos, err := s.Seek(-1, io.SeekEnd)
	if err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	if pos != 15 {
		t.Errorf("SeekEnd is relative to capacity: got %d, want 15", pos)
	}
}

func TestSessionsHaveIndependentCursors(t *testing.T) {
	inst := newTestInstance(t, 8, PermReadWrite)
	a := openTestSession(t, inst, ModeReadWrite)
	b := openTestSession(t, inst, ModeReadWrite)

	_, _ = a.Write([]byte("abcd"))
	if b.Offset() != 0 {
		t.Errorf("second session cursor moved to %d", b.Offset())
	}

	data, _ := b.Read(4)
	if string(data) != "abcd" {
		t.Errorf("second session read %q", data)
	}
}

func TestClose(t *testing.T) {
	inst := newTestInstance(t, 8, PermReadWrite)

	released := 0
	s := openTestSession(t, inst, ModeReadWrite, WithReleaseFunc(func(*Session) { released++ }))
	_, _ = s.Write([]byte("keep"))

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if released != 1 {
		t.Errorf("release ran %d times, want 1", released)
	}
	if !s.Closed() {
		t.Error("Closed() = false after Close")
	}

	if _, err := s.Read(1); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Read after close: %v", err)
	}
	if _, err := s.Write([]byte("x")); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Write after close: %v", err)
	}
	if _, err := s.Seek(0, io.SeekStart); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Seek after close: %v", err)
	}

	if got := inst.ReadRange(0, 4); string(got) != "keep" {
		t.Errorf("Close changed the buffer: %q", got)
	}
}

func TestSessionEvents(t *testing.T) {
	inst := newTestInstance(t, 4, PermReadWrite)
	rec := &recordingLogger{}
	s := openTestSession(t, inst, ModeReadWrite, WithEventLogger(rec))

	open := rec.last()
	if open.Op != log.OpOpen || open.Category != log.CategoryLifecycle || open.SessionID != s.ID() {
		t.Errorf("open event = %+v", open)
	}

	_, _ = s.Write([]byte("abcdef"))
	w := rec.last()
	if w.Op != log.OpWrite || w.IO == nil {
		t.Fatalf("write event = %+v", w)
	}
	if w.IO.Requested != 6 || w.IO.Transferred != 4 || w.IO.NewOffset != 4 {
		t.Errorf("write IO = %+v", *w.IO)
	}

	_, _ = s.Write([]byte("x"))
	fail := rec.last()
	if fail.Category != log.CategoryError || fail.Status != wire.StatusNoSpace || fail.Error == nil {
		t.Errorf("failed write event = %+v", fail)
	}

	_ = s.Close()
	if rec.last().Op != log.OpClose {
		t.Errorf("close event = %+v", rec.last())
	}
}

func TestOpenDeniedEvent(t *testing.T) {
	inst := newTestInstance(t, 4, PermWriteOnly)
	rec := &recordingLogger{}

	if _, err := Open(inst, ModeRead, WithEventLogger(rec)); err == nil {
		t.Fatal("expected open to fail")
	}
	if len(rec.events) != 1 {
		t.Fatalf("got %d events, want 1", len(rec.events))
	}
	e := rec.events[0]
	if e.Status != wire.StatusPermissionDenied || e.SessionID != "" || e.Category != log.CategoryError {
		t.Errorf("denied event = %+v", e)
	}
}
