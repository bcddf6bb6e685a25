package vdev

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vdevs/vdevs-go/pkg/log"
)

// Session is one open handle on an Instance. It does not own the instance.
type Session struct {
	id   string
	inst *Instance
	mode AccessMode

	// cursor and closed are guarded by inst.mu.
	cursor int64
	closed bool

	release func(*Session)
	logger  *slog.Logger
	events  log.Logger
}

// SessionOption configures a Session at open time.
type SessionOption func(*Session)

// WithLogger sets the operational logger. Nil disables logging.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithEventLogger sets the device event logger. Nil disables event logging.
func WithEventLogger(events log.Logger) SessionOption {
	return func(s *Session) {
		s.events = events
	}
}

// WithReleaseFunc registers fn to run once when the session is closed.
// fn is called without the instance lock held.
func WithReleaseFunc(fn func(*Session)) SessionOption {
	return func(s *Session) {
		s.release = fn
	}
}

// Open creates a session on inst after checking mode against the instance
// permission. The cursor starts at 0.
func Open(inst *Instance, mode AccessMode, opts ...SessionOption) (*Session, error) {
	s := &Session{
		id:   uuid.New().String(),
		inst: inst,
		mode: mode,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := CheckPermission(inst.permission, mode); err != nil {
		if s.logger != nil {
			s.logger.Info("Open unsuccessful", "node", inst.node, "mode", mode.String(), "permission", inst.permission.String())
		}
		s.emit(log.OpOpen, err, func(e *log.Event) {
			e.SessionID = ""
			e.Lifecycle = &log.LifecycleEvent{AccessMode: uint8(mode), Permission: uint8(inst.permission)}
		})
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Open successful", "node", inst.node, "mode", mode.String(), "session", s.id)
	}
	s.emit(log.OpOpen, nil, func(e *log.Event) {
		e.Lifecycle = &log.LifecycleEvent{AccessMode: uint8(mode), Permission: uint8(inst.permission)}
	})
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Instance returns the device the session is bound to.
func (s *Session) Instance() *Instance {
	return s.inst
}

// Mode returns the access mode the session was opened with.
func (s *Session) Mode() AccessMode {
	return s.mode
}

// Offset returns the current cursor.
func (s *Session) Offset() int64 {
	s.inst.mu.Lock()
	defer s.inst.mu.Unlock()
	return s.cursor
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.inst.mu.Lock()
	defer s.inst.mu.Unlock()
	return s.closed
}

// Read returns up to count bytes from the cursor and advances it by the
// number of bytes returned. At the end of the buffer it returns an empty
// slice and no error.
func (s *Session) Read(count int) ([]byte, error) {
	s.inst.mu.Lock()
	offset := s.cursor
	var data []byte
	err := s.checkOpenLocked()
	if err == nil {
		n := count
		if avail := int64(s.inst.capacity) - s.cursor; int64(n) > avail {
			n = int(avail)
		}
		if n < 0 {
			n = 0
		}
		data = s.inst.readRangeLocked(s.cursor, n)
		s.cursor += int64(len(data))
	}
	newOffset := s.cursor
	s.inst.mu.Unlock()

	s.logIO(log.OpRead, offset, int64(count), len(data), 0, newOffset, err)
	return data, err
}

// Write copies data to the cursor, clipped to the end of the buffer, and
// advances the cursor. It returns ErrNoSpace when no byte fits.
func (s *Session) Write(data []byte) (int, error) {
	s.inst.mu.Lock()
	offset := s.cursor
	var n int
	err := s.checkOpenLocked()
	if err == nil {
		n = len(data)
		if avail := int64(s.inst.capacity) - s.cursor; int64(n) > avail {
			n = int(avail)
		}
		if n <= 0 {
			n, err = 0, ErrNoSpace
		} else {
			n, err = s.inst.writeRangeLocked(s.cursor, data[:n])
			s.cursor += int64(n)
		}
	}
	newOffset := s.cursor
	s.inst.mu.Unlock()

	s.logIO(log.OpWrite, offset, int64(len(data)), n, 0, newOffset, err)
	return n, err
}

// Seek moves the cursor. whence is io.SeekStart, io.SeekCurrent or
// io.SeekEnd; io.SeekEnd is relative to the capacity. A target outside
// [0, capacity] fails with ErrInvalidArgument and leaves the cursor alone.
func (s *Session) Seek(offset int64, whence int) (int64, error) {
	s.inst.mu.Lock()
	old := s.cursor
	err := s.checkOpenLocked()
	if err == nil {
		var target int64
		limit := int64(s.inst.capacity)
		switch whence {
		case io.SeekStart:
			target = offset
		case io.SeekCurrent:
			target = s.cursor + offset
		case io.SeekEnd:
			target = limit + offset
		default:
			err = ErrInvalidArgument
		}
		if err == nil && (target < 0 || target > limit) {
			err = ErrInvalidArgument
		}
		if err == nil {
			s.cursor = target
		}
	}
	newOffset := s.cursor
	s.inst.mu.Unlock()

	s.logIO(log.OpSeek, old, offset, 0, whence, newOffset, err)
	if err != nil {
		return old, err
	}
	return newOffset, nil
}

// Close releases the session. The buffer is not touched. Closing twice is
// a no-op.
func (s *Session) Close() error {
	s.inst.mu.Lock()
	if s.closed {
		s.inst.mu.Unlock()
		return nil
	}
	s.closed = true
	s.inst.mu.Unlock()

	if s.release != nil {
		s.release(s)
	}
	if s.logger != nil {
		s.logger.Debug("Session closed", "node", s.inst.node, "session", s.id)
	}
	s.emit(log.OpClose, nil, func(e *log.Event) {
		e.Lifecycle = &log.LifecycleEvent{AccessMode: uint8(s.mode)}
	})
	return nil
}

func (s *Session) checkOpenLocked() error {
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}

func (s *Session) logIO(op log.Op, offset, requested int64, transferred, whence int, newOffset int64, err error) {
	if s.logger != nil {
		if err != nil {
			s.logger.Debug(op.String()+" failed", "node", s.inst.node, "position", offset, "error", err)
		} else {
			s.logger.Debug(op.String(),
				"node", s.inst.node,
				"requested", requested,
				"transferred", transferred,
				"position", newOffset)
		}
	}
	s.emit(op, err, func(e *log.Event) {
		e.IO = &log.IOEvent{
			Offset:      offset,
			Requested:   requested,
			Transferred: transferred,
			Whence:      whence,
			NewOffset:   newOffset,
		}
	})
}

// emit builds and sends an event if an event logger is configured.
func (s *Session) emit(op log.Op, err error, fill func(*log.Event)) {
	if s.events == nil {
		return
	}
	status := StatusOf(err)
	e := log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		DeviceID:  s.inst.id,
		Node:      s.inst.node,
		Category:  op.DefaultCategory(),
		Op:        op,
		Status:    status,
		Error:     log.NewErrorData(status, err),
	}
	if err != nil {
		e.Category = log.CategoryError
	}
	if fill != nil {
		fill(&e)
	}
	s.events.Log(e)
}
