package vdev

import (
	"github.com/vdevs/vdevs-go/pkg/log"
	"github.com/vdevs/vdevs-go/pkg/wire"
)

// Magic is the command family tag of this driver.
const Magic uint8 = 'V'

// Control commands.
var (
	// CmdFillZero fills the buffer with FillSentinel, resets the data
	// length and rewinds the calling session.
	CmdFillZero = wire.IO(Magic, 1)

	// CmdFillChar takes a one-byte argument. It is accepted and has no
	// effect.
	CmdFillChar = wire.IOW(Magic, 2, 1)
)

// SupportedCommands returns the commands Ioctl accepts.
func SupportedCommands() []wire.Cmd {
	return []wire.Cmd{CmdFillZero, CmdFillChar}
}

// FillSentinel is the byte CmdFillZero writes. The command name promises
// zeros but the driver has always filled with 'A'; callers depend on the
// observed value.
const FillSentinel byte = 'A'

// Ioctl executes a control command against the session's device.
func (s *Session) Ioctl(cmd wire.Cmd, arg uintptr) error {
	var err error
	if cmd.Type() != Magic {
		err = ErrNotThisDevice
	} else {
		switch cmd {
		case CmdFillZero:
			err = s.fillZero()
		case CmdFillChar:
			err = s.checkOpen()
		default:
			err = ErrUnsupportedCommand
		}
	}

	offset := s.Offset()
	if s.logger != nil {
		if err != nil {
			s.logger.Warn("ioctl failed", "node", s.inst.node, "cmd", cmd.String(), "error", err)
		} else {
			s.logger.Info("ioctl", "node", s.inst.node, "cmd", cmd.String())
		}
	}
	s.emit(log.OpIoctl, err, func(e *log.Event) {
		e.Control = &log.ControlEvent{Cmd: cmd, Arg: uint64(arg), NewOffset: offset}
	})
	return err
}

func (s *Session) fillZero() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := CheckPermission(s.inst.permission, s.mode); err != nil {
		return err
	}
	if s.inst.buffer == nil || s.inst.capacity == 0 {
		return ErrInvalidConfig
	}

	s.inst.mu.Lock()
	defer s.inst.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.inst.fillLocked(FillSentinel)
	s.cursor = 0
	return nil
}

func (s *Session) checkOpen() error {
	s.inst.mu.Lock()
	defer s.inst.mu.Unlock()
	return s.checkOpenLocked()
}
