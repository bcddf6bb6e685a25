package log

import (
	"errors"
	"testing"
	"time"

	"github.com/vdevs/vdevs-go/pkg/wire"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	event := Event{
		Timestamp: time.Now(),
		DeviceID:  1,
		Node:      "vDev-1",
		Category:  CategoryIO,
		Op:        OpRead,
	}
	logger.Log(event)

	event.IO = &IOEvent{Offset: 0, Requested: 8, Transferred: 8, NewOffset: 8}
	logger.Log(event)

	event.IO = nil
	event.Control = &ControlEvent{Cmd: wire.IO('V', 1)}
	logger.Log(event)

	event.Control = nil
	event.Error = NewErrorData(wire.StatusNoSpace, errors.New("no space"))
	logger.Log(event)
}

func TestLoggerInterfaceSatisfaction(t *testing.T) {
	var _ Logger = NoopLogger{}
	var _ Logger = &NoopLogger{}
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}

func TestLoggerFunc(t *testing.T) {
	var got []Op
	logger := LoggerFunc(func(e Event) { got = append(got, e.Op) })

	logger.Log(Event{Op: OpOpen})
	logger.Log(Event{Op: OpClose})

	if len(got) != 2 || got[0] != OpOpen || got[1] != OpClose {
		t.Errorf("got %v, want [OPEN CLOSE]", got)
	}
}
