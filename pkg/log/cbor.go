package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Event records are small maps with integer keys. The limits below bound
// what a decoder accepts from a .vlog file written by someone else.
const (
	maxEventNesting = 4
	maxEventPairs   = 32
)

var (
	eventEncMode cbor.EncMode
	eventDecMode cbor.DecMode
)

func init() {
	var err error
	eventEncMode, eventDecMode, err = newEventModes()
	if err != nil {
		panic(fmt.Sprintf("log: %v", err))
	}
}

// newEventModes builds the codec modes for event records: canonical map
// order, RFC 3339 timestamps with nanoseconds, and bounded decoding.
func newEventModes() (cbor.EncMode, cbor.DecMode, error) {
	enc, err := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		return nil, nil, fmt.Errorf("event encoder mode: %w", err)
	}

	dec, err := cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		IndefLength:     cbor.IndefLengthForbidden,
		MaxNestedLevels: maxEventNesting,
		MaxMapPairs:     maxEventPairs,
	}.DecMode()
	if err != nil {
		return nil, nil, fmt.Errorf("event decoder mode: %w", err)
	}
	return enc, dec, nil
}

// EncodeEvent returns the CBOR record for event.
func EncodeEvent(event Event) ([]byte, error) {
	return eventEncMode.Marshal(event)
}

// DecodeEvent parses a single CBOR record.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := eventDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return event, nil
}

// NewEncoder returns a stream encoder writing back-to-back event records.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return eventEncMode.NewEncoder(w)
}

// NewDecoder returns a stream decoder for back-to-back event records.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return eventDecMode.NewDecoder(r)
}
