package smc

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// MaxChannel is the largest channel number that fits in a frame header.
// The header packs the channel above a 4-bit type, leaving 60 bits.
const MaxChannel = 1<<60 - 1

var (
	// ErrChannelOverflow is returned when encoding a message whose channel
	// exceeds MaxChannel.
	ErrChannelOverflow = errors.New("smc: channel out of range")
	// ErrMessageMalformed is returned when a frame body is too short to
	// contain its header varint.
	ErrMessageMalformed = errors.New("smc: message malformed")
)

// A Message is a single unit of communication: an opaque payload labeled
// with a channel number and a 4-bit type.
//
// Messages are independent of each other; the protocol only frames and
// labels them. A message is immutable once constructed.
type Message struct {
	Channel uint64
	Type    uint8
	Payload []byte
}

// NewMessage returns a new Message. Only the low 4 bits of typ survive
// encoding; values >= 16 are truncated, not rejected.
func NewMessage(channel uint64, typ uint8, payload []byte) *Message {
	return &Message{
		Channel: channel,
		Type:    typ,
		Payload: payload,
	}
}

// Encode returns the self-delimiting wire frame for m:
//
//	varint(body length) varint(channel<<4 | type&0xF) payload
//
// where the body length covers the header varint plus the payload. A reader
// that decodes the leading varint knows exactly how many bytes complete the
// frame. Encode fails only when Channel exceeds MaxChannel.
func (m *Message) Encode() ([]byte, error) {
	if m.Channel > MaxChannel {
		return nil, ErrChannelOverflow
	}

	header := m.Channel<<4 | uint64(m.Type&0xF)
	length := len(m.Payload) + encodingLength(header)
	frame := make([]byte, encodingLength(uint64(length))+length)

	n := binary.PutUvarint(frame, uint64(length))
	n += binary.PutUvarint(frame[n:], header)
	copy(frame[n:], m.Payload)

	return frame, nil
}

// DecodeMessage parses a frame body into a Message. buf must hold a
// complete body with the outer length prefix already stripped: the header
// varint followed by the payload. The payload is copied out of buf.
func DecodeMessage(buf []byte) (*Message, error) {
	header, n, err := uvarint(buf)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, len(buf)-n)
	copy(payload, buf[n:])
	return &Message{
		Channel: header >> 4,
		Type:    uint8(header & 0b1111),
		Payload: payload,
	}, nil
}
