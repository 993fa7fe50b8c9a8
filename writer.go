package smc

import (
	"bufio"
	"encoding/binary"
)

// A Writer implements convenience methods for writing messages to a binary
// protocol connection. An optional Transform is applied to the encoded
// frame bytes before they are written, mirroring the decoder's
// decrypt-before-parse order on the receiving side.
type Writer struct {
	wd        *bufio.Writer
	transform *SharedTransform
}

// NewWriter returns a new Writer writing to wd. WithTransform installs the
// outbound byte transform.
func NewWriter(wd *bufio.Writer, opt ...Option) *Writer {
	opts := makeOptions(opt)
	return &Writer{wd: wd, transform: opts.transform}
}

// WriteMessage encodes, transforms and writes a variable number of
// messages, then flushes.
func (w *Writer) WriteMessage(messages ...*Message) error {
	var (
		frame []byte
		err   error
	)
	if len(messages) == 1 {
		frame, err = messages[0].Encode()
	} else {
		frame, err = encodeBatch(messages)
	}
	if err != nil {
		return err
	}

	w.transform.Apply(frame)

	if _, err := w.wd.Write(frame); err != nil {
		return err
	}

	return w.wd.Flush()
}

// encodeBatch packs multiple frames into a single buffer so they go out in
// one write.
func encodeBatch(items []*Message) ([]byte, error) {
	var length int
	for _, v := range items {
		// 16 is >= the combined max size of the two varints
		length += 16 + len(v.Payload)
	}

	frame := make([]byte, length)
	offset := 0

	for _, v := range items {
		if v.Channel > MaxChannel {
			return nil, ErrChannelOverflow
		}

		header := v.Channel<<4 | uint64(v.Type&0xF)
		l := uint64(len(v.Payload) + encodingLength(header))

		offset += binary.PutUvarint(frame[offset:], l)
		offset += binary.PutUvarint(frame[offset:], header)

		copy(frame[offset:], v.Payload)

		offset += len(v.Payload)
	}

	return frame[:offset], nil
}
