package smc

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

const (
	minReadBufferSize = 16
	defaultBufSize    = 4096

	// DefaultMaxMessageSize bounds the body length of a single frame.
	DefaultMaxMessageSize = 8 * 1024 * 1024

	// A 64-bit value never needs more than 10 varint bytes.
	maxVarintLen = 10
)

// ErrMessageSizeExceeded is returned when a frame's length prefix exceeds
// the decoder's maximum message size. The check runs while the prefix is
// still accumulating, so a stream that never terminates the varint fails
// early instead of being read indefinitely.
var ErrMessageSizeExceeded = errors.New("smc: message too big")

// A Decoder incrementally reconstructs Messages from a continuous byte
// stream. It never buffers more than one frame: each ReadMessage call reads
// the length prefix one byte at a time, then exactly the announced number
// of body bytes. An optional Transform is applied to every wire byte in
// arrival order before any parsing, so a stream cipher's keystream stays
// aligned with the encrypting peer.
//
// A Decoder is single-use. Once ReadMessage returns an error, including a
// clean io.EOF, the decoder is exhausted and every subsequent call returns
// the same error. Decoding a new stream means constructing a new Decoder.
type Decoder struct {
	rd        *bufio.Reader
	transform *SharedTransform
	handler   Handler
	max       uint64
	err       error
}

// NewDecoder returns a Decoder reading from rd.
func NewDecoder(rd io.Reader, opt ...Option) *Decoder {
	return newDecoder(rd, makeOptions(opt))
}

func newDecoder(rd io.Reader, opts options) *Decoder {
	return &Decoder{
		rd:        bufio.NewReaderSize(rd, opts.bufferSize),
		transform: opts.transform,
		handler:   opts.handler,
		max:       opts.maxMessageSize,
	}
}

// ReadMessage blocks until the next complete message has arrived and
// returns it. Messages are produced in strict arrival order: the previous
// message's handler has returned before the next frame is touched.
//
// io.EOF on a frame boundary is a clean end of stream. EOF inside a frame
// surfaces as io.ErrUnexpectedEOF. All errors are terminal.
func (d *Decoder) ReadMessage() (*Message, error) {
	if d.err != nil {
		return nil, d.err
	}
	m, err := d.decode()
	if err != nil {
		d.err = err
		return nil, err
	}
	return m, nil
}

func (d *Decoder) decode() (*Message, error) {
	length, err := d.readLength()
	if err != nil {
		return nil, err
	}

	body := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(d.rd, body); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		d.transform.Apply(body)
	}

	m, err := DecodeMessage(body)
	if err != nil {
		return nil, err
	}

	if d.handler != nil {
		d.transform.Do(func(tr Transform) {
			d.handler.HandleMessage(m, tr)
		})
	}

	return m, nil
}

// readLength accumulates the frame's length-prefix varint one byte at a
// time, pushing each byte through the transform before interpreting it.
func (d *Decoder) readLength() (int, error) {
	var (
		varint uint64
		factor uint64 = 1
		buf    [1]byte
		n      int
	)
	for {
		b, err := d.rd.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && n > 0 {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		buf[0] = b
		d.transform.Apply(buf[:])
		n++

		varint += uint64(buf[0]&127) * factor
		if varint > d.max {
			return 0, ErrMessageSizeExceeded
		}
		if buf[0] < 128 {
			return int(varint), nil
		}
		if n == maxVarintLen {
			return 0, ErrMessageMalformed
		}
		factor *= 128
	}
}
