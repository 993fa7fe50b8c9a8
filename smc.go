// Package smc implements simple message channels, a binary framing
// protocol that multiplexes independent logical channels and message types
// over a single ordered byte stream.
//
// Each frame is a varint length prefix followed by a varint header packing
// a channel number with a 4-bit type, followed by an opaque payload. The
// protocol only frames and labels payloads; acknowledgement, flow control
// and channel lifecycle are the caller's concern, as are the transport,
// the cipher choice and any handshake.
package smc

import (
	"bufio"
	"io"
	"net"
	"net/textproto"
)

// A Conn represents a message channel connection. It consists of a Decoder
// and Writer to manage I/O and a Pipeline (which is borrowed from
// textproto) to sequence concurrent requests on the connection.
type Conn struct {
	*Decoder
	*Writer
	textproto.Pipeline
	conn io.ReadWriteCloser
}

// NewConn returns a new Conn using conn for I/O. WithTransform and
// WithWriteTransform configure the inbound and outbound byte transforms
// independently, since each direction of an encrypted session keeps its own
// keystream.
func NewConn(conn io.ReadWriteCloser, opt ...Option) *Conn {
	opts := makeOptions(opt)
	return &Conn{
		Decoder: newDecoder(conn, opts),
		Writer:  &Writer{wd: bufio.NewWriter(conn), transform: opts.writeTransform},
		conn:    conn,
	}
}

// Send is a convenience method that sends a variable number of messages
// after waiting its turn in the pipeline.
// Send returns the id of the request, for use with StartResponse and
// EndResponse.
func (c *Conn) Send(m ...*Message) (id uint, err error) {
	id = c.Next()
	c.StartRequest(id)
	err = c.WriteMessage(m...)
	c.EndRequest(id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// Dial connects to the given address on the given network using net.Dial
// and then returns a new Conn for the connection.
func Dial(network, addr string, opt ...Option) (*Conn, error) {
	c, err := net.Dial(network, addr)
	if err != nil {
		return nil, err
	}
	return NewConn(c, opt...), nil
}
