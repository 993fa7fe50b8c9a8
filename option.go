package smc

// options holds the configuration for a decoder, writer or connection.
type options struct {
	bufferSize     int
	maxMessageSize uint64
	transform      *SharedTransform
	writeTransform *SharedTransform
	handler        Handler
}

// An Option configures a Decoder, Writer or Conn.
type Option func(*options)

func makeOptions(opt []Option) options {
	opts := options{
		bufferSize:     defaultBufSize,
		maxMessageSize: DefaultMaxMessageSize,
	}
	for _, o := range opt {
		o(&opts)
	}
	if opts.bufferSize < minReadBufferSize {
		opts.bufferSize = minReadBufferSize
	}
	if opts.transform == nil {
		opts.transform = NewSharedTransform(nil)
	}
	if opts.writeTransform == nil {
		opts.writeTransform = NewSharedTransform(nil)
	}
	return opts
}

// WithTransform installs tr as the byte transform of the component being
// constructed: inbound bytes for a Decoder or Conn, outbound frames for a
// standalone Writer.
func WithTransform(tr Transform) Option {
	return func(o *options) {
		o.transform = NewSharedTransform(tr)
	}
}

// WithSharedTransform installs an existing SharedTransform, letting a
// caller keep a reference for rekeying from outside the decode cycle.
func WithSharedTransform(s *SharedTransform) Option {
	return func(o *options) {
		o.transform = s
	}
}

// WithWriteTransform installs tr as the byte transform for the write
// direction of a Conn (applied to encoded frames before they hit the wire).
func WithWriteTransform(tr Transform) Option {
	return func(o *options) {
		o.writeTransform = NewSharedTransform(tr)
	}
}

// WithSharedWriteTransform installs an existing SharedTransform for the
// write direction of a Conn, e.g. to swap a cipher in once a handshake
// completes.
func WithSharedWriteTransform(s *SharedTransform) Option {
	return func(o *options) {
		o.writeTransform = s
	}
}

// WithHandler installs the post-decode callback. The handler runs after
// every decoded message, before the next decode cycle starts, with
// exclusive access to the transform.
func WithHandler(h Handler) Option {
	return func(o *options) {
		o.handler = h
	}
}

// WithMaxMessageSize overrides DefaultMaxMessageSize as the bound on a
// single frame's body length.
func WithMaxMessageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxMessageSize = uint64(n)
		}
	}
}

// WithBufferSize sets the size of the read buffer in front of the byte
// source. Values below the minimum of 16 are raised to it.
func WithBufferSize(size int) Option {
	return func(o *options) {
		o.bufferSize = size
	}
}
