package smc

import "sync"

// A Transform mutates raw wire bytes in place as they arrive, before any
// framing is parsed. The canonical implementation is a stream cipher
// decrypting the byte stream (see StreamCipher); Identity leaves bytes
// untouched.
//
// A transform is stateful: the decoder applies it to every wire byte exactly
// once, in arrival order, so a keystream position advances consistently
// across length prefixes and message bodies.
type Transform interface {
	Apply(p []byte)
}

// Identity is the no-op Transform.
var Identity Transform = identity{}

type identity struct{}

func (identity) Apply(p []byte) {}

// A Handler is invoked after each message is decoded, before the next
// decode cycle starts. It receives the decoded message together with
// exclusive access to the session's transform, which lets it advance or
// replace cipher state based on message content (rekeying mid-stream).
type Handler interface {
	HandleMessage(m *Message, tr Transform)
}

// HandlerFunc adapts an ordinary function to a Handler.
type HandlerFunc func(m *Message, tr Transform)

func (f HandlerFunc) HandleMessage(m *Message, tr Transform) {
	f(m, tr)
}

// A SharedTransform owns a Transform on behalf of one decoding session and
// any caller that holds a reference to it. Every access goes through a
// reader-writer lock held only for the duration of a single apply or
// handler call, never across a read from the byte source.
type SharedTransform struct {
	mu sync.RWMutex
	tr Transform
}

// NewSharedTransform wraps tr for shared use. A nil tr means Identity.
func NewSharedTransform(tr Transform) *SharedTransform {
	if tr == nil {
		tr = Identity
	}
	return &SharedTransform{tr: tr}
}

// Apply runs the underlying transform on p under the write lock. Stream
// transforms mutate their own state on every application, so even "reads"
// of the keystream are writes.
func (s *SharedTransform) Apply(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tr.Apply(p)
}

// Set replaces the underlying transform, e.g. to install a freshly keyed
// cipher mid-session.
func (s *SharedTransform) Set(tr Transform) {
	if tr == nil {
		tr = Identity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tr = tr
}

// Do grants fn exclusive access to the underlying transform.
func (s *SharedTransform) Do(fn func(tr Transform)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.tr)
}
