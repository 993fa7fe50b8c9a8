package smc

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20"
)

// Key and nonce sizes for StreamCipher, in bytes.
const (
	KeySize   = chacha20.KeySize
	NonceSize = chacha20.NonceSize
)

// A StreamCipher is a Transform that XORs wire bytes with a ChaCha20
// keystream in place. Both peers of an encrypted session construct one per
// direction from the same key and nonce; because the decoder applies the
// transform to every byte exactly once in arrival order, the keystream
// positions stay aligned with the encrypting writer.
type StreamCipher struct {
	cipher *chacha20.Cipher
}

// NewStreamCipher returns a StreamCipher keyed with a KeySize-byte key and
// a NonceSize-byte nonce.
func NewStreamCipher(key, nonce []byte) (*StreamCipher, error) {
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, errors.Wrap(err, "smc: invalid cipher parameters")
	}
	return &StreamCipher{cipher: c}, nil
}

// Apply XORs p with the next len(p) keystream bytes.
func (s *StreamCipher) Apply(p []byte) {
	s.cipher.XORKeyStream(p, p)
}

// Rekey restarts the keystream with a new key and nonce. Call it from a
// post-decode Handler (which holds the transform exclusively) to switch
// keys between messages without racing the decoder.
func (s *StreamCipher) Rekey(key, nonce []byte) error {
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return errors.Wrap(err, "smc: invalid cipher parameters")
	}
	s.cipher = c
	return nil
}
