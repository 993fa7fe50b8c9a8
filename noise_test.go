package smc_test

import (
	"net"
	"testing"

	"github.com/flynn/noise"
	"github.com/onur1/smc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Handshake and session setup live outside the protocol core: a caller runs
// whatever key agreement it wants over plaintext frames, then installs the
// derived ciphers on the shared transforms. This test does it with a Noise
// NN handshake, keying one StreamCipher per direction from the channel
// binding.
func TestNoiseKeyedSession(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	suite := noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashBLAKE2b)

	newSide := func(conn net.Conn) (*smc.Conn, *smc.SharedTransform, *smc.SharedTransform) {
		rx := smc.NewSharedTransform(nil)
		tx := smc.NewSharedTransform(nil)
		c := smc.NewConn(conn,
			smc.WithSharedTransform(rx),
			smc.WithSharedWriteTransform(tx),
		)
		return c, rx, tx
	}

	// Directional nonces: initiator-to-responder is 1, the reverse is 2.
	installCiphers := func(key []byte, rx, tx *smc.SharedTransform, initiator bool) error {
		rxNonce, txNonce := byte(1), byte(2)
		if initiator {
			rxNonce, txNonce = 2, 1
		}
		rc, err := smc.NewStreamCipher(key, testNonce(rxNonce))
		if err != nil {
			return err
		}
		tc, err := smc.NewStreamCipher(key, testNonce(txNonce))
		if err != nil {
			return err
		}
		rx.Set(rc)
		tx.Set(tc)
		return nil
	}

	var g errgroup.Group

	g.Go(func() error {
		c, rx, tx := newSide(clientConn)

		hs, err := noise.NewHandshakeState(noise.Config{
			CipherSuite: suite,
			Pattern:     noise.HandshakeNN,
			Initiator:   true,
		})
		if err != nil {
			return err
		}

		out, _, _, err := hs.WriteMessage(nil, nil)
		if err != nil {
			return err
		}
		if err := c.WriteMessage(smc.NewMessage(0, 0, out)); err != nil {
			return err
		}

		reply, err := c.ReadMessage()
		if err != nil {
			return err
		}
		if _, _, _, err := hs.ReadMessage(nil, reply.Payload); err != nil {
			return err
		}

		if err := installCiphers(hs.ChannelBinding()[:smc.KeySize], rx, tx, true); err != nil {
			return err
		}

		if err := c.WriteMessage(smc.NewMessage(42, 3, []byte("hi"))); err != nil {
			return err
		}

		m, err := c.ReadMessage()
		if err != nil {
			return err
		}
		assert.Equal(t, uint64(112), m.Channel)
		assert.Equal(t, uint8(5), m.Type)
		assert.Equal(t, []byte("hey"), m.Payload)
		return nil
	})

	g.Go(func() error {
		c, rx, tx := newSide(serverConn)

		hs, err := noise.NewHandshakeState(noise.Config{
			CipherSuite: suite,
			Pattern:     noise.HandshakeNN,
		})
		if err != nil {
			return err
		}

		m, err := c.ReadMessage()
		if err != nil {
			return err
		}
		if _, _, _, err := hs.ReadMessage(nil, m.Payload); err != nil {
			return err
		}

		out, _, _, err := hs.WriteMessage(nil, nil)
		if err != nil {
			return err
		}
		if err := c.WriteMessage(smc.NewMessage(0, 0, out)); err != nil {
			return err
		}

		if err := installCiphers(hs.ChannelBinding()[:smc.KeySize], rx, tx, false); err != nil {
			return err
		}

		m, err = c.ReadMessage()
		if err != nil {
			return err
		}
		assert.Equal(t, uint64(42), m.Channel)
		assert.Equal(t, uint8(3), m.Type)
		assert.Equal(t, []byte("hi"), m.Payload)

		return c.WriteMessage(smc.NewMessage(112, 5, []byte("hey")))
	})

	require.NoError(t, g.Wait())
}
