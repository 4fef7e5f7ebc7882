package aeadpacket

import (
	"crypto/rand"
	"io"

	"github.com/veilproxy/veilproxy/aeadcore"
	"github.com/veilproxy/veilproxy/replay"
)

// Encrypt appends an encrypted datagram to dst: a fresh random salt of
// desc.KeyLen() bytes, followed by plaintext sealed directly under desc's
// master key with an all-zero nonce. Every call generates a new salt and
// runs the AEAD construction from scratch. There is no persistent state
// between packets, unlike the TCP chunk codec.
func Encrypt(dst, plaintext []byte, desc *aeadcore.Descriptor) ([]byte, error) {
	salt := make([]byte, desc.KeyLen())
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return dst, aeadcore.ErrInternal
	}

	aead, err := desc.NewAEAD(desc.MasterKey())
	if err != nil {
		return dst, err
	}

	nonce := make([]byte, desc.NonceLen())
	dst = append(dst, salt...)
	dst = aead.Seal(dst, nonce, plaintext, nil)
	return dst, nil
}

// Decrypt appends the decrypted plaintext of packet to dst. filter, if
// non-nil, is consulted for the packet's salt before any AEAD work is
// attempted. A replayed salt is rejected with ErrReplay without ever
// running the AEAD primitive, and a freshly-seen salt is recorded only after
// the packet passes verification. Pass a nil filter on the dialing side,
// which never needs replay suppression for packets it receives from a
// server it trusts.
func Decrypt(dst, packet []byte, desc *aeadcore.Descriptor, filter *replay.Filter) ([]byte, error) {
	keyLen := desc.KeyLen()
	if len(packet) <= keyLen+desc.TagLen() {
		return dst, ErrShortPacket
	}

	salt := packet[:keyLen]
	if filter != nil {
		if filter.Check(salt) {
			return dst, ErrReplay
		}
	}

	aead, err := desc.NewAEAD(desc.MasterKey())
	if err != nil {
		return dst, err
	}

	nonce := make([]byte, desc.NonceLen())
	out, err := aead.Open(dst, nonce, packet[keyLen:], nil)
	if err != nil {
		return dst, ErrAuthFailed
	}

	if filter != nil {
		filter.Add(salt)
	}
	return out, nil
}
