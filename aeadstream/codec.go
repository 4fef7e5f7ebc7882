package aeadstream

import (
	"crypto/rand"
	"io"

	"github.com/veilproxy/veilproxy/aeadcore"
	"github.com/veilproxy/veilproxy/replay"
	"github.com/veilproxy/veilproxy/session"
)

// payloadSizeMask is the maximum plaintext payload size per chunk, and the
// mask applied to the 16-bit big-endian length field (the high two bits are
// reserved and must be zero).
const payloadSizeMask = 0x3FFF

// chunkSizeLen is the width, in bytes, of the plaintext length field.
const chunkSizeLen = 2

// EncryptAppend appends the ciphertext of plaintext to dst, chunking it into
// pieces of at most payloadSizeMask bytes, and returns the grown slice. If
// ctx has not yet sent its salt, a fresh random salt is generated, prepended
// to dst, and used to arm the session subkey ladder before the first chunk
// is emitted. A zero-length plaintext is a no-op: no chunk, no salt, no
// subkey derivation, and the nonce counter does not advance.
func EncryptAppend(desc *aeadcore.Descriptor, ctx *session.Context, dst, plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return dst, nil
	}

	if !ctx.Init() {
		salt := make([]byte, desc.KeyLen())
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return dst, aeadcore.ErrInternal
		}
		dst = append(dst, salt...)
		if err := ctx.Arm(salt); err != nil {
			return dst, err
		}
	}

	for len(plaintext) > 0 {
		n := len(plaintext)
		if n > payloadSizeMask {
			n = payloadSizeMask
		}
		var err error
		dst, err = encryptChunk(ctx, dst, plaintext[:n])
		if err != nil {
			return dst, err
		}
		plaintext = plaintext[n:]
	}
	return dst, nil
}

func encryptChunk(ctx *session.Context, dst, payload []byte) ([]byte, error) {
	aead := ctx.AEAD()

	lenField := [chunkSizeLen]byte{byte(len(payload) >> 8), byte(len(payload))}
	dst = aead.Seal(dst, ctx.Nonce(), lenField[:], nil)
	if ctx.IncrementNonce() {
		return dst, ErrNonceExhausted
	}

	dst = aead.Seal(dst, ctx.Nonce(), payload, nil)
	if ctx.IncrementNonce() {
		return dst, ErrNonceExhausted
	}
	return dst, nil
}

// DecryptAppend feeds newly-arrived ciphertext into ctx's reassembly buffer
// and appends every complete plaintext chunk that can be decoded to dst,
// returning the grown slice.
//
// If the salt has not yet been consumed and fewer than desc.KeyLen() bytes
// are buffered, it returns ErrNeedMore. Once armed, it decodes chunks in a
// loop: if the buffered ciphertext cannot complete the current chunk, it
// returns ErrNeedMore when nothing has been decoded yet this call, or
// returns what has been decoded (with a nil error) when at least one chunk
// was produced; the caller should call again once more bytes arrive. A
// verification failure or protocol violation (zero-length or oversize
// payload) discards everything decoded so far this call and returns
// ErrAuthFailed; the context must not be reused afterward.
func DecryptAppend(desc *aeadcore.Descriptor, ctx *session.Context, dst, ciphertext []byte, filter *replay.Filter) ([]byte, error) {
	ctx.AppendCiphertext(ciphertext)

	if !ctx.Init() {
		if len(ctx.Reassembly()) < desc.KeyLen() {
			return dst, ErrNeedMore
		}
		salt := append([]byte(nil), ctx.Reassembly()[:desc.KeyLen()]...)
		if filter != nil {
			if filter.Check(salt) {
				return dst, ErrReplay
			}
			filter.Add(salt)
		}
		if err := ctx.Arm(salt); err != nil {
			return dst, err
		}
		ctx.ConsumeReassembly(desc.KeyLen())
	}

	tagLen := desc.TagLen()
	aead := ctx.AEAD()

	// Decoded plaintext is accumulated separately from dst and only merged
	// in on a successful (or NeedMore-with-progress) return. A failed
	// verification anywhere in this call must not leak plaintext from
	// chunks that decoded successfully earlier in the same call.
	var out []byte
	for {
		buf := ctx.Reassembly()
		if len(buf) <= chunkSizeLen+2*tagLen {
			if len(out) == 0 {
				return dst, ErrNeedMore
			}
			return append(dst, out...), nil
		}

		lenCipher := buf[:chunkSizeLen+tagLen]
		lenPlain, err := aead.Open(nil, ctx.Nonce(), lenCipher, nil)
		if err != nil {
			return dst, ErrAuthFailed
		}

		mlen := int(lenPlain[0])<<8 | int(lenPlain[1])
		if mlen == 0 || mlen > payloadSizeMask {
			return dst, ErrAuthFailed
		}

		chunkLen := chunkSizeLen + 2*tagLen + mlen
		if len(buf) < chunkLen {
			if len(out) == 0 {
				return dst, ErrNeedMore
			}
			return append(dst, out...), nil
		}

		if ctx.IncrementNonce() {
			return dst, ErrNonceExhausted
		}

		payloadCipher := buf[chunkSizeLen+tagLen : chunkLen]
		payloadPlain, err := aead.Open(nil, ctx.Nonce(), payloadCipher, nil)
		if err != nil {
			return dst, ErrAuthFailed
		}

		if ctx.IncrementNonce() {
			return dst, ErrNonceExhausted
		}

		out = append(out, payloadPlain...)
		ctx.ConsumeReassembly(chunkLen)
	}
}
