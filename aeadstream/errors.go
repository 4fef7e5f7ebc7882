package aeadstream

import "errors"

// ErrNeedMore is returned by DecryptAppend when more ciphertext bytes must
// be delivered before any plaintext can be produced (Reader.Read handles it
// internally and never returns it). It is non-fatal: the
// context remains usable and the caller should retry once more bytes have
// arrived.
var ErrNeedMore = errors.New("aeadstream: need more data")

// ErrAuthFailed is returned when AEAD tag verification fails, or a decoded
// chunk violates the protocol (zero length, or length exceeding the 14-bit
// cap). It is fatal: no plaintext has been emitted and the context must be
// discarded.
var ErrAuthFailed = errors.New("aeadstream: authentication failed")

// ErrReplay is returned when a connection's salt has already been observed
// by the replay filter. It is fatal: the connection must be dropped without
// any further processing.
var ErrReplay = errors.New("aeadstream: replayed salt")

// ErrNonceExhausted is returned if the nonce counter would wrap back to
// zero. The reference implementation this engine redesigns leaves the
// behavior unspecified; here it is treated as connection-fatal rather than
// silently wrapping.
var ErrNonceExhausted = errors.New("aeadstream: nonce counter exhausted")
