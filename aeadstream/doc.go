/*
Package aeadstream implements the TCP chunk codec (L5): the two-AEAD-call-
per-chunk framing used over a reliable, ordered byte stream, with
incremental, buffered decoding on the receive side.

Wire format for one direction of one connection:

	[salt : key_len]            // exactly once, at stream start
	[ chunk_1 ][ chunk_2 ] ...

Each chunk:

	[ enc_len : 2 + tag_len ][ enc_payload : payload_len + tag_len ]

enc_len is the AEAD seal of a 2-byte big-endian payload length (high two
bits reserved, must be zero; payload_len <= 0x3FFF) under the session
subkey and the current nonce; enc_payload is the AEAD seal of the payload
itself under the next nonce value. Both nonce increments only become
permanent once a full chunk is available and both AEAD calls succeed: a
length-only decrypt that cannot yet be followed by a payload decrypt (not
enough ciphertext buffered) leaves the nonce untouched, and the length
field is simply re-decrypted from the same nonce on the next call. This
mirrors the reference C implementation's aead_chunk_decrypt exactly. It
never advances its nonce argument until the whole chunk's length has been
confirmed available.

Encrypt and decrypt each keep their own *session.Context; the two are
independent and may be driven by different goroutines.
*/
package aeadstream
