package session

import (
	"github.com/minio/blake2b-simd"
)

// subkeyPersonal is the frozen ASCII personalization tag mixed into every
// session subkey derivation. Its exact bytes are part of the wire format:
// changing it breaks interoperability with any peer derived from the same
// master key, so it is never refactored. This is a fresh deployment
// identity, deliberately not the reference deployment's own tag; a build
// meant to interoperate with an existing reference-deployment installation
// base must change this constant to match it byte for byte.
var subkeyPersonal = []byte("veil-subkey-v1\x00")

// DeriveSubkey computes the per-session subkey from the connection's master
// key and a session salt: a personalized, salted, keyed BLAKE2b over an
// empty message. salt is truncated or zero-padded to blake2b-simd's
// SaltSize (16 bytes) and subkeyPersonal likewise to PersonSize, matching
// the construction of libsodium's crypto_generichash_blake2b_salt_personal
// (same algorithm, not the same personalization bytes). golang.org/x/crypto/blake2b
// cannot express the salt/person parameters, so this layer depends on
// blake2b-simd specifically for its fuller parameter block.
func DeriveSubkey(masterKey, salt []byte, keyLen int) ([]byte, error) {
	cfg := &blake2b.Config{
		Size:   uint8(keyLen),
		Key:    masterKey,
		Salt:   fitTo(salt, blake2b.SaltSize),
		Person: fitTo(subkeyPersonal, blake2b.PersonSize),
	}
	h, err := blake2b.New(cfg)
	if err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// fitTo truncates or zero-pads b to exactly n bytes.
func fitTo(b []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, b)
	return out
}
