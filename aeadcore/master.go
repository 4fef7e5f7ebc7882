package aeadcore

import "golang.org/x/crypto/blake2b"

// DeriveMasterKey derives an out-of-band pre-shared password into keyLen
// bytes of master key material via unkeyed BLAKE2b. It is deterministic:
// identical password and keyLen always yield identical output. The result
// is not a password hash suitable for storage. It optimizes for collision
// resistance between distinct passwords, not for preimage resistance over
// low-entropy input.
func DeriveMasterKey(password string, keyLen int) ([]byte, error) {
	h, err := blake2b.New(keyLen, nil)
	if err != nil {
		return nil, ErrInternal
	}
	h.Write([]byte(password))
	return h.Sum(nil), nil
}
