package aeadcore

import "crypto/cipher"

// Descriptor is the immutable per-connection cipher descriptor (L1 in the
// layering). It is safe to share across goroutines and connections once
// constructed; nothing about it mutates after NewDescriptor returns.
type Descriptor struct {
	method    Method
	masterKey []byte
}

// NewDescriptor derives the master key from password and returns a
// Descriptor for method. Fails only if the underlying hash primitive
// rejects the requested output length, which cannot happen for any of the
// fixed key lengths in the method table.
func NewDescriptor(method Method, password string) (*Descriptor, error) {
	key, err := DeriveMasterKey(password, method.KeyLen())
	if err != nil {
		return nil, err
	}
	return &Descriptor{method: method, masterKey: key}, nil
}

// NewDescriptorWithKey builds a Descriptor from an already-derived key
// (e.g. a base64-decoded key supplied directly by the operator instead of a
// password) rather than deriving one from a password.
func NewDescriptorWithKey(method Method, key []byte) (*Descriptor, error) {
	if len(key) != method.KeyLen() {
		return nil, ErrKeySize
	}
	mk := make([]byte, len(key))
	copy(mk, key)
	return &Descriptor{method: method, masterKey: mk}, nil
}

// Method reports the AEAD construction this descriptor uses.
func (d *Descriptor) Method() Method { return d.method }

// KeyLen, NonceLen, TagLen mirror the descriptor's method sizes.
func (d *Descriptor) KeyLen() int   { return d.method.KeyLen() }
func (d *Descriptor) NonceLen() int { return d.method.NonceLen() }
func (d *Descriptor) TagLen() int   { return d.method.TagLen() }

// MasterKey returns the descriptor's master key. The returned slice must
// not be mutated by the caller; it is the descriptor's own backing array.
func (d *Descriptor) MasterKey() []byte { return d.masterKey }

// NewAEAD constructs a cipher.AEAD for key using this descriptor's method.
// key must be exactly KeyLen() bytes: the master key for UDP, a derived
// subkey for TCP.
func (d *Descriptor) NewAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != d.method.KeyLen() {
		return nil, ErrKeySize
	}
	aead, err := d.method.newAEAD(key)
	if err != nil {
		return nil, ErrInternal
	}
	return aead, nil
}

// Wipe zeroes the master key. The Descriptor must not be used afterward.
func (d *Descriptor) Wipe() {
	for i := range d.masterKey {
		d.masterKey[i] = 0
	}
}
