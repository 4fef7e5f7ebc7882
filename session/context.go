package session

import (
	"crypto/cipher"

	"github.com/veilproxy/veilproxy/aeadcore"
)

// Direction distinguishes the two independent contexts of one connection.
type Direction int

const (
	Encrypt Direction = iota
	Decrypt
)

// Context is the per-direction session state described in the data model:
// an init flag, the session salt, the derived subkey, the running nonce
// counter, and, for the decrypt direction, a reassembly buffer holding
// ciphertext bytes that have not yet formed a complete chunk.
//
// A Context is not safe for concurrent use; it belongs to at most one
// logical task (goroutine) at a time. The encrypt-side and decrypt-side
// contexts of a connection are independent and may run on different
// goroutines.
type Context struct {
	desc *aeadcore.Descriptor
	dir  Direction

	init   bool
	salt   []byte
	subkey []byte
	nonce  []byte
	aead   cipher.AEAD

	reassembly []byte // decrypt side only
}

// NewContext creates a fresh, unarmed Context for desc and dir. The salt,
// subkey, and nonce fields are unset until Arm is called.
func NewContext(desc *aeadcore.Descriptor, dir Direction) *Context {
	return &Context{desc: desc, dir: dir}
}

// Direction reports which side of the connection this context serves.
func (c *Context) Direction() Direction { return c.dir }

// Init reports whether the salt has been sent (encrypt side) or consumed
// (decrypt side) yet, i.e. whether the subkey ladder has been armed.
func (c *Context) Init() bool { return c.init }

// Arm consumes salt (generated locally for the encrypt side, read off the
// wire for the decrypt side), derives the session subkey and an AEAD
// instance from it, and resets the nonce counter to zero. It is a no-op if
// the context is already armed. init flips false to true exactly once in the
// context's lifetime.
func (c *Context) Arm(salt []byte) error {
	if c.init {
		return nil
	}
	c.salt = append([]byte(nil), salt...)

	subkey, err := DeriveSubkey(c.desc.MasterKey(), c.salt, c.desc.KeyLen())
	if err != nil {
		return err
	}
	aead, err := c.desc.NewAEAD(subkey)
	if err != nil {
		return err
	}

	c.subkey = subkey
	c.aead = aead
	c.nonce = make([]byte, c.desc.NonceLen())
	c.init = true
	return nil
}

// AEAD returns the session's AEAD instance. Valid only after Arm.
func (c *Context) AEAD() cipher.AEAD { return c.aead }

// Nonce returns the context's live nonce counter. Callers treat it as a
// little-endian unsigned counter and must call IncrementNonce after each
// AEAD operation that consumes it, never more and never less. A nonce value
// must never be used twice under the same subkey.
func (c *Context) Nonce() []byte { return c.nonce }

// IncrementNonce advances the nonce counter by one, wrapping on overflow,
// and reports whether it wrapped all the way back to zero. Reaching the
// all-zero state again after a wrap is a connection-fatal condition the
// caller must detect (see aeadstream's chunk codec).
func (c *Context) IncrementNonce() (wrapped bool) {
	wrapped = true
	for i := range c.nonce {
		c.nonce[i]++
		if c.nonce[i] != 0 {
			wrapped = false
			break
		}
	}
	return wrapped
}

// Salt returns the session's salt. Valid only after Arm.
func (c *Context) Salt() []byte { return c.salt }

// AppendCiphertext appends newly-arrived bytes to the decrypt-side
// reassembly buffer.
func (c *Context) AppendCiphertext(b []byte) {
	c.reassembly = append(c.reassembly, b...)
}

// Reassembly returns the current contents of the decrypt-side reassembly
// buffer.
func (c *Context) Reassembly() []byte { return c.reassembly }

// ConsumeReassembly drops the first n bytes of the reassembly buffer,
// compacting the remainder in place.
func (c *Context) ConsumeReassembly(n int) {
	remaining := copy(c.reassembly, c.reassembly[n:])
	c.reassembly = c.reassembly[:remaining]
}

// Close wipes every secret field. The Context must not be used afterward.
func (c *Context) Close() {
	zero(c.salt)
	zero(c.subkey)
	zero(c.nonce)
	zero(c.reassembly)
	c.salt, c.subkey, c.nonce, c.reassembly = nil, nil, nil, nil
	c.aead = nil
	c.init = false
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
