package veil

import (
	"net"

	"github.com/veilproxy/veilproxy/aeadcore"
	"github.com/veilproxy/veilproxy/aeadpacket"
	"github.com/veilproxy/veilproxy/aeadstream"
	"github.com/veilproxy/veilproxy/replay"
	"github.com/veilproxy/veilproxy/session"
)

// Cipher wraps a raw connection or packet socket with AEAD framing. A
// Cipher is immutable and may be shared across many connections; the
// per-connection mutable state lives in the session.Context values each
// StreamConn/PacketConn call creates fresh.
type Cipher interface {
	StreamConn(net.Conn) net.Conn
	PacketConn(net.PacketConn) net.PacketConn
}

// cipher is the sole implementation of Cipher, a thin adapter around an
// aeadcore.Descriptor plus the replay filter active on the receiving role.
type cipher struct {
	desc   *aeadcore.Descriptor
	filter *replay.Filter // nil on the dialing side; non-nil on the listening side
}

// NewCipher builds a Cipher for method, deriving the master key from
// password. filter is consulted on every inbound TCP salt and UDP packet,
// pass nil for a dialer that never receives unsolicited traffic, or a
// shared *replay.Filter (see replay.NewDefault) for a listener.
func NewCipher(method aeadcore.Method, password string, filter *replay.Filter) (Cipher, error) {
	desc, err := aeadcore.NewDescriptor(method, password)
	if err != nil {
		return nil, err
	}
	return &cipher{desc: desc, filter: filter}, nil
}

// NewCipherWithKey is NewCipher's counterpart for an already-derived key,
// e.g. one supplied directly by an operator rather than a password.
func NewCipherWithKey(method aeadcore.Method, key []byte, filter *replay.Filter) (Cipher, error) {
	desc, err := aeadcore.NewDescriptorWithKey(method, key)
	if err != nil {
		return nil, err
	}
	return &cipher{desc: desc, filter: filter}, nil
}

// PickCipher resolves name via aeadcore.ParseMethod and builds a Cipher from
// it, using key directly as the master key if non-empty, else deriving the
// master key from password.
func PickCipher(name string, key []byte, password string, filter *replay.Filter) (Cipher, error) {
	method, err := aeadcore.ParseMethod(name)
	if err != nil {
		return nil, err
	}
	if len(key) > 0 {
		return NewCipherWithKey(method, key, filter)
	}
	return NewCipher(method, password, filter)
}

// StreamConn wraps c with the TCP chunk codec: a fresh encrypt-direction and
// decrypt-direction session.Context, independent of any other connection
// sharing this Cipher.
func (ci *cipher) StreamConn(c net.Conn) net.Conn {
	encCtx := session.NewContext(ci.desc, session.Encrypt)
	decCtx := session.NewContext(ci.desc, session.Decrypt)
	return aeadstream.NewConn(c, ci.desc, encCtx, decCtx, ci.filter)
}

// PacketConn wraps c with the UDP codec.
func (ci *cipher) PacketConn(c net.PacketConn) net.PacketConn {
	return aeadpacket.NewPacketConn(c, ci.desc, ci.filter)
}
