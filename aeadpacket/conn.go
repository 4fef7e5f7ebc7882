package aeadpacket

import (
	"net"

	"github.com/veilproxy/veilproxy/aeadcore"
	"github.com/veilproxy/veilproxy/replay"
)

// packetConn wraps a net.PacketConn with the UDP codec, encrypting every
// outbound WriteTo and decrypting every inbound ReadFrom.
type packetConn struct {
	net.PacketConn
	desc   *aeadcore.Descriptor
	filter *replay.Filter
}

// NewPacketConn wraps c with AEAD protection under desc. filter is consulted
// on ReadFrom only; pass nil on the dialing side.
func NewPacketConn(c net.PacketConn, desc *aeadcore.Descriptor, filter *replay.Filter) net.PacketConn {
	return &packetConn{PacketConn: c, desc: desc, filter: filter}
}

// WriteTo encrypts b and sends it to addr via the embedded PacketConn.
func (c *packetConn) WriteTo(b []byte, addr net.Addr) (int, error) {
	buf, err := Encrypt(make([]byte, 0, c.desc.KeyLen()+len(b)+c.desc.TagLen()), b, c.desc)
	if err != nil {
		return 0, err
	}
	_, err = c.PacketConn.WriteTo(buf, addr)
	return len(b), err
}

// ReadFrom reads one datagram from the embedded PacketConn and decrypts it
// into b.
func (c *packetConn) ReadFrom(b []byte) (int, net.Addr, error) {
	buf := make([]byte, len(b)+c.desc.KeyLen()+c.desc.TagLen())
	n, addr, err := c.PacketConn.ReadFrom(buf)
	if err != nil {
		return n, addr, err
	}
	out, err := Decrypt(b[:0], buf[:n], c.desc, c.filter)
	if err != nil {
		return 0, addr, err
	}
	return copy(b, out), addr, nil
}
