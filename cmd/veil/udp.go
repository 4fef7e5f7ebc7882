package main

import (
	"bytes"
	"net"
	"sync"
	"time"

	"github.com/veilproxy/veilproxy/veil"
)

const udpBufSize = 64 * 1024

var bufPool = sync.Pool{New: func() interface{} { return make([]byte, udpBufSize) }}

// udpTun listens on laddr for plaintext UDP datagrams from local clients,
// prepends target's Addr header, and relays each through an encrypted
// PacketConn to server, and the reverse on the way back. One upstream
// socket is kept per distinct client address, torn down after udpTimeout of
// inactivity, simplified to one fixed target instead of arbitrary
// per-datagram SOCKS-style addressing.
func udpTun(laddr, server, target string, ciph veil.Cipher, udpTimeout time.Duration) {
	srvAddr, err := net.ResolveUDPAddr("udp", server)
	if err != nil {
		logf("UDP server address error: %v", err)
		return
	}
	tgt := ParseAddr(target)
	if tgt == nil {
		logf("invalid UDP target address %q", target)
		return
	}

	c, err := net.ListenPacket("udp", laddr)
	if err != nil {
		logf("UDP local listen error: %v", err)
		return
	}
	defer c.Close()

	var mu sync.Mutex
	upstreams := make(map[string]net.PacketConn)

	logf("UDP tunnel %s <-> %s <-> %s", laddr, server, target)
	for {
		buf := bufPool.Get().([]byte)
		copy(buf, tgt)
		n, clientAddr, err := c.ReadFrom(buf[len(tgt):])
		if err != nil {
			bufPool.Put(buf)
			logf("UDP local read error: %v", err)
			continue
		}
		pkt := buf[:len(tgt)+n]

		mu.Lock()
		key := clientAddr.String()
		up, ok := upstreams[key]
		if !ok {
			raw, err := net.ListenPacket("udp", "")
			if err != nil {
				mu.Unlock()
				bufPool.Put(buf)
				logf("failed to open upstream UDP socket: %v", err)
				continue
			}
			up = ciph.PacketConn(raw)
			upstreams[key] = up
			go udpTunReturn(c, up, clientAddr, udpTimeout, &mu, upstreams, key)
		}
		mu.Unlock()

		up.SetWriteDeadline(time.Now().Add(udpTimeout))
		if _, err := up.WriteTo(pkt, srvAddr); err != nil {
			logf("UDP upstream write error: %v", err)
		}
		bufPool.Put(buf)
	}
}

// udpTunReturn copies datagrams arriving on up back to clientAddr via c.
// The server's reply carries no Addr header of its own (see udpRemoteReturn):
// the target is fixed for the life of this tunnel, so there is nothing for
// the client side to strip. Runs until udpTimeout passes with no traffic,
// then removes the upstream socket.
func udpTunReturn(c net.PacketConn, up net.PacketConn, clientAddr net.Addr, udpTimeout time.Duration, mu *sync.Mutex, upstreams map[string]net.PacketConn, key string) {
	defer func() {
		mu.Lock()
		delete(upstreams, key)
		mu.Unlock()
		up.Close()
	}()

	buf := make([]byte, udpBufSize)
	for {
		up.SetReadDeadline(time.Now().Add(udpTimeout))
		n, _, err := up.ReadFrom(buf)
		if err != nil {
			if ne, ok := err.(net.Error); !ok || !ne.Timeout() {
				logf("UDP upstream read error: %v", err)
			}
			return
		}
		if _, err := c.WriteTo(buf[:n], clientAddr); err != nil {
			logf("UDP local write error: %v", err)
			return
		}
	}
}

// udpRemote listens on addr for encrypted inbound datagrams, each carrying
// its own Addr header, and relays the payload to that target, multiplexing
// the single reply socket back through the same encrypted PacketConn.
func udpRemote(addr string, ciph veil.Cipher, udpTimeout time.Duration) {
	raw, err := net.ListenPacket("udp", addr)
	if err != nil {
		logf("UDP remote listen error: %v", err)
		return
	}
	c := ciph.PacketConn(raw)
	defer c.Close()
	logf("listening UDP on %s", addr)

	var mu sync.Mutex
	targets := make(map[string]net.PacketConn)

	buf := make([]byte, udpBufSize)
	for {
		n, clientAddr, err := c.ReadFrom(buf)
		if err != nil {
			logf("UDP remote read error: %v", err)
			continue
		}

		tgtAddr, err := ReadAddr(bytes.NewReader(buf[:n]))
		if err != nil {
			logf("UDP remote invalid target header: %v", err)
			continue
		}
		payload := append([]byte(nil), buf[len(tgtAddr):n]...)

		mu.Lock()
		out, ok := targets[clientAddr.String()]
		if !ok {
			out, err = net.ListenPacket("udp", "")
			if err != nil {
				mu.Unlock()
				logf("failed to open target UDP socket: %v", err)
				continue
			}
			targets[clientAddr.String()] = out
			go udpRemoteReturn(c, out, clientAddr, udpTimeout, &mu, targets, clientAddr.String())
		}
		mu.Unlock()

		dst, err := net.ResolveUDPAddr("udp", tgtAddr.String())
		if err != nil {
			logf("UDP remote target resolve error: %v", err)
			continue
		}
		out.SetWriteDeadline(time.Now().Add(udpTimeout))
		if _, err := out.WriteTo(payload, dst); err != nil {
			logf("UDP remote write error: %v", err)
		}
	}
}

// udpRemoteReturn copies datagrams arriving on out back to clientAddr via c,
// with no Addr header of its own; the client side already knows which
// upstream a reply belongs to from the socket it arrived on.
func udpRemoteReturn(c net.PacketConn, out net.PacketConn, clientAddr net.Addr, udpTimeout time.Duration, mu *sync.Mutex, targets map[string]net.PacketConn, key string) {
	defer func() {
		mu.Lock()
		delete(targets, key)
		mu.Unlock()
		out.Close()
	}()

	buf := make([]byte, udpBufSize)
	for {
		out.SetReadDeadline(time.Now().Add(udpTimeout))
		n, _, err := out.ReadFrom(buf)
		if err != nil {
			if ne, ok := err.(net.Error); !ok || !ne.Timeout() {
				logf("UDP target read error: %v", err)
			}
			return
		}
		if _, err := c.WriteTo(buf[:n], clientAddr); err != nil {
			logf("UDP remote write error: %v", err)
			return
		}
	}
}
