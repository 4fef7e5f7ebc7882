package main

import (
	"io"
	"net"
	"time"

	"github.com/veilproxy/veilproxy/veil"
)

// tcpTun listens on addr and, for every inbound connection, dials server
// through ciph and relays to the fixed target, writing target's Addr header
// as the first bytes of the encrypted stream. There is no SOCKS
// negotiation path here. The target is fixed at startup.
func tcpTun(addr, server, target string, ciph veil.Cipher) {
	tgt := ParseAddr(target)
	if tgt == nil {
		logf("invalid target address %q", target)
		return
	}
	logf("TCP tunnel %s <-> %s <-> %s", addr, server, target)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logf("failed to listen on %s: %v", addr, err)
		return
	}

	for {
		c, err := ln.Accept()
		if err != nil {
			logf("failed to accept: %v", err)
			continue
		}
		go tcpTunHandle(c, server, tgt, ciph)
	}
}

func tcpTunHandle(c net.Conn, server string, target Addr, ciph veil.Cipher) {
	defer c.Close()

	rc, err := net.Dial("tcp", server)
	if err != nil {
		logf("failed to connect to server %v: %v", server, err)
		return
	}
	defer rc.Close()

	sc := ciph.StreamConn(rc)
	if _, err := sc.Write(target); err != nil {
		logf("failed to send target address: %v", err)
		return
	}

	if _, _, err := relay(sc, c); err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return
		}
		logf("relay error: %v", err)
	}
}

// tcpRemote listens on addr for encrypted inbound connections, reads the
// Addr header each carries, and relays to that target in the clear.
func tcpRemote(addr string, ciph veil.Cipher) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logf("failed to listen on %s: %v", addr, err)
		return
	}
	logf("listening TCP on %s", addr)

	for {
		c, err := ln.Accept()
		if err != nil {
			logf("failed to accept: %v", err)
			continue
		}
		go tcpRemoteHandle(c, ciph)
	}
}

func tcpRemoteHandle(c net.Conn, ciph veil.Cipher) {
	defer c.Close()
	sc := ciph.StreamConn(c)

	addr, err := ReadAddr(sc)
	if err != nil {
		logf("failed to read target address: %v", err)
		return
	}
	logf("proxy %s <-> %s", c.RemoteAddr(), addr)

	rc, err := net.Dial("tcp", addr.String())
	if err != nil {
		logf("failed to connect to target: %v", err)
		return
	}
	defer rc.Close()

	if _, _, err := relay(sc, rc); err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return
		}
		logf("relay error: %v", err)
	}
}

// relay copies between left and right bidirectionally until either side's
// copy completes, then wakes the other side up via a deadline. Returns
// bytes copied right->left, left->right, and the right->left copy's error,
// or the left->right copy's error if the former is nil.
func relay(left, right net.Conn) (int64, int64, error) {
	type result struct {
		n   int64
		err error
	}
	ch := make(chan result, 1)

	go func() {
		n, err := io.Copy(right, left)
		right.SetDeadline(time.Now())
		left.SetDeadline(time.Now())
		ch <- result{n, err}
	}()

	n, err := io.Copy(left, right)
	right.SetDeadline(time.Now())
	left.SetDeadline(time.Now())
	rs := <-ch

	if err == nil {
		err = rs.err
	}
	return n, rs.n, err
}
