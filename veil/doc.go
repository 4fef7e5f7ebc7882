// Package veil wires the layered AEAD engine (aeadcore, session, replay,
// aeadstream, aeadpacket) into the Cipher/StreamConn/PacketConn surface that
// a relay or proxy implementation consumes.
package veil
