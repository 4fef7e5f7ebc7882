/*
Package aeadcore provides the cipher-agnostic building blocks shared by the
stream (TCP) and packet (UDP) AEAD codecs: the method table, master key
derivation, and the AEAD primitive adapters themselves.

Five methods are supported. Key, nonce and tag lengths are fixed per method
and never negotiated:

	id  name                     key  nonce  tag
	0   aes-128-gcm              16   12     16
	1   aes-192-gcm              24   12     16
	2   aes-256-gcm              32   12     16
	3   chacha20-ietf-poly1305   32   12     16
	4   xchacha20-ietf-poly1305  32   24     16

The original, pre-IETF chacha20-poly1305 construction (8-byte nonce) is not
among them: no third-party package reachable from this module implements it
(x/crypto/chacha20poly1305 and github.com/aead/chacha20poly1305 both only
build the 12-byte/24-byte IETF forms, despite the latter's name).

A Descriptor is immutable after construction and safe to share across
connections and goroutines. It owns the master key, derived once from the
connection password via unkeyed BLAKE2b.
*/
package aeadcore
