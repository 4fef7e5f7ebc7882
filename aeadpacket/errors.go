package aeadpacket

import "errors"

// ErrShortPacket means the packet is too short to contain a salt, a tag and
// at least one byte of ciphertext.
var ErrShortPacket = errors.New("aeadpacket: short packet")

// ErrAuthFailed is returned when AEAD tag verification fails.
var ErrAuthFailed = errors.New("aeadpacket: authentication failed")

// ErrReplay is returned when a packet's salt has already been observed by
// the replay filter.
var ErrReplay = errors.New("aeadpacket: replayed salt")
