package aeadcore

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"strings"

	ietfchacha "golang.org/x/crypto/chacha20poly1305"
)

// Method identifies one of the five supported AEAD constructions.
//
// The original, pre-IETF chacha20-poly1305 construction (8-byte nonce) is
// not among them. No library available to this module implements that
// exact construction: golang.org/x/crypto/chacha20poly1305 only exposes the
// 12-byte (New) and 24-byte (NewX) IETF variants, and so does
// github.com/aead/chacha20poly1305 despite its name; its NonceSize() is 12,
// same as the IETF form.
type Method int

const (
	AES128GCM Method = iota
	AES192GCM
	AES256GCM
	CHACHA20POLY1305IETF
	XCHACHA20POLY1305IETF
)

// ErrMethodNotSupported is returned by ParseMethod for unrecognized names.
var ErrMethodNotSupported = errors.New("aeadcore: method not supported")

type methodInfo struct {
	name     string
	keyLen   int
	nonceLen int
	tagLen   int
	newAEAD  func(key []byte) (cipher.AEAD, error)
}

const tagLen = 16 // every supported method produces a 16-byte tag

var methodTable = [...]methodInfo{
	AES128GCM:             {"aes-128-gcm", 16, 12, tagLen, newAESGCM},
	AES192GCM:             {"aes-192-gcm", 24, 12, tagLen, newAESGCM},
	AES256GCM:             {"aes-256-gcm", 32, 12, tagLen, newAESGCM},
	CHACHA20POLY1305IETF:  {"chacha20-ietf-poly1305", 32, 12, tagLen, ietfchacha.New},
	XCHACHA20POLY1305IETF: {"xchacha20-ietf-poly1305", 32, 24, tagLen, ietfchacha.NewX},
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(blk) // standard 12-byte nonce
}

// ParseMethod maps a method name (case-insensitive) to its Method id.
func ParseMethod(name string) (Method, error) {
	name = strings.ToLower(name)
	for id, info := range methodTable {
		if info.name == name {
			return Method(id), nil
		}
	}
	return 0, ErrMethodNotSupported
}

// String returns the canonical wire name of m.
func (m Method) String() string { return methodTable[m].name }

// KeyLen, NonceLen and TagLen return the fixed sizes for m.
func (m Method) KeyLen() int   { return methodTable[m].keyLen }
func (m Method) NonceLen() int { return methodTable[m].nonceLen }
func (m Method) TagLen() int   { return methodTable[m].tagLen }

func (m Method) newAEAD(key []byte) (cipher.AEAD, error) { return methodTable[m].newAEAD(key) }

// Methods returns every supported Method in wire-stable id order.
func Methods() []Method {
	out := make([]Method, len(methodTable))
	for i := range methodTable {
		out[i] = Method(i)
	}
	return out
}
