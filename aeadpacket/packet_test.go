package aeadpacket_test

import (
	"bytes"
	"testing"

	"github.com/veilproxy/veilproxy/aeadcore"
	"github.com/veilproxy/veilproxy/aeadpacket"
	"github.com/veilproxy/veilproxy/replay"
)

func newDescriptor(t *testing.T, method aeadcore.Method) *aeadcore.Descriptor {
	t.Helper()
	desc, err := aeadcore.NewDescriptor(method, "udp-test-password")
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}
	return desc
}

func TestRoundTrip_AllMethods(t *testing.T) {
	for _, m := range aeadcore.Methods() {
		m := m
		t.Run(m.String(), func(t *testing.T) {
			desc := newDescriptor(t, m)
			plaintext := []byte("a udp datagram payload, possibly with an address header")

			pkt, err := aeadpacket.Encrypt(nil, plaintext, desc)
			if err != nil {
				t.Fatalf("encrypt: %v", err)
			}
			wantLen := desc.KeyLen() + len(plaintext) + desc.TagLen()
			if len(pkt) != wantLen {
				t.Fatalf("packet length = %d, want %d", len(pkt), wantLen)
			}

			out, err := aeadpacket.Decrypt(nil, pkt, desc, nil)
			if err != nil {
				t.Fatalf("decrypt: %v", err)
			}
			if !bytes.Equal(out, plaintext) {
				t.Fatalf("roundtrip mismatch: got %x want %x", out, plaintext)
			}
		})
	}
}

func TestEncrypt_DistinctSaltsPerPacket(t *testing.T) {
	desc := newDescriptor(t, aeadcore.AES128GCM)
	pkt1, err := aeadpacket.Encrypt(nil, []byte("hello"), desc)
	if err != nil {
		t.Fatalf("encrypt 1: %v", err)
	}
	pkt2, err := aeadpacket.Encrypt(nil, []byte("hello"), desc)
	if err != nil {
		t.Fatalf("encrypt 2: %v", err)
	}
	if bytes.Equal(pkt1[:desc.KeyLen()], pkt2[:desc.KeyLen()]) {
		t.Fatal("two packets produced the same salt")
	}
}

func TestDecrypt_ShortPacketRejected(t *testing.T) {
	desc := newDescriptor(t, aeadcore.AES128GCM)
	short := make([]byte, desc.KeyLen()+desc.TagLen())
	if _, err := aeadpacket.Decrypt(nil, short, desc, nil); err != aeadpacket.ErrShortPacket {
		t.Fatalf("err = %v, want ErrShortPacket", err)
	}
}

func TestDecrypt_TamperedTagRejected(t *testing.T) {
	desc := newDescriptor(t, aeadcore.AES256GCM)
	pkt, err := aeadpacket.Encrypt(nil, []byte("payload"), desc)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	pkt[len(pkt)-1] ^= 0xFF
	if _, err := aeadpacket.Decrypt(nil, pkt, desc, nil); err != aeadpacket.ErrAuthFailed {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
}

// Failure ordering: a replayed salt is rejected before any AEAD work is
// attempted, even over ciphertext that would otherwise fail to verify.
func TestDecrypt_ReplayPrecedesAuth(t *testing.T) {
	desc := newDescriptor(t, aeadcore.AES128GCM)
	pkt, err := aeadpacket.Encrypt(nil, []byte("payload"), desc)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	filter := replay.New(2, 1024, 1e-6)
	if _, err := aeadpacket.Decrypt(nil, pkt, desc, filter); err != nil {
		t.Fatalf("first decrypt: %v", err)
	}

	// Tamper with the ciphertext too. Replay must still win, since the
	// salt is checked first and the tampered ciphertext never gets opened.
	pkt[len(pkt)-1] ^= 0xFF
	if _, err := aeadpacket.Decrypt(nil, pkt, desc, filter); err != aeadpacket.ErrReplay {
		t.Fatalf("err = %v, want ErrReplay", err)
	}
}

func TestDecrypt_FreshSaltRecordedOnlyAfterVerification(t *testing.T) {
	desc := newDescriptor(t, aeadcore.AES128GCM)
	pkt, err := aeadpacket.Encrypt(nil, []byte("payload"), desc)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	tampered := append([]byte{}, pkt...)
	tampered[len(tampered)-1] ^= 0xFF

	filter := replay.New(2, 1024, 1e-6)
	if _, err := aeadpacket.Decrypt(nil, tampered, desc, filter); err != aeadpacket.ErrAuthFailed {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
	// The salt must not have been recorded by the failed attempt. The
	// genuine packet sharing that salt still decrypts.
	if _, err := aeadpacket.Decrypt(nil, pkt, desc, filter); err != nil {
		t.Fatalf("genuine packet rejected after failed tamper attempt: %v", err)
	}
}
