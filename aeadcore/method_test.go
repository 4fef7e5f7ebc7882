package aeadcore_test

import (
	"strings"
	"testing"

	"github.com/veilproxy/veilproxy/aeadcore"
)

func TestParseMethod_RoundTripsWithString(t *testing.T) {
	for _, m := range aeadcore.Methods() {
		got, err := aeadcore.ParseMethod(m.String())
		if err != nil {
			t.Fatalf("ParseMethod(%s): %v", m.String(), err)
		}
		if got != m {
			t.Fatalf("ParseMethod(%s) = %v, want %v", m.String(), got, m)
		}
	}
}

func TestParseMethod_CaseInsensitive(t *testing.T) {
	got, err := aeadcore.ParseMethod(strings.ToUpper("aes-256-gcm"))
	if err != nil {
		t.Fatalf("ParseMethod: %v", err)
	}
	if got != aeadcore.AES256GCM {
		t.Fatalf("got %v, want AES256GCM", got)
	}
}

func TestParseMethod_Unknown(t *testing.T) {
	if _, err := aeadcore.ParseMethod("not-a-method"); err != aeadcore.ErrMethodNotSupported {
		t.Fatalf("err = %v, want ErrMethodNotSupported", err)
	}
}

func TestMethod_FixedSizes(t *testing.T) {
	cases := []struct {
		m                          aeadcore.Method
		keyLen, nonceLen, tagLen int
	}{
		{aeadcore.AES128GCM, 16, 12, 16},
		{aeadcore.AES192GCM, 24, 12, 16},
		{aeadcore.AES256GCM, 32, 12, 16},
		{aeadcore.CHACHA20POLY1305IETF, 32, 12, 16},
		{aeadcore.XCHACHA20POLY1305IETF, 32, 24, 16},
	}
	for _, c := range cases {
		if got := c.m.KeyLen(); got != c.keyLen {
			t.Errorf("%s: KeyLen() = %d, want %d", c.m, got, c.keyLen)
		}
		if got := c.m.NonceLen(); got != c.nonceLen {
			t.Errorf("%s: NonceLen() = %d, want %d", c.m, got, c.nonceLen)
		}
		if got := c.m.TagLen(); got != c.tagLen {
			t.Errorf("%s: TagLen() = %d, want %d", c.m, got, c.tagLen)
		}
	}
}

func TestDescriptor_NewAEADProducesWorkingCipher(t *testing.T) {
	for _, m := range aeadcore.Methods() {
		desc, err := aeadcore.NewDescriptor(m, "pw")
		if err != nil {
			t.Fatalf("%s: NewDescriptor: %v", m, err)
		}
		aead, err := desc.NewAEAD(desc.MasterKey())
		if err != nil {
			t.Fatalf("%s: NewAEAD: %v", m, err)
		}
		if aead.NonceSize() != m.NonceLen() {
			t.Errorf("%s: NonceSize() = %d, want %d", m, aead.NonceSize(), m.NonceLen())
		}
		if aead.Overhead() != m.TagLen() {
			t.Errorf("%s: Overhead() = %d, want %d", m, aead.Overhead(), m.TagLen())
		}
	}
}

func TestDescriptor_NewAEADRejectsWrongKeySize(t *testing.T) {
	desc, err := aeadcore.NewDescriptor(aeadcore.AES256GCM, "pw")
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}
	if _, err := desc.NewAEAD(make([]byte, 10)); err != aeadcore.ErrKeySize {
		t.Fatalf("err = %v, want ErrKeySize", err)
	}
}

func TestNewDescriptorWithKey_RejectsWrongLength(t *testing.T) {
	if _, err := aeadcore.NewDescriptorWithKey(aeadcore.AES128GCM, make([]byte, 5)); err != aeadcore.ErrKeySize {
		t.Fatalf("err = %v, want ErrKeySize", err)
	}
}

func TestDescriptor_WipeZeroesMasterKey(t *testing.T) {
	desc, err := aeadcore.NewDescriptorWithKey(aeadcore.AES128GCM, make([]byte, 16))
	if err != nil {
		t.Fatalf("NewDescriptorWithKey: %v", err)
	}
	for i := range desc.MasterKey() {
		desc.MasterKey()[i] = 0xAB
	}
	desc.Wipe()
	for i, b := range desc.MasterKey() {
		if b != 0 {
			t.Fatalf("byte %d not wiped: %x", i, b)
		}
	}
}
