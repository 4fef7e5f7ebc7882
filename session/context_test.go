package session_test

import (
	"bytes"
	"testing"

	"github.com/veilproxy/veilproxy/aeadcore"
	"github.com/veilproxy/veilproxy/session"
)

func newDescriptor(t *testing.T) *aeadcore.Descriptor {
	t.Helper()
	desc, err := aeadcore.NewDescriptor(aeadcore.AES128GCM, "context-test-pw")
	if err != nil {
		t.Fatalf("NewDescriptor: %v", err)
	}
	return desc
}

func TestContext_ArmIsIdempotent(t *testing.T) {
	desc := newDescriptor(t)
	ctx := session.NewContext(desc, session.Encrypt)

	if err := ctx.Arm(bytes.Repeat([]byte{0x01}, desc.KeyLen())); err != nil {
		t.Fatalf("first Arm: %v", err)
	}
	subkeyAfterFirst := append([]byte(nil), ctx.Salt()...)

	// A second Arm call with a different salt must not re-derive. init
	// flips false->true exactly once.
	if err := ctx.Arm(bytes.Repeat([]byte{0x02}, desc.KeyLen())); err != nil {
		t.Fatalf("second Arm: %v", err)
	}
	if !bytes.Equal(ctx.Salt(), subkeyAfterFirst) {
		t.Fatal("second Arm call overwrote the session salt")
	}
}

func TestContext_NonceStartsAtZeroAndIncrements(t *testing.T) {
	desc := newDescriptor(t)
	ctx := session.NewContext(desc, session.Encrypt)
	if err := ctx.Arm(make([]byte, desc.KeyLen())); err != nil {
		t.Fatalf("Arm: %v", err)
	}

	zero := make([]byte, desc.NonceLen())
	if !bytes.Equal(ctx.Nonce(), zero) {
		t.Fatalf("initial nonce = %x, want all-zero", ctx.Nonce())
	}

	if wrapped := ctx.IncrementNonce(); wrapped {
		t.Fatal("first increment reported a wrap")
	}
	want := make([]byte, desc.NonceLen())
	want[0] = 1
	if !bytes.Equal(ctx.Nonce(), want) {
		t.Fatalf("nonce after one increment = %x, want %x", ctx.Nonce(), want)
	}
}

func TestContext_NonceWrapIsReported(t *testing.T) {
	desc := newDescriptor(t)
	ctx := session.NewContext(desc, session.Encrypt)
	if err := ctx.Arm(make([]byte, desc.KeyLen())); err != nil {
		t.Fatalf("Arm: %v", err)
	}

	nonce := ctx.Nonce()
	for i := range nonce {
		nonce[i] = 0xFF
	}

	if wrapped := ctx.IncrementNonce(); !wrapped {
		t.Fatal("increment from all-0xFF did not report a wrap")
	}
	zero := make([]byte, desc.NonceLen())
	if !bytes.Equal(ctx.Nonce(), zero) {
		t.Fatalf("nonce after wrap = %x, want all-zero", ctx.Nonce())
	}
}

func TestContext_ReassemblyAppendAndConsume(t *testing.T) {
	desc := newDescriptor(t)
	ctx := session.NewContext(desc, session.Decrypt)

	ctx.AppendCiphertext([]byte("abc"))
	ctx.AppendCiphertext([]byte("def"))
	if got := string(ctx.Reassembly()); got != "abcdef" {
		t.Fatalf("reassembly = %q, want %q", got, "abcdef")
	}

	ctx.ConsumeReassembly(3)
	if got := string(ctx.Reassembly()); got != "def" {
		t.Fatalf("reassembly after consume = %q, want %q", got, "def")
	}
}

func TestContext_CloseWipesSecrets(t *testing.T) {
	desc := newDescriptor(t)
	ctx := session.NewContext(desc, session.Encrypt)
	if err := ctx.Arm(bytes.Repeat([]byte{0x42}, desc.KeyLen())); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	ctx.IncrementNonce()

	ctx.Close()

	if ctx.Init() {
		t.Fatal("Close did not reset init")
	}
	if ctx.Salt() != nil || ctx.Nonce() != nil {
		t.Fatal("Close did not clear salt/nonce fields")
	}
}
