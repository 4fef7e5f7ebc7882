package replay_test

import (
	"fmt"
	"testing"

	"github.com/veilproxy/veilproxy/replay"
)

func TestFilter_AddAndCheck(t *testing.T) {
	f := replay.New(2, 1024, 1e-6)
	salt := []byte("some-session-salt-bytes")

	if f.Check(salt) {
		t.Fatal("unseen salt reported as present")
	}
	f.Add(salt)
	if !f.Check(salt) {
		t.Fatal("seen salt reported as absent")
	}
}

func TestFilter_DistinctSaltsDoNotCollideTrivially(t *testing.T) {
	f := replay.New(2, 1024, 1e-6)
	a := []byte("salt-a-------------------------")
	b := []byte("salt-b-------------------------")

	f.Add(a)
	if f.Check(b) {
		t.Fatal("unrelated salt reported as present")
	}
}

func TestFilter_RingRotatesAfterCapacity(t *testing.T) {
	const slots, capacity = 4, 400
	f := replay.New(slots, capacity, 1e-3)

	salts := make([][]byte, capacity*2)
	for i := range salts {
		salts[i] = []byte(fmt.Sprintf("salt-%d", i))
		f.Add(salts[i])
	}

	// Recently added salts must still be found; this should not panic or
	// deadlock regardless of how many ring rotations occurred.
	if !f.Check(salts[len(salts)-1]) {
		t.Fatal("most recently added salt reported as absent")
	}
}

func BenchmarkFilter(b *testing.B) {
	f := replay.NewDefault()
	salt := []byte("benchmark-salt-bytes-16")
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		f.Check(salt)
	}
}
