package replay

import (
	"errors"
	"hash/fnv"
	"sync"

	"github.com/riobard/go-bloom"
)

// Default sizing for the ring: DefaultSlots slots, each holding roughly
// DefaultCapacity/DefaultSlots entries before it ages out, each with a
// false-positive rate of DefaultFalsePositiveRate.
const (
	DefaultSlots             = 4
	DefaultCapacity          = 1 << 20
	DefaultFalsePositiveRate = 1e-6
)

// ErrInternal names an internal filter failure, distinct from a definite
// present/absent result. Neither Check nor Add returns it: Check reports a
// bool and Add returns nothing, since the bloom filter cannot fail.
var ErrInternal = errors.New("replay: internal filter failure")

// doubleFNV is the filter's hash function: two independent FNV variants
// over the same input.
func doubleFNV(b []byte) (uint64, uint64) {
	hx := fnv.New64()
	hx.Write(b)
	x := hx.Sum64()
	hy := fnv.New64a()
	hy.Write(b)
	y := hy.Sum64()
	return x, y
}

// Filter is a scalable, thread-safe set of previously observed salts. The
// zero value is not usable; construct with New.
type Filter struct {
	slotCapacity int
	slotPosition int
	entryCounter int
	slots        []bloom.Filter
	mutex        sync.RWMutex
}

// New builds a Filter with slots slots, a combined target capacity of
// capacity entries, and the given false-positive rate.
func New(slots, capacity int, falsePositiveRate float64) *Filter {
	f := &Filter{
		slotCapacity: capacity / slots,
		slots:        make([]bloom.Filter, slots),
	}
	for i := range f.slots {
		f.slots[i] = bloom.New(f.slotCapacity, falsePositiveRate, doubleFNV)
	}
	return f
}

// NewDefault builds a Filter using DefaultSlots/DefaultCapacity/
// DefaultFalsePositiveRate.
func NewDefault() *Filter {
	return New(DefaultSlots, DefaultCapacity, DefaultFalsePositiveRate)
}

// Check reports whether salt has been observed before. It must be
// consulted, and report false, before any
// AEAD work is attempted over the corresponding frame, to avoid a
// CPU-amplification denial-of-service via repeated decrypt attempts on
// known-bad input.
func (f *Filter) Check(salt []byte) bool {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	for _, s := range f.slots {
		if s.Test(salt) {
			return true
		}
	}
	return false
}

// Add records salt as observed. The UDP codec calls it only after the
// datagram carrying salt has passed AEAD verification; the TCP codec calls
// it as soon as the stream's salt has been read.
func (f *Filter) Add(salt []byte) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	slot := f.slots[f.slotPosition]
	if f.entryCounter > f.slotCapacity {
		f.slotPosition = (f.slotPosition + 1) % len(f.slots)
		slot = f.slots[f.slotPosition]
		slot.Reset()
		f.entryCounter = 0
	}
	f.entryCounter++
	slot.Add(salt)
}
