package deathnotetest

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/UZHBCON/deathnote"
)

var seq uint64

// NewCondition returns a unique condition, not bound to any key. Use it
// whenever a test needs a distinct identity.
func NewCondition() deathnote.Condition {
	n := atomic.AddUint64(&seq, 1)
	return deathnote.NewCondition("dntest", "seq", SequenceID(n))
}

// SequenceID returns the binary representation of a sequence value, the
// same as orm sequences produce.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) deathnote.Address {
	t.Helper()

	addr, err := deathnote.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
