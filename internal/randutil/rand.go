// Package randutil builds the random sources used for shuffling and
// simulation. Every source is an explicit *rand.Rand so tables and tests
// never share hidden global state.
package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. The same seed
// always produces the same shuffle sequence.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(u), splitmix(u+goldenRatio64)))
}

// NewUnpredictable returns a source seeded from the operating system's
// cryptographic generator, for live tables where shuffles must not be
// reproducible.
func NewUnpredictable() *rand.Rand {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return rand.New(rand.NewChaCha8(seed))
}

// Derive returns an independent deterministic source for worker i of a
// parallel job seeded with seed.
func Derive(seed int64, i int) *rand.Rand {
	return New(int64(splitmix(uint64(seed) + uint64(i+1)*goldenRatio64)))
}

// Seed64 draws a fresh seed from crypto/rand
func Seed64() int64 {
	var b [8]byte
	_, _ = crand.Read(b[:])
	return int64(binary.LittleEndian.Uint64(b[:]))
}

func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
