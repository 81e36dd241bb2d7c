package l4perception

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
)

// Sampler is the random source the RANSAC loop draws pool indices from.
// *math/rand.Rand satisfies it.
type Sampler interface {
	// Intn returns a uniform integer in [0, n). n is always > 0.
	Intn(n int) int
}

// NewSampler returns a deterministic Sampler. Two runs over the same input
// with the same seed produce identical lines.
func NewSampler(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewEntropySampler returns a Sampler seeded from the operating system's
// entropy source, falling back to the wall clock if that is unavailable.
// The seed is returned so a run can be reproduced later.
func NewEntropySampler() (*rand.Rand, int64) {
	seed := EntropySeed()
	return NewSampler(seed), seed
}

// EntropySeed draws a non-zero seed from crypto/rand.
func EntropySeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) &^ (1 << 63))
	if seed == 0 {
		seed = 1
	}
	return seed
}
