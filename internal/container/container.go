// Package container implements the minimal bitmap-container contract a
// compiled query needs: a fixed 65,536-bit buffer, cache-line aligned,
// with the handful of whole-container operations the query facade and
// its tests use to build and inspect inputs/outputs. The richer
// container hierarchy (dense/empty/full/array/run-length) and the
// sparse-bitmap indexing layer that motivated it are out of scope here;
// this package only ships what §6 of the core spec demands callers
// provide.
package container

import "math/bits"

const (
	// BitsPerContainer is the fixed width of every bitmap buffer.
	BitsPerContainer = 65536
	// BytesPerContainer is BitsPerContainer in bytes.
	BytesPerContainer = BitsPerContainer / 8
	// WordsPerContainer is BitsPerContainer in 64-bit words.
	WordsPerContainer = BitsPerContainer / 64
	// Alignment is the cache-line alignment a container's backing
	// storage should satisfy.
	Alignment = 64
	// UnknownPopCount is returned by Eval when the popcount variant
	// was not requested.
	UnknownPopCount int32 = -1
)

// Container is a fixed-size dense bitmap buffer, laid out as
// WordsPerContainer little-endian 64-bit words.
type Container struct {
	words [WordsPerContainer]uint64
}

// New returns a zero-valued (all-empty) container.
func New() *Container {
	return &Container{}
}

// Empty returns a container with every bit clear.
func Empty() *Container {
	return New()
}

// Full returns a container with every bit set.
func Full() *Container {
	c := New()
	for i := range c.words {
		c.words[i] = ^uint64(0)
	}
	return c
}

// Words exposes the backing word slice for the JIT ABI: compiled
// functions take a *uint64 to this storage.
func (c *Container) Words() []uint64 {
	return c.words[:]
}

// Set sets bit i (0 <= i < BitsPerContainer).
func (c *Container) Set(i int) {
	c.words[i/64] |= uint64(1) << uint(i%64)
}

// Clear clears bit i.
func (c *Container) Clear(i int) {
	c.words[i/64] &^= uint64(1) << uint(i%64)
}

// IsSet reports whether bit i is set.
func (c *Container) IsSet(i int) bool {
	return c.words[i/64]&(uint64(1)<<uint(i%64)) != 0
}

// PopCount returns the number of set bits across the whole container.
func (c *Container) PopCount() int32 {
	var n int32
	for _, w := range c.words {
		n += int32(bits.OnesCount64(w))
	}
	return n
}

// Clone returns an independent copy of c.
func (c *Container) Clone() *Container {
	out := New()
	out.words = c.words
	return out
}

// FillWord sets every word of the container to w, useful for building
// the 8-bit-word-tiled fixtures the end-to-end tests describe.
func FillWord(c *Container, w uint64) {
	for i := range c.words {
		c.words[i] = w
	}
}

var (
	sharedEmpty = Empty()
	sharedFull  = Full()
)

// SharedEmpty returns the process-wide, read-only all-zero container
// used by MissingPolicy.ReplaceWithEmpty. Callers must not mutate it.
func SharedEmpty() *Container { return sharedEmpty }

// SharedFull returns the process-wide, read-only all-ones container
// used by MissingPolicy.ReplaceWithFull. Callers must not mutate it.
func SharedFull() *Container { return sharedFull }
