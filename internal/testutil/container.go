package testutil

import "github.com/jitmap/jitmap/internal/container"

// TiledContainer returns a container with every byte of its backing
// storage set to b, the Go analogue of the end-to-end scenario
// table's "8-bit word stand-in w tiled across the entire container"
// convention.
func TiledContainer(b byte) *container.Container {
	c := container.New()
	word := uint64(b)
	word |= word << 8
	word |= word << 16
	word |= word << 32
	container.FillWord(c, word)
	return c
}

// AllBitsSet reports whether every bit of c is 1.
func AllBitsSet(c *container.Container) bool {
	return c.PopCount() == container.BitsPerContainer
}

// AllBitsClear reports whether every bit of c is 0.
func AllBitsClear(c *container.Container) bool {
	return c.PopCount() == 0
}
