package container

import "testing"

func TestEmptyFull(t *testing.T) {
	e := Empty()
	if got := e.PopCount(); got != 0 {
		t.Errorf("Empty().PopCount() = %d, want 0", got)
	}

	f := Full()
	if got := f.PopCount(); got != BitsPerContainer {
		t.Errorf("Full().PopCount() = %d, want %d", got, BitsPerContainer)
	}
}

func TestSetClearIsSet(t *testing.T) {
	c := New()
	if c.IsSet(42) {
		t.Fatal("bit 42 should start clear")
	}
	c.Set(42)
	if !c.IsSet(42) {
		t.Fatal("bit 42 should be set")
	}
	c.Clear(42)
	if c.IsSet(42) {
		t.Fatal("bit 42 should be clear again")
	}
}

func TestPopCountBoundaryBits(t *testing.T) {
	c := New()
	c.Set(0)
	c.Set(BitsPerContainer - 1)
	if got := c.PopCount(); got != 2 {
		t.Errorf("PopCount() = %d, want 2", got)
	}
}

func TestClone(t *testing.T) {
	c := New()
	c.Set(7)
	clone := c.Clone()
	clone.Set(8)

	if c.IsSet(8) {
		t.Error("mutating the clone must not affect the original")
	}
	if !clone.IsSet(7) {
		t.Error("clone should carry over bits set before cloning")
	}
}

func TestFillWord(t *testing.T) {
	c := New()
	FillWord(c, 0x12)
	for _, w := range c.Words() {
		if w != 0x12 {
			t.Fatalf("word = %#x, want 0x12", w)
		}
	}
}

func TestSharedContainersAreDistinctInstances(t *testing.T) {
	if SharedEmpty() == nil || SharedFull() == nil {
		t.Fatal("shared containers must be initialized")
	}
	if SharedEmpty().PopCount() != 0 {
		t.Error("SharedEmpty must stay all-zero")
	}
	if SharedFull().PopCount() != BitsPerContainer {
		t.Error("SharedFull must stay all-ones")
	}
}
