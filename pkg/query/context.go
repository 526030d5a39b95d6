package query

import (
	"sync"

	"github.com/jitmap/jitmap/internal/container"
	"github.com/jitmap/jitmap/pkg/jit"
)

// MissingPolicy controls how Eval substitutes for a nil input
// container.
type MissingPolicy uint8

const (
	// MissingError fails Eval with a runtime-kind error citing the
	// variable name.
	MissingError MissingPolicy = iota
	// MissingReplaceWithEmpty substitutes the shared all-zero
	// container.
	MissingReplaceWithEmpty
	// MissingReplaceWithFull substitutes the shared all-ones
	// container.
	MissingReplaceWithFull
)

// ExecutionContext owns the JIT engine that every Query built against
// it compiles into, plus the evaluation-time policy knobs every Eval
// call on those Queries reads. It is shared by reference across
// Queries: dropping it invalidates every function pointer they hold.
type ExecutionContext struct {
	mu            sync.RWMutex
	Engine        *jit.Engine
	MissingPolicy MissingPolicy
	Popcount      bool
}

// NewExecutionContext returns a context owning a fresh JIT engine at
// the given optimisation level.
func NewExecutionContext(level jit.OptLevel) *ExecutionContext {
	return &ExecutionContext{
		Engine:   jit.New(level),
		Popcount: true,
	}
}

// Close disposes the underlying JIT engine. Every Query compiled
// against this context becomes unusable afterwards.
func (c *ExecutionContext) Close() {
	c.Engine.Dispose()
}

func (c *ExecutionContext) policy() MissingPolicy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.MissingPolicy
}

func (c *ExecutionContext) wantPopcount() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Popcount
}

// sharedEmpty and sharedFull back MissingReplaceWithEmpty/Full: one
// process-wide, read-only, zero-init pair, never written after
// package init, matching the "shared read-only all-empty/all-full
// containers... process-wide" contract.
var (
	sharedEmpty = container.SharedEmpty()
	sharedFull  = container.SharedFull()
)
