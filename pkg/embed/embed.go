// Package embed provides the Go embedding API for the boolean-bitmap
// query engine. Pass a name, a query string, and a map of named input
// bitmaps; get a popcount and an output bitmap back.
//
// Basic usage:
//
//	popcount, output, err := embed.Eval("q", "a & !b", map[string][]byte{
//	    "a": aBytes,
//	    "b": bBytes,
//	})
package embed

import (
	"context"
	"fmt"
	"time"

	"github.com/jitmap/jitmap/internal/container"
	"github.com/jitmap/jitmap/internal/errs"
	"github.com/jitmap/jitmap/pkg/jit"
	"github.com/jitmap/jitmap/pkg/query"
)

// Eval compiles src under name and evaluates it once over inputs,
// returning the written bitmap's popcount and its raw bytes. Each
// entry of inputs must be exactly container.BytesPerContainer bytes.
func Eval(name, src string, inputs map[string][]byte) (int32, []byte, error) {
	return EvalWithOptions(name, src, inputs)
}

// Options configures EvalWithOptions. The zero value compiles against
// a fresh, private ExecutionContext at the default optimisation
// level, requests the popcount variant, applies MissingError, and
// runs with no timeout.
type Options struct {
	// ExecutionContext lets callers share a JIT engine across
	// multiple Eval calls instead of paying JIT start-up cost per
	// call. If nil, a private one-shot context is created and closed
	// within the call.
	ExecutionContext *query.ExecutionContext

	// MissingPolicy controls substitution for an input named in the
	// expression but absent from the inputs map.
	MissingPolicy query.MissingPolicy

	// Popcount selects the popcount-returning variant. Defaults to
	// true.
	Popcount *bool

	// Timeout bounds the compile step via a context deadline that
	// is checked once, before compilation starts. It cannot
	// interrupt compilation once it is under way.
	Timeout time.Duration
}

// Option is a functional option for EvalWithOptions.
type Option func(*Options)

// WithMissingPolicy sets the MissingPolicy applied to absent inputs.
func WithMissingPolicy(p query.MissingPolicy) Option {
	return func(o *Options) { o.MissingPolicy = p }
}

// WithPopcount selects whether the popcount variant is invoked.
func WithPopcount(enabled bool) Option {
	return func(o *Options) { o.Popcount = &enabled }
}

// WithTimeout bounds the compile step.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}

// WithExecutionContext reuses an existing ExecutionContext instead of
// creating and closing a private one.
func WithExecutionContext(ctx *query.ExecutionContext) Option {
	return func(o *Options) { o.ExecutionContext = ctx }
}

// EvalWithOptions is Eval with advanced configuration.
func EvalWithOptions(name, src string, inputs map[string][]byte, opts ...Option) (int32, []byte, error) {
	options := &Options{Popcount: boolPtr(true)}
	for _, opt := range opts {
		opt(options)
	}

	ctx := options.ExecutionContext
	if ctx == nil {
		ctx = query.NewExecutionContext(jit.OptDefault)
		defer ctx.Close()
	}
	ctx.MissingPolicy = options.MissingPolicy
	ctx.Popcount = *options.Popcount

	compileCtx := context.Background()
	var cancel context.CancelFunc
	if options.Timeout != 0 {
		compileCtx, cancel = context.WithTimeout(compileCtx, options.Timeout)
		defer cancel()
	}
	if err := compileCtx.Err(); err != nil {
		return 0, nil, err
	}

	q, err := query.New(ctx, name, src)
	if err != nil {
		return 0, nil, err
	}

	containers, err := toContainers(q.Variables(), inputs)
	if err != nil {
		return 0, nil, err
	}

	output := container.New()
	popcount, err := q.Eval(containers, output)
	if err != nil {
		return 0, nil, err
	}

	return popcount, bytesOf(output), nil
}

func toContainers(variables []string, inputs map[string][]byte) ([]*container.Container, error) {
	out := make([]*container.Container, len(variables))
	for i, name := range variables {
		raw, ok := inputs[name]
		if !ok {
			out[i] = nil
			continue
		}
		if len(raw) != container.BytesPerContainer {
			return nil, &errs.RuntimeError{
				Variable: name,
				Reason:   fmt.Sprintf("input must be %d bytes, got %d", container.BytesPerContainer, len(raw)),
			}
		}
		out[i] = fromBytes(raw)
	}
	return out, nil
}

func fromBytes(raw []byte) *container.Container {
	c := container.New()
	words := c.Words()
	for i := range words {
		var w uint64
		for b := 0; b < 8; b++ {
			w |= uint64(raw[i*8+b]) << (8 * b)
		}
		words[i] = w
	}
	return c
}

func bytesOf(c *container.Container) []byte {
	out := make([]byte, container.BytesPerContainer)
	for i, w := range c.Words() {
		for b := 0; b < 8; b++ {
			out[i*8+b] = byte(w >> (8 * b))
		}
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
