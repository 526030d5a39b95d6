// Package query is the facade over the lexer/parser/expr/optimizer/
// codegen/jit pipeline: given a name and a query string, it produces
// a Query handle whose Eval calls straight into JIT-compiled native
// code over fixed-size bitmap containers.
package query

import (
	"fmt"
	"unsafe"

	"github.com/jitmap/jitmap/internal/container"
	"github.com/jitmap/jitmap/internal/errs"
	"github.com/jitmap/jitmap/internal/obslog"
	"github.com/jitmap/jitmap/pkg/jit"
	"github.com/jitmap/jitmap/pkg/query/codegen"
	"github.com/jitmap/jitmap/pkg/query/expr"
	"github.com/jitmap/jitmap/pkg/query/optimizer"
	"github.com/jitmap/jitmap/pkg/query/parser"
)

// Query is a compiled, named boolean-bitmap expression. It owns its
// own expr.Builder (holding the optimised expression tree) and holds
// a non-owning reference to the ExecutionContext it was compiled
// against.
type Query struct {
	name      string
	ctx       *ExecutionContext
	builder   *expr.Builder
	ref       expr.Ref
	variables []string
	funcs     jit.QueryFuncs
}

// New validates name, parses src, optimises the result, collects the
// query's ordered variable list, and compiles+publishes both function
// variants into ctx's JIT engine.
func New(ctx *ExecutionContext, name, src string) (*Query, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	b := expr.NewBuilder()
	r, err := parser.Parse(src, b)
	if err != nil {
		return nil, err
	}

	optimised, optimisedRef := optimizer.New().Optimize(b, r)
	variables := expr.Variables(optimised, optimisedRef)

	gen := codegen.New(name+"_module", codegen.Config{})
	defer gen.Dispose()
	if err := gen.Generate(name, optimised, optimisedRef, variables); err != nil {
		return nil, err
	}

	if err := ctx.Engine.AddModule(gen.CompileIR()); err != nil {
		obslog.Default.Error("failed to publish compiled query", "name", name, "error", err)
		return nil, err
	}

	funcs, err := ctx.Engine.Lookup(name)
	if err != nil {
		return nil, err
	}

	obslog.Default.Info("compiled query", "name", name, "variables", variables)

	return &Query{
		name:      name,
		ctx:       ctx,
		builder:   optimised,
		ref:       optimisedRef,
		variables: variables,
		funcs:     funcs,
	}, nil
}

// validateName requires a query name to be a valid LLVM symbol that a
// human would also accept as an identifier: it must start with a
// letter and contain only letters, digits, and underscores
// thereafter. This is stricter than expr.ValidVariableName (which
// allows a leading underscore or digit for query variables) because a
// query name doubles as the emitted function's external symbol.
func validateName(name string) error {
	if name == "" {
		return &errs.CompilerError{Reason: "query name must not be empty"}
	}
	first := name[0]
	if !(first >= 'a' && first <= 'z' || first >= 'A' && first <= 'Z') {
		return &errs.CompilerError{Reason: fmt.Sprintf("query name %q must start with a letter", name)}
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		isAlnum := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
		if !isAlnum {
			return &errs.CompilerError{Reason: fmt.Sprintf("query name %q contains an invalid character %q", name, c)}
		}
	}
	return nil
}

// Name returns the query's name, as given to New.
func (q *Query) Name() string { return q.name }

// Variables returns the query's ordered, deduplicated free-variable
// list. The order is stable for the lifetime of the Query and is the
// order Eval's inputs slice must follow.
func (q *Query) Variables() []string { return q.variables }

// String returns the optimised expression's textual form.
func (q *Query) String() string { return expr.String(q.builder, q.ref) }

// Eval evaluates the query over inputs (one container per entry in
// Variables(), in that order; a nil entry is substituted according to
// q.ctx's MissingPolicy) and writes the result into output. It
// returns the written bitmap's popcount if q.ctx.Popcount is set,
// otherwise container.UnknownPopCount.
func (q *Query) Eval(inputs []*container.Container, output *container.Container) (int32, error) {
	if len(inputs) != len(q.variables) {
		return 0, &errs.RuntimeError{
			Variable: q.name,
			Reason:   fmt.Sprintf("expected %d inputs, got %d", len(q.variables), len(inputs)),
		}
	}
	if output == nil {
		return 0, &errs.RuntimeError{Variable: q.name, Reason: "output container must not be nil"}
	}

	resolved := make([]*container.Container, len(inputs))
	policy := q.ctx.policy()
	for i, in := range inputs {
		if in != nil {
			resolved[i] = in
			continue
		}
		switch policy {
		case MissingReplaceWithEmpty:
			resolved[i] = sharedEmpty
		case MissingReplaceWithFull:
			resolved[i] = sharedFull
		default:
			return 0, &errs.RuntimeError{Variable: q.variables[i], Reason: "missing required input"}
		}
	}

	return q.evalResolved(resolved, output), nil
}

// EvalUnsafe skips nil-checking and MissingPolicy handling: the
// caller promises inputs has exactly len(Variables()) entries, none
// nil, and output is non-nil.
func (q *Query) EvalUnsafe(inputs []*container.Container, output *container.Container) int32 {
	return q.evalResolved(inputs, output)
}

func (q *Query) evalResolved(inputs []*container.Container, output *container.Container) int32 {
	ptrs := make([]unsafe.Pointer, len(inputs))
	for i, in := range inputs {
		ptrs[i] = unsafe.Pointer(&in.Words()[0])
	}
	outPtr := unsafe.Pointer(&output.Words()[0])

	if q.ctx.wantPopcount() {
		return jit.CallPopcount(q.funcs.Popcount, ptrs, outPtr)
	}
	jit.CallVoid(q.funcs.Void, ptrs, outPtr)
	return container.UnknownPopCount
}
