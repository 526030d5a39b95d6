// Package jit wraps tinygo.org/x/go-llvm's MCJIT execution engine,
// turning a stream of codegen-produced modules into directly callable
// function pointers via a small cgo trampoline: a C shim that casts an
// opaque function pointer to the right C signature and calls it.
package jit

/*
#include <stdint.h>

typedef void void_fn(void **inputs, void *output);
typedef int32_t popcount_fn(void **inputs, void *output);

static void jitmap_call_void(void *fn, void **inputs, void *output) {
	((void_fn *)fn)(inputs, output);
}

static int32_t jitmap_call_popcount(void *fn, void **inputs, void *output) {
	return ((popcount_fn *)fn)(inputs, output);
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"tinygo.org/x/go-llvm"

	"github.com/jitmap/jitmap/internal/errs"
)

var nativeTargetInit sync.Once

func initNativeTarget() {
	nativeTargetInit.Do(func() {
		llvm.InitializeNativeTarget()
		llvm.InitializeNativeAsmPrinter()
	})
}

// OptLevel selects the LLVM optimisation level applied to each module
// as it is added to the engine.
type OptLevel uint8

const (
	OptNone OptLevel = 0
	OptLess OptLevel = 1
	// OptDefault is the engine's default level.
	OptDefault    OptLevel = 2
	OptAggressive OptLevel = 3
)

// Engine owns one MCJIT execution session. Every query compiled
// against an Engine publishes its functions into that one session, so
// function names must be unique within the Engine.
//
// codegen.Generator builds its module with github.com/llir/llvm,
// a pure-Go library with no execution capability of its own. Engine
// bridges that module into the cgo-based tinygo.org/x/go-llvm binding
// by reparsing its textual IR (*ir.Module.String()) into this
// Engine's own llvm.Context, the same way a clang/llc pipeline would
// consume a .ll file emitted by an upstream pure-Go frontend. Every
// module added to the same MCJIT session must share one llvm.Context,
// so Engine allocates exactly one and reuses it for every AddModule
// call.
type Engine struct {
	mu       sync.Mutex
	ctx      llvm.Context
	engine   llvm.ExecutionEngine
	symbols  map[string]struct{}
	optLevel OptLevel
	started  bool
}

// New returns an Engine at the given optimisation level, clamped to
// the 0-3 range (a level above 3 becomes OptAggressive).
func New(level OptLevel) *Engine {
	if level > OptAggressive {
		level = OptAggressive
	}
	initNativeTarget()
	return &Engine{
		ctx:      llvm.NewContext(),
		symbols:  make(map[string]struct{}),
		optLevel: level,
	}
}

// TargetTriple reports the host triple the engine will JIT for.
func TargetTriple() string {
	return llvm.DefaultTargetTriple()
}

// AddModule parses ir (the textual LLVM IR produced by
// codegen.Generator.CompileIR), verifies it, runs the optimisation
// pipeline over it, and merges it into the engine's execution
// session. Every defined function name in ir must be new to this
// Engine; a collision is reported as a *errs.CompilerError without
// mutating engine state.
func (e *Engine) AddModule(ir string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	buf := llvm.NewMemoryBufferContentsCopy([]byte(ir), "query")
	mod, err := e.ctx.ParseIR(buf)
	if err != nil {
		return &errs.CompilerError{Reason: "failed to parse generated LLVM IR", Cause: err}
	}

	names, err := definedFunctionNames(mod)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, exists := e.symbols[name]; exists {
			return &errs.CompilerError{Reason: fmt.Sprintf("function %q is already registered with the engine", name)}
		}
	}

	if err := llvm.VerifyModule(mod, llvm.ReturnStatusAction); err != nil {
		return &errs.CompilerError{Reason: "module verification failed", Cause: err}
	}

	e.optimize(mod)

	if !e.started {
		options := llvm.NewMCJITCompilerOptions()
		options.SetMCJITOptimizationLevel(llvm.CodeGenOptLevel(e.optLevel))
		engine, err := llvm.NewMCJITCompiler(mod, options)
		if err != nil {
			return &errs.CompilerError{Reason: "failed to start MCJIT compiler", Cause: err}
		}
		e.engine = engine
		e.started = true
	} else {
		e.engine.AddModule(mod)
	}

	for _, name := range names {
		e.symbols[name] = struct{}{}
	}
	return nil
}

func definedFunctionNames(mod llvm.Module) ([]string, error) {
	var names []string
	for fn := mod.FirstFunction(); !fn.IsNil(); fn = llvm.NextFunction(fn) {
		if fn.IsDeclaration() {
			continue
		}
		names = append(names, fn.Name())
	}
	if len(names) == 0 {
		return nil, &errs.CompilerError{Reason: "module defines no functions"}
	}
	return names, nil
}

// optimize runs the pass pipeline matched to e.optLevel.
func (e *Engine) optimize(mod llvm.Module) {
	builder := llvm.NewPassManagerBuilder()
	defer builder.Dispose()
	builder.SetOptLevel(int(e.optLevel))

	pm := llvm.NewPassManager()
	defer pm.Dispose()

	pm.AddInstructionCombiningPass()
	pm.AddPromoteMemoryToRegisterPass()
	pm.AddGVNPass()
	pm.AddCFGSimplificationPass()
	if e.optLevel >= OptDefault {
		pm.AddLoopVectorizePass()
		pm.AddLoopUnrollPass()
		pm.AddSLPVectorizePass()
		pm.AddFunctionInliningPass()
	}
	pm.Run(mod)
}

// QueryFuncs is the pair of native entry points published for one
// compiled query.
type QueryFuncs struct {
	Void     unsafe.Pointer
	Popcount unsafe.Pointer
}

// Lookup resolves the NAME/NAME_popcount function pair published for
// name. It returns a *errs.RuntimeError if either symbol is absent.
func (e *Engine) Lookup(name string) (QueryFuncs, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	voidPtr, err := e.functionAddress(name)
	if err != nil {
		return QueryFuncs{}, err
	}
	popcountPtr, err := e.functionAddress(name + "_popcount")
	if err != nil {
		return QueryFuncs{}, err
	}
	return QueryFuncs{Void: voidPtr, Popcount: popcountPtr}, nil
}

func (e *Engine) functionAddress(name string) (unsafe.Pointer, error) {
	if _, ok := e.symbols[name]; !ok {
		return nil, &errs.RuntimeError{Variable: name, Reason: "no such compiled function"}
	}
	addr := e.engine.PointerToGlobal(e.engine.FindFunction(name))
	return addr, nil
}

// CallVoid invokes the NAME-shaped function: void(inputs, output).
func CallVoid(fn unsafe.Pointer, inputs []unsafe.Pointer, output unsafe.Pointer) {
	var inputsPtr *unsafe.Pointer
	if len(inputs) > 0 {
		inputsPtr = &inputs[0]
	}
	C.jitmap_call_void(fn, (*unsafe.Pointer)(unsafe.Pointer(inputsPtr)), output)
}

// CallPopcount invokes the NAME_popcount-shaped function:
// i32(inputs, output).
func CallPopcount(fn unsafe.Pointer, inputs []unsafe.Pointer, output unsafe.Pointer) int32 {
	var inputsPtr *unsafe.Pointer
	if len(inputs) > 0 {
		inputsPtr = &inputs[0]
	}
	return int32(C.jitmap_call_popcount(fn, (*unsafe.Pointer)(unsafe.Pointer(inputsPtr)), output))
}

// Dispose releases the underlying execution engine. The Engine must
// not be used afterwards.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		e.engine.Dispose()
		e.started = false
	}
	e.ctx.Dispose()
}
