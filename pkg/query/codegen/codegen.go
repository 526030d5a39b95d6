// Package codegen lowers an optimised query expression into an LLVM
// IR module containing one tight loop-based function per query, in
// two variants sharing a single IR-building routine (the "popcount
// variant duplication" design note: one lowering visitor, a boolean
// parameter selects whether the popcount accumulator is built).
//
// The module is built with github.com/llir/llvm's ir/types/constant
// packages. llir/llvm never touches cgo, so codegen itself stays a
// pure-Go package; the cgo-based JIT backend (pkg/jit) consumes this
// module's textual IR rather than its in-memory AST; see DESIGN.md
// for why codegen and execution use two different LLVM bindings.
package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/jitmap/jitmap/internal/container"
	"github.com/jitmap/jitmap/internal/errs"
	"github.com/jitmap/jitmap/pkg/query/expr"
)

// Config controls the element type and loop shape of the generated
// functions.
type Config struct {
	// ScalarWidth is the bit width of each lane: one of 8, 16, 32, 64.
	// Zero means the default, 64.
	ScalarWidth int
	// VectorWidth is the number of lanes per loop iteration: one of
	// 1, 2, 4, 8. Zero means the default, 1 (scalar).
	VectorWidth int
}

func (c Config) normalized() Config {
	if c.ScalarWidth == 0 {
		c.ScalarWidth = 64
	}
	if c.VectorWidth == 0 {
		c.VectorWidth = 1
	}
	return c
}

// WordCount reports how many loop iterations cover one container at
// this configuration's element width.
func (c Config) WordCount() int {
	c = c.normalized()
	return container.BitsPerContainer / (c.ScalarWidth * c.VectorWidth)
}

// Generator builds one LLVM IR module, adding one function pair (NAME
// and NAME_popcount) per call to Generate.
type Generator struct {
	cfg    Config
	module *ir.Module
}

// New returns a Generator owning a fresh, empty module whose
// source_filename is moduleName.
func New(moduleName string, cfg Config) *Generator {
	m := ir.NewModule()
	m.SourceFilename = moduleName
	return &Generator{cfg: cfg.normalized(), module: m}
}

// Module returns the module under construction.
func (g *Generator) Module() *ir.Module { return g.module }

// Dispose is a no-op for llir/llvm modules; it exists so callers can
// treat codegen.Generator and the JIT-side module wrapper the same
// way in defer chains.
func (g *Generator) Dispose() {}

func (g *Generator) scalarType() *types.IntType {
	switch g.cfg.ScalarWidth {
	case 8:
		return types.I8
	case 16:
		return types.I16
	case 32:
		return types.I32
	default:
		return types.I64
	}
}

func (g *Generator) elemType() types.Type {
	scalar := g.scalarType()
	if g.cfg.VectorWidth > 1 {
		return types.NewVector(uint64(g.cfg.VectorWidth), scalar)
	}
	return scalar
}

// Generate builds both the void and the popcount variant of name over
// the subtree rooted at r in b, whose free variables must all appear
// in variables (order matters: it is the ABI's input-pointer order).
// It returns a *errs.CompilerError if the expression references a
// variable absent from variables.
func (g *Generator) Generate(name string, b *expr.Builder, r expr.Ref, variables []string) error {
	if err := checkVariablesBound(b, r, variables); err != nil {
		return err
	}
	g.generateVariant(name, b, r, variables, false)
	g.generateVariant(name+"_popcount", b, r, variables, true)
	return nil
}

func checkVariablesBound(b *expr.Builder, r expr.Ref, variables []string) error {
	bound := make(map[string]struct{}, len(variables))
	for _, v := range variables {
		bound[v] = struct{}{}
	}
	for _, used := range expr.Variables(b, r) {
		if _, ok := bound[used]; !ok {
			return &errs.CompilerError{Reason: fmt.Sprintf("variable %q is not bound in the query's variable list", used)}
		}
	}
	return nil
}

// generateVariant emits one function. withPopcount selects the
// NAME_popcount shape (i32 return, ctpop accumulation); otherwise the
// function returns void.
func (g *Generator) generateVariant(fnName string, b *expr.Builder, r expr.Ref, variables []string, withPopcount bool) *ir.Func {
	elemTy := g.elemType()
	elemPtrTy := types.NewPointer(elemTy)
	inputsTy := types.NewPointer(elemPtrTy)

	retTy := types.Void
	if withPopcount {
		retTy = types.I32
	}

	inputsParam := ir.NewParam("inputs", inputsTy)
	outputParam := ir.NewParam("output", elemPtrTy)
	fn := g.module.NewFunc(fnName, retTy, inputsParam, outputParam)

	entry := fn.NewBlock("entry")
	iAlloca := entry.NewAlloca(types.I32)
	iAlloca.SetName("i.addr")
	entry.NewStore(constant.NewInt(types.I32, 0), iAlloca)

	var accAlloca *ir.InstAlloca
	if withPopcount {
		accAlloca = entry.NewAlloca(types.I32)
		accAlloca.SetName("acc.addr")
		entry.NewStore(constant.NewInt(types.I32, 0), accAlloca)
	}

	loopCond := fn.NewBlock("loop.cond")
	loopBody := fn.NewBlock("loop.body")
	loopEnd := fn.NewBlock("loop.end")
	entry.NewBr(loopCond)

	i := loopCond.NewLoad(types.I32, iAlloca)
	wordCount := constant.NewInt(types.I32, int64(g.cfg.WordCount()))
	cond := loopCond.NewICmp(enum.IPredSLT, i, wordCount)
	loopCond.NewCondBr(cond, loopBody, loopEnd)

	iBody := loopBody.NewLoad(types.I32, iAlloca)

	values := make(map[string]value.Value, len(variables))
	for pos, name := range variables {
		slotPtr := loopBody.NewGetElementPtr(elemPtrTy, inputsParam, constant.NewInt(types.I32, int64(pos)))
		slotPtr.SetName(name + ".slot")
		varBase := loopBody.NewLoad(elemPtrTy, slotPtr)
		varBase.SetName(name + ".base")
		elemPtr := loopBody.NewGetElementPtr(elemTy, varBase, iBody)
		elemPtr.SetName(name + ".elem")
		val := loopBody.NewLoad(elemTy, elemPtr)
		val.SetName(name + ".val")
		values[name] = val
	}

	lv := &llvmVisitor{g: g, block: loopBody, elemTy: elemTy, values: values}
	result := expr.Match(b, r, lv)

	outElemPtr := loopBody.NewGetElementPtr(elemTy, outputParam, iBody)
	outElemPtr.SetName("out.elem")
	loopBody.NewStore(result, outElemPtr)

	if withPopcount {
		popcount := g.ctpop(loopBody, result, elemTy)
		cur := loopBody.NewLoad(types.I32, accAlloca)
		next := loopBody.NewAdd(cur, popcount)
		loopBody.NewStore(next, accAlloca)
	}

	iNext := loopBody.NewAdd(iBody, constant.NewInt(types.I32, 1))
	loopBody.NewStore(iNext, iAlloca)
	loopBody.NewBr(loopCond)

	if withPopcount {
		final := loopEnd.NewLoad(types.I32, accAlloca)
		loopEnd.NewRet(final)
	} else {
		loopEnd.NewRet(nil)
	}

	return fn
}

// ctpop lowers to the llvm.ctpop intrinsic for elemTy (declared lazily
// as an external function) and reduces a vector result to a scalar
// i32 by horizontal addition across lanes.
func (g *Generator) ctpop(block *ir.Block, v value.Value, elemTy types.Type) value.Value {
	intrinsicName := "llvm.ctpop." + llvmTypeMangling(elemTy)
	fn := g.declareIntrinsic(intrinsicName, elemTy)
	raw := block.NewCall(fn, v)

	if g.cfg.VectorWidth <= 1 {
		return castToI32(block, raw, g.scalarType())
	}

	acc := value.Value(constant.NewInt(types.I32, 0))
	for lane := 0; lane < g.cfg.VectorWidth; lane++ {
		elem := block.NewExtractElement(raw, constant.NewInt(types.I32, int64(lane)))
		elem32 := castToI32(block, elem, g.scalarType())
		acc = block.NewAdd(acc, elem32)
	}
	return acc
}

func (g *Generator) declareIntrinsic(name string, elemTy types.Type) *ir.Func {
	for _, f := range g.module.Funcs {
		if f.Name() == name {
			return f
		}
	}
	return g.module.NewFunc(name, elemTy, ir.NewParam("", elemTy))
}

func castToI32(block *ir.Block, v value.Value, from *types.IntType) value.Value {
	switch {
	case from.BitSize == 32:
		return v
	case from.BitSize < 32:
		return block.NewZExt(v, types.I32)
	default:
		return block.NewTrunc(v, types.I32)
	}
}

func llvmTypeMangling(t types.Type) string {
	switch tt := t.(type) {
	case *types.VectorType:
		return fmt.Sprintf("v%d%s", tt.Len, llvmTypeMangling(tt.ElemType))
	case *types.IntType:
		return fmt.Sprintf("i%d", tt.BitSize)
	default:
		panic("codegen: unsupported element type for intrinsic mangling")
	}
}

// CompileIR returns the module's textual LLVM IR, for the
// compile_ir/debugging path that never registers executable code and
// for feeding pkg/jit's textual-IR bridge into the cgo-based engine.
func (g *Generator) CompileIR() string {
	return g.module.String()
}
