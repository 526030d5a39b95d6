package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/jitmap/jitmap/pkg/query/expr"
)

// llvmVisitor lowers one expr.Node at a time into the LLVM value that
// computes it, given the already-loaded per-variable word/vector
// values for the current loop iteration. LLVM IR has no dedicated Not
// instruction; Not lowers to xor against an all-ones constant, the
// standard encoding every LLVM frontend uses for boolean negation.
type llvmVisitor struct {
	g      *Generator
	block  *ir.Block
	elemTy types.Type
	values map[string]value.Value
}

func (v *llvmVisitor) VisitEmpty() value.Value {
	return zeroConst(v.elemTy)
}

func (v *llvmVisitor) VisitFull() value.Value {
	return allOnesConst(v.elemTy)
}

func (v *llvmVisitor) VisitVariable(name string) value.Value {
	val, ok := v.values[name]
	if !ok {
		panic("codegen: unbound variable " + name + " reached lowering")
	}
	return val
}

func (v *llvmVisitor) VisitNot(operand value.Value) value.Value {
	return v.block.NewXor(operand, allOnesConst(v.elemTy))
}

func (v *llvmVisitor) VisitAnd(left, right value.Value) value.Value {
	return v.block.NewAnd(left, right)
}

func (v *llvmVisitor) VisitOr(left, right value.Value) value.Value {
	return v.block.NewOr(left, right)
}

func (v *llvmVisitor) VisitXor(left, right value.Value) value.Value {
	return v.block.NewXor(left, right)
}

var _ expr.Visitor[value.Value] = (*llvmVisitor)(nil)

func zeroConst(t types.Type) value.Value {
	switch tt := t.(type) {
	case *types.VectorType:
		elem := zeroConst(tt.ElemType)
		elems := make([]constant.Constant, tt.Len)
		for i := range elems {
			elems[i] = elem.(constant.Constant)
		}
		return constant.NewVector(elems...)
	case *types.IntType:
		return constant.NewInt(tt, 0)
	default:
		panic("codegen: unsupported element type")
	}
}

func allOnesConst(t types.Type) value.Value {
	switch tt := t.(type) {
	case *types.VectorType:
		elem := allOnesConst(tt.ElemType)
		elems := make([]constant.Constant, tt.Len)
		for i := range elems {
			elems[i] = elem.(constant.Constant)
		}
		return constant.NewVector(elems...)
	case *types.IntType:
		return constant.NewInt(tt, -1)
	default:
		panic("codegen: unsupported element type")
	}
}
