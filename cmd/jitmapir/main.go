// Command jitmapir prints the optimised LLVM IR for a single query
// expression given on the command line. It never registers any
// executable code: it is the compile_ir debugging path with no JIT
// engine attached.
//
// Usage:
//
//	jitmapir '<query expression>'
package main

import (
	"fmt"
	"os"

	"github.com/jitmap/jitmap/pkg/query/codegen"
	"github.com/jitmap/jitmap/pkg/query/expr"
	"github.com/jitmap/jitmap/pkg/query/optimizer"
	"github.com/jitmap/jitmap/pkg/query/parser"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: jitmapir '<query expression>'")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(src string) error {
	b := expr.NewBuilder()
	ref, err := parser.Parse(src, b)
	if err != nil {
		return err
	}

	optimised, optimisedRef := optimizer.New().Optimize(b, ref)
	variables := expr.Variables(optimised, optimisedRef)

	gen := codegen.New("jitmapir_module", codegen.Config{})
	defer gen.Dispose()
	if err := gen.Generate("query", optimised, optimisedRef, variables); err != nil {
		return err
	}

	fmt.Print(gen.CompileIR())
	return nil
}
