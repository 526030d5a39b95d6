// Command jitmap is the full CLI over the boolean bitmap query
// engine: compile-and-evaluate a query, dump its compiled LLVM IR, or
// drop into an interactive REPL.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jitmap/jitmap/internal/container"
	"github.com/jitmap/jitmap/internal/obslog"
	"github.com/jitmap/jitmap/pkg/embed"
	"github.com/jitmap/jitmap/pkg/query/codegen"
	"github.com/jitmap/jitmap/pkg/query/expr"
	"github.com/jitmap/jitmap/pkg/query/optimizer"
	"github.com/jitmap/jitmap/pkg/query/parser"
	"github.com/jitmap/jitmap/pkg/repl"
)

// version info set by the release process via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var verbose bool

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "jitmap",
		Short: "JIT-compiled boolean bitmap queries",
		Long: `jitmap compiles boolean expressions over fixed-size bitmap
containers into native code via LLVM, then evaluates them directly.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newEvalCommand())
	root.AddCommand(newIRCommand())
	root.AddCommand(newReplCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func newEvalCommand() *cobra.Command {
	var inputHex map[string]string

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Compile and evaluate a query against hex-encoded per-byte inputs",
		Long: `eval compiles <expression>, tiles each --input=NAME=HEXBYTE value
across a full container, evaluates the query, and prints the resulting
popcount and the first output byte in hex.

Example:
  jitmap eval 'a & !b' --input a=12 --input b=c8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args[0], inputHex)
		},
	}
	cmd.Flags().StringToStringVar(&inputHex, "input", nil, "NAME=HEXBYTE, tiled across the whole container")
	return cmd
}

func runEval(cmd *cobra.Command, src string, inputHex map[string]string) error {
	inputs := make(map[string][]byte, len(inputHex))
	for name, hex := range inputHex {
		b, err := parseHexByte(hex)
		if err != nil {
			return fmt.Errorf("--input %s: %w", name, err)
		}
		inputs[name] = tileByte(b)
	}

	if verbose {
		obslog.Default.Info("evaluating query", "expression", src, "inputs", len(inputs))
	}

	popcount, output, err := embed.Eval("jitmap_eval", src, inputs)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "popcount: %d\n", popcount)
	fmt.Fprintf(cmd.OutOrStdout(), "output[0]: %#02x\n", output[0])
	return nil
}

func parseHexByte(s string) (byte, error) {
	var b byte
	if _, err := fmt.Sscanf(s, "%02x", &b); err != nil {
		return 0, fmt.Errorf("expected a two-digit hex byte, got %q", s)
	}
	return b, nil
}

func tileByte(b byte) []byte {
	out := make([]byte, container.BytesPerContainer)
	for i := range out {
		out[i] = b
	}
	return out
}

func newIRCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ir <expression>",
		Short: "Print the optimised LLVM IR for a query expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIR(cmd, args[0])
		},
	}
}

func runIR(cmd *cobra.Command, src string) error {
	b := expr.NewBuilder()
	ref, err := parser.Parse(src, b)
	if err != nil {
		return err
	}

	optimised, optimisedRef := optimizer.New().Optimize(b, ref)
	variables := expr.Variables(optimised, optimisedRef)

	if verbose {
		obslog.Default.Info("generating IR", "expression", src, "variables", variables)
	}

	gen := codegen.New("jitmap_ir_module", codegen.Config{})
	defer gen.Dispose()
	if err := gen.Generate("query", optimised, optimisedRef, variables); err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), gen.CompileIR())
	return nil
}

func newReplCommand() *cobra.Command {
	var showIR bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive query REPL",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := repl.New()
			defer r.Close()
			r.SetShowIR(showIR)
			r.Start(cmd.InOrStdin(), cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&showIR, "ir", false, "print compiled LLVM IR after each evaluation")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "jitmap version %s\n", version)
			if commit != "none" {
				fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
			}
			if date != "unknown" {
				fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", date)
			}
			return nil
		},
	}
}
