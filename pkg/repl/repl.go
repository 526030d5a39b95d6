// Package repl provides an interactive shell over pkg/query: read a
// query expression, report parse/optimise errors inline, and on
// success print the optimised form, its variables, and (on request)
// its compiled LLVM IR.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jitmap/jitmap/pkg/jit"
	"github.com/jitmap/jitmap/pkg/query"
	"github.com/jitmap/jitmap/pkg/query/codegen"
	"github.com/jitmap/jitmap/pkg/query/expr"
	"github.com/jitmap/jitmap/pkg/query/optimizer"
	"github.com/jitmap/jitmap/pkg/query/parser"
)

const (
	prompt = "jitmap> "
)

// REPL provides an interactive Read-Eval-Print Loop over the query
// pipeline.
type REPL struct {
	ctx     *query.ExecutionContext
	showIR  bool
	history []string
	nameSeq int
}

// New creates a REPL backed by a fresh, private ExecutionContext.
func New() *REPL {
	return &REPL{
		ctx:     query.NewExecutionContext(jit.OptDefault),
		history: []string{},
	}
}

// Close releases the REPL's ExecutionContext.
func (r *REPL) Close() { r.ctx.Close() }

// SetShowIR toggles whether successful evaluations also print the
// compiled LLVM IR.
func (r *REPL) SetShowIR(show bool) { r.showIR = show }

// Start starts the REPL loop, reading lines from in and writing
// prompts/results to out, until in is exhausted or a quit command is
// read.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "jitmap REPL - boolean bitmap query engine")
	fmt.Fprintln(out, "Type 'help' for available commands, 'quit' to exit")
	fmt.Fprintln(out)

	for {
		fmt.Fprint(out, prompt)

		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		if handled := r.handleCommand(line, out); handled {
			if fields := strings.Fields(line); len(fields) > 0 {
				switch fields[0] {
				case "quit", "exit", "q":
					return
				}
			}
			continue
		}

		r.eval(line, out)
	}
}

func (r *REPL) handleCommand(line string, out io.Writer) bool {
	trimmed := strings.TrimSpace(line)
	parts := strings.Fields(trimmed)
	if len(parts) == 0 {
		return true
	}

	switch parts[0] {
	case "quit", "exit", "q":
		fmt.Fprintln(out, "Goodbye!")
		return true

	case "help", "h", "?":
		r.printHelp(out)
		return true

	case "ir":
		if len(parts) > 1 {
			switch parts[1] {
			case "on":
				r.showIR = true
				fmt.Fprintln(out, "IR printing enabled")
			case "off":
				r.showIR = false
				fmt.Fprintln(out, "IR printing disabled")
			default:
				fmt.Fprintln(out, "Usage: ir [on|off]")
			}
		} else {
			fmt.Fprintf(out, "IR printing is %s\n", onOff(r.showIR))
		}
		return true

	case "history":
		for i, cmd := range r.history {
			fmt.Fprintf(out, "%3d: %s\n", i+1, cmd)
		}
		return true
	}

	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// eval parses and optimises input as a query expression (no name
// needed: the REPL never publishes into the JIT engine, it only
// reports the parsed/optimised form and, if requested, the IR that
// publishing it would produce) and reports the result.
func (r *REPL) eval(input string, out io.Writer) {
	if strings.TrimSpace(input) == "" {
		return
	}
	r.history = append(r.history, input)

	b := expr.NewBuilder()
	ref, err := parser.Parse(input, b)
	if err != nil {
		fmt.Fprintf(out, "parse error: %v\n", err)
		return
	}

	optimised, optimisedRef := optimizer.New().Optimize(b, ref)
	variables := expr.Variables(optimised, optimisedRef)

	fmt.Fprintf(out, "variables: %s\n", expr.Join(variables, ", "))
	fmt.Fprintf(out, "optimised: %s\n", expr.String(optimised, optimisedRef))

	if r.showIR {
		r.nameSeq++
		name := fmt.Sprintf("repl_q%d", r.nameSeq)
		gen := codegen.New(name+"_module", codegen.Config{})
		defer gen.Dispose()
		if err := gen.Generate(name, optimised, optimisedRef, variables); err != nil {
			fmt.Fprintf(out, "codegen error: %v\n", err)
			return
		}
		fmt.Fprintln(out, gen.CompileIR())
	}
}

func (r *REPL) printHelp(out io.Writer) {
	help := `
jitmap REPL commands:
  help, h, ?      Show this help message
  quit, exit, q   Exit the REPL
  ir [on|off]     Show or set whether evaluations print compiled LLVM IR
  history         Show command history

Enter a boolean bitmap expression to parse and optimise it, e.g.:
  a & !b
  (a | b) ^ $1
`
	fmt.Fprint(out, help)
}
