// Package diag renders the engine's structured errors for the CLI. The
// library itself never formats diagnostics; this is the one place text and
// color happen.
package diag

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/funvibe/typaram/internal/typaram"
	"github.com/funvibe/typaram/internal/typesystem"
)

func init() {
	// fatih/color consults NoColor itself; decide once from the real stdout
	// so piped output stays plain.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

// Printer writes human-readable results and diagnostics.
type Printer struct {
	out io.Writer

	okc   *color.Color
	errc  *color.Color
	rulec *color.Color
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:   out,
		okc:   color.New(color.FgGreen),
		errc:  color.New(color.FgRed, color.Bold),
		rulec: color.New(color.FgYellow),
	}
}

// Resolution prints a fully specialized argument list.
func (p *Printer) Resolution(construct string, args []typesystem.Type) {
	p.okc.Fprintf(p.out, "ok")
	fmt.Fprintf(p.out, " %s", construct)
	fmt.Fprint(p.out, "[")
	for i, a := range args {
		if i > 0 {
			fmt.Fprint(p.out, ", ")
		}
		fmt.Fprint(p.out, a.String())
	}
	fmt.Fprintln(p.out, "]")
}

// Declared prints a successful declaration.
func (p *Printer) Declared(construct string, n int) {
	p.okc.Fprintf(p.out, "ok")
	fmt.Fprintf(p.out, " %s declared (%d parameters)\n", construct, n)
}

// Violation prints a rule violation with its taxonomy name.
func (p *Printer) Violation(construct string, err error) {
	p.errc.Fprint(p.out, "error")
	fmt.Fprintf(p.out, " %s: ", construct)
	p.rulec.Fprintf(p.out, "[%s]", RuleName(err))
	fmt.Fprintf(p.out, " %v\n", err)
}

// RuleName maps an engine error to its taxonomy name; unknown errors map
// to "error".
func RuleName(err error) string {
	var (
		ordering   *typaram.OrderingViolationError
		adjacency  *typaram.AdjacencyViolationError
		scope      *typaram.ScopeViolationError
		kind       *typaram.KindMismatchError
		bound      *typaram.BoundIncompatibleError
		constraint *typaram.ConstraintIncompatibleError
		under      *typaram.UndersuppliedError
		over       *typaram.OversuppliedError
		respec     *typaram.ReSpecializationError
	)
	switch {
	case errors.As(err, &ordering):
		return "ordering-violation"
	case errors.As(err, &adjacency):
		return "adjacency-violation"
	case errors.As(err, &scope):
		return "scope-violation"
	case errors.As(err, &kind):
		return "kind-mismatch"
	case errors.As(err, &bound):
		return "bound-incompatible"
	case errors.As(err, &constraint):
		return "constraint-incompatible"
	case errors.As(err, &under):
		return "undersupplied-subscription"
	case errors.As(err, &over):
		return "oversupplied-subscription"
	case errors.As(err, &respec):
		return "re-specialization-rejected"
	}
	return "error"
}
