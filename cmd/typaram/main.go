package main

import (
	"fmt"
	"io"
	"os"

	"github.com/funvibe/typaram/internal/declfile"
	"github.com/funvibe/typaram/internal/diag"
	"github.com/funvibe/typaram/internal/registry"
)

const version = "0.1.0"

func usage(out io.Writer) {
	fmt.Fprintln(out, "Usage: typaram <command> [arguments]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  check <file.yaml>...   validate declarations and resolve subscriptions")
	fmt.Fprintln(out, "  version                print version")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		usage(errOut)
		return 2
	}

	switch args[0] {
	case "version", "-v", "--version":
		fmt.Fprintf(out, "typaram %s\n", version)
		return 0
	case "check":
		if len(args) < 2 {
			usage(errOut)
			return 2
		}
		violations := 0
		for _, path := range args[1:] {
			f, err := declfile.Load(path)
			if err != nil {
				fmt.Fprintf(errOut, "typaram: %v\n", err)
				return 2
			}
			violations += checkFile(f, out)
		}
		if violations > 0 {
			return 1
		}
		return 0
	default:
		fmt.Fprintf(errOut, "typaram: unknown command %q\n", args[0])
		usage(errOut)
		return 2
	}
}

// checkFile declares every construct and runs every subscription of a
// declaration file, printing one line per outcome. Returns the number of
// rule violations encountered.
func checkFile(f *declfile.File, out io.Writer) int {
	printer := diag.NewPrinter(out)
	violations := 0

	env, err := f.Env()
	if err != nil {
		printer.Violation("types", err)
		return violations + 1
	}

	reg := registry.New(nil)
	for i := range f.Constructs {
		c := &f.Constructs[i]

		if c.Extends != nil {
			baseID, _, ok := reg.LookupName(c.Extends.Base)
			if !ok {
				printer.Violation(c.Name, fmt.Errorf("unknown base construct %q", c.Extends.Base))
				violations++
				continue
			}
			args, err := declfile.BuildArgs(c.Extends.Args, env)
			if err != nil {
				printer.Violation(c.Name, err)
				violations++
				continue
			}
			_, derived, err := reg.Specialize(baseID, c.Name, args)
			if err != nil {
				printer.Violation(c.Name, err)
				violations++
				continue
			}
			printer.Declared(c.Name, derived.Decls().Len()-len(derived.Prefix()))
			continue
		}

		params, err := c.BuildParams(env)
		if err != nil {
			printer.Violation(c.Name, err)
			violations++
			continue
		}
		if _, _, err := reg.Declare(c.Name, params); err != nil {
			printer.Violation(c.Name, err)
			violations++
			continue
		}
		printer.Declared(c.Name, len(params))
	}

	for _, s := range f.Subscriptions {
		_, c, ok := reg.LookupName(s.Construct)
		if !ok {
			// The construct failed to declare above; already counted.
			continue
		}
		args, err := declfile.BuildArgs(s.Args, env)
		if err != nil {
			printer.Violation(s.Construct, err)
			violations++
			continue
		}
		resolved, err := c.Subscribe(args)
		if err != nil {
			printer.Violation(s.Construct, err)
			violations++
			continue
		}
		printer.Resolution(s.Construct, resolved)
	}

	return violations
}
