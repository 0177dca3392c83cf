// Package declfile implements the typaram.yaml fixture format: a YAML
// description of named types, generic constructs with their type-parameter
// declarations, and use-site subscriptions to run against them.
//
// It is the syntax-layer stand-in for a hosting type checker: the CLI and
// the test corpus feed declaration records through it into the engine.
package declfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/typaram/internal/typaram"
	"github.com/funvibe/typaram/internal/typesystem"
)

// File represents a top-level typaram.yaml document.
type File struct {
	// Types declares named types with an optional supertype, forming the
	// nominal environment bound checks walk over.
	Types []NamedType `yaml:"types,omitempty"`

	// Constructs lists the generic constructs to declare, in order.
	// A construct may extend an earlier one, fixing a prefix of its
	// parameters (partial specialization).
	Constructs []Construct `yaml:"constructs"`

	// Subscriptions lists use-site instantiations to check and resolve.
	Subscriptions []Subscription `yaml:"subscriptions,omitempty"`
}

// NamedType declares a concrete type for the fixture's environment.
type NamedType struct {
	Name string `yaml:"name"`

	// Super is the declared supertype, if any (e.g. "bool" under "int").
	Super string `yaml:"super,omitempty"`
}

// Construct declares one generic construct.
type Construct struct {
	Name string `yaml:"name"`

	// Kind tags the construct: "type" (default), "alias", or "func".
	// The engine applies identical rules to all three.
	Kind string `yaml:"kind,omitempty"`

	// Params declares the type parameters, in order. Empty when the
	// construct extends another one without adding parameters of its own.
	Params []Param `yaml:"params,omitempty"`

	// Extends builds this construct on top of an earlier one, fixing a
	// prefix of the base's parameters.
	Extends *Extends `yaml:"extends,omitempty"`
}

// Extends fixes a prefix of a base construct's parameters.
type Extends struct {
	Base string   `yaml:"base"`
	Args []string `yaml:"args"`
}

// Param declares a single type parameter. Exactly one of Bound and
// Constraints may be present.
type Param struct {
	Name string `yaml:"name"`

	// Kind is "single" (default), "variadic", or "paramspec".
	Kind string `yaml:"kind,omitempty"`

	// Bound is an upper-bound type expression (e.g. "int | str").
	Bound string `yaml:"bound,omitempty"`

	// Constraints is an exact, finite set of permitted substitutions.
	Constraints []string `yaml:"constraints,omitempty"`

	// Default is a default type expression. It may name an earlier
	// parameter of the same construct ("StartT") or embed one ("list[T]").
	Default string `yaml:"default,omitempty"`
}

// Subscription supplies concrete type arguments to a declared construct.
type Subscription struct {
	Construct string   `yaml:"construct"`
	Args      []string `yaml:"args"`
}

// Parse decodes a typaram.yaml document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing declaration file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and decodes a typaram.yaml document from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

func (f *File) validate() error {
	names := make(map[string]bool, len(f.Constructs))
	for i, c := range f.Constructs {
		if c.Name == "" {
			return fmt.Errorf("construct %d: missing name", i)
		}
		if names[c.Name] {
			return fmt.Errorf("construct %s: declared twice", c.Name)
		}
		names[c.Name] = true

		switch c.Kind {
		case "", "type", "alias", "func":
		default:
			return fmt.Errorf("construct %s: unknown kind %q", c.Name, c.Kind)
		}
		if c.Extends != nil && c.Extends.Base == "" {
			return fmt.Errorf("construct %s: extends without a base", c.Name)
		}
		if c.Extends != nil && len(c.Params) > 0 {
			return fmt.Errorf("construct %s: extends and params are mutually exclusive", c.Name)
		}

		for _, p := range c.Params {
			if p.Name == "" {
				return fmt.Errorf("construct %s: parameter with no name", c.Name)
			}
			switch p.Kind {
			case "", "single", "variadic", "paramspec":
			default:
				return fmt.Errorf("construct %s: parameter %s: unknown kind %q", c.Name, p.Name, p.Kind)
			}
			if p.Bound != "" && len(p.Constraints) > 0 {
				return fmt.Errorf("construct %s: parameter %s: bound and constraints are mutually exclusive", c.Name, p.Name)
			}
		}
	}

	for i, s := range f.Subscriptions {
		if s.Construct == "" {
			return fmt.Errorf("subscription %d: missing construct", i)
		}
		if !names[s.Construct] {
			return fmt.Errorf("subscription %d: unknown construct %q", i, s.Construct)
		}
	}
	return nil
}

// Env builds the nominal type environment declared by the Types section.
// Supertypes may reference builtins or earlier entries.
func (f *File) Env() (map[string]typesystem.TCon, error) {
	env := make(map[string]typesystem.TCon, len(f.Types))
	for _, nt := range f.Types {
		if nt.Name == "" {
			return nil, fmt.Errorf("named type with no name")
		}
		tcon := typesystem.TCon{Name: nt.Name}
		if nt.Super != "" {
			super, ok := env[nt.Super]
			if !ok {
				super = typesystem.TCon{Name: nt.Super}
			}
			tcon.Super = super
		}
		env[nt.Name] = tcon
	}
	return env, nil
}

// BuildParams converts a construct's parameter declarations into engine
// parameters. Bounds and constraints are parsed eagerly; defaults stay
// deferred — the expression is only parsed when validation first asks for
// the value.
func (c *Construct) BuildParams(env map[string]typesystem.TCon) ([]*typaram.TypeParameter, error) {
	scope := make(map[string]bool, len(c.Params))
	for _, p := range c.Params {
		scope[p.Name] = true
	}

	out := make([]*typaram.TypeParameter, 0, len(c.Params))
	for _, p := range c.Params {
		tp := &typaram.TypeParameter{Name: p.Name, Kind: paramKind(p.Kind)}

		if p.Bound != "" {
			bound, err := ParseType(p.Bound, scope, env)
			if err != nil {
				return nil, fmt.Errorf("construct %s: bound of %s: %w", c.Name, p.Name, err)
			}
			tp.Bound = bound
		}
		for _, raw := range p.Constraints {
			ct, err := ParseType(raw, scope, env)
			if err != nil {
				return nil, fmt.Errorf("construct %s: constraint of %s: %w", c.Name, p.Name, err)
			}
			tp.Constraints = append(tp.Constraints, ct)
		}
		if p.Default != "" {
			src := p.Default
			tp.Default = typaram.Deferred(func() (typesystem.Type, error) {
				return ParseType(src, scope, env)
			})
		}
		out = append(out, tp)
	}
	return out, nil
}

// BuildArgs parses a subscription's (or extends clause's) argument
// expressions. Arguments are concrete: parameter names are not in scope.
func BuildArgs(raw []string, env map[string]typesystem.TCon) ([]typesystem.Type, error) {
	args := make([]typesystem.Type, len(raw))
	for i, r := range raw {
		t, err := ParseType(r, nil, env)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = t
	}
	return args, nil
}

func paramKind(s string) typaram.ParamKind {
	switch s {
	case "variadic":
		return typaram.VariadicTuple
	case "paramspec":
		return typaram.ParameterSpec
	}
	return typaram.Single
}
