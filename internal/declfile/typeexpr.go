package declfile

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/funvibe/typaram/internal/typesystem"
)

// ParseType parses a type expression into a type description.
//
// The grammar covers what declaration fixtures need:
//
//	union     := primary ('|' primary)*
//	primary   := '(' union (',' union)* ')'        tuple, or grouping if no comma
//	           | '[' (union (',' union)*)? ']'     parameter-list shape
//	           | '*' name                           unpacked variadic reference
//	           | name ('[' union (',' union)* ']')? named type or application
//
// A name found in scope becomes a parameter reference; otherwise it is
// looked up in env (picking up a declared supertype) and falls back to a
// plain named type.
func ParseType(src string, scope map[string]bool, env map[string]typesystem.TCon) (typesystem.Type, error) {
	p := &typeParser{src: src, scope: scope, env: env}
	t, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos < len(p.src) {
		return nil, fmt.Errorf("unexpected %q at offset %d in %q", p.src[p.pos], p.pos, p.src)
	}
	return t, nil
}

type typeParser struct {
	src   string
	pos   int
	scope map[string]bool
	env   map[string]typesystem.TCon
}

func (p *typeParser) parseUnion() (typesystem.Type, error) {
	first, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	members := []typesystem.Type{first}
	for p.peek() == '|' {
		p.pos++
		next, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return first, nil
	}
	return typesystem.NormalizeUnion(members), nil
}

func (p *typeParser) parsePrimary() (typesystem.Type, error) {
	switch p.peek() {
	case '(':
		p.pos++
		elems, err := p.parseList(')')
		if err != nil {
			return nil, err
		}
		if len(elems) == 1 {
			return elems[0], nil // grouping, not a 1-tuple
		}
		return typesystem.TTuple{Elements: elems}, nil

	case '[':
		p.pos++
		params, err := p.parseList(']')
		if err != nil {
			return nil, err
		}
		return typesystem.TParamList{Params: params}, nil

	case '*':
		p.pos++
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		// An unpacked variadic always references a parameter.
		return typesystem.TParam{Name: name}, nil
	}

	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	base := p.resolveName(name)

	if p.peek() == '[' {
		p.pos++
		args, err := p.parseList(']')
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("empty type argument list after %q in %q", name, p.src)
		}
		return typesystem.TApp{Constructor: base, Args: args}, nil
	}
	return base, nil
}

// parseList parses a comma-separated list of unions up to the closing rune.
// The opening rune is already consumed.
func (p *typeParser) parseList(closing byte) ([]typesystem.Type, error) {
	elems := []typesystem.Type{}
	if p.peek() == closing {
		p.pos++
		return elems, nil
	}
	for {
		t, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		elems = append(elems, t)
		switch p.peek() {
		case ',':
			p.pos++
		case closing:
			p.pos++
			return elems, nil
		default:
			return nil, fmt.Errorf("expected %q or ',' at offset %d in %q", string(closing), p.pos, p.src)
		}
	}
}

func (p *typeParser) parseName() (string, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		if p.pos < len(p.src) {
			return "", fmt.Errorf("unexpected %q at offset %d in %q", p.src[p.pos], p.pos, p.src)
		}
		return "", fmt.Errorf("unexpected end of type expression %q", p.src)
	}
	return p.src[start:p.pos], nil
}

func (p *typeParser) resolveName(name string) typesystem.Type {
	if p.scope != nil && p.scope[name] {
		return typesystem.TParam{Name: name}
	}
	if tcon, ok := p.env[name]; ok {
		return tcon
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		return typesystem.TCon{Module: name[:i], Name: name[i+1:]}
	}
	return typesystem.TCon{Name: name}
}

// peek returns the next non-space byte without consuming it, or 0 at end.
func (p *typeParser) peek() byte {
	p.skipSpaces()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) skipSpaces() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}
