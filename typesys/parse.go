package typesys

import (
	"fmt"
	"strings"
	"unicode"
)

// Scope resolves names that are not in the universe, typically type variables.
type Scope func(name string) *Type

// Parse reads a type written in source form, e.g. "java.util.Map<K, java.util.List<V>>[]",
// "? extends Number" or "String...". Names are looked up in scope first, then as qualified
// and finally as simple names in the universe. A trailing "..." reads as one more array
// dimension.
func (u *Universe) Parse(src string, scope Scope) (*Type, error) {
	p := &typeParser{u: u, scope: scope, toks: tokenizeType(src)}
	t, err := p.parseArg()
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", src, err)
	}
	if p.pos < len(p.toks) {
		return nil, fmt.Errorf("parse type %q: unexpected %q", src, p.toks[p.pos])
	}
	return t, nil
}

// MustParse is Parse for fixtures; it panics on error.
func (u *Universe) MustParse(src string) *Type {
	t, err := u.Parse(src, nil)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	u     *Universe
	scope Scope
	toks  []string
	pos   int
}

func tokenizeType(s string) (out []string) {
	for i := 0; i < len(s); {
		c := rune(s[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case strings.HasPrefix(s[i:], "..."):
			out = append(out, "...")
			i += 3
		case strings.ContainsRune("<>,[]?&", c):
			out = append(out, string(c))
			i++
		default:
			j := i
			for j < len(s) && isIdentByte(s, j) {
				j++
			}
			if j == i {
				j = i + 1
			}
			out = append(out, s[i:j])
			i = j
		}
	}
	return out
}

func isIdentByte(s string, j int) bool {
	c := rune(s[j])
	if c == '.' {
		return !strings.HasPrefix(s[j:], "...")
	}
	return c == '_' || c == '$' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func (p *typeParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *typeParser) expect(tok string) error {
	if p.peek() != tok {
		if p.peek() == "" {
			return fmt.Errorf("expected %q at end of input", tok)
		}
		return fmt.Errorf("expected %q, found %q", tok, p.peek())
	}
	p.pos++
	return nil
}

// parseArg reads a type or a wildcard.
func (p *typeParser) parseArg() (*Type, error) {
	if p.peek() != "?" {
		return p.parseType()
	}
	p.pos++
	switch p.peek() {
	case "extends", "super":
		upper := p.peek() == "extends"
		p.pos++
		bound, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return WildcardOf(bound, upper), nil
	}
	return WildcardOf(nil, false), nil
}

func (p *typeParser) parseType() (*Type, error) {
	name := p.peek()
	if name == "" || strings.ContainsAny(name, "<>,[]?&") || name == "..." {
		return nil, fmt.Errorf("expected a type name, found %q", name)
	}
	p.pos++
	base := p.resolve(name)
	if base == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	if p.peek() == "<" {
		p.pos++
		var args []*Type
		for {
			arg, err := p.parseArg()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek() != "," {
				break
			}
			p.pos++
		}
		if err := p.expect(">"); err != nil {
			return nil, err
		}
		if !base.IsDeclared() {
			return nil, fmt.Errorf("%s cannot take type arguments", base)
		}
		base = Parameterize(base, args...)
	}
	dims := 0
	for p.peek() == "[" {
		p.pos++
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		dims++
	}
	if p.peek() == "..." {
		p.pos++
		dims++
	}
	if dims > 0 {
		if base.IsVoid() {
			return nil, fmt.Errorf("void cannot be an array element")
		}
		return ArrayOf(base, dims), nil
	}
	return base, nil
}

func (p *typeParser) resolve(name string) *Type {
	if p.scope != nil {
		if t := p.scope(name); t != nil {
			return t
		}
	}
	return p.u.Resolve(name)
}
