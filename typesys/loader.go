package typesys

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed jdk.yaml
var jdkYAML []byte

// TypeFile is the YAML layout of a universe file.
type TypeFile struct {
	Types []TypeSpec `yaml:"types"`
}

type TypeSpec struct {
	Name       string       `yaml:"name"`
	Kind       string       `yaml:"kind"`
	TypeParams []string     `yaml:"typeParams,omitempty"`
	Super      string       `yaml:"super,omitempty"`
	Interfaces []string     `yaml:"interfaces,omitempty"`
	Methods    []MethodSpec `yaml:"methods,omitempty"`
	Fields     []FieldSpec  `yaml:"fields,omitempty"`
	Static     bool         `yaml:"static,omitempty"`
	Outer      string       `yaml:"outer,omitempty"`
}

type MethodSpec struct {
	Name        string   `yaml:"name"`
	TypeParams  []string `yaml:"typeParams,omitempty"`
	Params      []string `yaml:"params,omitempty"`
	Returns     string   `yaml:"returns,omitempty"`
	Static      bool     `yaml:"static,omitempty"`
	Abstract    bool     `yaml:"abstract,omitempty"`
	Constructor bool     `yaml:"constructor,omitempty"`
}

type FieldSpec struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Static bool   `yaml:"static,omitempty"`
}

// JDK returns a fresh universe with the embedded subset of the standard library.
func JDK() (*Universe, error) {
	u := NewUniverse()
	if err := u.LoadYAML(jdkYAML); err != nil {
		return nil, fmt.Errorf("embedded jdk universe: %w", err)
	}
	return u, nil
}

// LoadFile loads a YAML universe file into u.
func (u *Universe) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	if err := u.LoadYAML(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadYAML declares every type of a YAML universe document. Declarations are created in a
// first pass and filled in a second, so types may reference each other in any order.
func (u *Universe) LoadYAML(data []byte) error {
	var file TypeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}
	return u.Load(file)
}

// Load declares the types described by file.
func (u *Universe) Load(file TypeFile) error {
	shells := make([]*Type, len(file.Types))
	for i, spec := range file.Types {
		if spec.Name == "" {
			return fmt.Errorf("type #%d: missing name", i)
		}
		kind := spec.Kind
		if kind == "" {
			kind = "class"
		}
		tag, err := ParseTypeTag(kind)
		if err != nil {
			return fmt.Errorf("type %s: %w", spec.Name, err)
		}
		if !(&Type{Tag: tag}).IsDeclared() {
			return fmt.Errorf("type %s: kind %q cannot be declared", spec.Name, kind)
		}
		t := DeclaredType(tag, spec.Name)
		t.Static = spec.Static
		for _, tp := range spec.TypeParams {
			name, _, _ := strings.Cut(tp, " ")
			t.TypeParams = append(t.TypeParams, TypeVar(name, t))
		}
		if err := u.Declare(t); err != nil {
			return err
		}
		shells[i] = t
	}
	for i, spec := range file.Types {
		if err := u.fill(shells[i], spec); err != nil {
			return fmt.Errorf("type %s: %w", spec.Name, err)
		}
	}
	for _, t := range shells {
		if err := CheckAcyclic(t); err != nil {
			return err
		}
	}
	return nil
}

func (u *Universe) fill(t *Type, spec TypeSpec) error {
	scope := typeParamScope(t.TypeParams, nil)
	if err := u.fillBounds(t.TypeParams, spec.TypeParams, scope); err != nil {
		return err
	}
	if spec.Outer != "" {
		if t.Outer = u.Resolve(spec.Outer); t.Outer == nil {
			return fmt.Errorf("outer %s: %w", spec.Outer, ErrUnknownType)
		}
	}
	if spec.Super != "" {
		sup, err := u.Parse(spec.Super, scope)
		if err != nil {
			return fmt.Errorf("super: %w", err)
		}
		t.Super = sup
	} else {
		t.Super = u.defaultSuper(t)
	}
	for _, s := range spec.Interfaces {
		i, err := u.Parse(s, scope)
		if err != nil {
			return fmt.Errorf("interfaces: %w", err)
		}
		t.Interfaces = append(t.Interfaces, i)
	}
	if t.IsAnnotation() && len(t.Interfaces) == 0 {
		if a := u.Lookup(AnnotationName); a != nil && a != t {
			t.Interfaces = append(t.Interfaces, a)
		}
	}
	for _, ms := range spec.Methods {
		m, err := u.method(t, ms, scope)
		if err != nil {
			return fmt.Errorf("method %s: %w", ms.Name, err)
		}
		t.Methods = append(t.Methods, m)
	}
	for _, fs := range spec.Fields {
		ft, err := u.Parse(fs.Type, scope)
		if err != nil {
			return fmt.Errorf("field %s: %w", fs.Name, err)
		}
		t.Fields = append(t.Fields, &Field{Name: fs.Name, Type: ft, Static: fs.Static, DeclaringType: t})
	}
	return nil
}

// defaultSuper is Object for classes, Enum<E> for enums and nothing for interfaces.
func (u *Universe) defaultSuper(t *Type) *Type {
	if t.Name == ObjectName || t.IsInterface() || t.IsAnnotation() {
		return nil
	}
	if t.IsEnum() {
		if e := u.Lookup(EnumName); e != nil {
			if len(e.TypeParams) == 1 {
				return Parameterize(e, t)
			}
			return e
		}
	}
	return u.Object()
}

func (u *Universe) method(owner *Type, ms MethodSpec, outer Scope) (*Method, error) {
	m := &Method{
		Name:          ms.Name,
		DeclaringType: owner,
		Static:        ms.Static,
		Abstract:      ms.Abstract || owner.IsInterface(),
		Constructor:   ms.Constructor,
	}
	if m.Constructor && m.Name == "" {
		m.Name = owner.SimpleName()
	}
	for _, tp := range ms.TypeParams {
		name, _, _ := strings.Cut(tp, " ")
		m.TypeParams = append(m.TypeParams, &Type{Tag: TypeTagTypeVar, Name: name, DeclaringMethod: m})
	}
	scope := typeParamScope(m.TypeParams, outer)
	if err := u.fillBounds(m.TypeParams, ms.TypeParams, scope); err != nil {
		return nil, err
	}
	for i, ps := range ms.Params {
		pt, err := u.Parse(ps, scope)
		if err != nil {
			return nil, err
		}
		if strings.HasSuffix(strings.TrimSpace(ps), "...") {
			if i != len(ms.Params)-1 {
				return nil, fmt.Errorf("only the last parameter may be variadic")
			}
			m.Varargs = true
		}
		m.Params = append(m.Params, pt)
	}
	switch {
	case m.Constructor:
		m.Return = nil
	case ms.Returns == "":
		m.Return = Void
	default:
		rt, err := u.Parse(ms.Returns, scope)
		if err != nil {
			return nil, err
		}
		m.Return = rt
	}
	return m, nil
}

// fillBounds parses "T extends A & B" bound clauses onto already created type variables.
func (u *Universe) fillBounds(vars []*Type, specs []string, scope Scope) error {
	for i, spec := range specs {
		_, rest, found := strings.Cut(strings.TrimSpace(spec), " extends ")
		if !found {
			continue
		}
		for _, b := range strings.Split(rest, "&") {
			bt, err := u.Parse(b, scope)
			if err != nil {
				return fmt.Errorf("bound of %s: %w", vars[i].Name, err)
			}
			if BoundReaches(bt, vars[i]) {
				return fmt.Errorf("cyclic bound %s of %s", strings.TrimSpace(b), vars[i].Name)
			}
			vars[i].Bounds = append(vars[i].Bounds, bt)
		}
	}
	return nil
}

func typeParamScope(params []*Type, outer Scope) Scope {
	return func(name string) *Type {
		for _, p := range params {
			if p.Name == name {
				return p
			}
		}
		if outer != nil {
			return outer(name)
		}
		return nil
	}
}

// CheckAcyclic rejects a declaration that inherits from itself.
func CheckAcyclic(t *Type) error {
	onPath := map[*Type]bool{}
	var visit func(cur *Type) error
	visit = func(cur *Type) error {
		decl := cur.Declaration()
		if decl == nil {
			return nil
		}
		if onPath[decl] {
			return fmt.Errorf("type %s: cyclic inheritance through %s", t.Name, decl.Name)
		}
		onPath[decl] = true
		defer delete(onPath, decl)
		if decl.Super != nil {
			if err := visit(decl.Super); err != nil {
				return err
			}
		}
		for _, i := range decl.Interfaces {
			if err := visit(i); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(t)
}
