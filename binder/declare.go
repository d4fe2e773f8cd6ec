package binder

import (
	"strconv"

	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
)

// enter declares every type of the tree in two passes: shells first (names, kinds, type
// parameters) so that declarations may refer to each other in any order, then supertypes
// and members.
func (b *Binder) enter() {
	var decls []syntax.Ref
	anonymous := map[*typesys.Type]int{}
	b.tree.Root().Walk(func(n syntax.Ref) syntax.VisitResult {
		if n.Kind().IsTypeDeclaration() {
			b.declareShell(n, anonymous)
			decls = append(decls, n)
		}
		return syntax.Continue
	})
	for _, d := range decls {
		b.fillType(d)
	}
	for _, d := range decls {
		if t := b.types[d.ID()]; t != nil {
			if host := hostMethod(d); !host.IsNil() {
				t.EnclosingMethod = b.methods[host.ID()]
			}
		}
	}
	for _, d := range decls {
		t := b.types[d.ID()]
		if t == nil {
			continue
		}
		if err := typesys.CheckAcyclic(t); err != nil {
			b.Errorf(d.Pos(), "%v", err)
			t.Super = b.defaultSuper(t)
			t.Interfaces = nil
		}
	}
	b.logger.Debug("entered declarations", "types", len(b.types), "methods", len(b.methods), "errors", len(b.Errors))
}

func (b *Binder) declareShell(n syntax.Ref, anonymous map[*typesys.Type]int) {
	var outer *typesys.Type
	if od := syntax.EnclosingType(n); !od.IsNil() {
		outer = b.types[od.ID()]
	}

	if n.Is(syntax.KindAnonymousClassDecl) {
		host := outer
		for host != nil && host.Anonymous {
			host = host.Outer
		}
		hostName := ""
		if host != nil {
			hostName = host.Name
		}
		anonymous[host]++
		t := typesys.DeclaredType(typesys.TypeTagClass, hostName+"$"+strconv.Itoa(anonymous[host]))
		t.Anonymous = true
		t.Outer = outer
		t.Static = inStaticInitializer(n)
		b.types[n.ID()] = t
		return
	}

	simple := n.Child(syntax.LocName).Text()
	if simple == "" {
		b.Errorf(n.Pos(), "%s without a name", n.Kind())
		return
	}
	tag := typesys.TypeTagClass
	switch {
	case n.Is(syntax.KindEnumDecl):
		tag = typesys.TypeTagEnum
	case n.Is(syntax.KindAnnotationTypeDecl):
		tag = typesys.TypeTagAnnotation
	case n.Flags().Has(syntax.FlagInterface):
		tag = typesys.TypeTagInterface
	}
	name := simple
	if outer != nil {
		name = outer.Name + "." + simple
	}
	t := typesys.DeclaredType(tag, name)
	t.Outer = outer
	// member interfaces, enums and annotations, and every member of an interface, are
	// implicitly static
	t.Static = n.Flags().Has(syntax.FlagStatic) || inStaticInitializer(n) ||
		(outer != nil && (tag != typesys.TypeTagClass || outer.IsInterface() || outer.IsAnnotation()))
	for _, tp := range n.ChildrenAt(syntax.LocTypeParameters) {
		tv := typesys.TypeVar(tp.Child(syntax.LocName).Text(), t)
		t.TypeParams = append(t.TypeParams, tv)
		b.typeVars[tp.ID()] = tv
	}
	if err := b.u.Declare(t); err != nil {
		b.Errorf(n.Pos(), "%v", err)
	}
	b.types[n.ID()] = t
}

func (b *Binder) fillType(n syntax.Ref) {
	t := b.types[n.ID()]
	if t == nil {
		return
	}
	q := newQuery(b)
	b.fillBounds(q, n.ChildrenAt(syntax.LocTypeParameters))

	if t.Anonymous {
		b.fillAnonymousSupertypes(q, n, t)
	} else {
		if sc := n.Child(syntax.LocSuperclassType); !sc.IsNil() {
			if st := q.typeOf(sc); st != nil {
				t.Super = st
			} else {
				b.Errorf(sc.Pos(), "unknown superclass %s", sc.QualifiedName())
			}
		}
		if t.Super == nil {
			t.Super = b.defaultSuper(t)
		}
		for _, in := range n.ChildrenAt(syntax.LocSuperInterfaceTypes) {
			if it := q.typeOf(in); it != nil {
				t.Interfaces = append(t.Interfaces, it)
			} else {
				b.Errorf(in.Pos(), "unknown interface %s", in.QualifiedName())
			}
		}
		if t.IsAnnotation() {
			if a := b.u.Lookup(typesys.AnnotationName); a != nil {
				t.Interfaces = append(t.Interfaces, a)
			}
		}
	}

	for _, c := range n.ChildrenAt(syntax.LocEnumConstants) {
		f := &typesys.Field{Name: c.Child(syntax.LocName).Text(), Type: t, Static: true, DeclaringType: t}
		t.Fields = append(t.Fields, f)
		b.fields[c.ID()] = f
	}

	for _, member := range n.ChildrenAt(syntax.LocBodyDeclarations) {
		switch member.Kind() {
		case syntax.KindMethodDecl:
			b.declareMethod(q, t, member)
		case syntax.KindFieldDecl:
			b.declareFields(q, t, member)
		case syntax.KindAnnotationTypeMemberDecl:
			m := &typesys.Method{
				Name:          member.Child(syntax.LocName).Text(),
				DeclaringType: t,
				Return:        b.typeOrUnknown(q, member.Child(syntax.LocType)),
				Abstract:      true,
			}
			t.Methods = append(t.Methods, m)
			b.methods[member.ID()] = m
		}
	}

	if t.IsEnum() {
		t.Methods = append(t.Methods,
			&typesys.Method{Name: "values", DeclaringType: t, Static: true, Return: typesys.ArrayOf(t, 1)},
			&typesys.Method{Name: "valueOf", DeclaringType: t, Static: true, Return: t,
				Params: []*typesys.Type{b.u.Lookup(typesys.StringName)}},
		)
	}
	if (t.IsClass() || t.IsEnum()) && !t.Anonymous && !hasConstructor(t) {
		t.Methods = append(t.Methods, &typesys.Method{Name: t.SimpleName(), DeclaringType: t, Constructor: true})
	}
}

// fillAnonymousSupertypes takes the supertype from the creation or enum constant that
// hosts the body. An interface becomes the single implemented interface over Object.
func (b *Binder) fillAnonymousSupertypes(q *query, n syntax.Ref, t *typesys.Type) {
	var st *typesys.Type
	switch host := n.Parent(); host.Kind() {
	case syntax.KindClassInstanceCreation:
		st = q.typeOf(host.Child(syntax.LocType))
	case syntax.KindEnumConstantDecl:
		st = b.types[host.Parent().ID()]
	}
	switch {
	case st == nil:
		t.Super = b.u.Object()
	case st.IsInterface():
		t.Super = b.u.Object()
		t.Interfaces = []*typesys.Type{st}
	default:
		t.Super = st
	}
}

func (b *Binder) defaultSuper(t *typesys.Type) *typesys.Type {
	switch {
	case t.IsInterface(), t.IsAnnotation(), t.Name == typesys.ObjectName:
		return nil
	case t.IsEnum():
		if e := b.u.Lookup(typesys.EnumName); e.IsGeneric() {
			return typesys.Parameterize(e, t)
		}
	}
	return b.u.Object()
}

func (b *Binder) fillBounds(q *query, params []syntax.Ref) {
	for _, tp := range params {
		tv := b.typeVars[tp.ID()]
		if tv == nil {
			continue
		}
		for _, bound := range tp.ChildrenAt(syntax.LocTypeBounds) {
			bt := q.typeOf(bound)
			switch {
			case bt != nil && typesys.BoundReaches(bt, tv):
				b.Errorf(bound.Pos(), "cyclic bound %s of %s", bound.QualifiedName(), tv.Name)
			case bt != nil:
				tv.Bounds = append(tv.Bounds, bt)
			default:
				b.Errorf(bound.Pos(), "unknown bound %s of %s", bound.QualifiedName(), tv.Name)
			}
		}
	}
}

func (b *Binder) declareMethod(q *query, t *typesys.Type, decl syntax.Ref) {
	flags := decl.Flags()
	m := &typesys.Method{
		Name:          decl.Child(syntax.LocName).Text(),
		DeclaringType: t,
		Constructor:   flags.Has(syntax.FlagConstructor),
		Static:        flags.Has(syntax.FlagStatic),
	}
	m.Abstract = flags.Has(syntax.FlagAbstract) ||
		(t.IsInterface() && !m.Static && !flags.Has(syntax.FlagDefault) && decl.Child(syntax.LocBody).IsNil())
	tps := decl.ChildrenAt(syntax.LocTypeParameters)
	for _, tp := range tps {
		tv := &typesys.Type{Tag: typesys.TypeTagTypeVar, Name: tp.Child(syntax.LocName).Text(), DeclaringMethod: m}
		m.TypeParams = append(m.TypeParams, tv)
		b.typeVars[tp.ID()] = tv
	}
	b.fillBounds(q, tps)

	for _, p := range decl.ChildrenAt(syntax.LocParameters) {
		m.Params = append(m.Params, b.typeOrUnknown(q, p))
		if p.Flags().Has(syntax.FlagVarargs) {
			m.Varargs = true
		}
	}
	if !m.Constructor {
		m.Return = b.typeOrUnknown(q, decl.Child(syntax.LocReturnType))
		if d := decl.Dims(); d > 0 && !m.Return.IsVoid() {
			m.Return = typesys.ArrayOf(m.Return, d)
		}
	}
	t.Methods = append(t.Methods, m)
	b.methods[decl.ID()] = m
}

func (b *Binder) declareFields(q *query, t *typesys.Type, decl syntax.Ref) {
	static := decl.Flags().Has(syntax.FlagStatic) || t.IsInterface()
	for _, frag := range decl.ChildrenAt(syntax.LocFragments) {
		f := &typesys.Field{
			Name:          frag.Child(syntax.LocName).Text(),
			Type:          b.typeOrUnknown(q, frag),
			Static:        static,
			DeclaringType: t,
		}
		t.Fields = append(t.Fields, f)
		b.fields[frag.ID()] = f
	}
}

// typeOrUnknown resolves n, recording an error and standing in the recovered type when
// that fails.
func (b *Binder) typeOrUnknown(q *query, n syntax.Ref) *typesys.Type {
	if n.IsNil() {
		return typesys.Unknown
	}
	if t := q.typeOf(n); t != nil {
		return t
	}
	b.Errorf(n.Pos(), "cannot resolve type of %s", n)
	return typesys.Unknown
}

// hostMethod returns the method whose body declares the local or anonymous type n, looking
// through lambdas. Member types have none.
func hostMethod(n syntax.Ref) syntax.Ref {
	for cur := n.Parent(); !cur.IsNil(); cur = cur.Parent() {
		switch {
		case cur.Is(syntax.KindMethodDecl):
			return cur
		case cur.Kind().IsTypeDeclaration():
			return syntax.Ref{}
		}
	}
	return syntax.Ref{}
}

// inStaticInitializer reports local and anonymous types declared in a static initializer
// or static field initializer; like static nested types they have no outer instance.
func inStaticInitializer(n syntax.Ref) bool {
	if n.Parent().Kind().IsTypeDeclaration() || n.Parent().IsNil() {
		return false
	}
	decl := syntax.EnclosingBodyDeclaration(n.Parent())
	return decl.Is(syntax.KindInitializer, syntax.KindFieldDecl) && decl.Flags().Has(syntax.FlagStatic)
}

func hasConstructor(t *typesys.Type) bool {
	for _, m := range t.Methods {
		if m.Constructor {
			return true
		}
	}
	return false
}
