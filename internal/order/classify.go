package order

import (
	"csorder/internal/ast"
	"csorder/internal/diag"
	"csorder/internal/policy"
)

// Member is the classification of one orderable declaration.
// It depends only on the node; ranks come from the policy at comparison time.
type Member struct {
	ID     ast.DeclID
	Kind   policy.ElementKind
	Access policy.Access
	Field  bool
	Const  bool
	Static bool
	// Readonly is also set for constants.
	Readonly   bool
	StaticCtor bool
}

// ElementKindOf maps a declaration kind to its kind-order table entry.
func ElementKindOf(k ast.DeclKind) (policy.ElementKind, bool) {
	switch k {
	case ast.DeclField:
		return policy.ElementField, true
	case ast.DeclEventField, ast.DeclEvent:
		return policy.ElementEvent, true
	case ast.DeclProperty:
		return policy.ElementProperty, true
	case ast.DeclIndexer:
		return policy.ElementIndexer, true
	case ast.DeclMethod, ast.DeclOperator, ast.DeclConversion:
		return policy.ElementMethod, true
	case ast.DeclConstructor:
		return policy.ElementConstructor, true
	case ast.DeclDestructor:
		return policy.ElementDestructor, true
	case ast.DeclDelegate:
		return policy.ElementDelegate, true
	case ast.DeclEnum:
		return policy.ElementEnum, true
	case ast.DeclInterface:
		return policy.ElementInterface, true
	case ast.DeclStruct, ast.DeclRecordStruct:
		return policy.ElementStruct, true
	case ast.DeclClass, ast.DeclRecord:
		return policy.ElementClass, true
	case ast.DeclNamespace:
		return policy.ElementNamespace, true
	}
	return policy.ElementUnknown, false
}

// Orderable reports whether d takes part in member ordering.
func Orderable(d *ast.Decl) bool {
	_, ok := ElementKindOf(d.Kind)
	return ok && !d.Incomplete
}

// ContainerOf selects the kind-order table for the children of container.
func ContainerOf(f *ast.File, container ast.DeclID) (policy.Container, bool) {
	switch f.Decl(container).Kind {
	case ast.DeclCompilationUnit:
		return policy.ContainerCompilationUnit, true
	case ast.DeclNamespace:
		return policy.ContainerNamespace, true
	case ast.DeclClass, ast.DeclStruct, ast.DeclInterface, ast.DeclRecord, ast.DeclRecordStruct:
		return policy.ContainerType, true
	}
	// enum members are never reordered
	return 0, false
}

// AccessOf returns the effective accessibility of d, applying defaults.
func AccessOf(f *ast.File, d *ast.Decl) policy.Access {
	if d.ExplicitInterface {
		return policy.AccessPrivate
	}
	m := d.Mods
	switch {
	case m.Has(ast.ModPublic):
		return policy.AccessPublic
	case m.Has(ast.ModProtected) && m.Has(ast.ModInternal):
		return policy.AccessProtectedInternal
	case m.Has(ast.ModPrivate) && m.Has(ast.ModProtected):
		return policy.AccessPrivateProtected
	case m.Has(ast.ModProtected):
		return policy.AccessProtected
	case m.Has(ast.ModInternal):
		return policy.AccessInternal
	case m.Has(ast.ModPrivate):
		return policy.AccessPrivate
	}
	if d.Kind == ast.DeclNamespace {
		return policy.AccessPublic
	}
	parent := f.Decl(d.Parent)
	switch {
	case parent == nil:
		return policy.AccessPrivate
	case parent.Kind == ast.DeclInterface:
		return policy.AccessPublic
	case parent.Kind == ast.DeclCompilationUnit || parent.Kind == ast.DeclNamespace:
		return policy.AccessInternal
	}
	return policy.AccessPrivate
}

// Classify returns the classification of id, or false for nodes that are
// incomplete or not orderable.
func Classify(f *ast.File, id ast.DeclID) (Member, bool) {
	d := f.Decl(id)
	if d == nil || d.Incomplete {
		return Member{}, false
	}
	kind, ok := ElementKindOf(d.Kind)
	if !ok {
		return Member{}, false
	}
	m := Member{
		ID:     id,
		Kind:   kind,
		Access: AccessOf(f, d),
		Field:  d.Kind == ast.DeclField,
		Static: d.Mods.Has(ast.ModStatic),
	}
	if m.Field {
		m.Const = d.Mods.Has(ast.ModConst)
		m.Readonly = m.Const || d.Mods.Has(ast.ModReadonly)
		m.Static = m.Static || m.Const
	}
	m.StaticCtor = d.Kind == ast.DeclConstructor && m.Static
	return m, true
}

// rank returns the position of m on criterion c. ok=false means the
// criterion does not apply to m and the pair is not compared on it.
func rank(pol *policy.Policy, cont policy.Container, m Member, c policy.Criterion) (int, bool) {
	switch c {
	case policy.CriterionKind:
		return pol.KindRank(cont, m.Kind), true
	case policy.CriterionAccess:
		if m.StaticCtor {
			return 0, false
		}
		return pol.AccessRank(m.Access), true
	case policy.CriterionConstant:
		if !m.Field {
			return 0, false
		}
		return boolRank(m.Const), true
	case policy.CriterionStatic:
		if m.StaticCtor {
			return 0, false
		}
		return boolRank(m.Static), true
	case policy.CriterionReadonly:
		if !m.Field {
			return 0, false
		}
		return boolRank(m.Readonly), true
	}
	return 0, false
}

func boolRank(first bool) int {
	if first {
		return 0
	}
	return 1
}

// CompareMembers finds the first criterion, in policy order, on which a and b
// differ. cmp < 0 means a belongs before b.
func CompareMembers(pol *policy.Policy, cont policy.Container, a, b Member) (crit policy.Criterion, cmp int) {
	for _, c := range pol.ElementOrder() {
		ra, okA := rank(pol, cont, a, c)
		rb, okB := rank(pol, cont, b, c)
		if !okA || !okB || ra == rb {
			continue
		}
		if ra < rb {
			return c, -1
		}
		return c, 1
	}
	return 0, 0
}

// memberLess: a must come before b.
func memberLess(pol *policy.Policy, cont policy.Container, a, b Member) bool {
	_, cmp := CompareMembers(pol, cont, a, b)
	return cmp < 0
}

var criterionRule = map[policy.Criterion]diag.Code{
	policy.CriterionKind:     diag.OrdElementKind,
	policy.CriterionAccess:   diag.OrdAccessLevel,
	policy.CriterionConstant: diag.OrdConstantsFirst,
	policy.CriterionStatic:   diag.OrdStaticFirst,
	policy.CriterionReadonly: diag.OrdReadonlyFirst,
}

// Category describes m on criterion c for messages: "field", "public method",
// "constant field", "static method", "readonly field".
func Category(m Member, c policy.Criterion) string {
	kind := m.Kind.String()
	switch c {
	case policy.CriterionAccess:
		return m.Access.String() + " " + kind
	case policy.CriterionConstant:
		if m.Const {
			return "constant " + kind
		}
		return "non-constant " + kind
	case policy.CriterionStatic:
		if m.Static {
			return "static " + kind
		}
		return "non-static " + kind
	case policy.CriterionReadonly:
		if m.Readonly {
			return "readonly " + kind
		}
		return "non-readonly " + kind
	}
	return kind
}
