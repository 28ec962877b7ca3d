package order

import (
	"strings"

	"csorder/internal/ast"
	"csorder/internal/policy"
)

// Bucket is the directive category: simple < static < alias.
type Bucket uint8

const (
	BucketSimple Bucket = iota
	BucketStatic
	BucketAlias
)

func (b Bucket) String() string {
	switch b {
	case BucketStatic:
		return "using static"
	case BucketAlias:
		return "using alias"
	default:
		return "using"
	}
}

// UsingKey is the sort key of a using directive.
type UsingKey struct {
	ID ast.DeclID
	// MustStay directives sort first: global usings and, when directives
	// belong inside the namespace, those required at the compilation unit.
	MustStay bool
	Bucket   Bucket
	System   bool
	// Name is the normalized target, or the alias name for aliases.
	Name string
}

// UsingKeyOf classifies a using directive. mustStay comes from placement.
func UsingKeyOf(f *ast.File, id ast.DeclID, pol *policy.Policy, mustStay bool) (UsingKey, bool) {
	u, ok := f.Decls.Using(id)
	if !ok || f.Decl(id).Incomplete {
		return UsingKey{}, false
	}
	k := UsingKey{ID: id, MustStay: mustStay || u.Global}
	switch {
	case u.IsAlias():
		k.Bucket = BucketAlias
		k.Name = NormalizeName(u.Alias)
	case u.Static:
		k.Bucket = BucketStatic
		k.Name = NormalizeName(u.Name)
	default:
		k.Name = NormalizeName(u.Name)
	}
	if k.Bucket != BucketAlias && pol.SystemUsingsFirst() {
		k.System = IsSystemName(k.Name)
	}
	return k, true
}

// usingField names the key component that decided a comparison.
type usingField uint8

const (
	fieldNone usingField = iota
	fieldMustStay
	fieldBucket
	fieldSystem
	fieldName
)

// compareUsings compares a and b component by component.
func compareUsings(a, b UsingKey) (usingField, int) {
	if a.MustStay != b.MustStay {
		if a.MustStay {
			return fieldMustStay, -1
		}
		return fieldMustStay, 1
	}
	if a.Bucket != b.Bucket {
		if a.Bucket < b.Bucket {
			return fieldBucket, -1
		}
		return fieldBucket, 1
	}
	if a.System != b.System {
		if a.System {
			return fieldSystem, -1
		}
		return fieldSystem, 1
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return fieldName, c
	}
	return fieldNone, 0
}

func usingLess(a, b UsingKey) bool {
	_, c := compareUsings(a, b)
	return c < 0
}

// sameGroup: blank-line grouping puts a and b in one block.
func sameGroup(a, b UsingKey) bool {
	return a.MustStay == b.MustStay && a.Bucket == b.Bucket && a.System == b.System
}

// UsingGroup is a maximal run of directives of one category in a container.
type UsingGroup struct {
	Container  ast.DeclID
	MustStay   bool
	Bucket     Bucket
	System     bool
	Directives []ast.DeclID
}

// GroupUsings splits keys (in the given order) into maximal runs.
func GroupUsings(container ast.DeclID, keys []UsingKey) []UsingGroup {
	var out []UsingGroup
	for i, k := range keys {
		if i == 0 || !sameGroup(keys[i-1], k) {
			out = append(out, UsingGroup{
				Container: container,
				MustStay:  k.MustStay,
				Bucket:    k.Bucket,
				System:    k.System,
			})
		}
		g := &out[len(out)-1]
		g.Directives = append(g.Directives, k.ID)
	}
	return out
}
