package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
)

// Criterion is one component of a member sort key.
type Criterion uint8

const (
	CriterionKind Criterion = iota
	CriterionAccess
	CriterionConstant
	CriterionStatic
	CriterionReadonly
	numCriteria
)

var criterionNames = [...]string{
	CriterionKind:     "kind",
	CriterionAccess:   "accessibility",
	CriterionConstant: "constant",
	CriterionStatic:   "static",
	CriterionReadonly: "readonly",
}

func (c Criterion) String() string {
	if int(c) < len(criterionNames) {
		return criterionNames[c]
	}
	return fmt.Sprintf("Criterion(%d)", c)
}

// Placement says where using directives belong.
type Placement uint8

const (
	PlacementPreserve Placement = iota
	PlacementInsideNamespace
	PlacementOutsideNamespace
)

func (p Placement) String() string {
	switch p {
	case PlacementInsideNamespace:
		return "insideNamespace"
	case PlacementOutsideNamespace:
		return "outsideNamespace"
	default:
		return "preserve"
	}
}

// ParsePlacement accepts the config spelling (case-insensitive).
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "preserve":
		return PlacementPreserve, nil
	case "insidenamespace", "inside":
		return PlacementInsideNamespace, nil
	case "outsidenamespace", "outside":
		return PlacementOutsideNamespace, nil
	}
	return PlacementPreserve, fmt.Errorf("%w: %q", ErrUnknownPlacement, s)
}

// Container selects a kind-order table.
type Container uint8

const (
	ContainerCompilationUnit Container = iota
	ContainerNamespace
	ContainerType
	numContainers
)

func (c Container) String() string {
	switch c {
	case ContainerCompilationUnit:
		return "compilation_unit"
	case ContainerNamespace:
		return "namespace"
	default:
		return "type"
	}
}

// ElementKind is the name a kind-order table ranks.
type ElementKind uint8

const (
	ElementUnknown ElementKind = iota
	ElementField
	ElementConstructor
	ElementDestructor
	ElementDelegate
	ElementEvent
	ElementEnum
	ElementInterface
	ElementProperty
	ElementIndexer
	ElementMethod
	ElementStruct
	ElementClass
	ElementNamespace
	numElementKinds
)

var elementNames = [...]string{
	ElementUnknown:     "unknown",
	ElementField:       "field",
	ElementConstructor: "constructor",
	ElementDestructor:  "destructor",
	ElementDelegate:    "delegate",
	ElementEvent:       "event",
	ElementEnum:        "enum",
	ElementInterface:   "interface",
	ElementProperty:    "property",
	ElementIndexer:     "indexer",
	ElementMethod:      "method",
	ElementStruct:      "struct",
	ElementClass:       "class",
	ElementNamespace:   "namespace",
}

func (k ElementKind) String() string {
	if int(k) < len(elementNames) {
		return elementNames[k]
	}
	return "unknown"
}

// ParseElementKind maps a config name to an element kind.
func ParseElementKind(s string) (ElementKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k := ElementField; k < numElementKinds; k++ {
		if elementNames[k] == s {
			return k, true
		}
	}
	return ElementUnknown, false
}

// Access is a normalized accessibility level.
type Access uint8

const (
	AccessPublic Access = iota
	AccessInternal
	AccessProtectedInternal
	AccessProtected
	AccessPrivateProtected
	AccessPrivate
	numAccess
)

var accessNames = [...]string{
	AccessPublic:            "public",
	AccessInternal:          "internal",
	AccessProtectedInternal: "protected internal",
	AccessProtected:         "protected",
	AccessPrivateProtected:  "private protected",
	AccessPrivate:           "private",
}

func (a Access) String() string {
	if int(a) < len(accessNames) {
		return accessNames[a]
	}
	return "unknown"
}

// Policy is the resolved ordering policy. It is immutable after Resolve and
// safe to share between goroutines.
type Policy struct {
	elementOrder []Criterion
	kindRank     [numContainers][numElementKinds]int
	kindLen      [numContainers]int
	accessRank   [numAccess]int
	systemFirst  bool
	placement    Placement
	blankLines   bool
	defines      []string
	hash         string
}

// ElementOrder returns the criteria in comparison order.
func (p *Policy) ElementOrder() []Criterion {
	return slices.Clone(p.elementOrder)
}

// Uses reports whether criterion c takes part in member ordering.
func (p *Policy) Uses(c Criterion) bool {
	return slices.Contains(p.elementOrder, c)
}

func (p *Policy) ConstantsFirst() bool { return p.Uses(CriterionConstant) }
func (p *Policy) StaticFirst() bool    { return p.Uses(CriterionStatic) }
func (p *Policy) ReadonlyFirst() bool  { return p.Uses(CriterionReadonly) }

// KindRank returns the rank of kind in the container's table.
// Kinds missing from the table share the last rank.
func (p *Policy) KindRank(c Container, k ElementKind) int {
	if c >= numContainers || k >= numElementKinds {
		return p.kindLen[ContainerType]
	}
	if r := p.kindRank[c][k]; r > 0 {
		return r - 1
	}
	return p.kindLen[c]
}

// AccessRank returns the position of a in the access-order table.
func (p *Policy) AccessRank(a Access) int {
	if a >= numAccess {
		return int(numAccess)
	}
	return p.accessRank[a]
}

func (p *Policy) SystemUsingsFirst() bool       { return p.systemFirst }
func (p *Policy) Placement() Placement          { return p.placement }
func (p *Policy) BlankLinesBetweenGroups() bool { return p.blankLines }

// Defines returns the preprocessor symbols the lexer starts with.
func (p *Policy) Defines() []string { return slices.Clone(p.defines) }

// Hash identifies the policy contents; used as part of cache keys.
func (p *Policy) Hash() string { return p.hash }

func (p *Policy) computeHash() string {
	h := sha256.New()
	for _, c := range p.elementOrder {
		fmt.Fprintf(h, "c%d;", c)
	}
	for c := range numContainers {
		fmt.Fprintf(h, "k%v;", p.kindRank[c])
	}
	fmt.Fprintf(h, "a%v;s%t;p%d;b%t;", p.accessRank, p.systemFirst, p.placement, p.blankLines)
	fmt.Fprintf(h, "d%s", strings.Join(p.defines, ","))
	return hex.EncodeToString(h.Sum(nil))
}
