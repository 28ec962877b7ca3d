package ast

import (
	"csorder/internal/source"
)

// DeclKind is the syntactic kind of a declaration node.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclCompilationUnit
	DeclExternAlias
	DeclUsing
	// DeclAttributeList is a global [assembly: ...] / [module: ...] list.
	DeclAttributeList
	// DeclGlobalStatement is a top-level statement; it is never reordered.
	DeclGlobalStatement
	DeclNamespace
	DeclClass
	DeclStruct
	DeclInterface
	DeclEnum
	DeclRecord
	DeclRecordStruct
	DeclDelegate
	DeclField
	DeclEventField
	DeclEvent
	DeclProperty
	DeclIndexer
	DeclMethod
	DeclOperator
	DeclConversion
	DeclConstructor
	DeclDestructor
	DeclEnumMember
)

var declKindNames = [...]string{
	DeclInvalid:         "invalid",
	DeclCompilationUnit: "compilation unit",
	DeclExternAlias:     "extern alias",
	DeclUsing:           "using directive",
	DeclAttributeList:   "attribute list",
	DeclGlobalStatement: "global statement",
	DeclNamespace:       "namespace",
	DeclClass:           "class",
	DeclStruct:          "struct",
	DeclInterface:       "interface",
	DeclEnum:            "enum",
	DeclRecord:          "record",
	DeclRecordStruct:    "record struct",
	DeclDelegate:        "delegate",
	DeclField:           "field",
	DeclEventField:      "event field",
	DeclEvent:           "event",
	DeclProperty:        "property",
	DeclIndexer:         "indexer",
	DeclMethod:          "method",
	DeclOperator:        "operator",
	DeclConversion:      "conversion operator",
	DeclConstructor:     "constructor",
	DeclDestructor:      "destructor",
	DeclEnumMember:      "enum member",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}
	return "unknown"
}

// IsType reports whether the kind declares a type.
func (k DeclKind) IsType() bool {
	switch k {
	case DeclClass, DeclStruct, DeclInterface, DeclEnum, DeclRecord, DeclRecordStruct, DeclDelegate:
		return true
	default:
		return false
	}
}

// IsContainer reports whether nodes of this kind own ordered children.
func (k DeclKind) IsContainer() bool {
	switch k {
	case DeclCompilationUnit, DeclNamespace, DeclClass, DeclStruct, DeclInterface, DeclEnum, DeclRecord, DeclRecordStruct:
		return true
	default:
		return false
	}
}

// Modifiers is a bit set of declaration modifiers.
type Modifiers uint32

const (
	ModPublic Modifiers = 1 << iota
	ModPrivate
	ModProtected
	ModInternal
	ModStatic
	ModReadonly
	ModConst
	ModVolatile
	ModAbstract
	ModVirtual
	ModOverride
	ModSealed
	ModNew
	ModUnsafe
	ModExtern
	ModPartial
	ModAsync
	ModRequired
	ModFile
	ModFixed
)

// AccessMask covers the four access keywords.
const AccessMask = ModPublic | ModPrivate | ModProtected | ModInternal

func (m Modifiers) Has(x Modifiers) bool { return m&x != 0 }

// Accessor is one accessor of a property, indexer or event (get/set/init/add/remove).
type Accessor struct {
	Name string
	// Start and End are token indexes covering the accessor including its attributes and modifiers.
	Start, End uint32
}

// Decl is a declaration node. Token indexes refer to File.Tokens.
type Decl struct {
	Kind   DeclKind
	Parent DeclID
	// Children are the syntactic children in source order (members of a
	// type, declarations of a namespace or the compilation unit).
	Children []DeclID
	Mods     Modifiers
	// ModTokens lists the modifier tokens in source order.
	ModTokens []uint32
	// Name is the declared identifier as written ("" for anonymous members
	// such as indexers). For using directives see UsingDirective.
	Name string
	Span source.Span
	// FirstTok..LastTok is the inclusive token range of the node
	// (attributes included).
	FirstTok, LastTok uint32
	// BodyOpen/BodyClose are the '{' and '}' of a container; for a
	// file-scoped namespace BodyOpen is the ';' and BodyClose is EOF.
	BodyOpen, BodyClose uint32
	HasBody             bool
	// ExplicitInterface is set for members declared as IFoo.Member.
	ExplicitInterface bool
	Accessors         []Accessor
	// Incomplete is set by parser recovery; such nodes are never classified.
	Incomplete bool
	Payload    PayloadID
}

// Decls stores declaration nodes and their per-kind payloads.
type Decls struct {
	Arena      *Arena[Decl]
	Usings     *Arena[UsingDirective]
	Namespaces *Arena[NamespaceInfo]
}

func NewDecls(capHint uint) *Decls {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Decls{
		Arena:      NewArena[Decl](capHint),
		Usings:     NewArena[UsingDirective](capHint / 4),
		Namespaces: NewArena[NamespaceInfo](4),
	}
}

// New allocates a node of the given kind.
func (d *Decls) New(kind DeclKind, parent DeclID, first uint32) DeclID {
	return DeclID(d.Arena.Allocate(Decl{Kind: kind, Parent: parent, FirstTok: first, LastTok: first}))
}

func (d *Decls) Get(id DeclID) *Decl {
	return d.Arena.Get(uint32(id))
}

// NamespaceInfo is the payload of a namespace declaration.
type NamespaceInfo struct {
	FileScoped bool
	// Segments of the dotted namespace name.
	Segments []string
}

// Namespace returns the namespace payload for id.
func (d *Decls) Namespace(id DeclID) (*NamespaceInfo, bool) {
	n := d.Get(id)
	if n == nil || n.Kind != DeclNamespace {
		return nil, false
	}
	return d.Namespaces.Get(uint32(n.Payload)), true
}

// SetNamespace attaches namespace info to a node.
func (d *Decls) SetNamespace(id DeclID, info NamespaceInfo) {
	d.Get(id).Payload = PayloadID(d.Namespaces.Allocate(info))
}
