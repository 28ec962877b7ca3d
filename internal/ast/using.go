package ast

// UsingDirective is the payload of a using directive.
//
//	[global] using [static] [unsafe] [Alias =] Name;
type UsingDirective struct {
	Global bool
	Static bool
	Unsafe bool
	// Alias is the alias name as written ("" for non-alias directives).
	Alias string
	// Name is the target with trivia removed, as written ("global::System.IO").
	Name string
	// NameTok is the index of the first token of Name.
	NameTok uint32
}

// IsAlias reports whether the directive declares an alias.
func (u *UsingDirective) IsAlias() bool { return u.Alias != "" }

// Using returns the using payload for id.
func (d *Decls) Using(id DeclID) (*UsingDirective, bool) {
	n := d.Get(id)
	if n == nil || n.Kind != DeclUsing {
		return nil, false
	}
	return d.Usings.Get(uint32(n.Payload)), true
}

// SetUsing attaches using payload to a node.
func (d *Decls) SetUsing(id DeclID, u UsingDirective) {
	d.Get(id).Payload = PayloadID(d.Usings.Allocate(u))
}
