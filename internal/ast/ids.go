package ast

type (
	// DeclID indexes Decls.Arena (1-based, 0 = none).
	DeclID uint32
	// PayloadID indexes a per-kind payload arena.
	PayloadID uint32
)

const (
	NoDeclID    DeclID    = 0
	NoPayloadID PayloadID = 0
)

func (id DeclID) IsValid() bool    { return id != NoDeclID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
