package policy

import "errors"

var (
	ErrUnknownPlacement = errors.New("unknown using directive placement")
	ErrUnknownKind      = errors.New("unknown element kind")
	ErrUnknownCriterion = errors.New("unknown ordering criterion")
	ErrDuplicate        = errors.New("duplicate entry")
	ErrUnknownFormat    = errors.New("unknown policy file format")
)
