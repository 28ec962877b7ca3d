package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena stores nodes of one kind; handles are 1-based so 0 means none.
type Arena[T any] struct {
	items []T
}

func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{items: make([]T, 0, capHint)}
}

// Allocate appends v and returns its handle.
func (a *Arena[T]) Allocate(v T) uint32 {
	a.items = append(a.items, v)
	return a.Len()
}

// Get returns nil for 0 and for handles never allocated.
func (a *Arena[T]) Get(h uint32) *T {
	if h == 0 || h > a.Len() {
		return nil
	}
	return &a.items[h-1]
}

func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.items))
	if err != nil {
		panic(fmt.Errorf("ast: arena overflow: %w", err))
	}
	return n
}
