package avlbag

import (
	"math"

	"github.com/pkg/errors"
)

// maxSlots is the number of node slots a handle can address.
const maxSlots = math.MaxInt32

// arena owns every node of a Bag.  Nodes refer to each other by handle instead of by pointer,
// so parent links never alias live memory and released slots can be reused.
// s[0] is the absent node: it is never written, so it always reads as a childless node of
// height 0 and count 0.
type arena[T any] struct {
	s    []node[T]
	free handle // Head of the free list, chained through c[l].
	idle int    // Slots currently on the free list.
	// limit caps slots() so that handle(len(s)-1) never wraps.
	limit int
}

func newArena[T any](hint int) arena[T] {
	return arena[T]{s: make([]node[T], 1, min(hint, maxSlots-1)+1), limit: maxSlots}
}

// full reports whether alloc would have to grow past limit.
func (a *arena[T]) full() bool {
	return a.free == none && a.slots() >= a.limit
}

// alloc returns a fresh leaf holding item.  Free slots are reused before the slice grows.
// Growing the slice invalidates any *node[T] taken before the call.  Callers check full first;
// alloc panics rather than hand out a wrapped handle.
func (a *arena[T]) alloc(item T) handle {
	leaf := node[T]{i: item, height: 1, count: 1}
	if h := a.free; h != none {
		a.free = a.s[h].c[l]
		a.idle--
		a.s[h] = leaf
		return h
	}
	if a.slots() >= a.limit {
		panic(errors.Wrapf(ErrFull, "arena holds %d slots", a.slots()))
	}
	a.s = append(a.s, leaf)
	return handle(len(a.s) - 1)
}

// release puts h on the free list.  The item is zeroed so the arena does not keep it alive.
func (a *arena[T]) release(h handle) {
	a.s[h] = node[T]{}
	a.s[h].c[l] = a.free
	a.free = h
	a.idle++
}

// slots returns the number of node slots ever allocated, live or free.
func (a *arena[T]) slots() int {
	return len(a.s) - 1
}
