package avlbag

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	l = 0 // left
	r = 1 // right
)

func flip(d int) int {
	return 1 - d
}

// handle addresses a node slot in an arena.  The zero handle is the absent node.
type handle int32

const none handle = 0

// node is a single vertex of the tree.
type node[T any] struct {
	// c[0] is less than or equal to i, c[1] is greater than or equal to i.
	// Using a fixed array instead of distinct fields lets rotation code work on either side
	// with the same statements.
	c [2]handle
	// parent is the node whose c[0] or c[1] is this node, or none for the root.
	parent handle
	// height of the subtree rooted here.  Leaves have height 1, the absent node 0.
	height int
	// count of nodes in the subtree rooted here, this one included.
	count int
	i     T // The item the node is holding.
}

func (a *arena[T]) left(h handle) handle   { return a.s[h].c[l] }
func (a *arena[T]) right(h handle) handle  { return a.s[h].c[r] }
func (a *arena[T]) parent(h handle) handle { return a.s[h].parent }
func (a *arena[T]) item(h handle) T        { return a.s[h].i }

func selfLink(h handle) error {
	return errors.Wrapf(ErrInvalidArgument, "node %d cannot be linked to itself", h)
}

// setChild replaces the dir child of h and, if child is present, points its parent at h.
// Callers are responsible for not creating cycles; only direct self links are caught.
func (a *arena[T]) setChild(h handle, dir int, child handle) {
	if child == h {
		panic(selfLink(h))
	}
	a.s[h].c[dir] = child
	if child != none {
		a.setParent(child, h)
	}
}

func (a *arena[T]) setLeft(h, child handle)  { a.setChild(h, l, child) }
func (a *arena[T]) setRight(h, child handle) { a.setChild(h, r, child) }

func (a *arena[T]) setParent(h, p handle) {
	if p == h {
		panic(selfLink(h))
	}
	a.s[h].parent = p
}

// childCount returns the number of nodes below h.
func (a *arena[T]) childCount(h handle) int {
	if h == none {
		return 0
	}
	return a.s[h].count - 1
}

// balanceFactor returns height(right) - height(left).
// Negative numbers indicate a subtree that is left-heavy,
// and positive numbers indicate a subtree that is right-heavy.
func (a *arena[T]) balanceFactor(h handle) int {
	n := &a.s[h]
	return a.s[n.c[r]].height - a.s[n.c[l]].height
}

// fix recalculates the cached height and count of h from its children.
func (a *arena[T]) fix(h handle) {
	n := &a.s[h]
	lc, rc := &a.s[n.c[l]], &a.s[n.c[r]]
	n.height = max(lc.height, rc.height) + 1
	n.count = lc.count + rc.count + 1
}

// side returns the direction of child under p, or -1 if child is not a child of p.
func (a *arena[T]) side(p, child handle) int {
	for i, c := range a.s[p].c {
		if c == child {
			return i
		}
	}
	return -1
}

func (a *arena[T]) isRightChildOf(child, p handle) bool { return a.s[p].c[r] == child }
func (a *arena[T]) isLeftChildOf(child, p handle) bool  { return a.s[p].c[l] == child }

// changeChildSlot swizzles the child pointer of h from was to is, leaving the parent and
// children of is alone.  It returns was, or none if was is not a child of h.
func (a *arena[T]) changeChildSlot(h, was, is handle) handle {
	dir := a.side(h, was)
	if dir < 0 {
		return none
	}
	a.s[h].c[dir] = is
	return was
}

// replaceChild puts is into the slot of h that holds was.  is takes over the children of was
// and gets h as its parent.  It returns was, or none if was is not a child of h.
func (a *arena[T]) replaceChild(h, was, is handle) handle {
	replaced := a.changeChildSlot(h, was, is)
	if replaced == none || is == none {
		return replaced
	}
	a.adopt(is, replaced)
	a.setParent(is, h)
	return replaced
}

// adopt moves both children of from onto h.
func (a *arena[T]) adopt(h, from handle) {
	a.setLeft(h, a.s[from].c[l])
	a.setRight(h, a.s[from].c[r])
}

// rightmost returns the largest node in the subtree rooted at h.
func (a *arena[T]) rightmost(h handle) handle {
	for a.s[h].c[r] != none {
		h = a.s[h].c[r]
	}
	return h
}

// describe renders h and its direct children as "(left) item (right)".
func (a *arena[T]) describe(h handle) string {
	n := &a.s[h]
	var lv, rv string
	if n.c[l] != none {
		lv = fmt.Sprint(a.s[n.c[l]].i)
	}
	if n.c[r] != none {
		rv = fmt.Sprint(a.s[n.c[r]].i)
	}
	return fmt.Sprintf("(%s) %v (%s)", lv, n.i, rv)
}
