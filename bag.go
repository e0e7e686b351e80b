// Package avlbag provides Bag, an ordered multiset kept in an AVL tree that can answer
// percentile queries by walking cached subtree counts instead of scanning every item.
package avlbag

import (
	"reflect"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/constraints"
)

const (
	leftHeavy  = -2
	leftLean   = -1
	balanced   = 0
	rightLean  = 1
	rightHeavy = 2
)

// LessThan compares two values to see if the first is less than the second.
// The Bag considers any values where neither is LessThan the other to be equal.
// It must be a strict weak order that stays stable for as long as the items are in the Bag.
type LessThan[T any] func(T, T) bool

// Bag is an ordered multiset.  Duplicates are kept as separate nodes.
//
// A Bag is not safe for concurrent use.  Callers that share one across goroutines
// must serialize Add, Remove and ElementAtPercentile themselves.
type Bag[T any] struct {
	a    arena[T]    // Storage for every node in the Bag.
	root handle      // Root node of the binary tree.
	less LessThan[T] // Ordering function used to sort nodes in the Bag.
	size int         // Items present in the Bag.
	log  zerolog.Logger
}

// Option tunes a Bag at construction time.
type Option func(*options)

type options struct {
	log      zerolog.Logger
	capacity int
}

// WithLogger sends rotation traces and rejected arguments to log.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithCapacity sizes the node storage for n items up front.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// New allocates an empty Bag that keeps itself ordered according to lt.
func New[T any](lt LessThan[T], opts ...Option) *Bag[T] {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Bag[T]{
		a:    newArena[T](o.capacity),
		less: lt,
		log:  o.log,
	}
}

// NewOrdered allocates an empty Bag ordered by the < operator.
func NewOrdered[T constraints.Ordered](opts ...Option) *Bag[T] {
	return New(func(a, b T) bool { return a < b }, opts...)
}

// Size returns the number of items in the Bag, duplicates included.
func (b *Bag[T]) Size() int { return b.size }

// Height returns the height of the tree, 0 when the Bag is empty.
func (b *Bag[T]) Height() int { return b.a.s[b.root].height }

// Less returns the LessThan function that the Bag is using.
func (b *Bag[T]) Less() LessThan[T] { return b.less }

// isNil reports whether item is a nil pointer, interface, map, slice, func or chan.
func isNil[T any](item T) bool {
	v := reflect.ValueOf(any(item))
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Add puts item into the Bag.  Items equal to ones already present are added alongside them.
// Adding a nil item fails with ErrInvalidArgument, and adding to a Bag that already holds
// math.MaxInt32 items fails with ErrFull.  Either way the Bag is left untouched.
func (b *Bag[T]) Add(item T) error {
	if isNil(item) {
		b.log.Debug().Msg("rejected nil item")
		return errors.Wrap(ErrInvalidArgument, "cannot add a nil item")
	}
	if b.a.full() {
		return errors.Wrapf(ErrFull, "cannot add past %d items", b.a.limit)
	}
	b.size++
	leaf := b.a.alloc(item)
	if b.root == none {
		b.root = leaf
		return nil
	}
	var parent handle
	dir := l
	for n := b.root; n != none; n = b.a.s[n].c[dir] {
		parent = n
		// Equal items go left.
		dir = l
		if b.less(b.a.s[n].i, item) {
			dir = r
		}
	}
	b.a.setChild(parent, dir, leaf)
	b.refresh(parent)
	b.restoreAfterInsert(leaf, dir == r)
	return nil
}

// find returns the first node on the search path holding an item equal to item,
// along with its parent.
func (b *Bag[T]) find(item T) (at, parent handle) {
	for at = b.root; at != none; {
		n := &b.a.s[at]
		switch {
		case b.less(n.i, item):
			parent, at = at, n.c[r]
		case b.less(item, n.i):
			parent, at = at, n.c[l]
		default:
			return at, parent
		}
	}
	return none, none
}

// Remove takes one item equal to item out of the Bag.  It returns false if there was none.
func (b *Bag[T]) Remove(item T) bool {
	at, parent := b.find(item)
	if at == none {
		return false
	}
	resume := b.splice(at, parent)
	b.a.release(at)
	b.size--
	b.restoreAfterRemove(resume)
	return true
}

// splice unlinks at from the tree and returns the lowest node whose subtree changed.
func (b *Bag[T]) splice(at, parent handle) (resume handle) {
	a := &b.a
	left, right := a.left(at), a.right(at)
	switch {
	case left == none && right == none:
		b.changePosition(at, parent, none)
		return parent
	case left == none || right == none:
		with := left
		if with == none {
			with = right
		}
		b.changePosition(at, parent, with)
		return with
	}
	// Two children: the in-order predecessor takes over the position of at.
	pred := a.rightmost(left)
	predParent, predLeft := a.parent(pred), a.left(pred)
	if predParent == at {
		a.setRight(pred, right)
		b.changePosition(at, parent, pred)
		if predLeft != none {
			return predLeft
		}
		return pred
	}
	a.setRight(predParent, predLeft)
	if parent != none {
		a.replaceChild(parent, at, pred)
	} else {
		a.adopt(pred, at)
		b.changePosition(at, none, pred)
	}
	if predLeft != none {
		return predLeft
	}
	return predParent
}

// changePosition puts with where at used to hang off parent, or at the root.
func (b *Bag[T]) changePosition(at, parent, with handle) {
	if parent != none {
		b.a.changeChildSlot(parent, at, with)
	} else {
		b.root = with
	}
	if with != none {
		b.a.setParent(with, parent)
	}
}

// refresh recalculates cached heights and counts from h up to the root.
func (b *Bag[T]) refresh(h handle) {
	for ; h != none; h = b.a.s[h].parent {
		b.a.fix(h)
	}
}
