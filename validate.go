package avlbag

import "github.com/pkg/errors"

// Validate recomputes every structural invariant of the Bag from scratch and returns an
// error wrapping ErrCorrupt for the first one that does not hold.  It walks the whole tree,
// so it is meant for tests and verification runs rather than hot paths.
func (b *Bag[T]) Validate() error {
	a := &b.a
	if b.root != none && a.parent(b.root) != none {
		return errors.Wrapf(ErrCorrupt, "root %s has parent %d", a.describe(b.root), a.parent(b.root))
	}
	var (
		prev    T
		started bool
	)
	var walk func(h handle) (height, count int, err error)
	walk = func(h handle) (height, count int, err error) {
		if h == none {
			return 0, 0, nil
		}
		n := &a.s[h]
		for dir, c := range n.c {
			if c != none && a.parent(c) != h {
				return 0, 0, errors.Wrapf(ErrCorrupt, "child %d of %s points at parent %d", dir, a.describe(h), a.parent(c))
			}
		}
		lh, lc, err := walk(n.c[l])
		if err != nil {
			return 0, 0, err
		}
		if started && b.less(n.i, prev) {
			return 0, 0, errors.Wrapf(ErrCorrupt, "%s is out of order after %v", a.describe(h), prev)
		}
		prev, started = n.i, true
		rh, rc, err := walk(n.c[r])
		if err != nil {
			return 0, 0, err
		}
		if bf := rh - lh; bf < leftLean || bf > rightLean {
			return 0, 0, errors.Wrapf(ErrCorrupt, "%s has balance factor %d", a.describe(h), bf)
		}
		height, count = max(lh, rh)+1, lc+rc+1
		if n.height != height || n.count != count {
			return 0, 0, errors.Wrapf(ErrCorrupt, "%s caches height %d count %d, has height %d count %d",
				a.describe(h), n.height, n.count, height, count)
		}
		return height, count, nil
	}
	_, count, err := walk(b.root)
	if err != nil {
		return err
	}
	if count != b.size {
		return errors.Wrapf(ErrCorrupt, "size is %d but %d nodes are reachable", b.size, count)
	}
	if live := a.slots() - a.idle; live != count {
		return errors.Wrapf(ErrCorrupt, "arena holds %d live slots for %d nodes", live, count)
	}
	return nil
}
