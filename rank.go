package avlbag

import "github.com/pkg/errors"

// ElementAtPercentile returns an item near percentile p of the Bag, 0 <= p <= 100.
//
// The target rank is Size()*p/100.  The walk descends from the root, keeping a running
// count of the nodes it has passed on the way, and stops at the first node where that count
// plus one reaches the target, or where the chosen child is absent.  The count only adds the
// descendants of each left child, not the left child itself, so the answer can land a few
// ranks away from the exact order statistic.  With 0..15 stored, percentile 90 yields 15.
func (b *Bag[T]) ElementAtPercentile(p int) (item T, err error) {
	if p < 0 || p > 100 {
		b.log.Debug().Int("percentile", p).Msg("rejected percentile")
		return item, errors.Wrapf(ErrInvalidArgument, "percentile %d is outside [0,100]", p)
	}
	if b.root == none {
		return item, errors.Wrap(ErrEmpty, "no element at any percentile")
	}
	a := &b.a
	index := b.size * p / 100
	n := b.root
	before := 0
	for a.childCount(n) != 0 {
		if before+1 == index {
			break
		}
		leftCount := a.childCount(a.left(n))
		next := a.left(n)
		if before+leftCount < index {
			next = a.right(n)
			before += leftCount
		}
		before++ // n itself
		if next == none {
			break
		}
		n = next
	}
	return a.item(n), nil
}
