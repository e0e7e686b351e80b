package avlbag

/*
|	rotateUp promotes n above its parent p.  With n on the right of p:
|	  |             |
|	  p             n
|	 / \           / \
|	x   n    =>   p   z
|	   / \       / \
|	  y   z     x   y
|	The mirror image applies when n is on the left.
*/
func (b *Bag[T]) rotateUp(n handle) {
	a := &b.a
	p := a.parent(n)
	g := a.parent(p)
	from := a.side(p, n)
	if from < 0 {
		panic("Impossible")
	}
	to := flip(from)
	a.setChild(p, from, a.s[n].c[to])
	a.setChild(n, to, p)
	if g == none {
		b.root = n
	} else {
		a.changeChildSlot(g, p, n)
	}
	a.setParent(n, g)
	a.fix(p)
	a.fix(n)
	b.log.Trace().Int("promoted", int(n)).Int("demoted", int(p)).Int("from", from).Msg("rotate")
}

// rightRight and leftLeft promote the middle node of a straight chain.
// rightLeft and leftRight promote the bottom node of a bent chain twice.
func (b *Bag[T]) rightRight(p handle) { b.rotateUp(p) }
func (b *Bag[T]) leftLeft(p handle)   { b.rotateUp(p) }

func (b *Bag[T]) rightLeft(n handle) {
	b.rotateUp(n)
	b.rotateUp(n)
}

func (b *Bag[T]) leftRight(n handle) {
	b.rotateUp(n)
	b.rotateUp(n)
}

// restoreAfterInsert walks up from a freshly linked node looking at grandparents.
// onRight says whether n hangs off the right of its parent.  The first rotation restores
// the height the subtree had before the insert, so the walk stops there.
func (b *Bag[T]) restoreAfterInsert(n handle, onRight bool) {
	a := &b.a
	for {
		p := a.parent(n)
		g := a.parent(p)
		if p == none || g == none {
			return
		}
		top := p
		switch bf := a.balanceFactor(g); {
		case bf > rightLean:
			if onRight {
				b.rightRight(p)
			} else {
				b.rightLeft(n)
				top = n
			}
		case bf < leftLean:
			if onRight {
				b.leftRight(n)
				top = n
			} else {
				b.leftLeft(p)
			}
		default:
			onRight = a.isRightChildOf(p, g)
			n = p
			continue
		}
		b.refresh(a.parent(top))
		return
	}
}

// restoreAfterRemove walks from n to the root, rebalancing every node that no longer meets
// the AVL balance criteria.  A removal can unbalance several ancestors, so the walk always
// reaches the root.
func (b *Bag[T]) restoreAfterRemove(n handle) {
	a := &b.a
	for ; n != none; n = a.parent(n) {
		a.fix(n)
		var heavy, bent int
		switch a.balanceFactor(n) {
		case leftLean, balanced, rightLean:
			continue
		case rightHeavy:
			heavy, bent = r, leftLean
		case leftHeavy:
			heavy, bent = l, rightLean
		default:
			panic("Tree too far out of shape!")
		}
		c := a.s[n].c[heavy]
		if a.balanceFactor(c) == bent {
			// c leans away from heavy, so a single rotation would leave n's replacement
			// just as unbalanced.  Bring the inner grandchild up twice instead.
			gc := a.s[c].c[flip(heavy)]
			b.rotateUp(gc)
			b.rotateUp(gc)
			n = gc
		} else {
			b.rotateUp(c)
			n = c
		}
	}
}
