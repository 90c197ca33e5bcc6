package bracelet

// colorPool is the ordered set of colors that still have occurrences left,
// largest first. Colors are 1..k; 0 and k+1 are sentinels that stay linked
// at the ends of the list.
//
// A color is only ever re-added in the reverse order of removal, so its own
// prev/next links still name the neighbors it had when it was removed and
// add can relink it without searching.
type colorPool struct {
	k    int
	next []int
	prev []int
	head int // largest available color, 0 when empty
}

func newColorPool(k int) *colorPool {
	p := &colorPool{
		k:    k,
		next: make([]int, k+2),
		prev: make([]int, k+2),
		head: k,
	}
	for j := k + 1; j >= 0; j-- {
		p.next[j] = j - 1
		p.prev[j] = j + 1
	}
	return p
}

// remove unlinks color c.
func (p *colorPool) remove(c int) {
	if c == p.head {
		p.head = p.next[c]
	}
	before, after := p.prev[c], p.next[c]
	p.next[before] = after
	p.prev[after] = before
}

// add relinks color c into the slot it was removed from.
func (p *colorPool) add(c int) {
	before, after := p.prev[c], p.next[c]
	p.prev[after] = c
	p.next[before] = c
	if before == p.k+1 {
		p.head = c
	}
}

// nextBelow returns the next smaller available color after c, or 0.
func (p *colorPool) nextBelow(c int) int { return p.next[c] }
