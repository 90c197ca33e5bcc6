package bracelet

import (
	"context"
	"errors"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

// cancelCheckInterval is how many extend calls pass between context checks.
const cancelCheckInterval = 1024

// errLimitReached stops the search once the result cap is hit. Drivers
// translate it to a nil error.
var errLimitReached = errors.New("result limit reached")

// generator owns all state of one enumeration. Arrays are 1-indexed like
// the positions they describe; index 0 is unused or a sentinel.
type generator struct {
	n, k      int
	reflect   bool
	aperiodic bool

	word []int // word[1..n], colors 1..k
	run  []int // run[z]: length of the run of color k starting at z
	num  []int // num[c]: occurrences of color c still to place
	pool *colorPool
	rle  *runLength

	// root, when nonzero, restricts position 2 to that color. Parallel
	// drivers use it to split the search tree.
	root int

	ctx   context.Context
	calls int

	limit   int
	emitted int
	sink    Sink
}

func newGenerator(ctx context.Context, spec Spec, mode Mode) *generator {
	n, k := spec.N, spec.K()
	g := &generator{
		n:         n,
		k:         k,
		reflect:   mode.Reflect(),
		aperiodic: mode.Aperiodic(),
		word:      make([]int, n+1),
		run:       make([]int, n+2),
		num:       make([]int, k+1),
		pool:      newColorPool(k),
		rle:       newRunLength(n),
		ctx:       ctx,
	}
	copy(g.num[1:], spec.Counts)
	// Unfilled positions hold k so the bound word[t-p] reads as "largest"
	// until the position is written.
	for i := 1; i <= n; i++ {
		g.word[i] = k
	}
	return g
}

// search walks the whole tree. Every representative starts with the
// smallest color, so position 1 is fixed before the recursion starts.
func (g *generator) search() error {
	if err := g.ctx.Err(); err != nil {
		return jerrors.Wrap(jerrors.ErrCodeCancelled, err, "enumeration not started")
	}
	g.word[1] = 1
	g.take(1)
	g.rle.append(1)
	return g.extend(2, 1, 1, 2, 1, false)
}

// take consumes one occurrence of color c.
func (g *generator) take(c int) {
	g.num[c]--
	if g.num[c] == 0 {
		g.pool.remove(c)
	}
}

// give returns one occurrence of color c.
func (g *generator) give(c int) {
	if g.num[c] == 0 {
		g.pool.add(c)
	}
	g.num[c]++
}

// extend fills position t of a prenecklace word[1..t-1].
//
//	p  length of the longest Lyndon prefix (the period candidate)
//	r  length of the longest prefix known to equal its own reversal
//	z  start of the trailing run of color k
//	b  number of run-length blocks covering word[1..r]
//	rs whether word[r+1..] is known to be larger than its reversal
func (g *generator) extend(t, p, r, z, b int, rs bool) error {
	g.calls++
	if g.calls%cancelCheckInterval == 0 {
		if err := g.ctx.Err(); err != nil {
			return jerrors.Wrap(jerrors.ErrCodeCancelled, err, "enumeration stopped at position %d", t)
		}
	}

	n, k, a, num := g.n, g.k, g.word, g.num

	// Compare the newest symbol with its mirror position in word[r+1..n].
	if g.reflect && t-1 > (n-r)/2+r {
		if a[t-1] > a[n-t+2+r] {
			rs = false
		} else if a[t-1] < a[n-t+2+r] {
			rs = true
		}
	}

	// Only copies of the largest color remain: the rest of the word is forced.
	if num[k] == n-t+1 {
		if num[k] > g.run[t-p] {
			p = n
		}
		if g.reflect && num[k] > 0 && t != r+1 {
			next := g.rle.blocks[b+1]
			if next.color == k && next.length > num[k] {
				rs = true
			}
			if next.color != k || next.length < num[k] {
				rs = false
			}
		}
		if !rs {
			return g.emit(p)
		}
		return nil
	}

	// Only the smallest color remains but the tail is not forced: no
	// completion can be a prenecklace.
	if num[1] == n-t+1 {
		return nil
	}

	for j := g.pool.head; j >= a[t-p]; j = g.pool.nextBelow(j) {
		if t == 2 && g.root != 0 && j != g.root {
			continue
		}
		err := g.branch(t, p, r, z, b, rs, j)
		if err != nil {
			a[t] = k
			return err
		}
	}
	a[t] = k
	return nil
}

// branch places color j at position t, recurses, and undoes the placement
// on every path out.
func (g *generator) branch(t, p, r, z, b int, rs bool, j int) error {
	a := g.word

	g.run[z] = t - z
	g.rle.append(j)
	g.take(j)
	a[t] = j
	defer func() {
		g.give(j)
		g.rle.undo()
	}()

	z2 := z
	if j != g.k {
		z2 = t + 1
	}
	p2 := p
	if j != a[t-p] {
		p2 = t
	}

	if !g.reflect {
		return g.extend(t+1, p2, r, z2, b, rs)
	}
	switch g.rle.compareReversal() {
	case reversalEqual:
		return g.extend(t+1, p2, t, z2, g.rle.nb, false)
	case reversalLarger:
		return g.extend(t+1, p2, r, z2, b, rs)
	}
	// The prefix is larger than its own mirror image: nothing below is
	// a representative.
	return nil
}

// emit reports word[1..n] when its period passes the mode's test.
func (g *generator) emit(p int) error {
	if g.aperiodic {
		if p != g.n {
			return nil
		}
	} else if g.n%p != 0 {
		return nil
	}
	return g.deliver()
}

// deliver converts the current word to zero-based colors and hands it to
// the sink.
func (g *generator) deliver() error {
	g.emitted++
	if g.sink != nil {
		word := make([]int, g.n)
		for i := range word {
			word[i] = g.word[i+1] - 1
		}
		if err := g.sink(word); err != nil {
			return err
		}
	}
	if g.limit > 0 && g.emitted >= g.limit {
		return errLimitReached
	}
	return nil
}
