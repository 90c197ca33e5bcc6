package bracelet

// block is a maximal run of one color.
type block struct {
	color  int
	length int
}

// runLength is the run-length encoding of the prefix built so far. Block 0
// is a sentinel with color 0, real blocks are 1..nb. Popped blocks are not
// cleared; the reversal adjustment at termination reads one block past the
// mirror window and relies on that.
type runLength struct {
	blocks []block
	nb     int
}

func newRunLength(n int) *runLength {
	return &runLength{blocks: make([]block, n+2)}
}

// append adds one symbol of color c.
func (r *runLength) append(c int) {
	if r.blocks[r.nb].color == c {
		r.blocks[r.nb].length++
		return
	}
	r.nb++
	r.blocks[r.nb] = block{color: c, length: 1}
}

// undo removes the last symbol.
func (r *runLength) undo() {
	if r.blocks[r.nb].length == 1 {
		r.nb--
		return
	}
	r.blocks[r.nb].length--
}

// reversal is the result of comparing a prefix with its mirror image.
type reversal int

const (
	reversalSmaller reversal = -1
	reversalEqual   reversal = 0
	reversalLarger  reversal = 1
)

// compareReversal compares the encoded prefix with its reversal, walking
// blocks inward from both ends. The case order matters: a color mismatch
// decides first, then a length mismatch is settled by the color of the
// neighboring block.
func (r *runLength) compareReversal() reversal {
	b, nb := r.blocks, r.nb
	j := 1
	for j <= nb/2 && b[j] == b[nb-j+1] {
		j++
	}
	if j > nb/2 {
		return reversalEqual
	}
	left, right := b[j], b[nb-j+1]
	switch {
	case left.color < right.color:
		return reversalLarger
	case left.color > right.color:
		return reversalSmaller
	case left.length < right.length && b[j+1].color < right.color:
		return reversalLarger
	case left.length > right.length && left.color < b[nb-j].color:
		return reversalLarger
	}
	return reversalSmaller
}
