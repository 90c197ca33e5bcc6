package bracelet

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// EnumerateParallel returns the same results as [Enumerate], in the same
// order, but searches the subtree below each candidate for position 2 on its
// own goroutine. Use [WithWorkers] to bound the number of goroutines.
//
// With [WithLimit], each subtree stops at the limit and the concatenation is
// truncated, so the first results are identical to the sequential ones.
func EnumerateParallel(ctx context.Context, spec Spec, mode Mode, opts ...Option) ([][]int, error) {
	cfg := newConfig(opts)
	planner, err := prepare(ctx, spec, mode)
	if err != nil {
		return nil, err
	}
	roots := planner.rootCandidates()
	if len(roots) < 2 || cfg.workers == 1 {
		return Enumerate(ctx, spec, mode, opts...)
	}

	parts := make([][][]int, len(roots))
	group, groupCtx := errgroup.WithContext(planner.ctx)
	group.SetLimit(cfg.workers)
	for i, root := range roots {
		group.Go(func() error {
			g := newGenerator(groupCtx, spec, mode)
			g.root = root
			g.limit = cfg.limit
			g.sink = func(w []int) error {
				parts[i] = append(parts[i], w)
				return nil
			}
			return finish(g.search())
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var words [][]int
	for _, part := range parts {
		words = append(words, part...)
	}
	if cfg.limit > 0 && len(words) > cfg.limit {
		words = words[:cfg.limit]
	}
	return words, nil
}

// rootCandidates lists, in search order, the colors the search will try at
// position 2. It returns nil when position 2 does not branch: single-color
// content, or content whose tail is already forced after position 1.
func (g *generator) rootCandidates() []int {
	if g.k == 1 {
		return nil
	}
	g.word[1] = 1
	g.take(1)
	g.rle.append(1)
	if g.num[g.k] == g.n-1 || g.num[1] == g.n-1 {
		return nil
	}
	var roots []int
	for j := g.pool.head; j >= g.word[1]; j = g.pool.nextBelow(j) {
		roots = append(roots, j)
	}
	return roots
}
