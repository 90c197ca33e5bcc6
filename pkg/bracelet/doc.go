// Package bracelet enumerates fixed-content bracelets, necklaces and Lyndon
// words.
//
// # Overview
//
// Given a length n and the number of times each of k colors must appear,
// the package lists one representative of every equivalence class of words
// with that content:
//
//   - [Bracelet]: classes under rotation and reflection
//   - [Necklace]: classes under rotation only
//   - [LyndonWord]: aperiodic necklaces
//   - [LyndonBracelet]: aperiodic bracelets
//
// The representative is the lexicographically smallest member of the class,
// written with zero-based colors. It always starts with color 0.
//
// # How It Works
//
// The generator is the fixed-content bracelet algorithm of Karim, Sawada,
// Alamgir and Husnine (Theoretical Computer Science 475, 2013). It grows a
// prenecklace one symbol at a time and never visits a word that cannot be
// completed into a representative, so the work per result is constant
// amortized rather than proportional to the k^n word space. Three small
// structures make each step O(1):
//
//   - a color pool: a doubly linked list of colors with remaining
//     occurrences, largest first
//   - a run-length encoding of the prefix
//   - a reversal comparator over the run-length blocks that decides whether
//     the prefix is smaller than, equal to, or larger than its mirror image
//
// # Basic Usage
//
//	spec := bracelet.NewSpec(3, 2, 1) // 000112 content, n = 6
//	words, err := bracelet.Enumerate(ctx, spec, bracelet.Bracelet)
//	// len(words) == 6
//
// Results are produced in generation order (depth-first, largest candidate
// first), not sorted.
//
// # Streaming
//
// The number of classes grows combinatorially with n. [Stream] hands each
// result to a callback instead of collecting them, and [WithLimit] caps the
// number of results. Both [Enumerate] and [Stream] check ctx periodically and
// stop with a CANCELLED error once it is done.
//
//	err := bracelet.Stream(ctx, spec, bracelet.Necklace, func(w []int) error {
//	    fmt.Println(w)
//	    return nil
//	})
//
// # Parallelism
//
// Every call owns its own state, so independent calls may run concurrently.
// [EnumerateParallel] additionally splits one call by the color placed at
// the second position and searches those subtrees on separate goroutines;
// it returns exactly what [Enumerate] returns, in the same order.
//
// # Limits
//
// Words longer than [MaxLength] or with more than [MaxColors] colors are
// rejected with a CAPACITY_EXCEEDED error, which also matches
// [ErrInvalidSpec]. All validation happens before the search starts.
package bracelet
