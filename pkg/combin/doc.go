// Package combin provides the small combinatorics toolkit that backs
// jeweler: multiset arrangements, rotations and reflections of words, period
// detection, canonical forms, and a brute-force orbit counter.
//
// # Overview
//
// The bracelet package enumerates canonical representatives directly,
// without ever visiting the full space of arrangements. This package does
// the opposite: it walks every distinct arrangement of a multiset and
// reduces each one to its canonical form. That is exponentially slower, but
// it is simple enough to trust, which makes it the correctness oracle for
// the fast generator:
//
//	fast, _ := bracelet.Count(ctx, content, bracelet.Bracelet)
//	slow := combin.CountOrbits([]int{3, 2, 1}, true, false)
//	// fast == slow == 6
//
// # Words
//
// A word is a []int of zero-based colors. The helpers never modify their
// inputs:
//
//   - [Rotate], [Reverse]: the symmetry operations
//   - [Period]: the shortest p such that the word is a repetition of its
//     first p symbols
//   - [Canonical]: the lexicographically smallest rotation (and, when
//     reflect is set, the smallest rotation of the reversal)
//   - [IsNecklace], [IsLyndon], [IsBracelet]: canonical-form predicates
//
// # Arrangements
//
// [VisitArrangements] walks the distinct permutations of a multiset in
// lexicographic order using the classic next-permutation step, so repeated
// colors never produce duplicate visits. [Arrangements] collects them with an
// optional limit. [Multinomial] gives the total in advance; it grows as
// fast as [Factorial], so keep brute-force checks to n ≤ 12 or so.
package combin
