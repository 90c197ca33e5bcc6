package combin

import "slices"

// Seq returns a slice containing the sequence [0, 1, 2, ..., n-1].
// This is useful for initializing permutation arrays or creating index sequences.
//
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	if n <= 0 {
		return []int{}
	}
	result := make([]int, n)
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n! (n factorial), the product 1 × 2 × ... × n.
// For n <= 1, Factorial returns 1.
//
// Note that factorials grow extremely fast: 21! overflows int64.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Multinomial returns the number of distinct arrangements of a multiset
// with the given color counts: (Σcounts)! / Π(counts[i]!).
//
// It is computed as a product of binomials so intermediate values stay as
// small as the result allows. Non-positive counts contribute nothing.
func Multinomial(counts []int) int {
	result := 1
	total := 0
	for _, c := range counts {
		for i := 1; i <= c; i++ {
			total++
			// result * total / i is always integral at this point
			result = result * total / i
		}
	}
	return result
}

// Expand returns the lexicographically smallest word with the given
// content: counts[0] zeros, then counts[1] ones, and so on.
func Expand(counts []int) []int {
	n := 0
	for _, c := range counts {
		n += max(c, 0)
	}
	word := make([]int, 0, n)
	for color, c := range counts {
		for range c {
			word = append(word, color)
		}
	}
	return word
}

// VisitArrangements calls fn for every distinct arrangement of the multiset
// described by counts, in lexicographic order. The slice passed to fn is
// reused between calls; clone it to keep it. Returning false from fn stops
// the walk.
func VisitArrangements(counts []int, fn func(word []int) bool) {
	word := Expand(counts)
	for {
		if !fn(word) {
			return
		}
		if !nextPermutation(word) {
			return
		}
	}
}

// Arrangements returns the distinct arrangements of the multiset described
// by counts, in lexicographic order.
//
// If limit > 0, Arrangements returns at most limit arrangements.
// If limit <= 0, it returns all Multinomial(counts) of them.
//
// Each returned slice is a separate allocation, safe to modify without
// affecting others.
func Arrangements(counts []int, limit int) [][]int {
	capacity := limit
	if total := Multinomial(counts); capacity <= 0 || capacity > total {
		capacity = total
	}
	result := make([][]int, 0, capacity)
	VisitArrangements(counts, func(word []int) bool {
		result = append(result, slices.Clone(word))
		return limit <= 0 || len(result) < limit
	})
	return result
}

// nextPermutation rearranges w into its lexicographic successor and reports
// whether one existed. On false, w is left as the last permutation.
func nextPermutation(w []int) bool {
	i := len(w) - 2
	for i >= 0 && w[i] >= w[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(w) - 1
	for w[j] <= w[i] {
		j--
	}
	w[i], w[j] = w[j], w[i]
	slices.Reverse(w[i+1:])
	return true
}
