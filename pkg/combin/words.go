package combin

import "slices"

// Rotate returns a new word equal to w rotated left by i positions, so that
// the result starts with w[i mod n].
func Rotate(w []int, i int) []int {
	n := len(w)
	if n == 0 {
		return []int{}
	}
	i = ((i % n) + n) % n
	out := make([]int, 0, n)
	out = append(out, w[i:]...)
	return append(out, w[:i]...)
}

// Reverse returns a new word with the symbols of w in reverse order.
func Reverse(w []int) []int {
	out := slices.Clone(w)
	slices.Reverse(out)
	return out
}

// Period returns the length of the shortest prefix of w that, repeated,
// reproduces w. The period always divides len(w); an aperiodic word has
// period len(w). The empty word has period 0.
func Period(w []int) int {
	n := len(w)
	for p := 1; p < n; p++ {
		if n%p != 0 {
			continue
		}
		periodic := true
		for i := p; i < n; i++ {
			if w[i] != w[i-p] {
				periodic = false
				break
			}
		}
		if periodic {
			return p
		}
	}
	return n
}

// Canonical returns the lexicographically smallest rotation of w. When
// reflect is true, rotations of the reversal of w compete as well, which
// gives the bracelet representative instead of the necklace one.
func Canonical(w []int, reflect bool) []int {
	best := slices.Clone(w)
	consider := func(v []int) {
		for i := 1; i < len(v); i++ {
			if r := Rotate(v, i); slices.Compare(r, best) < 0 {
				best = r
			}
		}
	}
	consider(w)
	if reflect {
		rev := Reverse(w)
		if slices.Compare(rev, best) < 0 {
			best = rev
		}
		consider(rev)
	}
	return best
}

// IsNecklace reports whether w is lexicographically no larger than any of
// its rotations.
func IsNecklace(w []int) bool {
	return slices.Equal(w, Canonical(w, false))
}

// IsLyndon reports whether w is an aperiodic necklace: strictly smaller
// than each of its nontrivial rotations.
func IsLyndon(w []int) bool {
	return len(w) > 0 && IsNecklace(w) && Period(w) == len(w)
}

// IsBracelet reports whether w is the canonical representative of its
// bracelet class.
func IsBracelet(w []int) bool {
	return slices.Equal(w, Canonical(w, true))
}

// Content returns the number of occurrences of each color 0..k-1 in w.
// Symbols outside that range are ignored.
func Content(w []int, k int) []int {
	counts := make([]int, k)
	for _, c := range w {
		if c >= 0 && c < k {
			counts[c]++
		}
	}
	return counts
}
