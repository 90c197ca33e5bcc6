package combin

import "slices"

// Orbits returns the canonical representative of every orbit of the
// arrangements of counts, in lexicographic order.
//
// The symmetry group is the rotation group when reflect is false and the
// dihedral group when reflect is true. With aperiodic set, only orbits of
// aperiodic words are kept (Lyndon words, or Lyndon bracelets when reflect
// is also set).
//
// Orbits visits every one of Multinomial(counts) arrangements. It is meant
// as an oracle for small inputs, not as a generator.
func Orbits(counts []int, reflect, aperiodic bool) [][]int {
	var reps [][]int
	VisitArrangements(counts, func(w []int) bool {
		if isRepresentative(w, reflect, aperiodic) {
			reps = append(reps, slices.Clone(w))
		}
		return true
	})
	return reps
}

// CountOrbits returns len(Orbits(counts, reflect, aperiodic)) without
// keeping the representatives.
func CountOrbits(counts []int, reflect, aperiodic bool) int {
	total := 0
	VisitArrangements(counts, func(w []int) bool {
		if isRepresentative(w, reflect, aperiodic) {
			total++
		}
		return true
	})
	return total
}

// isRepresentative reports whether w is the canonical member of its orbit.
// Each orbit has exactly one, so counting representatives counts orbits.
func isRepresentative(w []int, reflect, aperiodic bool) bool {
	if aperiodic && Period(w) != len(w) {
		return false
	}
	return slices.Equal(w, Canonical(w, reflect))
}
