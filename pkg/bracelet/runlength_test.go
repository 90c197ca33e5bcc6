package bracelet

import "testing"

func encode(word ...int) *runLength {
	r := newRunLength(len(word))
	for _, c := range word {
		r.append(c)
	}
	return r
}

func TestRunLength_AppendUndo(t *testing.T) {
	r := encode(1, 1, 2, 2, 2, 1)
	if r.nb != 3 {
		t.Fatalf("nb = %d, want 3", r.nb)
	}
	want := []block{{1, 2}, {2, 3}, {1, 1}}
	for i, b := range want {
		if r.blocks[i+1] != b {
			t.Errorf("block %d = %+v, want %+v", i+1, r.blocks[i+1], b)
		}
	}

	r.undo()
	if r.nb != 2 {
		t.Errorf("nb after popping a length-1 block = %d, want 2", r.nb)
	}
	r.undo()
	if r.nb != 2 || r.blocks[2].length != 2 {
		t.Errorf("after shrinking: nb = %d, last = %+v", r.nb, r.blocks[2])
	}
}

func TestRunLength_CompareReversal(t *testing.T) {
	tests := []struct {
		name string
		word []int
		want reversal
	}{
		{"single block", []int{1, 1, 1}, reversalEqual},
		{"palindrome", []int{1, 2, 2, 1}, reversalEqual},
		{"block palindrome", []int{1, 1, 2, 1, 1}, reversalEqual},
		{"smaller color first", []int{1, 2, 3}, reversalLarger},
		{"larger color first", []int{2, 1, 1, 3, 1}, reversalSmaller},
		{"mirror starts smaller", []int{2, 3, 1}, reversalSmaller},
		{"outer color differs", []int{1, 2, 1, 1, 2, 2}, reversalLarger},
		{"shorter outer run, smaller neighbor", []int{2, 1, 1, 2, 2}, reversalLarger},
		{"longer outer run", []int{1, 1, 2, 1}, reversalLarger},
		{"shorter outer run, larger neighbor", []int{1, 3, 2, 1, 1}, reversalSmaller},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encode(tt.word...).compareReversal(); got != tt.want {
				t.Errorf("compareReversal(%v) = %d, want %d", tt.word, got, tt.want)
			}
		})
	}
}
