package bracelet

import (
	"fmt"
	"slices"
	"strings"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

const (
	// MaxLength is the longest word the generator accepts.
	MaxLength = 64

	// MaxColors is the largest alphabet the generator accepts. Every color
	// must occur at least once, so in practice k is also bounded by n.
	MaxColors = 64
)

// ErrInvalidSpec matches every content validation failure, including
// capacity overruns:
//
//	if errors.Is(err, bracelet.ErrInvalidSpec) { ... }
var ErrInvalidSpec = &jerrors.Error{Code: jerrors.ErrCodeInvalidSpec, Message: "invalid content specification"}

// Spec is a content specification: a word length and how many times each
// color occurs. Color i of Counts is written as i in the results.
type Spec struct {
	N      int   `json:"n" toml:"n"`
	Counts []int `json:"counts" toml:"counts"`
}

// NewSpec returns the specification whose length is the sum of counts.
func NewSpec(counts ...int) Spec {
	n := 0
	for _, c := range counts {
		n += c
	}
	return Spec{N: n, Counts: slices.Clone(counts)}
}

// K returns the number of colors.
func (s Spec) K() int { return len(s.Counts) }

// Validate checks every invariant of the specification. Violations are
// reported as *errors.Error values with code INVALID_SPEC, or
// CAPACITY_EXCEEDED when n or k is beyond [MaxLength] or [MaxColors].
func (s Spec) Validate() error {
	k := len(s.Counts)
	if k < 1 {
		return jerrors.New(jerrors.ErrCodeInvalidSpec, "at least one color is required")
	}
	if k > MaxColors {
		return jerrors.New(jerrors.ErrCodeCapacityExceeded, "%d colors exceeds the maximum of %d", k, MaxColors)
	}
	if s.N < 1 {
		return jerrors.New(jerrors.ErrCodeInvalidSpec, "length must be positive, got %d", s.N)
	}
	if s.N > MaxLength {
		return jerrors.New(jerrors.ErrCodeCapacityExceeded, "length %d exceeds the maximum of %d", s.N, MaxLength)
	}
	if err := jerrors.ValidateCounts(s.Counts); err != nil {
		return err
	}
	sum := 0
	for _, c := range s.Counts {
		sum += c
	}
	if sum != s.N {
		return jerrors.New(jerrors.ErrCodeInvalidSpec, "counts sum to %d, want n = %d", sum, s.N)
	}
	return nil
}

// String formats the specification as "n=6 counts=[3 2 1]".
func (s Spec) String() string {
	return fmt.Sprintf("n=%d counts=%v", s.N, s.Counts)
}

// Mode selects the equivalence relation.
type Mode int

const (
	// Bracelet identifies words under rotation and reflection.
	Bracelet Mode = iota
	// Necklace identifies words under rotation only.
	Necklace
	// LyndonWord keeps only aperiodic necklaces.
	LyndonWord
	// LyndonBracelet keeps only aperiodic bracelets.
	LyndonBracelet
)

var modeNames = map[Mode]string{
	Bracelet:       "bracelet",
	Necklace:       "necklace",
	LyndonWord:     "lyndon",
	LyndonBracelet: "lyndon-bracelet",
}

// Modes returns every supported mode in declaration order.
func Modes() []Mode {
	return []Mode{Bracelet, Necklace, LyndonWord, LyndonBracelet}
}

// String returns the mode name accepted by [ParseMode].
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Reflect reports whether mirror images are identified.
func (m Mode) Reflect() bool { return m == Bracelet || m == LyndonBracelet }

// Aperiodic reports whether periodic words are excluded.
func (m Mode) Aperiodic() bool { return m == LyndonWord || m == LyndonBracelet }

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode converts a mode name to a Mode. Matching is case-insensitive
// and accepts a few aliases ("lyndon-word", "lyndon_bracelet").
func ParseMode(s string) (Mode, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	switch name {
	case "", "bracelet", "bracelets":
		return Bracelet, nil
	case "necklace", "necklaces":
		return Necklace, nil
	case "lyndon", "lyndon-word", "lyndon-words":
		return LyndonWord, nil
	case "lyndon-bracelet", "lyndon-bracelets":
		return LyndonBracelet, nil
	}
	return Bracelet, jerrors.New(jerrors.ErrCodeInvalidMode, "unknown mode %q (want bracelet, necklace, lyndon or lyndon-bracelet)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, jerrors.New(jerrors.ErrCodeInvalidMode, "unknown mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
