package catalog

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

// keyPrefix namespaces catalog keys in shared backends.
const keyPrefix = "catalog"

// Key identifies a search configuration.
type Key struct {
	Length    int
	Weight    int
	Objective string
}

// String formats the key as "catalog:<length>:<weight>:<objective>".
func (k Key) String() string {
	return fmt.Sprintf("%s:%d:%d:%s", keyPrefix, k.Length, k.Weight, k.Objective)
}

// Validate checks the key describes two-color content.
func (k Key) Validate() error {
	if k.Length < 2 {
		return jerrors.New(jerrors.ErrCodeInvalidInput, "code length must be at least 2, got %d", k.Length)
	}
	if k.Weight < 1 || k.Weight >= k.Length {
		return jerrors.New(jerrors.ErrCodeInvalidInput, "weight must be in 1..%d, got %d", k.Length-1, k.Weight)
	}
	if k.Objective == "" || strings.Contains(k.Objective, ":") {
		return jerrors.New(jerrors.ErrCodeInvalidObjective, "invalid objective name %q", k.Objective)
	}
	return nil
}

// ParseKey parses the output of [Key.String].
func ParseKey(s string) (Key, error) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) != 4 || parts[0] != keyPrefix {
		return Key{}, jerrors.New(jerrors.ErrCodeInvalidInput, "malformed catalog key %q", s)
	}
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return Key{}, jerrors.Wrap(jerrors.ErrCodeInvalidInput, err, "malformed length in key %q", s)
	}
	weight, err := strconv.Atoi(parts[2])
	if err != nil {
		return Key{}, jerrors.Wrap(jerrors.ErrCodeInvalidInput, err, "malformed weight in key %q", s)
	}
	key := Key{Length: length, Weight: weight, Objective: parts[3]}
	return key, key.Validate()
}

// lengthPattern matches every key of one code length, or every key when
// length is 0. The syntax is shared by Redis SCAN.
func lengthPattern(length int) string {
	if length <= 0 {
		return keyPrefix + ":*"
	}
	return fmt.Sprintf("%s:%d:*", keyPrefix, length)
}

func (k Key) compare(o Key) int {
	return cmp.Or(
		cmp.Compare(k.Length, o.Length),
		cmp.Compare(k.Weight, o.Weight),
		cmp.Compare(k.Objective, o.Objective),
	)
}
