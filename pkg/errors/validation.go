package errors

import (
	"strings"
	"unicode"
)

// ValidateCounts checks a color-count vector without knowledge of the
// enumeration limits: it must be non-empty and every count positive.
// Length limits are enforced by the bracelet package.
func ValidateCounts(counts []int) error {
	if len(counts) == 0 {
		return New(ErrCodeInvalidSpec, "at least one color count is required")
	}
	for i, c := range counts {
		if c <= 0 {
			return New(ErrCodeInvalidSpec, "count for color %d must be positive, got %d", i, c)
		}
	}
	return nil
}

// ValidateDensity checks that density is a usable fraction of ones in a
// binary code: strictly between 0 and 1.
func ValidateDensity(density float64) error {
	if density <= 0 || density >= 1 {
		return New(ErrCodeInvalidInput, "density must be in (0, 1), got %g", density)
	}
	return nil
}

// ValidatePath validates an output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateName validates a short identifier such as a job or objective name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}
