package errors

import (
	"math"
	"unicode"
)

// MaxCategoryLength bounds category names accepted from record sources.
const MaxCategoryLength = 256

// ValidateCategory validates a stage category name.
//
// Category names come straight from an aggregation query and end up as
// diagram labels, so the rules are conservative:
//   - No empty names (absent values use the "NULL" sentinel instead)
//   - No control characters or null bytes
//   - Maximum length of 256 bytes
func ValidateCategory(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRecord, "category cannot be empty (use \"NULL\" for unassigned)")
	}

	if len(name) > MaxCategoryLength {
		return New(ErrCodeInvalidRecord, "category too long (max %d characters)", MaxCategoryLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRecord, "category %q contains control characters", name)
		}
	}

	return nil
}

// ValidateWeight rejects negative, NaN and infinite weights.
func ValidateWeight(w float64) error {
	if math.IsNaN(w) {
		return New(ErrCodeInvalidRecord, "weight is NaN")
	}
	if math.IsInf(w, 0) {
		return New(ErrCodeInvalidRecord, "weight is infinite")
	}
	if w < 0 {
		return New(ErrCodeInvalidRecord, "weight %g is negative", w)
	}
	return nil
}

// ValidateTopN checks the rank limit is a positive integer.
func ValidateTopN(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidInput, "top_n must be positive, got %d", n)
	}
	return nil
}
