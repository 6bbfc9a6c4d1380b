package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateSpacing checks an item spacing value. Spacing is the number of
// scroll units between two neighbouring sorted positions and must be a
// finite positive number.
func ValidateSpacing(spacing float64) error {
	if math.IsNaN(spacing) || math.IsInf(spacing, 0) {
		return New(ErrCodeInvalidInput, "item spacing must be finite")
	}
	if spacing <= 0 {
		return New(ErrCodeInvalidInput, "item spacing must be positive, got %g", spacing)
	}
	return nil
}

// ValidateGapRatio checks the proportional packing gap constant.
func ValidateGapRatio(k float64) error {
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return New(ErrCodeInvalidInput, "gap ratio must be finite")
	}
	if k < 0 {
		return New(ErrCodeInvalidInput, "gap ratio cannot be negative, got %g", k)
	}
	return nil
}

// ValidateFixedGap checks an absolute packing gap. Zero disables it.
func ValidateFixedGap(g float64) error {
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return New(ErrCodeInvalidInput, "fixed gap must be finite")
	}
	if g < 0 {
		return New(ErrCodeInvalidInput, "fixed gap cannot be negative, got %g", g)
	}
	return nil
}

// ValidatePath validates a dataset or output path supplied by a user.
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

// ValidateEntityName rejects names that would break captions.
func ValidateEntityName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidDataset, "entity name cannot be blank")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidDataset, "entity name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "entity name contains control characters")
		}
	}
	return nil
}
