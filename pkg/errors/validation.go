package errors

import (
	"strings"
	"unicode"
)

// ValidateCellName validates a clamp cell-type name from user input.
// Cell names key into the technology table and may end up in file names,
// so the rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateCellName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCell, "cell name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidCell, "cell name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCell, "cell name contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidCell, "cell name contains invalid path characters")
	}
	return nil
}

// ValidateLayerRange checks that routing can progress strictly upward from
// the used port layer to the top layer.
func ValidateLayerRange(usedPortLayer, topLayer int) error {
	if usedPortLayer < 1 {
		return New(ErrCodeInvalidLayer, "used port layer must be >= 1, got %d", usedPortLayer)
	}
	if usedPortLayer >= topLayer {
		return New(ErrCodeInvalidLayer,
			"top layer %d must be greater than used port layer %d", topLayer, usedPortLayer)
	}
	return nil
}
