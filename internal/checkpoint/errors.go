package checkpoint

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrPayloadTooLarge    = errors.New("payload exceeds maximum size")
	ErrTypeMismatch       = errors.New("checkpoint holds a different type")
)

// ValidationError describes a leaf that does not match the target value.
type ValidationError struct {
	Type    string // Kind of failure ("missing_leaf", "unexpected_leaf")
	Leaf    string // Leaf path involved
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Leaf != "" {
		return fmt.Sprintf("%s: leaf %q: %s", e.Type, e.Leaf, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}
