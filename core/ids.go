package core

import (
	"strings"

	"github.com/oklog/ulid/v2"

	"dailydose/utils"
)

// NewID generates a new ULID with the given prefix.
// The format is: prefix_ULID
// Example: core.NewID("sr") returns "sr_01G0EZ1XTM37C5X11SQTDNCTM1"
func NewID(prefix string) string {
	utils.AssertInvariant(strings.TrimSpace(prefix) != "", "prefix cannot be empty")

	return strings.ToLower(strings.TrimSpace(prefix)) + "_" + ulid.Make().String()
}

// IsValidULID checks if the given string is a valid prefixed ULID (prefix_ULID)
func IsValidULID(id string) bool {
	prefix, ulidPart, ok := strings.Cut(id, "_")
	if !ok || prefix == "" || strings.Contains(ulidPart, "_") {
		return false
	}

	for _, r := range prefix {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}

	if len(ulidPart) != ulid.EncodedSize {
		return false
	}

	// uppercase Crockford base32 only (no I, L, O, U)
	for _, r := range ulidPart {
		if !((r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z' && r != 'I' && r != 'L' && r != 'O' && r != 'U')) {
			return false
		}
	}

	_, err := ulid.Parse(ulidPart)
	return err == nil
}
