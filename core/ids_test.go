package core

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{
			name:   "valid prefix",
			prefix: "u",
		},
		{
			name:   "valid multi-character prefix",
			prefix: "sr",
		},
		{
			name:   "uppercase prefix gets lowercased",
			prefix: "TM",
		},
		{
			name:   "prefix with spaces gets trimmed",
			prefix: "  sp  ",
		},
	}

	fullPattern := regexp.MustCompile(`^[a-z0-9]+_[0123456789ABCDEFGHJKMNPQRSTVWXYZ]{26}$`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewID(tt.prefix)

			expectedPrefix := strings.ToLower(strings.TrimSpace(tt.prefix)) + "_"
			assert.True(t, strings.HasPrefix(got, expectedPrefix), "NewID() = %v, want prefix %v", got, expectedPrefix)
			assert.Regexp(t, fullPattern, got)
			assert.True(t, IsValidULID(got))
		})
	}

	t.Run("empty prefix panics", func(t *testing.T) {
		assert.Panics(t, func() { NewID("  ") })
	})

	t.Run("ids are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for range 1000 {
			id := NewID("sr")
			assert.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	})
}

func TestIsValidULID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"generated", "tm_01G0EZ1XTM37C5X11SQTDNCTM1", true},
		{"missing prefix", "01G0EZ1XTM37C5X11SQTDNCTM1", false},
		{"empty prefix", "_01G0EZ1XTM37C5X11SQTDNCTM1", false},
		{"uppercase prefix", "TM_01G0EZ1XTM37C5X11SQTDNCTM1", false},
		{"lowercase ulid", "tm_01g0ez1xtm37c5x11sqtdnctm1", false},
		{"too short", "tm_01G0EZ1XTM37C5X11SQTDNCT", false},
		{"forbidden letter", "tm_01G0EZ1XTM37C5X11SQTDNCTMI", false},
		{"double separator", "tm_x_01G0EZ1XTM37C5X11SQTDNCTM1", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidULID(tt.id))
		})
	}
}
