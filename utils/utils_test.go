package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssertInvariant(t *testing.T) {
	assert.NotPanics(t, func() { AssertInvariant(true, "holds") })
	assert.PanicsWithValue(t, "invariant violated - prefix cannot be empty", func() {
		AssertInvariant(false, "prefix cannot be empty")
	})
}
