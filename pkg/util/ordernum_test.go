package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderNumberGenerator_Unique(t *testing.T) {
	gen, err := NewOrderNumberGenerator(1)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		n := gen.Next()
		assert.True(t, strings.HasPrefix(n, "BG"))
		assert.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}
}

func TestOrderNumberGenerator_InvalidNode(t *testing.T) {
	_, err := NewOrderNumberGenerator(5000)
	assert.Error(t, err)
}
