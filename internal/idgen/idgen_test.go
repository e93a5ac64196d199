package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id, err := New(InquiryPrefix)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, InquiryPrefix))
	assert.Len(t, id, len(InquiryPrefix)+Length)

	for _, r := range strings.TrimPrefix(id, InquiryPrefix) {
		assert.True(t, strings.ContainsRune(Alphabet, r), "unexpected rune %q", r)
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 500 {
		id, err := New(ProductPrefix)
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
