package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	got, err := Generate(PrefixImage)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "img-"))
	// prefix + "-" + 21-char NanoID
	assert.Len(t, got, len(PrefixImage)+1+21)
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		got, err := Generate(PrefixAudio)
		require.NoError(t, err)
		assert.False(t, seen[got], "duplicate id generated: %s", got)
		seen[got] = true
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		got := MustGenerate(PrefixAudio)
		assert.True(t, strings.HasPrefix(got, "aud-"))
	})
}
