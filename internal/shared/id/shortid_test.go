package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	got, err := Generate(DefaultLength)
	require.NoError(t, err)
	assert.Len(t, got, DefaultLength)
	for _, r := range got {
		assert.Contains(t, alphabet, string(r))
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	got, err := GenerateWithPrefix(PrefixPayment, DefaultLength)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "pay_"))
	assert.Len(t, got, len(PrefixPayment)+1+DefaultLength)
}

func TestGenerateIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		got := MustGenerate(DefaultLength)
		require.False(t, seen[got], "duplicate id generated: %s", got)
		seen[got] = true
	}
}
