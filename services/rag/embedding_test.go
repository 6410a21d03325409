package rag

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed_Deterministic(t *testing.T) {
	text := "The tawny eagle soars over the Margalla Hills"

	first := Embed(text)
	second := Embed(text)

	assert.Equal(t, first, second)
}

func TestEmbed_Dimension(t *testing.T) {
	assert.Len(t, Embed("leopard habitat"), Dimension)
	assert.Len(t, Embed(""), Dimension)
}

func TestEmbed_UnitNorm(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"single token", "leopard"},
		{"sentence", "Where do leopards live in Islamabad?"},
		{"repeated tokens", "bird bird bird bird"},
		{"punctuation and case", "WHAT species?! Is... THIS?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec := Embed(tt.text)

			var sumSquares float64
			for _, v := range vec {
				sumSquares += v * v
			}
			assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-9)
		})
	}
}

func TestEmbed_ZeroVectorForShortTokens(t *testing.T) {
	// Every token is two characters or fewer, so nothing survives filtering
	tests := []string{"", "a b", "is it", "x y z", "  ??  !!  "}

	for _, text := range tests {
		vec := Embed(text)
		for i, v := range vec {
			require.Zero(t, v, "bucket %d for input %q", i, text)
		}
	}
}

func TestEmbed_CaseAndPunctuationInsensitive(t *testing.T) {
	assert.Equal(t, Embed("Snow Leopard"), Embed("snow leopard"))
	assert.Equal(t, Embed("snow, leopard!"), Embed("snow leopard"))
}

func TestSimilarity_SelfSimilarity(t *testing.T) {
	vec := Embed("common leopard in the Margalla Hills")

	sim, err := Similarity(vec, vec)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestSimilarity_DisjointVocabulary(t *testing.T) {
	// No shared tokens; hashing collisions aside the overlap is near zero
	a := Embed("himalayan griffon vulture")
	b := Embed("monsoon wetland frogs")

	sim, err := Similarity(a, b)
	require.NoError(t, err)
	assert.Less(t, sim, 0.5)
	assert.GreaterOrEqual(t, sim, 0.0)
}

func TestSimilarity_Bounds(t *testing.T) {
	queries := []string{
		"what birds live here",
		"leopard",
		"Pinus roxburghii chir pine forest",
	}
	docs := []string{
		"Species: Aquila rapax",
		"leopard leopard leopard",
		"unrelated text entirely",
	}

	for _, q := range queries {
		for _, d := range docs {
			sim, err := Similarity(Embed(q), Embed(d))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, sim, -1.0-1e-9)
			assert.LessOrEqual(t, sim, 1.0+1e-9)
		}
	}
}

func TestSimilarity_ZeroVector(t *testing.T) {
	zero := Embed("a b")
	other := Embed("snow leopard")

	sim, err := Similarity(zero, other)
	require.NoError(t, err)
	assert.Zero(t, sim)
}

func TestSimilarity_DimensionMismatch(t *testing.T) {
	_, err := Similarity(make([]float64, Dimension), make([]float64, Dimension-1))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestHashToken_Stable(t *testing.T) {
	assert.Equal(t, hashToken("leopard"), hashToken("leopard"))
	assert.GreaterOrEqual(t, hashToken("leopard"), 0)
}

func TestTokenFrequencies(t *testing.T) {
	freqs := tokenFrequencies("The quick-brown Fox, the FOX!")

	assert.Equal(t, map[string]int{
		"the":   2,
		"quick": 1,
		"brown": 1,
		"fox":   2,
	}, freqs)
}
