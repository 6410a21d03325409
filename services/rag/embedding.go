// Package rag implements the retrieval-augmented question-answering engine:
// a deterministic hashing-trick embedder, a similarity retriever over the
// species/observation/knowledge corpora, a best-effort internet fallback, and
// a template-based answer composer.
package rag

import (
	"errors"
	"math"
	"strings"
	"unicode"
)

// Dimension is the fixed length of every embedding vector. Two embeddings are
// comparable only if produced with the same dimension.
const Dimension = 128

// minTokenLength filters out stopword-ish noise; tokens this short or shorter
// are discarded before hashing.
const minTokenLength = 2

// ErrDimensionMismatch indicates two embeddings of different lengths were
// compared. This is a programming error, not a runtime condition.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Embed turns arbitrary text into a unit-normalized vector of length
// Dimension using a hashing-trick bag-of-words scheme. It is pure and total:
// the same input always yields the same vector, and text with no retained
// tokens yields the all-zero vector.
func Embed(text string) []float64 {
	vec := make([]float64, Dimension)

	for token, count := range tokenFrequencies(text) {
		bucket := hashToken(token) % Dimension
		vec[bucket] += float64(count)
	}

	var sumSquares float64
	for _, v := range vec {
		sumSquares += v * v
	}
	if norm := math.Sqrt(sumSquares); norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec
}

// Similarity computes the dot product of two embeddings. Both inputs are
// unit-normalized by construction, so the result equals the cosine similarity
// in [-1, 1].
func Similarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot, nil
}

// tokenFrequencies lowercases the text, strips everything that is not a
// letter, digit, or whitespace, splits on whitespace runs, and counts the
// tokens longer than minTokenLength.
func tokenFrequencies(text string) map[string]int {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, text)

	freqs := make(map[string]int)
	for _, token := range strings.Fields(cleaned) {
		if len(token) <= minTokenLength {
			continue
		}
		freqs[token]++
	}
	return freqs
}

// hashToken is a polynomial rolling hash (h = h*31 + rune) with wrapping
// overflow. Collisions between distinct tokens are expected and accepted.
func hashToken(token string) int {
	var h uint32
	for _, r := range token {
		h = h*31 + uint32(r)
	}
	return int(h % math.MaxInt32)
}
