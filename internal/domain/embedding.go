package domain

import "math"

// EmbeddingDimensions is the fixed embedding length produced by the provider.
const EmbeddingDimensions = 1536

// CosineSimilarity computes dot(a,b) / (||a|| * ||b||).
// Returns 0 when dimensions mismatch or either vector has zero magnitude,
// guarding against provider/version skew rather than raising.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
