package domain

import "math"

// CosineSimilarity computes the cosine similarity of two vectors, floored
// at 0. Negative cosine values mean "opposite" content, which has no
// therapeutic relevance here, so they collapse to "unrelated".
// Zero-norm or mismatched-length vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		// Floating point can nudge identical vectors past 1.
		return 1
	}
	return sim
}
