package domain

import "math"

// CosineDistance returns 1 - cosine similarity of a and b.
// ok is false when the vectors differ in length or either has zero norm.
func CosineDistance(a, b []float32) (distance float64, ok bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb)), true
}
