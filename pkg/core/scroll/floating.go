package scroll

import "math"

// FloatingIndex maps a scroll coordinate to a fractional sorted position,
// clamped to [0, n-1]. It returns 0 when n < 1 or spacing is not positive.
func FloatingIndex(coordinate, spacing float64, n int) float64 {
	if n < 1 || !(spacing > 0) || math.IsNaN(coordinate) {
		return 0
	}
	f := coordinate / spacing
	return math.Min(math.Max(f, 0), float64(n-1))
}

// ScrollTarget returns the scroll coordinate that centres sorted position pos.
func ScrollTarget(pos int, spacing float64) float64 {
	return float64(pos) * spacing
}

// Split decomposes a floating index into its left neighbour, right
// neighbour and interpolation weight. f is clamped to [0, n-1] first.
// For n < 1 it returns (0, 0, 0).
func Split(f float64, n int) (left, right int, t float64) {
	if n < 1 {
		return 0, 0, 0
	}
	f = math.Min(math.Max(f, 0), float64(n-1))
	left = int(math.Floor(f))
	right = min(left+1, n-1)
	return left, right, f - float64(left)
}

// Nearest returns the sorted position closest to f, rounding halves up.
func Nearest(f float64, n int) int {
	if n < 1 {
		return 0
	}
	return min(max(int(math.Floor(f+0.5)), 0), n-1)
}

// SelectionFactor is 1 at f == pos and falls linearly to 0 one position away.
func SelectionFactor(f float64, pos int) float64 {
	return 1 - math.Min(math.Abs(f-float64(pos)), 1)
}

// Padding returns the leading and trailing padding that lets the first and
// last item be centred in a viewport of the given width.
func Padding(viewport, spacing float64) float64 {
	return math.Max(0, (viewport-spacing)/2)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
