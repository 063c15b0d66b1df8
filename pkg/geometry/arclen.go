package geometry

import "sort"

// DefaultSamples is the number of parameter steps used for arc-length tables.
const DefaultSamples = 100

// ArcLength is a cumulative arc-length table. Entry i holds the length of
// the curve from t=0 to t=i/n, where n = len-1.
type ArcLength []float64

// NewArcLength samples c at n equal parameter steps and accumulates the
// lengths of the straight segments between samples.
func NewArcLength(c Curve, n int) ArcLength {
	if n < 1 {
		n = 1
	}
	table := make(ArcLength, n+1)
	prev := c.Eval(0)
	total := 0.0
	for i := 1; i <= n; i++ {
		p := c.Eval(float64(i) / float64(n))
		total += Distance(prev, p)
		table[i] = total
		prev = p
	}
	return table
}

// Total returns the approximate length of the whole curve.
func (a ArcLength) Total() float64 {
	if len(a) == 0 {
		return 0
	}
	return a[len(a)-1]
}

// Param returns the curve parameter at which the given fraction of the total
// length has been travelled. The result is monotonic in fraction and lies in
// [0, 1].
func (a ArcLength) Param(fraction float64) float64 {
	n := len(a) - 1
	if n < 1 {
		return 0
	}
	if fraction <= 0 {
		return 0
	}
	if fraction >= 1 {
		return 1
	}
	target := fraction * a.Total()
	if target <= 0 {
		return 0
	}

	// first sample whose cumulative length reaches the target
	i := sort.SearchFloat64s(a, target)
	if i > n {
		return 1
	}
	if a[i] == target {
		return float64(i) / float64(n)
	}

	before := a[i-1]
	seg := a[i] - before
	if seg <= 0 {
		return float64(i) / float64(n)
	}
	return (float64(i-1) + (target-before)/seg) / float64(n)
}

// PointAtDistance returns the point reached after travelling dist along c,
// together with its parameter. dist is clamped to the curve's length.
func PointAtDistance(c Curve, table ArcLength, dist float64) (Vec, float64) {
	total := table.Total()
	if total <= 0 {
		return c.Start(), 0
	}
	t := table.Param(dist / total)
	return c.Eval(t), t
}
