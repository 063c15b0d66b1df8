package geometry

// Curve is a parametric curve evaluated for t in [0, 1].
type Curve interface {
	Eval(t float64) Vec
	Tangent(t float64) Vec
	Start() Vec
	End() Vec
}

// QuadBez is a quadratic Bézier curve: start, control, end.
type QuadBez [3]Vec

// Eval returns the point at parameter t.
func (q QuadBez) Eval(t float64) Vec {
	mt := 1 - t
	return Vec{
		X: mt*mt*q[0].X + 2*mt*t*q[1].X + t*t*q[2].X,
		Y: mt*mt*q[0].Y + 2*mt*t*q[1].Y + t*t*q[2].Y,
	}
}

// Tangent returns the derivative at parameter t.
func (q QuadBez) Tangent(t float64) Vec {
	mt := 1 - t
	return Vec{
		X: 2*mt*(q[1].X-q[0].X) + 2*t*(q[2].X-q[1].X),
		Y: 2*mt*(q[1].Y-q[0].Y) + 2*t*(q[2].Y-q[1].Y),
	}
}

func (q QuadBez) Start() Vec { return q[0] }
func (q QuadBez) End() Vec   { return q[2] }

// CubicBez is a cubic Bézier curve: start, two controls, end.
type CubicBez [4]Vec

// Eval returns the point at parameter t.
func (c CubicBez) Eval(t float64) Vec {
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Vec{
		X: mt3*c[0].X + 3*mt2*t*c[1].X + 3*mt*t2*c[2].X + t3*c[3].X,
		Y: mt3*c[0].Y + 3*mt2*t*c[1].Y + 3*mt*t2*c[2].Y + t3*c[3].Y,
	}
}

// Tangent returns the derivative at parameter t.
func (c CubicBez) Tangent(t float64) Vec {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t

	return Vec{
		X: 3*mt2*(c[1].X-c[0].X) + 6*mt*t*(c[2].X-c[1].X) + 3*t2*(c[3].X-c[2].X),
		Y: 3*mt2*(c[1].Y-c[0].Y) + 6*mt*t*(c[2].Y-c[1].Y) + 3*t2*(c[3].Y-c[2].Y),
	}
}

func (c CubicBez) Start() Vec { return c[0] }
func (c CubicBez) End() Vec   { return c[3] }

// Sample returns n+1 evenly spaced points along the curve, endpoints included.
func Sample(c Curve, n int) []Vec {
	if n < 1 {
		n = 1
	}
	pts := make([]Vec, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = c.Eval(float64(i) / float64(n))
	}
	return pts
}
