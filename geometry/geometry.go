package geometry

type Point struct{ X, Y float32 }

type Rect struct{ X0, Y0, X1, Y1 float32 }

// Empty is the canonical empty rectangle. It is inverted (X0 > X1, Y0 > Y1)
// so that intersecting it with anything stays empty and unioning it with
// anything returns the other operand.
var Empty = Rect{1, 1, -1, -1}

func (r Rect) IsEmpty() bool   { return r.X0 >= r.X1 || r.Y0 >= r.Y1 }
func (r Rect) Width() float32  { return r.X1 - r.X0 }
func (r Rect) Height() float32 { return r.Y1 - r.Y0 }

func (r Rect) Area() float32 {
	if r.IsEmpty() {
		return 0
	}
	return r.Width() * r.Height()
}

func (r Rect) Union(other Rect) Rect {
	if r.X0 > r.X1 || r.Y0 > r.Y1 {
		return other
	}
	if other.X0 > other.X1 || other.Y0 > other.Y1 {
		return r
	}
	return Rect{Min32(r.X0, other.X0), Min32(r.Y0, other.Y0), Max32(r.X1, other.X1), Max32(r.Y1, other.Y1)}
}

// Intersect returns the raw intersection. The result may be inverted; callers
// that care about zero-area overlaps (a space glyph has zero height) must test
// X0 > X1 rather than IsEmpty.
func (r Rect) Intersect(other Rect) Rect {
	return Rect{Max32(r.X0, other.X0), Max32(r.Y0, other.Y0), Min32(r.X1, other.X1), Min32(r.Y1, other.Y1)}
}

// Excludes reports whether the intersection with other is strictly empty,
// treating edge and corner touches as overlap.
func (r Rect) Excludes(other Rect) bool {
	s := r.Intersect(other)
	return s.X0 > s.X1 || s.Y0 > s.Y1
}

func (r Rect) ContainsPoint(x, y float32) bool {
	return r.X0 <= x && x <= r.X1 && r.Y0 <= y && y <= r.Y1
}

// Quad is a quadrilateral glyph bounding box. The engine only ever uses its
// axis-aligned hull.
type Quad struct{ UL, UR, LL, LR Point }

func QuadFromRect(r Rect) Quad {
	return Quad{
		UL: Point{r.X0, r.Y0},
		UR: Point{r.X1, r.Y0},
		LL: Point{r.X0, r.Y1},
		LR: Point{r.X1, r.Y1},
	}
}

func (q Quad) Rect() Rect {
	x0 := Min32(Min32(q.UL.X, q.UR.X), Min32(q.LL.X, q.LR.X))
	y0 := Min32(Min32(q.UL.Y, q.UR.Y), Min32(q.LL.Y, q.LR.Y))
	x1 := Max32(Max32(q.UL.X, q.UR.X), Max32(q.LL.X, q.LR.X))
	y1 := Max32(Max32(q.UL.Y, q.UR.Y), Max32(q.LL.Y, q.LR.Y))
	return Rect{x0, y0, x1, y1}
}

func Min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func Max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func Abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
