// Package eymo implements the per-frame transform stage of the face-effects
// engine: geometry primitives, Delaunay triangulation, vertex/clip-space
// construction, per-instance animation state, the DSL interpreter, and the
// compositor that chains render passes into an output texture.
package eymo

import "math"

// Point is an integer 2-D coordinate in pixel space.
type Point struct {
	X, Y int
}

// NewPoint constructs a Point.
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// Rotate applies a 2-D rotation of theta radians about origin, rounding the
// result to the nearest pixel. Positive theta follows the screen's
// inverted-y convention; callers wanting visual clockwise rotation must
// negate theta.
func (p Point) Rotate(origin Point, theta float64) Point {
	dx := float64(p.X - origin.X)
	dy := float64(p.Y - origin.Y)

	cos := math.Cos(theta)
	sin := math.Sin(theta)

	rotX := dx*cos - dy*sin
	rotY := dx*sin + dy*cos

	return Point{
		X: origin.X + int(math.Round(rotX)),
		Y: origin.Y + int(math.Round(rotY)),
	}
}

// Project remaps p from src's coordinate space to target's, by percentage
// offset along each axis.
func (p Point) Project(src, target Rect) Point {
	xPct := float64(p.X-src.Left()) / float64(src.W)
	yPct := float64(p.Y-src.Top()) / float64(src.H)

	return Point{
		X: target.Left() + int(math.Round(xPct*float64(target.W))),
		Y: target.Top() + int(math.Round(yPct*float64(target.H))),
	}
}

// Polygon is an ordered, implicitly-closed sequence of at least 3 points.
// No self-intersection is assumed.
type Polygon struct {
	Points []Point
}

// NewPolygon constructs a Polygon from an ordered point list.
func NewPolygon(points []Point) Polygon {
	pts := make([]Point, len(points))
	copy(pts, points)
	return Polygon{Points: pts}
}

// Center returns the midpoint of the axis-aligned bounding extents (not the
// centroid of mass). This is the pivot used by every rotation and stretch.
func (p Polygon) Center() Point {
	left, right := p.MinX(), p.MaxX()
	top, bottom := p.MinY(), p.MaxY()

	return Point{
		X: left + int(math.Round(float64(right-left)/2)),
		Y: top + int(math.Round(float64(bottom-top)/2)),
	}
}

// MinX returns the smallest x coordinate among the polygon's points.
func (p Polygon) MinX() int { return extreme(p.Points, func(pt Point) int { return pt.X }, true) }

// MaxX returns the largest x coordinate among the polygon's points.
func (p Polygon) MaxX() int { return extreme(p.Points, func(pt Point) int { return pt.X }, false) }

// MinY returns the smallest y coordinate among the polygon's points.
func (p Polygon) MinY() int { return extreme(p.Points, func(pt Point) int { return pt.Y }, true) }

// MaxY returns the largest y coordinate among the polygon's points.
func (p Polygon) MaxY() int { return extreme(p.Points, func(pt Point) int { return pt.Y }, false) }

func extreme(pts []Point, axis func(Point) int, wantMin bool) int {
	if len(pts) == 0 {
		return 0
	}
	best := axis(pts[0])
	for _, pt := range pts[1:] {
		v := axis(pt)
		if (wantMin && v < best) || (!wantMin && v > best) {
			best = v
		}
	}
	return best
}

// Bounds returns the axis-aligned Rect enclosing the polygon.
func (p Polygon) Bounds() Rect {
	if len(p.Points) == 0 {
		return Rect{}
	}
	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points[1:] {
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
		minY = min(minY, pt.Y)
		maxY = max(maxY, pt.Y)
	}
	return RectFromTopLeft(minX, minY, maxX-minX, maxY-minY)
}

// Rotate rotates every point about the polygon's own center by theta radians.
func (p Polygon) Rotate(theta float64) Polygon {
	center := p.Center()
	pts := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = pt.Rotate(center, theta)
	}
	return NewPolygon(pts)
}

// Scale grows or shrinks the polygon by projecting it onto its own bounding
// rect scaled by factor, clamped within [0,maxX]x[0,maxY].
func (p Polygon) Scale(factor float64, maxX, maxY int) Polygon {
	bound := p.Bounds()
	bound = bound.Scale(factor, maxX, maxY)
	return p.Project(NewRectShape(bound))
}

// Stretch moves each vertex away from the polygon's center independently
// along the four half-axes, by the given magnifications. Distances are
// rounded to the nearest pixel. This implements the "reshape" DSL operation:
// a pre-transform stretch of the source polygon. Screen coordinates are
// assumed (y grows downward), so top applies to vertices above the center
// (dy < 0) and bottom to those at or below it.
func (p Polygon) Stretch(left, right, top, bottom float64) Polygon {
	center := p.Center()
	pts := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		dx := float64(pt.X - center.X)
		dy := float64(pt.Y - center.Y)

		var nx, ny float64
		if dx < 0 {
			nx = dx * left
		} else {
			nx = dx * right
		}
		if dy < 0 {
			ny = dy * top
		} else {
			ny = dy * bottom
		}

		pts[i] = Point{
			X: center.X + int(math.Round(nx)),
			Y: center.Y + int(math.Round(ny)),
		}
	}
	return NewPolygon(pts)
}

// Project remaps the polygon's coordinates into the coordinate space of the
// given shape's bounding rect.
func (p Polygon) Project(target Shape) Polygon {
	selfRect := p.Bounds()
	targetRect := target.Bounds()

	pts := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = pt.Project(selfRect, targetRect)
	}
	return NewPolygon(pts)
}

// ContainsPoint reports whether pt lies on the boundary or interior of the
// polygon, using a boundary check followed by ray casting.
func (p Polygon) ContainsPoint(pt Point) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	if p.pointOnBoundary(pt) {
		return true
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Points[i]
		vj := p.Points[j]

		if (vi.Y > pt.Y) != (vj.Y > pt.Y) && pointLeftOfEdge(pt, vi, vj) {
			inside = !inside
		}
		j = i
	}

	return inside
}

func (p Polygon) pointOnBoundary(pt Point) bool {
	n := len(p.Points)
	for _, v := range p.Points {
		if v == pt {
			return true
		}
	}
	for i := 0; i < n; i++ {
		p1 := p.Points[i]
		p2 := p.Points[(i+1)%n]
		if pointOnEdge(pt, p1, p2) {
			return true
		}
	}
	return false
}

func pointOnEdge(pt, p1, p2 Point) bool {
	cross := (pt.Y-p1.Y)*(p2.X-p1.X) - (pt.X-p1.X)*(p2.Y-p1.Y)
	if cross != 0 {
		return false
	}

	minX, maxX := min(p1.X, p2.X), max(p1.X, p2.X)
	minY, maxY := min(p1.Y, p2.Y), max(p1.Y, p2.Y)

	return pt.X >= minX && pt.X <= maxX && pt.Y >= minY && pt.Y <= maxY
}

func pointLeftOfEdge(pt, p1, p2 Point) bool {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y

	if dy == 0 {
		return false
	}

	left := (pt.X - p1.X) * dy
	right := dx * (pt.Y - p1.Y)

	if dy > 0 {
		return left < right
	}
	return left > right
}

// Rect is a centre-point rectangle with integer width and height. Invariants:
// w,h >= 1; left >= 0 is enforced by Scale*.
type Rect struct {
	X, Y, W, H int
}

// RectFromTopLeft builds a Rect from its top-left corner and dimensions.
func RectFromTopLeft(x, y, w, h int) Rect {
	return Rect{X: x + w/2, Y: y + h/2, W: w, H: h}
}

// RectFromCenter builds a Rect from its centre point and dimensions.
func RectFromCenter(xc, yc, w, h int) Rect {
	return Rect{X: xc, Y: yc, W: w, H: h}
}

func (r Rect) Left() int   { return r.X - r.W/2 }
func (r Rect) Right() int  { return r.X + r.W/2 }
func (r Rect) Top() int    { return r.Y - r.H/2 }
func (r Rect) Bottom() int { return r.Y + r.H/2 }
func (r Rect) Area() int   { return r.W * r.H }

// Center returns the rect's centre point.
func (r Rect) Center() Point { return Point{X: r.X, Y: r.Y} }

// ScaleX expands the rect about its centre on the x axis by mag, clamping so
// the result stays within [0,max], and reshrinks w so the rect stays in
// bounds.
func (r Rect) ScaleX(mag float64, max int) Rect {
	newW := float64(r.W) * mag
	newLeft := int(math.Round(math.Max(float64(r.X)-newW/2, 0)))
	newRight := minInt(int(math.Round(float64(r.X)+newW/2)), max)

	r.W = newRight - newLeft
	r.X = newLeft + r.W/2
	return r
}

// ScaleY expands the rect about its centre on the y axis by mag, clamping so
// the result stays within [0,max], and reshrinks h so the rect stays in
// bounds.
func (r Rect) ScaleY(mag float64, max int) Rect {
	newH := float64(r.H) * mag
	newTop := int(math.Round(math.Max(float64(r.Y)-newH/2, 0)))
	newBottom := minInt(int(math.Round(float64(r.Y)+newH/2)), max)

	r.H = newBottom - newTop
	r.Y = newTop + r.H/2
	return r
}

// Scale expands the rect about its centre on both axes.
func (r Rect) Scale(mag float64, maxX, maxY int) Rect {
	r = r.ScaleX(mag, maxX)
	r = r.ScaleY(mag, maxY)
	return r
}

// Compare orders rects by (x, y, area), returning -1, 0 or +1. Callers
// de-duplicating overlapping detections sort on this ordering.
func (r Rect) Compare(other Rect) int {
	if c := cmpInt(r.X, other.X); c != 0 {
		return c
	}
	if c := cmpInt(r.Y, other.Y); c != 0 {
		return c
	}
	return cmpInt(r.Area(), other.Area())
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// OverlapPercent returns the intersection-over-union-like overlap metric
// between r and other, as a percentage.
func (r Rect) OverlapPercent(other Rect) float64 {
	xMin := max(r.Left(), other.Left())
	xMax := min(r.Right(), other.Right())
	yMin := max(r.Top(), other.Top())
	yMax := min(r.Bottom(), other.Bottom())

	overlap := 0
	if xMin < xMax && yMin < yMax {
		overlap = (xMax - xMin) * (yMax - yMin)
	}

	areaDelta := r.Area() + other.Area() - overlap
	if areaDelta <= 0 {
		return 0
	}
	return float64(overlap) / float64(areaDelta) * 100
}

// Polygon converts the rect to its 4-vertex polygon, corners in
// top-left, top-right, bottom-right, bottom-left order.
func (r Rect) Polygon() Polygon {
	return NewPolygon([]Point{
		{X: r.Left(), Y: r.Top()},
		{X: r.Right(), Y: r.Top()},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.Left(), Y: r.Bottom()},
	})
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ShapeKind tags the variant held by a Shape.
type ShapeKind int

const (
	ShapeKindRect ShapeKind = iota
	ShapeKindPolygon
)

// Shape is a closed tagged union of {Rect, Polygon}: the unit of reference
// throughout the transform pipeline.
type Shape struct {
	Kind    ShapeKind
	rect    Rect
	polygon Polygon
}

// NewRectShape wraps a Rect as a Shape.
func NewRectShape(r Rect) Shape {
	return Shape{Kind: ShapeKindRect, rect: r}
}

// NewPolygonShape wraps a Polygon as a Shape.
func NewPolygonShape(p Polygon) Shape {
	return Shape{Kind: ShapeKindPolygon, polygon: p}
}

// AsRect converts the shape to a Rect, computing the bounding rect if the
// shape is a Polygon.
func (s Shape) AsRect() Rect {
	switch s.Kind {
	case ShapeKindRect:
		return s.rect
	default:
		return s.polygon.Bounds()
	}
}

// AsPolygon converts the shape to a Polygon, expanding a Rect to its 4
// corners.
func (s Shape) AsPolygon() Polygon {
	switch s.Kind {
	case ShapeKindPolygon:
		return s.polygon
	default:
		return s.rect.Polygon()
	}
}

// Bounds returns the shape's axis-aligned bounding Rect.
func (s Shape) Bounds() Rect { return s.AsRect() }

// Center returns the shape's centre point.
func (s Shape) Center() Point {
	switch s.Kind {
	case ShapeKindRect:
		return s.rect.Center()
	default:
		return s.polygon.Center()
	}
}

// ProjectedPair is one (source, destination) point correspondence produced
// by ProjectionOnto.
type ProjectedPair struct {
	Src, Dest Point
}

// ProjectionOnto projects each vertex of the source shape onto the
// corresponding position within dest. It does not triangulate; callers pass
// the resulting vertices to ToTriangles. When both shapes
// have the same vertex count, correspondence is index-to-index (for
// Rect->Rect this yields the four corners exactly). Otherwise each source
// vertex maps to the point at the same fractional perimeter offset of the
// destination, with the destination's boundary treated as a continuous
// curve interpolated to match.
func (s Shape) ProjectionOnto(dest Shape) []ProjectedPair {
	srcPoly := s.AsPolygon()
	destPoly := dest.AsPolygon()

	if len(srcPoly.Points) == len(destPoly.Points) {
		pairs := make([]ProjectedPair, len(srcPoly.Points))
		for i, pt := range srcPoly.Points {
			pairs[i] = ProjectedPair{Src: pt, Dest: destPoly.Points[i]}
		}
		return pairs
	}

	fracs := perimeterFractions(srcPoly)
	pairs := make([]ProjectedPair, len(srcPoly.Points))
	for i, pt := range srcPoly.Points {
		pairs[i] = ProjectedPair{Src: pt, Dest: pointAtPerimeterFraction(destPoly, fracs[i])}
	}
	return pairs
}

// perimeterFractions returns, for each vertex of a closed polygon, its
// cumulative arc-length position as a fraction of the total perimeter.
func perimeterFractions(p Polygon) []float64 {
	n := len(p.Points)
	fracs := make([]float64, n)
	if n == 0 {
		return fracs
	}

	cumulative := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		cumulative[i] = total
		next := p.Points[(i+1)%n]
		total += dist(p.Points[i], next)
	}

	if total == 0 {
		return fracs
	}
	for i := 0; i < n; i++ {
		fracs[i] = cumulative[i] / total
	}
	return fracs
}

// pointAtPerimeterFraction walks the closed polygon boundary and returns the
// point at the given fractional arc-length position.
func pointAtPerimeterFraction(p Polygon, frac float64) Point {
	n := len(p.Points)
	if n == 0 {
		return Point{}
	}
	if n == 1 {
		return p.Points[0]
	}

	edgeLens := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		next := p.Points[(i+1)%n]
		edgeLens[i] = dist(p.Points[i], next)
		total += edgeLens[i]
	}
	if total == 0 {
		return p.Points[0]
	}

	target := frac * total
	walked := 0.0
	for i := 0; i < n; i++ {
		if walked+edgeLens[i] >= target || i == n-1 {
			t := 0.0
			if edgeLens[i] > 0 {
				t = (target - walked) / edgeLens[i]
			}
			a := p.Points[i]
			b := p.Points[(i+1)%n]
			return Point{
				X: a.X + int(math.Round(float64(b.X-a.X)*t)),
				Y: a.Y + int(math.Round(float64(b.Y-a.Y)*t)),
			}
		}
		walked += edgeLens[i]
	}
	return p.Points[n-1]
}

func dist(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
