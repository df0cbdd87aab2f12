package eymo

import "math"

// Delaunator is a Go port of Mapbox's Delaunator algorithm for fast 2-D
// Delaunay triangulation of an arbitrary point set. Ported from the ISC
// licensed Rust translation this project's DSL engine was distilled from.
//
// ISC License
//
// Copyright (c) 2024, Mapbox
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted, provided that the above
// copyright notice and this permission notice appear in all copies.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
// WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
// ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
// WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
// ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR
// IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
type Delaunator struct {
	points       []Vertex
	triangles    []int
	halfEdges    []int
	triangleLen  int
	hullStart    int
	hashSize     int
	Hull         []Vertex
	edgeStack    [512]int
}

// NewDelaunator prepares a triangulator over the given point set. Call
// Triangulate to run it.
func NewDelaunator(points []Vertex) *Delaunator {
	n := len(points)
	maxTriangles := (2*n - 5)
	if maxTriangles < 0 {
		maxTriangles = 0
	}

	return &Delaunator{
		points:      points,
		triangles:   make([]int, maxTriangles*3),
		halfEdges:   make([]int, maxTriangles*3),
		hashSize:    int(math.Ceil(math.Sqrt(float64(n)))),
		triangleLen: 0,
		hullStart:   0,
	}
}

// Triangulate computes the Delaunay triangulation and returns the flat
// triangle-soup vertex list (three vertices per triangle), each carrying the
// per-vertex data (e.g. texture coordinates) of whichever input point it
// came from. Collinear input returns an empty list.
func (d *Delaunator) Triangulate() []Vertex {
	n := len(d.points)
	if n == 0 {
		return nil
	}

	minX, minY := math.MaxFloat32, math.MaxFloat32
	maxX, maxY := -math.MaxFloat32, -math.MaxFloat32

	ids := make([]int, n)
	dists := make([]float64, n)
	hullPrev := make([]int, n)
	hullNext := make([]int, n)
	hullTri := make([]int, n)

	for i := 0; i < n; i++ {
		x := float64(d.points[i].X())
		y := float64(d.points[i].Y())
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
		ids[i] = i
	}

	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	c := NewVertex([2]float32{float32(cx), float32(cy)})

	v0Idx, minDist := -1, math.MaxFloat64
	for i, v := range d.points {
		dd := dist2(v, c)
		if dd < minDist {
			v0Idx = i
			minDist = dd
		}
	}
	v0 := d.points[v0Idx]

	v1Idx, minDist := -1, math.MaxFloat64
	for i, v := range d.points {
		if v == v0 {
			continue
		}
		dd := dist2(v0, v)
		if dd < minDist && dd > 0 {
			v1Idx = i
			minDist = dd
		}
	}
	v1 := d.points[v1Idx]

	v2Idx, minRadius := -1, math.MaxFloat64
	for i, v := range d.points {
		if v == v0 || v == v1 {
			continue
		}
		r := circumradius(v0, v1, v)
		if r < minRadius {
			v2Idx = i
			minRadius = r
		}
	}

	if v2Idx == -1 || minRadius == math.MaxFloat64 {
		// All points are collinear; no finite circumradius exists.
		return nil
	}
	v2 := d.points[v2Idx]

	if orient2d(v0, v1, v2) < 0 {
		v1, v2 = v2, v1
		v1Idx, v2Idx = v2Idx, v1Idx
	}

	center := circumcenter(v0, v1, v2)

	for i := 0; i < n; i++ {
		dists[i] = dist2(d.points[i], center)
	}

	quicksort(ids, dists, 0, n-1)

	d.hullStart = v0Idx
	hullSize := 3

	hullPrev[v2Idx] = v1Idx
	hullNext[v0Idx] = v1Idx
	hullPrev[v0Idx] = v2Idx
	hullNext[v1Idx] = v2Idx
	hullPrev[v1Idx] = v0Idx
	hullNext[v2Idx] = v0Idx

	hullTri[v0Idx] = 0
	hullTri[v1Idx] = 1
	hullTri[v2Idx] = 2

	hullHash := make([]int, d.hashSize)
	for i := range hullHash {
		hullHash[i] = -1
	}

	hullHash[d.hashKey(v0, center)] = v0Idx
	hullHash[d.hashKey(v1, center)] = v1Idx
	hullHash[d.hashKey(v2, center)] = v2Idx

	d.addTriangle(v0Idx, v1Idx, v2Idx, -1, -1, -1)

	xp, yp := float32(0), float32(0)
idLoop:
	for k := 0; k < len(ids); k++ {
		i := ids[k]
		v := d.points[i]
		x, y := v.X(), v.Y()

		if k > 0 && absF32(x-xp) <= epsilon32 && absF32(y-yp) <= epsilon32 {
			continue
		}
		xp, yp = x, y

		if i == v0Idx || i == v1Idx || i == v2Idx {
			continue
		}

		start := -1
		key := d.hashKey(v, center)
		for j := 0; j < d.hashSize; j++ {
			start = hullHash[(key+j)%d.hashSize]
			if start != -1 && start != hullNext[start] {
				break
			}
		}

		start = hullPrev[start]
		e := start
		for {
			q := hullNext[e]
			if orient2d(v, d.points[e], d.points[q]) < 0 {
				break
			}
			e = q
			if e == start {
				continue idLoop
			}
		}

		t := d.addTriangle(e, i, hullNext[e], -1, -1, hullTri[e])

		hullTri[i] = d.legalize(t+2, hullTri, hullPrev, d.hullStart)
		hullTri[e] = t
		hullSize++

		nIdx := hullNext[e]
		q := hullNext[nIdx]
		for orient2d(v, d.points[nIdx], d.points[q]) < 0 {
			t = d.addTriangle(nIdx, i, q, hullTri[i], -1, hullTri[nIdx])
			hullTri[i] = d.legalize(t+2, hullTri, hullPrev, d.hullStart)
			hullNext[nIdx] = nIdx
			hullSize--
			nIdx = q
			q = hullNext[nIdx]
		}

		if e == start {
			q = hullPrev[e]
			for orient2d(v, d.points[q], d.points[e]) < 0 {
				t = d.addTriangle(q, i, e, -1, hullTri[e], hullTri[q])
				d.legalize(t+2, hullTri, hullPrev, d.hullStart)
				hullTri[q] = t
				hullNext[e] = e
				hullSize--
				e = q
				q = hullPrev[e]
			}
		}

		hullPrev[i] = e
		d.hullStart = e
		hullPrev[nIdx] = i
		hullNext[e] = i
		hullNext[i] = nIdx

		hullHash[d.hashKey(v, c)] = i
		hullHash[d.hashKey(d.points[e], c)] = e
	}

	d.Hull = make([]Vertex, 0, hullSize)
	e := d.hullStart
	for range hullSize {
		d.Hull = append(d.Hull, d.points[e])
		e = hullNext[e]
	}

	out := make([]Vertex, d.triangleLen)
	for i := 0; i < d.triangleLen; i++ {
		out[i] = d.points[d.triangles[i]]
	}
	return out
}

func (d *Delaunator) hashKey(v, c Vertex) int {
	key := int(math.Floor(float64(d.hashSize) * pseudoAngle(v.X()-c.X(), v.Y()-c.Y())))
	return ((key % d.hashSize) + d.hashSize) % d.hashSize
}

func (d *Delaunator) legalize(a int, hullTri, hullPrev []int, hullStart int) int {
	i := 0
	ar := 0

	for {
		b := d.halfEdges[a]

		a0 := a - a%3
		ar = a0 + (a+2)%3

		if b == -1 {
			if i == 0 {
				break
			}
			i--
			a = d.edgeStack[i]
			continue
		}

		b0 := b - b%3
		al := a0 + (a+1)%3
		bl := b0 + (b+2)%3

		p0 := d.triangles[ar]
		pr := d.triangles[a]
		pl := d.triangles[al]
		p1 := d.triangles[bl]

		illegal := incircle(d.points[p0], d.points[pr], d.points[pl], d.points[p1])

		if illegal {
			d.triangles[a] = p1
			d.triangles[b] = p0

			hbl := d.halfEdges[bl]

			if hbl == -1 {
				e := hullStart
				for {
					if hullTri[e] == bl {
						hullTri[e] = a
						break
					}
					e = hullPrev[e]
					if e == hullStart {
						break
					}
				}
			}

			d.link(a, hbl)
			d.link(b, d.halfEdges[ar])
			d.link(ar, bl)

			br := b0 + (b+1)%3

			if i < len(d.edgeStack) {
				d.edgeStack[i] = br
				i++
			}
		} else {
			if i == 0 {
				break
			}
			i--
			a = d.edgeStack[i]
		}
	}
	return ar
}

func (d *Delaunator) addTriangle(i0, i1, i2, a, b, c int) int {
	t := d.triangleLen

	d.triangles[t] = i0
	d.triangles[t+1] = i1
	d.triangles[t+2] = i2

	d.link(t, a)
	d.link(t+1, b)
	d.link(t+2, c)

	d.triangleLen += 3
	return t
}

func (d *Delaunator) link(a, b int) {
	d.halfEdges[a] = b
	if b != -1 {
		d.halfEdges[b] = a
	}
}

const epsilon32 = 1.1920929e-7 // float32 machine epsilon

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// pseudoAngle monotonically increases with the real angle but avoids
// trigonometry.
func pseudoAngle(dx, dy float32) float64 {
	p := float64(dx) / (math.Abs(float64(dx)) + math.Abs(float64(dy)))
	var t float64
	if dy > 0 {
		t = 3 - p
	} else {
		t = 1 + p
	}
	return t / 4
}

func dist2(a, b Vertex) float64 {
	dx := float64(a.X() - b.X())
	dy := float64(a.Y() - b.Y())
	return dx*dx + dy*dy
}

func circumcenter(a, b, c Vertex) Vertex {
	dx := float64(b.X() - a.X())
	dy := float64(b.Y() - a.Y())
	ex := float64(c.X() - a.X())
	ey := float64(c.Y() - a.Y())

	bl := dx*dx + dy*dy
	cl := ex*ex + ey*ey
	d := 0.5 / (dx*ey - dy*ex)

	x := float64(a.X()) + (ey*bl-dy*cl)*d
	y := float64(a.Y()) + (dx*cl-ex*bl)*d

	return NewVertex([2]float32{float32(x), float32(y)})
}

func circumradius(a, b, c Vertex) float64 {
	dx := float64(b.X() - a.X())
	dy := float64(b.Y() - a.Y())
	ex := float64(c.X() - a.X())
	ey := float64(c.Y() - a.Y())

	bl := dx*dx + dy*dy
	cl := ex*ex + ey*ey
	d := 0.5 / (dx*ey - dy*ex)

	x := (ey*bl - dy*cl) * d
	y := (dx*cl - ex*bl) * d

	return x*x + y*y
}

func quicksort(ids []int, dists []float64, left, right int) {
	if right-left <= 20 {
		for i := left + 1; i <= right; i++ {
			tmp := ids[i]
			tmpDist := dists[tmp]
			j := i - 1
			for j >= left && dists[ids[j]] > tmpDist {
				ids[j+1] = ids[j]
				if j == 0 {
					j = -1
					break
				}
				j--
			}
			ids[j+1] = tmp
		}
		return
	}

	median := (left + right) >> 1
	i := left + 1
	j := right
	swapIdx(ids, median, i)
	if dists[ids[left]] > dists[ids[right]] {
		swapIdx(ids, left, right)
	}
	if dists[ids[i]] > dists[ids[right]] {
		swapIdx(ids, i, right)
	}
	if dists[ids[left]] > dists[ids[i]] {
		swapIdx(ids, left, i)
	}

	tmp := ids[i]
	tmpDist := dists[tmp]
	for {
		for {
			i++
			if dists[ids[i]] >= tmpDist {
				break
			}
		}
		for {
			j--
			if dists[ids[j]] <= tmpDist {
				break
			}
		}
		if j < i {
			break
		}
		swapIdx(ids, i, j)
	}
	ids[left+1] = ids[j]
	ids[j] = tmp

	if right-i+1 >= j-left {
		quicksort(ids, dists, i, right)
		quicksort(ids, dists, left, j-1)
	} else {
		quicksort(ids, dists, left, j-1)
		quicksort(ids, dists, i, right)
	}
}

func swapIdx(ids []int, i, j int) {
	ids[i], ids[j] = ids[j], ids[i]
}

// orient2d returns a signed value whose sign gives the orientation of
// a->b->c: positive for counter-clockwise, negative for clockwise, zero for
// collinear. This is a plain double-precision cross product rather than an
// adaptive-precision predicate; see DESIGN.md for why no such library is
// wired in.
func orient2d(a, b, c Vertex) float64 {
	ax, ay := float64(a.X()), float64(a.Y())
	bx, by := float64(b.X()), float64(b.Y())
	cx, cy := float64(c.X()), float64(c.Y())

	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

func incircle(a, b, c, p Vertex) bool {
	ax, ay := float64(a.X()), float64(a.Y())
	bx, by := float64(b.X()), float64(b.Y())
	cx, cy := float64(c.X()), float64(c.Y())
	px, py := float64(p.X()), float64(p.Y())

	dx := ax - px
	dy := ay - py
	ex := bx - px
	ey := by - py
	fx := cx - px
	fy := cy - py

	ap := dx*dx + dy*dy
	bp := ex*ex + ey*ey
	cp := fx*fx + fy*fy

	return dx*(ey*cp-bp*fy)-dy*(ex*cp-bp*fx)+ap*(ex*fy-ey*fx) < 0
}
