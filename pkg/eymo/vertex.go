package eymo

// Vertex is one GPU draw-call record: a clip-space position and a texture
// coordinate. Vertex is also the input/output type of the triangulator,
// which carries texture coordinates along for free since they ride with
// whichever position they were attached to.
type Vertex struct {
	Position [2]float32
	TexCoord [2]float32
}

// NewVertex builds a Vertex with a zero texture coordinate.
func NewVertex(pos [2]float32) Vertex {
	return Vertex{Position: pos}
}

// NewVertexWithTex builds a Vertex with an explicit texture coordinate.
func NewVertexWithTex(pos, tex [2]float32) Vertex {
	return Vertex{Position: pos, TexCoord: tex}
}

func (v Vertex) X() float32 { return v.Position[0] }
func (v Vertex) Y() float32 { return v.Position[1] }

func (v *Vertex) Add(o Vertex) {
	v.Position[0] += o.Position[0]
	v.Position[1] += o.Position[1]
}

func (v *Vertex) Sub(o Vertex) {
	v.Position[0] -= o.Position[0]
	v.Position[1] -= o.Position[1]
}

func (v *Vertex) MultPos(scale float32) {
	v.Position[0] *= scale
	v.Position[1] *= scale
}

// TrianglesForFullCoverage returns a fixed 6-vertex full-screen quad split
// into two triangles, texture-mapped 1:1.
func TrianglesForFullCoverage() []Vertex {
	return []Vertex{
		NewVertexWithTex([2]float32{1, 1}, [2]float32{1, 0}),
		NewVertexWithTex([2]float32{-1, 1}, [2]float32{0, 0}),
		NewVertexWithTex([2]float32{-1, -1}, [2]float32{0, 1}),
		NewVertexWithTex([2]float32{-1, -1}, [2]float32{0, 1}),
		NewVertexWithTex([2]float32{1, -1}, [2]float32{1, 1}),
		NewVertexWithTex([2]float32{1, 1}, [2]float32{1, 0}),
	}
}

// ToTriangles runs the Delaunay triangulator over list and returns the
// triangle-soup vertex list, attaching each input vertex's own data
// (including texture coordinates) to the output.
func ToTriangles(list []Vertex) []Vertex {
	d := NewDelaunator(list)
	return d.Triangulate()
}
