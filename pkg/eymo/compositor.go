package eymo

import (
	"log"
	"math"
)

// TileWidth and TileHeight are the fixed cell size used when a Transform's
// tiling mode is enabled.
const (
	TileWidth  = 160
	TileHeight = 100
)

// FlipVariant selects which texture-coordinate axes a ShapeOp's output is
// mirrored across.
type FlipVariant int

const (
	FlipNone FlipVariant = iota
	FlipVertical
	FlipHorizontal
	FlipBoth
)

// ShapeOp is one shape-level unit of work a Transform executes: render base
// onto itself, copy base onto dest, or swap base with swap.
type ShapeOp struct {
	ID   string
	Base Shape
	Swap *Shape
	Dest *Shape
}

// NewOnShapeOp builds a ShapeOp that renders a shape onto itself.
func NewOnShapeOp(id string, s Shape) ShapeOp {
	return ShapeOp{ID: id, Base: s}
}

// NewCopyOp builds a ShapeOp that projects src onto dest, leaving src as-is.
func NewCopyOp(id string, src, dest Shape) ShapeOp {
	return ShapeOp{ID: id, Base: src, Dest: &dest}
}

// NewSwapOp builds a ShapeOp that exchanges the contents of a and b.
func NewSwapOp(id string, a, b Shape) ShapeOp {
	return ShapeOp{ID: id, Base: a, Swap: &b}
}

// Transform is the shape-agnostic set of operations a program statement
// applies to every ShapeOp it's given, plus the per-ShapeOp animation cache
// that survives across calls to Execute. A Transform is not safe for
// concurrent use; callers needing concurrency should guard it externally
// (see Pipeline).
type Transform struct {
	rotateDeg     *float64
	flip          *FlipVariant
	translation   *[2]int
	scale         float64
	tile          bool
	rps           *float64
	driftVec      *[2]float64
	brightnessMod float64
	saturationMod float64
	chansMod      [4]float64
	reshape       *[4]float64

	cache       map[string]ShapeOpState
	executor    Executor
	driftWarned bool
}

// NewTransform constructs a Transform with every modifier at its no-op
// sentinel value, rendering through the given Executor.
func NewTransform(executor Executor) *Transform {
	return &Transform{
		scale:         1,
		brightnessMod: -1,
		saturationMod: -1,
		chansMod:      [4]float64{-1, -1, -1, -1},
		cache:         make(map[string]ShapeOpState),
		executor:      executor,
	}
}

func (t *Transform) SetBrightness(b float64) { t.brightnessMod = b }
func (t *Transform) SetSaturation(s float64) { t.saturationMod = s }

func (t *Transform) SetChans(r, g, b float64) {
	t.chansMod = [4]float64{r, g, b, 1}
}

func (t *Transform) SetFlip(f FlipVariant) { t.flip = &f }

// SetScale sets a static uniform scale factor applied about each ShapeOp's
// clip-space centre. Scale is not supported together with tiling.
func (t *Transform) SetScale(s float64) {
	t.scale = s

	if t.tile {
		log.Printf("warn: scale with tile not currently supported; skipping scale operation")
	}
}

func (t *Transform) SetTiling(tile bool) { t.tile = tile }

func (t *Transform) SetRotDegrees(deg float64) { t.rotateDeg = &deg }

// SetSpin sets a continuous rotation rate in rotations per second and
// initializes the rotation angle to 0.
func (t *Transform) SetSpin(rps float64) {
	t.rps = &rps
	t.SetRotDegrees(0)
}

func (t *Transform) TranslateBy(x, y int) {
	v := [2]int{x, y}
	t.translation = &v
}

// SetDrift sets a constant-velocity drift with wall reflection and
// initializes the translation to (0,0).
func (t *Transform) SetDrift(velocity, angle float64) {
	v := [2]float64{velocity, angle}
	t.driftVec = &v
	t.TranslateBy(0, 0)
}

// SetReshape sets a pre-transform stretch applied to the source polygon of
// every ShapeOp before projection.
func (t *Transform) SetReshape(dxl, dxr, dyt, dyb float64) {
	v := [4]float64{dxl, dxr, dyt, dyb}
	t.reshape = &v
}

// Execute advances the animation cache for each ShapeOp by elapsed seconds,
// builds the vertex list for the current frame, and renders it through the
// Transform's Executor.
func (t *Transform) Execute(tex *Texture, shapeOps []ShapeOp, elapsed float64) (*Texture, error) {
	var vertices []Vertex
	for _, op := range shapeOps {
		prev, ok := t.cache[op.ID]
		var prevPtr *ShapeOpState
		if ok {
			prevPtr = &prev
		}
		next, degenerate := tick(t.animParams(), op.Base, tex.Width, tex.Height, elapsed, prevPtr)
		if degenerate && !t.driftWarned {
			log.Printf("warn: degenerate drift on shape op %s; using zero velocity", op.ID)
			t.driftWarned = true
		}
		vertices = append(vertices, t.genVertices(tex, op, next)...)
		t.cache[op.ID] = next
	}

	sampler := t.sampler()
	adjustments := Adjustments{Brightness: float32(t.brightnessMod), Saturation: float32(t.saturationMod)}
	chans := ChannelGains{float32(t.chansMod[0]), float32(t.chansMod[1]), float32(t.chansMod[2]), float32(t.chansMod[3])}
	return t.executor.RenderPass(tex, vertices, sampler, adjustments, chans)
}

func (t *Transform) animParams() animParams {
	return animParams{rotateDeg: t.rotateDeg, rps: t.rps, drift: t.driftVec, translate: t.translation}
}

func (t *Transform) sampler() Sampler {
	if t.tile {
		return Sampler{AddressMode: AddressRepeat}
	}
	return Sampler{AddressMode: AddressClampToEdge}
}

func (t *Transform) genVertices(tex *Texture, op ShapeOp, s ShapeOpState) []Vertex {
	if t.tile {
		return t.tiledVertices(op.Base, tex, s)
	}

	var groups [][]Vertex
	switch {
	case op.Swap != nil:
		groups = append(groups, t.verticesForShapes(tex, op.Base, *op.Swap, s))
		groups = append(groups, t.verticesForShapes(tex, *op.Swap, op.Base, s))
	case op.Dest != nil:
		groups = append(groups, t.verticesForShapes(tex, op.Base, *op.Dest, s))
	default:
		groups = append(groups, t.verticesForShapes(tex, op.Base, op.Base, s))
	}

	var out []Vertex
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func (t *Transform) verticesForShapes(tex *Texture, src, dest Shape, s ShapeOpState) []Vertex {
	width := float32(tex.Width)
	height := float32(tex.Height)

	srcShape := src
	if t.reshape != nil {
		r := *t.reshape
		srcShape = NewPolygonShape(srcShape.AsPolygon().Stretch(r[0], r[1], r[2], r[3]))
	}

	pairs := srcShape.ProjectionOnto(dest)
	vertices := make([]Vertex, len(pairs))
	for i, pair := range pairs {
		x := float32(pair.Dest.X) / width
		y := float32(pair.Dest.Y) / height
		clipX := x*2 - 1
		clipY := 1 - y*2

		vertices[i] = NewVertexWithTex(
			[2]float32{clipX, clipY},
			[2]float32{float32(pair.Src.X) / width, float32(pair.Src.Y) / height},
		)
	}

	vertices = t.scaleRotateFlip(vertices, tex.Width, tex.Height, s)
	return ToTriangles(vertices)
}

func (t *Transform) tiledVertices(shape Shape, tex *Texture, s ShapeOpState) []Vertex {
	width, height := tex.Width, tex.Height
	texRect := shape.Bounds()
	tr := float32(texRect.Right()) / float32(width)
	tl := float32(texRect.Left()) / float32(width)
	tt := float32(texRect.Top()) / float32(height)
	tb := float32(texRect.Bottom()) / float32(height)
	texTR := [2]float32{tr, tt}
	texTL := [2]float32{tl, tt}
	texBL := [2]float32{tl, tb}
	texBR := [2]float32{tr, tb}

	var rects []Vertex
	for ry := 0; ry < ceilDiv(height, TileHeight); ry++ {
		for rx := 0; rx < ceilDiv(width, TileWidth); rx++ {
			l := float32(rx*TileWidth)/float32(width)*2 - 1
			r := float32(minInt((rx+1)*TileWidth, width))/float32(width)*2 - 1
			top := 1 - float32(ry*TileHeight)/float32(height)*2
			bottom := 1 - float32(minInt((ry+1)*TileHeight, height))/float32(height)*2

			vertices := []Vertex{
				NewVertexWithTex([2]float32{r, top}, texTR),
				NewVertexWithTex([2]float32{l, top}, texTL),
				NewVertexWithTex([2]float32{l, bottom}, texBL),
				NewVertexWithTex([2]float32{r, bottom}, texBR),
			}

			vertices = t.scaleRotateFlip(vertices, width, height, s)
			rects = append(rects, ToTriangles(vertices)...)
		}
	}

	return rects
}

// scaleRotateFlip applies texture-coordinate flipping and, outside of
// tiling mode, clip-space translation/scale/rotation about the vertex
// group's own clip-space centre.
func (t *Transform) scaleRotateFlip(vertices []Vertex, width, height int, s ShapeOpState) []Vertex {
	l, r := float32(math.MaxFloat32), -float32(math.MaxFloat32)
	top, bottom := -float32(math.MaxFloat32), float32(math.MaxFloat32)
	for _, v := range vertices {
		x, y := v.X(), v.Y()
		if x < l {
			l = x
		}
		if y < bottom {
			bottom = y
		}
		if x > r {
			r = x
		}
		if y > top {
			top = y
		}
	}
	clipCenter := NewVertex([2]float32{l + (r-l)/2, bottom + (top-bottom)/2})

	texL, texR := float32(math.MaxFloat32), -float32(math.MaxFloat32)
	texT, texB := float32(math.MaxFloat32), -float32(math.MaxFloat32)
	for _, v := range vertices {
		x, y := v.TexCoord[0], v.TexCoord[1]
		if x < texL {
			texL = x
		}
		if y < texT {
			texT = y
		}
		if x > texR {
			texR = x
		}
		if y > texB {
			texB = y
		}
	}

	var trans Vertex
	if s.Translation != nil {
		tr := *s.Translation
		trans = NewVertex([2]float32{2 * float32(tr[0]) / float32(width), -2 * float32(tr[1]) / float32(height)})
	} else {
		trans = NewVertex([2]float32{0, 0})
	}
	clipCenter.Add(trans)

	out := make([]Vertex, len(vertices))
	for i, v := range vertices {
		if t.flip != nil {
			switch *t.flip {
			case FlipBoth:
				v.TexCoord[0] = flipWithin(v.TexCoord[0], texL, texR)
				v.TexCoord[1] = flipWithin(v.TexCoord[1], texT, texB)
			case FlipHorizontal:
				v.TexCoord[0] = flipWithin(v.TexCoord[0], texL, texR)
			case FlipVertical:
				v.TexCoord[1] = flipWithin(v.TexCoord[1], texT, texB)
			}
		}

		if !t.tile {
			if s.Translation != nil {
				v.Add(trans)
			}

			if t.scale != 1 {
				v.Sub(clipCenter)
				v.MultPos(float32(t.scale))
				v.Add(clipCenter)
			}

			if s.RotateDeg != nil {
				rad := *s.RotateDeg * math.Pi / 180
				cos, sin := float32(math.Cos(rad)), float32(math.Sin(rad))

				transX := v.Position[0] - clipCenter.Position[0]
				transY := v.Position[1] - clipCenter.Position[1]
				v.Position = [2]float32{
					clipCenter.Position[0] + transX*cos - transY*sin,
					clipCenter.Position[1] + transX*sin + transY*cos,
				}
			}
		}

		out[i] = v
	}
	return out
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
