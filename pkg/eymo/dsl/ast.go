// Package dsl implements the lexer, parser, and AST for the per-frame
// effect language: one statement per line, binding a shape reference to an
// ordered list of operations. The package is self-contained (no dependency
// on pkg/eymo); the interpreter is responsible for mapping AST values onto
// the engine's own types.
package dsl

// FacePart names one addressable named region of a face.
type FacePart int

const (
	FacePartLEye FacePart = iota
	FacePartREye
	FacePartLEyeRegion
	FacePartREyeRegion
	FacePartFace
	FacePartMouth
	FacePartNose
	FacePartForehead
)

// Rect is a parsed `rect(left, top, w, h)` shape literal, given in top-left
// + dimensions form exactly as written in the source text.
type Rect struct {
	Left, Top, W, H int
}

// FaceIdxKind distinguishes an absolute face index from one resolved
// relative to whatever face index is currently in scope.
type FaceIdxKind int

const (
	FaceIdxAbsolute FaceIdxKind = iota
	FaceIdxRelative
)

// FaceIdx is a parsed `#n` suffix on a face-part shape reference.
type FaceIdx struct {
	Kind  FaceIdxKind
	Value int
}

// ShapeRef is a closed tagged union: either a face-part reference or a
// literal rect, the two forms a statement's shape position (or an inner
// copy_to/swap_with target) can take.
type ShapeRef struct {
	IsRect bool
	Part   FacePart
	Idx    *FaceIdx
	Rect   Rect
}

// FlipArg is the parsed argument to the flip() operation.
type FlipArg int

const (
	FlipArgVertical FlipArg = iota
	FlipArgHorizontal
	FlipArgBoth
)

// OpKind tags the variant held by an Operation.
type OpKind int

const (
	OpScale OpKind = iota
	OpRotate
	OpSpin
	OpTranslate
	OpDrift
	OpFlip
	OpTile
	OpCopyTo
	OpSwapWith
	OpBrightness
	OpSaturation
	OpChans
	OpReshape
)

// Operation is one parsed, comma-separated clause of a statement.
type Operation struct {
	Kind OpKind

	Scalar   float64 // Scale, Rotate, Spin, Brightness, Saturation
	X, Y     float64 // Translate (int-valued), Drift (v, angle)
	Flip     FlipArg
	Targets  []ShapeRef // CopyTo
	Target   ShapeRef   // SwapWith
	R, G, B  float64    // Chans
	DXL, DXR float64    // Reshape
	DYT, DYB float64
}

// Transform is one parsed statement: a shape reference and the ordered
// operations applied to it.
type Transform struct {
	Shape      ShapeRef
	Operations []Operation
}

// Statement is a closed tagged union, currently always a Transform; kept as
// its own type to mirror the grammar and leave room for future statement
// kinds without reshaping callers.
type Statement struct {
	Transform Transform
}

// Program is an ordered list of parsed statements, in source order.
type Program []Statement
