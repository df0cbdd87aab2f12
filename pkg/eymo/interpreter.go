package eymo

import (
	"fmt"
	"log"

	"github.com/jackrr/eymo/pkg/eymo/dsl"
)

// DeadlineCheck is called once per statement before it runs; returning a
// non-nil error aborts the remaining statements for this frame.
type DeadlineCheck func(label string) error

type compiledTransform struct {
	transform *Transform
	stmt      dsl.Transform
}

// Interpreter holds one compiled Transform per parsed statement, in source
// order, plus the original AST needed to resolve each frame's ShapeOps
// against the current Detection.
type Interpreter struct {
	compiled []compiledTransform
}

// NewInterpreter compiles prog into an Interpreter, applying each
// statement's shape-agnostic operations (scale, rotate, spin, translate,
// drift, flip, tile, brightness, saturation, chans, reshape) to a fresh
// Transform. executorFn is called once per statement so each Transform can
// own an independent animation cache while sharing the same render backend.
func NewInterpreter(prog dsl.Program, executorFn func() Executor) *Interpreter {
	compiled := make([]compiledTransform, len(prog))
	for i, stmt := range prog {
		t := NewTransform(executorFn())
		applyShapeAgnosticOperations(t, stmt.Transform)
		compiled[i] = compiledTransform{transform: t, stmt: stmt.Transform}
	}
	return &Interpreter{compiled: compiled}
}

func applyShapeAgnosticOperations(t *Transform, cmd dsl.Transform) {
	for _, o := range cmd.Operations {
		switch o.Kind {
		case dsl.OpBrightness:
			t.SetBrightness(o.Scalar)
		case dsl.OpChans:
			t.SetChans(o.R, o.G, o.B)
		case dsl.OpReshape:
			t.SetReshape(o.DXL, o.DXR, o.DYT, o.DYB)
		case dsl.OpDrift:
			t.SetDrift(o.X, o.Y)
		case dsl.OpFlip:
			t.SetFlip(toFlipVariant(o.Flip))
		case dsl.OpRotate:
			t.SetRotDegrees(o.Scalar)
		case dsl.OpSaturation:
			t.SetSaturation(o.Scalar)
		case dsl.OpScale:
			t.SetScale(o.Scalar)
		case dsl.OpSpin:
			t.SetSpin(o.Scalar)
		case dsl.OpTile:
			t.SetTiling(true)
		case dsl.OpTranslate:
			t.TranslateBy(int(o.X), int(o.Y))
		}
	}
}

func toFlipVariant(f dsl.FlipArg) FlipVariant {
	switch f {
	case dsl.FlipArgVertical:
		return FlipVertical
	case dsl.FlipArgHorizontal:
		return FlipHorizontal
	default:
		return FlipBoth
	}
}

// Execute runs every compiled statement in order against detection,
// threading the texture through each Transform's render pass. elapsed is
// the wall-clock seconds since the previous frame, used to advance each
// Transform's animation cache. deadlineCheck is consulted before each
// statement; if it returns an error the current texture is returned as-is
// and the remaining statements are skipped.
func (in *Interpreter) Execute(detection Detection, tex *Texture, elapsed float64, deadlineCheck DeadlineCheck) (*Texture, error) {
	output := tex

	for idx, ct := range in.compiled {
		if err := deadlineCheck(fmt.Sprintf("Transform %d", idx)); err != nil {
			log.Printf("warn: frame deadline exceeded before statement %d: %v", idx, err)
			return output, nil
		}

		ops := shapeOps(fmt.Sprintf("%d", idx), ct.stmt, detection)
		if len(ops) == 0 {
			continue
		}

		out, err := ct.transform.Execute(output, ops, elapsed)
		if err != nil {
			return nil, fmt.Errorf("eymo: statement %d: %w", idx, err)
		}
		output = out
	}

	return output, nil
}

func shapeOps(cacheKeyPrefix string, cmd dsl.Transform, detection Detection) []ShapeOp {
	if cmd.Shape.IsRect {
		return shapeOpsForSrcShape(cacheKeyPrefix, NewRectShape(toEymoRect(cmd.Shape.Rect)), cmd.Operations, detection, nil)
	}

	ref := cmd.Shape
	switch {
	case ref.Idx != nil && ref.Idx.Kind == dsl.FaceIdxAbsolute:
		abs := ref.Idx.Value
		if abs < 0 || abs >= len(detection) {
			return nil
		}
		return shapeOpsForSrcShape(cacheKeyPrefix, faceShapeFor(ref.Part, detection[abs]), cmd.Operations, detection, intPtr(abs))

	case ref.Idx != nil && ref.Idx.Kind == dsl.FaceIdxRelative:
		// One ShapeOp is emitted per face; the face actually used as the
		// source is itself resolved via (i+n) mod |D|, so this produces a
		// permutation over the detection rather than |D| copies of one face.
		var ops []ShapeOp
		for i := range detection {
			resolved := mod(i+ref.Idx.Value, len(detection))
			ops = append(ops, shapeOpsForSrcShape(
				fmt.Sprintf("%s-%d", cacheKeyPrefix, resolved),
				faceShapeFor(ref.Part, detection[resolved]),
				cmd.Operations, detection, intPtr(resolved))...)
		}
		return ops

	default:
		var ops []ShapeOp
		for idx, face := range detection {
			ops = append(ops, shapeOpsForSrcShape(
				fmt.Sprintf("%s-%d", cacheKeyPrefix, idx),
				faceShapeFor(ref.Part, face),
				cmd.Operations, detection, intPtr(idx))...)
		}
		return ops
	}
}

func shapeOpsForSrcShape(cacheKeyPrefix string, src Shape, ops []dsl.Operation, detection Detection, targetFaceIdx *int) []ShapeOp {
	var sops []ShapeOp

	for _, o := range ops {
		switch o.Kind {
		case dsl.OpCopyTo:
			for idx, target := range o.Targets {
				if target.IsRect {
					dest := NewRectShape(toEymoRect(target.Rect))
					sops = append(sops, NewCopyOp(fmt.Sprintf("%s-%d", cacheKeyPrefix, idx), src, dest))
					continue
				}
				for sidx, s := range resolveShapes(target, detection, targetFaceIdx) {
					sops = append(sops, NewCopyOp(fmt.Sprintf("%s-%d-%d", cacheKeyPrefix, idx, sidx), src, s))
				}
			}
		case dsl.OpSwapWith:
			if o.Target.IsRect {
				dest := NewRectShape(toEymoRect(o.Target.Rect))
				sops = append(sops, NewSwapOp(fmt.Sprintf("%s-rect", cacheKeyPrefix), src, dest))
				continue
			}
			for sidx, s := range resolveShapes(o.Target, detection, targetFaceIdx) {
				sops = append(sops, NewSwapOp(fmt.Sprintf("%s-%d", cacheKeyPrefix, sidx), src, s))
			}
		}
	}

	if len(sops) == 0 {
		sops = append(sops, NewOnShapeOp(cacheKeyPrefix, src))
	}

	return sops
}

// resolveShapes resolves an inner shape-ref (a copy_to/swap_with target)
// against the current detection and the outer statement's resolved face
// index, per the face-index resolution rules: absolute indexes a specific
// face, relative resolves against targetIdx (or itself if there is none),
// and unspecified either repeats targetIdx or expands to every face.
func resolveShapes(ref dsl.ShapeRef, detection Detection, targetIdx *int) []Shape {
	switch {
	case ref.Idx != nil && ref.Idx.Kind == dsl.FaceIdxAbsolute:
		abs := ref.Idx.Value
		if abs < 0 || abs >= len(detection) {
			return nil
		}
		return []Shape{faceShapeFor(ref.Part, detection[abs])}

	case ref.Idx != nil && ref.Idx.Kind == dsl.FaceIdxRelative:
		if len(detection) == 0 {
			return nil
		}
		base := ref.Idx.Value
		if targetIdx != nil {
			base += *targetIdx
		}
		idx := mod(base, len(detection))
		return []Shape{faceShapeFor(ref.Part, detection[idx])}

	default:
		if targetIdx != nil {
			if *targetIdx < 0 || *targetIdx >= len(detection) {
				return nil
			}
			return []Shape{faceShapeFor(ref.Part, detection[*targetIdx])}
		}
		shapes := make([]Shape, len(detection))
		for i, face := range detection {
			shapes[i] = faceShapeFor(ref.Part, face)
		}
		return shapes
	}
}

func faceShapeFor(part dsl.FacePart, face Face) Shape {
	return face.Shape(toEymoFacePart(part))
}

// toEymoFacePart maps a parsed dsl.FacePart onto this package's FacePart.
// The conversion lives here, not in dsl, so the dsl package stays free of
// a dependency on pkg/eymo.
func toEymoFacePart(p dsl.FacePart) FacePart {
	switch p {
	case dsl.FacePartLEye:
		return FacePartLEye
	case dsl.FacePartREye:
		return FacePartREye
	case dsl.FacePartLEyeRegion:
		return FacePartLEyeRegion
	case dsl.FacePartREyeRegion:
		return FacePartREyeRegion
	case dsl.FacePartMouth:
		return FacePartMouth
	case dsl.FacePartNose:
		return FacePartNose
	case dsl.FacePartForehead:
		return FacePartForehead
	default:
		return FacePartFace
	}
}

// toEymoRect converts a parsed rect(left, top, w, h) literal into this
// package's centre-point Rect representation.
func toEymoRect(r dsl.Rect) Rect {
	return RectFromTopLeft(r.Left, r.Top, r.W, r.H)
}

func intPtr(v int) *int { return &v }

// mod returns the non-negative representative of a mod n, matching the
// spec's documented "(i + n) mod |D|" resolution rule regardless of sign.
func mod(a, n int) int {
	if n == 0 {
		return 0
	}
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
