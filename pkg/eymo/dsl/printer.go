package dsl

import (
	"strconv"
	"strings"
)

// Print renders prog back into source text accepted by Parse, one statement
// per line. It is the inverse of Parse: Parse(Print(prog)) yields a Program
// equal to prog, operation order included. Only textual choices the AST does
// not record can differ from the original source: number formatting, and
// copy_to, which always prints as write_to.
func Print(prog Program) string {
	var b strings.Builder
	for _, stmt := range prog {
		writeTransform(&b, stmt.Transform)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeTransform(b *strings.Builder, t Transform) {
	writeShapeRef(b, t.Shape)
	b.WriteString(": ")
	for i, op := range t.Operations {
		if i > 0 {
			b.WriteString(", ")
		}
		writeOperation(b, op)
	}
}

func writeShapeRef(b *strings.Builder, ref ShapeRef) {
	if ref.IsRect {
		b.WriteString("rect(")
		b.WriteString(strconv.Itoa(ref.Rect.Left))
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(ref.Rect.Top))
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(ref.Rect.W))
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(ref.Rect.H))
		b.WriteByte(')')
		return
	}

	b.WriteString(facePartIdent(ref.Part))
	if ref.Idx != nil {
		b.WriteByte('#')
		if ref.Idx.Kind == FaceIdxRelative && ref.Idx.Value >= 0 {
			// A bare digit string reparses as absolute; the sign is what
			// marks an index relative.
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(ref.Idx.Value))
	}
}

func facePartIdent(p FacePart) string {
	switch p {
	case FacePartLEye:
		return "leye"
	case FacePartREye:
		return "reye"
	case FacePartLEyeRegion:
		return "leye_region"
	case FacePartREyeRegion:
		return "reye_region"
	case FacePartMouth:
		return "mouth"
	case FacePartNose:
		return "nose"
	case FacePartForehead:
		return "forehead"
	default:
		return "face"
	}
}

func writeOperation(b *strings.Builder, op Operation) {
	switch op.Kind {
	case OpScale:
		writeCall(b, "scale", formatNum(op.Scalar))
	case OpRotate:
		writeCall(b, "rotate", formatNum(op.Scalar))
	case OpSpin:
		writeCall(b, "spin", formatNum(op.Scalar))
	case OpTranslate:
		writeCall(b, "translate", formatNum(op.X), formatNum(op.Y))
	case OpDrift:
		writeCall(b, "drift", formatNum(op.X), formatNum(op.Y))
	case OpFlip:
		writeCall(b, "flip", flipArgIdent(op.Flip))
	case OpTile:
		writeCall(b, "tile")
	case OpCopyTo:
		args := make([]string, len(op.Targets))
		for i, t := range op.Targets {
			args[i] = shapeRefString(t)
		}
		writeCall(b, "write_to", args...)
	case OpSwapWith:
		writeCall(b, "swap_with", shapeRefString(op.Target))
	case OpBrightness:
		writeCall(b, "brightness", formatNum(op.Scalar))
	case OpSaturation:
		writeCall(b, "saturation", formatNum(op.Scalar))
	case OpChans:
		writeCall(b, "chans", formatNum(op.R), formatNum(op.G), formatNum(op.B))
	case OpReshape:
		writeCall(b, "reshape", formatNum(op.DXL), formatNum(op.DXR), formatNum(op.DYT), formatNum(op.DYB))
	}
}

func writeCall(b *strings.Builder, name string, args ...string) {
	b.WriteString(name)
	b.WriteByte('(')
	b.WriteString(strings.Join(args, ", "))
	b.WriteByte(')')
}

func shapeRefString(ref ShapeRef) string {
	var b strings.Builder
	writeShapeRef(&b, ref)
	return b.String()
}

func flipArgIdent(f FlipArg) string {
	switch f {
	case FlipArgVertical:
		return "v"
	case FlipArgHorizontal:
		return "h"
	default:
		return "vh"
	}
}

// formatNum renders a float64 the way the lexer's scanNumber expects to
// re-read it: plain decimal notation (the lexer has no exponent syntax),
// using the shortest form that round-trips exactly.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
