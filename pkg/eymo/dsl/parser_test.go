package dsl

import (
	"strings"
	"testing"
)

func TestParseThreeStatements(t *testing.T) {
	src := "leye: translate(100, -80)\n" +
		"mouth#1: swap_with(mouth#0)\n" +
		"mouth#0: scale(2.5), write_to(leye_region, nose), swap_with(reye)\n"

	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog))
	}
}

func TestParseWriteToMultipleTargets(t *testing.T) {
	src := "mouth#0: scale(2.5), write_to(leye_region, nose), swap_with(reye)"

	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog))
	}

	ops := prog[0].Transform.Operations
	if len(ops) != 3 {
		t.Fatalf("expected 3 operations, got %d", len(ops))
	}
	if ops[1].Kind != OpCopyTo || len(ops[1].Targets) != 2 {
		t.Fatalf("expected write_to with 2 targets, got %+v", ops[1])
	}
}

func TestParseAbsoluteAndRelativeFaceIndex(t *testing.T) {
	prog, err := Parse("mouth#0: tile()\nnose#-1: tile()\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	abs := prog[0].Transform.Shape.Idx
	if abs == nil || abs.Kind != FaceIdxAbsolute || abs.Value != 0 {
		t.Errorf("expected absolute index 0, got %+v", abs)
	}

	rel := prog[1].Transform.Shape.Idx
	if rel == nil || rel.Kind != FaceIdxRelative || rel.Value != -1 {
		t.Errorf("expected relative index -1, got %+v", rel)
	}
}

func TestParseExplicitPlusSignIsRelative(t *testing.T) {
	prog, err := Parse("mouth#+1: tile()\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	idx := prog[0].Transform.Shape.Idx
	if idx == nil || idx.Kind != FaceIdxRelative || idx.Value != 1 {
		t.Errorf("expected relative index +1, got %+v", idx)
	}

	reparsed, err := Parse(Print(prog))
	if err != nil {
		t.Fatalf("parse printed source: %v", err)
	}
	if !programsEqual(prog, reparsed) {
		t.Fatalf("round-trip mismatch: %+v vs %+v", prog, reparsed)
	}
}

func TestParseErrorReportsByteOffset(t *testing.T) {
	_, err := Parse("face: bogus(1)\n")
	if err == nil {
		t.Fatal("expected error for unknown operation")
	}
	if !strings.Contains(err.Error(), "byte offset 6") {
		t.Errorf("expected error to carry the byte offset of the bad token, got %q", err)
	}
}

func TestParseUnspecifiedFaceIndex(t *testing.T) {
	prog, err := Parse("face: tile()\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if prog[0].Transform.Shape.Idx != nil {
		t.Errorf("expected no face index, got %+v", prog[0].Transform.Shape.Idx)
	}
}

func TestParseRectLiteral(t *testing.T) {
	prog, err := Parse("rect(10, 20, 30, 40): tile()\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ref := prog[0].Transform.Shape
	if !ref.IsRect {
		t.Fatal("expected rect literal shape reference")
	}
	if ref.Rect.Left != 10 || ref.Rect.Top != 20 {
		t.Errorf("unexpected rect: %+v", ref.Rect)
	}
}

func TestParseReshapeOperation(t *testing.T) {
	prog, err := Parse("face: reshape(1.5, 1.0, 1.0, 2.0)\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	op := prog[0].Transform.Operations[0]
	if op.Kind != OpReshape || op.DXL != 1.5 || op.DYB != 2.0 {
		t.Errorf("unexpected reshape operation: %+v", op)
	}
}

func TestParseAllOperationKinds(t *testing.T) {
	src := "face: scale(2), rotate(90), spin(0.5), translate(1,-2), drift(10,90), " +
		"flip(vh), tile(), brightness(0.2), saturation(1.1), chans(1,0.5,0.5)\n"
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(prog[0].Transform.Operations) != 10 {
		t.Fatalf("expected 10 operations, got %d", len(prog[0].Transform.Operations))
	}
}

func TestParseRejectsUnknownOperation(t *testing.T) {
	if _, err := Parse("face: bogus(1)\n"); err == nil {
		t.Fatal("expected error for unknown operation")
	}
}

func TestParseRejectsUnknownFacePart(t *testing.T) {
	if _, err := Parse("chin: tile()\n"); err == nil {
		t.Fatal("expected error for unknown face part")
	}
}

// TestPrintParseRoundTrip covers the parse -> print -> re-parse cycle: the
// AST recovered from the printed source must equal the AST the printer was
// given, even though write_to/copy_to collapse to one spelling on the way
// out.
func TestPrintParseRoundTrip(t *testing.T) {
	src := "mouth#0: scale(2.5), rotate(90), spin(0.5), translate(100, -80), " +
		"drift(10, 90), flip(vh), tile(), copy_to(leye_region, nose#-1), " +
		"swap_with(rect(10, 20, 30, 40)), brightness(0.2), saturation(1.1), " +
		"chans(1, 0.5, 0.5), reshape(1.5, 1, 1, 2)\n"

	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	printed := Print(prog)

	reparsed, err := Parse(printed)
	if err != nil {
		t.Fatalf("parse printed source: %v\n--- printed ---\n%s", err, printed)
	}

	if !programsEqual(prog, reparsed) {
		t.Fatalf("round-trip mismatch:\noriginal: %+v\nprinted source:\n%s\nreparsed: %+v", prog, printed, reparsed)
	}
}

func TestPrintRectShapeRoundTrip(t *testing.T) {
	src := "rect(10, 20, 30, 40): scale(1.5), write_to(rect(1, 2, 3, 4))\n"
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	reparsed, err := Parse(Print(prog))
	if err != nil {
		t.Fatalf("parse printed source: %v", err)
	}
	if !programsEqual(prog, reparsed) {
		t.Fatalf("round-trip mismatch:\noriginal: %+v\nreparsed: %+v", prog, reparsed)
	}
}

func programsEqual(a, b Program) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !transformsEqual(a[i].Transform, b[i].Transform) {
			return false
		}
	}
	return true
}

func transformsEqual(a, b Transform) bool {
	if !shapeRefsEqual(a.Shape, b.Shape) || len(a.Operations) != len(b.Operations) {
		return false
	}
	for i := range a.Operations {
		if !operationsEqual(a.Operations[i], b.Operations[i]) {
			return false
		}
	}
	return true
}

func shapeRefsEqual(a, b ShapeRef) bool {
	if a.IsRect != b.IsRect {
		return false
	}
	if a.IsRect {
		return a.Rect == b.Rect
	}
	if a.Part != b.Part {
		return false
	}
	if (a.Idx == nil) != (b.Idx == nil) {
		return false
	}
	if a.Idx != nil && *a.Idx != *b.Idx {
		return false
	}
	return true
}

func operationsEqual(a, b Operation) bool {
	if a.Kind != b.Kind || a.Scalar != b.Scalar || a.X != b.X || a.Y != b.Y ||
		a.Flip != b.Flip || a.R != b.R || a.G != b.G || a.B != b.B ||
		a.DXL != b.DXL || a.DXR != b.DXR || a.DYT != b.DYT || a.DYB != b.DYB {
		return false
	}
	if !shapeRefsEqual(a.Target, b.Target) {
		return false
	}
	if len(a.Targets) != len(b.Targets) {
		return false
	}
	for i := range a.Targets {
		if !shapeRefsEqual(a.Targets[i], b.Targets[i]) {
			return false
		}
	}
	return true
}
