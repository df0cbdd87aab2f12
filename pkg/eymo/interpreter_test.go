package eymo

import (
	"errors"
	"testing"

	"github.com/jackrr/eymo/pkg/eymo/dsl"
)

var errDeadline = errors.New("deadline exceeded")

func sampleFace(cx, cy int) Face {
	r := RectFromCenter(cx, cy, 20, 20)
	return Face{
		Bound:      r,
		Face:       r.Polygon(),
		Mouth:      r.Polygon(),
		Nose:       r.Polygon(),
		LEye:       r.Polygon(),
		LEyeRegion: r.Polygon(),
		REye:       r.Polygon(),
		REyeRegion: r.Polygon(),
		Forehead:   r.Polygon(),
	}
}

func neverExceeded(string) error { return nil }

func TestInterpreterPlainStatementRendersWithoutError(t *testing.T) {
	prog, err := dsl.Parse("face: scale(1.1)\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	in := NewInterpreter(prog, func() Executor { return NewSoftwareExecutor() })

	detection := Detection{sampleFace(50, 50)}
	tex := solidTexture(100, 100, [4]byte{10, 20, 30, 255})

	out, err := in.Execute(detection, tex, 0.016, neverExceeded)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.Width != 100 || out.Height != 100 {
		t.Fatalf("expected unchanged dimensions, got %dx%d", out.Width, out.Height)
	}
}

func TestInterpreterUnspecifiedIndexAppliesToEveryFace(t *testing.T) {
	prog, err := dsl.Parse("mouth: brightness(0.2)\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	detection := Detection{sampleFace(20, 20), sampleFace(60, 60), sampleFace(80, 20)}
	ops := shapeOps("0", prog[0].Transform, detection)
	if len(ops) != 3 {
		t.Fatalf("expected 3 ShapeOps (one per face), got %d", len(ops))
	}
}

func TestInterpreterAbsoluteIndexOutOfRangeEmitsNoOps(t *testing.T) {
	prog, err := dsl.Parse("mouth#5: tile()\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	detection := Detection{sampleFace(20, 20)}
	ops := shapeOps("0", prog[0].Transform, detection)
	if len(ops) != 0 {
		t.Fatalf("expected no ops for out-of-range absolute index, got %d", len(ops))
	}
}

func TestInterpreterRelativeIndexWrapsAcrossFaces(t *testing.T) {
	// S9: with 3 detected faces and mouth#-1: swap_with(mouth#0), the
	// emitted op for outer index 0 swaps face[0].mouth with face[-1 mod
	// 3].mouth = face[2].mouth.
	prog, err := dsl.Parse("mouth#-1: swap_with(mouth#0)\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	detection := Detection{sampleFace(10, 10), sampleFace(50, 50), sampleFace(90, 90)}
	ops := shapeOps("0", prog[0].Transform, detection)
	if len(ops) != 3 {
		t.Fatalf("expected 3 swap ShapeOps, got %d", len(ops))
	}

	foundFace0WithFace2 := false
	for _, op := range ops {
		if op.Swap == nil {
			continue
		}
		baseCenter := op.Base.Center()
		swapCenter := op.Swap.Center()
		if baseCenter == (Point{X: 90, Y: 90}) && swapCenter == (Point{X: 10, Y: 10}) {
			foundFace0WithFace2 = true
		}
	}
	if !foundFace0WithFace2 {
		t.Errorf("expected a swap op pairing face[2] (src) with face[0] (target), got %+v", ops)
	}
}

func TestInterpreterCacheIDsStableAcrossFrames(t *testing.T) {
	prog, err := dsl.Parse("mouth: swap_with(nose)\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	detection := Detection{sampleFace(20, 20), sampleFace(60, 60)}

	idsFrame1 := make(map[string]bool)
	for _, op := range shapeOps("0", prog[0].Transform, detection) {
		idsFrame1[op.ID] = true
	}
	idsFrame2 := make(map[string]bool)
	for _, op := range shapeOps("0", prog[0].Transform, detection) {
		idsFrame2[op.ID] = true
	}

	if len(idsFrame1) != len(idsFrame2) {
		t.Fatalf("expected same cache ID count across frames, got %d vs %d", len(idsFrame1), len(idsFrame2))
	}
	for id := range idsFrame1 {
		if !idsFrame2[id] {
			t.Errorf("cache id %q missing on second frame", id)
		}
	}
}

func TestInterpreterDeadlineExceededStopsRemainingStatements(t *testing.T) {
	prog, err := dsl.Parse("face: scale(1.1)\nface: scale(1.2)\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	in := NewInterpreter(prog, func() Executor { return NewSoftwareExecutor() })

	detection := Detection{sampleFace(50, 50)}
	tex := solidTexture(40, 40, [4]byte{1, 2, 3, 255})

	calls := 0
	check := func(string) error {
		calls++
		if calls > 1 {
			return errDeadline
		}
		return nil
	}

	out, err := in.Execute(detection, tex, 0.016, check)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out == nil {
		t.Fatal("expected a texture even when the deadline trips mid-frame")
	}
}
