package eymo

import (
	"errors"
	"testing"
	"time"

	"github.com/jackrr/eymo/pkg/eymo/dsl"
)

type countingDetector struct {
	calls int
	faces Detection
	err   error
}

func (d *countingDetector) Detect(tex *Texture) (Detection, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return d.faces, nil
}

type fakeSink struct {
	calls  int
	width  int
	height int
}

func (s *fakeSink) WriteFrame(rgba []byte, width, height int) error {
	s.calls++
	s.width, s.height = width, height
	return nil
}

func TestPipelineReusesDetectionCacheAcrossFrames(t *testing.T) {
	prog, err := dsl.Parse("face: scale(1.0)\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	det := &countingDetector{faces: Detection{sampleFace(50, 50)}}
	p := NewPipeline(prog, det, func() Executor { return NewSoftwareExecutor() }, 0)

	tex := solidTexture(100, 100, [4]byte{1, 2, 3, 255})
	base := time.Unix(0, 0)

	if _, err := p.Process(tex, base); err != nil {
		t.Fatalf("process frame 1: %v", err)
	}
	if _, err := p.Process(tex, base.Add(16*time.Millisecond)); err != nil {
		t.Fatalf("process frame 2: %v", err)
	}

	if det.calls != 1 {
		t.Fatalf("expected detection to run once and be cached, got %d calls", det.calls)
	}
}

func TestPipelineInvalidateDetectionForcesRerun(t *testing.T) {
	prog, err := dsl.Parse("face: scale(1.0)\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	det := &countingDetector{faces: Detection{sampleFace(50, 50)}}
	p := NewPipeline(prog, det, func() Executor { return NewSoftwareExecutor() }, 0)

	tex := solidTexture(20, 20, [4]byte{1, 2, 3, 255})
	base := time.Unix(0, 0)

	if _, err := p.Process(tex, base); err != nil {
		t.Fatalf("process: %v", err)
	}
	p.InvalidateDetection()
	if _, err := p.Process(tex, base.Add(time.Second)); err != nil {
		t.Fatalf("process after invalidate: %v", err)
	}

	if det.calls != 2 {
		t.Fatalf("expected detection to rerun after InvalidateDetection, got %d calls", det.calls)
	}
}

func TestPipelineProcessAfterCloseReturnsErrPipelineClosed(t *testing.T) {
	prog, err := dsl.Parse("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	det := &countingDetector{faces: Detection{}}
	p := NewPipeline(prog, det, func() Executor { return NewSoftwareExecutor() }, 0)

	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	tex := solidTexture(10, 10, [4]byte{0, 0, 0, 255})
	if _, err := p.Process(tex, time.Unix(0, 0)); !errors.Is(err, ErrPipelineClosed) {
		t.Fatalf("expected ErrPipelineClosed, got %v", err)
	}
}

func TestPipelineDetectionErrorIsWrapped(t *testing.T) {
	prog, err := dsl.Parse("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	wantErr := errors.New("boom")
	det := &countingDetector{err: wantErr}
	p := NewPipeline(prog, det, func() Executor { return NewSoftwareExecutor() }, 0)

	tex := solidTexture(10, 10, [4]byte{0, 0, 0, 255})
	if _, err := p.Process(tex, time.Unix(0, 0)); !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped detector error, got %v", err)
	}
}

func TestPipelineRunSinkWritesOutputTexture(t *testing.T) {
	prog, err := dsl.Parse("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	det := &countingDetector{faces: Detection{}}
	p := NewPipeline(prog, det, func() Executor { return NewSoftwareExecutor() }, 0)

	tex := solidTexture(12, 8, [4]byte{9, 9, 9, 255})
	sink := &fakeSink{}
	if err := p.RunSink(tex, time.Unix(0, 0), sink); err != nil {
		t.Fatalf("run sink: %v", err)
	}
	if sink.calls != 1 || sink.width != 12 || sink.height != 8 {
		t.Fatalf("unexpected sink call: %+v", sink)
	}
}
