package eymo

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jackrr/eymo/pkg/eymo/dsl"
)

// ErrPipelineClosed is returned by Process once the Pipeline has been closed.
var ErrPipelineClosed = errors.New("eymo: pipeline is closed")

// Detector is the external face detector/landmarker collaborator: a pure
// function from a texture to the faces found in it. The core never
// constructs one; Pipeline only calls it.
type Detector interface {
	Detect(tex *Texture) (Detection, error)
}

// Sink is the external frame sink collaborator. The core calls it once per
// frame with the fully transformed texture's pixels.
type Sink interface {
	WriteFrame(rgba []byte, width, height int) error
}

// NullDetector is a Detector that always reports no faces. It lets the
// transform stage run end to end (single-image test path, benchmarks)
// without a real landmarker wired in; an empty Detection is valid and
// statements requiring a face simply emit no ShapeOps.
type NullDetector struct{}

// Detect implements Detector.
func (NullDetector) Detect(tex *Texture) (Detection, error) { return nil, nil }

// Pipeline is the per-frame façade (C8): it owns a one-slot detection
// cache and a compiled Interpreter, threads elapsed wall time into the
// interpreter's animation state, and enforces a per-frame deadline. A
// Pipeline is safe for concurrent use via an internal mutex-guarded
// coordinator.
type Pipeline struct {
	mu       sync.Mutex
	interp   *Interpreter
	detector Detector
	deadline time.Duration

	cached    Detection
	haveCache bool
	lastFrame time.Time
	closed    bool
}

// NewPipeline compiles prog once at program-load time (dsl.Parse having
// already produced prog) and returns a Pipeline that will detect faces via
// detector and render transforms via executorFn. deadline <= 0 disables
// the per-statement deadline check.
func NewPipeline(prog dsl.Program, detector Detector, executorFn func() Executor, deadline time.Duration) *Pipeline {
	return &Pipeline{
		interp:   NewInterpreter(prog, executorFn),
		detector: detector,
		deadline: deadline,
	}
}

// Process runs detection (reusing the cached result if one is held) and
// then the compiled transform program against tex, returning the output
// texture. now is the caller's wall-clock time for this frame; it is used
// both to compute the elapsed seconds fed to each Transform's animation
// cache and to enforce the frame deadline.
func (p *Pipeline) Process(tex *Texture, now time.Time) (*Texture, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPipelineClosed
	}

	if !p.haveCache {
		det, err := p.detector.Detect(tex)
		if err != nil {
			return nil, fmt.Errorf("eymo: detection: %w", err)
		}
		p.cached = det
		p.haveCache = true
	}

	var elapsed float64
	if !p.lastFrame.IsZero() {
		elapsed = now.Sub(p.lastFrame).Seconds()
	}
	p.lastFrame = now

	start := now
	deadlineCheck := func(label string) error {
		if p.deadline <= 0 {
			return nil
		}
		if time.Since(start) > p.deadline {
			return fmt.Errorf("%s: exceeded %s deadline", label, p.deadline)
		}
		return nil
	}

	out, err := p.interp.Execute(p.cached, tex, elapsed, deadlineCheck)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InvalidateDetection clears the one-slot detection cache so the next
// Process call reruns the external Detector instead of reusing the
// previous frame's faces. Callers typically invoke this every N frames to
// amortise detection cost while still tracking face movement.
func (p *Pipeline) InvalidateDetection() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.haveCache = false
	p.cached = nil
}

// Close marks the Pipeline closed; subsequent Process calls return
// ErrPipelineClosed. Close never blocks on in-flight GPU work, since a
// render pass already submitted cannot be aborted.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPipelineClosed
	}
	p.closed = true
	return nil
}

// RunSink transforms tex through Process and writes the result to sink.
// A deadline overrun is not itself an error (Process returns the partial
// texture); RunSink only logs and propagates submission/detection errors,
// so a single bad frame never aborts the outer loop.
func (p *Pipeline) RunSink(tex *Texture, now time.Time, sink Sink) error {
	out, err := p.Process(tex, now)
	if err != nil {
		log.Printf("eymo: frame processing error: %v", err)
		return err
	}
	return sink.WriteFrame(out.Pixels, out.Width, out.Height)
}
