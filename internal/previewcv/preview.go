//go:build cgo
// +build cgo

// Package previewcv implements a debug preview window sink using OpenCV
// (gocv). It satisfies eymo.Sink.
package previewcv

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// redrawInterval bounds how often the window loop polls for a new frame;
// WriteFrame calls faster than this coalesce onto the most recent one.
const redrawInterval = 16 * time.Millisecond

// Window is a debug window that shows the most recently written frame.
// OpenCV UI calls must happen on a single dedicated OS thread on
// Linux/X11, so Window runs its own loop goroutine locked to one. Unlike
// a queue, the window holds at most one pending frame: a producer faster
// than the display simply overwrites it, so the window always shows the
// latest state rather than working through a backlog.
type Window struct {
	title  string
	window *gocv.Window

	mu       sync.Mutex
	pending  gocv.Mat
	hasFrame bool

	closeCh  chan struct{}
	doneCh   chan struct{}
	initDone chan struct{}
	once     sync.Once
}

// NewWindow creates and shows a preview window with the given title.
func NewWindow(title string) *Window {
	w := &Window{
		title:    title,
		closeCh:  make(chan struct{}),
		doneCh:   make(chan struct{}),
		initDone: make(chan struct{}),
	}
	go w.loop()
	<-w.initDone
	return w
}

func (w *Window) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	w.window = gocv.NewWindow(w.title)
	close(w.initDone)

	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.drawPending()
		case <-w.closeCh:
			w.window.Close()
			close(w.doneCh)
			return
		}
	}
}

func (w *Window) drawPending() {
	w.mu.Lock()
	if !w.hasFrame {
		w.mu.Unlock()
		return
	}
	frame := w.pending
	w.hasFrame = false
	w.mu.Unlock()

	w.window.IMShow(frame)
	w.window.WaitKey(1)
	frame.Close()
}

// WriteFrame implements eymo.Sink: rgba is RGBA8-UNORM, row-major,
// width*height*4 bytes. The frame is converted to BGR for OpenCV display
// and stashed as the window's pending frame, replacing (and closing)
// whatever frame hadn't been drawn yet.
func (w *Window) WriteFrame(rgba []byte, width, height int) error {
	mat, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC4, rgba)
	if err != nil {
		return fmt.Errorf("previewcv: wrapping frame: %w", err)
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR) //nolint:errcheck

	w.mu.Lock()
	if w.hasFrame {
		w.pending.Close()
	}
	w.pending = bgr
	w.hasFrame = true
	w.mu.Unlock()

	return nil
}

// Close closes the preview window and releases its resources.
func (w *Window) Close() error {
	w.once.Do(func() {
		close(w.closeCh)
		<-w.doneCh

		w.mu.Lock()
		if w.hasFrame {
			w.pending.Close()
			w.hasFrame = false
		}
		w.mu.Unlock()
	})
	return nil
}
