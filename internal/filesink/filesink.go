//go:build cgo
// +build cgo

// Package filesink writes transformed frames to a single image file via
// gocv.IMWrite, serving the single-image test path and a file output sink.
package filesink

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Sink writes every frame passed to WriteFrame to the same path,
// overwriting the previous contents. It implements eymo.Sink.
type Sink struct {
	Path string
}

// New returns a Sink that writes to path. The image format is inferred by
// gocv.IMWrite from path's extension (.png, .jpg, ...).
func New(path string) *Sink {
	return &Sink{Path: path}
}

// WriteFrame implements eymo.Sink.
func (s *Sink) WriteFrame(rgba []byte, width, height int) error {
	mat, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC4, rgba)
	if err != nil {
		return fmt.Errorf("filesink: wrapping frame: %w", err)
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR) //nolint:errcheck

	if ok := gocv.IMWrite(s.Path, bgr); !ok {
		return fmt.Errorf("filesink: failed to write %s", s.Path)
	}
	return nil
}

// ReadImage reads an image file and returns it as RGBA8 pixels plus its
// width and height, for the single-image test path's input side.
func ReadImage(path string) (pixels []byte, width, height int, err error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return nil, 0, 0, fmt.Errorf("filesink: failed to read %s", path)
	}
	defer mat.Close()

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(mat, &rgba, gocv.ColorBGRToRGBA) //nolint:errcheck

	return rgba.ToBytes(), rgba.Cols(), rgba.Rows(), nil
}
