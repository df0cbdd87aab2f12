//go:build cgo
// +build cgo

// Package capture provides a webcam camera source backed by OpenCV (gocv),
// emitting eymo textures ready for the transform pipeline.
package capture

import (
	"fmt"
	"sort"
	"sync"

	"gocv.io/x/gocv"

	"github.com/jackrr/eymo/pkg/eymo"
)

// fourccMJPEG is the FourCC code for the Motion JPEG codec, widely
// supported by USB webcams and providing good compression.
const fourccMJPEG = 0x47504A4D

// warmUpAttempts bounds how many frames Open will discard while waiting
// for a newly opened device to start producing real data; some webcams
// return one or two empty/garbage Mats before the sensor settles.
const warmUpAttempts = 5

// Options configures a device opened via OpenCVCamera.Open. Zero-valued
// Width, Height or FPS leave the device's own default in place.
type Options struct {
	DeviceID int
	Width    int
	Height   int
	FPS      int
	Mirror   bool
}

// OpenCVCamera is a texture-producing camera source backed by GoCV. It
// opens devices through the V4L2 backend (avoiding GStreamer's "Internal
// data stream error" on Linux) and converts frames to RGBA8 for
// eymo.Texture, since the compositor samples RGBA rather than the BGR
// OpenCV Mats natively hold.
type OpenCVCamera struct {
	mu sync.Mutex

	opts   Options
	width  int
	height int
	fps    int
	webcam *gocv.VideoCapture
}

// NewOpenCVCamera returns an unopened camera source.
func NewOpenCVCamera() *OpenCVCamera {
	return &OpenCVCamera{}
}

// Open starts capture on the configured device. Calling Open twice without
// an intervening Close is an error.
func (c *OpenCVCamera) Open(opts Options) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.webcam != nil {
		return fmt.Errorf("camera already opened")
	}

	webcam, err := openDevice(opts.DeviceID)
	if err != nil {
		return err
	}

	webcam.Set(gocv.VideoCaptureFOURCC, fourccMJPEG)
	if opts.Width > 0 {
		webcam.Set(gocv.VideoCaptureFrameWidth, float64(opts.Width))
	}
	if opts.Height > 0 {
		webcam.Set(gocv.VideoCaptureFrameHeight, float64(opts.Height))
	}
	if opts.FPS > 0 {
		webcam.Set(gocv.VideoCaptureFPS, float64(opts.FPS))
	}

	c.opts = opts
	c.width = int(webcam.Get(gocv.VideoCaptureFrameWidth))
	c.height = int(webcam.Get(gocv.VideoCaptureFrameHeight))
	c.fps = int(webcam.Get(gocv.VideoCaptureFPS))
	c.webcam = webcam

	if err := warmUp(webcam, warmUpAttempts); err != nil {
		webcam.Close()
		c.webcam = nil
		return err
	}
	return nil
}

func openDevice(deviceID int) (*gocv.VideoCapture, error) {
	webcam, err := gocv.OpenVideoCaptureWithAPI(deviceID, gocv.VideoCaptureV4L2)
	if err != nil {
		return nil, fmt.Errorf("opening camera device %d: %w", deviceID, err)
	}
	if !webcam.IsOpened() {
		webcam.Close()
		return nil, fmt.Errorf("camera device %d not found or unavailable", deviceID)
	}
	return webcam, nil
}

// warmUp reads and discards frames until one decodes successfully or
// attempts is exhausted, since a freshly opened device often yields a few
// empty Mats before the sensor is actually streaming.
func warmUp(webcam *gocv.VideoCapture, attempts int) error {
	mat := gocv.NewMat()
	defer mat.Close()

	for i := 0; i < attempts; i++ {
		if ok := webcam.Read(&mat); ok && !mat.Empty() {
			return nil
		}
	}
	return fmt.Errorf("camera produced no frame after %d warm-up attempts", attempts)
}

// Read captures a single frame and returns it as an eymo.Texture ready for
// the pipeline façade to consume.
func (c *OpenCVCamera) Read() (*eymo.Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.webcam == nil {
		return nil, fmt.Errorf("camera not opened")
	}

	mat := gocv.NewMat()
	defer mat.Close()

	if ok := c.webcam.Read(&mat); !ok {
		return nil, fmt.Errorf("reading frame from camera")
	}
	if mat.Empty() {
		return nil, fmt.Errorf("captured frame is empty")
	}

	if c.opts.Mirror {
		gocv.Flip(mat, &mat, 1) //nolint:errcheck
	}

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(mat, &rgba, gocv.ColorBGRToRGBA) //nolint:errcheck

	return eymo.NewTextureFromPixels(rgba.Cols(), rgba.Rows(), rgba.ToBytes(), eymo.UsageSampled|eymo.UsageCopyDst)
}

// Close releases camera resources. Safe to call on an unopened camera.
func (c *OpenCVCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.webcam == nil {
		return nil
	}
	err := c.webcam.Close()
	c.webcam = nil
	if err != nil {
		return fmt.Errorf("closing webcam: %w", err)
	}
	return nil
}

// SetMirror enables or disables horizontal flip. Safe to call while the
// camera is running.
func (c *OpenCVCamera) SetMirror(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Mirror = enabled
}

// Resolution returns the actual configured resolution, which may differ
// from the requested one if the device doesn't support it.
func (c *OpenCVCamera) Resolution() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// EnumerateCameras probes device indexes [0, maxDevices) concurrently and
// returns, in ascending order, the ones that can be opened. maxDevices <=
// 0 defaults to 10. Best effort: a platform that numbers devices
// differently may still miss real hardware.
func EnumerateCameras(maxDevices int) []int {
	if maxDevices <= 0 {
		maxDevices = 10
	}

	var (
		mu    sync.Mutex
		found []int
		wg    sync.WaitGroup
	)

	for i := 0; i < maxDevices; i++ {
		wg.Add(1)
		go func(deviceID int) {
			defer wg.Done()
			cam, err := gocv.OpenVideoCaptureWithAPI(deviceID, gocv.VideoCaptureV4L2)
			if err != nil {
				return
			}
			defer cam.Close()
			if cam.IsOpened() {
				mu.Lock()
				found = append(found, deviceID)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	sort.Ints(found)
	return found
}
