// Package main provides the CLI wrapper for eymo.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log"

	"github.com/jackrr/eymo/internal/capture"
	"github.com/jackrr/eymo/internal/config"
	"github.com/jackrr/eymo/internal/filesink"
	"github.com/jackrr/eymo/internal/previewcv"
	"github.com/jackrr/eymo/pkg/eymo"
	"github.com/jackrr/eymo/pkg/eymo/dsl"
)

var version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "Path to TOML configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	programPath := flag.String("program", "", "Path to DSL effect program (overrides config)")
	cameraID := flag.Int("camera", -1, "Camera device ID (overrides config)")
	noMirror := flag.Bool("no-mirror", false, "Disable horizontal flip (mirror mode)")
	preview := flag.Bool("preview", false, "Show output preview window (debug mode)")
	image := flag.String("image", "", "Run the single-image test path against this file instead of the camera")
	out := flag.String("out", "", "Output image path for -image mode")
	verbose := flag.Bool("verbose", false, "Enable verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "eymo - real-time video face-effects engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # Run against the default camera\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -config config.toml -preview     # Run with custom config, show preview\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -image in.png -out out.png       # Single-image test path\n", os.Args[0])
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("eymo version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *cameraID >= 0 {
		cfg.Camera.DeviceID = *cameraID
	}
	if *programPath != "" {
		cfg.Program.Path = *programPath
	}
	if *preview {
		cfg.Output.Sink = config.SinkPreview
	}
	if *noMirror {
		cfg.Camera.Mirror = false
	}

	src, err := os.ReadFile(cfg.Program.Path)
	if err != nil {
		log.Fatalf("Failed to read effect program %q: %v", cfg.Program.Path, err)
	}
	prog, err := dsl.Parse(string(src))
	if err != nil {
		log.Fatalf("Failed to parse effect program: %v", err)
	}
	if *verbose {
		log.Printf("Compiled %d statement(s) from %s", len(prog), cfg.Program.Path)
	}

	deadline := time.Duration(cfg.Program.DeadlineMS) * time.Millisecond
	pipeline := eymo.NewPipeline(prog, eymo.NullDetector{}, func() eymo.Executor {
		return eymo.NewSoftwareExecutor()
	}, deadline)
	defer pipeline.Close()

	if *image != "" {
		runSingleImage(pipeline, *image, *out)
		return
	}

	runCamera(pipeline, cfg, *verbose)
}

func runSingleImage(pipeline *eymo.Pipeline, inPath, outPath string) {
	pixels, width, height, err := filesink.ReadImage(inPath)
	if err != nil {
		log.Fatalf("Failed to read image: %v", err)
	}
	tex, err := eymo.NewTextureFromPixels(width, height, pixels, eymo.UsageSampled)
	if err != nil {
		log.Fatalf("Failed to wrap image as texture: %v", err)
	}

	sink := filesink.New(outPath)
	if err := pipeline.RunSink(tex, time.Now(), sink); err != nil {
		log.Fatalf("Failed to process image: %v", err)
	}
	log.Printf("Wrote %s", outPath)
}

func runCamera(pipeline *eymo.Pipeline, cfg *config.Config, verbose bool) {
	cam := capture.NewOpenCVCamera()
	opts := capture.Options{
		DeviceID: cfg.Camera.DeviceID,
		Width:    cfg.Camera.Width,
		Height:   cfg.Camera.Height,
		FPS:      cfg.Camera.FPS,
		Mirror:   cfg.Camera.Mirror,
	}
	if err := cam.Open(opts); err != nil {
		log.Fatalf("Failed to open camera: %v", err)
	}
	defer cam.Close()

	actualWidth, actualHeight := cam.Resolution()
	log.Printf("Camera opened: device=%d, resolution=%dx%d, mirror=%v", cfg.Camera.DeviceID, actualWidth, actualHeight, cfg.Camera.Mirror)

	var sink eymo.Sink
	switch cfg.Output.Sink {
	case config.SinkPreview:
		win := previewcv.NewWindow("eymo")
		defer win.Close()
		sink = win
	case config.SinkFile:
		sink = filesink.New(cfg.Output.FilePath)
	default:
		sink = noopSink{}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	frameInterval := time.Second / time.Duration(cfg.Camera.FPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	detectEvery := cfg.Program.DetectEveryNFrames
	if detectEvery <= 0 {
		detectEvery = 1
	}

	log.Println("eymo started. Press Ctrl+C to stop.")

	var frameCount uint64
	for {
		select {
		case sig := <-sigCh:
			log.Printf("Received signal %v, shutting down...", sig)
			return

		case <-ticker.C:
			tex, err := cam.Read()
			if err != nil {
				log.Printf("warn: camera read failed: %v", err)
				continue
			}

			now := time.Now()
			if err := pipeline.RunSink(tex, now, sink); err != nil {
				log.Printf("eymo: %v", err)
				continue
			}

			frameCount++
			if frameCount%uint64(detectEvery) == 0 {
				pipeline.InvalidateDetection()
			}
			if verbose && frameCount%30 == 0 {
				log.Printf("Frame %d processed", frameCount)
			}
		}
	}
}

// noopSink discards frames; used when Output.Sink is config.SinkNone.
type noopSink struct{}

func (noopSink) WriteFrame(rgba []byte, width, height int) error { return nil }
