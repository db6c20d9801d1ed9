package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dataload/internal/config"
	"dataload/internal/debug/timing"
	"dataload/internal/loader"
	"dataload/internal/logger"
	"dataload/internal/mesh"
	"dataload/internal/tensor"
	"dataload/internal/visualize"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"gonum.org/v1/plot/vg"
)

const AppVersion = "1.0.0"

type options struct {
	imagePath  string
	maskPath   string
	size       string
	meshPath   string
	configPath string
	figurePath string
	noWindow   bool
}

func main() {
	opts := parseFlags()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "dataload: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.imagePath, "image", "", "path to the RGB image")
	flag.StringVar(&opts.maskPath, "mask", "", "path to the grayscale mask")
	flag.StringVar(&opts.size, "size", "", "resize image and mask to WxH (or N for NxN)")
	flag.StringVar(&opts.meshPath, "mesh", "", "path to an OBJ or STL model")
	flag.StringVar(&opts.configPath, "config", "", "optional YAML config file")
	flag.StringVar(&opts.figurePath, "figure", "", "write the side-by-side figure to this PNG")
	flag.BoolVar(&opts.noWindow, "no-window", false, "do not open the viewer window")
	flag.Parse()
	return opts
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(cfg.Level()).WithFields(map[string]interface{}{"pid": os.Getpid()})
	tracker := timing.NewTracker(log)

	log.Info("Main", "dataload starting", map[string]interface{}{
		"version":   AppVersion,
		"log_level": cfg.Level().String(),
	})

	if opts.imagePath == "" && opts.meshPath == "" {
		flag.Usage()
		return errors.New("nothing to do: pass -image/-mask and/or -mesh")
	}

	if opts.meshPath != "" {
		if err := inspectMesh(opts.meshPath, tracker, log); err != nil {
			return err
		}
	}

	if opts.imagePath == "" {
		return nil
	}
	if opts.maskPath == "" {
		return errors.New("-mask is required with -image")
	}

	size := cfg.TargetSize
	if opts.size != "" {
		s, err := tensor.ParseSize(opts.size)
		if err != nil {
			return fmt.Errorf("-size: %w", err)
		}
		size = &s
	}

	img, mask, err := loader.NewImageLoader(log, tracker).LoadPair(opts.imagePath, opts.maskPath, size)
	if err != nil {
		log.Error("Main", err, map[string]interface{}{"image": opts.imagePath, "mask": opts.maskPath})
		return err
	}

	log.Info("Main", "tensors ready", map[string]interface{}{
		"image_shape": img.Shape(),
		"mask_shape":  mask.Shape(),
		"image_range": []float64{img.Min(), img.Max()},
		"mask_range":  []float64{mask.Min(), mask.Max()},
		"load_ms":     tracker.GetAverageTime("load_pair").Milliseconds(),
	})

	if opts.figurePath != "" {
		fig := visualize.NewFigure(vg.Length(cfg.Figure.Width), vg.Length(cfg.Figure.Height))
		if err := fig.Save(opts.figurePath, img, mask); err != nil {
			return err
		}
		log.Info("Main", "figure written", map[string]interface{}{"path": opts.figurePath})
	}

	if opts.noWindow {
		return nil
	}

	return showViewer(ctx, cfg, img, mask, log)
}

func inspectMesh(path string, tracker *timing.Tracker, log logger.Logger) error {
	tctx := tracker.StartTiming("mesh_load")
	m, err := mesh.Load(path)
	elapsed := tracker.EndTiming(tctx)
	if err != nil {
		log.Error("Main", err, map[string]interface{}{"mesh": path})
		return err
	}

	b := m.Bounds()
	log.Info("Main", "mesh loaded", map[string]interface{}{
		"name":         m.Name,
		"format":       m.Format,
		"vertices":     m.VertexCount(),
		"faces":        m.FaceCount(),
		"bounds_min":   []float64{b.Min.X, b.Min.Y, b.Min.Z},
		"bounds_max":   []float64{b.Max.X, b.Max.Y, b.Max.Z},
		"surface_area": m.SurfaceArea(),
		"load_ms":      elapsed.Milliseconds(),
	})
	return nil
}

// showViewer blocks until the window is closed or ctx is cancelled.
func showViewer(ctx context.Context, cfg *config.Config, img, mask *tensor.Tensor, log logger.Logger) error {
	app.SetMetadata(fyne.AppMetadata{
		ID:      visualize.AppID,
		Name:    visualize.WindowName,
		Version: AppVersion,
	})
	a := app.NewWithID(visualize.AppID)

	viewer := visualize.NewViewer(a, fyne.NewSize(cfg.Window.Width, cfg.Window.Height))

	done := make(chan struct{})
	exited := watchCancel(ctx, done, func() { fyne.Do(a.Quit) }, log)

	log.Debug("Main", "opening viewer", nil)
	err := viewer.Show(img, mask)

	close(done)
	<-exited
	return err
}

// watchCancel calls quit when ctx ends before done is closed. The returned
// channel is closed once the watcher goroutine has exited.
func watchCancel(ctx context.Context, done <-chan struct{}, quit func(), log logger.Logger) <-chan struct{} {
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			log.Info("Main", "context cancelled, closing viewer", nil)
			quit()
		case <-done:
		}
	}()
	return exited
}
