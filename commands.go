package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-progressive-pathtracer/pkg/display"
	"github.com/df07/go-progressive-pathtracer/pkg/log"
	"github.com/df07/go-progressive-pathtracer/pkg/renderer"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
	"github.com/df07/go-progressive-pathtracer/web/server"
)

var logger = log.New("pathtracer")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	if dir := ctx.GlobalString("scenes-dir"); dir != "" {
		scene.ScenesDir = dir
	}
}

// renderOptions holds the scene and renderer flags shared by render and serve
type renderOptions struct {
	Scene     string
	Width     int
	Height    int
	Depth     int
	Seed      int64
	Workers   int
	TileSize  int
	MaxPasses int
}

func optionsFromContext(ctx *cli.Context) renderOptions {
	return renderOptions{
		Scene:     ctx.String("scene"),
		Width:     ctx.Int("width"),
		Height:    ctx.Int("height"),
		Depth:     ctx.Int("depth"),
		Seed:      ctx.Int64("seed"),
		Workers:   ctx.Int("workers"),
		TileSize:  ctx.Int("tile"),
		MaxPasses: ctx.Int("samples"),
	}
}

// config sizes the renderer from the scene, letting explicit flags win
func (o renderOptions) config(s *scene.Scene) (renderer.Config, error) {
	config := renderer.ConfigForScene(s)
	if o.Width > 0 {
		config.Width = o.Width
	}
	if o.Height > 0 {
		config.Height = o.Height
	}
	if o.Depth > 0 {
		config.MaxDepth = o.Depth
	}
	config.Seed = o.Seed
	config.NumWorkers = o.Workers
	config.TileSize = o.TileSize
	config.MaxPasses = o.MaxPasses

	if err := config.Validate(); err != nil {
		return renderer.Config{}, err
	}
	return config, nil
}

// outputPath returns output/<scene>/render_<timestamp>.png, naming JSON scenes after their file
func outputPath(sceneName string, now time.Time) string {
	base := sceneName
	if strings.EqualFold(filepath.Ext(sceneName), ".json") {
		base = strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
	}
	return filepath.Join("output", base, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

// Render a fixed number of passes and save the result.
func renderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := optionsFromContext(ctx)
	passes := opts.MaxPasses
	if passes < 1 {
		return fmt.Errorf("samples must be at least 1, got %d", passes)
	}
	scale := ctx.Int("scale")
	if scale < 1 || scale > display.MaxScale {
		return fmt.Errorf("scale must be between 1 and %d, got %d", display.MaxScale, scale)
	}

	s, err := scene.Create(opts.Scene)
	if err != nil {
		return err
	}
	config, err := opts.config(s)
	if err != nil {
		return err
	}

	r, err := renderer.NewProgressive(s, config, logger)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Noticef("rendering %q at %dx%d, %d passes, depth %d", s.Name, config.Width, config.Height, passes, config.MaxDepth)

	var stats []renderer.FrameStats
	frame := r.CurrentFrame()
	for i := 0; i < passes; i++ {
		next, err := r.RenderPass(sigCtx)
		if errors.Is(err, context.Canceled) {
			logger.Warningf("render interrupted after %d passes", frame.Pass)
			break
		}
		if err != nil {
			return err
		}
		frame = next
		stats = append(stats, frame.Stats)
	}
	if frame.Pass == 0 {
		return errors.New("no passes completed, nothing to save")
	}

	var img image.Image = frame.Image
	if ctx.Bool("overlay") {
		img = display.Annotate(frame)
	}
	if scale > 1 {
		img = display.Scale(img, scale)
	}

	out := ctx.String("out")
	if out == "" {
		out = outputPath(opts.Scene, time.Now())
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := display.SavePNG(out, img); err != nil {
		return err
	}

	fmt.Fprint(ctx.App.Writer, passStatsTable(stats, renderer.CalculateAverageLuminance(frame.Image)))
	logger.Noticef("saved %s", out)
	return nil
}

// Render progressively until interrupted while serving previews over HTTP.
func serveScene(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := optionsFromContext(ctx)
	s, err := scene.Create(opts.Scene)
	if err != nil {
		return err
	}
	config, err := opts.config(s)
	if err != nil {
		return err
	}

	console := server.NewConsole(0)
	r, err := renderer.NewProgressive(s, config, server.NewWebLogger(log.New("renderer"), console))
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.NewServer(ctx.Int("port"), opts.Scene, r, console).Start(sigCtx)
}

// List built-in and JSON scenes.
func listScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	scenes, err := scene.ListScenes()
	if err != nil {
		return err
	}
	fmt.Fprint(ctx.App.Writer, scenesTable(scenes))
	return nil
}

func passStatsTable(stats []renderer.FrameStats, luminance float64) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader([]string{"Pass", "Samples", "Pass time", "Total rays", "Rays/sec", "Non-finite"})

	var total time.Duration
	var rays int64
	for _, stat := range stats {
		table.Append([]string{
			fmt.Sprintf("%d", stat.Pass),
			fmt.Sprintf("%d", stat.Samples),
			stat.PassTime.Round(time.Microsecond).String(),
			fmt.Sprintf("%d", stat.RaysTraced),
			fmt.Sprintf("%.0f", stat.RaysPerSecond()),
			fmt.Sprintf("%d", stat.NonFinite),
		})
		total = stat.TotalTime
		rays = stat.RaysTraced
	}
	table.SetFooter([]string{"", "TOTAL", total.Round(time.Microsecond).String(), fmt.Sprintf("%d", rays), "luminance", fmt.Sprintf("%.4f", luminance)})

	table.Render()
	return buf.String()
}

func scenesTable(scenes []scene.SceneInfo) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Name", "Type", "Description"})
	for _, info := range scenes {
		table.Append([]string{info.ID, info.DisplayName, info.Type, info.Description})
	}
	table.Render()
	return buf.String()
}
