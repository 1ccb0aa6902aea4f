package renderer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
	"github.com/df07/go-progressive-pathtracer/pkg/integrator"
	"github.com/df07/go-progressive-pathtracer/pkg/log"
	"github.com/df07/go-progressive-pathtracer/pkg/scene"
)

// State is the lifecycle state of a Progressive renderer
type State int

const (
	StateIdle State = iota
	StateRendering
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRendering:
		return "rendering"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Progressive refines an image one sample per pixel per pass.
// All accumulation happens on the rendering side; readers only ever see published frames.
type Progressive struct {
	config     Config
	world      *geometry.HittableList
	camera     *geometry.Camera
	integrator integrator.Integrator
	logger     log.Logger

	// Guarded by renderMu; passes never overlap
	renderMu sync.Mutex
	tiles    []*Tile
	accum    *AccumulationBuffer
	passBuf  []core.Vec3
	stats    FrameStats

	frame atomic.Pointer[Frame]

	mu          sync.Mutex
	state       State
	cancel      context.CancelFunc
	done        chan struct{}
	err         error
	subscribers map[chan *Frame]struct{}
}

// NewProgressive validates the scene and configuration and prepares a renderer.
// The camera's aspect ratio always follows the configured image size.
func NewProgressive(s *scene.Scene, config Config, logger log.Logger) (*Progressive, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if s == nil || s.World == nil || s.World.Len() == 0 {
		return nil, ErrEmptyScene
	}

	cameraConfig := s.Camera
	cameraConfig.AspectRatio = float64(config.Width) / float64(config.Height)
	if err := cameraConfig.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if logger == nil {
		logger = log.New("renderer")
	}

	p := &Progressive{
		config:      config,
		world:       s.World,
		camera:      geometry.NewCamera(cameraConfig),
		integrator:  integrator.NewPathTracingIntegrator(s.World, config.MaxDepth, integrator.DefaultSky()),
		logger:      logger,
		tiles:       NewTileGrid(config),
		accum:       NewAccumulationBuffer(config.Width, config.Height),
		passBuf:     make([]core.Vec3, config.Width*config.Height),
		done:        make(chan struct{}),
		subscribers: make(map[chan *Frame]struct{}),
	}
	p.frame.Store(newBlankFrame(config.Width, config.Height))

	return p, nil
}

// Config returns the configuration the renderer was created with
func (p *Progressive) Config() Config {
	return p.config
}

// World returns the scene objects being rendered. It must not be modified.
func (p *Progressive) World() *geometry.HittableList {
	return p.world
}

// PixelRay returns the unjittered camera ray through the center of pixel (x, y)
func (p *Progressive) PixelRay(x, y int) core.Ray {
	u := (float64(x) + 0.5) / float64(p.config.Width-1)
	v := (float64(p.config.Height-1-y) + 0.5) / float64(p.config.Height-1)
	return p.camera.GetRay(u, v)
}

// CurrentFrame returns the most recently published frame.
// Before the first pass completes this is a black frame with zero samples.
func (p *Progressive) CurrentFrame() *Frame {
	return p.frame.Load()
}

// State returns the lifecycle state
func (p *Progressive) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Done is closed once the renderer has stopped
func (p *Progressive) Done() <-chan struct{} {
	return p.done
}

// Err reports why rendering stopped: nil after MaxPasses, the context error after cancellation
func (p *Progressive) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Start launches the background pass loop. It fails unless the renderer is idle.
func (p *Progressive) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateIdle {
		return fmt.Errorf("%w: renderer is %s", ErrAlreadyStarted, p.state)
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.state = StateRendering

	workers := p.config.NumWorkers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	p.logger.Noticef("Starting progressive rendering at %dx%d with %d tiles and %d workers",
		p.config.Width, p.config.Height, len(p.tiles), workers)

	go p.loop(ctx)
	return nil
}

// Stop cancels rendering and waits for the loop to exit.
// The pass in flight is discarded. Stopping an idle renderer prevents it from starting.
func (p *Progressive) Stop() {
	p.mu.Lock()
	switch p.state {
	case StateIdle:
		p.state = StateStopped
		close(p.done)
		p.mu.Unlock()
		return
	case StateRendering:
		cancel := p.cancel
		p.mu.Unlock()
		cancel()
	default:
		p.mu.Unlock()
	}
	<-p.done
}

func (p *Progressive) loop(ctx context.Context) {
	var err error
	for p.config.MaxPasses == 0 || p.CurrentFrame().Pass < p.config.MaxPasses {
		if _, err = p.RenderPass(ctx); err != nil {
			break
		}
	}

	p.mu.Lock()
	p.cancel()
	p.state = StateStopped
	p.err = err
	p.mu.Unlock()

	frame := p.CurrentFrame()
	if err != nil && !errors.Is(err, context.Canceled) {
		p.logger.Errorf("Rendering failed after %d passes: %v", frame.Pass, err)
	} else {
		p.logger.Noticef("Rendering stopped after %d passes (%v)", frame.Pass, frame.Stats.TotalTime)
	}

	close(p.done)
}

// RenderPass renders one sample for every pixel, folds it into the accumulation
// buffer and publishes the resulting frame. A cancelled pass leaves no trace.
func (p *Progressive) RenderPass(ctx context.Context) (*Frame, error) {
	p.renderMu.Lock()
	defer p.renderMu.Unlock()

	startTime := time.Now()

	result, err := p.renderTiles(ctx)
	if err != nil {
		return nil, err
	}

	p.accum.AddPass(p.passBuf)

	passTime := time.Since(startTime)
	p.stats.Pass++
	p.stats.Samples = p.accum.Samples()
	p.stats.PassTime = passTime
	p.stats.TotalTime += passTime
	p.stats.RaysTraced += int64(result.Rays)
	p.stats.NonFinite += int64(result.NonFinite)

	if result.NonFinite > 0 {
		p.logger.Warningf("Pass %d: %d non-finite samples replaced with black", p.stats.Pass, result.NonFinite)
	}

	frame := &Frame{
		Image:   p.accum.Image(),
		Samples: p.accum.Samples(),
		Pass:    p.stats.Pass,
		Stats:   p.stats,
	}
	p.publish(frame)

	p.logger.Debugf("Pass %d completed in %v (%d samples/pixel)", frame.Pass, passTime, frame.Samples)
	return frame, nil
}

// renderTiles fills passBuf with one sample per pixel
func (p *Progressive) renderTiles(ctx context.Context) (TileResult, error) {
	var total TileResult

	render := func(task TileTask) TileResult {
		result := p.renderTile(ctx, task.Tile)
		result.TaskID = task.TaskID
		return result
	}

	workers := p.config.NumWorkers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	if workers == 1 {
		for i, tile := range p.tiles {
			result := render(TileTask{Tile: tile, TaskID: i})
			if result.Error != nil {
				return total, result.Error
			}
			total.Rays += result.Rays
			total.NonFinite += result.NonFinite
		}
		return total, nil
	}

	pool := NewWorkerPool(workers, len(p.tiles), render)
	pool.Start()
	for i, tile := range p.tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}

	// Collect every result so no worker is still writing when we return
	var firstErr error
	for range p.tiles {
		result, ok := pool.GetResult()
		if !ok {
			firstErr = errors.New("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
		total.Rays += result.Rays
		total.NonFinite += result.NonFinite
	}
	pool.Stop()

	return total, firstErr
}

// renderTile traces one jittered camera ray per pixel of the tile.
// Cancellation is checked before every pixel.
func (p *Progressive) renderTile(ctx context.Context, tile *Tile) TileResult {
	var result TileResult
	width, height := p.config.Width, p.config.Height

	for j := tile.Bounds.Min.Y; j < tile.Bounds.Max.Y; j++ {
		for i := tile.Bounds.Min.X; i < tile.Bounds.Max.X; i++ {
			select {
			case <-ctx.Done():
				result.Error = ctx.Err()
				return result
			default:
			}

			// Row 0 is the top of the image, while v grows upwards
			u := (float64(i) + tile.Sampler.Get1D()) / float64(width-1)
			v := (float64(height-1-j) + tile.Sampler.Get1D()) / float64(height-1)

			color := p.integrator.RayColor(p.camera.GetRay(u, v), tile.Sampler)
			if !color.IsFinite() {
				result.NonFinite++
				color = core.Vec3{}
			}

			p.passBuf[j*width+i] = color
			result.Rays++
		}
	}

	return result
}

// Subscribe returns a channel that receives each newly published frame and a
// function that cancels the subscription. Slow readers only see the latest frame.
func (p *Progressive) Subscribe() (<-chan *Frame, func()) {
	ch := make(chan *Frame, 1)

	p.mu.Lock()
	p.subscribers[ch] = struct{}{}
	p.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subscribers, ch)
			p.mu.Unlock()
		})
	}
	return ch, unsubscribe
}

func (p *Progressive) publish(frame *Frame) {
	p.frame.Store(frame)

	p.mu.Lock()
	defer p.mu.Unlock()

	for ch := range p.subscribers {
		select {
		case ch <- frame:
		default:
			// Replace the unread frame with the newer one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- frame:
			default:
			}
		}
	}
}
