// Package render implements the parallel pixel/photon scheduler of §4.8: a
// fixed worker pool dispatched through errgroup, shuffled work lists, and
// per-worker deterministic RNG seeding.
package render

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/df07/cg-tracing/pkg/accel"
	"github.com/df07/cg-tracing/pkg/core"
	"github.com/df07/cg-tracing/pkg/integrator"
	"github.com/df07/cg-tracing/pkg/raster"
	"github.com/df07/cg-tracing/pkg/scene"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Scheduler owns the worker-pool sizing shared by PT and SPPM passes.
type Scheduler struct {
	Scene  *scene.Scene
	Logger core.Logger

	// CheckpointDir, when non-empty, receives a
	// test_<round>_<RunID>.png after each SPPM round, matching the
	// source's natural progressive checkpointing. RunID namespaces the
	// files so concurrent or repeated runs against the same directory
	// never collide; it is generated lazily if left unset.
	CheckpointDir string
	RunID         string
}

func (s *Scheduler) runID() string {
	if s.RunID == "" {
		s.RunID = uuid.NewString()
	}
	return s.RunID
}

// threadCount resolves the configured thread count, falling back to
// detected hardware concurrency when unset.
func (s *Scheduler) threadCount() int {
	if s.Scene.ThreadNum > 0 {
		return s.Scene.ThreadNum
	}
	return runtime.NumCPU()
}

func (s *Scheduler) logger() core.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return core.NopLogger{}
}

// progressReporter is a rate-limited, mutex-guarded completion counter
// standing in for the original's `pbr::ProgressBar` (no progress-bar
// library appears anywhere in the retrieval pack's go.mod set, so this
// concern is built directly on the standard library rather than a
// fabricated dependency). Refresh is capped to once per second, same as
// the original's `set_max_refresh_rate(Duration::from_secs(1))`.
type progressReporter struct {
	mu      sync.Mutex
	log     core.Logger
	label   string
	total   int
	done    int
	lastLog time.Time
}

func newProgressReporter(log core.Logger, label string, total int) *progressReporter {
	return &progressReporter{log: log, label: label, total: total, lastLog: time.Now()}
}

// add records n more completed units and logs a percentage line if a second
// has passed since the last log, or this call finishes the total.
func (p *progressReporter) add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done += n
	if p.done >= p.total || time.Since(p.lastLog) >= time.Second {
		p.log.Infof("%s: %d/%d (%.0f%%)", p.label, p.done, p.total, 100*float64(p.done)/float64(p.total))
		p.lastLog = time.Now()
	}
}

type pixelCoord struct{ x, y int }

// shuffledPixels returns every (x, y) in the image in random order -
// shuffling trades image locality for better load balance across workers,
// since adjacent pixels in a scene tend to cost similar amounts of work.
func shuffledPixels(w, h int) []pixelCoord {
	pixels := make([]pixelCoord, 0, w*h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			pixels = append(pixels, pixelCoord{x, y})
		}
	}
	rand.Shuffle(len(pixels), func(i, j int) { pixels[i], pixels[j] = pixels[j], pixels[i] })
	return pixels
}

// Run dispatches to RunPT or RunSPPM according to the scene's configured
// renderer, into a freshly allocated image of the scene's dimensions.
func (s *Scheduler) Run(ctx context.Context) (*raster.Image, error) {
	img := raster.New(s.Scene.Width, s.Scene.Height)
	switch {
	case s.Scene.Renderer.PT != nil:
		if err := s.RunPT(ctx, img); err != nil {
			return nil, err
		}
	case s.Scene.Renderer.SPPM != nil:
		if err := s.RunSPPM(ctx, img); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("render: scene has no renderer configured")
	}
	return img, nil
}

// RunPT renders the image using the path-tracing estimator, writing
// directly into img under the image-level coordinate flip y -> h-y-1
// (world up is +y, image rows grow downward).
func (s *Scheduler) RunPT(ctx context.Context, img *raster.Image) error {
	cfg := s.Scene.Renderer.PT
	w, h := s.Scene.Width, s.Scene.Height
	sample := cfg.Sample / 4
	inv := 1.0 / float64(sample)

	threads := s.threadCount()
	s.logger().Infof("starting path tracing: %dx%d, sample=%d (requested %d), threads=%d",
		w, h, sample*4, cfg.Sample, threads)

	start := time.Now()
	camera := s.Scene.Camera
	frame := camera.NewFrame(w, h)
	pt := &integrator.PathTracer{Scene: s.Scene}

	pixels := shuffledPixels(w, h)
	queue := make(chan pixelCoord)
	progress := newProgressReporter(s.logger(), "path tracing", w*h)

	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case px, ok := <-queue:
					if !ok {
						return nil
					}
					rng := core.NewRNG(uint32(px.y*w + px.x))
					sum := core.Zero
					for sx := 0; sx < 2; sx++ {
						for sy := 0; sy < 2; sy++ {
							c := core.Zero
							for i := 0; i < sample; i++ {
								ray := camera.GenerateRay(frame, px.x, px.y, w, h, sx, sy,
									rng.TentFilter(), rng.TentFilter(), rng.Float64(), rng.Float64(), rng.Float64())
								c = c.Add(pt.Trace(ray, 0, rng).Multiply(inv))
							}
							sum = sum.Add(c.Clamp(0, 1).Multiply(0.25))
						}
					}
					img.Set(px.x, h-px.y-1, sum)
					progress.add(1)
				}
			}
		})
	}

	go func() {
		defer close(queue)
		for _, px := range pixels {
			select {
			case <-gctx.Done():
				return
			case queue <- px:
			}
		}
	}()

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger().Infof("path tracing done in %s", time.Since(start))
	return nil
}

// RunSPPM renders the image using Stochastic Progressive Photon Mapping,
// alternating a view-point pass and a photon pass per round and shrinking
// the gather radius between rounds.
func (s *Scheduler) RunSPPM(ctx context.Context, img *raster.Image) error {
	cfg := s.Scene.Renderer.SPPM
	w, h := s.Scene.Width, s.Scene.Height
	threads := s.threadCount()
	viewSample := cfg.ViewPointSample / 4
	photonPerThread := cfg.PhotonSample

	s.logger().Infof("starting sppm: %dx%d, view_point_sample=%d, photon_sample=%d, rounds=%d, init_radius=%g, threads=%d",
		w, h, cfg.ViewPointSample, cfg.PhotonSample*threads, cfg.Rounds, cfg.Radius, threads)

	start := time.Now()
	camera := s.Scene.Camera
	frame := camera.NewFrame(w, h)
	sppm := &integrator.SPPM{Scene: s.Scene}

	final := make([]integrator.PixelEstimate, w*h)
	radius := cfg.Radius

	for round := 0; round < cfg.Rounds; round++ {
		s.logger().Infof("sppm round %d/%d, radius=%g", round+1, cfg.Rounds, radius)

		points, err := s.collectViewPoints(ctx, sppm, frame, round, viewSample, threads)
		if err != nil {
			return err
		}

		positions := make([]core.Vec3, len(points))
		for i, p := range points {
			positions[i] = p.Pos
		}
		tree := accel.BuildViewPointTree(positions, radius)

		pixels, err := s.walkPhotons(ctx, sppm, tree, points, radius, round, photonPerThread, threads, w*h)
		if err != nil {
			return err
		}

		for i := range final {
			final[i].Add(pixels[i].Color())
		}

		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				img.Set(x, h-y-1, final[y*w+x].Color())
			}
		}
		if s.CheckpointDir != "" {
			path := fmt.Sprintf("%s/test_%d_%s.png", s.CheckpointDir, round, s.runID())
			if err := img.SavePNG(path); err != nil {
				return err
			}
		}

		radius *= cfg.RadiusDecay
	}
	s.logger().Infof("sppm done in %s", time.Since(start))
	return nil
}

func (s *Scheduler) collectViewPoints(ctx context.Context, sppm *integrator.SPPM, frame scene.Frame, round, sample, threads int) ([]integrator.ViewPoint, error) {
	w, h := s.Scene.Width, s.Scene.Height
	camera := s.Scene.Camera
	pixels := shuffledPixels(w, h)
	queue := make(chan pixelCoord)

	var mu sync.Mutex
	var all []integrator.ViewPoint

	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			var local []integrator.ViewPoint
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case px, ok := <-queue:
					if !ok {
						mu.Lock()
						all = append(all, local...)
						mu.Unlock()
						return nil
					}
					index := px.y*w + px.x
					rng := core.NewRNG(uint32(index + round*w*h))
					for sx := 0; sx < 2; sx++ {
						for sy := 0; sy < 2; sy++ {
							for i := 0; i < sample; i++ {
								ray := camera.GenerateRay(frame, px.x, px.y, w, h, sx, sy,
									rng.TentFilter(), rng.TentFilter(), rng.Float64(), rng.Float64(), rng.Float64())
								sppm.CollectViewPoints(ray, 0, rng, core.One.Multiply(0.25), index, &local)
							}
						}
					}
				}
			}
		})
	}

	go func() {
		defer close(queue)
		for _, px := range pixels {
			select {
			case <-gctx.Done():
				return
			case queue <- px:
			}
		}
	}()

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *Scheduler) walkPhotons(ctx context.Context, sppm *integrator.SPPM, tree *accel.ViewPointTree, points []integrator.ViewPoint, radius float64, round, photonPerThread, threads, pixelCount int) ([]integrator.PixelFlux, error) {
	cfg := s.Scene.Renderer.SPPM
	total := make([]integrator.PixelFlux, pixelCount)
	var mu sync.Mutex
	progress := newProgressReporter(s.logger(), fmt.Sprintf("sppm round %d photons", round+1), photonPerThread*threads)

	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < threads; t++ {
		tid := t
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			local := make([]integrator.PixelFlux, pixelCount)
			rng := core.NewRNG(uint32(round*threads + tid))
			// Report in batches of 100, same granularity as the original's
			// pb.lock().unwrap().add(100), with the remainder flushed after
			// the loop rather than locked on every single photon.
			const batch = 100
			for i := 0; i < photonPerThread; i++ {
				ray := integrator.SamplePhotonRay(cfg.LightPos, cfg.LightR, rng)
				sppm.WalkPhoton(ray, 0, rng, tree, points, radius, core.One.Multiply(8), local)
				if (i+1)%batch == 0 {
					progress.add(batch)
				}
			}
			if rem := photonPerThread % batch; rem != 0 {
				progress.add(rem)
			}
			mu.Lock()
			for i := range total {
				total[i].Flux = total[i].Flux.Add(local[i].Flux)
				total[i].Count += local[i].Count
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return total, nil
}
