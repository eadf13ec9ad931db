package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mini-voxel/internal/config"
	"mini-voxel/internal/game"
	"mini-voxel/internal/metrics"
	"mini-voxel/internal/physics"
	"mini-voxel/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type options struct {
	configPath string
	ticks      int
	speed      float64
	heading    float64
	reportEach int

	cfg *config.Config
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg := opts.cfg

	level, _ := config.ParseLevel(cfg.Runtime.LogLevel)
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// parseFlags loads the config file and applies explicitly set flags over it.
func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("voxelsim", flag.ContinueOnError)
	opts := &options{}
	var (
		seed           = fs.Int64("seed", 0, "world seed")
		renderDistance = fs.Int("render-distance", 0, "chunk radius kept loaded around the viewer")
		chunksPerTick  = fs.Int("chunks-per-tick", 0, "chunk generation budget per tick")
		tickRate       = fs.Int("tick-rate", 0, "ticks per second, 0 runs unpaced")
		logLevel       = fs.String("log-level", "", "debug, info, warn or error")
		metricsAddr    = fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (default $"+config.EnvConfigPath+")")
	fs.IntVar(&opts.ticks, "ticks", 600, "ticks to simulate, 0 runs until interrupted")
	fs.Float64Var(&opts.speed, "speed", 0.25, "viewer speed in blocks per tick")
	fs.Float64Var(&opts.heading, "heading", 30, "viewer heading in degrees from +X toward +Z")
	fs.IntVar(&opts.reportEach, "report-every", 60, "log a summary every N ticks")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.World.Seed = *seed
		case "render-distance":
			cfg.Streaming.RenderDistance = *renderDistance
		case "chunks-per-tick":
			cfg.Streaming.ChunksPerTick = *chunksPerTick
		case "tick-rate":
			cfg.Runtime.TickRate = *tickRate
		case "log-level":
			cfg.Runtime.LogLevel = *logLevel
		case "metrics-addr":
			cfg.Runtime.MetricsAddr = *metricsAddr
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.reportEach <= 0 {
		opts.reportEach = 60
	}
	opts.cfg = cfg
	return opts, nil
}

func run(ctx context.Context, opts *options, log *slog.Logger) error {
	cfg := opts.cfg
	cache := game.NewMeshCache()
	sessionOpts := []game.Option{game.WithMeshSink(cache)}

	if cfg.Runtime.MetricsAddr != "" {
		sessionOpts = append(sessionOpts, game.WithMetrics(metrics.New(prometheus.DefaultRegisterer)))
		srv := serveMetrics(cfg.Runtime.MetricsAddr, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	session, err := game.NewSession(cfg, log, sessionOpts...)
	if err != nil {
		return err
	}

	eye := session.SpawnPoint()
	if err := session.Warmup(ctx, eye); err != nil {
		return err
	}

	heading := opts.heading * math.Pi / 180
	step := mgl32.Vec3{float32(math.Cos(heading)), 0, float32(math.Sin(heading))}.Mul(float32(opts.speed))
	// look ahead and down at the ground in front of the viewer
	look := step.Normalize().Add(mgl32.Vec3{0, -1, 0})

	limiter := game.NewTickLimiter(cfg.Runtime.TickRate)
	started := time.Now()
	for tick := 1; opts.ticks == 0 || tick <= opts.ticks; tick++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		eye = eye.Add(step)
		if standing, ok := physics.StandingEye(eye.X(), eye.Z(), session.Store); ok {
			eye = standing
		} else {
			eye[1] = physics.SpawnPosition(session.Generator, int(math.Floor(float64(eye.X()))), int(math.Floor(float64(eye.Z())))).Y()
		}

		stats, err := session.Tick(ctx, eye, look)
		if err != nil {
			return err
		}
		if tick%opts.reportEach == 0 {
			report(log, stats, cache.Stats())
		}
	}

	log.Info("simulation finished",
		"ticks", session.Ticks,
		"elapsed", time.Since(started).Round(time.Millisecond),
		"loaded", session.Store.Len(),
	)
	return nil
}

func report(log *slog.Logger, stats game.TickStats, meshes game.MeshCacheStats) {
	attrs := []any{
		"tick", stats.Tick,
		"center", stats.Stream.Center,
		"loaded", stats.Stream.Loaded,
		"pending", stats.Stream.Pending,
		"meshes", meshes.Meshes,
		"vertices", meshes.Vertices,
		"phases", profiling.TopN(3),
	}
	if stats.Target.Hit {
		attrs = append(attrs, "target", stats.Target.HitPosition, "face", stats.Target.Face)
	}
	log.Info("tick report", attrs...)
}

func serveMetrics(addr string, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", "error", err)
		}
	}()
	return srv
}
