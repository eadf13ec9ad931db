package game

import (
	"context"
	"fmt"
	"log/slog"

	"mini-voxel/internal/config"
	"mini-voxel/internal/meshing"
	"mini-voxel/internal/metrics"
	"mini-voxel/internal/physics"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Session owns one running world and drives it tick by tick:
// streaming (write phase), then mesh rebuild, then the targeting raycast.
type Session struct {
	Config    *config.Config
	Store     *world.ChunkStore
	Generator world.TerrainGenerator
	Streamer  *world.ChunkStreamer
	Mesher    *meshing.Rebuilder

	// Target is the block under the crosshair after the last tick.
	Target physics.RaycastResult
	Ticks  uint64

	sink    world.MeshSink
	metrics *metrics.Collector
	log     *slog.Logger
}

// TickStats summarises one Session tick.
type TickStats struct {
	Tick   uint64
	Stream world.StreamStats
	Meshed int
	Target physics.RaycastResult
}

// Option customises a Session.
type Option func(*Session)

// WithGenerator replaces the layered-noise generator.
func WithGenerator(gen world.TerrainGenerator) Option {
	return func(s *Session) { s.Generator = gen }
}

// WithMeshSink sets the rendering collaborator.
func WithMeshSink(sink world.MeshSink) Option {
	return func(s *Session) { s.sink = sink }
}

// WithMetrics attaches Prometheus collectors to streaming and meshing.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Session) { s.metrics = m }
}

// NewSession validates cfg and builds the world pipeline. Configuration
// errors are returned here and never surface mid-simulation.
func NewSession(cfg *config.Config, log *slog.Logger, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	field := world.NewNoiseField(cfg.World.Seed)
	store, err := world.NewChunkStore(cfg.Dims(), field, cfg.StreamSettings())
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	s := &Session{
		Config: cfg,
		Store:  store,
		log:    log.With("component", "session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Generator == nil {
		s.Generator = world.NewGenerator(field)
	}

	s.Streamer = world.NewChunkStreamer(store, s.Generator, log)
	s.Mesher = meshing.NewRebuilder(store, cfg.Runtime.MeshWorkers, log)
	if s.sink != nil {
		s.Streamer.SetMeshSink(s.sink)
		s.Mesher.SetMeshSink(s.sink)
	}
	if s.metrics != nil {
		s.Streamer.SetObserver(s.metrics)
		s.Mesher.SetObserver(s.metrics)
	}

	s.log.Info("session ready",
		"seed", cfg.World.Seed,
		"chunk_size", cfg.World.ChunkSize,
		"chunk_height", cfg.World.ChunkHeight,
		"render_distance", cfg.Streaming.RenderDistance,
		"chunks_per_tick", cfg.Streaming.ChunksPerTick,
		"mesh_workers", s.Mesher.Workers(),
	)
	return s, nil
}

// SpawnPoint returns the eye position above the world origin column.
func (s *Session) SpawnPoint() mgl32.Vec3 {
	return physics.SpawnPosition(s.Generator, 0, 0)
}

// Warmup loads and meshes the full window around viewpoint, ignoring the
// per-tick budget, so the spawn area exists before the first tick.
func (s *Session) Warmup(ctx context.Context, viewpoint mgl32.Vec3) error {
	generated := s.Streamer.StreamAroundSync(viewpoint)
	meshed, err := s.Mesher.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("warmup: %w", err)
	}
	s.log.Info("warmup done", "generated", generated, "meshed", meshed)
	return nil
}

// Tick advances the world one step for a viewer at viewpoint looking along look.
func (s *Session) Tick(ctx context.Context, viewpoint, look mgl32.Vec3) (TickStats, error) {
	profiling.ResetTick()
	s.Ticks++

	stream := s.Streamer.Tick(viewpoint)
	meshed, err := s.Mesher.Rebuild(ctx)
	if err != nil {
		return TickStats{}, err
	}
	s.Target = physics.Raycast(viewpoint, look, s.Config.Targeting.Reach, s.Store)

	stats := TickStats{Tick: s.Ticks, Stream: stream, Meshed: meshed, Target: s.Target}
	if len(stream.Generated) > 0 || meshed > 0 {
		s.log.Debug("tick",
			"tick", s.Ticks,
			"center", stream.Center,
			"generated", len(stream.Generated),
			"evicted", len(stream.Evicted),
			"pending", stream.Pending,
			"loaded", stream.Loaded,
			"meshed", meshed,
			"phases", profiling.TopN(3),
		)
	}
	return stats, nil
}

// BlockAt answers the movement collaborator's solidity queries.
func (s *Session) BlockAt(pos mgl32.Vec3) world.BlockType {
	return s.Store.BlockAt(pos)
}
