package world

import (
	"log/slog"
	"slices"
	"time"

	"mini-voxel/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshSink is the rendering boundary: it receives every rebuilt chunk mesh
// and is told when a chunk's mesh resources must be dropped.
type MeshSink interface {
	UploadMesh(coord ChunkCoord, mesh *Mesh)
	ReleaseMesh(coord ChunkCoord)
}

// StreamObserver is notified of streaming activity.
type StreamObserver interface {
	ChunkGenerated(coord ChunkCoord, took time.Duration)
	ChunksEvicted(n int)
	StreamTicked(stats StreamStats)
}

// StreamStats summarises one streaming tick.
type StreamStats struct {
	Center    ChunkCoord
	Generated []ChunkCoord
	Evicted   []ChunkCoord
	Pending   int // window coordinates still missing after this tick
	Loaded    int
}

// ChunkStreamer keeps the loaded set converging on the square window around
// the viewpoint: nearest missing chunks first, at most ChunksPerTick per tick.
// It is the only writer of the store's chunk map.
type ChunkStreamer struct {
	store    *ChunkStore
	gen      TerrainGenerator
	sink     MeshSink
	observer StreamObserver
	log      *slog.Logger

	missing []ChunkCoord // scratch, reused across ticks
}

// NewChunkStreamer creates a new chunk streamer.
func NewChunkStreamer(store *ChunkStore, gen TerrainGenerator, log *slog.Logger) *ChunkStreamer {
	if log == nil {
		log = slog.Default()
	}
	return &ChunkStreamer{
		store: store,
		gen:   gen,
		log:   log.With("component", "streamer"),
	}
}

// SetMeshSink sets where evictions release mesh resources.
func (cs *ChunkStreamer) SetMeshSink(sink MeshSink) { cs.sink = sink }

// SetObserver installs a streaming observer (metrics).
func (cs *ChunkStreamer) SetObserver(o StreamObserver) { cs.observer = o }

// Tick runs one budgeted streaming pass around the viewpoint.
func (cs *ChunkStreamer) Tick(viewpoint mgl32.Vec3) StreamStats {
	defer profiling.Track("world.StreamTick")()

	center := cs.store.ChunkCoordAt(viewpoint)
	settings := cs.store.Settings()
	stats := StreamStats{Center: center}

	missing := cs.missingAround(center, settings.RenderDistance)
	budget := min(settings.ChunksPerTick, len(missing))
	for _, coord := range missing[:budget] {
		if cs.generate(coord) {
			stats.Generated = append(stats.Generated, coord)
		}
	}
	stats.Pending = len(missing) - budget

	for _, ev := range cs.store.EvictFarChunks(center, settings.RenderDistance) {
		if cs.sink != nil {
			cs.sink.ReleaseMesh(ev.Coord)
		}
		stats.Evicted = append(stats.Evicted, ev.Coord)
	}
	stats.Loaded = cs.store.Len()

	if len(stats.Evicted) > 0 {
		cs.log.Debug("evicted chunks", "count", len(stats.Evicted), "center", center)
	}
	if cs.observer != nil {
		if len(stats.Evicted) > 0 {
			cs.observer.ChunksEvicted(len(stats.Evicted))
		}
		cs.observer.StreamTicked(stats)
	}
	return stats
}

// StreamAroundSync fills the whole window around the viewpoint, ignoring the
// per-tick budget. Used once at startup so the spawn area exists before the
// first frame.
func (cs *ChunkStreamer) StreamAroundSync(viewpoint mgl32.Vec3) int {
	defer profiling.Track("world.StreamAroundSync")()
	total := 0
	for {
		stats := cs.Tick(viewpoint)
		total += len(stats.Generated)
		if stats.Pending == 0 {
			return total
		}
	}
}

// missingAround lists window coordinates not yet loaded, nearest first.
// Ties are broken by coordinate so the order is fully deterministic.
func (cs *ChunkStreamer) missingAround(center ChunkCoord, radius int) []ChunkCoord {
	cs.missing = cs.missing[:0]
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			coord := ChunkCoord{X: center.X + dx, Z: center.Z + dz}
			if !cs.store.HasChunk(coord) {
				cs.missing = append(cs.missing, coord)
			}
		}
	}
	slices.SortFunc(cs.missing, func(a, b ChunkCoord) int {
		da, db := a.DistanceSq(center), b.DistanceSq(center)
		if da != db {
			return da - db
		}
		return compareCoords(a, b)
	})
	return cs.missing
}

// generate builds and installs a chunk if missing.
func (cs *ChunkStreamer) generate(coord ChunkCoord) bool {
	if cs.store.HasChunk(coord) {
		return false
	}
	start := time.Now()
	chunk := NewChunk(coord.X, coord.Z, cs.store.Dims())
	cs.gen.PopulateChunk(chunk)
	// fully populated before it becomes visible to readers
	if !cs.store.AddChunk(coord, chunk) {
		return false
	}
	if cs.observer != nil {
		cs.observer.ChunkGenerated(coord, time.Since(start))
	}
	return true
}
