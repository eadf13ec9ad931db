package world

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ChunkCoord addresses a chunk column. The world is one chunk tall, so there is no Y.
type ChunkCoord struct {
	X, Z int
}

// ChebyshevDistance returns max(|dx|, |dz|) between two chunk coordinates.
func (c ChunkCoord) ChebyshevDistance(o ChunkCoord) int {
	return max(abs(c.X-o.X), abs(c.Z-o.Z))
}

// DistanceSq returns the squared Euclidean distance in chunk units.
func (c ChunkCoord) DistanceSq(o ChunkCoord) int {
	dx, dz := c.X-o.X, c.Z-o.Z
	return dx*dx + dz*dz
}

func compareCoords(a, b ChunkCoord) int {
	if a.X != b.X {
		return cmp.Compare(a.X, b.X)
	}
	return cmp.Compare(a.Z, b.Z)
}

// StreamSettings are the streaming scalars owned by the store.
type StreamSettings struct {
	RenderDistance int // chunk radius, Chebyshev
	ChunksPerTick  int // generation budget
}

// DefaultStreamSettings are used when nothing else is configured.
var DefaultStreamSettings = StreamSettings{RenderDistance: 6, ChunksPerTick: 4}

// Validate rejects settings the streamer cannot run with.
func (s StreamSettings) Validate() error {
	var errs []error
	if s.RenderDistance <= 0 {
		errs = append(errs, fmt.Errorf("render distance must be positive, got %d", s.RenderDistance))
	}
	if s.ChunksPerTick <= 0 {
		errs = append(errs, fmt.Errorf("chunks per tick must be positive, got %d", s.ChunksPerTick))
	}
	return errors.Join(errs...)
}

// Entry is the arena record for one loaded chunk: its voxels and the mesh
// last built from them.
type Entry struct {
	Chunk       *Chunk
	Mesh        *Mesh
	MeshVersion uint64 // bumped on every mesh replacement
}

// ChunkWithCoord pairs a chunk with its coordinate.
type ChunkWithCoord struct {
	Chunk *Chunk
	Coord ChunkCoord
}

// ChunkStore is the authoritative chunk index. Only the streamer inserts or
// removes entries; everything else reads.
type ChunkStore struct {
	dims     Dims
	field    *NoiseField
	settings StreamSettings

	chunks   map[ChunkCoord]*Entry
	mu       sync.RWMutex
	modCount uint64 // Increases on any chunk add/remove
}

// NewChunkStore creates an empty store. Invalid dimensions or settings fail here,
// never mid-simulation.
func NewChunkStore(dims Dims, field *NoiseField, settings StreamSettings) (*ChunkStore, error) {
	if err := errors.Join(dims.Validate(), settings.Validate()); err != nil {
		return nil, fmt.Errorf("chunk store: %w", err)
	}
	if field == nil {
		return nil, errors.New("chunk store: nil noise field")
	}
	return &ChunkStore{
		dims:     dims,
		field:    field,
		settings: settings,
		chunks:   make(map[ChunkCoord]*Entry),
	}, nil
}

// Dims returns the chunk dimensions of this world.
func (cs *ChunkStore) Dims() Dims { return cs.dims }

// Field returns the world noise field.
func (cs *ChunkStore) Field() *NoiseField { return cs.field }

// Settings returns the streaming settings.
func (cs *ChunkStore) Settings() StreamSettings { return cs.settings }

// GetChunk returns the chunk at the specified chunk coordinates, or nil when not loaded.
func (cs *ChunkStore) GetChunk(coord ChunkCoord) *Chunk {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if e, ok := cs.chunks[coord]; ok {
		return e.Chunk
	}
	return nil
}

// GetEntry returns a copy of the arena record for coord.
func (cs *ChunkStore) GetEntry(coord ChunkCoord) (Entry, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	e, ok := cs.chunks[coord]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// HasChunk checks if a chunk is loaded.
func (cs *ChunkStore) HasChunk(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, exists := cs.chunks[coord]
	cs.mu.RUnlock()
	return exists
}

// AddChunk registers a fully generated chunk. Existing entries are kept.
func (cs *ChunkStore) AddChunk(coord ChunkCoord, chunk *Chunk) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.chunks[coord]; ok {
		return false
	}
	cs.chunks[coord] = &Entry{Chunk: chunk}
	cs.modCount++
	return true
}

// RemoveChunk drops the entry for coord and returns it.
func (cs *ChunkStore) RemoveChunk(coord ChunkCoord) (Entry, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	e, ok := cs.chunks[coord]
	if !ok {
		return Entry{}, false
	}
	delete(cs.chunks, coord)
	cs.modCount++
	return *e, true
}

// SetMesh stores a freshly built mesh for a loaded chunk and clears its dirty
// flag. It returns false if the chunk was evicted in the meantime.
func (cs *ChunkStore) SetMesh(coord ChunkCoord, mesh *Mesh) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	e, ok := cs.chunks[coord]
	if !ok {
		return false
	}
	e.Mesh = mesh
	e.MeshVersion++
	e.Chunk.SetClean()
	return true
}

// Len returns the number of loaded chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// Coords returns the loaded coordinates in ascending (X, Z) order.
func (cs *ChunkStore) Coords() []ChunkCoord {
	cs.mu.RLock()
	coords := make([]ChunkCoord, 0, len(cs.chunks))
	for coord := range cs.chunks {
		coords = append(coords, coord)
	}
	cs.mu.RUnlock()
	slices.SortFunc(coords, compareCoords)
	return coords
}

// GetAllChunks returns a slice of all chunks in the world with their coordinates.
func (cs *ChunkStore) GetAllChunks() []ChunkWithCoord {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	chunks := make([]ChunkWithCoord, 0, len(cs.chunks))
	for coord, e := range cs.chunks {
		chunks = append(chunks, ChunkWithCoord{Chunk: e.Chunk, Coord: coord})
	}
	return chunks
}

// DirtyChunks returns the chunks flagged for a mesh rebuild, in coordinate order.
func (cs *ChunkStore) DirtyChunks() []ChunkWithCoord {
	cs.mu.RLock()
	var out []ChunkWithCoord
	for coord, e := range cs.chunks {
		if e.Chunk.IsDirty() {
			out = append(out, ChunkWithCoord{Chunk: e.Chunk, Coord: coord})
		}
	}
	cs.mu.RUnlock()
	slices.SortFunc(out, func(a, b ChunkWithCoord) int { return compareCoords(a.Coord, b.Coord) })
	return out
}

// GetModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) GetModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// EvictFarChunks removes every chunk whose Chebyshev distance from center
// exceeds radius and returns the removed entries in coordinate order.
func (cs *ChunkStore) EvictFarChunks(center ChunkCoord, radius int) []ChunkWithCoord {
	var removed []ChunkWithCoord
	cs.mu.Lock()
	for coord, e := range cs.chunks {
		if coord.ChebyshevDistance(center) > radius {
			delete(cs.chunks, coord)
			cs.modCount++
			removed = append(removed, ChunkWithCoord{Chunk: e.Chunk, Coord: coord})
		}
	}
	cs.mu.Unlock()
	slices.SortFunc(removed, func(a, b ChunkWithCoord) int { return compareCoords(a.Coord, b.Coord) })
	return removed
}

// SetBlock edits the block at world coordinates and marks the owning chunk
// dirty. Edits to unloaded chunks or outside the vertical range are dropped.
func (cs *ChunkStore) SetBlock(x, y, z int, b BlockType) bool {
	coord := cs.ChunkCoordOf(x, z)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	e, ok := cs.chunks[coord]
	if !ok || y < 0 || y >= cs.dims.Height {
		return false
	}
	e.Chunk.SetBlock(mod(x, cs.dims.Size), y, mod(z, cs.dims.Size), b)
	return true
}
