package meshing

import (
	"context"
	"sync"
	"testing"
	"time"

	"mini-voxel/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu       sync.Mutex
	uploads  []world.ChunkCoord
	released []world.ChunkCoord
}

func (s *recordingSink) UploadMesh(coord world.ChunkCoord, _ *world.Mesh) {
	s.mu.Lock()
	s.uploads = append(s.uploads, coord)
	s.mu.Unlock()
}

func (s *recordingSink) ReleaseMesh(coord world.ChunkCoord) {
	s.mu.Lock()
	s.released = append(s.released, coord)
	s.mu.Unlock()
}

type countingObserver struct {
	quads map[world.ChunkCoord]int
}

func (o *countingObserver) MeshRebuilt(coord world.ChunkCoord, quads int, _ time.Duration) {
	o.quads[coord] = quads
}

func newStore(t *testing.T) *world.ChunkStore {
	t.Helper()
	store, err := world.NewChunkStore(world.DefaultDims, world.NewNoiseField(42), world.DefaultStreamSettings)
	require.NoError(t, err)
	return store
}

// addSingleBlockChunk installs a dirty chunk holding one stone block.
func addSingleBlockChunk(t *testing.T, store *world.ChunkStore, coord world.ChunkCoord) *world.Chunk {
	t.Helper()
	c := world.NewChunk(coord.X, coord.Z, store.Dims())
	c.SetBlock(4, 4, 4, world.BlockTypeStone)
	require.True(t, c.IsDirty())
	require.True(t, store.AddChunk(coord, c))
	return c
}

func TestRebuildInstallsDirtyMeshes(t *testing.T) {
	for _, workers := range []int{1, 4} {
		store := newStore(t)
		coords := []world.ChunkCoord{{X: 1, Z: 0}, {X: -1, Z: 2}, {X: 0, Z: 0}}
		for _, c := range coords {
			addSingleBlockChunk(t, store, c)
		}
		sink := &recordingSink{}
		obs := &countingObserver{quads: make(map[world.ChunkCoord]int)}
		r := NewRebuilder(store, workers, nil)
		r.SetMeshSink(sink)
		r.SetObserver(obs)

		n, err := r.Rebuild(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		// installed in coordinate order regardless of worker count
		assert.Equal(t, []world.ChunkCoord{{X: -1, Z: 2}, {X: 0, Z: 0}, {X: 1, Z: 0}}, sink.uploads)
		assert.Empty(t, store.DirtyChunks())

		for _, c := range coords {
			entry, ok := store.GetEntry(c)
			require.True(t, ok)
			require.NotNil(t, entry.Mesh)
			assert.Equal(t, uint64(1), entry.MeshVersion)
			assert.Equal(t, 24, entry.Mesh.VertexCount())
			assert.Equal(t, 6, obs.quads[c])
		}

		// nothing dirty: no work
		n, err = r.Rebuild(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Len(t, sink.uploads, 3)
	}
}

func TestRebuildAfterEdit(t *testing.T) {
	store := newStore(t)
	coord := world.ChunkCoord{X: 0, Z: 0}
	addSingleBlockChunk(t, store, coord)
	r := NewRebuilder(store, 2, nil)

	_, err := r.Rebuild(context.Background())
	require.NoError(t, err)
	first, _ := store.GetEntry(coord)

	// a touching neighbour hides one face of each block
	require.True(t, store.SetBlock(5, 4, 4, world.BlockTypeStone))
	n, err := r.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	second, _ := store.GetEntry(coord)
	assert.Equal(t, uint64(2), second.MeshVersion)
	assert.Equal(t, 10, second.Mesh.QuadCount())
	assert.False(t, first.Mesh.Equal(second.Mesh))
}

func TestRebuildSkipsEvictedChunks(t *testing.T) {
	store := newStore(t)
	coord := world.ChunkCoord{X: 3, Z: 3}
	addSingleBlockChunk(t, store, coord)
	dirty := store.DirtyChunks()
	require.Len(t, dirty, 1)

	_, ok := store.RemoveChunk(coord)
	require.True(t, ok)
	assert.False(t, store.SetMesh(coord, dirty[0].Chunk.GenerateMesh()))

	n, err := NewRebuilder(store, 1, nil).Rebuild(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRebuildCancelled(t *testing.T) {
	store := newStore(t)
	for x := range 4 {
		addSingleBlockChunk(t, store, world.ChunkCoord{X: x, Z: 0})
	}
	sink := &recordingSink{}
	r := NewRebuilder(store, 2, nil)
	r.SetMeshSink(sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := r.Rebuild(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
	assert.Empty(t, sink.uploads)
	assert.Len(t, store.DirtyChunks(), 4, "a cancelled pass leaves chunks dirty")
}

func TestNewRebuilderDefaultsWorkers(t *testing.T) {
	r := NewRebuilder(newStore(t), 0, nil)
	assert.Positive(t, r.Workers())
}

func BenchmarkRebuildGeneratedChunks(b *testing.B) {
	field := world.NewNoiseField(42)
	store, err := world.NewChunkStore(world.DefaultDims, field, world.DefaultStreamSettings)
	require.NoError(b, err)
	gen := world.NewGenerator(field)
	for x := -1; x <= 1; x++ {
		for z := -1; z <= 1; z++ {
			store.AddChunk(world.ChunkCoord{X: x, Z: z}, gen.Generate(world.ChunkCoord{X: x, Z: z}, store.Dims()))
		}
	}
	r := NewRebuilder(store, 0, nil)
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		for _, e := range store.GetAllChunks() {
			e.Chunk.MarkDirty()
		}
		if _, err := r.Rebuild(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}
