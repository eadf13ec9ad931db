package game

import (
	"sync"

	"mini-voxel/internal/world"
)

// MeshCache is an in-memory MeshSink: it holds the latest mesh of every
// loaded chunk, standing in for a GPU-side renderer in headless runs.
type MeshCache struct {
	mu       sync.Mutex
	meshes   map[world.ChunkCoord]*world.Mesh
	uploads  int
	releases int
}

// NewMeshCache creates an empty cache.
func NewMeshCache() *MeshCache {
	return &MeshCache{meshes: make(map[world.ChunkCoord]*world.Mesh)}
}

// UploadMesh replaces the mesh held for coord.
func (m *MeshCache) UploadMesh(coord world.ChunkCoord, mesh *world.Mesh) {
	m.mu.Lock()
	m.meshes[coord] = mesh
	m.uploads++
	m.mu.Unlock()
}

// ReleaseMesh drops the mesh held for coord.
func (m *MeshCache) ReleaseMesh(coord world.ChunkCoord) {
	m.mu.Lock()
	if _, ok := m.meshes[coord]; ok {
		delete(m.meshes, coord)
		m.releases++
	}
	m.mu.Unlock()
}

// Get returns the mesh held for coord.
func (m *MeshCache) Get(coord world.ChunkCoord) (*world.Mesh, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mesh, ok := m.meshes[coord]
	return mesh, ok
}

// Len returns the number of meshes held.
func (m *MeshCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.meshes)
}

// MeshCacheStats is a point-in-time summary of a MeshCache.
type MeshCacheStats struct {
	Meshes   int
	Vertices int
	Indices  int
	Uploads  int
	Releases int
}

// Stats sums the geometry currently held.
func (m *MeshCache) Stats() MeshCacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := MeshCacheStats{Meshes: len(m.meshes), Uploads: m.uploads, Releases: m.releases}
	for _, mesh := range m.meshes {
		st.Vertices += mesh.VertexCount()
		st.Indices += len(mesh.Indices)
	}
	return st
}
