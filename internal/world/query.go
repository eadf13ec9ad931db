package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BlockSource is the read-only voxel view used by physics and selection.
type BlockSource interface {
	// Get returns the block at integer world coordinates (air when unknown).
	Get(x, y, z int) BlockType
	// Height returns the vertical extent of the world in blocks.
	Height() int
}

// Height returns the vertical extent of the world.
func (cs *ChunkStore) Height() int { return cs.dims.Height }

// ChunkCoordOf maps a world block column to the chunk that owns it.
func (cs *ChunkStore) ChunkCoordOf(x, z int) ChunkCoord {
	return ChunkCoord{X: floorDiv(x, cs.dims.Size), Z: floorDiv(z, cs.dims.Size)}
}

// ChunkCoordAt maps a world-space position to the chunk that contains it.
func (cs *ChunkStore) ChunkCoordAt(pos mgl32.Vec3) ChunkCoord {
	bx, _, bz := BlockPos(pos)
	return cs.ChunkCoordOf(bx, bz)
}

// Get returns the block type at the specified world coordinates. Unloaded
// chunks and heights outside [0, Height) read as air.
func (cs *ChunkStore) Get(x, y, z int) BlockType {
	if y < 0 || y >= cs.dims.Height {
		return BlockTypeAir
	}
	chunk := cs.GetChunk(cs.ChunkCoordOf(x, z))
	if chunk == nil {
		return BlockTypeAir
	}
	// Euclidean remainder keeps local indices non-negative for negative world coordinates.
	return chunk.GetBlock(mod(x, cs.dims.Size), y, mod(z, cs.dims.Size))
}

// BlockAt returns the block containing a world-space position.
func (cs *ChunkStore) BlockAt(pos mgl32.Vec3) BlockType {
	return cs.Get(BlockPos(pos))
}

// IsAir checks if the block at the specified world coordinates is air.
func (cs *ChunkStore) IsAir(x, y, z int) bool {
	return cs.Get(x, y, z) == BlockTypeAir
}

// IsSolid checks if the block at the specified world coordinates is solid.
func (cs *ChunkStore) IsSolid(x, y, z int) bool {
	return cs.Get(x, y, z).IsSolid()
}

// BlockPos floors a world-space position to integer block coordinates.
func BlockPos(pos mgl32.Vec3) (x, y, z int) {
	return int(math.Floor(float64(pos.X()))),
		int(math.Floor(float64(pos.Y()))),
		int(math.Floor(float64(pos.Z())))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
