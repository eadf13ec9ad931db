package physics_test

import (
	"testing"

	"mini-voxel/internal/physics"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridSource is a sparse BlockSource for tests.
type gridSource struct {
	height int
	blocks map[[3]int]world.BlockType
}

func newGridSource(height int) *gridSource {
	return &gridSource{height: height, blocks: make(map[[3]int]world.BlockType)}
}

func (g *gridSource) Set(x, y, z int, b world.BlockType) { g.blocks[[3]int{x, y, z}] = b }

func (g *gridSource) Get(x, y, z int) world.BlockType {
	if y < 0 || y >= g.height {
		return world.BlockTypeAir
	}
	return g.blocks[[3]int{x, y, z}]
}

func (g *gridSource) Height() int { return g.height }

func TestRaycastStraightDown(t *testing.T) {
	src := newGridSource(64)
	src.Set(0, 2, 0, world.BlockTypeStone)

	result := physics.Raycast(mgl32.Vec3{0.5, 5.5, 0.5}, mgl32.Vec3{0, -1, 0}, 10, src)

	require.True(t, result.Hit)
	assert.Equal(t, [3]int{0, 2, 0}, result.HitPosition)
	assert.Equal(t, [3]int{0, 3, 0}, result.AdjacentPosition)
	assert.Equal(t, world.FaceTop, result.Face)
	// Distance is where the ray enters the hit block through its top face at
	// y=3, so 2.5. The block center at y=2.5 would be 3.0; that is not what
	// Raycast reports.
	assert.InDelta(t, 2.5, result.Distance, 1e-4)
	assert.NotEqual(t, float32(3), result.Distance)
}

func TestRaycastAlongX(t *testing.T) {
	src := newGridSource(16)
	src.Set(5, 0, 0, world.BlockTypeStone)
	start := mgl32.Vec3{0.5, 0.5, 0.5}

	result := physics.Raycast(start, mgl32.Vec3{1, 0, 0}, 10, src)
	require.True(t, result.Hit)
	assert.Equal(t, [3]int{5, 0, 0}, result.HitPosition)
	assert.Equal(t, [3]int{4, 0, 0}, result.AdjacentPosition)
	assert.Equal(t, world.FaceWest, result.Face)
	assert.InDelta(t, 4.5, result.Distance, 1e-4)

	t.Run("beyond max distance", func(t *testing.T) {
		assert.False(t, physics.Raycast(start, mgl32.Vec3{1, 0, 0}, 4, src).Hit)
	})
	t.Run("wrong direction", func(t *testing.T) {
		assert.False(t, physics.Raycast(start, mgl32.Vec3{-1, 0, 0}, 10, src).Hit)
	})
	t.Run("unnormalized direction", func(t *testing.T) {
		r := physics.Raycast(start, mgl32.Vec3{7, 0, 0}, 10, src)
		require.True(t, r.Hit)
		assert.InDelta(t, 4.5, r.Distance, 1e-4)
	})
}

func TestRaycastDiagonal(t *testing.T) {
	src := newGridSource(16)
	src.Set(2, 2, 2, world.BlockTypeStone)

	result := physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 1, 1}, 10, src)
	require.True(t, result.Hit)
	assert.Equal(t, [3]int{2, 2, 2}, result.HitPosition)
	// (2-0.5) * sqrt(3)
	assert.InDelta(t, 2.598, result.Distance, 1e-3)
	// corner crossings step X, then Y, then Z, so the last one is on Z
	assert.Equal(t, world.FaceSouth, result.Face)
}

func TestRaycastNegativeCoordinates(t *testing.T) {
	src := newGridSource(16)
	src.Set(-3, 4, -1, world.BlockTypeDirt)

	result := physics.Raycast(mgl32.Vec3{-0.5, 4.5, -0.5}, mgl32.Vec3{-1, 0, 0}, 10, src)
	require.True(t, result.Hit)
	assert.Equal(t, [3]int{-3, 4, -1}, result.HitPosition)
	assert.Equal(t, [3]int{-2, 4, -1}, result.AdjacentPosition)
	assert.Equal(t, world.FaceEast, result.Face)
	assert.InDelta(t, 1.5, result.Distance, 1e-4)
}

func TestRaycastSkipsLiquids(t *testing.T) {
	src := newGridSource(16)
	src.Set(0, 4, 0, world.BlockTypeWater)
	src.Set(0, 3, 0, world.BlockTypeWater)
	src.Set(0, 2, 0, world.BlockTypeSand)

	result := physics.Raycast(mgl32.Vec3{0.5, 6.5, 0.5}, mgl32.Vec3{0, -1, 0}, 10, src)
	require.True(t, result.Hit)
	assert.Equal(t, [3]int{0, 2, 0}, result.HitPosition)
	assert.Equal(t, [3]int{0, 3, 0}, result.AdjacentPosition)
}

func TestRaycastDegenerateDirection(t *testing.T) {
	src := newGridSource(16)
	src.Set(0, 0, 0, world.BlockTypeStone)

	assert.False(t, physics.Raycast(mgl32.Vec3{0.5, 1.5, 0.5}, mgl32.Vec3{}, 10, src).Hit)
	assert.False(t, physics.Raycast(mgl32.Vec3{0.5, 1.5, 0.5}, mgl32.Vec3{1e-9, 0, 0}, 10, src).Hit)
}

func TestRaycastLeavesWorldVertically(t *testing.T) {
	src := newGridSource(8)
	src.Set(0, 12, 0, world.BlockTypeStone) // unreachable, above the world

	assert.False(t, physics.Raycast(mgl32.Vec3{0.5, 6.5, 0.5}, mgl32.Vec3{0, 1, 0}, 20, src).Hit)
	assert.False(t, physics.Raycast(mgl32.Vec3{0.5, 1.5, 0.5}, mgl32.Vec3{0, -1, 0}, 20, src).Hit)
}

func TestRaycastFromAboveWorld(t *testing.T) {
	src := newGridSource(8)
	src.Set(0, 3, 0, world.BlockTypeStone)

	result := physics.Raycast(mgl32.Vec3{0.5, 10.5, 0.5}, mgl32.Vec3{0, -1, 0}, 20, src)
	require.True(t, result.Hit)
	assert.Equal(t, [3]int{0, 3, 0}, result.HitPosition)
	assert.InDelta(t, 6.5, result.Distance, 1e-4)
}

func TestRaycastDistanceWithinLimit(t *testing.T) {
	src := newGridSource(32)
	for x := -4; x <= 4; x++ {
		for z := -4; z <= 4; z++ {
			src.Set(x, 10, z, world.BlockTypeStone)
		}
	}
	dirs := []mgl32.Vec3{
		{0, -1, 0}, {0.3, -1, 0.2}, {-0.5, -1, 0.5}, {0.1, -0.4, -0.3},
	}
	for _, dir := range dirs {
		r := physics.Raycast(mgl32.Vec3{0.2, 14.7, 0.9}, dir, physics.MaxReachDistance, src)
		if !r.Hit {
			continue
		}
		assert.GreaterOrEqual(t, r.Distance, float32(0))
		assert.LessOrEqual(t, r.Distance, float32(physics.MaxReachDistance))
		assert.Equal(t, world.FaceTop, r.Face)
		assert.Equal(t, 10, r.HitPosition[1])
	}
}

func BenchmarkRaycast(b *testing.B) {
	src := newGridSource(16)
	for x := range 16 {
		for y := range 16 {
			src.Set(x, y, 5, world.BlockTypeGrass)
		}
	}
	start := mgl32.Vec3{0, 8, 0}
	dir := mgl32.Vec3{0, 0, 1}
	b.ResetTimer()
	for b.Loop() {
		_ = physics.Raycast(start, dir, 10.0, src)
	}
}
