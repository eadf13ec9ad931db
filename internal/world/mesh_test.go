package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleBlockMesh(t *testing.T) {
	c := NewChunk(0, 0, DefaultDims)
	c.SetBlock(5, 10, 5, BlockTypeStone)

	m := c.GenerateMesh()
	require.Equal(t, 24, m.VertexCount())
	assert.Len(t, m.Indices, 36)
	assert.Len(t, m.Normals, 24)
	assert.Len(t, m.Colors, 24)
	assert.Equal(t, 6, m.QuadCount())

	normals := map[mgl32.Vec3]int{}
	for _, n := range m.Normals {
		normals[n]++
	}
	assert.Equal(t, map[mgl32.Vec3]int{
		{0, 1, 0}: 4, {0, -1, 0}: 4,
		{0, 0, 1}: 4, {0, 0, -1}: 4,
		{1, 0, 0}: 4, {-1, 0, 0}: 4,
	}, normals)

	for _, p := range m.Positions {
		assert.True(t, p.X() >= 5 && p.X() <= 6 && p.Y() >= 10 && p.Y() <= 11 && p.Z() >= 5 && p.Z() <= 6, "%v", p)
	}
}

func TestMeshWorldSpaceOrigin(t *testing.T) {
	c := NewChunk(-2, 3, DefaultDims)
	c.SetBlock(0, 5, 0, BlockTypeDirt)
	m := c.GenerateMesh()

	minP := m.Positions[0]
	for _, p := range m.Positions {
		minP = mgl32.Vec3{min(minP.X(), p.X()), min(minP.Y(), p.Y()), min(minP.Z(), p.Z())}
	}
	assert.Equal(t, mgl32.Vec3{-32, 5, 48}, minP)
}

func TestFloorSuppression(t *testing.T) {
	c := NewChunk(0, 0, DefaultDims)
	c.SetBlock(4, 0, 4, BlockTypeStone)

	assert.False(t, c.IsFaceVisible(4, 0, 4, FaceBottom))
	m := c.GenerateMesh()
	assert.Equal(t, 5, m.QuadCount())
	for _, n := range m.Normals {
		assert.NotEqual(t, mgl32.Vec3{0, -1, 0}, n)
	}
}

func TestTopOfWorldRenders(t *testing.T) {
	c := NewChunk(0, 0, DefaultDims)
	c.SetBlock(4, 63, 4, BlockTypeStone)
	assert.True(t, c.IsFaceVisible(4, 63, 4, FaceTop))
}

func TestChunkBorderFacesAlwaysDrawn(t *testing.T) {
	c := NewChunk(0, 0, DefaultDims)
	c.SetBlock(0, 8, 0, BlockTypeStone)
	c.SetBlock(15, 8, 15, BlockTypeStone)

	assert.True(t, c.IsFaceVisible(0, 8, 0, FaceWest))
	assert.True(t, c.IsFaceVisible(0, 8, 0, FaceSouth))
	assert.True(t, c.IsFaceVisible(15, 8, 15, FaceEast))
	assert.True(t, c.IsFaceVisible(15, 8, 15, FaceNorth))
}

func TestTouchingBlocksHideSharedFaces(t *testing.T) {
	c := NewChunk(0, 0, DefaultDims)
	c.SetBlock(3, 3, 3, BlockTypeStone)
	c.SetBlock(4, 3, 3, BlockTypeStone)

	assert.False(t, c.IsFaceVisible(3, 3, 3, FaceEast))
	assert.False(t, c.IsFaceVisible(4, 3, 3, FaceWest))
	assert.Equal(t, 10, c.GenerateMesh().QuadCount())
}

func TestTransparentNeighbours(t *testing.T) {
	c := NewChunk(0, 0, DefaultDims)
	c.SetBlock(3, 3, 3, BlockTypeStone)
	c.SetBlock(3, 4, 3, BlockTypeLeaves)
	c.SetBlock(3, 2, 3, BlockTypeWater)

	assert.True(t, c.IsFaceVisible(3, 3, 3, FaceTop), "leaves do not hide faces")
	assert.True(t, c.IsFaceVisible(3, 3, 3, FaceBottom), "water does not hide faces")
	assert.False(t, c.IsFaceVisible(3, 2, 3, FaceTop), "stone hides the water top")
	assert.False(t, c.IsFaceVisible(3, 5, 3, FaceTop), "air emits nothing")
}

func TestFaceWindingPointsOutward(t *testing.T) {
	for _, face := range AllFaces {
		c := face.Corners()
		n := c[1].Sub(c[0]).Cross(c[2].Sub(c[0])).Normalize()
		assert.Equal(t, face.Normal(), n, "face %s", face)

		n2 := c[2].Sub(c[0]).Cross(c[3].Sub(c[0])).Normalize()
		assert.Equal(t, face.Normal(), n2, "face %s second triangle", face)
	}
}

func TestFaceHelpers(t *testing.T) {
	for _, face := range AllFaces {
		assert.Equal(t, face, face.Opposite().Opposite())
		assert.Equal(t, face.Normal().Mul(-1), face.Opposite().Normal())
		assert.NotEqual(t, "unknown", face.String())
	}
}

func TestMeshColorsFollowFaces(t *testing.T) {
	c := NewChunk(0, 0, DefaultDims)
	c.SetBlock(2, 2, 2, BlockTypeGrass)
	m := c.GenerateMesh()

	for i, n := range m.Normals {
		switch n {
		case FaceTop.Normal():
			assert.Equal(t, BlockTypeGrass.TopColor(), m.Colors[i])
		case FaceBottom.Normal():
			assert.Equal(t, BlockTypeGrass.Color(), m.Colors[i])
		default:
			assert.Equal(t, BlockTypeGrass.SideColor(), m.Colors[i])
		}
	}
}

func TestMeshIdempotent(t *testing.T) {
	c := Generate(ChunkCoord{X: 1, Z: -1}, NewNoiseField(42), DefaultDims)
	a := c.GenerateMesh()
	b := c.GenerateMesh()
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Interleaved(), b.Interleaved())
	assert.False(t, a.IsEmpty())
}

func TestMeshInterleaved(t *testing.T) {
	c := NewChunk(0, 0, DefaultDims)
	c.SetBlock(1, 1, 1, BlockTypeSand)
	m := c.GenerateMesh()

	buf := m.Interleaved()
	require.Len(t, buf, m.VertexCount()*VertexStride)
	assert.Equal(t, []float32{
		m.Positions[0][0], m.Positions[0][1], m.Positions[0][2],
		m.Normals[0][0], m.Normals[0][1], m.Normals[0][2],
	}, buf[:VertexStride])
}

func TestEmptyChunkMesh(t *testing.T) {
	m := NewChunk(0, 0, DefaultDims).GenerateMesh()
	assert.True(t, m.IsEmpty())
	assert.Zero(t, m.VertexCount())
}

func BenchmarkGenerateMesh(b *testing.B) {
	c := Generate(ChunkCoord{}, NewNoiseField(42), DefaultDims)
	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		_ = c.GenerateMesh()
	}
}
