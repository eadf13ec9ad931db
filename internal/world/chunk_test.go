package world

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hashChunk digests every voxel in x, y, z order.
func hashChunk(c *Chunk) [32]byte {
	h := sha256.New()
	d := c.Dims()
	for x := 0; x < d.Size; x++ {
		for y := 0; y < d.Height; y++ {
			for z := 0; z < d.Size; z++ {
				h.Write([]byte{byte(c.GetBlock(x, y, z))})
			}
		}
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func TestDimsValidate(t *testing.T) {
	assert.NoError(t, DefaultDims.Validate())
	assert.Equal(t, 16*64*16, DefaultDims.Volume())

	err := Dims{Size: 0, Height: -3}.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "size")
	assert.ErrorContains(t, err, "height")
}

func TestNewChunkIsEmptyAndClean(t *testing.T) {
	c := NewChunk(2, -3, DefaultDims)
	assert.Equal(t, ChunkCoord{X: 2, Z: -3}, c.Coord())
	assert.Zero(t, c.CountNonAir())
	assert.False(t, c.IsDirty())
	assert.Equal(t, float32(32), c.Origin().X())
	assert.Equal(t, float32(-48), c.Origin().Z())
}

func TestChunkSetGet(t *testing.T) {
	c := NewChunk(0, 0, DefaultDims)
	c.SetBlock(3, 40, 7, BlockTypeStone)
	assert.Equal(t, BlockTypeStone, c.GetBlock(3, 40, 7))
	assert.True(t, c.IsDirty())
	assert.Equal(t, 1, c.CountNonAir())

	c.SetClean()
	c.SetBlock(3, 40, 7, BlockTypeStone)
	assert.False(t, c.IsDirty(), "rewriting the same kind is not a change")

	c.SetBlock(3, 40, 7, BlockTypeAir)
	assert.True(t, c.IsDirty())
	assert.True(t, c.IsAir(3, 40, 7))
	assert.Zero(t, c.CountNonAir())
	assert.Nil(t, c.sections[40/SectionHeight], "emptied section is released")
}

func TestChunkBoundarySafety(t *testing.T) {
	c := NewChunk(0, 0, DefaultDims)
	c.SetBlock(0, 0, 0, BlockTypeDirt)
	before := hashChunk(c)
	c.SetClean()

	outside := [][3]int{
		{-1, 0, 0}, {16, 0, 0}, {0, -1, 0}, {0, 64, 0}, {0, 0, -1}, {0, 0, 16},
		{100, 100, 100}, {-50, 3, 2},
	}
	for _, p := range outside {
		assert.Equal(t, BlockTypeAir, c.GetBlock(p[0], p[1], p[2]), "get %v", p)
		c.SetBlock(p[0], p[1], p[2], BlockTypeStone)
	}
	assert.Equal(t, before, hashChunk(c))
	assert.False(t, c.IsDirty())
}

func TestChunkNonMultipleHeight(t *testing.T) {
	dims := Dims{Size: 4, Height: 20}
	c := NewChunk(0, 0, dims)
	require.Len(t, c.sections, 2)
	c.SetBlock(1, 19, 2, BlockTypeSand)
	assert.Equal(t, BlockTypeSand, c.GetBlock(1, 19, 2))
	assert.Equal(t, BlockTypeAir, c.GetBlock(1, 20, 2))
}

func TestChunkEqual(t *testing.T) {
	a := NewChunk(1, 1, DefaultDims)
	b := NewChunk(1, 1, DefaultDims)
	assert.True(t, a.Equal(b))

	a.SetBlock(5, 5, 5, BlockTypeWood)
	assert.False(t, a.Equal(b))
	b.SetBlock(5, 5, 5, BlockTypeWood)
	assert.True(t, a.Equal(b))

	assert.False(t, a.Equal(NewChunk(1, 2, DefaultDims)))
}
