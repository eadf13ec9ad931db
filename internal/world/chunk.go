package world

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Default chunk dimensions
	DefaultChunkSize   = 16
	DefaultChunkHeight = 64

	// Section dimensions
	SectionHeight = 16
)

// Dims describes the horizontal size and vertical height of every chunk in a world.
type Dims struct {
	Size   int
	Height int
}

// DefaultDims are the dimensions used when nothing else is configured.
var DefaultDims = Dims{Size: DefaultChunkSize, Height: DefaultChunkHeight}

// Validate rejects non-positive dimensions.
func (d Dims) Validate() error {
	var errs []error
	if d.Size <= 0 {
		errs = append(errs, fmt.Errorf("chunk size must be positive, got %d", d.Size))
	}
	if d.Height <= 0 {
		errs = append(errs, fmt.Errorf("chunk height must be positive, got %d", d.Height))
	}
	return errors.Join(errs...)
}

// Volume returns the number of voxels in one chunk.
func (d Dims) Volume() int { return d.Size * d.Height * d.Size }

func (d Dims) numSections() int {
	return (d.Height + SectionHeight - 1) / SectionHeight
}

func (d Dims) sectionVolume() int {
	return d.Size * SectionHeight * d.Size
}

// Section represents a Size x 16 x Size slab of a chunk. Its block slice is
// allocated on the first non-air write.
type Section struct {
	blocks []BlockType
	count  int // non-air blocks
}

// Chunk is a Size x Height x Size column of voxels at chunk coordinate (X, Z).
// The world is not chunked vertically.
type Chunk struct {
	X, Z     int
	dims     Dims
	sections []*Section
	dirty    bool
}

// NewChunk creates an empty chunk at the specified chunk coordinates
func NewChunk(x, z int, dims Dims) *Chunk {
	return &Chunk{
		X:        x,
		Z:        z,
		dims:     dims,
		sections: make([]*Section, dims.numSections()),
	}
}

// Coord returns the chunk coordinate.
func (c *Chunk) Coord() ChunkCoord { return ChunkCoord{X: c.X, Z: c.Z} }

// Dims returns the chunk dimensions.
func (c *Chunk) Dims() Dims { return c.dims }

// Origin returns the world-space position of local voxel (0,0,0).
func (c *Chunk) Origin() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X * c.dims.Size), 0, float32(c.Z * c.dims.Size)}
}

// InBounds reports whether local coordinates address a voxel of this chunk.
func (c *Chunk) InBounds(x, y, z int) bool {
	return x >= 0 && x < c.dims.Size && y >= 0 && y < c.dims.Height && z >= 0 && z < c.dims.Size
}

// indexInSection converts local section coordinates (x, localY, z) → flat index
func (c *Chunk) indexInSection(x, localY, z int) int {
	return x*SectionHeight*c.dims.Size + localY*c.dims.Size + z
}

// GetBlock returns the block type at the specified local coordinates.
// Out-of-bounds reads return air.
func (c *Chunk) GetBlock(x, y, z int) BlockType {
	if !c.InBounds(x, y, z) {
		return BlockTypeAir
	}

	sec := c.sections[y/SectionHeight]
	if sec == nil || sec.blocks == nil {
		return BlockTypeAir
	}
	return sec.blocks[c.indexInSection(x, y%SectionHeight, z)]
}

// SetBlock sets the block type at the specified local coordinates.
// Out-of-bounds writes are ignored.
func (c *Chunk) SetBlock(x, y, z int, blockType BlockType) {
	if !c.InBounds(x, y, z) {
		return
	}

	secIdx := y / SectionHeight
	idx := c.indexInSection(x, y%SectionHeight, z)
	sec := c.sections[secIdx]

	if blockType == BlockTypeAir {
		if sec == nil || sec.blocks == nil || sec.blocks[idx] == BlockTypeAir {
			return
		}
		sec.blocks[idx] = BlockTypeAir
		sec.count--
		c.dirty = true
		if sec.count == 0 {
			c.sections[secIdx] = nil
		}
		return
	}

	// non-air block: allocate the section lazily
	if sec == nil {
		sec = &Section{blocks: make([]BlockType, c.dims.sectionVolume())}
		c.sections[secIdx] = sec
	}

	old := sec.blocks[idx]
	if old == blockType {
		return
	}
	if old == BlockTypeAir {
		sec.count++
	}
	sec.blocks[idx] = blockType
	c.dirty = true
}

// IsAir checks if the block at the specified local coordinates is air
func (c *Chunk) IsAir(x, y, z int) bool {
	return c.GetBlock(x, y, z) == BlockTypeAir
}

// IsDirty returns whether the chunk has been modified since its mesh was last built
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// MarkDirty flags the chunk for a mesh rebuild.
func (c *Chunk) MarkDirty() {
	c.dirty = true
}

// SetClean marks the chunk as clean (not modified)
func (c *Chunk) SetClean() {
	c.dirty = false
}

// CountNonAir returns the number of non-air voxels.
func (c *Chunk) CountNonAir() int {
	n := 0
	for _, sec := range c.sections {
		if sec != nil {
			n += sec.count
		}
	}
	return n
}

// Equal reports whether two chunks have identical coordinates, dimensions and contents.
func (c *Chunk) Equal(o *Chunk) bool {
	if c.X != o.X || c.Z != o.Z || c.dims != o.dims {
		return false
	}
	for x := 0; x < c.dims.Size; x++ {
		for y := 0; y < c.dims.Height; y++ {
			for z := 0; z < c.dims.Size; z++ {
				if c.GetBlock(x, y, z) != o.GetBlock(x, y, z) {
					return false
				}
			}
		}
	}
	return true
}
