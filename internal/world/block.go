package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

type BlockType uint8

const (
	BlockTypeAir BlockType = iota
	BlockTypeGrass
	BlockTypeDirt
	BlockTypeStone
	BlockTypeSand
	BlockTypeWood
	BlockTypeLeaves
	BlockTypeWater

	numBlockTypes
)

// blockDef holds the static attributes of a block type.
type blockDef struct {
	name        string
	solid       bool
	transparent bool
	liquid      bool
	color       mgl32.Vec4
	topColor    mgl32.Vec4
	sideColor   mgl32.Vec4
}

// blockDefs is the voxel catalog, indexed by BlockType. It is never mutated.
var blockDefs = [numBlockTypes]blockDef{
	BlockTypeAir: {
		name:        "air",
		transparent: true,
	},
	BlockTypeGrass: {
		name:      "grass",
		solid:     true,
		color:     mgl32.Vec4{0.2, 0.8, 0.2, 1},
		topColor:  mgl32.Vec4{0.3, 0.7, 0.3, 1},
		sideColor: mgl32.Vec4{0.4, 0.5, 0.2, 1},
	},
	BlockTypeDirt: {
		name:  "dirt",
		solid: true,
		color: mgl32.Vec4{0.45, 0.3, 0.15, 1},
	},
	BlockTypeStone: {
		name:  "stone",
		solid: true,
		color: mgl32.Vec4{0.5, 0.5, 0.5, 1},
	},
	BlockTypeSand: {
		name:  "sand",
		solid: true,
		color: mgl32.Vec4{0.9, 0.85, 0.6, 1},
	},
	BlockTypeWood: {
		name:  "wood",
		solid: true,
		color: mgl32.Vec4{0.35, 0.2, 0.1, 1},
	},
	BlockTypeLeaves: {
		name:        "leaves",
		solid:       true,
		transparent: true,
		color:       mgl32.Vec4{0.1, 0.5, 0.1, 1},
	},
	// Water has geometry, so the mesher treats it as solid. Raycasts skip it.
	BlockTypeWater: {
		name:        "water",
		solid:       true,
		transparent: true,
		liquid:      true,
		color:       mgl32.Vec4{0.0, 0.3, 0.8, 0.8},
		topColor:    mgl32.Vec4{0.1, 0.4, 0.9, 0.8},
	},
}

func (b BlockType) def() *blockDef {
	if b >= numBlockTypes {
		return &blockDefs[BlockTypeAir]
	}
	return &blockDefs[b]
}

// IsSolid reports whether the block occupies space and produces geometry.
func (b BlockType) IsSolid() bool { return b.def().solid }

// IsTransparent reports whether a neighboring face stays visible through this block.
func (b BlockType) IsTransparent() bool { return b.def().transparent }

// IsLiquid reports whether the block is a fluid. Liquids are never raycast targets.
func (b BlockType) IsLiquid() bool { return b.def().liquid }

// String returns the catalog name of the block.
func (b BlockType) String() string {
	if b >= numBlockTypes {
		return "unknown"
	}
	return blockDefs[b].name
}

// Color returns the base RGBA color of the block.
func (b BlockType) Color() mgl32.Vec4 { return b.def().color }

// TopColor returns the color used for the +Y face.
func (b BlockType) TopColor() mgl32.Vec4 {
	d := b.def()
	if d.topColor != (mgl32.Vec4{}) {
		return d.topColor
	}
	return d.color
}

// SideColor returns the color used for the four horizontal faces.
func (b BlockType) SideColor() mgl32.Vec4 {
	d := b.def()
	if d.sideColor != (mgl32.Vec4{}) {
		return d.sideColor
	}
	return d.color
}

// FaceColor picks the color for a given face of the block.
func (b BlockType) FaceColor(face BlockFace) mgl32.Vec4 {
	switch face {
	case FaceTop:
		return b.TopColor()
	case FaceBottom:
		return b.Color()
	default:
		return b.SideColor()
	}
}

// BlockTypes returns every catalog entry in ID order.
func BlockTypes() []BlockType {
	out := make([]BlockType, 0, numBlockTypes)
	for b := BlockTypeAir; b < numBlockTypes; b++ {
		out = append(out, b)
	}
	return out
}

// BlockFace identifies a face of a block
type BlockFace int

const (
	FaceTop BlockFace = iota
	FaceBottom
	FaceNorth // +Z
	FaceSouth // -Z
	FaceEast  // +X
	FaceWest  // -X
)

// AllFaces lists the faces in mesh emission order.
var AllFaces = [6]BlockFace{FaceTop, FaceBottom, FaceNorth, FaceSouth, FaceEast, FaceWest}

var faceOffsets = [6][3]int{
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
	FaceNorth:  {0, 0, 1},
	FaceSouth:  {0, 0, -1},
	FaceEast:   {1, 0, 0},
	FaceWest:   {-1, 0, 0},
}

// faceCorners are the unit-cube corners of each face, wound so that
// triangles (0,1,2) and (0,2,3) face outward.
var faceCorners = [6][4]mgl32.Vec3{
	FaceTop:    {{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	FaceBottom: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	FaceNorth:  {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	FaceSouth:  {{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
	FaceEast:   {{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
	FaceWest:   {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
}

// Offset returns the integer step towards the neighbor across this face.
func (f BlockFace) Offset() (dx, dy, dz int) {
	o := faceOffsets[f]
	return o[0], o[1], o[2]
}

// Normal returns the outward unit normal of the face.
func (f BlockFace) Normal() mgl32.Vec3 {
	o := faceOffsets[f]
	return mgl32.Vec3{float32(o[0]), float32(o[1]), float32(o[2])}
}

// Corners returns the four corners of the face for a unit cube at origin.
func (f BlockFace) Corners() [4]mgl32.Vec3 {
	return faceCorners[f]
}

// Opposite returns the face pointing the other way.
func (f BlockFace) Opposite() BlockFace {
	switch f {
	case FaceTop:
		return FaceBottom
	case FaceBottom:
		return FaceTop
	case FaceNorth:
		return FaceSouth
	case FaceSouth:
		return FaceNorth
	case FaceEast:
		return FaceWest
	default:
		return FaceEast
	}
}

func (f BlockFace) String() string {
	switch f {
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceNorth:
		return "north"
	case FaceSouth:
		return "south"
	case FaceEast:
		return "east"
	case FaceWest:
		return "west"
	default:
		return "unknown"
	}
}
