package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is number of float32 per interleaved vertex (pos.xyz + normal.xyz)
const VertexStride = 6

// Mesh is the triangle-list description of a chunk handed to the renderer.
// Positions are in world space; every quad contributes 4 vertices and 6 indices.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Colors    []mgl32.Vec4
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// QuadCount returns the number of emitted faces.
func (m *Mesh) QuadCount() int { return len(m.Positions) / 4 }

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Indices) == 0 }

// Interleaved returns positions and normals packed as pos.xyz+normal.xyz per vertex.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Positions)*VertexStride)
	for i, p := range m.Positions {
		n := m.Normals[i]
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2])
	}
	return out
}

// Equal reports whether two meshes hold identical buffers.
func (m *Mesh) Equal(o *Mesh) bool {
	if len(m.Positions) != len(o.Positions) || len(m.Indices) != len(o.Indices) ||
		len(m.Normals) != len(o.Normals) || len(m.Colors) != len(o.Colors) {
		return false
	}
	for i := range m.Positions {
		if m.Positions[i] != o.Positions[i] || m.Normals[i] != o.Normals[i] {
			return false
		}
	}
	for i := range m.Colors {
		if m.Colors[i] != o.Colors[i] {
			return false
		}
	}
	for i := range m.Indices {
		if m.Indices[i] != o.Indices[i] {
			return false
		}
	}
	return true
}

// IsFaceVisible decides whether a face of the block at local (x,y,z) is emitted.
//
// Neighbor chunks are never consulted: a face on the horizontal chunk border
// is always drawn. The bottom of the world (y=0) is never drawn.
func (c *Chunk) IsFaceVisible(x, y, z int, face BlockFace) bool {
	if !c.GetBlock(x, y, z).IsSolid() {
		return false
	}
	if face == FaceBottom && y == 0 {
		return false
	}

	dx, dy, dz := face.Offset()
	nx, ny, nz := x+dx, y+dy, z+dz
	if !c.InBounds(nx, ny, nz) {
		return true
	}
	return c.GetBlock(nx, ny, nz).IsTransparent()
}

// GenerateMesh extracts the visible faces of the chunk. Voxels are visited
// in x, y, z order and faces in AllFaces order, so identical contents always
// produce identical buffers.
func (c *Chunk) GenerateMesh() *Mesh {
	m := &Mesh{}
	origin := c.Origin()

	for x := 0; x < c.dims.Size; x++ {
		for y := 0; y < c.dims.Height; y++ {
			// skip empty sections wholesale
			if y%SectionHeight == 0 && c.sections[y/SectionHeight] == nil {
				y += SectionHeight - 1
				continue
			}
			for z := 0; z < c.dims.Size; z++ {
				bt := c.GetBlock(x, y, z)
				if !bt.IsSolid() {
					continue
				}
				base := origin.Add(mgl32.Vec3{float32(x), float32(y), float32(z)})
				for _, face := range AllFaces {
					if !c.IsFaceVisible(x, y, z, face) {
						continue
					}
					m.appendQuad(base, face, bt.FaceColor(face))
				}
			}
		}
	}
	return m
}

func (m *Mesh) appendQuad(base mgl32.Vec3, face BlockFace, color mgl32.Vec4) {
	start := uint32(len(m.Positions))
	normal := face.Normal()
	for _, corner := range face.Corners() {
		m.Positions = append(m.Positions, base.Add(corner))
		m.Normals = append(m.Normals, normal)
		m.Colors = append(m.Colors, color)
	}
	m.Indices = append(m.Indices,
		start, start+1, start+2,
		start, start+2, start+3,
	)
}
