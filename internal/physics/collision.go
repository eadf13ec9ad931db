package physics

import (
	"math"

	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	PlayerHalfWidth = 0.3
	PlayerHeight    = 1.8
	EyeHeight       = 1.6

	// spawnClearance lifts a spawned viewpoint off the surface it stands on.
	spawnClearance = 0.2
)

// Collides reports whether a player box with feet at pos overlaps any solid,
// non-liquid block. Blocks occupy [x, x+1) on every axis.
func Collides(pos mgl32.Vec3, playerHeight float32, src world.BlockSource) bool {
	minX := int(math.Floor(float64(pos.X() - PlayerHalfWidth)))
	maxX := int(math.Floor(float64(pos.X() + PlayerHalfWidth)))
	minY := int(math.Floor(float64(pos.Y())))
	maxY := int(math.Floor(float64(pos.Y() + playerHeight)))
	minZ := int(math.Floor(float64(pos.Z() - PlayerHalfWidth)))
	maxZ := int(math.Floor(float64(pos.Z() + PlayerHalfWidth)))

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				b := src.Get(x, y, z)
				if !b.IsSolid() || b.IsLiquid() {
					continue
				}
				if pos.X()-PlayerHalfWidth < float32(x+1) && pos.X()+PlayerHalfWidth > float32(x) &&
					pos.Y() < float32(y+1) && pos.Y()+playerHeight > float32(y) &&
					pos.Z()-PlayerHalfWidth < float32(z+1) && pos.Z()+PlayerHalfWidth > float32(z) {
					return true
				}
			}
		}
	}
	return false
}

// FindGroundLevel returns the top surface of the highest solid block under
// the player's footprint, searching down from the player's feet. It returns
// 0 when nothing solid is found.
func FindGroundLevel(x, z float32, playerPos mgl32.Vec3, src world.BlockSource) float32 {
	minX := int(math.Floor(float64(x - PlayerHalfWidth)))
	maxX := int(math.Floor(float64(x + PlayerHalfWidth)))
	minZ := int(math.Floor(float64(z - PlayerHalfWidth)))
	maxZ := int(math.Floor(float64(z + PlayerHalfWidth)))

	top := min(int(math.Floor(float64(playerPos.Y()))), src.Height()-1)
	ground := float32(0)
	for bx := minX; bx <= maxX; bx++ {
		for bz := minZ; bz <= maxZ; bz++ {
			for by := top; by >= 0; by-- {
				b := src.Get(bx, by, bz)
				if b.IsSolid() && !b.IsLiquid() {
					ground = max(ground, float32(by+1))
					break
				}
			}
		}
	}
	return ground
}

// SpawnPosition returns an eye position above the column at (x, z): standing
// on the terrain surface, or floating at the water line when submerged.
func SpawnPosition(gen world.TerrainGenerator, x, z int) mgl32.Vec3 {
	// the top block at height h has its upper face at h+1
	surface := max(gen.HeightAt(x, z), world.WaterLevel) + 1
	return mgl32.Vec3{
		float32(x) + 0.5,
		float32(surface) + EyeHeight + spawnClearance,
		float32(z) + 0.5,
	}
}

// StandingEye places a viewer on the loaded terrain under (x, z): feet on the
// highest solid block of the footprint, or at the water line when that is
// higher, then lifted until the body clears overhanging blocks. ok is false
// when no solid ground is loaded under the footprint.
func StandingEye(x, z float32, src world.BlockSource) (eye mgl32.Vec3, ok bool) {
	top := float32(src.Height())
	ground := FindGroundLevel(x, z, mgl32.Vec3{x, top, z}, src)
	if ground == 0 {
		return mgl32.Vec3{}, false
	}
	feet := mgl32.Vec3{x, max(ground, float32(world.WaterLevel+1)), z}
	for feet.Y() < top && Collides(feet, PlayerHeight, src) {
		feet[1] = float32(math.Floor(float64(feet.Y()))) + 1
	}
	return mgl32.Vec3{x, feet.Y() + EyeHeight, z}, true
}
