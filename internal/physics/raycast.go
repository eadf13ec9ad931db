package physics

import (
	"math"

	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinReachDistance = 0.0
	MaxReachDistance = 8.0

	// MaxRaycastSteps bounds the traversal regardless of distance.
	MaxRaycastSteps = 1024

	directionEpsilon = 1e-6
)

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int          // the voxel that was hit
	AdjacentPosition [3]int          // the last empty voxel before the hit
	Face             world.BlockFace // face of the hit voxel the ray entered through
	Distance         float32         // ray length at which the hit voxel was entered
	Hit              bool
}

// Raycast walks the voxel grid from start along direction (Amanatides–Woo)
// and returns the first solid, non-liquid voxel entered within maxDist.
// Every cell the ray passes through is visited exactly once, in order.
//
// A miss is returned for a near-zero direction, when the ray leaves the
// vertical extent of the world, when maxDist or MaxRaycastSteps is exceeded.
func Raycast(start, direction mgl32.Vec3, maxDist float32, src world.BlockSource) RaycastResult {
	defer profiling.Track("physics.Raycast")()

	var result RaycastResult
	if direction.Len() < directionEpsilon || maxDist < 0 {
		return result
	}
	dir := direction.Normalize()

	origin := [3]float64{float64(start[0]), float64(start[1]), float64(start[2])}
	d := [3]float64{float64(dir[0]), float64(dir[1]), float64(dir[2])}

	var (
		voxel    [3]int
		step     [3]int
		tDelta   [3]float64
		tMax     [3]float64
		enterFor [3]world.BlockFace
	)
	for i := range 3 {
		voxel[i] = int(math.Floor(origin[i]))
		frac := origin[i] - math.Floor(origin[i])
		switch {
		case d[i] > directionEpsilon:
			step[i] = 1
			tDelta[i] = 1 / d[i]
			tMax[i] = (1 - frac) * tDelta[i]
		case d[i] < -directionEpsilon:
			step[i] = -1
			tDelta[i] = -1 / d[i]
			tMax[i] = frac * tDelta[i]
		default:
			tDelta[i] = math.Inf(1)
			tMax[i] = math.Inf(1)
		}
		tMax[i] = math.Max(tMax[i], 0)
	}
	// Entering a voxel while moving +X means crossing its west face, and so on.
	enterFor[0] = faceFor(step[0], world.FaceWest, world.FaceEast)
	enterFor[1] = faceFor(step[1], world.FaceBottom, world.FaceTop)
	enterFor[2] = faceFor(step[2], world.FaceSouth, world.FaceNorth)

	height := src.Height()
	limit := float64(maxDist)

	for range MaxRaycastSteps {
		// ties resolve X, then Y, then Z
		axis := 2
		if tMax[0] <= tMax[1] && tMax[0] <= tMax[2] {
			axis = 0
		} else if tMax[1] <= tMax[2] {
			axis = 1
		}
		if math.IsInf(tMax[axis], 1) {
			return result
		}

		prev := voxel
		dist := tMax[axis]
		voxel[axis] += step[axis]
		tMax[axis] += tDelta[axis]

		if dist > limit {
			return result
		}
		if voxel[1] < 0 || (voxel[1] >= height && step[1] >= 0) {
			return result
		}

		b := src.Get(voxel[0], voxel[1], voxel[2])
		if b.IsSolid() && !b.IsLiquid() && dist >= MinReachDistance {
			result.HitPosition = voxel
			result.AdjacentPosition = prev
			result.Face = enterFor[axis]
			result.Distance = float32(dist)
			result.Hit = true
			return result
		}
	}
	return result
}

func faceFor(step int, positive, negative world.BlockFace) world.BlockFace {
	if step > 0 {
		return positive
	}
	return negative
}
