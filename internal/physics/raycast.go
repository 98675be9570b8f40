package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type RayHit struct {
	Block    [3]int
	Distance float64
}

// Raycast walks the voxel grid from origin along dir and returns the first
// solid block within maxDist.
func Raycast(origin, dir mgl64.Vec3, maxDist float64, blockStore BlockStore) (RayHit, bool) {
	if blockStore == nil || maxDist < 0 {
		return RayHit{}, false
	}
	if nearlyZero(dir.X()) && nearlyZero(dir.Y()) && nearlyZero(dir.Z()) {
		return RayHit{}, false
	}
	dir = dir.Normalize()

	var cell [3]int
	var step [3]int
	var tMax, tDelta [3]float64
	for axis := 0; axis < 3; axis++ {
		cell[axis] = int(math.Floor(origin[axis]))
		step[axis], tMax[axis], tDelta[axis] = ddaAxis(origin[axis], dir[axis], cell[axis])
	}

	distance := 0.0
	for distance <= maxDist {
		if blockStore.IsSolid(cell[0], cell[1], cell[2]) {
			return RayHit{Block: cell, Distance: distance}, true
		}

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		cell[axis] += step[axis]
		distance = tMax[axis]
		tMax[axis] += tDelta[axis]
	}

	return RayHit{}, false
}

func ddaAxis(origin, dir float64, cell int) (step int, tMax float64, tDelta float64) {
	if nearlyZero(dir) {
		return 0, math.Inf(1), math.Inf(1)
	}
	if dir > 0 {
		step = 1
		tMax = (float64(cell+1) - origin) / dir
		tDelta = 1.0 / dir
		return
	}
	step = -1
	inv := -dir
	tMax = (origin - float64(cell)) / inv
	tDelta = 1.0 / inv
	return
}
