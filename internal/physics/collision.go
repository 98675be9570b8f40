package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type BlockStore interface {
	IsSolid(x, y, z int) bool
}

// MapBlockStore is a sparse set of solid unit blocks.
type MapBlockStore struct {
	solid map[[3]int]bool
}

func NewMapBlockStore() *MapBlockStore {
	return &MapBlockStore{solid: make(map[[3]int]bool)}
}

func (m *MapBlockStore) IsSolid(x, y, z int) bool {
	return m.solid[[3]int{x, y, z}]
}

func (m *MapBlockStore) SetSolid(x, y, z int) {
	m.solid[[3]int{x, y, z}] = true
}

// AddFloor fills the inclusive rectangle [minX,maxX]x[minZ,maxZ] at height y.
func (m *MapBlockStore) AddFloor(minX, maxX, minZ, maxZ, y int) {
	for x := minX; x <= maxX; x++ {
		for z := minZ; z <= maxZ; z++ {
			m.SetSolid(x, y, z)
		}
	}
}

func (m *MapBlockStore) Len() int {
	return len(m.solid)
}

type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// BoxAt returns the box of a body whose feet are centred on pos.
func BoxAt(pos mgl64.Vec3, width, height float64) AABB {
	half := width / 2
	return AABB{
		Min: mgl64.Vec3{pos.X() - half, pos.Y(), pos.Z() - half},
		Max: mgl64.Vec3{pos.X() + half, pos.Y() + height, pos.Z() + half},
	}
}

func (b AABB) Offset(d mgl64.Vec3) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

func (b AABB) Intersects(o AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if b.Min[axis] >= o.Max[axis] || b.Max[axis] <= o.Min[axis] {
			return false
		}
	}
	return true
}

func CollidesWithBlock(box AABB, blockStore BlockStore) bool {
	if blockStore == nil {
		return false
	}

	minX, maxX := floorForMin(box.Min.X()), floorForMax(box.Max.X())
	minY, maxY := floorForMin(box.Min.Y()), floorForMax(box.Max.Y())
	minZ, maxZ := floorForMin(box.Min.Z()), floorForMax(box.Max.Z())

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			for z := minZ; z <= maxZ; z++ {
				if !blockStore.IsSolid(x, y, z) {
					continue
				}
				if box.Intersects(unitBlock(x, y, z)) {
					return true
				}
			}
		}
	}

	return false
}

// ResolveMovement sweeps box by delta one axis at a time (Y, X, Z) and returns
// the displacement actually travelled.
func ResolveMovement(box AABB, delta mgl64.Vec3, blockStore BlockStore) mgl64.Vec3 {
	var moved mgl64.Vec3
	for _, axis := range [3]int{1, 0, 2} {
		moved[axis] = resolveAxis(box, axis, delta[axis], blockStore)
		var step mgl64.Vec3
		step[axis] = moved[axis]
		box = box.Offset(step)
	}
	return moved
}

// resolveAxis clips delta along axis so that box stops flush against the first
// solid block in its path.
func resolveAxis(box AABB, axis int, delta float64, blockStore BlockStore) float64 {
	if blockStore == nil || nearlyZero(delta) {
		return delta
	}

	// The two axes perpendicular to the sweep span the cells to test.
	u, v := (axis+1)%3, (axis+2)%3
	minU, maxU := floorForMin(box.Min[u]), floorForMax(box.Max[u])
	minV, maxV := floorForMin(box.Min[v]), floorForMax(box.Max[v])

	allowed := delta
	var start, end, step int
	if delta > 0 {
		start = int(math.Floor(box.Max[axis]))
		end = int(math.Floor(box.Max[axis] + delta))
		step = 1
	} else {
		start = int(math.Floor(box.Min[axis] - CollisionAxisTolerance))
		end = int(math.Floor(box.Min[axis] + delta))
		step = -1
	}

	for c := start; (step > 0 && c <= end) || (step < 0 && c >= end); c += step {
		for a := minU; a <= maxU; a++ {
			for b := minV; b <= maxV; b++ {
				var cell [3]int
				cell[axis], cell[u], cell[v] = c, a, b
				if !blockStore.IsSolid(cell[0], cell[1], cell[2]) {
					continue
				}
				if delta > 0 {
					if candidate := float64(c) - box.Max[axis]; candidate < allowed {
						allowed = candidate
					}
				} else {
					if candidate := float64(c+1) - box.Min[axis]; candidate > allowed {
						allowed = candidate
					}
				}
			}
		}
	}

	return allowed
}

func unitBlock(x, y, z int) AABB {
	return AABB{
		Min: mgl64.Vec3{float64(x), float64(y), float64(z)},
		Max: mgl64.Vec3{float64(x + 1), float64(y + 1), float64(z + 1)},
	}
}

func floorForMin(v float64) int {
	return int(math.Floor(v + CollisionAxisTolerance))
}

func floorForMax(v float64) int {
	return int(math.Floor(v - CollisionAxisTolerance))
}

func nearlyZero(v float64) bool {
	return math.Abs(v) <= CollisionAxisTolerance
}
