package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func flatWorld() *MapBlockStore {
	store := NewMapBlockStore()
	store.AddFloor(-4, 4, -4, 4, -1)
	return store
}

func TestBodyMoveByFreeSpace(t *testing.T) {
	body := NewBody(NewMapBlockStore(), mgl64.Vec3{0, 10, 0})

	moved := body.MoveBy(mgl64.Vec3{1, -2, 3})

	approxEqual(t, moved.X(), 1, 1e-9, "moved.x")
	approxEqual(t, moved.Y(), -2, 1e-9, "moved.y")
	approxEqual(t, moved.Z(), 3, 1e-9, "moved.z")
	approxEqual(t, body.Position().Y(), 8, 1e-9, "position.y")
}

func TestBodyMoveByLandsFlushOnFloor(t *testing.T) {
	body := NewBody(flatWorld(), mgl64.Vec3{0.5, 0.25, 0.5})

	moved := body.MoveBy(mgl64.Vec3{0, -1, 0})

	approxEqual(t, moved.Y(), -0.25, 1e-9, "moved.y")
	approxEqual(t, body.Position().Y(), 0, 1e-9, "position.y")
	if !body.IsGrounded() {
		t.Fatalf("IsGrounded = false after landing, want true")
	}
}

func TestBodyMoveByStopsAtWall(t *testing.T) {
	store := flatWorld()
	store.SetSolid(1, 0, 0)
	store.SetSolid(1, 1, 0)
	body := NewBody(store, mgl64.Vec3{0.5, 0, 0.5})

	moved := body.MoveBy(mgl64.Vec3{2, 0, 0})

	approxEqual(t, moved.X(), 0.2, 1e-9, "moved.x")
	approxEqual(t, body.Position().X(), 0.7, 1e-9, "position.x")
}

func TestBodyMoveByHitsCeiling(t *testing.T) {
	store := flatWorld()
	store.SetSolid(0, 3, 0)
	body := NewBody(store, mgl64.Vec3{0.5, 0, 0.5})

	moved := body.MoveBy(mgl64.Vec3{0, 5, 0})

	approxEqual(t, moved.Y(), 1.2, 1e-9, "moved.y")
}

func TestBodyMoveByNegativeAxes(t *testing.T) {
	store := flatWorld()
	store.SetSolid(-2, 0, 0)
	store.SetSolid(-1, 0, -2)
	body := NewBody(store, mgl64.Vec3{0.5, 0, 0.5})

	moved := body.MoveBy(mgl64.Vec3{-3, 0, -3})

	approxEqual(t, moved.X(), -1.2, 1e-9, "moved.x")
	approxEqual(t, moved.Z(), -1.2, 1e-9, "moved.z")
}

func TestBodyGroundProbe(t *testing.T) {
	tests := []struct {
		name string
		y    float64
		want bool
	}{
		{"standing", 0, true},
		{"hovering", 0.01, false},
		{"high", 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := NewBody(flatWorld(), mgl64.Vec3{0.5, tt.y, 0.5})
			if got := body.IsGrounded(); got != tt.want {
				t.Fatalf("IsGrounded at y=%v = %t, want %t", tt.y, got, tt.want)
			}
		})
	}
}

func TestBodyGroundRay(t *testing.T) {
	tests := []struct {
		name string
		y    float64
		want bool
	}{
		{"standing", 0, true},
		{"within ray slack", 0.15, true},
		{"beyond ray", 0.3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := NewBody(flatWorld(), mgl64.Vec3{0.5, tt.y, 0.5}, WithGroundRay(DefaultGroundRayLength))
			if got := body.IsGrounded(); got != tt.want {
				t.Fatalf("IsGrounded(ray) at y=%v = %t, want %t", tt.y, got, tt.want)
			}
		})
	}
}

func TestBodyWithoutStoreIsNeverGrounded(t *testing.T) {
	body := NewBody(nil, mgl64.Vec3{})
	if body.IsGrounded() {
		t.Fatalf("IsGrounded with nil store = true, want false")
	}
	moved := body.MoveBy(mgl64.Vec3{0, -1, 0})
	approxEqual(t, moved.Y(), -1, 1e-9, "moved.y")
}

func TestRaycastReportsDistance(t *testing.T) {
	store := NewMapBlockStore()
	store.SetSolid(0, 0, 5)

	hit, ok := Raycast(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 0, 1}, 10, store)
	if !ok {
		t.Fatalf("Raycast missed, want hit")
	}
	if hit.Block != [3]int{0, 0, 5} {
		t.Fatalf("hit block=%v want [0 0 5]", hit.Block)
	}
	approxEqual(t, hit.Distance, 4.5, 1e-9, "distance")

	if _, ok := Raycast(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 0, 1}, 4, store); ok {
		t.Fatalf("Raycast beyond maxDist hit, want miss")
	}
	if _, ok := Raycast(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{}, 10, store); ok {
		t.Fatalf("Raycast with zero direction hit, want miss")
	}
}

func TestBodyOverlapping(t *testing.T) {
	body := NewBody(flatWorld(), mgl64.Vec3{0.5, 0, 0.5})
	pad := TriggerVolume{
		Name: "pad",
		Kind: TriggerBounce,
		Box:  AABB{Min: mgl64.Vec3{0, -0.1, 0}, Max: mgl64.Vec3{1, 0.1, 1}},
	}
	far := TriggerVolume{
		Name: "far",
		Kind: TriggerCheckpoint,
		Box:  AABB{Min: mgl64.Vec3{5, 0, 5}, Max: mgl64.Vec3{6, 1, 6}},
	}

	got := body.Overlapping([]TriggerVolume{pad, far})
	if len(got) != 1 || got[0].Name != "pad" {
		t.Fatalf("Overlapping=%v want [pad]", got)
	}
}
