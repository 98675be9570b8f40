// Package settings reads persisted user preferences such as mouse sensitivity.
// The controller never writes these values.
package settings

const (
	HorizontalMouseSensitivity = "HorizontalMouseSensitivity"
	VerticalMouseSensitivity   = "VerticalMouseSensitivity"

	defaultMultiplier = 1.0
)

// Store is a read-only key/value view over persisted float settings.
type Store interface {
	Float(key string) (float64, bool)
}

// Snapshot holds the sensitivity multipliers used for one frame.
type Snapshot struct {
	Horizontal float64
	Vertical   float64
}

func Defaults() Snapshot {
	return Snapshot{Horizontal: defaultMultiplier, Vertical: defaultMultiplier}
}

// Read resolves a Snapshot from store. Absent keys and a nil store yield 1.0.
func Read(store Store) Snapshot {
	snap := Defaults()
	if store == nil {
		return snap
	}
	if v, ok := store.Float(HorizontalMouseSensitivity); ok {
		snap.Horizontal = v
	}
	if v, ok := store.Float(VerticalMouseSensitivity); ok {
		snap.Vertical = v
	}
	return snap
}

// Map is an in-memory Store.
type Map map[string]float64

func (m Map) Float(key string) (float64, bool) {
	v, ok := m[key]
	return v, ok
}
