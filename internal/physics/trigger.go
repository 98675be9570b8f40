package physics

type TriggerKind string

const (
	TriggerBounce     TriggerKind = "bounce"
	TriggerCheckpoint TriggerKind = "checkpoint"
)

// TriggerVolume is a non-solid region that fires when a body overlaps it.
type TriggerVolume struct {
	Name  string
	Kind  TriggerKind
	Box   AABB
	Force float64
	Held  float64
}

// Overlapping returns the volumes the body currently intersects, in input order.
func (b *Body) Overlapping(volumes []TriggerVolume) []TriggerVolume {
	if len(volumes) == 0 {
		return nil
	}
	box := b.Box()
	var out []TriggerVolume
	for _, v := range volumes {
		if box.Intersects(v.Box) {
			out = append(out, v)
		}
	}
	return out
}
