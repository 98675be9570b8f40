package physics

const (
	GroundProbeDistance    = 0.001
	CollisionAxisTolerance = 1e-9

	// DefaultGroundRayLength is how far below the body centre the ray ground check reaches.
	DefaultGroundRayLength = 1.1

	DefaultBodyWidth  = 0.6
	DefaultBodyHeight = 1.8
)
