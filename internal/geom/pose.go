package geom

// Up is the default camera up-vector.
var Up = Vec3{X: 0, Y: 1, Z: 0}

// Pose is a camera placement for one frame.
type Pose struct {
	Position Vec3 `yaml:"position"`
	Up       Vec3 `yaml:"up"`
	// View is an explicit view target. Nil means "center on the subject".
	View *Vec3 `yaml:"view,omitempty"`
}

// Centered returns a pose at position looking at the subject with the default up-vector.
func Centered(position Vec3) Pose {
	return Pose{Position: position, Up: Up}
}
