package director

import "github.com/ivlev/camsweep/internal/geom"

// Trajectory is a rendered path written out for inspection or replay.
type Trajectory struct {
	Version string   `yaml:"version"`
	Spec    PathSpec `yaml:"spec"`
	Frames  []Frame  `yaml:"frames"`
}

// Frame is one pose of a trajectory together with its output image.
type Frame struct {
	Step     int       `yaml:"step"`
	Progress float64   `yaml:"progress"` // eased fraction used to compute the next pose
	Image    string    `yaml:"image,omitempty"`
	Pose     geom.Pose `yaml:"pose"`
}

// NewTrajectory samples every pose of p. name maps a step to its image filename and may be nil.
func NewTrajectory(p *SpiralOut, name func(step int) string) *Trajectory {
	tr := &Trajectory{
		Version: TrajectoryVersion,
		Spec:    p.Spec(),
		Frames:  make([]Frame, 0, p.Len()),
	}

	for s, pose := range p.Poses() {
		f := Frame{Step: s, Progress: p.Progress(s), Pose: pose}
		if name != nil {
			f.Image = name(s)
		}
		tr.Frames = append(tr.Frames, f)
	}

	return tr
}
