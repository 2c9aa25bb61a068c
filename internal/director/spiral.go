package director

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/ivlev/camsweep/internal/geom"
)

// ErrInvalidPathSpec is returned for path parameters that cannot produce a sequence.
var ErrInvalidPathSpec = errors.New("invalid path spec")

// PathSpec describes a spiral-out orbit.
type PathSpec struct {
	Start            geom.Vec3 `yaml:"start"`
	MaxDistanceScale float64   `yaml:"max_distance_scale"`
	StepCount        int       `yaml:"step_count"`
	DegreesPerStep   float64   `yaml:"degrees_per_step"`
}

// Validate checks the spec. StepCount-1 is a denominator, so at least two steps are needed.
func (s PathSpec) Validate() error {
	if s.StepCount < 2 {
		return fmt.Errorf("%w: step count %d, need at least 2", ErrInvalidPathSpec, s.StepCount)
	}
	if !(s.MaxDistanceScale > 0) {
		return fmt.Errorf("%w: max distance scale %g must be positive", ErrInvalidPathSpec, s.MaxDistanceScale)
	}
	return nil
}

// SpiralOut orbits the origin in the X-Z plane while receding from it.
// The radius grows from |Start| to |Start|*MaxDistanceScale along an exponential ease.
// A SpiralOut holds no iteration state; every pose is computed from its step index.
type SpiralOut struct {
	spec      PathSpec
	startDist float64
	maxDist   float64
}

// NewSpiralOut validates spec and prepares the path.
func NewSpiralOut(spec PathSpec) (*SpiralOut, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	startDist := spec.Start.Length()
	return &SpiralOut{
		spec:      spec,
		startDist: startDist,
		maxDist:   startDist * spec.MaxDistanceScale,
	}, nil
}

// Spec returns the parameters the path was built from.
func (p *SpiralOut) Spec() PathSpec {
	return p.spec
}

// Len is the number of poses in the path.
func (p *SpiralOut) Len() int {
	return p.spec.StepCount
}

// Progress is the eased fraction along the curve reached while advancing out of step s.
// Progress(0) == 0 and Progress(StepCount-1) == 1.
func (p *SpiralOut) Progress(s int) float64 {
	return ExpEase(float64(s) / float64(p.spec.StepCount-1))
}

// Distance is the orbit radius computed while advancing out of step s.
func (p *SpiralOut) Distance(s int) float64 {
	return p.startDist + p.Progress(s)*(p.maxDist-p.startDist)
}

// Pose returns the camera pose emitted at step s.
// Step 0 is the start position; step s>0 uses the position computed at the end of step s-1:
// the radius from Distance(s-1) and the azimuth DegreesPerStep*s.
func (p *SpiralOut) Pose(s int) geom.Pose {
	if s == 0 {
		return geom.Centered(p.spec.Start)
	}

	dist := p.Distance(s - 1)
	angle := p.spec.DegreesPerStep * float64(s) * math.Pi / 180.0

	return geom.Centered(geom.Vec3{
		X: math.Sin(angle) * dist,
		Y: p.spec.Start.Y,
		Z: math.Cos(angle) * dist,
	})
}

// Poses yields (step, pose) for every step in order. Each call starts over.
func (p *SpiralOut) Poses() iter.Seq2[int, geom.Pose] {
	return func(yield func(int, geom.Pose) bool) {
		for s := 0; s < p.spec.StepCount; s++ {
			if !yield(s, p.Pose(s)) {
				return
			}
		}
	}
}
