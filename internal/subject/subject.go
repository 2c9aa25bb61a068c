package subject

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ivlev/camsweep/internal/config"
)

// ErrUnsupportedDataset is returned for datasets the sweep cannot render.
var ErrUnsupportedDataset = errors.New("unsupported dataset")

// Kind tags a Subject variant.
type Kind int

const (
	KindVolume Kind = iota + 1
	KindStreamlines
	KindParticles
)

func (k Kind) String() string {
	switch k {
	case KindVolume:
		return "volume"
	case KindStreamlines:
		return "streamlines"
	case KindParticles:
		return "particles"
	default:
		return "unknown"
	}
}

// Subject is the renderable dataset. It is one of *Volume, *Streamlines or *Particles.
type Subject interface {
	Kind() Kind
	Filename() string
	// Surface reports whether the subject has a material that takes a specular coefficient.
	Surface() bool
}

// Volume is a single-variable or variable-less scalar volume.
type Volume struct {
	File               string
	Variable           string
	ColorMap           []float64
	OpacityMap         []float64
	OpacityAttenuation float64
	Isosurfaces        []float64
}

func (v *Volume) Kind() Kind       { return KindVolume }
func (v *Volume) Filename() string { return v.File }

// Surface is true when the volume is rendered as isosurfaces rather than directly.
func (v *Volume) Surface() bool { return len(v.Isosurfaces) > 0 }

// Streamlines is a set of integrated field lines.
type Streamlines struct {
	File string
}

func (s *Streamlines) Kind() Kind       { return KindStreamlines }
func (s *Streamlines) Filename() string { return s.File }
func (s *Streamlines) Surface() bool    { return true }

// Magnetic reports whether the lines come from a magnetic-field dataset.
// Those are framed by centering; other streamlines get an explicit view.
func (s *Streamlines) Magnetic() bool {
	return strings.Contains(s.File, "bfield")
}

// Particles is a point set.
type Particles struct {
	File string
}

func (p *Particles) Kind() Kind       { return KindParticles }
func (p *Particles) Filename() string { return p.File }
func (p *Particles) Surface() bool    { return true }

var extensionKinds = map[string]Kind{
	".raw":         KindVolume,
	".bin":         KindVolume,
	".nc":          KindVolume,
	".vol":         KindVolume,
	".sl":          KindStreamlines,
	".streamlines": KindStreamlines,
	".xyz":         KindParticles,
	".particles":   KindParticles,
}

// Classify decides the dataset kind of a scene: the explicit dataType when present,
// the data file extension otherwise.
func Classify(sc *config.Scene) (Kind, error) {
	if t := strings.ToLower(strings.TrimSpace(sc.DataType)); t != "" {
		switch t {
		case "volume":
			return KindVolume, nil
		case "streamlines":
			return KindStreamlines, nil
		case "particles":
			return KindParticles, nil
		}
		return 0, fmt.Errorf("%w: data type %q", ErrUnsupportedDataset, sc.DataType)
	}

	ext := strings.ToLower(filepath.Ext(sc.DataFilename))
	if k, ok := extensionKinds[ext]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: cannot classify %q", ErrUnsupportedDataset, sc.DataFilename)
}

// FromScene builds the subject variant a scene describes.
// Time series are rejected: only single volumes are supported.
func FromScene(sc *config.Scene) (Subject, error) {
	if len(sc.Timeseries) > 0 {
		return nil, fmt.Errorf("%w: time series (%d files)", ErrUnsupportedDataset, len(sc.Timeseries))
	}

	kind, err := Classify(sc)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindVolume:
		return &Volume{
			File:               sc.DataFilename,
			Variable:           sc.DataVariable,
			ColorMap:           sc.ColorMap,
			OpacityMap:         sc.OpacityMap,
			OpacityAttenuation: sc.OpacityAttenuation,
			Isosurfaces:        sc.IsosurfaceValues,
		}, nil
	case KindStreamlines:
		return &Streamlines{File: sc.DataFilename}, nil
	case KindParticles:
		return &Particles{File: sc.DataFilename}, nil
	}

	return nil, fmt.Errorf("%w: kind %v", ErrUnsupportedDataset, kind)
}
