package director

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TrajectoryVersion is written into every exported trajectory.
const TrajectoryVersion = "1.0"

// WritePath exports tr as YAML.
func WritePath(tr *Trajectory, path string) error {
	data, err := yaml.Marshal(tr)
	if err != nil {
		return fmt.Errorf("encode trajectory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadPath loads an exported trajectory. The stored spec is validated, so the
// result can be turned back into a path with NewSpiralOut.
func ReadPath(path string) (*Trajectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tr Trajectory
	if err := yaml.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("decode trajectory %s: %w", path, err)
	}
	if tr.Version != TrajectoryVersion {
		return nil, fmt.Errorf("trajectory %s: unsupported version %q", path, tr.Version)
	}
	if err := tr.Spec.Validate(); err != nil {
		return nil, fmt.Errorf("trajectory %s: %w", path, err)
	}

	return &tr, nil
}

// Replay rebuilds the path a trajectory was sampled from.
func (tr *Trajectory) Replay() (*SpiralOut, error) {
	return NewSpiralOut(tr.Spec)
}
