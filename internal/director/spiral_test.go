package director

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/camsweep/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpiralOutRejectsShortPaths(t *testing.T) {
	for _, steps := range []int{-1, 0, 1} {
		p, err := NewSpiralOut(PathSpec{Start: geom.V(0, 0, 10), MaxDistanceScale: 1.5, StepCount: steps})
		assert.ErrorIs(t, err, ErrInvalidPathSpec, "steps=%d", steps)
		assert.Nil(t, p)
	}
}

func TestNewSpiralOutRejectsNonPositiveScale(t *testing.T) {
	_, err := NewSpiralOut(PathSpec{Start: geom.V(0, 0, 10), MaxDistanceScale: 0, StepCount: 5})
	assert.ErrorIs(t, err, ErrInvalidPathSpec)
}

func TestSpiralOutLengthAndStart(t *testing.T) {
	for _, steps := range []int{2, 3, 5, 17, 100} {
		start := geom.V(1, 2, 3)
		p, err := NewSpiralOut(PathSpec{Start: start, MaxDistanceScale: 2, StepCount: steps, DegreesPerStep: 3})
		require.NoError(t, err)

		n := 0
		for s, pose := range p.Poses() {
			assert.Equal(t, n, s)
			if s == 0 {
				assert.Equal(t, start, pose.Position)
			}
			assert.Equal(t, geom.Up, pose.Up)
			assert.Nil(t, pose.View)
			n++
		}
		assert.Equal(t, steps, n)
	}
}

func TestSpiralOutProgressEndpoints(t *testing.T) {
	for _, steps := range []int{2, 3, 5, 10, 1000} {
		p, err := NewSpiralOut(PathSpec{Start: geom.V(0, 0, 4), MaxDistanceScale: 1.5, StepCount: steps})
		require.NoError(t, err)

		assert.Equal(t, 0.0, p.Progress(0))
		assert.Equal(t, 1.0, p.Progress(steps-1))
		assert.Equal(t, 6.0, p.Distance(steps-1))
	}
}

func TestSpiralOutProgressIsBackLoaded(t *testing.T) {
	p, err := NewSpiralOut(PathSpec{Start: geom.V(0, 0, 1), MaxDistanceScale: 2, StepCount: 11})
	require.NoError(t, err)

	prev := p.Progress(0)
	for s := 1; s < 11; s++ {
		cur := p.Progress(s)
		assert.Greater(t, cur, prev)
		prev = cur
	}
	assert.Less(t, p.Progress(5), 0.5)
}

// Replays the step-by-step walk (pose first, then advance) and compares it with the closed form.
func TestSpiralOutMatchesIterativeWalk(t *testing.T) {
	spec := PathSpec{Start: geom.V(0, 1.5, 8), MaxDistanceScale: 1.5, StepCount: 5, DegreesPerStep: 0.5}
	p, err := NewSpiralOut(spec)
	require.NoError(t, err)

	startDist := spec.Start.Length()
	maxDist := startDist * spec.MaxDistanceScale
	cur := spec.Start

	for s := 0; s < spec.StepCount; s++ {
		got := p.Pose(s).Position
		assert.InDelta(t, cur.X, got.X, 1e-9, "step %d x", s)
		assert.InDelta(t, cur.Y, got.Y, 1e-9, "step %d y", s)
		assert.InDelta(t, cur.Z, got.Z, 1e-9, "step %d z", s)

		along := (math.Pow(10, float64(s)/float64(spec.StepCount-1)) - 1) / 9
		dist := startDist + along*(maxDist-startDist)
		angle := spec.DegreesPerStep * float64(s+1) * math.Pi / 180
		cur = geom.V(math.Sin(angle)*dist, cur.Y, math.Cos(angle)*dist)
	}
}

func TestSpiralOutKeepsHeight(t *testing.T) {
	p, err := NewSpiralOut(PathSpec{Start: geom.V(3, 7, 4), MaxDistanceScale: 3, StepCount: 8, DegreesPerStep: 45})
	require.NoError(t, err)

	for _, pose := range p.Poses() {
		assert.Equal(t, 7.0, pose.Position.Y)
	}
}

func TestSpiralOutQuarterTurn(t *testing.T) {
	p, err := NewSpiralOut(PathSpec{Start: geom.V(0, 0, 10), MaxDistanceScale: 2, StepCount: 2, DegreesPerStep: 90})
	require.NoError(t, err)

	// Step 1 uses Progress(0) == 0, so the radius is still the start distance.
	pos := p.Pose(1).Position
	assert.InDelta(t, 10.0, pos.X, 1e-9)
	assert.InDelta(t, 0.0, pos.Z, 1e-9)
}

func TestSpiralOutPosesRestartable(t *testing.T) {
	p, err := NewSpiralOut(PathSpec{Start: geom.V(1, 0, 1), MaxDistanceScale: 1.5, StepCount: 6, DegreesPerStep: 10})
	require.NoError(t, err)

	var partial []geom.Pose
	for s, pose := range p.Poses() {
		partial = append(partial, pose)
		if s == 2 {
			break
		}
	}

	var full []geom.Pose
	for _, pose := range p.Poses() {
		full = append(full, pose)
	}

	require.Len(t, full, 6)
	assert.Equal(t, full[:3], partial)
	assert.Equal(t, full[4], p.Pose(4))
}

func TestExpEase(t *testing.T) {
	assert.Equal(t, 0.0, ExpEase(0))
	assert.Equal(t, 1.0, ExpEase(1))
	assert.InDelta(t, (math.Sqrt(10)-1)/9, ExpEase(0.5), 1e-12)
}

func TestTrajectoryWriteRead(t *testing.T) {
	p, err := NewSpiralOut(PathSpec{Start: geom.V(0, 0, 5), MaxDistanceScale: 1.5, StepCount: 5, DegreesPerStep: 0.5})
	require.NoError(t, err)

	tr := NewTrajectory(p, func(s int) string { return "frame.png" })
	require.Len(t, tr.Frames, 5)

	path := filepath.Join(t.TempDir(), "path.yaml")
	require.NoError(t, WritePath(tr, path))

	got, err := ReadPath(path)
	require.NoError(t, err)

	assert.Equal(t, tr.Version, got.Version)
	assert.Equal(t, tr.Spec, got.Spec)
	require.Len(t, got.Frames, 5)
	assert.Equal(t, tr.Frames[3].Pose, got.Frames[3].Pose)
	assert.Equal(t, 1.0, got.Frames[4].Progress)
}

func TestReadPathMissing(t *testing.T) {
	_, err := ReadPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestReadPathRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"0.9\"\n"), 0644))

	_, err := ReadPath(path)
	assert.ErrorContains(t, err, "unsupported version")
}

func TestTrajectoryReplay(t *testing.T) {
	spec := PathSpec{Start: geom.V(1, 2, 8), MaxDistanceScale: 2, StepCount: 4, DegreesPerStep: 15}
	p, err := NewSpiralOut(spec)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "path.yaml")
	require.NoError(t, WritePath(NewTrajectory(p, nil), path))

	tr, err := ReadPath(path)
	require.NoError(t, err)
	replay, err := tr.Replay()
	require.NoError(t, err)

	for s := 0; s < spec.StepCount; s++ {
		assert.Equal(t, p.Pose(s), replay.Pose(s))
	}
}
