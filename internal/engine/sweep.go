package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/ivlev/camsweep/internal/config"
	"github.com/ivlev/camsweep/internal/geom"
	"github.com/ivlev/camsweep/internal/naming"
	"github.com/ivlev/camsweep/internal/subject"
	"github.com/rs/zerolog"
)

// ErrInvalidSweep - параметры sweep, при которых два кадра получат одно имя файла
var ErrInvalidSweep = errors.New("invalid sweep")

// SweepSpec задаёт две вложенные оси sweep: снаружи сессии (позиции камеры),
// внутри шаги материала (коэффициенты бликов).
type SweepSpec struct {
	Sessions      int
	MaterialSteps int
	MaterialDelta float64
}

// DefaultSweep - значения по умолчанию пакетного прогона
func DefaultSweep() SweepSpec {
	return SweepSpec{
		Sessions:      config.DefaultSessions,
		MaterialSteps: config.DefaultMaterialSteps,
		MaterialDelta: config.DefaultMaterialDelta,
	}
}

// Override подменяет поля, заданные в сцене
func (s SweepSpec) Override(o config.SweepConfig) SweepSpec {
	if o.Sessions > 0 {
		s.Sessions = o.Sessions
	}
	if o.Steps > 0 {
		s.MaterialSteps = o.Steps
	}
	if o.Delta > 0 {
		s.MaterialDelta = o.Delta
	}
	return s
}

// Coefficient - коэффициент бликов шага i
func (s SweepSpec) Coefficient(i int) float64 {
	return float64(i) * s.MaterialDelta
}

// Validate проверяет, что у каждого шага материала своё имя файла
func (s SweepSpec) Validate() error {
	seen := make(map[string]int, s.MaterialSteps)
	for i := 0; i < s.MaterialSteps; i++ {
		label := naming.Param(s.Coefficient(i))
		if j, ok := seen[label]; ok {
			return fmt.Errorf("%w: material steps %d and %d both name as %s (delta %g)",
				ErrInvalidSweep, j, i, label, s.MaterialDelta)
		}
		seen[label] = i
	}
	return nil
}

// SweepStats - счётчики прогона
type SweepStats struct {
	Rendered int
	Skipped  int
}

// Sweep проводит один движок через все пары (сессия, шаг материала) сцены
type Sweep struct {
	Engine Engine
	Spec   SweepSpec
	Rand   *rand.Rand
	Logger zerolog.Logger
	// Exists, если задан, сообщает об уже существующих файлах. Такие кадры не рисуются.
	Exists func(filename string) bool
}

// NewRand возвращает генератор для позиций камеры: с seed при fixed,
// иначе из системного источника энтропии.
func NewRand(seed uint64, fixed bool) *rand.Rand {
	if fixed {
		return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// RandomPosition выбирает точку равномерно из [-dims.X, dims.X] x [-dims.Y, dims.Y] x [-dims.Z, dims.Z]
func RandomPosition(r *rand.Rand, dims geom.Vec3) geom.Vec3 {
	return geom.Vec3{
		X: uniform(r, dims.X),
		Y: uniform(r, dims.Y),
		Z: uniform(r, dims.Z),
	}
}

func uniform(r *rand.Rand, half float64) float64 {
	return (r.Float64()*2 - 1) * half
}

// Run прогоняет сцену. Поверхности рисуются по кадру на шаг материала (base.SSSS.K.K.ext),
// объём без изоповерхностей - по кадру на сессию (base.SSSS.ext).
// Между сессиями камера переезжает в случайную точку внутри границ данных.
func (s *Sweep) Run(ctx context.Context, sc *config.Scene, subj subject.Subject) (SweepStats, error) {
	var stats SweepStats

	tmpl, err := naming.ParseTemplate(sc.ImageFilename)
	if err != nil {
		return stats, err
	}
	if subj.Surface() {
		if err := s.Spec.Validate(); err != nil {
			return stats, err
		}
	}

	rng := s.Rand
	if rng == nil {
		rng = NewRand(0, false)
	}

	ApplyPose(s.Engine, InitialPose(sc, subj))
	if err := s.Engine.Attach(subj); err != nil {
		return stats, fmt.Errorf("%w: attach %s: %w", ErrEngineFailure, subj.Filename(), err)
	}

	for session := 0; session < s.Spec.Sessions; session++ {
		if subj.Surface() {
			for step := 0; step < s.Spec.MaterialSteps; step++ {
				ks := s.Spec.Coefficient(step)
				s.Engine.SetSpecular(ks)

				name := tmpl.FrameParam(session, ks)
				if err := s.frame(ctx, &stats, name, session); err != nil {
					return stats, err
				}
			}
		} else {
			if err := s.frame(ctx, &stats, tmpl.Frame(session), session); err != nil {
				return stats, err
			}
		}

		if session == s.Spec.Sessions-1 {
			break
		}

		pos := RandomPosition(rng, sc.Dims())
		s.Logger.Debug().Int("session", session).
			Float64("x", pos.X).Float64("y", pos.Y).Float64("z", pos.Z).
			Msg("camera repositioned")
		ApplyPose(s.Engine, geom.Centered(pos))
	}

	return stats, nil
}

func (s *Sweep) frame(ctx context.Context, stats *SweepStats, name string, session int) error {
	if s.Exists != nil && s.Exists(name) {
		stats.Skipped++
		s.Logger.Debug().Str("file", name).Msg("exists, skipping")
		return nil
	}
	if err := render(ctx, s.Engine, name); err != nil {
		return err
	}
	stats.Rendered++
	s.Logger.Info().Str("file", name).Int("session", session).Msg("rendered to")
	return nil
}
