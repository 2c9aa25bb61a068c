package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/ivlev/camsweep/internal/director"
	"github.com/ivlev/camsweep/internal/naming"
	"github.com/rs/zerolog"
)

// Walk рисует по кадру на каждую позу спирали
type Walk struct {
	Engine Engine
	Logger zerolog.Logger
	// Progress получает счётчик "шаг/всего", перерисовываемый на месте. nil - без прогресса.
	Progress io.Writer
}

// Run рисует base.SSSS.ext на каждый шаг пути и возвращает имена файлов по порядку.
// Имя проверяется до первого рендера.
func (w *Walk) Run(ctx context.Context, path *director.SpiralOut, filename string) ([]string, error) {
	tmpl, err := naming.ParseTemplate(filename)
	if err != nil {
		return nil, err
	}

	total := path.Len()
	files := make([]string, 0, total)

	for step, pose := range path.Poses() {
		if w.Progress != nil {
			fmt.Fprintf(w.Progress, "%d/%d", step+1, total)
		}

		ApplyPose(w.Engine, pose)
		name := tmpl.Frame(step)
		if err := render(ctx, w.Engine, name); err != nil {
			return files, err
		}
		files = append(files, name)

		w.Logger.Debug().Int("step", step).Str("file", name).
			Float64("x", pose.Position.X).Float64("z", pose.Position.Z).
			Msg("rendered")

		if w.Progress != nil {
			fmt.Fprint(w.Progress, "\r")
		}
	}

	if w.Progress != nil {
		fmt.Fprintln(w.Progress)
	}
	return files, nil
}
