package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"

	"github.com/ivlev/camsweep/internal/config"
	"github.com/ivlev/camsweep/internal/naming"
	"github.com/ivlev/camsweep/internal/subject"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Report - итог пакетного прогона
type Report struct {
	Configs     int
	Rendered    int
	Skipped     int
	Unsupported []string
	Failed      []string
}

// Batch прогоняет sweep по каждому конфигу директории.
//
// Ошибки конфигурации (нечитаемый файл, неподдерживаемые данные, имя картинки без
// расширения, шаг бликов с совпадающими именами файлов) логируются и пропускают
// только этот файл. Ошибка движка останавливает весь прогон.
type Batch struct {
	Factory Factory
	Spec    SweepSpec
	Logger  zerolog.Logger

	// Seed фиксирует случайные позиции камеры. Файл i использует Seed+i.
	Seed    uint64
	HasSeed bool

	// Parallel - сколько файлов обрабатывать одновременно, у каждого свой движок
	Parallel int
	// Resume пропускает кадры, файл которых уже существует
	Resume bool

	mu     sync.Mutex
	report Report
}

// Run обрабатывает файлы по порядку (или по Parallel штук одновременно)
func (b *Batch) Run(ctx context.Context, files []string) (Report, error) {
	b.report = Report{}

	limit := b.Parallel
	if limit < 1 {
		limit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, file := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return b.process(ctx, i, file)
		})
	}

	err := g.Wait()
	return b.report, err
}

func (b *Batch) process(ctx context.Context, index int, file string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	logger := b.Logger.With().Str("config", file).Logger()
	logger.Info().Msg("processing config")

	sc, err := config.LoadScene(file)
	if err != nil {
		logger.Error().Err(err).Msg("config file either invalid or unsupported")
		b.record(func(r *Report) { r.Failed = append(r.Failed, file) })
		return nil
	}

	subj, err := subject.FromScene(sc)
	if err != nil {
		logger.Error().Err(err).Msg("config file either invalid or unsupported")
		b.record(func(r *Report) { r.Unsupported = append(r.Unsupported, file) })
		return nil
	}

	eng, err := b.Factory(sc)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEngineFailure, file, err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close engine")
		}
	}()

	sweep := &Sweep{
		Engine: eng,
		Spec:   b.Spec.Override(sc.Sweep),
		Rand:   b.rand(index),
		Logger: logger.With().Str("subject", subj.Kind().String()).Logger(),
	}
	if b.Resume {
		sweep.Exists = fileExists
	}

	stats, err := sweep.Run(ctx, sc, subj)
	b.record(func(r *Report) {
		r.Configs++
		r.Rendered += stats.Rendered
		r.Skipped += stats.Skipped
	})

	if errors.Is(err, naming.ErrMalformedFilename) || errors.Is(err, ErrInvalidSweep) {
		logger.Error().Err(err).Msg("cannot name output images")
		b.record(func(r *Report) { r.Failed = append(r.Failed, file) })
		return nil
	}
	return err
}

func (b *Batch) rand(index int) *rand.Rand {
	if !b.HasSeed {
		return NewRand(0, false)
	}
	return NewRand(b.Seed+uint64(index), true)
}

func (b *Batch) record(fn func(r *Report)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.report)
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
