package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ivlev/camsweep/internal/config"
	"github.com/ivlev/camsweep/internal/engine"
	"github.com/ivlev/camsweep/internal/logging"
	"github.com/ivlev/camsweep/internal/renderer"
	"github.com/ivlev/camsweep/internal/system"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdout, os.Stderr, previewFactory)
	stop()
	os.Exit(code)
}

// factoryFunc собирает фабрику движков по конфигурации запуска
type factoryFunc func(cfg *config.Config) engine.Factory

func previewFactory(cfg *config.Config) engine.Factory {
	opts := renderer.Options{StampQR: cfg.StampQR}
	return func(sc *config.Scene) (engine.Engine, error) {
		return renderer.NewPreview(sc, opts), nil
	}
}

func usage(w io.Writer, prog string, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Creates a number of renders for config files in a")
	fmt.Fprintln(w, " given directory, sweeping camera position and specular coefficient.")
	fmt.Fprintln(w, " Only works for single volumes, no timeseries data")
	fmt.Fprintf(w, "Usage: %s [flags] <config dir>\n", prog)
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, factory factoryFunc) int {
	prog := "camsweep"
	if len(args) > 0 {
		prog = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	sessionsPtr := fs.Int("sessions", config.DefaultSessions, "Количество позиций камеры на конфиг")
	stepsPtr := fs.Int("steps", config.DefaultMaterialSteps, "Шагов бликов на позицию камеры")
	deltaPtr := fs.Float64("delta", config.DefaultMaterialDelta, "Приращение коэффициента бликов за шаг")
	seedPtr := fs.Int64("seed", -1, "Seed для случайных позиций камеры (отрицательный: случайный)")
	parallelPtr := fs.Int("parallel", 1, "Сколько конфигов обрабатывать одновременно (у каждого свой движок)")
	resumePtr := fs.Bool("resume", false, "Пропускать кадры, файл которых уже существует")
	qrPtr := fs.Bool("qr", false, "Ставить на кадр QR-код с позицией камеры")
	logLevelPtr := fs.String("log-level", "info", "Уровень логов: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "%v\n", err)
		}
		usage(stderr, prog, fs)
		return 1
	}
	if fs.NArg() != 1 {
		usage(stderr, prog, fs)
		return 1
	}

	cfg := &config.Config{
		ConfigDir:     fs.Arg(0),
		LogLevel:      *logLevelPtr,
		Sessions:      *sessionsPtr,
		MaterialSteps: *stepsPtr,
		MaterialDelta: *deltaPtr,
		Seed:          uint64(*seedPtr),
		HasSeed:       *seedPtr >= 0,
		Parallel:      *parallelPtr,
		Resume:        *resumePtr,
		StampQR:       *qrPtr,
	}

	logger := logging.New(cfg.LogLevel, stderr)

	files, err := system.ListConfigs(cfg.ConfigDir)
	if err != nil {
		fmt.Fprintf(stderr, "Could not open directory %s\n", cfg.ConfigDir)
		return 1
	}

	if host, err := system.ProbeHost(); err == nil {
		logger.Debug().Int("cpus", host.CPUs).
			Uint64("mem_total", host.TotalMemory).
			Uint64("mem_available", host.AvailableMemory).
			Msg("host")
		cfg.Parallel = host.MaxParallel(cfg.Parallel)
	} else {
		logger.Warn().Err(err).Msg("host probe failed")
	}

	batch := &engine.Batch{
		Factory: factory(cfg),
		Spec: engine.SweepSpec{
			Sessions:      cfg.Sessions,
			MaterialSteps: cfg.MaterialSteps,
			MaterialDelta: cfg.MaterialDelta,
		},
		Logger:   logging.Component(logger, "sweep"),
		Seed:     cfg.Seed,
		HasSeed:  cfg.HasSeed,
		Parallel: cfg.Parallel,
		Resume:   cfg.Resume,
	}

	report, err := batch.Run(ctx, files)
	if err != nil {
		logger.Error().Err(err).Msg("batch aborted")
		return 1
	}

	logger.Info().
		Int("configs", report.Configs).
		Int("rendered", report.Rendered).
		Int("skipped", report.Skipped).
		Int("unsupported", len(report.Unsupported)).
		Int("failed", len(report.Failed)).
		Msg("done")
	fmt.Fprintf(stdout, "rendered %d frames from %d configs\n", report.Rendered, report.Configs)

	return 0
}
