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
	"github.com/ivlev/camsweep/internal/director"
	"github.com/ivlev/camsweep/internal/engine"
	"github.com/ivlev/camsweep/internal/logging"
	"github.com/ivlev/camsweep/internal/naming"
	"github.com/ivlev/camsweep/internal/renderer"
	"github.com/ivlev/camsweep/internal/subject"
	"github.com/ivlev/camsweep/internal/system"
	"github.com/ivlev/camsweep/internal/video"
	"github.com/rs/zerolog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdout, os.Stderr, &video.FFmpegAssembler{})
	stop()
	os.Exit(code)
}

func usage(w io.Writer, prog string, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Renders a camera path spiralling out from the configured camera position.")
	fmt.Fprintf(w, "Usage: %s [flags] <config file>\n", prog)
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, assembler video.Assembler) int {
	prog := "camspiral"
	if len(args) > 0 {
		prog = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	scalePtr := fs.Float64("scale", config.DefaultScale, "Итоговое удаление камеры в долях от начального")
	stepsPtr := fs.Int("steps", config.DefaultSteps, "Количество кадров (не меньше 2)")
	degreesPtr := fs.Float64("degrees", config.DefaultDegreesPerStep, "Поворот по орбите за кадр, в градусах")
	specularPtr := fs.Float64("specular", config.DefaultSpecular, "Коэффициент бликов для поверхностей")
	exportPtr := fs.String("export", "", "Сохранить траекторию в YAML-файл")
	replayPtr := fs.String("replay", "", "Отрисовать путь из сохранённой траектории (вместо -scale/-steps/-degrees)")
	videoPtr := fs.String("video", "", "Собрать кадры в видео через ffmpeg")
	fpsPtr := fs.Int("fps", config.DefaultFPS, "FPS видео")
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

	cfg := &config.PathConfig{
		ConfigFile:     fs.Arg(0),
		LogLevel:       *logLevelPtr,
		Scale:          *scalePtr,
		Steps:          *stepsPtr,
		DegreesPerStep: *degreesPtr,
		Specular:       *specularPtr,
		ExportPath:     *exportPtr,
		ReplayPath:     *replayPtr,
		VideoPath:      *videoPtr,
		FPS:            *fpsPtr,
		StampQR:        *qrPtr,
	}

	logger := logging.New(cfg.LogLevel, stderr)
	if err := walk(ctx, cfg, stdout, assembler, logger); err != nil {
		logger.Error().Err(err).Str("config", cfg.ConfigFile).Msg("spiral failed")
		return 1
	}
	return 0
}

func walk(ctx context.Context, cfg *config.PathConfig, stdout io.Writer, assembler video.Assembler, logger zerolog.Logger) error {
	sc, err := config.LoadScene(cfg.ConfigFile)
	if err != nil {
		return err
	}

	path, err := spiralPath(cfg, sc)
	if err != nil {
		return err
	}

	tmpl, err := naming.ParseTemplate(sc.ImageFilename)
	if err != nil {
		return err
	}

	subj, err := subject.FromScene(sc)
	if err != nil {
		return err
	}

	eng := renderer.NewPreview(sc, renderer.Options{StampQR: cfg.StampQR})
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close engine")
		}
	}()

	if err := eng.Attach(subj); err != nil {
		return fmt.Errorf("%w: attach %s: %w", engine.ErrEngineFailure, subj.Filename(), err)
	}
	if subj.Surface() {
		eng.SetSpecular(cfg.Specular)
	}

	w := &engine.Walk{
		Engine:   eng,
		Logger:   logging.Component(logger, "spiral"),
		Progress: stdout,
	}
	frames, err := w.Run(ctx, path, sc.ImageFilename)
	if err != nil {
		return err
	}
	logger.Info().Int("frames", len(frames)).Msg("spiral rendered")

	if cfg.ExportPath != "" {
		tr := director.NewTrajectory(path, tmpl.Frame)
		if err := director.WritePath(tr, cfg.ExportPath); err != nil {
			return fmt.Errorf("export trajectory: %w", err)
		}
		logger.Info().Str("file", cfg.ExportPath).Msg("trajectory exported")
	}

	if cfg.VideoPath != "" {
		params := video.Params{FPS: cfg.FPS, Encoder: system.GetBestH264Encoder()}
		if err := assembler.Assemble(ctx, frames, cfg.VideoPath, params); err != nil {
			return fmt.Errorf("assemble video: %w", err)
		}
		logger.Info().Str("file", cfg.VideoPath).Str("encoder", params.Encoder).Msg("video assembled")
	}

	return nil
}

// spiralPath строит путь из флагов или, при -replay, из сохранённой траектории
func spiralPath(cfg *config.PathConfig, sc *config.Scene) (*director.SpiralOut, error) {
	if cfg.ReplayPath != "" {
		tr, err := director.ReadPath(cfg.ReplayPath)
		if err != nil {
			return nil, err
		}
		return tr.Replay()
	}
	return director.NewSpiralOut(director.PathSpec{
		Start:            sc.CameraPosition(),
		MaxDistanceScale: cfg.Scale,
		StepCount:        cfg.Steps,
		DegreesPerStep:   cfg.DegreesPerStep,
	})
}
