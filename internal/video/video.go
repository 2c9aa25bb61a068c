package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// Params - параметры итогового видео
type Params struct {
	FPS     int
	Encoder string // кодек ffmpeg, например libx264
	Quality int    // 0 - значение по умолчанию для кодека
}

// Assembler собирает упорядоченные кадры в видеофайл
type Assembler interface {
	Assemble(ctx context.Context, frames []string, output string, params Params) error
}

// FFmpegAssembler склеивает кадры системным ffmpeg через concat demuxer
type FFmpegAssembler struct {
	// TempDir для concat-списка; пусто - os.TempDir
	TempDir string
}

func (a *FFmpegAssembler) Assemble(ctx context.Context, frames []string, output string, params Params) error {
	if len(frames) == 0 {
		return errors.New("no frames to assemble")
	}
	if params.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", params.FPS)
	}

	list, err := os.CreateTemp(a.TempDir, "frames_*.txt")
	if err != nil {
		return err
	}
	defer os.Remove(list.Name())

	if err := writeConcatList(list, frames, params.FPS); err != nil {
		list.Close()
		return err
	}
	if err := list.Close(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", buildArgs(list.Name(), output, params)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, string(out))
	}
	return nil
}

// writeConcatList пишет concat-скрипт ffmpeg: каждый кадр показывается 1/fps секунды.
// Последний кадр повторяется, иначе ffmpeg игнорирует его длительность.
func writeConcatList(w io.Writer, frames []string, fps int) error {
	duration := 1.0 / float64(fps)
	for _, f := range frames {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "file '%s'\nduration %f\n", abs, duration); err != nil {
			return err
		}
	}
	last, err := filepath.Abs(frames[len(frames)-1])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "file '%s'\n", last)
	return err
}

func buildArgs(listPath, output string, params Params) []string {
	encoder := params.Encoder
	if encoder == "" {
		encoder = "libx264"
	}

	args := []string{
		"-y",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-r", fmt.Sprintf("%d", params.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", encoder,
	}
	return append(append(args, qualityArgs(encoder, params.Quality)...), output)
}

func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		if quality == 0 {
			quality = 75
		}
		// VideoToolbox принимает битрейт, а не -q:v
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		if quality == 0 {
			quality = 28
		}
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		if quality == 0 {
			quality = 23
		}
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}
