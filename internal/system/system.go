package system

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ListConfigs возвращает файлы конфигурации из dir в лексическом порядке.
// Скрытые файлы (имя начинается с '.') и поддиректории пропускаются.
func ListConfigs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not open directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	return files, nil
}

// Host - параметры машины, на которой идёт прогон
type Host struct {
	CPUs            int
	TotalMemory     uint64
	AvailableMemory uint64
}

// ProbeHost читает сведения о CPU и памяти
func ProbeHost() (Host, error) {
	var h Host

	n, err := cpu.Counts(true)
	if err != nil {
		return h, fmt.Errorf("cpu count: %w", err)
	}
	h.CPUs = n

	vm, err := mem.VirtualMemory()
	if err != nil {
		return h, fmt.Errorf("virtual memory: %w", err)
	}
	h.TotalMemory = vm.Total
	h.AvailableMemory = vm.Available

	return h, nil
}

// MaxParallel ограничивает число воркеров количеством CPU
func (h Host) MaxParallel(requested int) int {
	if requested < 1 {
		return 1
	}
	if h.CPUs > 0 && requested > h.CPUs {
		return h.CPUs
	}
	return requested
}

// GetBestH264Encoder выбирает аппаратный H.264 кодек, если он есть в ffmpeg, иначе libx264
func GetBestH264Encoder() string {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	return pickEncoder(string(out))
}

func pickEncoder(encoders string) string {
	// Сначала VideoToolbox (macOS), потом NVENC
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(encoders, name) {
			return name
		}
	}
	return "libx264"
}
