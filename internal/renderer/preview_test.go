package renderer

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/camsweep/internal/config"
	"github.com/ivlev/camsweep/internal/geom"
	"github.com/ivlev/camsweep/internal/subject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScene() *config.Scene {
	return &config.Scene{
		DataFilename: "cloud.xyz",
		Dimensions:   []float64{10, 10, 10},
		Camera:       config.CameraConfig{Position: []float64{0, 0, 60}, Up: []float64{0, 1, 0}},
		ImageSize:    []int{160, 120},
	}
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func countColored(img image.Image, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c.R != 0 || c.G != 0 || c.B != 0 {
				n++
			}
		}
	}
	return n
}

func TestRenderImageWritesPNG(t *testing.T) {
	p := NewPreview(testScene(), Options{})
	require.NoError(t, p.Attach(&subject.Particles{File: "cloud.xyz"}))
	p.SetSpecular(0.3)

	path := filepath.Join(t.TempDir(), "out", "frame.0000.0.3.png")
	require.NoError(t, p.RenderImage(context.Background(), path))

	img := decode(t, path)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())

	// The wireframe crosses the centre region below the caption.
	assert.Greater(t, countColored(img, image.Rect(20, 30, 140, 110)), 20)
}

func TestRenderImageBehindCamera(t *testing.T) {
	p := NewPreview(testScene(), Options{})
	// Looking away from the box: nothing but the caption is drawn.
	p.SetView(geom.V(0, 0, 1))

	path := filepath.Join(t.TempDir(), "away.png")
	require.NoError(t, p.RenderImage(context.Background(), path))

	img := decode(t, path)
	assert.Equal(t, 0, countColored(img, image.Rect(0, 30, 160, 120)))
}

func TestSpecularBrightensEdges(t *testing.T) {
	p := NewPreview(testScene(), Options{})
	require.NoError(t, p.Attach(&subject.Streamlines{File: "lines.sl"}))

	p.SetSpecular(0)
	dim := p.edgeColor()
	p.SetSpecular(1)
	bright := p.edgeColor()

	assert.Greater(t, bright.G, dim.G)
}

func TestStampQR(t *testing.T) {
	sc := testScene()
	sc.ImageSize = []int{200, 200}
	dir := t.TempDir()

	plain := NewPreview(sc, Options{})
	require.NoError(t, plain.RenderImage(context.Background(), filepath.Join(dir, "plain.png")))

	stamped := NewPreview(sc, Options{StampQR: true})
	require.NoError(t, stamped.RenderImage(context.Background(), filepath.Join(dir, "qr.png")))

	corner := image.Rect(150, 150, 200, 200)
	assert.Greater(t, countColored(decode(t, filepath.Join(dir, "qr.png")), corner),
		countColored(decode(t, filepath.Join(dir, "plain.png")), corner))
}

func TestAttachRejectsBadColorMap(t *testing.T) {
	p := NewPreview(testScene(), Options{})
	err := p.Attach(&subject.Volume{File: "head.raw", ColorMap: []float64{0, 1}})
	assert.Error(t, err)

	assert.NoError(t, p.Attach(&subject.Volume{File: "head.raw", ColorMap: []float64{0, 0, 0, 1, 1, 1}}))
}

func TestRenderImageFailsOnBadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	p := NewPreview(testScene(), Options{})
	err := p.RenderImage(context.Background(), filepath.Join(blocker, "frame.png"))
	assert.Error(t, err)
}

func TestPinholeProjectsOriginToCentre(t *testing.T) {
	cam := newPinhole(geom.V(0, 0, 10), geom.V(0, 0, -1), geom.Up, 45, 100, 80)

	pt, ok := cam.project(geom.Vec3{})
	require.True(t, ok)
	assert.Equal(t, image.Pt(50, 40), pt)

	_, ok = cam.project(geom.V(0, 0, 20))
	assert.False(t, ok)
}

func TestPinholeParallelUp(t *testing.T) {
	cam := newPinhole(geom.V(0, 10, 0), geom.V(0, -1, 0), geom.Up, 45, 100, 100)
	_, ok := cam.project(geom.Vec3{})
	assert.True(t, ok)
}

func TestToRGBA(t *testing.T) {
	assert.Equal(t, color.RGBA{255, 0, 128, 255}, toRGBA([]float64{1, 0, 128}))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, toRGBA(nil))
}
