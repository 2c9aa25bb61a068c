package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/ivlev/camsweep/internal/config"
	"github.com/ivlev/camsweep/internal/geom"
	"github.com/ivlev/camsweep/internal/subject"
	"github.com/ivlev/camsweep/internal/system"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Options tune the preview output.
type Options struct {
	// StampQR adds a QR code with the camera pose to the bottom-right corner.
	StampQR bool
	// FOV is the vertical field of view in degrees.
	FOV float64
}

// Preview is a lightweight engine: it draws the dataset's bounding box as a wireframe
// seen from the current camera and writes a PNG. It holds mutable camera and material
// state and must not be shared between goroutines.
type Preview struct {
	width, height int
	dims          geom.Vec3
	background    color.RGBA
	opts          Options

	position geom.Vec3
	up       geom.Vec3
	view     *geom.Vec3
	specular float64
	subject  subject.Subject
}

// NewPreview builds a preview engine for a scene.
func NewPreview(sc *config.Scene, opts Options) *Preview {
	w, h := sc.ImageDims()
	if opts.FOV <= 0 {
		opts.FOV = 45
	}
	return &Preview{
		width:      w,
		height:     h,
		dims:       sc.Dims(),
		background: toRGBA(sc.Background),
		opts:       opts,
		position:   sc.CameraPosition(),
		up:         sc.CameraUp(),
	}
}

func (p *Preview) SetPosition(pos geom.Vec3) { p.position = pos }
func (p *Preview) SetUpVector(up geom.Vec3)  { p.up = up }
func (p *Preview) CenterView()               { p.view = nil }

// SetView sets an explicit view direction.
func (p *Preview) SetView(v geom.Vec3) { p.view = &v }

func (p *Preview) SetSpecular(ks float64) { p.specular = ks }

// Attach validates and keeps the subject. Volume colour maps must hold RGB triples.
func (p *Preview) Attach(s subject.Subject) error {
	if v, ok := s.(*subject.Volume); ok && len(v.ColorMap)%3 != 0 {
		return fmt.Errorf("colour map of %s has %d entries, want RGB triples", v.File, len(v.ColorMap))
	}
	p.subject = s
	return nil
}

func (p *Preview) Close() error { return nil }

// RenderImage draws the current state and writes it as PNG to filename.
func (p *Preview) RenderImage(ctx context.Context, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img := system.GetFrame(p.width, p.height)
	defer system.PutFrame(img)

	draw.Draw(img, img.Bounds(), image.NewUniform(p.background), image.Point{}, draw.Src)
	p.drawBox(img)
	p.drawCaption(img)
	if p.opts.StampQR {
		if err := p.stampQR(img); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (p *Preview) drawBox(img *image.RGBA) {
	cam := newPinhole(p.position, p.forward(), p.up, p.opts.FOV, p.width, p.height)
	c := p.edgeColor()

	d := p.dims
	var corners [8]geom.Vec3
	for i := range corners {
		corners[i] = geom.V(sign(i&1)*d.X, sign(i&2)*d.Y, sign(i&4)*d.Z)
	}

	for i := range corners {
		for _, bit := range []int{1, 2, 4} {
			j := i | bit
			if j == i {
				continue
			}
			a, okA := cam.project(corners[i])
			b, okB := cam.project(corners[j])
			if okA && okB {
				drawLine(img, a, b, c)
			}
		}
	}
}

func (p *Preview) forward() geom.Vec3 {
	if p.view != nil {
		return *p.view
	}
	return geom.Vec3{}.Sub(p.position)
}

// edgeColor tints by subject kind and brightens with the specular coefficient.
func (p *Preview) edgeColor() color.RGBA {
	base := color.RGBA{200, 200, 200, 255}
	if p.subject != nil {
		switch p.subject.Kind() {
		case subject.KindVolume:
			base = color.RGBA{90, 140, 255, 255}
		case subject.KindStreamlines:
			base = color.RGBA{90, 220, 120, 255}
		case subject.KindParticles:
			base = color.RGBA{255, 170, 60, 255}
		}
	}

	k := 0.5 + 0.5*math.Max(0, math.Min(1, p.specular))
	return color.RGBA{
		R: uint8(float64(base.R) * k),
		G: uint8(float64(base.G) * k),
		B: uint8(float64(base.B) * k),
		A: 255,
	}
}

func (p *Preview) caption() string {
	kind := "none"
	if p.subject != nil {
		kind = p.subject.Kind().String()
	}
	return fmt.Sprintf("%s ks=%.1f cam=(%.1f,%.1f,%.1f)", kind, p.specular, p.position.X, p.position.Y, p.position.Z)
}

func (p *Preview) drawCaption(img *image.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{255, 255, 0, 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(6, 16),
	}
	d.DrawString(p.caption())
}

func (p *Preview) stampQR(img *image.RGBA) error {
	q, err := qrcode.New(p.caption(), qrcode.Low)
	if err != nil {
		return fmt.Errorf("qr stamp: %w", err)
	}

	size := min(p.width, p.height) / 4
	if size < 21 {
		return nil
	}
	code := q.Image(size)

	b := img.Bounds()
	at := image.Pt(b.Max.X-size, b.Max.Y-size)
	draw.Draw(img, image.Rectangle{Min: at, Max: b.Max}, code, code.Bounds().Min, draw.Src)
	return nil
}

func sign(bit int) float64 {
	if bit != 0 {
		return 1
	}
	return -1
}

func toRGBA(c []float64) color.RGBA {
	ch := func(i int) uint8 {
		if i >= len(c) {
			return 0
		}
		v := c[i]
		if v <= 1 {
			v *= 255
		}
		return uint8(math.Max(0, math.Min(255, v)))
	}
	return color.RGBA{ch(0), ch(1), ch(2), 255}
}
