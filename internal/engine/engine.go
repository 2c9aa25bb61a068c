package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivlev/camsweep/internal/config"
	"github.com/ivlev/camsweep/internal/geom"
	"github.com/ivlev/camsweep/internal/subject"
)

// ErrEngineFailure оборачивает ошибки движка рендеринга. Повторов нет.
var ErrEngineFailure = errors.New("engine failure")

// Camera - камера движка
type Camera interface {
	SetPosition(p geom.Vec3)
	SetUpVector(up geom.Vec3)
	CenterView()
	SetView(v geom.Vec3)
}

// Material - материал подключённого объекта
type Material interface {
	SetSpecular(ks float64)
}

// Renderer рисует текущее состояние камеры и объекта.
// RenderImage блокируется, пока картинка не записана или рендер не упал.
type Renderer interface {
	RenderImage(ctx context.Context, filename string) error
}

// Engine - один контекст рендеринга: камера, объект и рендерер.
// Состояние меняется каждым вызовом, поэтому Engine нельзя делить между горутинами.
type Engine interface {
	Camera
	Material
	Renderer
	// Attach передаёт объект рендереру. Здесь же применяются цветовая карта и карта прозрачности объёма.
	Attach(s subject.Subject) error
	Close() error
}

// Factory создаёт отдельный Engine для сцены
type Factory func(sc *config.Scene) (Engine, error)

// ApplyPose ставит камеру в позу pose
func ApplyPose(cam Camera, pose geom.Pose) {
	cam.SetPosition(pose.Position)
	cam.SetUpVector(pose.Up)
	if pose.View != nil {
		cam.SetView(*pose.View)
		return
	}
	cam.CenterView()
}

// InitialPose - начальная позиция камеры из конфига. Линии тока не магнитного поля
// смотрят вдоль (-x, -y, -50), а не в центр объекта.
func InitialPose(sc *config.Scene, s subject.Subject) geom.Pose {
	pose := geom.Pose{Position: sc.CameraPosition(), Up: sc.CameraUp()}
	if sl, ok := s.(*subject.Streamlines); ok && !sl.Magnetic() {
		view := geom.V(-pose.Position.X, -pose.Position.Y, -50)
		pose.View = &view
	}
	return pose
}

func render(ctx context.Context, r Renderer, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.RenderImage(ctx, filename); err != nil {
		return fmt.Errorf("%w: render %s: %w", ErrEngineFailure, filename, err)
	}
	return nil
}
