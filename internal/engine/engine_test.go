package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivlev/camsweep/internal/geom"
	"github.com/ivlev/camsweep/internal/subject"
)

// event is one call made on a recordingEngine.
type event struct {
	op   string
	vec  geom.Vec3
	ks   float64
	file string
}

// recordingEngine records every call instead of rendering.
type recordingEngine struct {
	events   []event
	attached subject.Subject
	closed   bool
	// failOn makes RenderImage fail for this filename.
	failOn string
	// closeErr is returned by Close.
	closeErr error
}

func (e *recordingEngine) SetPosition(p geom.Vec3) {
	e.events = append(e.events, event{op: "position", vec: p})
}
func (e *recordingEngine) SetUpVector(u geom.Vec3) {
	e.events = append(e.events, event{op: "up", vec: u})
}
func (e *recordingEngine) CenterView() { e.events = append(e.events, event{op: "center"}) }
func (e *recordingEngine) SetView(v geom.Vec3) {
	e.events = append(e.events, event{op: "view", vec: v})
}
func (e *recordingEngine) SetSpecular(ks float64) {
	e.events = append(e.events, event{op: "specular", ks: ks})
}

func (e *recordingEngine) RenderImage(ctx context.Context, filename string) error {
	if filename == e.failOn {
		return errors.New("disk full")
	}
	e.events = append(e.events, event{op: "render", file: filename})
	return nil
}

func (e *recordingEngine) Attach(s subject.Subject) error {
	e.attached = s
	e.events = append(e.events, event{op: "attach"})
	return nil
}

func (e *recordingEngine) Close() error {
	e.closed = true
	return e.closeErr
}

func (e *recordingEngine) ops(op string) []event {
	var out []event
	for _, ev := range e.events {
		if ev.op == op {
			out = append(out, ev)
		}
	}
	return out
}

func (e *recordingEngine) renders() []string {
	var files []string
	for _, ev := range e.ops("render") {
		files = append(files, ev.file)
	}
	return files
}

func (e *recordingEngine) String() string {
	return fmt.Sprintf("%d events", len(e.events))
}
