package system

import (
	"image"
	"sync"
)

// FramePool переиспользует буферы *image.RGBA, чтобы снизить нагрузку на GC.
// Ключ - размер буфера.
type FramePool struct {
	pools map[image.Point]*sync.Pool
	mu    sync.RWMutex
}

func NewFramePool() *FramePool {
	return &FramePool{pools: make(map[image.Point]*sync.Pool)}
}

var frames = NewFramePool()

// GetFrame берёт из общего пула очищенный буфер w x h
func GetFrame(w, h int) *image.RGBA {
	return frames.Get(w, h)
}

// PutFrame возвращает буфер в общий пул
func PutFrame(img *image.RGBA) {
	frames.Put(img)
}

func (p *FramePool) Get(w, h int) *image.RGBA {
	key := image.Pt(w, h)
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return image.NewRGBA(image.Rect(0, 0, w, h))
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	img := pool.Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

func (p *FramePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.Size()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
