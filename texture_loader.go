package glow

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/clone"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder
	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrentLoads bounds the number of images decoded at once.
const DefaultMaxConcurrentLoads = 4

// loadResult is a finished decode waiting to be applied on the render goroutine.
type loadResult struct {
	tex *Texture
	img *image.RGBA
	err error
}

// TextureLoader loads textures asynchronously. Load returns a pending texture
// immediately and decodes on a background goroutine; completions queue up and
// are applied to their textures only by Poll or Await, which the render loop
// calls at frame start. In-flight loads cannot be cancelled.
type TextureLoader struct {
	// Sink, if set, receives EventTextureReady and EventTextureFailed when a
	// completion is applied.
	Sink EventSink

	fsys fs.FS
	sem  *semaphore.Weighted

	mu       sync.Mutex
	done     []loadResult
	inflight int
	notify   chan struct{}
}

// NewTextureLoader creates a loader that resolves references against fsys.
// A nil fsys resolves references as operating system paths. maxConcurrent
// values below 1 use DefaultMaxConcurrentLoads.
func NewTextureLoader(fsys fs.FS, maxConcurrent int) *TextureLoader {
	if maxConcurrent < 1 {
		maxConcurrent = DefaultMaxConcurrentLoads
	}
	return &TextureLoader{
		fsys:   fsys,
		sem:    semaphore.NewWeighted(int64(maxConcurrent)),
		notify: make(chan struct{}, 1),
	}
}

// Load starts loading the image at ref and returns its texture, which stays
// TexturePending (and blank) until a later Poll or Await applies the result.
func (l *TextureLoader) Load(ref string) *Texture {
	t := newPendingTexture(ref)
	l.mu.Lock()
	l.inflight++
	l.mu.Unlock()
	go l.run(t)
	return t
}

func (l *TextureLoader) run(t *Texture) {
	// Acquire only fails on context cancellation, which Background never does.
	_ = l.sem.Acquire(context.Background(), 1)
	img, err := l.decode(t.Ref)
	l.sem.Release(1)

	l.mu.Lock()
	l.done = append(l.done, loadResult{tex: t, img: img, err: err})
	l.inflight--
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

func (l *TextureLoader) decode(ref string) (*image.RGBA, error) {
	rc, err := l.open(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTextureFailed, ref, err)
	}
	defer rc.Close()
	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrTextureFailed, ref, err)
	}
	return clone.AsRGBA(img), nil
}

func (l *TextureLoader) open(ref string) (io.ReadCloser, error) {
	if l.fsys == nil {
		return os.Open(ref)
	}
	return l.fsys.Open(path.Clean(strings.TrimPrefix(ref, "/")))
}

// Poll applies every completed load to its texture and returns the textures
// that settled, in completion order. Call it from the render goroutine.
func (l *TextureLoader) Poll() []*Texture {
	l.mu.Lock()
	results := l.done
	l.done = nil
	l.mu.Unlock()

	if len(results) == 0 {
		return nil
	}
	settled := make([]*Texture, 0, len(results))
	for _, r := range results {
		r.tex.resolve(r.img, r.err)
		settled = append(settled, r.tex)
		if r.err != nil {
			Logger().Warn("texture load failed", "ref", r.tex.Ref, "error", r.err)
			if l.Sink != nil {
				l.Sink.EmitEvent(RenderEvent{Type: EventTextureFailed, Texture: r.tex, Err: r.err})
			}
			continue
		}
		if l.Sink != nil {
			l.Sink.EmitEvent(RenderEvent{Type: EventTextureReady, Texture: r.tex})
		}
	}
	return settled
}

// Await blocks until t leaves TexturePending or ctx is done, applying any
// completions that arrive meanwhile. It returns the texture's load error, or
// ctx.Err() on timeout. Call it from the render goroutine.
func (l *TextureLoader) Await(ctx context.Context, t *Texture) error {
	for {
		l.Poll()
		if t.state != TexturePending {
			return t.err
		}
		select {
		case <-l.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Pending returns the number of loads that have not yet been applied.
func (l *TextureLoader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inflight + len(l.done)
}
