package glow

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS prints the current FPS and TPS over the composite.
	ShowFPS bool
	// Update, if set, is called once per tick with the tick duration in
	// seconds, before the frame is drawn.
	Update func(dt float64) error
}

type runGame struct {
	r     *Renderer
	scene *Scene
	cam   Camera
	cfg   RunConfig
}

func (g *runGame) Update() error {
	if g.cfg.Update == nil {
		return nil
	}
	return g.cfg.Update(1 / float64(ebiten.TPS()))
}

func (g *runGame) Draw(screen *ebiten.Image) {
	g.r.Draw(screen, g.scene, g.cam)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *runGame) Layout(int, int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens a window and renders scene through cam every frame until the
// window is closed or Update returns an error. The renderer must use an
// EbitenDevice. Zero sizes default to 640 x 480.
func Run(r *Renderer, scene *Scene, cam Camera, cfg RunConfig) error {
	if _, ok := r.dev.(*EbitenDevice); !ok {
		return fmt.Errorf("glow: Run requires an EbitenDevice, renderer uses %T", r.dev)
	}
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(&runGame{r: r, scene: scene, cam: cam, cfg: cfg})
}
