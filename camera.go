package glow

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera supplies the view and projection transforms for a frame.
type Camera interface {
	// ViewMatrix returns the world-to-view transform.
	ViewMatrix() mgl32.Mat4
	// ProjectionMatrix returns the view-to-clip transform for a viewport of
	// the given width/height aspect ratio.
	ProjectionMatrix(aspect float32) mgl32.Mat4
	// EyePosition returns the camera position in world space.
	EyePosition() mgl32.Vec3
}

// PerspectiveCamera is a pinhole camera looking from Position at Target.
type PerspectiveCamera struct {
	// FOV is the vertical field of view in degrees.
	FOV       float32
	Near, Far float32
	Position  mgl32.Vec3
	Target    mgl32.Vec3
	Up        mgl32.Vec3
}

// NewPerspectiveCamera creates a camera at (0, 0, 5) looking at the origin.
func NewPerspectiveCamera(fov, near, far float32) *PerspectiveCamera {
	return &PerspectiveCamera{
		FOV:      fov,
		Near:     near,
		Far:      far,
		Position: mgl32.Vec3{0, 0, 5},
		Up:       mgl32.Vec3{0, 1, 0},
	}
}

// ViewMatrix implements Camera.
func (c *PerspectiveCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// ProjectionMatrix implements Camera.
func (c *PerspectiveCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// EyePosition implements Camera.
func (c *PerspectiveCamera) EyePosition() mgl32.Vec3 {
	return c.Position
}

// OrthographicCamera projects without perspective. The view volume spans
// [Left, Right] x [Bottom, Top] in view space and is not stretched to the
// viewport aspect.
type OrthographicCamera struct {
	Left, Right, Bottom, Top float32
	Near, Far                float32
	Position                 mgl32.Vec3
	Target                   mgl32.Vec3
	Up                       mgl32.Vec3
}

// NewOrthographicCamera creates a camera at (0, 0, 5) looking at the origin.
func NewOrthographicCamera(left, right, bottom, top, near, far float32) *OrthographicCamera {
	return &OrthographicCamera{
		Left: left, Right: right, Bottom: bottom, Top: top,
		Near: near, Far: far,
		Position: mgl32.Vec3{0, 0, 5},
		Up:       mgl32.Vec3{0, 1, 0},
	}
}

// ViewMatrix implements Camera.
func (c *OrthographicCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// ProjectionMatrix implements Camera.
func (c *OrthographicCamera) ProjectionMatrix(float32) mgl32.Mat4 {
	return mgl32.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
}

// EyePosition implements Camera.
func (c *OrthographicCamera) EyePosition() mgl32.Vec3 {
	return c.Position
}

// cameraState is the per-frame snapshot of a camera shared by both render
// passes, so the bloom and base images see identical transforms.
type cameraState struct {
	view     mgl32.Mat4
	proj     mgl32.Mat4
	viewProj mgl32.Mat4
	eye      mgl32.Vec3
}

func snapshotCamera(c Camera, w, h int) cameraState {
	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}
	view := c.ViewMatrix()
	proj := c.ProjectionMatrix(aspect)
	return cameraState{
		view:     view,
		proj:     proj,
		viewProj: proj.Mul4(view),
		eye:      c.EyePosition(),
	}
}
