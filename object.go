package glow

import (
	"github.com/go-gl/mathgl/mgl32"
)

// objectIDCounter is a plain counter (no atomic; objects are created on the
// render goroutine).
var objectIDCounter uint32

func nextObjectID() uint32 {
	objectIDCounter++
	return objectIDCounter
}

// Object is a renderable scene element: a geometry drawn with a material at a
// transform. Any object can feed the bloom pass by setting BloomSource; there
// is no separate type for glowing objects.
type Object struct {
	// Identity
	ID   uint32
	Name string

	Geometry *Geometry
	Material *PhongMaterial

	// Transform (local = world; objects are not nested). Rotation is Euler
	// angles in radians applied in X, Y, Z order.
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3

	// Visible hides the object from every pass when false.
	Visible bool
	// BloomSource tags the object for the bloom pass. The zero value means
	// "not a bloom source".
	BloomSource bool

	// RenderOrder draws lower values first, before depth sorting applies.
	RenderOrder int

	UserData any

	scene    *Scene
	disposed bool
}

// NewObject creates a visible object at the origin with unit scale.
func NewObject(name string, geo *Geometry, mat *PhongMaterial) *Object {
	return &Object{
		ID:       nextObjectID(),
		Name:     name,
		Geometry: geo,
		Material: mat,
		Scale:    mgl32.Vec3{1, 1, 1},
		Visible:  true,
	}
}

// ModelMatrix returns the object's local-to-world transform:
// Translate * RotateX * RotateY * RotateZ * Scale.
func (o *Object) ModelMatrix() mgl32.Mat4 {
	m := mgl32.Translate3D(o.Position[0], o.Position[1], o.Position[2])
	if o.Rotation != (mgl32.Vec3{}) {
		m = m.Mul4(mgl32.HomogRotate3DX(o.Rotation[0]))
		m = m.Mul4(mgl32.HomogRotate3DY(o.Rotation[1]))
		m = m.Mul4(mgl32.HomogRotate3DZ(o.Rotation[2]))
	}
	return m.Mul4(mgl32.Scale3D(o.Scale[0], o.Scale[1], o.Scale[2]))
}

// WorldBounds returns the world-space AABB of the object's geometry.
func (o *Object) WorldBounds() Box3 {
	if o.Geometry == nil {
		return Box3{}
	}
	local := o.Geometry.Bounds()
	m := o.ModelMatrix()
	var corners [8]mgl32.Vec3
	for i := range corners {
		c := local.Min
		if i&1 != 0 {
			c[0] = local.Max[0]
		}
		if i&2 != 0 {
			c[1] = local.Max[1]
		}
		if i&4 != 0 {
			c[2] = local.Max[2]
		}
		corners[i] = mgl32.TransformCoordinate(c, m)
	}
	return computeBounds(corners[:])
}

// Scene returns the scene the object belongs to, or nil.
func (o *Object) Scene() *Scene {
	return o.scene
}

// Dispose removes the object from its scene and drops its geometry and
// material references. Textures are not released: they may be shared.
func (o *Object) Dispose() {
	if o.disposed {
		return
	}
	if o.scene != nil {
		o.scene.Remove(o)
	}
	o.disposed = true
	o.ID = 0
	o.Geometry = nil
	o.Material = nil
	o.UserData = nil
}

// IsDisposed returns true if this object has been disposed.
func (o *Object) IsDisposed() bool {
	return o.disposed
}
