package glow

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 3 values on an Object simultaneously. Create one
// via the convenience constructors (TweenPosition, TweenScale,
// TweenRotation, TweenEmissive) and call Update(dt) each frame, before
// rendering, so both render passes see the same pose. If the target object
// is disposed, the group stops immediately.
//
// There is no global animation manager. Users call Update themselves.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	set    func(i int, v float32)
	target *Object
	Done   bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target. If the target object has been disposed, Done is set to true and
// no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.set(i, val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Reset rewinds the group to its start values.
func (g *TweenGroup) Reset() {
	for i := 0; i < g.count; i++ {
		g.tweens[i].Reset()
		val, _ := g.tweens[i].Update(0)
		g.set(i, val)
	}
	g.Done = false
}

func tweenVec3(o *Object, field *mgl32.Vec3, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3, target: o}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(field[i], to[i], duration, fn)
	}
	g.set = func(i int, v float32) { field[i] = v }
	return g
}

// TweenPosition creates a TweenGroup that moves the object to the given
// position over the specified duration using the easing function.
func TweenPosition(o *Object, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(o, &o.Position, to, duration, fn)
}

// TweenScale creates a TweenGroup that animates the object's scale.
func TweenScale(o *Object, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(o, &o.Scale, to, duration, fn)
}

// TweenRotation creates a TweenGroup that animates the object's Euler
// rotation (radians).
func TweenRotation(o *Object, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(o, &o.Rotation, to, duration, fn)
}

// TweenEmissive creates a TweenGroup that animates the emissive intensity of
// the object's material, e.g. to pulse a bloom source. Panics if the object
// has no material.
func TweenEmissive(o *Object, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	if o.Material == nil {
		panic("glow: TweenEmissive on object without material")
	}
	m := o.Material
	g := &TweenGroup{count: 1, target: o}
	g.tweens[0] = gween.New(float32(m.EmissiveIntensity), float32(to), duration, fn)
	g.set = func(_ int, v float32) { m.EmissiveIntensity = float64(v) }
	return g
}
