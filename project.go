package glow

import (
	"github.com/go-gl/mathgl/mgl32"
)

// frameObject is an object's pose frozen for one frame. Both render passes
// read these snapshots so they draw identical poses.
type frameObject struct {
	obj    *Object
	model  mgl32.Mat4
	normal mgl32.Mat3 // inverse transpose of the model's upper 3x3
	depth  float32    // view-space z of the object origin
}

// snapshotObjects records the pose of every object. dst is reused.
func snapshotObjects(dst []frameObject, objs []*Object, cam *cameraState) []frameObject {
	dst = dst[:0]
	for _, o := range objs {
		m := o.ModelMatrix()
		nm := m.Mat3()
		if nm.Det() != 0 {
			nm = nm.Inv().Transpose()
		}
		origin := cam.view.Mul4x1(m.Col(3))
		dst = append(dst, frameObject{obj: o, model: m, normal: nm, depth: origin.Z()})
	}
	return dst
}

// projVert is a geometry vertex after the vertex stage.
type projVert struct {
	x, y   float32 // target pixels
	nx, ny float32 // normalized device coordinates
	ok     bool    // false when behind the near plane
	front  Color   // premultiplied shaded color for front faces
	back   Color   // same for back faces; only set for two-sided materials
}

// minClipW rejects vertices at or behind the eye of a perspective camera.
const minClipW = 1e-5

// projector runs the vertex stage for one frame and one target size.
type projector struct {
	cam     *cameraState
	lights  []Light
	w, h    float32
	scratch []projVert
}

// project transforms every vertex of fo's geometry to screen space and
// shades it. In darken mode vertices are shaded black with the material's
// opacity. The returned slice is valid until the next call.
func (p *projector) project(fo *frameObject, darken bool) []projVert {
	g := fo.obj.Geometry
	m := fo.obj.Material
	mvp := p.cam.viewProj.Mul4(fo.model)
	twoSided := m.Side != FrontSide
	alpha := clamp01(m.Color.A * m.Opacity)

	pv := p.scratch[:0]
	for i, pos := range g.Positions {
		var v projVert
		clip := mvp.Mul4x1(pos.Vec4(1))
		if w := clip.W(); w > minClipW {
			inv := 1 / w
			if clip.Z()*inv >= -1 {
				v.nx, v.ny = clip.X()*inv, clip.Y()*inv
				v.x = (v.nx*0.5 + 0.5) * p.w
				v.y = (0.5 - v.ny*0.5) * p.h
				v.ok = true
			}
		}
		if darken {
			v.front = Color{A: alpha}
			v.back = v.front
		} else {
			world := mgl32.TransformCoordinate(pos, fo.model)
			n := fo.normal.Mul3x1(g.Normals[i])
			if n.Len() > 0 {
				n = n.Normalize()
			}
			v.front = shadeVertex(m, p.lights, world, n, p.cam.eye)
			if twoSided {
				v.back = shadeVertex(m, p.lights, world, n.Mul(-1), p.cam.eye)
			}
		}
		pv = append(pv, v)
	}
	p.scratch = pv
	return pv
}

// faceVisible reports whether a triangle with the given NDC corners passes
// the material's face test, and whether it is front facing. Front faces wind
// counter-clockwise in NDC (y up). Degenerate triangles are never visible.
func faceVisible(side Side, a, b, c *projVert) (visible, front bool) {
	area := (b.nx-a.nx)*(c.ny-a.ny) - (c.nx-a.nx)*(b.ny-a.ny)
	if area == 0 {
		return false, false
	}
	front = area > 0
	switch side {
	case FrontSide:
		return front, front
	case BackSide:
		return !front, front
	}
	return true, front
}
