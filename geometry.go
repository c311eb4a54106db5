package glow

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Box3 is an axis-aligned bounding box in local or world space.
type Box3 struct {
	Min, Max mgl32.Vec3
}

// Size returns the extent of the box along each axis.
func (b Box3) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Geometry is an indexed triangle list with per-vertex normals and texture
// coordinates. Texture coordinates have v pointing up (v=1 is the top row of
// the image). Front faces wind counter-clockwise.
type Geometry struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint16

	bounds      Box3
	boundsDirty bool
}

// NewGeometry creates a geometry from raw vertex data. All per-vertex slices
// must have the same length.
func NewGeometry(positions, normals []mgl32.Vec3, uvs []mgl32.Vec2, indices []uint16) *Geometry {
	if len(normals) != len(positions) || len(uvs) != len(positions) {
		panic("glow: geometry attribute lengths differ")
	}
	return &Geometry{
		Positions:   positions,
		Normals:     normals,
		UVs:         uvs,
		Indices:     indices,
		boundsDirty: true,
	}
}

// NewPlaneGeometry creates a plane of the given size in the XY plane,
// centered on the origin and facing +Z, subdivided into wSeg x hSeg quads.
// Segment counts below 1 are treated as 1.
func NewPlaneGeometry(width, height float32, wSeg, hSeg int) *Geometry {
	wSeg = max(wSeg, 1)
	hSeg = max(hSeg, 1)
	gridX1 := wSeg + 1
	gridY1 := hSeg + 1
	if gridX1*gridY1 > math.MaxUint16+1 {
		panic("glow: plane has too many vertices for uint16 indices")
	}
	halfW, halfH := width/2, height/2
	segW, segH := width/float32(wSeg), height/float32(hSeg)

	n := gridX1 * gridY1
	positions := make([]mgl32.Vec3, 0, n)
	normals := make([]mgl32.Vec3, 0, n)
	uvs := make([]mgl32.Vec2, 0, n)

	// Rows run top to bottom.
	for iy := 0; iy < gridY1; iy++ {
		y := float32(iy)*segH - halfH
		for ix := 0; ix < gridX1; ix++ {
			x := float32(ix)*segW - halfW
			positions = append(positions, mgl32.Vec3{x, -y, 0})
			normals = append(normals, mgl32.Vec3{0, 0, 1})
			uvs = append(uvs, mgl32.Vec2{float32(ix) / float32(wSeg), 1 - float32(iy)/float32(hSeg)})
		}
	}

	indices := make([]uint16, 0, wSeg*hSeg*6)
	for iy := 0; iy < hSeg; iy++ {
		for ix := 0; ix < wSeg; ix++ {
			a := uint16(ix + gridX1*iy)
			b := uint16(ix + gridX1*(iy+1))
			c := uint16(ix + 1 + gridX1*(iy+1))
			d := uint16(ix + 1 + gridX1*iy)
			indices = append(indices, a, b, d, b, c, d)
		}
	}
	return NewGeometry(positions, normals, uvs, indices)
}

// Bounds returns the local-space bounding box, recomputed after
// InvalidateBounds.
func (g *Geometry) Bounds() Box3 {
	if g.boundsDirty {
		g.bounds = computeBounds(g.Positions)
		g.boundsDirty = false
	}
	return g.bounds
}

// InvalidateBounds marks the cached bounds stale. Call it after modifying
// Positions.
func (g *Geometry) InvalidateBounds() {
	g.boundsDirty = true
}

func computeBounds(ps []mgl32.Vec3) Box3 {
	if len(ps) == 0 {
		return Box3{}
	}
	b := Box3{Min: ps[0], Max: ps[0]}
	for _, p := range ps[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = min(b.Min[i], p[i])
			b.Max[i] = max(b.Max[i], p[i])
		}
	}
	return b
}
