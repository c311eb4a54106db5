package glow

// textureDrawable reports whether a material channel can be drawn: nil
// samples white, anything else must have finished loading. Pending and
// failed textures are blank, so they contribute nothing.
func textureDrawable(t *Texture) bool {
	return t == nil || t.state == TextureReady
}

// emitObject appends the draw commands for one object. Hidden objects and
// objects without geometry or material emit nothing.
func (r *Renderer) emitObject(fo *frameObject, darken bool, treeOrder *int) {
	o := fo.obj
	if !o.Visible || o.disposed || o.Geometry == nil || o.Material == nil {
		return
	}
	m := o.Material
	g := o.Geometry
	pv := r.proj.project(fo, darken)

	start := len(r.vertBuf)
	for i := 0; i+2 < len(g.Indices); i += 3 {
		ia, ib, ic := g.Indices[i], g.Indices[i+1], g.Indices[i+2]
		if int(ia) >= len(pv) || int(ib) >= len(pv) || int(ic) >= len(pv) {
			continue
		}
		a, b, c := &pv[ia], &pv[ib], &pv[ic]
		if !a.ok || !b.ok || !c.ok {
			continue
		}
		visible, front := faceVisible(m.Side, a, b, c)
		if !visible {
			continue
		}
		for _, idx := range [3]uint16{ia, ib, ic} {
			p := &pv[idx]
			col := p.front
			if !front {
				col = p.back
			}
			uv := g.UVs[idx]
			r.vertBuf = append(r.vertBuf, vertex{
				X: p.x, Y: p.y,
				U: uv[0], V: uv[1],
				R: float32(col.R), G: float32(col.G), B: float32(col.B), A: float32(col.A),
			})
		}
	}
	end := len(r.vertBuf)
	if end == start {
		return
	}

	if textureDrawable(m.Map) {
		*treeOrder++
		r.commands = append(r.commands, drawCommand{
			verts:       r.vertBuf[start:end],
			tex:         m.Map,
			blend:       BlendNormal,
			renderOrder: o.RenderOrder,
			depth:       fo.depth,
			treeOrder:   *treeOrder,
		})
	}

	// Emission through a texture of its own is a second, additive pass over
	// the same triangles.
	if darken || !m.emits() || m.sharedEmissive() || !textureDrawable(m.EmissiveMap) {
		return
	}
	e := emissiveVertex(m)
	for i := start; i < end; i++ {
		v := r.vertBuf[i]
		v.R, v.G, v.B, v.A = float32(e.R), float32(e.G), float32(e.B), float32(e.A)
		r.vertBuf = append(r.vertBuf, v)
	}
	*treeOrder++
	r.commands = append(r.commands, drawCommand{
		verts:       r.vertBuf[end:],
		tex:         m.EmissiveMap,
		blend:       BlendAdd,
		renderOrder: o.RenderOrder,
		depth:       fo.depth,
		treeOrder:   *treeOrder,
	})
}

// --- Merge sort ---

// commandLessOrEqual returns true if a should draw before or at the same
// position as b: lower RenderOrder first, then farther objects first.
// Using <= for treeOrder ensures stability.
func commandLessOrEqual(a, b *drawCommand) bool {
	if a.renderOrder != b.renderOrder {
		return a.renderOrder < b.renderOrder
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	return a.treeOrder <= b.treeOrder
}

// mergeSort sorts r.commands in-place using r.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (r *Renderer) mergeSort() {
	n := len(r.commands)
	if n <= 1 {
		return
	}
	if cap(r.sortBuf) < n {
		r.sortBuf = make([]drawCommand, n)
	}
	r.sortBuf = r.sortBuf[:n]

	a := r.commands
	b := r.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(r.commands, r.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []drawCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}
