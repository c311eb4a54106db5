package glow

// Scene is a flat list of objects and lights rendered together. It is the
// minimal collaborator the bloom renderer needs: add, remove, iterate, and
// per-object visibility.
type Scene struct {
	objects []*Object
	lights  []Light
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Add appends objects to the scene. An object already in another scene is
// moved. Panics on nil or disposed objects.
func (s *Scene) Add(objs ...*Object) {
	for _, o := range objs {
		if o == nil {
			panic("glow: cannot add nil object")
		}
		if o.disposed {
			panic("glow: cannot add disposed object " + o.Name)
		}
		if o.scene == s {
			continue
		}
		if o.scene != nil {
			o.scene.Remove(o)
		}
		o.scene = s
		s.objects = append(s.objects, o)
	}
}

// Remove detaches o from the scene. No-op if o is not in this scene.
func (s *Scene) Remove(o *Object) {
	if o.scene != s {
		return
	}
	for i, c := range s.objects {
		if c == o {
			copy(s.objects[i:], s.objects[i+1:])
			s.objects[len(s.objects)-1] = nil
			s.objects = s.objects[:len(s.objects)-1]
			break
		}
	}
	o.scene = nil
}

// Objects returns the object list. The returned slice MUST NOT be mutated.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// AddLight adds a light to the scene.
func (s *Scene) AddLight(l Light) {
	s.lights = append(s.lights, l)
}

// RemoveLight removes a light from the scene.
func (s *Scene) RemoveLight(l Light) {
	for i, existing := range s.lights {
		if existing == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return
		}
	}
}

// Lights returns the light list. The returned slice MUST NOT be mutated.
func (s *Scene) Lights() []Light {
	return s.lights
}
