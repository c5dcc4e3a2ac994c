package render

// Artifact is a drawn map that can be mounted on a Surface.
type Artifact interface {
	Release()
}

// Drawer paints a scene into an artifact.
type Drawer interface {
	Draw(scene *Scene) (Artifact, error)
}

// Surface holds at most one mounted artifact.
type Surface struct {
	current Artifact
}

// Mount releases the artifact currently mounted, if any, and mounts a.
func (s *Surface) Mount(a Artifact) {
	if s.current != nil {
		s.current.Release()
	}
	s.current = a
}

// Unmount releases the mounted artifact.
func (s *Surface) Unmount() {
	if s.current != nil {
		s.current.Release()
		s.current = nil
	}
}

// Current returns the mounted artifact, nil when empty.
func (s *Surface) Current() Artifact {
	return s.current
}
